// Package portal drives an authenticated browser session against the
// SIGAA academic portal: login, section navigation, document retrieval
// and structured page extraction.
//
// A process owns exactly one live session. Every operation that touches
// the browser is serialized by the manager's mutex, so concurrent tool
// calls queue up instead of racing on the shared page.
package portal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/sigaa-mcp/pkg/config"
	"github.com/entrhq/sigaa-mcp/pkg/llm"
	"github.com/entrhq/sigaa-mcp/pkg/logging"
)

// Manager owns the single browser session and tracks its login state.
type Manager struct {
	mu  sync.Mutex
	cfg *config.Config
	log *logging.Logger

	provider llm.Provider
	locator  Locator

	pw         *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	page       Page

	loggedIn bool
	userInfo UserInfo

	// Test seams. newPage replaces the Playwright launch path, settle
	// replaces fixed waits and now feeds the download recency check.
	newPage func() (Page, error)
	settle  func(time.Duration)
	now     fileClock
}

// NewManager creates a manager. The provider may be nil, in which case
// the natural-language locator fallback and structured extraction are
// unavailable and only fixed-selector operations work.
func NewManager(cfg *config.Config, provider llm.Provider, log *logging.Logger) *Manager {
	m := &Manager{
		cfg:      cfg,
		log:      log,
		provider: provider,
		settle:   time.Sleep,
		now:      time.Now,
	}
	m.newPage = m.launchPage
	m.locator = NewChainLocator(NewSelectorLocator(), NewLLMLocator(provider))
	return m
}

// Initialize installs and starts Playwright. Must be called before any
// operation that drives the browser; operations that only read state
// (Status, IsLoggedIn) work without it.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pw != nil {
		return nil
	}

	// Discard driver output: stdout belongs to the MCP transport.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.pw = pw
	m.log.Infof("playwright started")
	return nil
}

// launchPage starts the browser and opens the session page. Called with
// the manager lock held.
func (m *Manager) launchPage() (Page, error) {
	if m.pw == nil {
		return nil, fmt.Errorf("session manager not initialized")
	}

	browser, err := m.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless:      playwright.Bool(m.cfg.Headless),
		DownloadsPath: playwright.String(m.cfg.DownloadDir),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	m.browser = browser
	m.browserCtx = browserCtx
	return newPlaywrightPage(page), nil
}

// ensurePage returns the live session page, creating it on first use.
// Called with the manager lock held.
func (m *Manager) ensurePage() (Page, error) {
	if m.page != nil {
		return m.page, nil
	}
	page, err := m.newPage()
	if err != nil {
		return nil, err
	}
	m.page = page
	return page, nil
}

// Cleanup releases the browser resources. Idempotent and safe to call
// when the session was never initialized.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupLocked()
}

func (m *Manager) cleanupLocked() {
	if m.browserCtx != nil {
		_ = m.browserCtx.Close()
		m.browserCtx = nil
	}
	if m.browser != nil {
		_ = m.browser.Close()
		m.browser = nil
	}
	m.page = nil
	m.loggedIn = false
	m.userInfo = UserInfo{}
}

// Shutdown tears down the session and stops Playwright.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupLocked()
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			m.log.Warnf("failed to stop playwright: %v", err)
		}
		m.pw = nil
	}
}
