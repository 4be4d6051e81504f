package portal

import (
	"context"
	"testing"
	"time"

	"github.com/entrhq/sigaa-mcp/pkg/config"
	"github.com/entrhq/sigaa-mcp/pkg/llm"
	"github.com/entrhq/sigaa-mcp/pkg/logging"
)

// stubPage is a scripted Page implementation. Fields are plain maps so
// individual tests can set up exactly the page they need.
type stubPage struct {
	content string
	url     string
	title   string

	exists map[string]bool
	texts  map[string]string

	gotoCalls  []string
	fillCalls  map[string]string
	clickCalls []string

	gotoErr   error
	clickErr  error
	fillErr   error
	shotPaths []string
	shotErr   error
}

func newStubPage() *stubPage {
	return &stubPage{
		exists:    map[string]bool{},
		texts:     map[string]string{},
		fillCalls: map[string]string{},
	}
}

func (p *stubPage) Goto(url string) error {
	p.gotoCalls = append(p.gotoCalls, url)
	return p.gotoErr
}

func (p *stubPage) Fill(selector, value string) error {
	p.fillCalls[selector] = value
	return p.fillErr
}

func (p *stubPage) Click(selector string) error {
	p.clickCalls = append(p.clickCalls, selector)
	return p.clickErr
}

func (p *stubPage) Content() (string, error) { return p.content, nil }

func (p *stubPage) InnerText(selector string) (string, bool, error) {
	text, ok := p.texts[selector]
	return text, ok, nil
}

func (p *stubPage) Exists(selector string) (bool, error) { return p.exists[selector], nil }

func (p *stubPage) URL() string { return p.url }

func (p *stubPage) Title() (string, error) { return p.title, nil }

func (p *stubPage) Screenshot(path string) error {
	p.shotPaths = append(p.shotPaths, path)
	return p.shotErr
}

// stubLLM replies with a fixed string, or errors.
type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) Model() string { return "stub" }

// newTestManager wires a Manager over a stub page with instant waits and
// temp directories.
func newTestManager(t *testing.T, page *stubPage, provider llm.Provider) *Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := &config.Config{
		BaseURL:         "https://sigaa.ufpa.br",
		DownloadDir:     t.TempDir(),
		ScreenshotDir:   t.TempDir(),
		RecencyWindow:   2 * time.Minute,
		PollInterval:    time.Millisecond,
		DownloadTimeout: 20 * time.Millisecond,
		LoginSettle:     0,
	}

	// The shared log path latches on the first NewLogger call of the
	// process; later tests get the stderr fallback, which is fine here.
	log, _ := logging.NewLogger("test")
	t.Cleanup(func() { log.Close() })

	m := NewManager(cfg, provider, log)
	m.newPage = func() (Page, error) { return page, nil }
	m.settle = func(time.Duration) {}
	return m
}

// loggedInPage returns a stub already showing the post-login portal.
func loggedInPage() *stubPage {
	page := newStubPage()
	page.content = loginSuccessHTML
	page.url = "https://sigaa.ufpa.br/sigaa/portais/discente/discente.jsf"
	page.exists[selectorLoginSubmit] = true
	return page
}

const loginSuccessHTML = `<html><body>
<div id="painel">Portal do Discente</div>
<p>Bem-vindo</p>
<p>Nome: Maria Clara Souza</p>
<p>Matrícula: 202104940001</p>
<p>Curso: Ciência da Computação</p>
<a href="/sigaa/logOff.do">Sair</a>
</body></html>`
