package portal

import (
	"context"
	"strings"
)

// Fixed selectors for the SIGAA login form. These match the desktop
// login page; the natural-language locator covers layout drift.
const (
	selectorLoginUser   = "input[name='user.login']"
	selectorLoginPass   = "input[name='user.senha']"
	selectorLoginSubmit = "input[type='submit'][value='Entrar']"
	selectorLoginError  = ".msg-erro"
)

// successMarkers are the page-content indicators of a completed login.
// The flag is set only when one of these was observed; no independent
// re-validation happens between calls.
var successMarkers = []string{"portal do discente", "bem-vindo", "logout"}

const genericLoginError = "Falha no login. Verifique suas credenciais."

// Login authenticates against the portal. When already logged in and
// forceNew is false it returns the cached success immediately, without
// touching the browser.
//
// Step failures are converted into a structured result; Login never
// panics or returns a Go error to the caller.
func (m *Manager) Login(ctx context.Context, username, password string, forceNew bool) LoginResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loggedIn && !forceNew {
		return LoginResult{
			Success:  true,
			Message:  "Já logado no SIGAA",
			LoggedIn: true,
			UserInfo: m.userInfo,
		}
	}

	m.log.Infof("starting SIGAA login")

	page, err := m.ensurePage()
	if err != nil {
		return loginFailure(err.Error())
	}

	if err := page.Goto(m.cfg.LoginURL()); err != nil {
		return loginFailure(err.Error())
	}
	if err := page.Fill(selectorLoginUser, username); err != nil {
		return loginFailure(err.Error())
	}
	if err := page.Fill(selectorLoginPass, password); err != nil {
		return loginFailure(err.Error())
	}

	submit, err := m.locator.Locate(ctx, page, Intent{
		Purpose:   "login submit button",
		Selectors: []string{selectorLoginSubmit, "input[type='submit']"},
	})
	if err != nil {
		return loginFailure(err.Error())
	}
	if err := page.Click(submit); err != nil {
		return loginFailure(err.Error())
	}

	// The portal redirects through a couple of pages after submit.
	m.settle(m.cfg.LoginSettle)

	content, err := page.Content()
	if err != nil {
		return loginFailure(err.Error())
	}

	if loginSucceeded(content, page.URL()) {
		m.loggedIn = true
		m.userInfo = ExtractStudentInfo(PageText(content))
		m.log.Infof("login succeeded")
		return LoginResult{
			Success:  true,
			Message:  "Login realizado com sucesso.",
			LoggedIn: true,
			UserInfo: m.userInfo,
		}
	}

	// Best-effort scrape of the portal's own error message.
	message := genericLoginError
	if text, found, err := page.InnerText(selectorLoginError); err == nil && found {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			message = trimmed
		}
	}
	m.log.Warnf("login failed: %s", message)
	return loginFailure(message)
}

func loginSucceeded(content, url string) bool {
	lower := strings.ToLower(content)
	for _, marker := range successMarkers {
		if strings.Contains(lower, marker) {
			return strings.Contains(strings.ToLower(url), "discente")
		}
	}
	return false
}

func loginFailure(message string) LoginResult {
	return LoginResult{Success: false, Error: message, LoggedIn: false}
}

// IsLoggedIn is a pure read of the in-memory flag; no freshness check.
func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

// Logout clicks the portal's sign-out control and resets local state.
// The local state is reset even when the click cannot be confirmed.
func (m *Manager) Logout(ctx context.Context) LogoutResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loggedIn || m.page == nil {
		m.loggedIn = false
		return LogoutResult{Success: true, Message: "Nenhuma sessão ativa para fazer logout."}
	}

	m.log.Infof("logging out")

	var clickErr error
	selector, err := m.locator.Locate(ctx, m.page, Intent{
		Purpose:   "sign-out link to end the session",
		Selectors: []string{"a[href*='logOff']", "a:has-text('Sair')"},
	})
	if err != nil {
		clickErr = err
	} else {
		clickErr = m.page.Click(selector)
	}

	// State resets unconditionally; a failed click still ends the local
	// session and the browser is released.
	m.cleanupLocked()

	if clickErr != nil {
		return LogoutResult{Success: false, Error: clickErr.Error()}
	}
	return LogoutResult{Success: true, Message: "Logout realizado com sucesso."}
}

// Status reports the session state. Pure read, no side effects, never
// fails; before any login attempt it reports logged_in=false.
func (m *Manager) Status() StatusResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := StatusResult{
		Success:     true,
		LoggedIn:    m.loggedIn,
		UserInfo:    m.userInfo,
		AgentActive: m.page != nil,
	}
	if m.page != nil {
		url := m.page.URL()
		status.CurrentURL = url
		status.OnPortal = strings.Contains(url, m.cfg.PortalHost())
	}
	return status
}
