package portal

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/sigaa-mcp/pkg/llm"
)

// sectionPhrases maps section tokens to the menu phrasing used on the
// student portal. Unknown sections are used verbatim.
var sectionPhrases = map[string]string{
	"notas":        "Consultar Notas Finais",
	"historico":    "Histórico Acadêmico",
	"matricula":    "Matrícula Online",
	"comprovantes": "Emissão de Comprovantes e Declarações",
	"atestados":    "Atestado de Matrícula",
	"horario":      "Meu Horário de Aulas",
}

// SectionPhrase resolves a section token to its menu phrase.
func SectionPhrase(section string) string {
	if phrase, ok := sectionPhrases[strings.ToLower(section)]; ok {
		return phrase
	}
	return section
}

// NavigateSection finds and clicks the menu entry for the given portal
// section.
func (m *Manager) NavigateSection(ctx context.Context, section string) NavigationResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loggedIn || m.page == nil {
		return NavigationResult{Success: false, Section: section, Error: "Não está logado no SIGAA."}
	}

	phrase := SectionPhrase(section)
	m.log.Infof("navigating to section %q (%q)", section, phrase)

	err := m.clickIntentLocked(ctx, Intent{
		Purpose:   fmt.Sprintf("menu link for '%s' on the student portal", phrase),
		Selectors: []string{fmt.Sprintf("a:has-text(%q)", phrase)},
	})
	if err != nil {
		return NavigationResult{Success: false, Section: section, Error: err.Error()}
	}

	return NavigationResult{
		Success:    true,
		Section:    section,
		Message:    fmt.Sprintf("Navegação para a seção '%s' concluída.", section),
		CurrentURL: m.page.URL(),
	}
}

// ExtractGrades pulls the course grades off the current page.
func (m *Manager) ExtractGrades(ctx context.Context) ExtractionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	var grades []Grade
	return m.extractLocked(ctx, "grades", gradesPrompt, &grades)
}

// ExtractTranscript pulls the full academic transcript off the current
// page.
func (m *Manager) ExtractTranscript(ctx context.Context) ExtractionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	var subjects []Subject
	return m.extractLocked(ctx, "transcript", transcriptPrompt, &subjects)
}

// ExtractEnrollment pulls current enrollment information off the current
// page.
func (m *Manager) ExtractEnrollment(ctx context.Context) ExtractionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := map[string]interface{}{}
	return m.extractLocked(ctx, "enrollment", enrollmentPrompt, &data)
}

// ExtractGeneral pulls whatever structured information the model finds
// on the current page.
func (m *Manager) ExtractGeneral(ctx context.Context) ExtractionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := map[string]interface{}{}
	return m.extractLocked(ctx, "general", generalPrompt, &data)
}

// clickIntentLocked resolves an intent and clicks the resulting element.
// Called with the manager lock held.
func (m *Manager) clickIntentLocked(ctx context.Context, intent Intent) error {
	selector, err := m.locator.Locate(ctx, m.page, intent)
	if err != nil {
		return err
	}
	return m.page.Click(selector)
}

// extractLocked runs a structured extraction over the current page text.
// out must be a pointer; on success it carries the decoded data. Called
// with the manager lock held.
func (m *Manager) extractLocked(ctx context.Context, kind, prompt string, out interface{}) ExtractionResult {
	if m.page == nil {
		return ExtractionResult{Success: false, Type: kind, Error: "Sessão não inicializada."}
	}
	if m.provider == nil {
		return ExtractionResult{Success: false, Type: kind, Error: "Extração estruturada indisponível sem LLM configurado."}
	}

	content, err := m.page.Content()
	if err != nil {
		return ExtractionResult{Success: false, Type: kind, Error: err.Error()}
	}

	err = llm.CompleteJSON(ctx, m.provider, llm.Request{
		System: extractionSystemPrompt,
		Prompt: fmt.Sprintf(prompt, PageText(content)),
	}, out)
	if err != nil {
		m.log.Warnf("%s extraction failed: %v", kind, err)
		return ExtractionResult{Success: false, Type: kind, Error: err.Error()}
	}

	return ExtractionResult{Success: true, Type: kind, Data: out}
}
