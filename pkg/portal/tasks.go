package portal

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/entrhq/sigaa-mcp/pkg/llm"
)

// DefaultMaxSteps bounds the custom-task action loop when the caller
// does not specify a limit.
const DefaultMaxSteps = 20

// taskAction is one model-chosen step of a custom task.
type taskAction struct {
	Action   string `json:"action"`
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
	URL      string `json:"url,omitempty"`
}

// RunCustomTask executes a free-form task against the portal: the model
// picks one action per step (click, fill or goto) until it declares the
// task done or maxSteps is reached. When extractData is set, a general
// extraction runs over the final page.
func (m *Manager) RunCustomTask(ctx context.Context, task string, maxSteps int, extractData bool) TaskResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loggedIn || m.page == nil {
		return TaskResult{Success: false, Task: task, Error: "Não está logado no SIGAA."}
	}
	if m.provider == nil {
		return TaskResult{Success: false, Task: task, Error: "Tarefas personalizadas indisponíveis sem LLM configurado."}
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	m.log.Infof("running custom task: %s", task)

	var steps []TaskStep
	for len(steps) < maxSteps {
		content, err := m.page.Content()
		if err != nil {
			return TaskResult{Success: false, Task: task, Steps: steps, Error: err.Error()}
		}

		var action taskAction
		err = llm.CompleteJSON(ctx, m.provider, llm.Request{
			System: taskSystemPrompt,
			Prompt: fmt.Sprintf(taskStepPrompt, task, len(steps), m.page.URL(), CompactHTML(content, maxLocatorMarkup)),
		}, &action)
		if err != nil {
			return TaskResult{Success: false, Task: task, Steps: steps, Error: err.Error()}
		}

		if action.Action == "done" {
			break
		}

		if err := m.applyAction(action); err != nil {
			return TaskResult{Success: false, Task: task, Steps: steps, Error: err.Error()}
		}
		steps = append(steps, TaskStep{
			Action:   action.Action,
			Selector: action.Selector,
			Value:    action.Value,
			URL:      action.URL,
		})
	}

	result := TaskResult{Success: true, Task: task, Steps: steps}
	if extractData {
		// Missing extracted text is optional enrichment, not a failure.
		extraction := m.extractLocked(ctx, "general", generalPrompt, &map[string]interface{}{})
		if extraction.Success {
			result.ExtractedData = extraction.Data
		} else {
			m.log.Warnf("post-task extraction failed: %s", extraction.Error)
		}
	}
	return result
}

func (m *Manager) applyAction(action taskAction) error {
	switch action.Action {
	case "click":
		return m.page.Click(action.Selector)
	case "fill":
		return m.page.Fill(action.Selector, action.Value)
	case "goto":
		return m.page.Goto(action.URL)
	default:
		return fmt.Errorf("unknown task action %q", action.Action)
	}
}

// GetNotifications extracts announcements and unread messages from the
// current portal page.
func (m *Manager) GetNotifications(ctx context.Context) NotificationsResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var notifications []string
	extraction := m.extractLocked(ctx, "notifications", notificationsPrompt, &notifications)
	if !extraction.Success {
		return NotificationsResult{Success: false, Error: extraction.Error}
	}

	return NotificationsResult{
		Success:       true,
		Notifications: notifications,
		Count:         len(notifications),
	}
}

// GetClassSchedule navigates to the timetable section and extracts the
// weekly schedule.
func (m *Manager) GetClassSchedule(ctx context.Context) ScheduleResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loggedIn || m.page == nil {
		return ScheduleResult{Success: false, Error: "Não está logado no SIGAA."}
	}

	err := m.clickIntentLocked(ctx, Intent{
		Purpose:   fmt.Sprintf("menu link for '%s' on the student portal", SectionPhrase("horario")),
		Selectors: []string{fmt.Sprintf("a:has-text(%q)", SectionPhrase("horario"))},
	})
	if err != nil {
		return ScheduleResult{Success: false, Error: err.Error()}
	}

	var schedule Schedule
	extraction := m.extractLocked(ctx, "schedule", schedulePrompt, &schedule)
	if !extraction.Success {
		return ScheduleResult{Success: false, Error: extraction.Error}
	}
	return ScheduleResult{Success: true, Schedule: &schedule}
}

// TakeScreenshot captures the current page into the screenshot
// directory and returns the file path. Best-effort: failures return an
// empty path.
func (m *Manager) TakeScreenshot(prefix string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page == nil {
		return ""
	}
	if prefix == "" {
		prefix = "sigaa"
	}

	filename := fmt.Sprintf("%s_%s.png", prefix, m.now().Format("20060102_150405"))
	path := filepath.Join(m.cfg.ScreenshotDir, filename)
	if err := m.page.Screenshot(path); err != nil {
		m.log.Warnf("screenshot failed: %v", err)
		return ""
	}
	return path
}
