package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/sigaa-mcp/pkg/llm"
)

// ErrElementNotFound is returned when no location strategy could resolve
// an intent to an element on the current page.
var ErrElementNotFound = errors.New("element not found")

// Intent describes a UI control the caller wants to act on.
type Intent struct {
	// Purpose is a human description of the control, used in error
	// messages and in the natural-language fallback prompt.
	Purpose string

	// Selectors are deterministic candidates tried in order before any
	// fallback strategy runs.
	Selectors []string
}

// Locator resolves an Intent to a selector usable on the given page.
//
// Strategies are composed with NewChainLocator: the deterministic
// selector strategy runs first and the natural-language strategy is an
// injected fallback, which keeps the core testable by substituting a
// fake locator.
type Locator interface {
	Locate(ctx context.Context, page Page, intent Intent) (string, error)
}

// selectorLocator tries the intent's fixed selector candidates in order.
type selectorLocator struct{}

// NewSelectorLocator returns the deterministic selector strategy.
func NewSelectorLocator() Locator {
	return &selectorLocator{}
}

func (l *selectorLocator) Locate(ctx context.Context, page Page, intent Intent) (string, error) {
	for _, selector := range intent.Selectors {
		found, err := page.Exists(selector)
		if err != nil {
			continue // malformed candidate, try the next one
		}
		if found {
			return selector, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrElementNotFound, intent.Purpose)
}

// llmLocator asks the model for a CSS selector given the cleaned page
// markup and the intent's purpose.
type llmLocator struct {
	provider llm.Provider
}

// NewLLMLocator returns the natural-language fallback strategy.
func NewLLMLocator(provider llm.Provider) Locator {
	return &llmLocator{provider: provider}
}

func (l *llmLocator) Locate(ctx context.Context, page Page, intent Intent) (string, error) {
	if l.provider == nil {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, intent.Purpose)
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, intent.Purpose)
	}

	reply, err := l.provider.Complete(ctx, llm.Request{
		System: locatorSystemPrompt,
		Prompt: fmt.Sprintf("Control: %s\n\nPage markup:\n%s", intent.Purpose, CompactHTML(content, maxLocatorMarkup)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, intent.Purpose)
	}

	selector := strings.TrimSpace(llm.StripFences(reply))
	if selector == "" || strings.EqualFold(selector, "none") {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, intent.Purpose)
	}

	found, err := page.Exists(selector)
	if err != nil || !found {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, intent.Purpose)
	}
	return selector, nil
}

// chainLocator tries each strategy in order, returning the first hit.
type chainLocator struct {
	strategies []Locator
}

// NewChainLocator composes strategies; the first successful one wins.
func NewChainLocator(strategies ...Locator) Locator {
	return &chainLocator{strategies: strategies}
}

func (l *chainLocator) Locate(ctx context.Context, page Page, intent Intent) (string, error) {
	for _, strategy := range l.strategies {
		selector, err := strategy.Locate(ctx, page, intent)
		if err == nil {
			return selector, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrElementNotFound, intent.Purpose)
}
