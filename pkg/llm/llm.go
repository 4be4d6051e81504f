// Package llm provides the LLM provider abstraction used for
// natural-language element lookup and structured page extraction.
//
// Providers handle API communication only; prompt construction and
// response parsing belong to the callers. This keeps providers reusable
// and trivially mockable in tests.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a single completion request. System may be empty.
type Request struct {
	System string
	Prompt string
}

// Provider defines the interface for LLM integrations.
type Provider interface {
	// Complete sends the request and returns the full response text.
	Complete(ctx context.Context, req Request) (string, error)

	// Model returns the model name being used.
	Model() string
}

// CompleteJSON runs a completion and unmarshals the reply into out.
// Model replies are frequently wrapped in markdown fences; those are
// stripped before decoding.
func CompleteJSON(ctx context.Context, p Provider, req Request, out interface{}) error {
	raw, err := p.Complete(ctx, req)
	if err != nil {
		return err
	}

	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("failed to decode model reply as JSON: %w", err)
	}
	return nil
}

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, "{}[]") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
