// Package llm abstracts text-completion backends behind a single-turn
// Provider interface. Every LLM call in the system goes through it, no
// provider-specific types leak out.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Request is a single-turn completion request. No conversation state is
// retained between calls.
type Request struct {
	System      string  // sets the model's behavior/role
	User        string  // the actual content to process
	Temperature float32 // 0.0-1.0, lower is more deterministic
	MaxTokens   int     // upper bound on response length
}

// Response is what comes back from any provider
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Model        string
}

//go:generate moq -out mocks/provider.go -pkg mocks -skip-ensure -fmt goimports . Provider

// Provider is the only abstraction synthesis depends on
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}

// Error wraps any provider-level failure (auth, network, rate limit,
// malformed response). The core never retries it beyond the single
// structured-repair attempt.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsCompletionError reports whether err is a provider-level failure
func IsCompletionError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

func completionErr(provider string, format string, args ...any) error {
	return &Error{Provider: provider, Err: fmt.Errorf(format, args...)}
}
