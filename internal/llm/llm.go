package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers that rewrite resumes.
type Client interface {
	RewriteResume(ctx context.Context, input RewriteInput) (string, error)
}

// RewriteInput captures the inputs for a tailored rewrite.
type RewriteInput struct {
	ResumeText     string
	JobDescription string
	PromptVersion  string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// RewriteResume returns ErrNotConfigured.
func (PlaceholderClient) RewriteResume(ctx context.Context, input RewriteInput) (string, error) {
	return "", ErrNotConfigured
}
