package llm

import (
	"context"
	"fmt"
)

// GenerateRequest is the uniform request shape for the generate-text
// capability, regardless of the backing provider.
type GenerateRequest struct {
	Prompt      string
	System      string
	MaxTokens   int
	Temperature float32
}

// GenerateResponse is the uniform response shape for generate-text.
type GenerateResponse struct {
	Text  string
	Model string
}

// Provider is a text-generation provider adapter.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

// ProviderError wraps any external adapter failure (non-2xx, transport,
// malformed response) with the provider identity attached.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider %s: %s: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

const defaultMaxTokens = 4096
