package llm

import (
	"context"
	"strings"

	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
)

// Manager issues generate-text calls against a primary provider, retrying
// once against the configured fallback when the primary fails or returns
// empty content. A nil fallback disables the retry.
type Manager struct {
	primary  Provider
	fallback Provider
}

func NewManager(primary, fallback Provider) *Manager {
	return &Manager{primary: primary, fallback: fallback}
}

// HasFallback reports whether a fallback provider is configured.
func (m *Manager) HasFallback() bool {
	return m.fallback != nil
}

// PrimaryName returns the primary provider's name.
func (m *Manager) PrimaryName() string {
	return m.primary.Name()
}

// Generate calls the primary provider, falling back once on failure or
// empty output. The error from the primary is surfaced when the fallback
// also fails, wrapped with the last failure.
func (m *Manager) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	resp, err := m.primary.Generate(ctx, req)
	if err == nil && strings.TrimSpace(resp.Text) != "" {
		return resp, nil
	}

	if err != nil {
		logger.Warn("provider %s failed: %v", m.primary.Name(), err)
	} else {
		logger.Warn("provider %s returned empty content", m.primary.Name())
		err = &ProviderError{Provider: m.primary.Name(), Message: "empty generation result"}
	}

	if m.fallback == nil {
		return GenerateResponse{}, err
	}

	logger.Info("retrying generation on fallback provider %s", m.fallback.Name())
	resp, fbErr := m.fallback.Generate(ctx, req)
	if fbErr == nil && strings.TrimSpace(resp.Text) != "" {
		return resp, nil
	}
	if fbErr == nil {
		fbErr = &ProviderError{Provider: m.fallback.Name(), Message: "empty generation result"}
	}
	logger.Warn("fallback provider %s also failed: %v", m.fallback.Name(), fbErr)
	return GenerateResponse{}, fbErr
}
