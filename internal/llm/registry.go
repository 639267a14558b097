package llm

import (
	"fmt"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
)

// NewProvider builds a Provider from its configuration, dispatching on the
// provider type.
func NewProvider(cfg config.AIProviderConfig) (Provider, error) {
	switch cfg.Type {
	case "anthropic", "claude", "":
		return NewAnthropicProvider(AnthropicConfig{
			Name:    cfg.Name,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return NewOpenAICompatProvider(OpenAICompatConfig{
			Name:    cfg.Name,
			Type:    cfg.Type,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	}
}

// BuildManager constructs a Manager from the AI section of the config,
// instantiating the primary provider and the optional fallback.
func BuildManager(cfg config.AIConfig) (*Manager, error) {
	primaryCfg := cfg.Provider(cfg.Primary)
	if primaryCfg == nil {
		return nil, fmt.Errorf("primary AI provider %q not configured", cfg.Primary)
	}
	primary, err := NewProvider(*primaryCfg)
	if err != nil {
		return nil, fmt.Errorf("create primary provider %s: %w", cfg.Primary, err)
	}

	var fallback Provider
	if cfg.Fallback != "" {
		fallbackCfg := cfg.Provider(cfg.Fallback)
		if fallbackCfg == nil {
			return nil, fmt.Errorf("fallback AI provider %q not configured", cfg.Fallback)
		}
		fallback, err = NewProvider(*fallbackCfg)
		if err != nil {
			return nil, fmt.Errorf("create fallback provider %s: %w", cfg.Fallback, err)
		}
	}

	return NewManager(primary, fallback), nil
}
