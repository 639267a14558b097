package search

import "context"

// Engine is a web-search provider adapter.
type Engine interface {
	Name() string
	Type() string
	Search(ctx context.Context, query string, limit int) (*Response, error)
	IsEnabled() bool
	Priority() int
}

// EngineFactory constructs an Engine from its configuration.
type EngineFactory func(config EngineConfig) (Engine, error)

// EngineConfig configures one search engine instance.
type EngineConfig struct {
	Name     string
	Type     string
	APIKey   string
	BaseURL  string
	Enabled  bool
	Priority int
	Options  map[string]any
}
