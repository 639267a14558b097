package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
)

// Manager holds the configured search engines and queries them in
// priority order until one returns results.
type Manager struct {
	registry *Registry
	engines  map[string]Engine
	mu       sync.RWMutex
}

func NewManager(cfg config.SearchConfig, registry *Registry) (*Manager, error) {
	m := &Manager{
		registry: registry,
		engines:  make(map[string]Engine),
	}

	for _, engineCfg := range cfg.Engines {
		if !engineCfg.Enabled {
			continue
		}
		if engineCfg.Type == "tavily" && engineCfg.APIKey == "" {
			continue
		}
		engine, err := registry.CreateEngine(EngineConfig{
			Name:     engineCfg.Name,
			Type:     engineCfg.Type,
			APIKey:   engineCfg.APIKey,
			BaseURL:  engineCfg.BaseURL,
			Enabled:  engineCfg.Enabled,
			Priority: engineCfg.Priority,
			Options:  engineCfg.Options,
		})
		if err != nil {
			return nil, err
		}
		m.engines[engineCfg.Name] = engine
	}

	return m, nil
}

func (m *Manager) AddEngine(config EngineConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	engine, err := m.registry.CreateEngine(config)
	if err != nil {
		return err
	}

	m.engines[config.Name] = engine
	return nil
}

func (m *Manager) ListEngines() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.engines))
	for name := range m.engines {
		names = append(names, name)
	}
	return names
}

// HasEngines reports whether any enabled engine is available.
func (m *Manager) HasEngines() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.engines {
		if e.IsEnabled() {
			return true
		}
	}
	return false
}

// Search queries engines in ascending priority order, returning the first
// non-empty response. The last engine error is surfaced when all fail.
func (m *Manager) Search(ctx context.Context, query string, limit int) (*Response, error) {
	m.mu.RLock()
	engines := make([]Engine, 0, len(m.engines))
	for _, e := range m.engines {
		if e.IsEnabled() {
			engines = append(engines, e)
		}
	}
	m.mu.RUnlock()

	if len(engines) == 0 {
		return nil, fmt.Errorf("no available search engine")
	}

	for i := range engines {
		for j := i + 1; j < len(engines); j++ {
			if engines[i].Priority() > engines[j].Priority() {
				engines[i], engines[j] = engines[j], engines[i]
			}
		}
	}

	var lastErr error
	for _, engine := range engines {
		resp, err := engine.Search(ctx, query, limit)
		if err == nil && len(resp.Results) > 0 {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("all search engines returned no results")
}
