package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplateNotFound is returned when neither a tenant-scoped nor a
// global template exists for the requested key.
var ErrTemplateNotFound = errors.New("prompt template not found")

// Store holds prompt templates keyed by name, with optional per-tenant
// overrides. It is populated during startup and read-only afterwards, so
// concurrent readers need no synchronization.
type Store struct {
	// key -> tenant id ("" for global) -> template
	templates map[string]map[string]*Template
	sealed    bool
}

// NewStore creates a store preloaded with the built-in global templates.
func NewStore() *Store {
	s := &Store{templates: make(map[string]map[string]*Template)}
	for _, t := range defaultTemplates() {
		if err := s.Register(t); err != nil {
			panic(fmt.Sprintf("invalid built-in template %s: %v", t.Key, err))
		}
	}
	return s
}

// Register adds a template. Registering after Seal is a programming error.
func (s *Store) Register(t *Template) error {
	if s.sealed {
		return fmt.Errorf("store is sealed, cannot register %q", t.Key)
	}
	key := strings.TrimSpace(t.Key)
	if key == "" {
		return fmt.Errorf("template key is required")
	}
	if strings.TrimSpace(t.Body) == "" {
		return fmt.Errorf("template %q has empty body", key)
	}
	scoped, ok := s.templates[key]
	if !ok {
		scoped = make(map[string]*Template, 1)
		s.templates[key] = scoped
	}
	scoped[t.TenantID] = t
	return nil
}

// Seal freezes the store. Called once startup registration is complete.
func (s *Store) Seal() {
	s.sealed = true
}

// Lookup resolves a template: tenant-specific first, then global.
func (s *Store) Lookup(key, tenantID string) (*Template, error) {
	scoped, ok := s.templates[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}
	if tenantID != "" {
		if t, ok := scoped[tenantID]; ok {
			return t, nil
		}
	}
	if t, ok := scoped[""]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s (tenant %s)", ErrTemplateNotFound, key, tenantID)
}

// Render resolves and renders a template in one step.
func (s *Store) Render(key, tenantID string, vars map[string]any) (string, error) {
	t, err := s.Lookup(key, tenantID)
	if err != nil {
		return "", err
	}
	return t.Render(vars)
}

// Keys returns the registered template keys, for diagnostics.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.templates))
	for k := range s.templates {
		keys = append(keys, k)
	}
	return keys
}
