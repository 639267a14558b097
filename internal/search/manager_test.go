package search

import (
	"context"
	"errors"
	"testing"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
)

type fakeEngine struct {
	name     string
	priority int
	enabled  bool
	results  []Result
	err      error
	calls    int
}

func (e *fakeEngine) Name() string    { return e.name }
func (e *fakeEngine) Type() string    { return "fake" }
func (e *fakeEngine) IsEnabled() bool { return e.enabled }
func (e *fakeEngine) Priority() int   { return e.priority }

func (e *fakeEngine) Search(ctx context.Context, query string, limit int) (*Response, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return &Response{Query: query, Results: e.results, Engine: e.name}, nil
}

func registryWith(engines ...*fakeEngine) *Registry {
	r := NewRegistry()
	for _, e := range engines {
		engine := e
		r.Register(engine.name, func(config EngineConfig) (Engine, error) {
			return engine, nil
		})
	}
	return r
}

func managerWith(t *testing.T, engines ...*fakeEngine) *Manager {
	t.Helper()
	m, err := NewManager(config.SearchConfig{}, registryWith(engines...))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	for _, e := range engines {
		if err := m.AddEngine(EngineConfig{Name: e.name, Type: e.name}); err != nil {
			t.Fatalf("add engine %s: %v", e.name, err)
		}
	}
	return m
}

func TestSearchPriorityOrder(t *testing.T) {
	high := &fakeEngine{name: "high", priority: 1, enabled: true, results: []Result{{URL: "https://a"}}}
	low := &fakeEngine{name: "low", priority: 2, enabled: true, results: []Result{{URL: "https://b"}}}
	m := managerWith(t, low, high)

	resp, err := m.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Engine != "high" {
		t.Fatalf("engine = %s, want high", resp.Engine)
	}
	if low.calls != 0 {
		t.Fatal("lower priority engine queried although higher one succeeded")
	}
}

func TestSearchFallsBackOnError(t *testing.T) {
	broken := &fakeEngine{name: "broken", priority: 1, enabled: true, err: errors.New("upstream 500")}
	working := &fakeEngine{name: "working", priority: 2, enabled: true, results: []Result{{URL: "https://b"}}}
	m := managerWith(t, broken, working)

	resp, err := m.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Engine != "working" {
		t.Fatalf("engine = %s, want working", resp.Engine)
	}
}

func TestSearchFallsBackOnEmptyResults(t *testing.T) {
	empty := &fakeEngine{name: "empty", priority: 1, enabled: true}
	working := &fakeEngine{name: "working", priority: 2, enabled: true, results: []Result{{URL: "https://b"}}}
	m := managerWith(t, empty, working)

	resp, err := m.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Engine != "working" {
		t.Fatalf("engine = %s, want working", resp.Engine)
	}
}

func TestSearchSkipsDisabledEngines(t *testing.T) {
	disabled := &fakeEngine{name: "disabled", priority: 1, results: []Result{{URL: "https://a"}}}
	m := managerWith(t, disabled)

	if m.HasEngines() {
		t.Fatal("HasEngines() with only a disabled engine")
	}
	if _, err := m.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error with no enabled engines")
	}
	if disabled.calls != 0 {
		t.Fatal("disabled engine was queried")
	}
}

func TestSearchAllFail(t *testing.T) {
	a := &fakeEngine{name: "a", priority: 1, enabled: true, err: errors.New("down")}
	b := &fakeEngine{name: "b", priority: 2, enabled: true, err: errors.New("also down")}
	m := managerWith(t, a, b)

	if _, err := m.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error when all engines fail")
	}
}

func TestNewManagerSkipsUnconfiguredTavily(t *testing.T) {
	m, err := NewManager(config.SearchConfig{
		Engines: []config.SearchEngineConfig{
			{Name: "tavily", Type: "tavily", Enabled: true},
		},
	}, NewRegistry())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if m.HasEngines() {
		t.Fatal("tavily without an api key must be skipped")
	}
}
