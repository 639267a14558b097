package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTavilySearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["api_key"] != "key-1" {
			t.Fatalf("api_key = %v", payload["api_key"])
		}
		if payload["query"] != "golang testing" {
			t.Fatalf("query = %v", payload["query"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"title":"Testing in Go","url":"https://example.com/go","content":"a snippet","score":0.9}]}`))
	}))
	defer srv.Close()

	engine, err := NewTavilyEngine(EngineConfig{
		Name:    "tavily",
		Type:    "tavily",
		APIKey:  "key-1",
		BaseURL: srv.URL,
		Enabled: true,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	resp, err := engine.Search(context.Background(), "golang testing", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Title != "Testing in Go" || r.URL != "https://example.com/go" || r.Snippet != "a snippet" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.Source != "tavily" {
		t.Fatalf("source = %s", r.Source)
	}
}

func TestTavilySearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	engine, err := NewTavilyEngine(EngineConfig{Name: "tavily", APIKey: "bad", BaseURL: srv.URL, Enabled: true})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Search(context.Background(), "q", 3); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
