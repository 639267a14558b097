package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// CustomHTTPEngine queries any JSON search endpoint that accepts
// ?q=<query>&limit=<n> and returns {"results":[{title,url,snippet}]}.
// Useful for self-hosted search (SearxNG-style gateways).
type CustomHTTPEngine struct {
	name     string
	apiKey   string
	baseURL  string
	enabled  bool
	priority int
	client   *http.Client
}

func NewCustomHTTPEngine(config EngineConfig) (Engine, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("custom engine %q requires base_url", config.Name)
	}
	return &CustomHTTPEngine{
		name:     config.Name,
		apiKey:   config.APIKey,
		baseURL:  config.BaseURL,
		enabled:  config.Enabled,
		priority: config.Priority,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *CustomHTTPEngine) Name() string {
	return e.name
}

func (e *CustomHTTPEngine) Type() string {
	return "custom"
}

func (e *CustomHTTPEngine) IsEnabled() bool {
	return e.enabled
}

func (e *CustomHTTPEngine) Priority() int {
	return e.priority
}

func (e *CustomHTTPEngine) Search(ctx context.Context, query string, limit int) (*Response, error) {
	startTime := time.Now()

	u, err := url.Parse(e.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, err
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("custom engine %s returned status %d", e.name, resp.StatusCode)
	}

	var apiResponse struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]Result, 0, len(apiResponse.Results))
	retrievedAt := time.Now()
	for _, r := range apiResponse.Results {
		results = append(results, Result{
			Title:       r.Title,
			URL:         r.URL,
			Snippet:     r.Snippet,
			Source:      e.name,
			RetrievedAt: retrievedAt,
		})
	}

	return &Response{
		Query:    query,
		Results:  results,
		Engine:   e.name,
		Duration: time.Since(startTime),
	}, nil
}
