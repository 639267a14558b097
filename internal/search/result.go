package search

import "time"

// Result is one search hit: a URL with its snippet, as consumed by the
// research step.
type Result struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Snippet     string    `json:"snippet"`
	Source      string    `json:"source"`
	Score       float64   `json:"score,omitempty"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// Response is the outcome of one engine query.
type Response struct {
	Query    string        `json:"query"`
	Results  []Result      `json:"results"`
	Engine   string        `json:"engine"`
	Duration time.Duration `json:"duration"`
}
