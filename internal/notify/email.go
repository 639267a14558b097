package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
)

const defaultEmailBaseURL = "https://api.resend.com"

// Email delivers announcements through a Resend-compatible HTTP API.
type Email struct {
	baseURL string
	apiKey  string
	from    string
	to      string
	client  *http.Client
}

func NewEmail(cfg config.EmailNotifyConfig) *Email {
	base := cfg.BaseURL
	if base == "" {
		base = defaultEmailBaseURL
	}
	return &Email{
		baseURL: base,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		to:      cfg.To,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Notify(ctx context.Context, subject, body string) {
	payload, err := json.Marshal(map[string]any{
		"from":    e.from,
		"to":      []string{e.to},
		"subject": subject,
		"text":    body,
	})
	if err != nil {
		logger.Warn("email notify payload: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		logger.Warn("email notify request: %v", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		logger.Warn("email notify to %s failed: %v", e.to, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		logger.Warn("email notify to %s failed: status %d", e.to, resp.StatusCode)
	}
}
