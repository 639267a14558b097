package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlanStatus tracks a content plan through the generation loop.
type PlanStatus string

const (
	PlanStatusCreated     PlanStatus = "created"
	PlanStatusResearching PlanStatus = "researching"
	PlanStatusDrafting    PlanStatus = "drafting"
	PlanStatusValidating  PlanStatus = "validating"
	PlanStatusRefining    PlanStatus = "refining"
	PlanStatusReady       PlanStatus = "ready"
	PlanStatusFailed      PlanStatus = "failed"
)

// Terminal reports whether the status ends the generation loop.
func (s PlanStatus) Terminal() bool {
	return s == PlanStatusReady || s == PlanStatusFailed
}

// ContentPlan is a user-submitted content idea with its SEO constraints and
// iteration budget. Mutated only by the generation loop; immutable once
// ready unless explicitly reopened.
type ContentPlan struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	TargetChannels []string   `json:"target_channels,omitempty"`
	TargetAudience string     `json:"target_audience,omitempty"`
	Tone           string     `json:"tone,omitempty"`
	SEOKeywords    []string   `json:"seo_keywords,omitempty"`
	CompetitorURLs []string   `json:"competitor_urls,omitempty"`
	MinSEOScore    int        `json:"min_seo_score"`
	MaxIterations  int        `json:"max_iterations"`
	Status         PlanStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PlanSubmission carries the plan-creation boundary payload.
type PlanSubmission struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	TargetChannels []string `json:"target_channels,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	Tone           string   `json:"tone,omitempty"`
	SEOKeywords    []string `json:"seo_keywords,omitempty"`
	CompetitorURLs []string `json:"competitor_urls,omitempty"`
	MinSEOScore    int      `json:"min_seo_score"`
	MaxIterations  int      `json:"max_iterations"`
}

// NewPlan validates a submission and builds a ContentPlan in created status.
func NewPlan(sub PlanSubmission) (*ContentPlan, error) {
	if strings.TrimSpace(sub.Title) == "" {
		return nil, fmt.Errorf("plan title is required")
	}
	if sub.MinSEOScore < 0 || sub.MinSEOScore > 100 {
		return nil, fmt.Errorf("min_seo_score must be in [0,100], got %d", sub.MinSEOScore)
	}
	if sub.MaxIterations < 1 {
		return nil, fmt.Errorf("max_iterations must be positive, got %d", sub.MaxIterations)
	}

	now := time.Now().UTC()
	return &ContentPlan{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(sub.Title),
		Description:    sub.Description,
		TargetChannels: dedupeOrdered(sub.TargetChannels),
		TargetAudience: sub.TargetAudience,
		Tone:           sub.Tone,
		SEOKeywords:    dedupeOrdered(sub.SEOKeywords),
		CompetitorURLs: sub.CompetitorURLs,
		MinSEOScore:    sub.MinSEOScore,
		MaxIterations:  sub.MaxIterations,
		Status:         PlanStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Reopen puts a ready plan back into created status so it can be
// reprocessed.
func (p *ContentPlan) Reopen() {
	p.Status = PlanStatusCreated
	p.UpdatedAt = time.Now().UTC()
}

func dedupeOrdered(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
