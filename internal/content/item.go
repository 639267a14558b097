package content

import (
	"time"

	"github.com/google/uuid"
)

// ItemState represents the review state of a generated content item.
type ItemState string

const (
	ItemStateDrafted     ItemState = "drafted"
	ItemStateUnderReview ItemState = "under_review"
	ItemStateApproved    ItemState = "approved"
	ItemStatePublished   ItemState = "published"
)

// ContentItem is the generated artifact produced from a plan. One item per
// plan; refinement iterations replace it in place.
type ContentItem struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     ItemState `json:"state"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewItem builds a drafted content item for a plan.
func NewItem(planID, title, body string, tags []string) *ContentItem {
	now := time.Now().UTC()
	return &ContentItem{
		ID:        uuid.NewString(),
		PlanID:    planID,
		Title:     title,
		Body:      body,
		State:     ItemStateDrafted,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
