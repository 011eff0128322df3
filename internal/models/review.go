package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is the local audit record of one reviewer decision.
type Review struct {
	ID         uuid.UUID `json:"id"`
	RequestID  int       `json:"request_id"`
	EntityType string    `json:"entity_type"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Non-DB field, populated via JOIN for display
	ReviewerName string `json:"reviewer_name,omitempty"`
}

// DecisionCount is the number of recorded reviews per target status.
type DecisionCount struct {
	EntityType string
	ToStatus   string
	Count      int64
}
