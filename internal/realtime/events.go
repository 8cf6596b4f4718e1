package realtime

import (
	"time"

	"github.com/google/uuid"
)

const EventProgressUpdated = "progress.updated"

// ProgressEvent is published after a UserProgress row is rewritten so
// clients can refresh without polling. Delivery is best-effort; the stored
// row stays authoritative.
type ProgressEvent struct {
	Type               string    `json:"type"`
	UserID             uuid.UUID `json:"user_id"`
	RecommendationID   uuid.UUID `json:"recommendation_id"`
	ProgressPercentage float64   `json:"progress_percentage"`
	OccurredAt         time.Time `json:"occurred_at"`
}
