package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress is the canonical completion signal for one user on one
// recommendation: one logical row per pair, percentage always derived fresh
// from node/task state, never incremented.
type UserProgress struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_user_recommendation,unique" json:"user_id"`
	User               *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	RecommendationID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_user_recommendation,unique" json:"recommendation_id"`
	Recommendation     *Recommendation `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecommendationID;references:ID" json:"recommendation,omitempty"`
	ProgressPercentage float64         `gorm:"not null;default:0;column:progress_percentage" json:"progress_percentage"`
	LastUpdated        time.Time       `gorm:"not null;column:last_updated" json:"last_updated"`
	CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }
