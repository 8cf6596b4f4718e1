package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Node is one actionable step in a recommendation's prerequisite DAG.
// Position is an opaque layout payload for the client, never interpreted
// here.
type Node struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RecommendationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"recommendation_id"`
	Recommendation   *Recommendation `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecommendationID;references:ID" json:"recommendation,omitempty"`
	Label            string          `gorm:"not null;column:label" json:"label"`
	Status           NodeStatus      `gorm:"type:varchar(16);not null;default:'NOT_STARTED';column:status" json:"status"`
	Position         datatypes.JSON  `gorm:"type:jsonb;column:position" json:"position,omitempty"`
	CompletedAt      *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`
}

func (Node) TableName() string { return "node" }
