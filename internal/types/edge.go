package types

import (
	"time"

	"github.com/google/uuid"
)

// Edge is a directed prerequisite: target depends on source. Edges reference
// nodes by id only (weak back-reference); both endpoints must belong to the
// same recommendation, which the graph workflow enforces since storage does
// not.
type Edge struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SourceNodeID uuid.UUID `gorm:"type:uuid;not null;index" json:"source_node_id"`
	TargetNodeID uuid.UUID `gorm:"type:uuid;not null;index" json:"target_node_id"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Edge) TableName() string { return "edge" }
