package types

import (
	"time"

	"github.com/google/uuid"
)

// Community is led by exactly one user. The leader carrying the
// COMMUNITY_LEADER role is convention, not a storage constraint.
type Community struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	LeaderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"leader_id"`
	Leader      *User     `gorm:"foreignKey:LeaderID;references:ID" json:"leader,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Community) TableName() string { return "community" }
