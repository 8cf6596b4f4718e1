package types

import (
	"time"

	"github.com/google/uuid"
)

// Task is a discrete, user-owned checklist item under a recommendation,
// independent of the node graph. Overdue is derived at query time from
// DueDate, never stored.
type Task struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	RecommendationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"recommendation_id"`
	Recommendation   *Recommendation `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecommendationID;references:ID" json:"recommendation,omitempty"`
	TaskName         string          `gorm:"not null;column:task_name" json:"task_name"`
	DueDate          time.Time       `gorm:"not null;column:due_date" json:"due_date"`
	Status           TaskStatus      `gorm:"type:varchar(16);not null;default:'PENDING';column:status" json:"status"`
	CompletedAt      *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string { return "task" }
