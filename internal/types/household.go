package types

import (
	"time"

	"github.com/google/uuid"
)

// Household is ancillary to the progress core: one optional row per user,
// plain CRUD semantics.
type Household struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Address   string    `gorm:"column:address" json:"address"`
	Residents int       `gorm:"not null;default:1;column:residents" json:"residents"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Household) TableName() string { return "household" }
