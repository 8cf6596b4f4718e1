package types

import (
	"time"

	"github.com/google/uuid"
)

// Member joins a user to a community. Rows are created only as the terminal
// effect of an approved CommunityRequest; the at-most-one-per-pair invariant
// is enforced by the membership workflow, not by a stored constraint.
type Member struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CommunityID uuid.UUID  `gorm:"type:uuid;not null;index" json:"community_id"`
	Community   *Community `gorm:"constraint:OnDelete:CASCADE;foreignKey:CommunityID;references:ID" json:"community,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Member) TableName() string { return "member" }
