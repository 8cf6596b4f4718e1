package types

import (
	"time"

	"github.com/google/uuid"
)

// CommunityRequest is created PENDING by a user and resolved exactly once
// by the community's leader. APPROVED and REJECTED are immutable.
type CommunityRequest struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CommunityID uuid.UUID     `gorm:"type:uuid;not null;index" json:"community_id"`
	Community   *Community    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CommunityID;references:ID" json:"community,omitempty"`
	Status      RequestStatus `gorm:"type:varchar(16);not null;default:'PENDING';column:status" json:"status"`
	RequestedAt time.Time     `gorm:"not null;column:requested_at" json:"requested_at"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

func (CommunityRequest) TableName() string { return "community_request" }
