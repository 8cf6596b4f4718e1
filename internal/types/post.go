package types

import (
	"time"

	"github.com/google/uuid"
)

// Post is an ancillary community-feed row, plain CRUD semantics.
type Post struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CommunityID *uuid.UUID `gorm:"type:uuid;index" json:"community_id,omitempty"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Content     string     `gorm:"type:text;column:content" json:"content"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Post) TableName() string { return "post" }
