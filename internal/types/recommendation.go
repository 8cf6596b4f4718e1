package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Recommendation is a suggested sustainability action. Scope is optional on
// both sides: user-personal, community-wide, or neither (a library/template
// recommendation).
type Recommendation struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         *uuid.UUID             `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User           *User                  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	CommunityID    *uuid.UUID             `gorm:"type:uuid;index" json:"community_id,omitempty"`
	Community      *Community             `gorm:"foreignKey:CommunityID;references:ID" json:"community,omitempty"`
	Recommendation string                 `gorm:"type:text;not null;column:recommendation" json:"recommendation"`
	Category       RecommendationCategory `gorm:"type:varchar(16);not null;column:category" json:"category"`
	Status         RecommendationStatus   `gorm:"type:varchar(16);not null;default:'PENDING';column:status" json:"status"`
	Metadata       datatypes.JSON         `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time              `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time              `gorm:"not null" json:"updated_at"`
}

func (Recommendation) TableName() string { return "recommendation" }
