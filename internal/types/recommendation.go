package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Recommendation is a materialized score for one content item for one user.
// At most one row exists per (user, content_type, content_id,
// recommendation_type); re-scoring upserts in place.
type Recommendation struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_recommendation_key" json:"user_id"`
	ContentType        ContentType        `gorm:"type:varchar(32);not null;uniqueIndex:idx_recommendation_key" json:"content_type"`
	ContentID          uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_recommendation_key" json:"content_id"`
	RecommendationType RecommendationType `gorm:"type:varchar(32);not null;uniqueIndex:idx_recommendation_key" json:"recommendation_type"`
	Score              float64            `gorm:"not null;default:0" json:"score"`
	Reason             string             `gorm:"column:reason" json:"reason,omitempty"`
	IsDismissed        bool               `gorm:"not null;default:false;index" json:"is_dismissed"`
	IsViewed           bool               `gorm:"not null;default:false" json:"is_viewed"`
	IsInteracted       bool               `gorm:"not null;default:false" json:"is_interacted"`
	Feedback           datatypes.JSONMap  `gorm:"type:jsonb;column:feedback" json:"feedback,omitempty"`
	ExpiresAt          *time.Time         `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt          time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null" json:"updated_at"`
}

func (Recommendation) TableName() string { return "recommendation" }
