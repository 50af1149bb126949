package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentInteraction is an append-only log row. No uniqueness constraint: a
// user may view the same item any number of times. This is the ground truth
// for popularity, trending and recency signals.
type ContentInteraction struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index:idx_interaction_user" json:"user_id"`
	ContentType     ContentType       `gorm:"type:varchar(32);not null;index:idx_interaction_user;index:idx_interaction_content" json:"content_type"`
	ContentID       uuid.UUID         `gorm:"type:uuid;not null;index:idx_interaction_content" json:"content_id"`
	InteractionType InteractionType   `gorm:"type:varchar(32);not null" json:"interaction_type"`
	Rating          *int              `gorm:"column:rating" json:"rating,omitempty"`
	DurationSeconds *int              `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentInteraction) TableName() string { return "content_interaction" }
