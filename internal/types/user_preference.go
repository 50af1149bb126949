package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserPreference is the per-user, per-content-type profile read by the
// scorer. Created lazily on first read or first write.
//
// Preferences carries a free-form category/tag weighting map; the scorer
// reads its "categories" key as the preferred-categories list.
// WeightPreferences may override the four scoring weights (relevance /
// popularity / recency / interaction).
type UserPreference struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_user_preference_key" json:"user_id"`
	ContentType       ContentType       `gorm:"type:varchar(32);not null;uniqueIndex:idx_user_preference_key" json:"content_type"`
	Preferences       datatypes.JSONMap `gorm:"type:jsonb;column:preferences" json:"preferences"`
	Interests         datatypes.JSON    `gorm:"type:jsonb;column:interests" json:"interests"`
	BehaviorPatterns  datatypes.JSONMap `gorm:"type:jsonb;column:behavior_patterns" json:"behavior_patterns"`
	WeightPreferences datatypes.JSONMap `gorm:"type:jsonb;column:weight_preferences" json:"weight_preferences"`
	CreatedAt         time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null" json:"updated_at"`
}

func (UserPreference) TableName() string { return "user_preference" }
