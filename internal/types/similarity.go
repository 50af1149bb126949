package types

import (
	"time"

	"github.com/google/uuid"
)

// UserSimilarity caches a symmetric pairwise score between two users.
// Rows are keyed by the ordered pair (UserID1 < UserID2 as strings) plus the
// similarity type, and recomputed by batch jobs outside the hot path.
type UserSimilarity struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID1        uuid.UUID      `gorm:"column:user_id_1;type:uuid;not null;uniqueIndex:idx_user_similarity_key" json:"user_id_1"`
	UserID2        uuid.UUID      `gorm:"column:user_id_2;type:uuid;not null;uniqueIndex:idx_user_similarity_key" json:"user_id_2"`
	SimilarityType SimilarityType `gorm:"type:varchar(32);not null;uniqueIndex:idx_user_similarity_key" json:"similarity_type"`
	Score          float64        `gorm:"not null;default:0" json:"score"`
	LastCalculated time.Time      `gorm:"not null" json:"last_calculated"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserSimilarity) TableName() string { return "user_similarity" }

// ItemSimilarity caches a symmetric pairwise score between two content items
// of the same content type.
type ItemSimilarity struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContentType    ContentType    `gorm:"type:varchar(32);not null;uniqueIndex:idx_item_similarity_key" json:"content_type"`
	ContentID1     uuid.UUID      `gorm:"column:content_id_1;type:uuid;not null;uniqueIndex:idx_item_similarity_key" json:"content_id_1"`
	ContentID2     uuid.UUID      `gorm:"column:content_id_2;type:uuid;not null;uniqueIndex:idx_item_similarity_key" json:"content_id_2"`
	SimilarityType SimilarityType `gorm:"type:varchar(32);not null;uniqueIndex:idx_item_similarity_key" json:"similarity_type"`
	Score          float64        `gorm:"not null;default:0" json:"score"`
	LastCalculated time.Time      `gorm:"not null" json:"last_calculated"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (ItemSimilarity) TableName() string { return "item_similarity" }
