package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentItem is a weak-reference projection of an item owned by an external
// subsystem (notices, study groups, ...). Collaborators push rows through the
// sync endpoint; candidate generation and title resolution read them. The
// engine must tolerate a referenced item never having been synced. No soft
// delete: the row is addressed by the (content_type, content_id) upsert key
// and a soft-deleted row would block re-insertion.
type ContentItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContentType     ContentType    `gorm:"type:varchar(32);not null;uniqueIndex:idx_content_item_key" json:"content_type"`
	ContentID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_content_item_key" json:"content_id"`
	Title           string         `gorm:"column:title" json:"title"`
	Category        string         `gorm:"column:category;index" json:"category,omitempty"`
	Tags            datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags,omitempty"`
	SourceCreatedAt *time.Time     `gorm:"column:source_created_at;index" json:"source_created_at,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (ContentItem) TableName() string { return "content_item" }
