package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type ContentItemRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ContentItem) (*types.ContentItem, error)
	ListByType(ctx context.Context, tx *gorm.DB, contentType types.ContentType, excludeIDs []uuid.UUID, limit int) ([]*types.ContentItem, error)
	TitlesFor(ctx context.Context, tx *gorm.DB, contentType types.ContentType, contentIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type contentItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentItemRepo(db *gorm.DB, baseLog *logger.Logger) ContentItemRepo {
	repoLog := baseLog.With("repo", "ContentItemRepo")
	return &contentItemRepo{db: db, log: repoLog}
}

func (r *contentItemRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ContentItem) (*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_type"}, {Name: "content_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "category", "tags", "source_created_at", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ListByType returns the candidate pool for one content type, newest first,
// with the caller's already-interacted items excluded.
func (r *contentItemRepo) ListByType(ctx context.Context, tx *gorm.DB, contentType types.ContentType, excludeIDs []uuid.UUID, limit int) ([]*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentItem
	q := transaction.WithContext(ctx).
		Where("content_type = ?", contentType).
		Order("COALESCE(source_created_at, created_at) DESC")
	if len(excludeIDs) > 0 {
		q = q.Where("content_id NOT IN ?", excludeIDs)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentItemRepo) TitlesFor(ctx context.Context, tx *gorm.DB, contentType types.ContentType, contentIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	out := make(map[uuid.UUID]string, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}

	var rows []*types.ContentItem
	err := transaction.WithContext(ctx).
		Select("content_id", "title").
		Where("content_type = ? AND content_id IN ?", contentType, contentIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ContentID] = row.Title
	}
	return out, nil
}
