package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type ContentCount struct {
	ContentID uuid.UUID
	Count     int64
}

type InteractionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ContentInteraction) (*types.ContentInteraction, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, limit int) ([]*types.ContentInteraction, error)
	ListAll(ctx context.Context, tx *gorm.DB, contentType types.ContentType) ([]*types.ContentInteraction, error)
	InteractedContentIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType) ([]uuid.UUID, error)
	CountsByContent(ctx context.Context, tx *gorm.DB, contentType types.ContentType, contentIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CountsByContentSince(ctx context.Context, tx *gorm.DB, contentType types.ContentType, contentIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int64, error)
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	repoLog := baseLog.With("repo", "InteractionRepo")
	return &interactionRepo{db: db, log: repoLog}
}

func (r *interactionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ContentInteraction) (*types.ContentInteraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *interactionRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, limit int) ([]*types.ContentInteraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentInteraction
	if userID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("user_id = ? AND content_type = ?", userID, contentType).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionRepo) ListAll(ctx context.Context, tx *gorm.DB, contentType types.ContentType) ([]*types.ContentInteraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentInteraction
	q := transaction.WithContext(ctx)
	if contentType != "" {
		q = q.Where("content_type = ?", contentType)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionRepo) InteractedContentIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ContentInteraction{}).
		Distinct("content_id").
		Where("user_id = ? AND content_type = ?", userID, contentType).
		Pluck("content_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *interactionRepo) CountsByContent(ctx context.Context, tx *gorm.DB, contentType types.ContentType, contentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.counts(ctx, tx, contentType, contentIDs, nil)
}

func (r *interactionRepo) CountsByContentSince(ctx context.Context, tx *gorm.DB, contentType types.ContentType, contentIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int64, error) {
	return r.counts(ctx, tx, contentType, contentIDs, &since)
}

func (r *interactionRepo) counts(ctx context.Context, tx *gorm.DB, contentType types.ContentType, contentIDs []uuid.UUID, since *time.Time) (map[uuid.UUID]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	out := make(map[uuid.UUID]int64, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}

	q := transaction.WithContext(ctx).
		Model(&types.ContentInteraction{}).
		Select("content_id, COUNT(*) AS count").
		Where("content_type = ? AND content_id IN ?", contentType, contentIDs).
		Group("content_id")
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var rows []ContentCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ContentID] = row.Count
	}
	return out, nil
}
