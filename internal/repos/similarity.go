package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type SimilarityRepo interface {
	UpsertUserPairs(ctx context.Context, tx *gorm.DB, rows []*types.UserSimilarity) error
	UpsertItemPairs(ctx context.Context, tx *gorm.DB, rows []*types.ItemSimilarity) error
	ItemScoresFor(ctx context.Context, tx *gorm.DB, contentType types.ContentType, similarityType types.SimilarityType, contentID uuid.UUID) ([]*types.ItemSimilarity, error)
	UserScoresFor(ctx context.Context, tx *gorm.DB, similarityType types.SimilarityType, userID uuid.UUID) ([]*types.UserSimilarity, error)
}

type similarityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSimilarityRepo(db *gorm.DB, baseLog *logger.Logger) SimilarityRepo {
	repoLog := baseLog.With("repo", "SimilarityRepo")
	return &similarityRepo{db: db, log: repoLog}
}

func (r *similarityRepo) UpsertUserPairs(ctx context.Context, tx *gorm.DB, rows []*types.UserSimilarity) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id_1"}, {Name: "user_id_2"}, {Name: "similarity_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "last_calculated", "updated_at"}),
		}).
		CreateInBatches(&rows, 500).Error
}

func (r *similarityRepo) UpsertItemPairs(ctx context.Context, tx *gorm.DB, rows []*types.ItemSimilarity) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_type"}, {Name: "content_id_1"}, {Name: "content_id_2"}, {Name: "similarity_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "last_calculated", "updated_at"}),
		}).
		CreateInBatches(&rows, 500).Error
}

// ItemScoresFor returns every cached pair that touches the given item. Rows
// are an eventually-consistent cache; callers degrade to a default affinity
// when nothing is found.
func (r *similarityRepo) ItemScoresFor(ctx context.Context, tx *gorm.DB, contentType types.ContentType, similarityType types.SimilarityType, contentID uuid.UUID) ([]*types.ItemSimilarity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ItemSimilarity
	err := transaction.WithContext(ctx).
		Where("content_type = ? AND similarity_type = ?", contentType, similarityType).
		Where("content_id_1 = ? OR content_id_2 = ?", contentID, contentID).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *similarityRepo) UserScoresFor(ctx context.Context, tx *gorm.DB, similarityType types.SimilarityType, userID uuid.UUID) ([]*types.UserSimilarity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserSimilarity
	err := transaction.WithContext(ctx).
		Where("similarity_type = ?", similarityType).
		Where("user_id_1 = ? OR user_id_2 = ?", userID, userID).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
