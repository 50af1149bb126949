package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

// RecommendationQuery filters GetForUser results. Expired rows are always
// excluded.
type RecommendationQuery struct {
	UserID             uuid.UUID
	ContentType        types.ContentType
	RecommendationType types.RecommendationType
	Limit              int
	ExcludeDismissed   bool
	ExcludeViewed      bool
}

type RecommendationRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, rows []*types.Recommendation) error
	GetForUser(ctx context.Context, tx *gorm.DB, q RecommendationQuery) ([]*types.Recommendation, error)
	Find(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, recommendationType types.RecommendationType) (*types.Recommendation, error)
	MarkInteracted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, viewed bool) error
	SetDismissed(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	SetFeedback(ctx context.Context, tx *gorm.DB, id uuid.UUID, feedback datatypes.JSONMap) error
	PurgeStale(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error)
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	repoLog := baseLog.With("repo", "RecommendationRepo")
	return &recommendationRepo{db: db, log: repoLog}
}

// Upsert inserts rows keyed by (user_id, content_type, content_id,
// recommendation_type). On conflict the stored score only ever increases:
// score and reason are replaced when the incoming score is higher, otherwise
// the row keeps its previous values. The comparison happens inside the upsert
// statement itself, so concurrent materialization passes for the same user
// cannot race a read-then-write.
func (r *recommendationRepo) Upsert(ctx context.Context, tx *gorm.DB, rows []*types.Recommendation) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "content_type"},
				{Name: "content_id"},
				{Name: "recommendation_type"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"reason":     gorm.Expr("CASE WHEN excluded.score > score THEN excluded.reason ELSE reason END"),
				"expires_at": gorm.Expr("CASE WHEN excluded.score > score THEN excluded.expires_at ELSE expires_at END"),
				"score":      gorm.Expr("CASE WHEN excluded.score > score THEN excluded.score ELSE score END"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&rows).Error
	if err != nil {
		r.log.Warn("recommendation upsert failed", "rows", len(rows), "error", err)
		return err
	}
	return nil
}

func (r *recommendationRepo) GetForUser(ctx context.Context, tx *gorm.DB, q RecommendationQuery) ([]*types.Recommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Recommendation
	if q.UserID == uuid.Nil {
		return results, nil
	}

	query := transaction.WithContext(ctx).
		Where("user_id = ? AND content_type = ?", q.UserID, q.ContentType).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC())
	if q.RecommendationType != "" {
		query = query.Where("recommendation_type = ?", q.RecommendationType)
	}
	if q.ExcludeDismissed {
		query = query.Where("is_dismissed = ?", false)
	}
	if q.ExcludeViewed {
		query = query.Where("is_viewed = ?", false)
	}
	query = query.Order("score DESC").Order("created_at DESC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Find returns the newest matching row, or nil when none exists. Absence is
// an expected steady state for dismiss/feedback calls, not an error.
func (r *recommendationRepo) Find(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, recommendationType types.RecommendationType) (*types.Recommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_id = ?", userID, contentType, contentID)
	if recommendationType != "" {
		query = query.Where("recommendation_type = ?", recommendationType)
	}

	var row types.Recommendation
	if err := query.Order("created_at DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// MarkInteracted flips is_interacted on every recommendation of the content
// item for the user, and is_viewed as well when the interaction was a view.
func (r *recommendationRepo) MarkInteracted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, viewed bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]interface{}{
		"is_interacted": true,
		"updated_at":    time.Now().UTC(),
	}
	if viewed {
		updates["is_viewed"] = true
	}
	return transaction.WithContext(ctx).
		Model(&types.Recommendation{}).
		Where("user_id = ? AND content_type = ? AND content_id = ?", userID, contentType, contentID).
		Updates(updates).Error
}

func (r *recommendationRepo) SetDismissed(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Recommendation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_dismissed": true,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *recommendationRepo) SetFeedback(ctx context.Context, tx *gorm.DB, id uuid.UUID, feedback datatypes.JSONMap) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Recommendation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"feedback":   feedback,
			"updated_at": time.Now().UTC(),
		}).Error
}

// PurgeStale hard-deletes rows that expired, or were dismissed, before the
// cutoff. Retention policy is the one flow allowed to remove rows physically.
func (r *recommendationRepo) PurgeStale(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("(expires_at IS NOT NULL AND expires_at < ?) OR (is_dismissed = ? AND updated_at < ?)", before, true, before).
		Delete(&types.Recommendation{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
