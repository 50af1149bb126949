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

type UserPreferenceRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType) (*types.UserPreference, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType) (*types.UserPreference, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type userPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) UserPreferenceRepo {
	repoLog := baseLog.With("repo", "UserPreferenceRepo")
	return &userPreferenceRepo{db: db, log: repoLog}
}

func (r *userPreferenceRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType) (*types.UserPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.UserPreference
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND content_type = ?", userID, contentType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetOrCreate lazily materializes an empty profile on first touch. The
// insert ignores a concurrent winner and re-reads, so two first requests for
// the same user cannot produce duplicate rows.
func (r *userPreferenceRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType) (*types.UserPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.Get(ctx, transaction, userID, contentType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	row := &types.UserPreference{
		ID:                uuid.New(),
		UserID:            userID,
		ContentType:       contentType,
		Preferences:       datatypes.JSONMap{},
		Interests:         datatypes.JSON([]byte("[]")),
		BehaviorPatterns:  datatypes.JSONMap{},
		WeightPreferences: datatypes.JSONMap{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_type"}},
			DoNothing: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, transaction, userID, contentType)
}

// UpdateFields replaces only the supplied top-level columns; omitted keys
// keep their prior value.
func (r *userPreferenceRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.UserPreference{}).
		Where("id = ?", id).
		Updates(fields).Error
}
