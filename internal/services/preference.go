package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/Samhita-P/KSITNEXUS-sub001/internal/clients/redis"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

// PreferenceUpdate carries partial-update semantics: only non-nil fields are
// replaced wholesale; nil fields keep their stored value.
type PreferenceUpdate struct {
	Preferences       map[string]interface{}
	Interests         []string
	BehaviorPatterns  map[string]interface{}
	WeightPreferences map[string]float64
}

type PreferenceService interface {
	Get(ctx context.Context, userID uuid.UUID, contentType types.ContentType) (*types.UserPreference, error)
	Update(ctx context.Context, userID uuid.UUID, contentType types.ContentType, upd PreferenceUpdate) (*types.UserPreference, error)
}

type preferenceService struct {
	db    *gorm.DB
	log   *logger.Logger
	prefs repos.UserPreferenceRepo
	cache redisclient.RecommendationCache
}

func NewPreferenceService(db *gorm.DB, baseLog *logger.Logger, prefRepo repos.UserPreferenceRepo, cache redisclient.RecommendationCache) PreferenceService {
	return &preferenceService{
		db:    db,
		log:   baseLog.With("service", "PreferenceService"),
		prefs: prefRepo,
		cache: cache,
	}
}

// Get lazily creates an empty profile on first read.
func (s *preferenceService) Get(ctx context.Context, userID uuid.UUID, contentType types.ContentType) (*types.UserPreference, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user_id is required")
	}
	if !contentType.Valid() {
		return nil, fmt.Errorf("invalid content_type %q", contentType)
	}
	return s.prefs.GetOrCreate(ctx, nil, userID, contentType)
}

func (s *preferenceService) Update(ctx context.Context, userID uuid.UUID, contentType types.ContentType, upd PreferenceUpdate) (*types.UserPreference, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user_id is required")
	}
	if !contentType.Valid() {
		return nil, fmt.Errorf("invalid content_type %q", contentType)
	}
	for key, v := range upd.WeightPreferences {
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("weight_preferences[%s] must be between 0 and 1", key)
		}
	}

	row, err := s.prefs.GetOrCreate(ctx, nil, userID, contentType)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if upd.Preferences != nil {
		fields["preferences"] = datatypes.JSONMap(upd.Preferences)
	}
	if upd.Interests != nil {
		raw, err := json.Marshal(upd.Interests)
		if err != nil {
			return nil, err
		}
		fields["interests"] = datatypes.JSON(raw)
	}
	if upd.BehaviorPatterns != nil {
		fields["behavior_patterns"] = datatypes.JSONMap(upd.BehaviorPatterns)
	}
	if upd.WeightPreferences != nil {
		weights := make(datatypes.JSONMap, len(upd.WeightPreferences))
		for k, v := range upd.WeightPreferences {
			weights[k] = v
		}
		fields["weight_preferences"] = weights
	}
	if len(fields) == 0 {
		return row, nil
	}

	if err := s.prefs.UpdateFields(ctx, nil, row.ID, fields); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID, contentType)
	}
	return s.prefs.Get(ctx, nil, userID, contentType)
}
