package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/Samhita-P/KSITNEXUS-sub001/internal/clients/redis"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

const (
	DefaultRecommendationLimit = 10
	MaxRecommendationLimit     = 50
)

type RecommendationRequest struct {
	UserID             uuid.UUID
	ContentType        types.ContentType
	RecommendationType types.RecommendationType
	Limit              int
	ExcludeDismissed   bool
	ExcludeViewed      bool
}

type RecommendedItem struct {
	ContentID    uuid.UUID `json:"content_id"`
	Score        float64   `json:"score"`
	Reason       string    `json:"reason,omitempty"`
	IsViewed     bool      `json:"is_viewed"`
	IsInteracted bool      `json:"is_interacted"`
	ContentTitle *string   `json:"content_title"`
}

type RecommendationService interface {
	GetRecommendations(ctx context.Context, req RecommendationRequest) ([]RecommendedItem, error)
	Dismiss(ctx context.Context, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, recommendationType types.RecommendationType) (*types.Recommendation, error)
	SubmitFeedback(ctx context.Context, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, feedbackType string, feedbackData interface{}, recommendationType types.RecommendationType) (*types.Recommendation, error)
	PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type recommendationService struct {
	db         *gorm.DB
	log        *logger.Logger
	cfg        ScoringConfig
	recs       repos.RecommendationRepo
	items      repos.ContentItemRepo
	cache      redisclient.RecommendationCache
	strategies map[types.RecommendationType]rankingStrategy
}

func NewRecommendationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg ScoringConfig,
	recRepo repos.RecommendationRepo,
	interactionRepo repos.InteractionRepo,
	preferenceRepo repos.UserPreferenceRepo,
	itemRepo repos.ContentItemRepo,
	similarityRepo repos.SimilarityRepo,
	cache redisclient.RecommendationCache,
) RecommendationService {
	log := baseLog.With("service", "RecommendationService")
	deps := &strategyDeps{
		db:           db,
		log:          log,
		cfg:          cfg,
		scorer:       NewScorer(cfg),
		interactions: interactionRepo,
		preferences:  preferenceRepo,
		items:        itemRepo,
		similarities: similarityRepo,
	}
	return &recommendationService{
		db:         db,
		log:        log,
		cfg:        cfg,
		recs:       recRepo,
		items:      itemRepo,
		cache:      cache,
		strategies: newStrategies(deps),
	}
}

// GetRecommendations serves cache-aside: existing fresh rows are reused and
// only the shortfall triggers a materialization pass for the requested
// strategy.
func (s *recommendationService) GetRecommendations(ctx context.Context, req RecommendationRequest) ([]RecommendedItem, error) {
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("user_id is required")
	}
	if !req.ContentType.Valid() {
		return nil, fmt.Errorf("invalid content_type %q", req.ContentType)
	}
	if req.RecommendationType == "" {
		req.RecommendationType = types.RecommendationTypeContentBased
	}
	if !req.RecommendationType.Valid() {
		return nil, fmt.Errorf("invalid recommendation_type %q", req.RecommendationType)
	}
	if req.Limit <= 0 {
		req.Limit = DefaultRecommendationLimit
	}
	if req.Limit > MaxRecommendationLimit {
		req.Limit = MaxRecommendationLimit
	}

	// Only the default-filter view is cached; variant filters always hit the
	// store.
	cacheable := req.ExcludeDismissed && !req.ExcludeViewed
	key := redisclient.CacheKey{
		UserID:             req.UserID,
		ContentType:        req.ContentType,
		RecommendationType: req.RecommendationType,
	}
	if cacheable && s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached []RecommendedItem
			if err := json.Unmarshal(raw, &cached); err == nil && len(cached) >= req.Limit {
				return cached[:req.Limit], nil
			}
		}
	}

	query := repos.RecommendationQuery{
		UserID:             req.UserID,
		ContentType:        req.ContentType,
		RecommendationType: req.RecommendationType,
		Limit:              req.Limit,
		ExcludeDismissed:   req.ExcludeDismissed,
		ExcludeViewed:      req.ExcludeViewed,
	}
	rows, err := s.recs.GetForUser(ctx, nil, query)
	if err != nil {
		return nil, err
	}

	if len(rows) < req.Limit {
		if err := s.materialize(ctx, req); err != nil {
			return nil, err
		}
		rows, err = s.recs.GetForUser(ctx, nil, query)
		if err != nil {
			return nil, err
		}
	}

	out := s.present(ctx, req.ContentType, rows)
	if cacheable && s.cache != nil && len(out) > 0 {
		if raw, err := json.Marshal(out); err == nil {
			ttl := time.Duration(s.cfg.CacheTTLSeconds) * time.Second
			if ttl <= 0 {
				ttl = 5 * time.Minute
			}
			s.cache.Set(ctx, key, raw, ttl)
		}
	}
	return out, nil
}

// materialize runs the strategy over the candidate pool and upserts every
// candidate that clears the score floor. The upsert is idempotent per
// recommendation key and never decreases a stored score.
func (s *recommendationService) materialize(ctx context.Context, req RecommendationRequest) error {
	strategy, ok := s.strategies[req.RecommendationType]
	if !ok {
		return fmt.Errorf("no strategy for recommendation_type %q", req.RecommendationType)
	}
	ranked, err := strategy.Rank(ctx, req.UserID, req.ContentType, req.Limit)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	ttlDays := s.cfg.RecommendationTTLDays
	if ttlDays <= 0 {
		ttlDays = 30
	}
	expires := now.AddDate(0, 0, ttlDays)

	rows := make([]*types.Recommendation, 0, len(ranked))
	for _, rc := range ranked {
		if rc.Score <= 0 {
			continue
		}
		rows = append(rows, &types.Recommendation{
			ID:                 uuid.New(),
			UserID:             req.UserID,
			ContentType:        req.ContentType,
			ContentID:          rc.Item.ContentID,
			RecommendationType: req.RecommendationType,
			Score:              rc.Score,
			Reason:             rc.Reason,
			ExpiresAt:          &expires,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	s.log.Debug("materializing recommendations",
		"user_id", req.UserID,
		"content_type", req.ContentType,
		"recommendation_type", req.RecommendationType,
		"rows", len(rows),
	)
	return s.recs.Upsert(ctx, nil, rows)
}

// present resolves display titles from the content projection. A missing
// projection row means the source item was deleted or never synced; it is
// reported as a null title, never as a failure.
func (s *recommendationService) present(ctx context.Context, contentType types.ContentType, rows []*types.Recommendation) []RecommendedItem {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ContentID)
	}
	titles, err := s.items.TitlesFor(ctx, nil, contentType, ids)
	if err != nil {
		s.log.Warn("content title resolution failed", "content_type", contentType, "error", err)
		titles = map[uuid.UUID]string{}
	}

	out := make([]RecommendedItem, 0, len(rows))
	for _, row := range rows {
		item := RecommendedItem{
			ContentID:    row.ContentID,
			Score:        row.Score,
			Reason:       row.Reason,
			IsViewed:     row.IsViewed,
			IsInteracted: row.IsInteracted,
		}
		if title, ok := titles[row.ContentID]; ok {
			item.ContentTitle = &title
		} else {
			s.log.Warn("content not found for recommendation",
				"content_type", contentType,
				"content_id", row.ContentID,
			)
		}
		out = append(out, item)
	}
	return out
}

// Dismiss soft-flags the newest matching row. Returns nil when no row
// matches; absence is an expected steady state.
func (s *recommendationService) Dismiss(ctx context.Context, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, recommendationType types.RecommendationType) (*types.Recommendation, error) {
	if !contentType.Valid() {
		return nil, fmt.Errorf("invalid content_type %q", contentType)
	}
	row, err := s.recs.Find(ctx, nil, userID, contentType, contentID, recommendationType)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if err := s.recs.SetDismissed(ctx, nil, row.ID); err != nil {
		return nil, err
	}
	row.IsDismissed = true
	s.invalidate(ctx, userID, contentType)
	return row, nil
}

// SubmitFeedback merges {feedback_type: feedback_data} into the row's
// feedback map. Score adjustment from feedback is a declared extension
// point; the stored score is untouched here.
func (s *recommendationService) SubmitFeedback(ctx context.Context, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, feedbackType string, feedbackData interface{}, recommendationType types.RecommendationType) (*types.Recommendation, error) {
	if !contentType.Valid() {
		return nil, fmt.Errorf("invalid content_type %q", contentType)
	}
	if feedbackType == "" {
		return nil, fmt.Errorf("feedback_type is required")
	}
	row, err := s.recs.Find(ctx, nil, userID, contentType, contentID, recommendationType)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	feedback := row.Feedback
	if feedback == nil {
		feedback = datatypes.JSONMap{}
	}
	feedback[feedbackType] = feedbackData
	if err := s.recs.SetFeedback(ctx, nil, row.ID, feedback); err != nil {
		return nil, err
	}
	row.Feedback = feedback
	s.invalidate(ctx, userID, contentType)
	return row, nil
}

func (s *recommendationService) PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	before := time.Now().UTC().Add(-olderThan)
	n, err := s.recs.PurgeStale(ctx, nil, before)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("purged stale recommendations", "rows", n, "before", before)
	}
	return n, nil
}

func (s *recommendationService) invalidate(ctx context.Context, userID uuid.UUID, contentType types.ContentType) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, userID, contentType)
}
