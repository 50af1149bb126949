package services

import (
	"context"
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

type InteractionInput struct {
	UserID          uuid.UUID
	ContentType     types.ContentType
	ContentID       uuid.UUID
	InteractionType types.InteractionType
	Rating          *int
	DurationSeconds *int
	Metadata        map[string]interface{}
}

type InteractionService interface {
	Record(ctx context.Context, in InteractionInput) (*types.ContentInteraction, error)
}

type interactionService struct {
	db           *gorm.DB
	log          *logger.Logger
	interactions repos.InteractionRepo
	recs         repos.RecommendationRepo
	cache        redisclient.RecommendationCache
}

func NewInteractionService(db *gorm.DB, baseLog *logger.Logger, interactionRepo repos.InteractionRepo, recRepo repos.RecommendationRepo, cache redisclient.RecommendationCache) InteractionService {
	return &interactionService{
		db:           db,
		log:          baseLog.With("service", "InteractionService"),
		interactions: interactionRepo,
		recs:         recRepo,
		cache:        cache,
	}
}

// Record appends the interaction row and, when a recommendation for the same
// content exists, flips its is_interacted flag (and is_viewed for views).
// Interactions against non-recommended content are valid; they feed the
// popularity and trending signals. The row is durably persisted before the
// call returns.
func (s *interactionService) Record(ctx context.Context, in InteractionInput) (*types.ContentInteraction, error) {
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("user_id is required")
	}
	if !in.ContentType.Valid() {
		return nil, fmt.Errorf("invalid content_type %q", in.ContentType)
	}
	if in.ContentID == uuid.Nil {
		return nil, fmt.Errorf("content_id is required")
	}
	if !in.InteractionType.Valid() {
		return nil, fmt.Errorf("invalid interaction_type %q", in.InteractionType)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}
	if in.DurationSeconds != nil && *in.DurationSeconds < 0 {
		return nil, fmt.Errorf("duration_seconds must not be negative")
	}

	now := time.Now().UTC()
	row := &types.ContentInteraction{
		ID:              uuid.New(),
		UserID:          in.UserID,
		ContentType:     in.ContentType,
		ContentID:       in.ContentID,
		InteractionType: in.InteractionType,
		Rating:          in.Rating,
		DurationSeconds: in.DurationSeconds,
		Metadata:        datatypes.JSONMap(in.Metadata),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.interactions.Create(ctx, tx, row); err != nil {
			return err
		}
		// No-op when the user was never recommended this item.
		viewed := in.InteractionType == types.InteractionTypeView
		return s.recs.MarkInteracted(ctx, tx, in.UserID, in.ContentType, in.ContentID, viewed)
	})
	if err != nil {
		s.log.Warn("interaction record failed", "user_id", in.UserID, "content_type", in.ContentType, "error", err)
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, in.UserID, in.ContentType)
	}
	return row, nil
}
