package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

func PtrInt(v int) *int              { return &v }
func PtrTime(v time.Time) *time.Time { return &v }

func JSONTags(tb testing.TB, tags []string) datatypes.JSON {
	tb.Helper()
	raw, err := json.Marshal(tags)
	if err != nil {
		tb.Fatalf("marshal tags: %v", err)
	}
	return datatypes.JSON(raw)
}

func SeedContentItem(tb testing.TB, ctx context.Context, tx *gorm.DB, contentType types.ContentType, title, category string, tags []string, sourceCreatedAt *time.Time) *types.ContentItem {
	tb.Helper()
	now := time.Now().UTC()
	row := &types.ContentItem{
		ID:              uuid.New(),
		ContentType:     contentType,
		ContentID:       uuid.New(),
		Title:           title,
		Category:        category,
		Tags:            JSONTags(tb, tags),
		SourceCreatedAt: sourceCreatedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed content item: %v", err)
	}
	return row
}

func SeedInteraction(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, interactionType types.InteractionType, rating *int) *types.ContentInteraction {
	tb.Helper()
	now := time.Now().UTC()
	row := &types.ContentInteraction{
		ID:              uuid.New(),
		UserID:          userID,
		ContentType:     contentType,
		ContentID:       contentID,
		InteractionType: interactionType,
		Rating:          rating,
		Metadata:        datatypes.JSONMap{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed interaction: %v", err)
	}
	return row
}

func SeedPreference(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, interests, categories []string) *types.UserPreference {
	tb.Helper()
	now := time.Now().UTC()
	prefs := datatypes.JSONMap{}
	if len(categories) > 0 {
		vals := make([]interface{}, 0, len(categories))
		for _, c := range categories {
			vals = append(vals, c)
		}
		prefs["categories"] = vals
	}
	row := &types.UserPreference{
		ID:                uuid.New(),
		UserID:            userID,
		ContentType:       contentType,
		Preferences:       prefs,
		Interests:         JSONTags(tb, interests),
		BehaviorPatterns:  datatypes.JSONMap{},
		WeightPreferences: datatypes.JSONMap{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed preference: %v", err)
	}
	return row
}

func SeedUserSimilarity(tb testing.TB, ctx context.Context, tx *gorm.DB, userID1, userID2 uuid.UUID, similarityType types.SimilarityType, score float64) *types.UserSimilarity {
	tb.Helper()
	if userID2.String() < userID1.String() {
		userID1, userID2 = userID2, userID1
	}
	now := time.Now().UTC()
	row := &types.UserSimilarity{
		ID:             uuid.New(),
		UserID1:        userID1,
		UserID2:        userID2,
		SimilarityType: similarityType,
		Score:          score,
		LastCalculated: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed user similarity: %v", err)
	}
	return row
}

func SeedRecommendation(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentType types.ContentType, contentID uuid.UUID, recommendationType types.RecommendationType, score float64, expiresAt *time.Time) *types.Recommendation {
	tb.Helper()
	now := time.Now().UTC()
	row := &types.Recommendation{
		ID:                 uuid.New(),
		UserID:             userID,
		ContentType:        contentType,
		ContentID:          contentID,
		RecommendationType: recommendationType,
		Score:              score,
		Feedback:           datatypes.JSONMap{},
		ExpiresAt:          expiresAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed recommendation: %v", err)
	}
	return row
}
