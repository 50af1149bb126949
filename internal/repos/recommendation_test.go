package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos/testutil"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

func TestRecommendationRepoUpsertIsMonotonic(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewRecommendationRepo(db, testutil.Logger(t))

	userID := uuid.New()
	contentID := uuid.New()
	row := &types.Recommendation{
		ID:                 uuid.New(),
		UserID:             userID,
		ContentType:        types.ContentTypeEvent,
		ContentID:          contentID,
		RecommendationType: types.RecommendationTypeContentBased,
		Score:              0.6,
		Reason:             "initial",
		Feedback:           datatypes.JSONMap{},
	}
	if err := repo.Upsert(ctx, tx, []*types.Recommendation{row}); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	// Lower score loses: the stored row keeps score and reason.
	lower := *row
	lower.ID = uuid.New()
	lower.Score = 0.3
	lower.Reason = "lower"
	if err := repo.Upsert(ctx, tx, []*types.Recommendation{&lower}); err != nil {
		t.Fatalf("Upsert lower: %v", err)
	}
	got, err := repo.Find(ctx, tx, userID, types.ContentTypeEvent, contentID, types.RecommendationTypeContentBased)
	if err != nil || got == nil {
		t.Fatalf("Find after lower: row=%v err=%v", got, err)
	}
	if got.Score != 0.6 || got.Reason != "initial" {
		t.Fatalf("lower score overwrote row: score=%v reason=%q", got.Score, got.Reason)
	}

	// Higher score wins and carries its reason.
	higher := *row
	higher.ID = uuid.New()
	higher.Score = 0.9
	higher.Reason = "higher"
	if err := repo.Upsert(ctx, tx, []*types.Recommendation{&higher}); err != nil {
		t.Fatalf("Upsert higher: %v", err)
	}
	got, err = repo.Find(ctx, tx, userID, types.ContentTypeEvent, contentID, types.RecommendationTypeContentBased)
	if err != nil || got == nil {
		t.Fatalf("Find after higher: row=%v err=%v", got, err)
	}
	if got.Score != 0.9 || got.Reason != "higher" {
		t.Fatalf("higher score did not win: score=%v reason=%q", got.Score, got.Reason)
	}

	// Still a single row for the key.
	rows, err := repo.GetForUser(ctx, tx, RecommendationQuery{UserID: userID, ContentType: types.ContentTypeEvent})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetForUser: err=%v len=%d", err, len(rows))
	}
}

func TestRecommendationRepoGetForUserFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewRecommendationRepo(db, testutil.Logger(t))

	userID := uuid.New()
	future := time.Now().UTC().Add(24 * time.Hour)
	past := time.Now().UTC().Add(-24 * time.Hour)

	testutil.SeedRecommendation(t, ctx, tx, userID, types.ContentTypeStudyGroup, uuid.New(), types.RecommendationTypeContentBased, 0.8, &future)
	testutil.SeedRecommendation(t, ctx, tx, userID, types.ContentTypeStudyGroup, uuid.New(), types.RecommendationTypeContentBased, 0.9, &past)
	dismissed := testutil.SeedRecommendation(t, ctx, tx, userID, types.ContentTypeStudyGroup, uuid.New(), types.RecommendationTypeContentBased, 0.7, &future)
	if err := repo.SetDismissed(ctx, tx, dismissed.ID); err != nil {
		t.Fatalf("SetDismissed: %v", err)
	}

	rows, err := repo.GetForUser(ctx, tx, RecommendationQuery{
		UserID:           userID,
		ContentType:      types.ContentTypeStudyGroup,
		ExcludeDismissed: true,
	})
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if len(rows) != 1 || rows[0].Score != 0.8 {
		t.Fatalf("expected only the fresh non-dismissed row, got %d rows", len(rows))
	}

	// Without the dismissed filter the dismissed row comes back; the expired
	// row never does.
	rows, err = repo.GetForUser(ctx, tx, RecommendationQuery{
		UserID:      userID,
		ContentType: types.ContentTypeStudyGroup,
	})
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetForUser unfiltered: err=%v len=%d", err, len(rows))
	}
	if rows[0].Score < rows[1].Score {
		t.Fatalf("rows not ordered by score desc: %v, %v", rows[0].Score, rows[1].Score)
	}
}

func TestRecommendationRepoMarkInteractedAndFeedback(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewRecommendationRepo(db, testutil.Logger(t))

	userID := uuid.New()
	contentID := uuid.New()
	future := time.Now().UTC().Add(24 * time.Hour)
	row := testutil.SeedRecommendation(t, ctx, tx, userID, types.ContentTypeResource, contentID, types.RecommendationTypePopular, 0.5, &future)

	if err := repo.MarkInteracted(ctx, tx, userID, types.ContentTypeResource, contentID, true); err != nil {
		t.Fatalf("MarkInteracted: %v", err)
	}
	got, err := repo.Find(ctx, tx, userID, types.ContentTypeResource, contentID, types.RecommendationTypePopular)
	if err != nil || got == nil {
		t.Fatalf("Find: row=%v err=%v", got, err)
	}
	if !got.IsInteracted || !got.IsViewed {
		t.Fatalf("expected interacted+viewed, got interacted=%v viewed=%v", got.IsInteracted, got.IsViewed)
	}

	if err := repo.SetFeedback(ctx, tx, row.ID, datatypes.JSONMap{"not_relevant": true}); err != nil {
		t.Fatalf("SetFeedback: %v", err)
	}
	got, err = repo.Find(ctx, tx, userID, types.ContentTypeResource, contentID, types.RecommendationTypePopular)
	if err != nil || got == nil {
		t.Fatalf("Find after feedback: row=%v err=%v", got, err)
	}
	if got.Feedback["not_relevant"] != true {
		t.Fatalf("feedback not stored: %v", got.Feedback)
	}
}

func TestRecommendationRepoPurgeStale(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewRecommendationRepo(db, testutil.Logger(t))

	userID := uuid.New()
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)

	testutil.SeedRecommendation(t, ctx, tx, userID, types.ContentTypeEvent, uuid.New(), types.RecommendationTypeTrending, 0.4, &past)
	keep := testutil.SeedRecommendation(t, ctx, tx, userID, types.ContentTypeEvent, uuid.New(), types.RecommendationTypeTrending, 0.6, &future)

	n, err := repo.PurgeStale(ctx, tx, time.Now().UTC())
	if err != nil {
		t.Fatalf("PurgeStale: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged row, got %d", n)
	}

	got, err := repo.Find(ctx, tx, userID, types.ContentTypeEvent, keep.ContentID, types.RecommendationTypeTrending)
	if err != nil || got == nil {
		t.Fatalf("surviving row missing: row=%v err=%v", got, err)
	}
}
