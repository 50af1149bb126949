package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos/testutil"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

func TestComputeItemSimilaritiesPersistsPairs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	interactionRepo := repos.NewInteractionRepo(tx, log)
	similarityRepo := repos.NewSimilarityRepo(tx, log)
	svc := NewSimilarityService(tx, log, interactionRepo, similarityRepo)

	u1, u2 := uuid.New(), uuid.New()
	itemA, itemB := uuid.New(), uuid.New()

	// Both users touched both items, so the pair co-occurs.
	testutil.SeedInteraction(t, ctx, tx, u1, types.ContentTypeEvent, itemA, types.InteractionTypeView, nil)
	testutil.SeedInteraction(t, ctx, tx, u1, types.ContentTypeEvent, itemB, types.InteractionTypeLike, nil)
	testutil.SeedInteraction(t, ctx, tx, u2, types.ContentTypeEvent, itemA, types.InteractionTypeJoin, nil)
	testutil.SeedInteraction(t, ctx, tx, u2, types.ContentTypeEvent, itemB, types.InteractionTypeView, nil)

	n, err := svc.ComputeItemSimilarities(ctx, types.SimilarityTypeCosine, types.ContentTypeEvent)
	if err != nil {
		t.Fatalf("ComputeItemSimilarities: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pair, got %d", n)
	}

	rows, err := similarityRepo.ItemScoresFor(ctx, tx, types.ContentTypeEvent, types.SimilarityTypeCosine, itemA)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ItemScoresFor: err=%v len=%d", err, len(rows))
	}
	if rows[0].Score <= 0 || rows[0].Score > 1 {
		t.Fatalf("score out of range: %v", rows[0].Score)
	}
	if rows[0].ContentID1.String() >= rows[0].ContentID2.String() {
		t.Fatalf("pair not stored in canonical order")
	}

	// Recomputing updates in place instead of duplicating.
	if _, err := svc.ComputeItemSimilarities(ctx, types.SimilarityTypeCosine, types.ContentTypeEvent); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	rows, err = similarityRepo.ItemScoresFor(ctx, tx, types.ContentTypeEvent, types.SimilarityTypeCosine, itemA)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ItemScoresFor after recompute: err=%v len=%d", err, len(rows))
	}
}

func TestComputeUserSimilaritiesSkipsDisjointUsers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	svc := NewSimilarityService(tx, log, repos.NewInteractionRepo(tx, log), repos.NewSimilarityRepo(tx, log))

	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	shared := uuid.New()

	testutil.SeedInteraction(t, ctx, tx, u1, types.ContentTypeResource, shared, types.InteractionTypeView, nil)
	testutil.SeedInteraction(t, ctx, tx, u2, types.ContentTypeResource, shared, types.InteractionTypeView, nil)
	testutil.SeedInteraction(t, ctx, tx, u3, types.ContentTypeResource, uuid.New(), types.InteractionTypeView, nil)

	n, err := svc.ComputeUserSimilarities(ctx, types.SimilarityTypeJaccard, types.ContentTypeResource)
	if err != nil {
		t.Fatalf("ComputeUserSimilarities: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 overlapping pair, got %d", n)
	}
}

func TestComputeSimilaritiesRejectsInvalidType(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	svc := NewSimilarityService(tx, log, repos.NewInteractionRepo(tx, log), repos.NewSimilarityRepo(tx, log))

	if _, err := svc.ComputeUserSimilarities(ctx, "manhattan", ""); err == nil {
		t.Fatalf("expected error for unknown similarity_type")
	}
	if _, err := svc.ComputeItemSimilarities(ctx, types.SimilarityTypeCosine, "bogus"); err == nil {
		t.Fatalf("expected error for invalid content_type")
	}
}
