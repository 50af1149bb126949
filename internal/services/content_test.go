package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos/testutil"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

func TestContentSyncUpserts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	itemRepo := repos.NewContentItemRepo(tx, log)
	svc := NewContentService(tx, log, itemRepo)

	contentID := uuid.New()
	created := time.Now().UTC().Add(-time.Hour)
	row, err := svc.Sync(ctx, ContentSyncInput{
		ContentType: types.ContentTypeEvent,
		ContentID:   contentID,
		Title:       "Robotics Demo",
		Category:    "Tech",
		Tags:        []string{"robotics"},
		CreatedAt:   &created,
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if row.Title != "Robotics Demo" {
		t.Fatalf("title = %q", row.Title)
	}

	// A re-sync with a new title updates the same projection row.
	_, err = svc.Sync(ctx, ContentSyncInput{
		ContentType: types.ContentTypeEvent,
		ContentID:   contentID,
		Title:       "Robotics Demo (rescheduled)",
	})
	if err != nil {
		t.Fatalf("re-Sync: %v", err)
	}

	titles, err := itemRepo.TitlesFor(ctx, tx, types.ContentTypeEvent, []uuid.UUID{contentID})
	if err != nil {
		t.Fatalf("TitlesFor: %v", err)
	}
	if titles[contentID] != "Robotics Demo (rescheduled)" {
		t.Fatalf("title not updated: %q", titles[contentID])
	}
}

func TestContentSyncValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	svc := NewContentService(tx, log, repos.NewContentItemRepo(tx, log))

	if _, err := svc.Sync(ctx, ContentSyncInput{ContentType: "bogus", ContentID: uuid.New(), Title: "x"}); err == nil {
		t.Fatalf("expected error for invalid content_type")
	}
	if _, err := svc.Sync(ctx, ContentSyncInput{ContentType: types.ContentTypeEvent, Title: "x"}); err == nil {
		t.Fatalf("expected error for missing content_id")
	}
	if _, err := svc.Sync(ctx, ContentSyncInput{ContentType: types.ContentTypeEvent, ContentID: uuid.New(), Title: "  "}); err == nil {
		t.Fatalf("expected error for blank title")
	}
}
