package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos/testutil"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

func TestPreferenceGetLazilyCreates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	svc := NewPreferenceService(tx, log, repos.NewUserPreferenceRepo(tx, log), nil)

	userID := uuid.New()
	row, err := svc.Get(ctx, userID, types.ContentTypeEvent)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row == nil || row.UserID != userID {
		t.Fatalf("expected a lazily created profile, got %+v", row)
	}

	// A second read returns the same row, not a duplicate.
	again, err := svc.Get(ctx, userID, types.ContentTypeEvent)
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if again.ID != row.ID {
		t.Fatalf("expected the same profile, got %v and %v", row.ID, again.ID)
	}
}

func TestPreferenceUpdatePartial(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	svc := NewPreferenceService(tx, log, repos.NewUserPreferenceRepo(tx, log), nil)

	userID := uuid.New()
	row, err := svc.Update(ctx, userID, types.ContentTypeEvent, PreferenceUpdate{
		Interests:         []string{"ai", "robotics"},
		WeightPreferences: map[string]float64{"relevance": 0.6},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	var interests []string
	if err := json.Unmarshal(row.Interests, &interests); err != nil {
		t.Fatalf("unmarshal interests: %v", err)
	}
	if len(interests) != 2 || interests[0] != "ai" {
		t.Fatalf("interests not stored: %v", interests)
	}

	// A later update leaving interests nil keeps them.
	row, err = svc.Update(ctx, userID, types.ContentTypeEvent, PreferenceUpdate{
		Preferences: map[string]interface{}{"categories": []interface{}{"Tech"}},
	})
	if err != nil {
		t.Fatalf("Update partial: %v", err)
	}
	interests = nil
	if err := json.Unmarshal(row.Interests, &interests); err != nil {
		t.Fatalf("unmarshal interests: %v", err)
	}
	if len(interests) != 2 {
		t.Fatalf("partial update dropped interests: %v", interests)
	}
	if row.Preferences["categories"] == nil {
		t.Fatalf("preferences not stored: %v", row.Preferences)
	}
}

func TestPreferenceUpdateRejectsBadWeights(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	svc := NewPreferenceService(tx, log, repos.NewUserPreferenceRepo(tx, log), nil)

	_, err := svc.Update(ctx, uuid.New(), types.ContentTypeEvent, PreferenceUpdate{
		WeightPreferences: map[string]float64{"relevance": 1.2},
	})
	if err == nil {
		t.Fatalf("expected error for out-of-range weight")
	}
}
