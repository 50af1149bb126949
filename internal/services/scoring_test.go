package services

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testItem(tags []byte, category string, createdAt *time.Time) *types.ContentItem {
	return &types.ContentItem{
		ID:              uuid.New(),
		ContentType:     types.ContentTypeEvent,
		ContentID:       uuid.New(),
		Title:           "item",
		Category:        category,
		Tags:            datatypes.JSON(tags),
		SourceCreatedAt: createdAt,
	}
}

func testPref(interests []byte, categories []interface{}, weights datatypes.JSONMap) *types.UserPreference {
	prefs := datatypes.JSONMap{}
	if categories != nil {
		prefs["categories"] = categories
	}
	return &types.UserPreference{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		ContentType:       types.ContentTypeEvent,
		Preferences:       prefs,
		Interests:         datatypes.JSON(interests),
		WeightPreferences: weights,
	}
}

func TestRelevanceScorePartialOverlap(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())

	// One of two tags matches; normalized by the larger set.
	item := testItem([]byte(`["ai","ml"]`), "", nil)
	pref := testPref([]byte(`["ai"]`), nil, nil)
	score, matched, categoryMatch := s.relevanceScore(item, pref)
	if !almostEqual(score, 0.65) {
		t.Fatalf("relevance = %v, want 0.65", score)
	}
	if len(matched) != 1 || matched[0] != "ai" {
		t.Fatalf("matched = %v, want [ai]", matched)
	}
	if categoryMatch {
		t.Fatalf("unexpected category match")
	}
}

func TestRelevanceScoreFullMatchWithCategory(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())

	item := testItem([]byte(`["ai"]`), "Tech", nil)
	pref := testPref([]byte(`["AI"]`), []interface{}{"tech"}, nil)
	score, _, categoryMatch := s.relevanceScore(item, pref)
	if !almostEqual(score, 1.0) {
		t.Fatalf("relevance = %v, want 1.0", score)
	}
	if !categoryMatch {
		t.Fatalf("expected category match")
	}
}

func TestRelevanceScoreNoPreference(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())

	item := testItem([]byte(`["ai"]`), "Tech", nil)
	score, matched, categoryMatch := s.relevanceScore(item, nil)
	if !almostEqual(score, 0.5) {
		t.Fatalf("relevance = %v, want base 0.5", score)
	}
	if len(matched) != 0 || categoryMatch {
		t.Fatalf("expected no matches for nil preference")
	}
}

func TestPopularityScoreSaturates(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())

	cases := []struct {
		count int64
		want  float64
	}{
		{0, 0},
		{50, 0.5},
		{100, 1.0},
		{250, 1.0},
	}
	for _, c := range cases {
		if got := s.PopularityScore(c.count); !almostEqual(got, c.want) {
			t.Fatalf("PopularityScore(%d) = %v, want %v", c.count, got, c.want)
		}
	}
}

func TestRecencyScoreSteps(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())
	now := time.Now().UTC()

	cases := []struct {
		age  time.Duration
		want float64
	}{
		{24 * time.Hour, 1.0},
		{10 * 24 * time.Hour, 0.7},
		{45 * 24 * time.Hour, 0.4},
		{200 * 24 * time.Hour, 0.2},
	}
	for _, c := range cases {
		created := now.Add(-c.age)
		if got := s.RecencyScore(&created, now); !almostEqual(got, c.want) {
			t.Fatalf("RecencyScore(age=%v) = %v, want %v", c.age, got, c.want)
		}
	}

	if got := s.RecencyScore(nil, now); !almostEqual(got, 0.5) {
		t.Fatalf("RecencyScore(nil) = %v, want 0.5", got)
	}
}

func TestScoreWeightedTotal(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())
	now := time.Now().UTC()
	created := now.Add(-24 * time.Hour)

	item := testItem([]byte(`["ai","ml"]`), "", &created)
	pref := testPref([]byte(`["ai"]`), nil, nil)

	// relevance 0.65, popularity 0.5, recency 1.0, interaction default 0.5
	// => 0.65*0.4 + 0.5*0.2 + 1.0*0.2 + 0.5*0.2 = 0.66
	b := s.Score(item, pref, 50, nil, now)
	if !almostEqual(b.Total, 0.66) {
		t.Fatalf("Total = %v, want 0.66", b.Total)
	}
	if !almostEqual(b.Relevance, 0.65) || !almostEqual(b.Popularity, 0.5) || !almostEqual(b.Recency, 1.0) || !almostEqual(b.Interaction, 0.5) {
		t.Fatalf("unexpected breakdown: %+v", b)
	}

	// 10-day-old item with no interactions:
	// 0.65*0.4 + 0*0.2 + 0.7*0.2 + 0.5*0.2 = 0.5
	olderCreated := now.Add(-10 * 24 * time.Hour)
	older := testItem([]byte(`["ai","ml"]`), "", &olderCreated)
	b = s.Score(older, pref, 0, nil, now)
	if !almostEqual(b.Total, 0.5) {
		t.Fatalf("Total = %v, want 0.5", b.Total)
	}
}

func TestScoreWeightOverrides(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())
	now := time.Now().UTC()
	created := now.Add(-24 * time.Hour)

	item := testItem([]byte(`[]`), "", &created)
	pref := testPref([]byte(`[]`), nil, datatypes.JSONMap{
		"relevance":   0.0,
		"popularity":  0.0,
		"recency":     1.0,
		"interaction": 0.0,
	})

	b := s.Score(item, pref, 0, nil, now)
	if !almostEqual(b.Total, 1.0) {
		t.Fatalf("Total = %v, want recency-only 1.0", b.Total)
	}
}

func TestScoreIgnoresOutOfRangeOverride(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())

	pref := testPref([]byte(`[]`), nil, datatypes.JSONMap{"relevance": 1.5})
	w := s.resolveWeights(pref)
	if !almostEqual(w.Relevance, DefaultScoringConfig().Weights.Relevance) {
		t.Fatalf("out-of-range override applied: %v", w.Relevance)
	}
}

func TestScoreTotalClamped(t *testing.T) {
	cfg := DefaultScoringConfig()
	cfg.Weights = ScoringWeights{Relevance: 1, Popularity: 1, Recency: 1, Interaction: 1}
	s := NewScorer(cfg)
	now := time.Now().UTC()
	created := now.Add(-time.Hour)

	item := testItem([]byte(`["ai"]`), "Tech", &created)
	pref := testPref([]byte(`["ai"]`), []interface{}{"Tech"}, nil)

	b := s.Score(item, pref, 500, nil, now)
	if b.Total != 1.0 {
		t.Fatalf("Total = %v, want clamped 1.0", b.Total)
	}
}

func TestBuildReason(t *testing.T) {
	reason := buildReason(types.ContentTypeEvent, "Tech", []string{"ai", "ml", "nlp", "cv"}, true, 0.9)
	if !strings.Contains(reason, "matches your interests (ai, ml, nlp)") {
		t.Fatalf("reason missing interest clause: %q", reason)
	}
	if !strings.Contains(reason, `preferred category "Tech"`) {
		t.Fatalf("reason missing category clause: %q", reason)
	}
	// Two clauses max: popularity is crowded out.
	if strings.Contains(reason, "popular") {
		t.Fatalf("reason has more than two clauses: %q", reason)
	}

	fallback := buildReason(types.ContentTypeStudyGroup, "", nil, false, 0.1)
	if fallback != "recommended study group for you" {
		t.Fatalf("fallback reason = %q", fallback)
	}
}
