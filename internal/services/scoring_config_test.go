package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos/testutil"
)

func TestLoadScoringConfigDefaults(t *testing.T) {
	cfg := LoadScoringConfig("", testutil.Logger(t))
	def := DefaultScoringConfig()
	if cfg != def {
		t.Fatalf("empty path should yield defaults: %+v", cfg)
	}
}

func TestLoadScoringConfigMergesPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")
	body := []byte("weights:\n  relevance: 0.7\npopularity_saturation: 50\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadScoringConfig(path, testutil.Logger(t))
	if !almostEqual(cfg.Weights.Relevance, 0.7) {
		t.Fatalf("relevance = %v, want 0.7", cfg.Weights.Relevance)
	}
	if cfg.PopularitySaturation != 50 {
		t.Fatalf("popularity_saturation = %d, want 50", cfg.PopularitySaturation)
	}

	// Unset fields keep their defaults.
	def := DefaultScoringConfig()
	if !almostEqual(cfg.Weights.Popularity, def.Weights.Popularity) {
		t.Fatalf("popularity weight = %v, want default %v", cfg.Weights.Popularity, def.Weights.Popularity)
	}
	if cfg.TrendingWindowDays != def.TrendingWindowDays {
		t.Fatalf("trending_window_days = %d, want default %d", cfg.TrendingWindowDays, def.TrendingWindowDays)
	}
}

func TestLoadScoringConfigEnvOverrides(t *testing.T) {
	t.Setenv("SCORING_CONCURRENCY", "3")
	t.Setenv("HYBRID_CONTENT_WEIGHT", "0.55")

	cfg := LoadScoringConfig("", testutil.Logger(t))
	if cfg.ScoringConcurrency != 3 {
		t.Fatalf("scoring concurrency = %d, want env override 3", cfg.ScoringConcurrency)
	}
	if !almostEqual(cfg.HybridContentWeight, 0.55) {
		t.Fatalf("hybrid content weight = %v, want env override 0.55", cfg.HybridContentWeight)
	}

	// Unset fields keep their defaults.
	def := DefaultScoringConfig()
	if cfg.CacheTTLSeconds != def.CacheTTLSeconds {
		t.Fatalf("cache_ttl_seconds = %d, want default %d", cfg.CacheTTLSeconds, def.CacheTTLSeconds)
	}

	// Unparseable values fall back to the defaults.
	t.Setenv("SCORING_CONCURRENCY", "many")
	cfg = LoadScoringConfig("", testutil.Logger(t))
	if cfg.ScoringConcurrency != def.ScoringConcurrency {
		t.Fatalf("scoring concurrency = %d, want default %d", cfg.ScoringConcurrency, def.ScoringConcurrency)
	}
}

func TestLoadScoringConfigMissingFileFallsBack(t *testing.T) {
	cfg := LoadScoringConfig("/nonexistent/scoring.yaml", testutil.Logger(t))
	if cfg != DefaultScoringConfig() {
		t.Fatalf("missing file should yield defaults: %+v", cfg)
	}
}
