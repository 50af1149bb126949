package services

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/utils"
)

// ScoringWeights are the multipliers for the four sub-scores. They are not
// renormalized; a total above 1.0 only means the final score clamps earlier.
type ScoringWeights struct {
	Relevance   float64 `yaml:"relevance"`
	Popularity  float64 `yaml:"popularity"`
	Recency     float64 `yaml:"recency"`
	Interaction float64 `yaml:"interaction"`
}

type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`

	// Lifetime interaction count at which the popularity sub-score saturates
	// to 1.0.
	PopularitySaturation int `yaml:"popularity_saturation"`

	// Rolling window and saturation count for the trending strategy.
	TrendingWindowDays int `yaml:"trending_window_days"`
	TrendingSaturation int `yaml:"trending_saturation"`

	// Candidate pool size as a multiple of the requested limit.
	CandidateMultiplier int `yaml:"candidate_multiplier"`

	// Blend weight of the content-based score in the hybrid strategy; the
	// remainder goes to popularity.
	HybridContentWeight float64 `yaml:"hybrid_content_weight"`

	// Parallel scoring workers per materialization pass.
	ScoringConcurrency int `yaml:"scoring_concurrency"`

	// Materialized rows expire after this many days.
	RecommendationTTLDays int `yaml:"recommendation_ttl_days"`

	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: ScoringWeights{
			Relevance:   0.4,
			Popularity:  0.2,
			Recency:     0.2,
			Interaction: 0.2,
		},
		PopularitySaturation:  100,
		TrendingWindowDays:    7,
		TrendingSaturation:    20,
		CandidateMultiplier:   2,
		HybridContentWeight:   0.7,
		ScoringConcurrency:    8,
		RecommendationTTLDays: 30,
		CacheTTLSeconds:       300,
	}
}

// LoadScoringConfig reads a YAML config file and fills any unset field with
// its default. A missing path or unreadable file falls back to defaults.
// Environment variables override last, so operational knobs can be tuned per
// deployment without editing the file.
func LoadScoringConfig(path string, log *logger.Logger) ScoringConfig {
	cfg := DefaultScoringConfig()
	if path != "" {
		if loaded, ok := readScoringFile(path, log); ok {
			mergeScoringConfig(&cfg, loaded)
			if log != nil {
				log.Info("scoring config loaded", "path", path)
			}
		}
	}

	cfg.ScoringConcurrency = utils.GetEnvAsInt("SCORING_CONCURRENCY", cfg.ScoringConcurrency, log)
	cfg.CacheTTLSeconds = utils.GetEnvAsInt("CACHE_TTL_SECONDS", cfg.CacheTTLSeconds, log)
	cfg.RecommendationTTLDays = utils.GetEnvAsInt("RECOMMENDATION_TTL_DAYS", cfg.RecommendationTTLDays, log)
	cfg.HybridContentWeight = utils.GetEnvAsFloat("HYBRID_CONTENT_WEIGHT", cfg.HybridContentWeight, log)
	return cfg
}

func readScoringFile(path string, log *logger.Logger) (ScoringConfig, bool) {
	var loaded ScoringConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		if log != nil {
			log.Warn("scoring config not readable, using defaults", "path", path, "error", err)
		}
		return loaded, false
	}
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		if log != nil {
			log.Warn("scoring config not parseable, using defaults", "path", path, "error", err)
		}
		return loaded, false
	}
	return loaded, true
}

func mergeScoringConfig(cfg *ScoringConfig, loaded ScoringConfig) {
	if loaded.Weights.Relevance > 0 {
		cfg.Weights.Relevance = loaded.Weights.Relevance
	}
	if loaded.Weights.Popularity > 0 {
		cfg.Weights.Popularity = loaded.Weights.Popularity
	}
	if loaded.Weights.Recency > 0 {
		cfg.Weights.Recency = loaded.Weights.Recency
	}
	if loaded.Weights.Interaction > 0 {
		cfg.Weights.Interaction = loaded.Weights.Interaction
	}
	if loaded.PopularitySaturation > 0 {
		cfg.PopularitySaturation = loaded.PopularitySaturation
	}
	if loaded.TrendingWindowDays > 0 {
		cfg.TrendingWindowDays = loaded.TrendingWindowDays
	}
	if loaded.TrendingSaturation > 0 {
		cfg.TrendingSaturation = loaded.TrendingSaturation
	}
	if loaded.CandidateMultiplier > 0 {
		cfg.CandidateMultiplier = loaded.CandidateMultiplier
	}
	if loaded.HybridContentWeight > 0 {
		cfg.HybridContentWeight = loaded.HybridContentWeight
	}
	if loaded.ScoringConcurrency > 0 {
		cfg.ScoringConcurrency = loaded.ScoringConcurrency
	}
	if loaded.RecommendationTTLDays > 0 {
		cfg.RecommendationTTLDays = loaded.RecommendationTTLDays
	}
	if loaded.CacheTTLSeconds > 0 {
		cfg.CacheTTLSeconds = loaded.CacheTTLSeconds
	}
}
