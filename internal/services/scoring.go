package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

// ScoreBreakdown carries the four sub-scores, the weighted total and the
// human-readable reason for one candidate item.
type ScoreBreakdown struct {
	Relevance   float64
	Popularity  float64
	Recency     float64
	Interaction float64
	Total       float64
	Reason      string
}

// Scorer computes the bounded [0,1] relevance score for a candidate item.
// Scoring is side-effect free over independent inputs, so callers may fan it
// out across workers.
type Scorer struct {
	cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score combines the four sub-scores under the configured weights (user
// overrides applied first) and clamps the total at 1.0. A nil affinity
// degrades the interaction sub-score to its 0.5 default; this is where
// collaborative strategies plug in cached similarity scores.
func (s *Scorer) Score(item *types.ContentItem, pref *types.UserPreference, lifetimeInteractions int64, affinity *float64, now time.Time) ScoreBreakdown {
	relevance, matchedTags, categoryMatch := s.relevanceScore(item, pref)
	popularity := s.PopularityScore(lifetimeInteractions)
	recency := s.RecencyScore(item.SourceCreatedAt, now)
	interaction := 0.5
	if affinity != nil {
		interaction = clamp01(*affinity)
	}

	w := s.resolveWeights(pref)
	total := relevance*w.Relevance + popularity*w.Popularity + recency*w.Recency + interaction*w.Interaction

	return ScoreBreakdown{
		Relevance:   relevance,
		Popularity:  popularity,
		Recency:     recency,
		Interaction: interaction,
		Total:       clamp01(total),
		Reason:      buildReason(item.ContentType, item.Category, matchedTags, categoryMatch, popularity),
	}
}

// relevanceScore starts at the 0.5 base, adds up to 0.3 for interest/tag
// overlap (normalized by the larger set) and a flat 0.2 for a preferred
// category match.
func (s *Scorer) relevanceScore(item *types.ContentItem, pref *types.UserPreference) (float64, []string, bool) {
	score := 0.5
	interests := preferenceInterests(pref)
	tags := itemTags(item)

	var matched []string
	for _, tag := range tags {
		for _, interest := range interests {
			if tag == interest {
				matched = append(matched, tag)
				break
			}
		}
	}
	if len(matched) > 0 {
		denom := len(tags)
		if len(interests) > denom {
			denom = len(interests)
		}
		score += 0.3 * float64(len(matched)) / float64(denom)
	}

	categoryMatch := false
	if item.Category != "" {
		for _, cat := range preferredCategories(pref) {
			if strings.EqualFold(cat, item.Category) {
				categoryMatch = true
				score += 0.2
				break
			}
		}
	}
	return clamp01(score), matched, categoryMatch
}

// PopularityScore scales the lifetime interaction count linearly and
// saturates at 1.0 once the count reaches the configured threshold.
func (s *Scorer) PopularityScore(count int64) float64 {
	saturation := s.cfg.PopularitySaturation
	if saturation <= 0 {
		saturation = DefaultScoringConfig().PopularitySaturation
	}
	if count <= 0 {
		return 0
	}
	return clamp01(float64(count) / float64(saturation))
}

// RecencyScore is a step function of item age. Items without a source
// timestamp sit at the 0.5 midpoint.
func (s *Scorer) RecencyScore(createdAt *time.Time, now time.Time) float64 {
	if createdAt == nil || createdAt.IsZero() {
		return 0.5
	}
	age := now.Sub(*createdAt)
	switch {
	case age < 7*24*time.Hour:
		return 1.0
	case age < 30*24*time.Hour:
		return 0.7
	case age < 90*24*time.Hour:
		return 0.4
	default:
		return 0.2
	}
}

// resolveWeights applies per-user overrides from weight_preferences. Values
// outside [0,1] are ignored in favor of the configured default.
func (s *Scorer) resolveWeights(pref *types.UserPreference) ScoringWeights {
	w := s.cfg.Weights
	if pref == nil || len(pref.WeightPreferences) == 0 {
		return w
	}
	if v, ok := weightOverride(pref.WeightPreferences, "relevance"); ok {
		w.Relevance = v
	}
	if v, ok := weightOverride(pref.WeightPreferences, "popularity"); ok {
		w.Popularity = v
	}
	if v, ok := weightOverride(pref.WeightPreferences, "recency"); ok {
		w.Recency = v
	}
	if v, ok := weightOverride(pref.WeightPreferences, "interaction"); ok {
		w.Interaction = v
	}
	return w
}

func weightOverride(m map[string]interface{}, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case int:
		v = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}

// buildReason composes at most two clauses, in priority order: interest tag
// matches, category match, then a popularity flag when the popularity
// sub-score clears 0.7.
func buildReason(contentType types.ContentType, category string, matchedTags []string, categoryMatch bool, popularity float64) string {
	var clauses []string
	if len(matchedTags) > 0 {
		shown := matchedTags
		if len(shown) > 3 {
			shown = shown[:3]
		}
		clauses = append(clauses, fmt.Sprintf("matches your interests (%s)", strings.Join(shown, ", ")))
	}
	if categoryMatch && len(clauses) < 2 {
		clauses = append(clauses, fmt.Sprintf("from your preferred category %q", category))
	}
	if popularity > 0.7 && len(clauses) < 2 {
		clauses = append(clauses, "popular with other students")
	}
	if len(clauses) == 0 {
		return fmt.Sprintf("recommended %s for you", contentTypeLabel(contentType))
	}
	return strings.Join(clauses, "; ")
}

func contentTypeLabel(t types.ContentType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// preferenceInterests returns the user's interest tags, lowercased.
func preferenceInterests(pref *types.UserPreference) []string {
	if pref == nil || len(pref.Interests) == 0 {
		return nil
	}
	var interests []string
	if err := json.Unmarshal(pref.Interests, &interests); err != nil {
		return nil
	}
	out := make([]string, 0, len(interests))
	for _, s := range interests {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// preferredCategories reads the "categories" key of the free-form
// preferences map.
func preferredCategories(pref *types.UserPreference) []string {
	if pref == nil || pref.Preferences == nil {
		return nil
	}
	raw, ok := pref.Preferences["categories"]
	if !ok {
		return nil
	}
	var out []string
	switch t := raw.(type) {
	case []interface{}:
		for _, v := range t {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case []string:
		out = t
	}
	return out
}

func itemTags(item *types.ContentItem) []string {
	if item == nil || len(item.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(item.Tags, &tags); err != nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, s := range tags {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
