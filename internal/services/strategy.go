package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type rankedCandidate struct {
	Item   *types.ContentItem
	Score  float64
	Reason string
}

// rankingStrategy produces scored candidates for one recommendation type.
// Every strategy consumes the same candidate-exclusion rule (items the user
// already interacted with are removed) but ranks on a different signal.
type rankingStrategy interface {
	Rank(ctx context.Context, userID uuid.UUID, contentType types.ContentType, limit int) ([]rankedCandidate, error)
}

type strategyDeps struct {
	db           *gorm.DB
	log          *logger.Logger
	cfg          ScoringConfig
	scorer       *Scorer
	interactions repos.InteractionRepo
	preferences  repos.UserPreferenceRepo
	items        repos.ContentItemRepo
	similarities repos.SimilarityRepo
}

func newStrategies(deps *strategyDeps) map[types.RecommendationType]rankingStrategy {
	contentBased := &contentBasedStrategy{deps: deps}
	return map[types.RecommendationType]rankingStrategy{
		types.RecommendationTypeContentBased:  contentBased,
		types.RecommendationTypePopular:       &popularStrategy{deps: deps},
		types.RecommendationTypeTrending:      &trendingStrategy{deps: deps},
		types.RecommendationTypeCollaborative: &collaborativeStrategy{deps: deps},
		types.RecommendationTypeHybrid:        &hybridStrategy{deps: deps},
		// No trained model is wired yet; ml ranks content-based until one is.
		types.RecommendationTypeML: contentBased,
	}
}

// candidatePool lists items of the content type the user has not interacted
// with, newest first, capped to a multiple of the requested limit so weak
// scorers can still be discarded.
func (d *strategyDeps) candidatePool(ctx context.Context, userID uuid.UUID, contentType types.ContentType, limit int) ([]*types.ContentItem, []uuid.UUID, error) {
	interacted, err := d.interactions.InteractedContentIDs(ctx, nil, userID, contentType)
	if err != nil {
		return nil, nil, err
	}
	multiplier := d.cfg.CandidateMultiplier
	if multiplier <= 0 {
		multiplier = 2
	}
	pool, err := d.items.ListByType(ctx, nil, contentType, interacted, limit*multiplier)
	if err != nil {
		return nil, nil, err
	}
	return pool, interacted, nil
}

func sortRanked(out []rankedCandidate) {
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
}

type contentBasedStrategy struct {
	deps *strategyDeps
}

func (s *contentBasedStrategy) Rank(ctx context.Context, userID uuid.UUID, contentType types.ContentType, limit int) ([]rankedCandidate, error) {
	return s.deps.rankWithScorer(ctx, userID, contentType, limit, nil)
}

// rankWithScorer runs the full four-factor scorer over the candidate pool.
// affinityFor, when non-nil, supplies the interaction sub-score per item.
// Candidate scoring has no side effects, so it fans out across workers.
func (d *strategyDeps) rankWithScorer(ctx context.Context, userID uuid.UUID, contentType types.ContentType, limit int, affinityFor func(item *types.ContentItem) *float64) ([]rankedCandidate, error) {
	pool, _, err := d.candidatePool(ctx, userID, contentType, limit)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	pref, err := d.preferences.GetOrCreate(ctx, nil, userID, contentType)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(pool))
	for _, item := range pool {
		ids = append(ids, item.ContentID)
	}
	counts, err := d.interactions.CountsByContent(ctx, nil, contentType, ids)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]rankedCandidate, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	concurrency := d.cfg.ScoringConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	g.SetLimit(concurrency)
	for i := range pool {
		item := pool[i]
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var affinity *float64
			if affinityFor != nil {
				affinity = affinityFor(item)
			}
			breakdown := d.scorer.Score(item, pref, counts[item.ContentID], affinity, now)
			out[idx] = rankedCandidate{Item: item, Score: breakdown.Total, Reason: breakdown.Reason}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortRanked(out)
	return out, nil
}

type popularStrategy struct {
	deps *strategyDeps
}

// Rank orders purely by lifetime interaction count, independent of recency
// or personalization.
func (s *popularStrategy) Rank(ctx context.Context, userID uuid.UUID, contentType types.ContentType, limit int) ([]rankedCandidate, error) {
	pool, _, err := s.deps.candidatePool(ctx, userID, contentType, limit)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(pool))
	for _, item := range pool {
		ids = append(ids, item.ContentID)
	}
	counts, err := s.deps.interactions.CountsByContent(ctx, nil, contentType, ids)
	if err != nil {
		return nil, err
	}

	out := make([]rankedCandidate, 0, len(pool))
	for _, item := range pool {
		out = append(out, rankedCandidate{
			Item:   item,
			Score:  s.deps.scorer.PopularityScore(counts[item.ContentID]),
			Reason: "popular " + contentTypeLabel(contentType) + " across campus",
		})
	}
	sortRanked(out)
	return out, nil
}

type trendingStrategy struct {
	deps *strategyDeps
}

// Rank orders by interaction count inside the rolling window, independent of
// lifetime popularity.
func (s *trendingStrategy) Rank(ctx context.Context, userID uuid.UUID, contentType types.ContentType, limit int) ([]rankedCandidate, error) {
	pool, _, err := s.deps.candidatePool(ctx, userID, contentType, limit)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(pool))
	for _, item := range pool {
		ids = append(ids, item.ContentID)
	}
	windowDays := s.deps.cfg.TrendingWindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	counts, err := s.deps.interactions.CountsByContentSince(ctx, nil, contentType, ids, since)
	if err != nil {
		return nil, err
	}

	saturation := s.deps.cfg.TrendingSaturation
	if saturation <= 0 {
		saturation = 20
	}
	out := make([]rankedCandidate, 0, len(pool))
	for _, item := range pool {
		score := clamp01(float64(counts[item.ContentID]) / float64(saturation))
		out = append(out, rankedCandidate{
			Item:   item,
			Score:  score,
			Reason: "trending " + contentTypeLabel(contentType) + " this week",
		})
	}
	sortRanked(out)
	return out, nil
}

type collaborativeStrategy struct {
	deps *strategyDeps
}

// Rank is the content-based ranking with the interaction-affinity sub-score
// fed from cached similarity rows. Two signals compete per candidate: its
// strongest cosine similarity to anything the user already interacted with,
// and the strongest similar user who interacted with the candidate. Absent
// or stale rows degrade to the scorer's default.
func (s *collaborativeStrategy) Rank(ctx context.Context, userID uuid.UUID, contentType types.ContentType, limit int) ([]rankedCandidate, error) {
	interacted, err := s.deps.interactions.InteractedContentIDs(ctx, nil, userID, contentType)
	if err != nil {
		return nil, err
	}
	interactedSet := make(map[uuid.UUID]struct{}, len(interacted))
	for _, id := range interacted {
		interactedSet[id] = struct{}{}
	}
	neighbors := s.neighborAffinities(ctx, userID, contentType)

	affinityFor := func(item *types.ContentItem) *float64 {
		best := -1.0
		if v, ok := neighbors[item.ContentID]; ok {
			best = v
		}
		if len(interactedSet) > 0 {
			rows, err := s.deps.similarities.ItemScoresFor(ctx, nil, contentType, types.SimilarityTypeCosine, item.ContentID)
			if err == nil {
				for _, row := range rows {
					other := row.ContentID1
					if other == item.ContentID {
						other = row.ContentID2
					}
					if _, ok := interactedSet[other]; !ok {
						continue
					}
					if row.Score > best {
						best = row.Score
					}
				}
			}
		}
		if best < 0 {
			return nil
		}
		return &best
	}
	return s.deps.rankWithScorer(ctx, userID, contentType, limit, affinityFor)
}

// neighborAffinities maps candidate content to the similarity score of the
// closest user who interacted with it. Only the strongest few neighbors and
// their most recent interactions are consulted; any lookup failure degrades
// to ranking without the neighbor signal.
func (s *collaborativeStrategy) neighborAffinities(ctx context.Context, userID uuid.UUID, contentType types.ContentType) map[uuid.UUID]float64 {
	const neighborLimit = 5
	const recentPerNeighbor = 50

	rows, err := s.deps.similarities.UserScoresFor(ctx, nil, types.SimilarityTypeCosine, userID)
	if err != nil {
		s.deps.log.Warn("user similarity lookup failed, ranking without neighbors", "user_id", userID, "error", err)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	if len(rows) > neighborLimit {
		rows = rows[:neighborLimit]
	}

	out := make(map[uuid.UUID]float64)
	for _, row := range rows {
		neighbor := row.UserID1
		if neighbor == userID {
			neighbor = row.UserID2
		}
		recent, err := s.deps.interactions.GetByUser(ctx, nil, neighbor, contentType, recentPerNeighbor)
		if err != nil {
			s.deps.log.Warn("neighbor interaction lookup failed", "neighbor_id", neighbor, "error", err)
			continue
		}
		for _, it := range recent {
			if row.Score > out[it.ContentID] {
				out[it.ContentID] = row.Score
			}
		}
	}
	return out
}

type hybridStrategy struct {
	deps *strategyDeps
}

// Rank blends the content-based total with the raw popularity sub-score.
func (s *hybridStrategy) Rank(ctx context.Context, userID uuid.UUID, contentType types.ContentType, limit int) ([]rankedCandidate, error) {
	ranked, err := s.deps.rankWithScorer(ctx, userID, contentType, limit, nil)
	if err != nil || len(ranked) == 0 {
		return ranked, err
	}
	ids := make([]uuid.UUID, 0, len(ranked))
	for _, rc := range ranked {
		ids = append(ids, rc.Item.ContentID)
	}
	counts, err := s.deps.interactions.CountsByContent(ctx, nil, contentType, ids)
	if err != nil {
		return nil, err
	}

	contentWeight := s.deps.cfg.HybridContentWeight
	if contentWeight <= 0 || contentWeight > 1 {
		contentWeight = 0.7
	}
	for i := range ranked {
		pop := s.deps.scorer.PopularityScore(counts[ranked[i].Item.ContentID])
		ranked[i].Score = clamp01(contentWeight*ranked[i].Score + (1-contentWeight)*pop)
	}
	sortRanked(ranked)
	return ranked, nil
}
