package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

// SimilarityService recomputes the pairwise similarity caches. It runs
// outside the hot recommendation path; the scorer treats its rows as
// eventually consistent and never blocks on a fresh computation.
type SimilarityService interface {
	ComputeUserSimilarities(ctx context.Context, similarityType types.SimilarityType, contentType types.ContentType) (int, error)
	ComputeItemSimilarities(ctx context.Context, similarityType types.SimilarityType, contentType types.ContentType) (int, error)
}

type similarityService struct {
	db           *gorm.DB
	log          *logger.Logger
	interactions repos.InteractionRepo
	similarities repos.SimilarityRepo
}

func NewSimilarityService(db *gorm.DB, baseLog *logger.Logger, interactionRepo repos.InteractionRepo, similarityRepo repos.SimilarityRepo) SimilarityService {
	return &similarityService{
		db:           db,
		log:          baseLog.With("service", "SimilarityService"),
		interactions: interactionRepo,
		similarities: similarityRepo,
	}
}

// interactionWeight maps an interaction to an implicit rating. Explicit
// ratings win; otherwise heavier actions weigh more.
func interactionWeight(row *types.ContentInteraction) float64 {
	if row.Rating != nil {
		return float64(*row.Rating)
	}
	switch row.InteractionType {
	case types.InteractionTypeView:
		return 1
	case types.InteractionTypeLike, types.InteractionTypeBookmark:
		return 2
	case types.InteractionTypeComment, types.InteractionTypeShare, types.InteractionTypeRate:
		return 3
	case types.InteractionTypeJoin:
		return 4
	default:
		return 1
	}
}

// ComputeUserSimilarities builds one weight vector per user over the items
// they touched and upserts a symmetric score for every pair that shares at
// least one item. An empty contentType spans all content.
func (s *similarityService) ComputeUserSimilarities(ctx context.Context, similarityType types.SimilarityType, contentType types.ContentType) (int, error) {
	if !similarityType.Valid() {
		return 0, fmt.Errorf("invalid similarity_type %q", similarityType)
	}
	interactions, err := s.interactions.ListAll(ctx, nil, contentType)
	if err != nil {
		return 0, err
	}

	vectors := make(map[uuid.UUID]map[uuid.UUID]float64)
	for _, row := range interactions {
		v, ok := vectors[row.UserID]
		if !ok {
			v = make(map[uuid.UUID]float64)
			vectors[row.UserID] = v
		}
		v[row.ContentID] += interactionWeight(row)
	}

	now := time.Now().UTC()
	pairs := pairwiseScores(vectors, similarityType)
	rows := make([]*types.UserSimilarity, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, &types.UserSimilarity{
			ID:             uuid.New(),
			UserID1:        p.a,
			UserID2:        p.b,
			SimilarityType: similarityType,
			Score:          p.score,
			LastCalculated: now,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	if err := s.similarities.UpsertUserPairs(ctx, nil, rows); err != nil {
		return 0, err
	}
	s.log.Info("user similarities recomputed", "similarity_type", similarityType, "pairs", len(rows))
	return len(rows), nil
}

// ComputeItemSimilarities mirrors the user computation with item-to-user
// vectors, scoped to one content type.
func (s *similarityService) ComputeItemSimilarities(ctx context.Context, similarityType types.SimilarityType, contentType types.ContentType) (int, error) {
	if !similarityType.Valid() {
		return 0, fmt.Errorf("invalid similarity_type %q", similarityType)
	}
	if !contentType.Valid() {
		return 0, fmt.Errorf("invalid content_type %q", contentType)
	}
	interactions, err := s.interactions.ListAll(ctx, nil, contentType)
	if err != nil {
		return 0, err
	}

	vectors := make(map[uuid.UUID]map[uuid.UUID]float64)
	for _, row := range interactions {
		v, ok := vectors[row.ContentID]
		if !ok {
			v = make(map[uuid.UUID]float64)
			vectors[row.ContentID] = v
		}
		v[row.UserID] += interactionWeight(row)
	}

	now := time.Now().UTC()
	pairs := pairwiseScores(vectors, similarityType)
	rows := make([]*types.ItemSimilarity, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, &types.ItemSimilarity{
			ID:             uuid.New(),
			ContentType:    contentType,
			ContentID1:     p.a,
			ContentID2:     p.b,
			SimilarityType: similarityType,
			Score:          p.score,
			LastCalculated: now,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	if err := s.similarities.UpsertItemPairs(ctx, nil, rows); err != nil {
		return 0, err
	}
	s.log.Info("item similarities recomputed", "similarity_type", similarityType, "content_type", contentType, "pairs", len(rows))
	return len(rows), nil
}

type scoredPair struct {
	a, b  uuid.UUID
	score float64
}

// pairwiseScores evaluates every pair with at least one shared dimension.
// Pairs are ordered (a < b as strings) so the stored rows are symmetric by
// construction.
func pairwiseScores(vectors map[uuid.UUID]map[uuid.UUID]float64, similarityType types.SimilarityType) []scoredPair {
	ids := make([]uuid.UUID, 0, len(vectors))
	for id := range vectors {
		ids = append(ids, id)
	}

	var out []scoredPair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			if b.String() < a.String() {
				a, b = b, a
			}
			score, ok := similarityScore(vectors[a], vectors[b], similarityType)
			if !ok {
				continue
			}
			out = append(out, scoredPair{a: a, b: b, score: clamp01(score)})
		}
	}
	return out
}

// similarityScore returns a [0,1] score for two weight vectors, or false
// when the metric is undefined for the pair (no overlap, zero variance).
func similarityScore(a, b map[uuid.UUID]float64, similarityType types.SimilarityType) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	common := 0
	for k := range a {
		if _, ok := b[k]; ok {
			common++
		}
	}
	if common == 0 {
		return 0, false
	}

	switch similarityType {
	case types.SimilarityTypeCosine:
		return cosineSimilarity(a, b), true
	case types.SimilarityTypeJaccard:
		return jaccardSimilarity(a, b), true
	case types.SimilarityTypePearson:
		return pearsonSimilarity(a, b)
	case types.SimilarityTypeEuclidean:
		return euclideanSimilarity(a, b), true
	default:
		return 0, false
	}
}

func cosineSimilarity(a, b map[uuid.UUID]float64) float64 {
	var dot, normA, normB float64
	for k, va := range a {
		normA += va * va
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func jaccardSimilarity(a, b map[uuid.UUID]float64) float64 {
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// pearsonSimilarity correlates the co-rated dimensions and maps r from
// [-1,1] to [0,1]. Needs at least two co-rated dimensions and nonzero
// variance on both sides.
func pearsonSimilarity(a, b map[uuid.UUID]float64) (float64, bool) {
	var common []uuid.UUID
	for k := range a {
		if _, ok := b[k]; ok {
			common = append(common, k)
		}
	}
	n := float64(len(common))
	if len(common) < 2 {
		return 0, false
	}

	var meanA, meanB float64
	for _, k := range common {
		meanA += a[k]
		meanB += b[k]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for _, k := range common {
		da := a[k] - meanA
		db := b[k] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0, false
	}
	r := cov / (math.Sqrt(varA) * math.Sqrt(varB))
	return (r + 1) / 2, true
}

// euclideanSimilarity converts distance over the union of dimensions into a
// (0,1] score.
func euclideanSimilarity(a, b map[uuid.UUID]float64) float64 {
	var sum float64
	for k, va := range a {
		d := va - b[k]
		sum += d * d
	}
	for k, vb := range b {
		if _, ok := a[k]; !ok {
			sum += vb * vb
		}
	}
	return 1 / (1 + math.Sqrt(sum))
}
