package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

// CacheKey identifies one cached recommendation list. Invalidation is an
// explicit call per mutation over the closed recommendation-type enum, never
// a pattern-matching delete.
type CacheKey struct {
	UserID             uuid.UUID
	ContentType        types.ContentType
	RecommendationType types.RecommendationType
}

func (k CacheKey) String() string {
	return fmt.Sprintf("rec:%s:%s:%s", k.UserID, k.ContentType, k.RecommendationType)
}

type RecommendationCache interface {
	Get(ctx context.Context, key CacheKey) ([]byte, bool)
	Set(ctx context.Context, key CacheKey, payload []byte, ttl time.Duration)
	Invalidate(ctx context.Context, userID uuid.UUID, contentType types.ContentType) error
	Close() error
}

type recommendationCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRecommendationCache(log *logger.Logger) (RecommendationCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &recommendationCache{
		log: log.With("service", "RecommendationCache"),
		rdb: rdb,
	}, nil
}

func (c *recommendationCache) Get(ctx context.Context, key CacheKey) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("cache get failed", "key", key.String(), "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *recommendationCache) Set(ctx context.Context, key CacheKey, payload []byte, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key.String(), payload, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key.String(), "error", err)
	}
}

// Invalidate drops every cached list for the (user, content type) pair. The
// recommendation-type enum is closed, so the keys are enumerable.
func (c *recommendationCache) Invalidate(ctx context.Context, userID uuid.UUID, contentType types.ContentType) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	keys := make([]string, 0, len(types.AllRecommendationTypes))
	for _, rt := range types.AllRecommendationTypes {
		keys = append(keys, CacheKey{UserID: userID, ContentType: contentType, RecommendationType: rt}.String())
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache invalidate failed", "user_id", userID, "content_type", contentType, "error", err)
		return err
	}
	return nil
}

func (c *recommendationCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
