package pgxkb

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trialfit-scoring-server/internal/domain"
)

// RedisCache is the distributed second-tier cache for remote assessments,
// shared across server instances so one node's guideline fetch serves them all.
type RedisCache struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache connects to Redis using the cache configuration.
func NewRedisCache(cfg domain.CacheConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.PoolTimeout = cfg.PoolTimeout
	opts.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		redis:      client,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// cachedAssessment wraps an assessment with expiry metadata so a TTL change
// in config invalidates stale entries written under the old TTL.
type cachedAssessment struct {
	Data      *domain.PGxAssessment `json:"data"`
	CachedAt  time.Time             `json:"cached_at"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// Get retrieves a cached assessment. The second return reports a cache hit.
func (c *RedisCache) Get(ctx context.Context, drugName, gene, variant string) (*domain.PGxAssessment, bool, error) {
	key := assessmentCacheKey(drugName, gene, variant)

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil // Cache miss
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached assessment: %w", err)
	}

	var cached cachedAssessment
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// Remove corrupted cache entry
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	return cached.Data, true, nil
}

// Set caches an assessment under the configured TTL.
func (c *RedisCache) Set(ctx context.Context, drugName, gene, variant string, assessment *domain.PGxAssessment) error {
	key := assessmentCacheKey(drugName, gene, variant)

	cached := cachedAssessment{
		Data:      assessment,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(c.defaultTTL),
	}

	jsonData, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal cached assessment: %w", err)
	}

	return c.redis.Set(ctx, key, jsonData, c.defaultTTL).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.redis.Close()
}

// assessmentCacheKey creates a stable cache key for one lookup triple.
func assessmentCacheKey(drugName, gene, variant string) string {
	hash := sha256.Sum256([]byte(lookupKey(drugName, gene, variant)))
	return fmt.Sprintf("pgx:assessment:%x", hash[:16])
}
