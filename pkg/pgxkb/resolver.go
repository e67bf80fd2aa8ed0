package pgxkb

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/trialfit-scoring-server/internal/domain"
)

// CacheStats reports resolver cache performance for diagnostics.
type CacheStats struct {
	MemoryHits       uint64 `json:"memory_hits"`
	RedisHits        uint64 `json:"redis_hits"`
	RemoteLookups    uint64 `json:"remote_lookups"`
	BuiltinFallbacks uint64 `json:"builtin_fallbacks"`
}

// Resolver implements domain.PGxLookup with multi-level caching:
// an in-memory LRU for hot combinations, an optional Redis tier shared across
// instances, and a circuit-breaker-wrapped remote guideline service. When the
// remote is disabled, fails, or does not cover a combination, the built-in
// curated table answers instead, so a screening request never fails outright
// because an external dependency is down.
type Resolver struct {
	builtin *BuiltinKB
	remote  *RemoteClient
	redis   *RedisCache

	memoryCache *lru.Cache[string, *domain.PGxAssessment]
	breaker     *gobreaker.CircuitBreaker

	logger  *logrus.Logger
	stats   CacheStats
	statsMu sync.RWMutex
}

// NewResolver builds the lookup stack from configuration. The remote client
// and Redis cache are optional: pass nil to run on the built-in table alone.
func NewResolver(cfg domain.PGxConfig, remote *RemoteClient, redisCache *RedisCache, logger *logrus.Logger) (*Resolver, error) {
	size := cfg.LRUSize
	if size <= 0 {
		size = 1024
	}

	memoryCache, err := lru.New[string, *domain.PGxAssessment](size)
	if err != nil {
		return nil, fmt.Errorf("creating assessment LRU cache: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "pgx-guidelines",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Resolver{
		builtin:     NewBuiltinKB(),
		remote:      remote,
		redis:       redisCache,
		memoryCache: memoryCache,
		breaker:     breaker,
		logger:      logger,
	}, nil
}

// Lookup implements domain.PGxLookup.
func (r *Resolver) Lookup(ctx context.Context, drugName, gene, variant string) (*domain.PGxAssessment, error) {
	key := lookupKey(drugName, gene, variant)

	if assessment, ok := r.memoryCache.Get(key); ok {
		r.recordMemoryHit()
		return assessment, nil
	}

	if r.redis != nil {
		assessment, hit, err := r.redis.Get(ctx, drugName, gene, variant)
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"drug":  drugName,
				"gene":  gene,
				"error": err,
			}).Warn("Redis assessment lookup failed, continuing without cache")
		} else if hit {
			r.recordRedisHit()
			r.memoryCache.Add(key, assessment)
			return assessment, nil
		}
	}

	if r.remote != nil {
		assessment, err := r.remoteLookup(ctx, drugName, gene, variant)
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"drug":  drugName,
				"gene":  gene,
				"error": err,
			}).Warn("Remote guideline lookup failed, falling back to built-in table")
		} else if assessment != nil {
			r.storeCaches(ctx, key, drugName, gene, variant, assessment)
			return assessment, nil
		}
		// Remote healthy but combination uncovered: the built-in table still
		// gets a chance below.
	}

	assessment, err := r.builtin.Lookup(ctx, drugName, gene, variant)
	if err != nil {
		return nil, err
	}
	r.recordBuiltinFallback()
	if assessment != nil {
		r.memoryCache.Add(key, assessment)
	}
	return assessment, nil
}

func (r *Resolver) remoteLookup(ctx context.Context, drugName, gene, variant string) (*domain.PGxAssessment, error) {
	r.recordRemoteLookup()

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.remote.Lookup(ctx, drugName, gene, variant)
	})
	if err != nil {
		return nil, err
	}

	assessment, _ := result.(*domain.PGxAssessment)
	return assessment, nil
}

func (r *Resolver) storeCaches(ctx context.Context, key, drugName, gene, variant string, assessment *domain.PGxAssessment) {
	r.memoryCache.Add(key, assessment)

	if r.redis != nil {
		if err := r.redis.Set(ctx, drugName, gene, variant, assessment); err != nil {
			r.logger.WithField("error", err).Warn("Failed to cache assessment in Redis")
		}
	}
}

// Stats returns a snapshot of cache performance counters.
func (r *Resolver) Stats() CacheStats {
	r.statsMu.RLock()
	defer r.statsMu.RUnlock()
	return r.stats
}

func (r *Resolver) recordMemoryHit() {
	r.statsMu.Lock()
	r.stats.MemoryHits++
	r.statsMu.Unlock()
}

func (r *Resolver) recordRedisHit() {
	r.statsMu.Lock()
	r.stats.RedisHits++
	r.statsMu.Unlock()
}

func (r *Resolver) recordRemoteLookup() {
	r.statsMu.Lock()
	r.stats.RemoteLookups++
	r.statsMu.Unlock()
}

func (r *Resolver) recordBuiltinFallback() {
	r.statsMu.Lock()
	r.stats.BuiltinFallbacks++
	r.statsMu.Unlock()
}
