package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"leadscope/internal/classification"
	"leadscope/internal/infrastructure"
	"leadscope/pkg/contracts/domain"
)

// Recommender produces 3S recommendations for a classified population.
type Recommender interface {
	GenerateThreeS(ctx context.Context, items []domain.ClientClassification) (*domain.ThreeSRecommendations, error)
}

type cacheEntry struct {
	value   domain.ThreeSRecommendations
	expires time.Time
}

// RecommendationService caches 3S recommendations by the content of the
// classifications they were derived from. Concurrent requests for the same
// content share one upstream call.
type RecommendationService struct {
	recommender Recommender
	ttl         time.Duration
	maxEntries  int
	metrics     *infrastructure.BusinessMetrics
	logger      *slog.Logger
	now         func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
	group singleflight.Group
}

// NewRecommendationService creates the service. A non-positive ttl disables
// caching; a non-positive maxEntries leaves the cache unbounded.
func NewRecommendationService(recommender Recommender, ttl time.Duration, maxEntries int, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *RecommendationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationService{
		recommender: recommender,
		ttl:         ttl,
		maxEntries:  maxEntries,
		metrics:     metrics,
		logger:      logger.With(slog.String("service", "recommendation")),
		now:         time.Now,
		cache:       make(map[string]cacheEntry),
	}
}

// Recommend returns the 3S recommendations for items. Cached results have
// Cached set.
func (s *RecommendationService) Recommend(ctx context.Context, items []domain.ClientClassification) (*domain.ThreeSRecommendations, error) {
	if len(items) == 0 {
		return nil, classification.ErrNoClassifications
	}
	start := s.now()

	key, err := cacheKey(items)
	if err != nil {
		return nil, err
	}
	if rec, ok := s.lookup(key); ok {
		s.logger.DebugContext(ctx, "3S recommendations served from cache", slog.String("key", key[:12]))
		s.metrics.RecordRecommendation(ctx, infrastructure.CacheHit, s.now().Sub(start), nil)
		return rec, nil
	}

	// The shared call is detached from the cancellation of any one caller.
	ch := s.group.DoChan(key, func() (any, error) {
		// A flight that finished between lookup and DoChan already stored it.
		if rec, ok := s.lookup(key); ok {
			return rec, nil
		}
		rec, err := s.recommender.GenerateThreeS(context.WithoutCancel(ctx), items)
		if err != nil {
			return nil, err
		}
		s.store(key, *rec)
		return rec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		outcome := infrastructure.CacheMiss
		if res.Shared {
			outcome = infrastructure.CacheShared
		}
		s.metrics.RecordRecommendation(ctx, outcome, s.now().Sub(start), res.Err)
		if res.Err != nil {
			infrastructure.RecordError(ctx, res.Err)
			return nil, res.Err
		}
		rec := *res.Val.(*domain.ThreeSRecommendations)
		return &rec, nil
	}
}

func (s *RecommendationService) lookup(key string) (*domain.ThreeSRecommendations, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	if !s.now().Before(entry.expires) {
		delete(s.cache, key)
		return nil, false
	}
	rec := entry.value
	rec.Cached = true
	return &rec, true
}

func (s *RecommendationService) store(key string, rec domain.ThreeSRecommendations) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.maxEntries > 0 && len(s.cache) >= s.maxEntries {
		s.evict(now)
	}
	s.cache[key] = cacheEntry{value: rec, expires: now.Add(s.ttl)}
}

// evict drops expired entries, then the entry closest to expiry if the cache
// is still full. Callers hold mu.
func (s *RecommendationService) evict(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range s.cache {
		if !now.Before(e.expires) {
			delete(s.cache, k)
			continue
		}
		if oldestKey == "" || e.expires.Before(oldest) {
			oldestKey, oldest = k, e.expires
		}
	}
	if len(s.cache) >= s.maxEntries && oldestKey != "" {
		delete(s.cache, oldestKey)
	}
}

// Len returns the number of cached entries, expired ones included.
func (s *RecommendationService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// cacheKey hashes the canonical JSON encoding of items.
func cacheKey(items []domain.ClientClassification) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode classifications: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
