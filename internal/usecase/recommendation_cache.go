package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
)

const (
	recommendationCachePrefix = "trip-recs:v1:"

	defaultRecommendationTTL      = 24 * time.Hour
	defaultEmptyRecommendationTTL = time.Hour
)

// RecommendationCacheBackend stores results under opaque keys. Implementations
// expire entries themselves.
type RecommendationCacheBackend interface {
	Get(ctx context.Context, key string) (recommendation.Result, bool, error)
	Set(ctx context.Context, key string, value recommendation.Result, ttl time.Duration) error
	DeleteContaining(ctx context.Context, fragment string) (int, error)
}

type RecommendationCacheConfig struct {
	TTL      time.Duration
	EmptyTTL time.Duration
}

// RecommendationCache picks the TTL for a result and degrades backend
// failures to misses.
type RecommendationCache struct {
	backend RecommendationCacheBackend
	cfg     RecommendationCacheConfig
	logger  *logging.Logger
}

func NewRecommendationCache(backend RecommendationCacheBackend, cfg RecommendationCacheConfig, logger *logging.Logger) *RecommendationCache {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultRecommendationTTL
	}
	if cfg.EmptyTTL <= 0 {
		cfg.EmptyTTL = defaultEmptyRecommendationTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RecommendationCache{
		backend: backend,
		cfg:     cfg,
		logger:  logger,
	}
}

// RecommendationCacheKey fingerprints everything that changes the result:
// user, tier, radius, trip and the sorted saved match ids.
func RecommendationCacheKey(u user.User, t trip.Trip) string {
	ids := t.MatchIDs()
	sort.Strings(ids)
	sum := sha1.Sum([]byte(strings.Join(ids, ",")))

	return fmt.Sprintf("%s%s%s:tier=%s:r=%d:m=%s",
		recommendationCachePrefix,
		userKeyFragment(u.ID),
		tripKeyFragment(t.ID),
		user.ParseTier(string(u.Tier)),
		int(u.RadiusMiles()),
		hex.EncodeToString(sum[:]),
	)
}

func userKeyFragment(userID string) string {
	return "u=" + url.QueryEscape(userID)
}

func tripKeyFragment(tripID string) string {
	return ":t=" + url.QueryEscape(tripID)
}

func (c *RecommendationCache) TTLFor(value recommendation.Result) time.Duration {
	if len(value.Recommendations) == 0 {
		return c.cfg.EmptyTTL
	}
	return c.cfg.TTL
}

func (c *RecommendationCache) Get(ctx context.Context, key string) (recommendation.Result, bool) {
	if c == nil || c.backend == nil {
		return recommendation.Result{}, false
	}
	value, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "recommendation cache read failed", "key", key, "error", err)
		return recommendation.Result{}, false
	}
	return value, ok
}

// Set stores value with the long TTL when it has recommendations and the
// short TTL otherwise.
func (c *RecommendationCache) Set(ctx context.Context, key string, value recommendation.Result) {
	if c == nil {
		return
	}
	c.SetWithTTL(ctx, key, value, c.TTLFor(value))
}

func (c *RecommendationCache) SetWithTTL(ctx context.Context, key string, value recommendation.Result, ttl time.Duration) {
	if c == nil || c.backend == nil {
		return
	}
	value.Cached = false
	if err := c.backend.Set(ctx, key, value, ttl); err != nil {
		c.logger.WarnContext(ctx, "recommendation cache write failed", "key", key, "error", err)
	}
}

func (c *RecommendationCache) InvalidateByTrip(ctx context.Context, tripID string) int {
	if strings.TrimSpace(tripID) == "" {
		return 0
	}
	return c.deleteContaining(ctx, tripKeyFragment(tripID)+":")
}

func (c *RecommendationCache) InvalidateByUser(ctx context.Context, userID string) int {
	if strings.TrimSpace(userID) == "" {
		return 0
	}
	return c.deleteContaining(ctx, ":"+userKeyFragment(userID)+":")
}

func (c *RecommendationCache) deleteContaining(ctx context.Context, fragment string) int {
	if c == nil || c.backend == nil {
		return 0
	}
	removed, err := c.backend.DeleteContaining(ctx, fragment)
	if err != nil {
		c.logger.WarnContext(ctx, "recommendation cache invalidation failed", "fragment", fragment, "error", err)
	}
	return removed
}
