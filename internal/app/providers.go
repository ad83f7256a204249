package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/trip-recommender/external/apifootball"
	"github.com/riskibarqy/trip-recommender/external/nominatim"
	"github.com/riskibarqy/trip-recommender/internal/config"
	"github.com/riskibarqy/trip-recommender/internal/infrastructure/recommendationcache"
	"github.com/riskibarqy/trip-recommender/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/trip-recommender/internal/platform/cache"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
	"github.com/riskibarqy/trip-recommender/internal/platform/resilience"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
	"github.com/sourcegraph/conc"
)

func circuitBreakerConfig(c config.CircuitConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.Enabled,
		FailureThreshold: c.FailureCount,
		OpenTimeout:      c.OpenTimeout,
		HalfOpenMaxReq:   c.HalfOpenMaxReqs,
	}
}

func newFixtureProvider(cfg config.Config, logger *logging.Logger) usecase.FixtureProvider {
	if !cfg.APIFootballEnabled {
		logger.Info("api-football disabled, serving seeded fixtures", "reason", "APIFOOTBALL_ENABLED=false")
		return memory.NewFixtureProvider(memory.SeedFixtures())
	}

	return apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:           cfg.APIFootballBaseURL,
		Token:             cfg.APIFootballToken,
		Timeout:           cfg.APIFootballTimeout,
		MaxRetries:        cfg.APIFootballMaxRetries,
		RequestsPerSecond: cfg.APIFootballRequestsPerSecond,
		Season:            cfg.APIFootballSeason,
		Logger:            logger,
		CircuitBreaker:    circuitBreakerConfig(cfg.APIFootballCircuit),
	})
}

// newGeocoder returns a nil interface when disabled so the venue lookup
// stops at the stadium catalog.
func newGeocoder(cfg config.Config, logger *logging.Logger) usecase.Geocoder {
	if !cfg.NominatimEnabled {
		logger.Info("nominatim disabled", "reason", "NOMINATIM_ENABLED=false")
		return nil
	}

	return nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:           cfg.NominatimBaseURL,
		UserAgent:         cfg.NominatimUserAgent,
		Email:             cfg.NominatimEmail,
		Timeout:           cfg.NominatimTimeout,
		RequestsPerSecond: cfg.NominatimRequestsPerSecond,
		Logger:            logger,
		CircuitBreaker:    circuitBreakerConfig(cfg.NominatimCircuit),
	})
}

func newRecommendationCacheBackend(
	ctx context.Context,
	cfg config.Config,
	logger *logging.Logger,
	bgCtx context.Context,
	background *conc.WaitGroup,
) (usecase.RecommendationCacheBackend, Cleanup, error) {
	switch cfg.RecommendationCacheBackend {
	case config.CacheBackendRedis:
		client, err := recommendationcache.NewRedisClient(ctx, recommendationcache.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect recommendation cache: %w", err)
		}
		logger.Info("recommendation cache backend", "backend", config.CacheBackendRedis, "addr", cfg.RedisAddr)
		return recommendationcache.NewRedisStore(client), func(context.Context) error { return client.Close() }, nil
	default:
		store := basecache.NewStore(cfg.RecommendationCacheTTL, basecache.WithCapacity(cfg.CacheCapacity))
		background.Go(func() { store.RunSweeper(bgCtx, cfg.CacheSweepInterval) })
		logger.Info("recommendation cache backend", "backend", config.CacheBackendMemory, "capacity", cfg.CacheCapacity)
		return recommendationcache.NewMemoryStore(store), func(context.Context) error { return nil }, nil
	}
}
