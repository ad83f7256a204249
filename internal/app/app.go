package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/config"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/team"
	"github.com/riskibarqy/trip-recommender/internal/interfaces/httpapi"
	"github.com/riskibarqy/trip-recommender/internal/observability"
	basecache "github.com/riskibarqy/trip-recommender/internal/platform/cache"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
	"github.com/sourcegraph/conc"
)

const venueCoordinateTTL = 24 * time.Hour

// Cleanup releases everything NewHTTPServer opened, in reverse order.
type Cleanup func(context.Context) error

type cleanupStack []Cleanup

func (s *cleanupStack) push(fn Cleanup) {
	*s = append(*s, fn)
}

func (s cleanupStack) run(ctx context.Context) error {
	var errs []error
	for i := len(s) - 1; i >= 0; i-- {
		if err := s[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, Cleanup, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var cleanups cleanupStack
	fail := func(err error) (*http.Server, Cleanup, error) {
		_ = cleanups.run(context.Background())
		return nil, nil, err
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	var background conc.WaitGroup
	cleanups.push(func(context.Context) error {
		stopBackground()
		background.Wait()
		return nil
	})

	repos, closeRepos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	cleanups.push(closeRepos)

	if cfg.CacheEnabled {
		repoCache := basecache.NewStore(cfg.CacheTTL, basecache.WithCapacity(cfg.CacheCapacity))
		repos = repos.withCache(repoCache)
		background.Go(func() { repoCache.RunSweeper(bgCtx, cfg.CacheSweepInterval) })
	}

	recBackend, closeBackend, err := newRecommendationCacheBackend(ctx, cfg, logger, bgCtx, &background)
	if err != nil {
		return fail(err)
	}
	cleanups.push(closeBackend)

	teams, err := repos.teams.List(ctx)
	if err != nil {
		return fail(fmt.Errorf("load team aliases: %w", err))
	}

	metrics := observability.NewMetrics()
	access := usecase.NewLeagueAccessService(repos.leagues, usecase.LeagueAccessConfig{
		FreemiumExtraLeagueIDs: cfg.RecommendationFreemiumLeagues,
	})
	venueLookup := usecase.NewVenueLookupService(
		repos.venues,
		newGeocoder(cfg, logger),
		basecache.NewStore(venueCoordinateTTL, basecache.WithCapacity(cfg.CacheCapacity)),
		usecase.VenueLookupConfig{NegativeTTL: cfg.RecommendationVenueNegativeTTL},
		logger,
	)
	catalog := usecase.NewFixtureCatalog(
		newFixtureProvider(cfg, logger),
		team.NewNormalizer(teams),
		venueLookup,
		usecase.FixtureCatalogConfig{
			RequestTimeout: cfg.RecommendationCatalogTimeout,
			MaxConcurrency: cfg.RecommendationCatalogConcurrency,
		},
		logger,
	)
	recCache := usecase.NewRecommendationCache(recBackend, usecase.RecommendationCacheConfig{
		TTL:      cfg.RecommendationCacheTTL,
		EmptyTTL: cfg.RecommendationEmptyCacheTTL,
	}, logger)
	recommendations := usecase.NewRecommendationService(
		catalog,
		access,
		venueLookup,
		recCache,
		repos.users,
		repos.trips,
		usecase.RecommendationServiceConfig{
			Weights:    recommendation.DefaultWeights(),
			DayWorkers: cfg.RecommendationDayWorkers,
		},
		metrics,
		logger,
	)

	handler := httpapi.NewHandler(usecase.NewLeagueService(repos.leagues, repos.users, access), recommendations, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, metrics)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanups.run, nil
}
