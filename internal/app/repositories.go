package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/trip-recommender/internal/config"
	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/team"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	"github.com/riskibarqy/trip-recommender/internal/domain/venue"
	cacherepo "github.com/riskibarqy/trip-recommender/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/trip-recommender/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/trip-recommender/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/trip-recommender/internal/platform/cache"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const postgresDriver = "postgres"

type repositories struct {
	leagues league.Repository
	teams   team.Repository
	venues  venue.Repository
	users   user.Repository
	trips   trip.Repository
}

// withCache decorates the read-mostly catalogs. Users and trips change per
// request and are never cached here.
func (r repositories) withCache(store *basecache.Store) repositories {
	r.leagues = cacherepo.NewLeagueRepository(r.leagues, store)
	r.teams = cacherepo.NewTeamRepository(r.teams, store)
	r.venues = cacherepo.NewVenueRepository(r.venues, store)
	return r
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, Cleanup, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("using seeded in-memory repositories", "reason", "DB_URL empty")
		return memoryRepositories(), func(context.Context) error { return nil }, nil
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}
	closeDB := func(context.Context) error { return db.Close() }

	if cfg.DBBootstrapSeed {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	logger.Info("using postgres repositories",
		"db_name", dbNameFromURL(cfg.DBURL),
		"trace_enabled", cfg.DBTraceEnabled,
		"bootstrap_seed", cfg.DBBootstrapSeed,
	)

	return repositories{
		leagues: postgres.NewLeagueRepository(db),
		teams:   postgres.NewTeamRepository(db),
		venues:  postgres.NewVenueRepository(db),
		users:   postgres.NewUserRepository(db),
		trips:   postgres.NewTripRepository(db),
	}, closeDB, nil
}

func memoryRepositories() repositories {
	return repositories{
		leagues: memory.NewLeagueRepository(memory.SeedLeagues()),
		teams:   memory.NewTeamRepository(memory.SeedTeams()),
		venues:  memory.NewVenueRepository(memory.SeedVenues()),
		users:   memory.NewUserRepository(memory.SeedUsers()),
		trips:   memory.NewTripRepository(memory.SeedTrips()),
	}
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBApplicationName)

	var (
		db  *sqlx.DB
		err error
	)
	if cfg.DBTraceEnabled {
		db, err = otelsqlx.Open(postgresDriver, dsn,
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
	} else {
		db, err = sqlx.Open(postgresDriver, dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if cfg.DBTraceEnabled {
		otelsql.ReportDBStatsMetrics(db.DB)
	}

	return db, nil
}
