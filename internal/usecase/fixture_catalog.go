package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/fixture"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultCatalogRequestTimeout = 10 * time.Second
	defaultCatalogConcurrency    = 8
)

// ExternalFixture is the provider shape before validation and normalization.
type ExternalFixture struct {
	ID        string
	KickoffAt time.Time
	Status    string

	VenueID      string
	VenueName    string
	VenueCity    string
	VenueCountry string
	// VenueLngLat is nil when the provider has no coordinates.
	VenueLngLat *[2]float64

	LeagueID      string
	LeagueName    string
	LeagueCountry string
	Season        int

	HomeTeam ExternalTeam
	AwayTeam ExternalTeam
}

type ExternalTeam struct {
	ID   string
	Name string
	Logo string
}

// FixtureProvider lists fixtures for one league on one calendar day.
type FixtureProvider interface {
	ListFixtures(ctx context.Context, leagueID, date string) ([]ExternalFixture, error)
}

type TeamNameNormalizer interface {
	Normalize(apiName string) string
}

type FixtureCatalogConfig struct {
	RequestTimeout time.Duration
	MaxConcurrency int
}

// FixtureCatalog fans a day search out to every allowed league. A failing
// league contributes no fixtures.
type FixtureCatalog struct {
	provider FixtureProvider
	teams    TeamNameNormalizer
	venues   VenueCoordinateLookup
	cfg      FixtureCatalogConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewFixtureCatalog(
	provider FixtureProvider,
	teams TeamNameNormalizer,
	venues VenueCoordinateLookup,
	cfg FixtureCatalogConfig,
	logger *logging.Logger,
) *FixtureCatalog {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultCatalogRequestTimeout
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultCatalogConcurrency
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &FixtureCatalog{
		provider: provider,
		teams:    teams,
		venues:   venues,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

type leagueSearch struct {
	index    int
	leagueID string
	items    []fixture.Fixture
	err      error
}

// SearchFixtures returns the actionable fixtures on date across leagueIDs, in
// league order then provider order. The error is non-nil only when every
// league request failed.
func (c *FixtureCatalog) SearchFixtures(ctx context.Context, date string, leagueIDs []string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureCatalog.SearchFixtures")
	defer span.End()

	if c.provider == nil {
		return nil, fmt.Errorf("%w: fixture provider is not configured", ErrDependencyUnavailable)
	}
	if len(leagueIDs) == 0 {
		return nil, nil
	}

	workers := c.cfg.MaxConcurrency
	if workers > len(leagueIDs) {
		workers = len(leagueIDs)
	}

	p := pool.NewWithResults[leagueSearch]().WithMaxGoroutines(workers)
	for i, leagueID := range leagueIDs {
		i, leagueID := i, leagueID
		p.Go(func() leagueSearch {
			return c.searchLeague(ctx, i, leagueID, date)
		})
	}
	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	now := c.now()
	out := make([]fixture.Fixture, 0)
	seen := make(map[string]struct{})
	failed := 0
	var lastErr error
	for _, res := range results {
		if res.err != nil {
			failed++
			lastErr = res.err
			c.logger.WarnContext(ctx, "fixture catalog league request failed",
				"league_id", res.leagueID,
				"date", date,
				"error", res.err,
			)
			continue
		}
		for _, item := range res.items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			if !fixture.IsActionable(item, now) {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
	}

	if failed == len(results) {
		return nil, fmt.Errorf("%w: all %d league requests failed for %s: %v", ErrDependencyUnavailable, failed, date, lastErr)
	}
	return out, nil
}

func (c *FixtureCatalog) searchLeague(ctx context.Context, index int, leagueID, date string) leagueSearch {
	res := leagueSearch{index: index, leagueID: leagueID}

	var catcher panics.Catcher
	catcher.Try(func() {
		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()

		raw, err := c.provider.ListFixtures(reqCtx, leagueID, date)
		if err != nil {
			res.err = err
			return
		}

		items := make([]fixture.Fixture, 0, len(raw))
		for _, ext := range raw {
			item, ok := c.normalize(reqCtx, ext, leagueID)
			if !ok {
				continue
			}
			items = append(items, item)
		}
		res.items = items
	})
	if recovered := catcher.Recovered(); recovered != nil {
		res.items = nil
		res.err = recovered.AsError()
	}

	return res
}

// normalize validates a provider fixture and maps it to the canonical shape.
// Fixtures without an id or kickoff, or from a league other than the one
// requested, are rejected.
func (c *FixtureCatalog) normalize(ctx context.Context, ext ExternalFixture, requestedLeague string) (fixture.Fixture, bool) {
	id := strings.TrimSpace(ext.ID)
	if id == "" || ext.KickoffAt.IsZero() {
		return fixture.Fixture{}, false
	}
	leagueID := strings.TrimSpace(ext.LeagueID)
	if leagueID == "" {
		leagueID = requestedLeague
	}
	if leagueID != requestedLeague {
		return fixture.Fixture{}, false
	}

	item := fixture.Fixture{
		ID:        id,
		KickoffAt: ext.KickoffAt.UTC(),
		Status:    fixture.NormalizeStatus(ext.Status),
		Venue: fixture.Venue{
			ID:      strings.TrimSpace(ext.VenueID),
			Name:    strings.TrimSpace(ext.VenueName),
			City:    strings.TrimSpace(ext.VenueCity),
			Country: strings.TrimSpace(ext.VenueCountry),
		},
		League: fixture.League{
			ID:      leagueID,
			Name:    strings.TrimSpace(ext.LeagueName),
			Country: strings.TrimSpace(ext.LeagueCountry),
			Season:  ext.Season,
		},
		HomeTeam: c.normalizeTeam(ext.HomeTeam),
		AwayTeam: c.normalizeTeam(ext.AwayTeam),
	}

	if ext.VenueLngLat != nil {
		if point := geo.FromLngLat(*ext.VenueLngLat); point.Valid() {
			item.Venue.Coordinates = &point
		}
	}
	if item.Venue.Coordinates == nil && c.venues != nil && item.Venue.Name != "" {
		pair, found, err := c.venues.GetVenueCoordinates(ctx, item.Venue.Name, item.Venue.City, item.Venue.Country)
		switch {
		case err != nil:
			c.logger.DebugContext(ctx, "venue lookup failed for candidate",
				"fixture_id", item.ID,
				"venue", item.Venue.Name,
				"error", err,
			)
		case found:
			if point := geo.FromLngLat(pair); point.Valid() {
				item.Venue.Coordinates = &point
			}
		}
	}

	return item, true
}

func (c *FixtureCatalog) normalizeTeam(ext ExternalTeam) fixture.Team {
	name := strings.TrimSpace(ext.Name)
	if c.teams != nil {
		name = c.teams.Normalize(name)
	}
	return fixture.Team{
		ID:   strings.TrimSpace(ext.ID),
		Name: name,
		Logo: strings.TrimSpace(ext.Logo),
	}
}
