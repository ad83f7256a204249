package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/usecase"
)

// FixtureProvider serves a fixed fixture list in place of the live feed.
type FixtureProvider struct {
	mu    sync.RWMutex
	items map[string][]usecase.ExternalFixture
}

func NewFixtureProvider(fixtures []usecase.ExternalFixture) *FixtureProvider {
	p := &FixtureProvider{items: make(map[string][]usecase.ExternalFixture)}
	for _, item := range fixtures {
		p.add(item)
	}
	return p
}

func fixtureKey(leagueID, date string) string {
	return leagueID + "|" + date
}

func (p *FixtureProvider) add(item usecase.ExternalFixture) {
	key := fixtureKey(item.LeagueID, item.KickoffAt.UTC().Format(time.DateOnly))
	p.items[key] = append(p.items[key], item)
}

// Add registers more fixtures after construction.
func (p *FixtureProvider) Add(items ...usecase.ExternalFixture) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		p.add(item)
	}
}

func (p *FixtureProvider) ListFixtures(ctx context.Context, leagueID, date string) ([]usecase.ExternalFixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD: %v", usecase.ErrInvalidInput, err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	items := p.items[fixtureKey(leagueID, date)]
	out := make([]usecase.ExternalFixture, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func lngLat(lng, lat float64) *[2]float64 {
	return &[2]float64{lng, lat}
}

// SeedFixtures covers the weekend around the seeded Paris trip.
func SeedFixtures() []usecase.ExternalFixture {
	return []usecase.ExternalFixture{
		{
			ID:        "1387690",
			KickoffAt: time.Date(2026, 11, 8, 20, 45, 0, 0, time.UTC),
			Status:    "NS",
			VenueID:   "671", VenueName: "Parc des Princes", VenueCity: "Paris", VenueCountry: "France",
			VenueLngLat: lngLat(2.2530, 48.8414),
			LeagueID:    LeagueIDLigue1, LeagueName: "Ligue 1", LeagueCountry: "France", Season: 2026,
			HomeTeam: usecase.ExternalTeam{ID: "85", Name: "Paris Saint Germain"},
			AwayTeam: usecase.ExternalTeam{ID: "80", Name: "Lyon"},
		},
		{
			ID:        "1387684",
			KickoffAt: time.Date(2026, 11, 7, 16, 0, 0, 0, time.UTC),
			Status:    "NS",
			VenueID:   "19207", VenueName: "Stade Pierre-Mauroy", VenueCity: "Villeneuve-d'Ascq", VenueCountry: "France",
			LeagueID: LeagueIDLigue1, LeagueName: "Ligue 1", LeagueCountry: "France", Season: 2026,
			HomeTeam: usecase.ExternalTeam{ID: "79", Name: "Lille"},
			AwayTeam: usecase.ExternalTeam{ID: "81", Name: "Marseille"},
		},
		{
			ID:        "1387701",
			KickoffAt: time.Date(2026, 11, 9, 14, 0, 0, 0, time.UTC),
			Status:    "NS",
			VenueID:   "20119", VenueName: "Stade Charléty", VenueCity: "Paris", VenueCountry: "France",
			VenueLngLat: lngLat(2.3464, 48.8186),
			LeagueID:    LeagueIDLigue2, LeagueName: "Ligue 2", LeagueCountry: "France", Season: 2026,
			HomeTeam: usecase.ExternalTeam{ID: "1063", Name: "Paris FC"},
			AwayTeam: usecase.ExternalTeam{ID: "1040", Name: "Grenoble"},
		},
		{
			ID:        "1379113",
			KickoffAt: time.Date(2026, 11, 7, 17, 30, 0, 0, time.UTC),
			Status:    "NS",
			VenueID:   "494", VenueName: "Emirates Stadium", VenueCity: "London", VenueCountry: "England",
			LeagueID: LeagueIDPremierLeague, LeagueName: "Premier League", LeagueCountry: "England", Season: 2026,
			HomeTeam: usecase.ExternalTeam{ID: "42", Name: "Arsenal"},
			AwayTeam: usecase.ExternalTeam{ID: "40", Name: "Liverpool"},
		},
		{
			ID:        "1390022",
			KickoffAt: time.Date(2026, 11, 10, 19, 0, 0, 0, time.UTC),
			Status:    "NS",
			VenueID:   "700", VenueName: "Allianz Arena", VenueCity: "München", VenueCountry: "Germany",
			LeagueID: LeagueIDBundesliga, LeagueName: "Bundesliga", LeagueCountry: "Germany", Season: 2026,
			HomeTeam: usecase.ExternalTeam{ID: "157", Name: "Bayern Munich"},
			AwayTeam: usecase.ExternalTeam{ID: "165", Name: "Dortmund"},
		},
	}
}
