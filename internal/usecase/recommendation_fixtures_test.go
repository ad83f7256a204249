package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/fixture"
	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
)

var (
	parcDesPrinces = geo.Point{Lat: 48.8414, Lng: 2.2530}
	stadeDeFrance  = geo.Point{Lat: 48.9245, Lng: 2.3602}
	stadePierre    = geo.Point{Lat: 50.6119, Lng: 3.1305}
	emirates       = geo.Point{Lat: 51.5549, Lng: -0.1084}
	velodrome      = geo.Point{Lat: 43.2698, Lng: 5.3959}
)

var (
	ligue1 = league.League{ID: "61", Name: "Ligue 1", CountryCode: "FR", Tier: league.TierOne, TopFive: true}
	epl    = league.League{ID: "39", Name: "Premier League", CountryCode: "GB", Tier: league.TierOne, TopFive: true}
	ligue2 = league.League{ID: "62", Name: "Ligue 2", CountryCode: "FR", Tier: league.TierTwo}
)

func pointPtr(p geo.Point) *geo.Point {
	return &p
}

func kickoff(date string, hour int) time.Time {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

func candidateFixture(id string, lg league.League, at time.Time, venueName string, coords geo.Point) fixture.Fixture {
	return fixture.Fixture{
		ID:        id,
		KickoffAt: at,
		Status:    fixture.StatusNotStarted,
		Venue: fixture.Venue{
			ID:          "venue-" + id,
			Name:        venueName,
			City:        venueName,
			Coordinates: pointPtr(coords),
		},
		League:   fixture.League{ID: lg.ID, Name: lg.Name},
		HomeTeam: fixture.Team{ID: "home-" + id, Name: "Home " + id},
		AwayTeam: fixture.Team{ID: "away-" + id, Name: "Away " + id},
	}
}

// parisTrip is one saved match at the Parc des Princes on 2026-01-03 in a
// 2026-01-01..2026-01-09 window.
func parisTrip(id string) trip.Trip {
	return trip.Trip{
		ID:        id,
		UserID:    "user-1",
		Name:      "Paris weekend",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-09",
		Matches: []trip.SavedMatch{
			{
				MatchID:  "saved-psg",
				HomeTeam: "Paris Saint Germain",
				AwayTeam: "Lyon",
				League:   "Ligue 1",
				Venue: trip.Venue{
					Name:        "Parc des Princes",
					City:        "Paris",
					Country:     "France",
					Coordinates: pointPtr(parcDesPrinces),
				},
				Date: "2026-01-03T20:00:00Z",
			},
		},
	}
}

func proUser() user.User {
	return user.User{
		ID:   "user-1",
		Tier: user.TierPro,
		Preferences: user.Preferences{
			Strength: user.StrengthStandard,
		},
	}
}

// fakeSearcher serves canned fixtures per date and records every call.
type fakeSearcher struct {
	mu       sync.Mutex
	byDate   map[string][]fixture.Fixture
	failing  map[string]bool
	calls    int
	dates    []string
	leagueID map[string]struct{}
}

func newFakeSearcher(items ...fixture.Fixture) *fakeSearcher {
	f := &fakeSearcher{
		byDate:   make(map[string][]fixture.Fixture),
		failing:  make(map[string]bool),
		leagueID: make(map[string]struct{}),
	}
	for _, item := range items {
		f.byDate[item.Date()] = append(f.byDate[item.Date()], item)
	}
	return f
}

func (f *fakeSearcher) SearchFixtures(_ context.Context, date string, leagueIDs []string) ([]fixture.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.dates = append(f.dates, date)
	allowed := make(map[string]struct{}, len(leagueIDs))
	for _, id := range leagueIDs {
		f.leagueID[id] = struct{}{}
		allowed[id] = struct{}{}
	}
	if f.failing[date] {
		return nil, errors.New("catalog unavailable")
	}

	out := make([]fixture.Fixture, 0)
	for _, item := range f.byDate[date] {
		if _, ok := allowed[item.League.ID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSearcher) searchedDates() map[string]struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{}, len(f.dates))
	for _, d := range f.dates {
		out[d] = struct{}{}
	}
	return out
}

// staticLeagues is an in-memory league catalog.
type staticLeagues []league.League

func (s staticLeagues) List(context.Context) ([]league.League, error) {
	return append([]league.League(nil), s...), nil
}

func (s staticLeagues) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	for _, item := range s {
		if item.ID == leagueID {
			return item, true, nil
		}
	}
	return league.League{}, false, nil
}

// countingLookup resolves venues from a table and counts calls.
type countingLookup struct {
	mu     sync.Mutex
	points map[string]geo.Point
	err    error
	calls  int
}

func (l *countingLookup) GetVenueCoordinates(_ context.Context, name, _, _ string) ([2]float64, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return [2]float64{}, false, l.err
	}
	p, ok := l.points[name]
	if !ok {
		return [2]float64{}, false, nil
	}
	return p.LngLat(), true, nil
}

func (l *countingLookup) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
