package fixture

import (
	"time"

	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
)

// Fixture is a candidate match fetched from the external catalog, normalized
// to a canonical shape.
type Fixture struct {
	ID        string    `json:"id"`
	KickoffAt time.Time `json:"kickoffAt"`
	Status    string    `json:"status"`
	Venue     Venue     `json:"venue"`
	League    League    `json:"league"`
	HomeTeam  Team      `json:"homeTeam"`
	AwayTeam  Team      `json:"awayTeam"`
}

type Venue struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	City        string     `json:"city"`
	Country     string     `json:"country,omitempty"`
	Coordinates *geo.Point `json:"coordinates,omitempty"`
}

type League struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Season  int    `json:"season,omitempty"`
}

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Date returns the kickoff calendar day in UTC.
func (f Fixture) Date() string {
	return f.KickoffAt.UTC().Format(time.DateOnly)
}
