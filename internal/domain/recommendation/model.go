package recommendation

import (
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/fixture"
)

// Recommendation is one suggested fixture for a trip day.
type Recommendation struct {
	MatchID          string          `json:"matchId"`
	ForDate          string          `json:"forDate"`
	Match            fixture.Fixture `json:"match"`
	Reason           string          `json:"reason"`
	Proximity        string          `json:"proximity"`
	Score            float64         `json:"score"`
	AlternativeDates []string        `json:"alternativeDates,omitempty"`
}

// Reason tags why a request produced no recommendations.
type Reason string

const (
	ReasonTripNotFound       Reason = "trip_not_found"
	ReasonInvalidTripDates   Reason = "invalid_trip_dates"
	ReasonAllDaysHaveMatches Reason = "all_days_have_matches"
	ReasonNoVenuesWithCoords Reason = "no_venues_with_coordinates"
	ReasonNoMatchesFound     Reason = "no_matches_found"
	ReasonError              Reason = "error"
)

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Diagnostics explains an empty or degraded result. It is not an error.
type Diagnostics struct {
	Reason              Reason     `json:"reason"`
	Message             string     `json:"message"`
	TripDateRange       *DateRange `json:"tripDateRange,omitempty"`
	DaysSearched        []string   `json:"daysSearched,omitempty"`
	VenuesFound         int        `json:"venuesFound,omitempty"`
	LeaguesSearched     int        `json:"leaguesSearched,omitempty"`
	CandidatesEvaluated int        `json:"candidatesEvaluated,omitempty"`
	FailedDays          []string   `json:"failedDays,omitempty"`
}

// Result is what the facade returns and what the cache stores.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Cached          bool             `json:"cached"`
	Diagnostics     *Diagnostics     `json:"diagnostics"`
}

// Stored is a recommendation set persisted onto a trip by the caller.
type Stored struct {
	Items       []Recommendation
	Version     string
	GeneratedAt time.Time
}
