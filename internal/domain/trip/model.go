package trip

import (
	"strings"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
)

type Venue struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	City        string     `json:"city"`
	Country     string     `json:"country,omitempty"`
	Coordinates *geo.Point `json:"coordinates,omitempty"`
}

// SavedMatch is a fixture the user already added to the trip.
type SavedMatch struct {
	MatchID  string `json:"matchId"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	League   string `json:"league"`
	Venue    Venue  `json:"venue"`
	// Date is either a calendar day (YYYY-MM-DD) or an RFC3339 kickoff.
	Date string `json:"date"`
}

// Kickoff parses Date. Calendar days resolve to midnight UTC.
func (m SavedMatch) Kickoff() (time.Time, bool) {
	return ParseDate(m.Date)
}

// Day returns the saved match calendar day in UTC, or "" when Date is unparseable.
func (m SavedMatch) Day() string {
	kickoff, ok := m.Kickoff()
	if !ok {
		return ""
	}
	return kickoff.UTC().Format(time.DateOnly)
}

type Trip struct {
	ID        string
	UserID    string
	Name      string
	StartDate string
	EndDate   string
	Matches   []SavedMatch

	Recommendations            []recommendation.Recommendation
	RecommendationsVersion     string
	RecommendationsGeneratedAt *time.Time
}

// MatchIDs returns the saved match ids in trip order.
func (t Trip) MatchIDs() []string {
	out := make([]string, 0, len(t.Matches))
	for _, item := range t.Matches {
		out = append(out, item.MatchID)
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseDate accepts the date formats stored on trips and returns a UTC time.
func ParseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
