package postgres

import (
	"database/sql"
	"time"
)

type tripTableModel struct {
	ID                         int64          `db:"id"`
	PublicID                   string         `db:"public_id"`
	UserPublicID               string         `db:"user_public_id"`
	Name                       string         `db:"name"`
	StartDate                  string         `db:"start_date"`
	EndDate                    string         `db:"end_date"`
	Recommendations            sql.NullString `db:"recommendations"`
	RecommendationsVersion     string         `db:"recommendations_version"`
	RecommendationsGeneratedAt *time.Time     `db:"recommendations_generated_at"`
	CreatedAt                  time.Time      `db:"created_at"`
	UpdatedAt                  time.Time      `db:"updated_at"`
	DeletedAt                  *time.Time     `db:"deleted_at"`
}

type tripSavedMatchTableModel struct {
	ID             int64           `db:"id"`
	TripPublicID   string          `db:"trip_public_id"`
	MatchID        string          `db:"match_id"`
	Position       int             `db:"position"`
	HomeTeam       string          `db:"home_team"`
	AwayTeam       string          `db:"away_team"`
	League         string          `db:"league"`
	MatchDate      string          `db:"match_date"`
	VenuePublicID  string          `db:"venue_public_id"`
	VenueName      string          `db:"venue_name"`
	VenueCity      string          `db:"venue_city"`
	VenueCountry   string          `db:"venue_country"`
	VenueLatitude  sql.NullFloat64 `db:"venue_latitude"`
	VenueLongitude sql.NullFloat64 `db:"venue_longitude"`
}
