package postgres

import (
	"time"

	"github.com/lib/pq"
)

type userTableModel struct {
	ID                   int64          `db:"id"`
	PublicID             string         `db:"public_id"`
	Tier                 string         `db:"tier"`
	FavoriteTeams        pq.StringArray `db:"favorite_teams"`
	FavoriteLeagues      pq.StringArray `db:"favorite_leagues"`
	FavoriteVenues       pq.StringArray `db:"favorite_venues"`
	PreferenceStrength   string         `db:"preference_strength"`
	RecommendationRadius int            `db:"recommendation_radius"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
	DeletedAt            *time.Time     `db:"deleted_at"`
}

type userInteractionTableModel struct {
	ID           int64     `db:"id"`
	UserPublicID string    `db:"user_public_id"`
	TripPublicID string    `db:"trip_public_id"`
	MatchID      string    `db:"match_id"`
	Action       string    `db:"action"`
	Score        float64   `db:"score"`
	Reason       string    `db:"reason"`
	CreatedAt    time.Time `db:"created_at"`
}

type userInteractionInsertModel struct {
	UserPublicID string    `db:"user_public_id"`
	TripPublicID string    `db:"trip_public_id"`
	MatchID      string    `db:"match_id"`
	Action       string    `db:"action"`
	Score        float64   `db:"score"`
	Reason       string    `db:"reason"`
	CreatedAt    time.Time `db:"created_at"`
}
