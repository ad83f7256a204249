package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/trip-recommender/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo catalog into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, l := range memory.SeedLeagues() {
		err := execNamed(ctx, tx, "league "+l.ID, `
INSERT INTO leagues (public_id, name, country_code, tier, top_five)
VALUES (:public_id, :name, :country_code, :tier, :top_five)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":    l.ID,
			"name":         l.Name,
			"country_code": l.CountryCode,
			"tier":         int(l.Tier),
			"top_five":     l.TopFive,
		})
		if err != nil {
			return err
		}
	}

	for _, t := range memory.SeedTeams() {
		err := execNamed(ctx, tx, "team "+t.ID, `
INSERT INTO teams (public_id, name, aliases)
VALUES (:public_id, :name, :aliases)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": t.ID,
			"name":      t.Name,
			"aliases":   pq.Array(stringSliceOrEmpty(t.Aliases)),
		})
		if err != nil {
			return err
		}
	}

	for _, v := range memory.SeedVenues() {
		err := execNamed(ctx, tx, "venue "+v.ID, `
INSERT INTO venues (public_id, name, city, country, latitude, longitude)
VALUES (:public_id, :name, :city, :country, :latitude, :longitude)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": v.ID,
			"name":      v.Name,
			"city":      v.City,
			"country":   v.Country,
			"latitude":  v.Coordinates.Lat,
			"longitude": v.Coordinates.Lng,
		})
		if err != nil {
			return err
		}
	}

	for _, u := range memory.SeedUsers() {
		err := execNamed(ctx, tx, "user "+u.ID, `
INSERT INTO users (public_id, tier, favorite_teams, favorite_leagues, favorite_venues, preference_strength, recommendation_radius)
VALUES (:public_id, :tier, :favorite_teams, :favorite_leagues, :favorite_venues, :preference_strength, :recommendation_radius)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":             u.ID,
			"tier":                  string(u.Tier),
			"favorite_teams":        pq.Array(stringSliceOrEmpty(u.Preferences.FavoriteTeams)),
			"favorite_leagues":      pq.Array(stringSliceOrEmpty(u.Preferences.FavoriteLeagues)),
			"favorite_venues":       pq.Array(stringSliceOrEmpty(u.Preferences.FavoriteVenues)),
			"preference_strength":   string(u.Strength()),
			"recommendation_radius": u.Preferences.RecommendationRadius,
		})
		if err != nil {
			return err
		}
	}

	for _, t := range memory.SeedTrips() {
		err := execNamed(ctx, tx, "trip "+t.ID, `
INSERT INTO trips (public_id, user_public_id, name, start_date, end_date)
VALUES (:public_id, :user_public_id, :name, :start_date, :end_date)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":      t.ID,
			"user_public_id": t.UserID,
			"name":           t.Name,
			"start_date":     t.StartDate,
			"end_date":       t.EndDate,
		})
		if err != nil {
			return err
		}

		for position, m := range t.Matches {
			var lat, lng *float64
			if m.Venue.Coordinates != nil {
				lat, lng = &m.Venue.Coordinates.Lat, &m.Venue.Coordinates.Lng
			}
			err := execNamed(ctx, tx, "trip match "+m.MatchID, `
INSERT INTO trip_saved_matches (trip_public_id, match_id, position, home_team, away_team, league, match_date,
    venue_public_id, venue_name, venue_city, venue_country, venue_latitude, venue_longitude)
VALUES (:trip_public_id, :match_id, :position, :home_team, :away_team, :league, :match_date,
    :venue_public_id, :venue_name, :venue_city, :venue_country, :venue_latitude, :venue_longitude)
ON CONFLICT (trip_public_id, match_id) DO NOTHING`, map[string]any{
				"trip_public_id":  t.ID,
				"match_id":        m.MatchID,
				"position":        position,
				"home_team":       m.HomeTeam,
				"away_team":       m.AwayTeam,
				"league":          m.League,
				"match_date":      m.Date,
				"venue_public_id": m.Venue.ID,
				"venue_name":      m.Venue.Name,
				"venue_city":      m.Venue.City,
				"venue_country":   m.Venue.Country,
				"venue_latitude":  lat,
				"venue_longitude": lng,
			})
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

func execNamed(ctx context.Context, tx *sqlx.Tx, label, query string, arg map[string]any) error {
	sqlQuery, args, err := sqlx.Named(query, arg)
	if err != nil {
		return fmt.Errorf("bind seed %s query: %w", label, err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("seed %s: %w", label, err)
	}
	return nil
}
