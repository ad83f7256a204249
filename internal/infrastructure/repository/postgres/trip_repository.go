package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
	qb "github.com/riskibarqy/trip-recommender/internal/platform/querybuilder"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
)

type TripRepository struct {
	db *sqlx.DB
}

func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// GetByID only returns trips owned by userID.
func (r *TripRepository) GetByID(ctx context.Context, userID, tripID string) (trip.Trip, bool, error) {
	query, args, err := qb.Select("*").From("trips").
		Where(
			qb.Eq("public_id", tripID),
			qb.Eq("user_public_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return trip.Trip{}, false, fmt.Errorf("build get trip by id query: %w", err)
	}

	var row tripTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return trip.Trip{}, false, nil
		}
		return trip.Trip{}, false, fmt.Errorf("get trip by id: %w", err)
	}

	matchQuery, matchArgs, err := qb.Select("*").From("trip_saved_matches").
		Where(qb.Eq("trip_public_id", tripID)).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return trip.Trip{}, false, fmt.Errorf("build select trip matches query: %w", err)
	}

	var matchRows []tripSavedMatchTableModel
	if err := r.db.SelectContext(ctx, &matchRows, matchQuery, matchArgs...); err != nil {
		return trip.Trip{}, false, fmt.Errorf("select trip matches: %w", err)
	}

	out := trip.Trip{
		ID:                         row.PublicID,
		UserID:                     row.UserPublicID,
		Name:                       row.Name,
		StartDate:                  row.StartDate,
		EndDate:                    row.EndDate,
		Matches:                    make([]trip.SavedMatch, 0, len(matchRows)),
		RecommendationsVersion:     row.RecommendationsVersion,
		RecommendationsGeneratedAt: row.RecommendationsGeneratedAt,
	}
	for _, item := range matchRows {
		out.Matches = append(out.Matches, savedMatchFromRow(item))
	}
	if row.Recommendations.Valid && row.Recommendations.String != "" {
		if err := sonic.UnmarshalString(row.Recommendations.String, &out.Recommendations); err != nil {
			return trip.Trip{}, false, fmt.Errorf("decode trip recommendations: %w", err)
		}
	}

	return out, true, nil
}

func (r *TripRepository) SaveRecommendations(ctx context.Context, userID, tripID string, stored recommendation.Stored) error {
	items := stored.Items
	if items == nil {
		items = []recommendation.Recommendation{}
	}
	payload, err := sonic.MarshalString(items)
	if err != nil {
		return fmt.Errorf("encode trip recommendations: %w", err)
	}

	query, args, err := qb.Update("trips").
		SetExpr("recommendations", "?::jsonb", payload).
		Set("recommendations_version", stored.Version).
		Set("recommendations_generated_at", stored.GeneratedAt.UTC()).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", tripID),
			qb.Eq("user_public_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update trip recommendations query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update trip recommendations: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated trip rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: trip=%s", usecase.ErrNotFound, tripID)
	}

	return nil
}

func savedMatchFromRow(row tripSavedMatchTableModel) trip.SavedMatch {
	out := trip.SavedMatch{
		MatchID:  row.MatchID,
		HomeTeam: row.HomeTeam,
		AwayTeam: row.AwayTeam,
		League:   row.League,
		Date:     row.MatchDate,
		Venue: trip.Venue{
			ID:      row.VenuePublicID,
			Name:    row.VenueName,
			City:    row.VenueCity,
			Country: row.VenueCountry,
		},
	}
	lat := nullFloat64Ptr(row.VenueLatitude)
	lng := nullFloat64Ptr(row.VenueLongitude)
	if lat != nil && lng != nil {
		out.Venue.Coordinates = &geo.Point{Lat: *lat, Lng: *lng}
	}
	return out
}
