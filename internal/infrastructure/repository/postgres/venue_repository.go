package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/trip-recommender/internal/domain/venue"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
	qb "github.com/riskibarqy/trip-recommender/internal/platform/querybuilder"
)

type VenueRepository struct {
	db *sqlx.DB
}

func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) GetByID(ctx context.Context, venueID string) (venue.Venue, bool, error) {
	query, args, err := qb.Select("*").From("venues").
		Where(
			qb.Eq("public_id", venueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("build get venue by id query: %w", err)
	}

	return r.getOne(ctx, query, args)
}

// FindByName matches trimmed, case-insensitive name and city. An empty city
// matches on name alone.
func (r *VenueRepository) FindByName(ctx context.Context, name, city string) (venue.Venue, bool, error) {
	conditions := []qb.Condition{qb.EqFold("name", name)}
	if strings.TrimSpace(city) != "" {
		conditions = append(conditions, qb.EqFold("city", city))
	}
	conditions = append(conditions, qb.IsNull("deleted_at"))

	query, args, err := qb.Select("*").From("venues").
		Where(conditions...).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("build find venue by name query: %w", err)
	}

	return r.getOne(ctx, query, args)
}

func (r *VenueRepository) getOne(ctx context.Context, query string, args []any) (venue.Venue, bool, error) {
	var row venueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return venue.Venue{}, false, nil
		}
		return venue.Venue{}, false, fmt.Errorf("get venue: %w", err)
	}

	return venue.Venue{
		ID:          row.PublicID,
		Name:        row.Name,
		City:        row.City,
		Country:     row.Country,
		Coordinates: geo.Point{Lat: row.Latitude, Lng: row.Longitude},
	}, true, nil
}
