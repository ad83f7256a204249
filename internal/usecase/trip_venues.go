package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
)

// SavedVenue is a stadium from the trip used as a proximity anchor.
type SavedVenue struct {
	MatchID     string
	Name        string
	City        string
	Country     string
	Coordinates geo.Point
}

// VenueCoordinateLookup resolves a venue to [lng, lat]. ok is false when the
// venue is unknown.
type VenueCoordinateLookup interface {
	GetVenueCoordinates(ctx context.Context, name, city, country string) ([2]float64, bool, error)
}

// ExtractVenues collects coordinates for the trip's saved matches, geocoding
// sequentially when coordinates are missing. Matches that cannot be resolved
// are skipped. Duplicate stadiums are reported once.
func ExtractVenues(ctx context.Context, t trip.Trip, lookup VenueCoordinateLookup, logger *logging.Logger) []SavedVenue {
	if logger == nil {
		logger = logging.Default()
	}

	out := make([]SavedVenue, 0, len(t.Matches))
	seen := make(map[string]struct{}, len(t.Matches))
	for _, item := range t.Matches {
		v := item.Venue
		point, ok := savedVenuePoint(ctx, v, lookup, logger, item.MatchID)
		if !ok {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(v.Name)) + "|" + strings.ToLower(strings.TrimSpace(v.City))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, SavedVenue{
			MatchID:     item.MatchID,
			Name:        v.Name,
			City:        v.City,
			Country:     v.Country,
			Coordinates: point,
		})
	}
	return out
}

func savedVenuePoint(ctx context.Context, v trip.Venue, lookup VenueCoordinateLookup, logger *logging.Logger, matchID string) (geo.Point, bool) {
	if v.Coordinates != nil && v.Coordinates.Valid() {
		return *v.Coordinates, true
	}
	if lookup == nil || strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.City) == "" {
		return geo.Point{}, false
	}

	pair, found, err := lookup.GetVenueCoordinates(ctx, v.Name, v.City, v.Country)
	if err != nil {
		logger.WarnContext(ctx, "geocode saved venue failed",
			"match_id", matchID,
			"venue", v.Name,
			"city", v.City,
			"error", err,
		)
		return geo.Point{}, false
	}
	if !found {
		return geo.Point{}, false
	}

	point := geo.FromLngLat(pair)
	if !point.Valid() {
		return geo.Point{}, false
	}
	return point, true
}
