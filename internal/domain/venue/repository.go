package venue

import "context"

// Repository is the stadium catalog consulted before falling back to geocoding.
type Repository interface {
	GetByID(ctx context.Context, venueID string) (Venue, bool, error)
	FindByName(ctx context.Context, name, city string) (Venue, bool, error)
}
