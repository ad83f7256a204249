package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/trip-recommender/internal/domain/venue"
)

type VenueRepository struct {
	mu     sync.RWMutex
	byID   map[string]venue.Venue
	byName map[string]string
}

func NewVenueRepository(venues []venue.Venue) *VenueRepository {
	r := &VenueRepository{
		byID:   make(map[string]venue.Venue, len(venues)),
		byName: make(map[string]string, len(venues)),
	}
	for _, item := range venues {
		r.byID[item.ID] = item
		r.byName[venueKey(item.Name, item.City)] = item.ID
	}
	return r
}

func (r *VenueRepository) GetByID(_ context.Context, venueID string) (venue.Venue, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[venueID]
	return item, ok, nil
}

// FindByName matches case-insensitively on name and city. An empty city
// matches the first venue with that name.
func (r *VenueRepository) FindByName(_ context.Context, name, city string) (venue.Venue, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byName[venueKey(name, city)]; ok {
		return r.byID[id], true, nil
	}
	if strings.TrimSpace(city) != "" {
		return venue.Venue{}, false, nil
	}

	wanted := strings.ToLower(strings.TrimSpace(name))
	for _, item := range r.byID {
		if strings.ToLower(strings.TrimSpace(item.Name)) == wanted {
			return item, true, nil
		}
	}
	return venue.Venue{}, false, nil
}

func venueKey(name, city string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(city))
}
