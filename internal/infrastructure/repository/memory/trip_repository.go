package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
)

type TripRepository struct {
	mu    sync.RWMutex
	items map[string]trip.Trip
}

func NewTripRepository(trips []trip.Trip) *TripRepository {
	items := make(map[string]trip.Trip, len(trips))
	for _, item := range trips {
		items[item.ID] = cloneTrip(item)
	}
	return &TripRepository{items: items}
}

// GetByID only returns trips owned by userID.
func (r *TripRepository) GetByID(_ context.Context, userID, tripID string) (trip.Trip, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tripID]
	if !ok || item.UserID != userID {
		return trip.Trip{}, false, nil
	}
	return cloneTrip(item), true, nil
}

func (r *TripRepository) SaveRecommendations(_ context.Context, userID, tripID string, stored recommendation.Stored) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[tripID]
	if !ok || item.UserID != userID {
		return fmt.Errorf("%w: trip=%s user=%s", usecase.ErrNotFound, tripID, userID)
	}
	generatedAt := stored.GeneratedAt
	item.Recommendations = append([]recommendation.Recommendation(nil), stored.Items...)
	item.RecommendationsVersion = stored.Version
	item.RecommendationsGeneratedAt = &generatedAt
	r.items[tripID] = item
	return nil
}

func cloneTrip(item trip.Trip) trip.Trip {
	item.Matches = append([]trip.SavedMatch(nil), item.Matches...)
	item.Recommendations = append([]recommendation.Recommendation(nil), item.Recommendations...)
	if item.RecommendationsGeneratedAt != nil {
		at := *item.RecommendationsGeneratedAt
		item.RecommendationsGeneratedAt = &at
	}
	return item
}
