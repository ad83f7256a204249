package trip

import (
	"context"

	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
)

// Repository reads trips owned by a user and stores caller-triggered
// recommendation snapshots.
type Repository interface {
	GetByID(ctx context.Context, userID, tripID string) (Trip, bool, error)
	SaveRecommendations(ctx context.Context, userID, tripID string, stored recommendation.Stored) error
}
