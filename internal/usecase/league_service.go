package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
)

type LeagueService struct {
	leagueRepo league.Repository
	userRepo   user.Repository
	access     LeagueAccessResolver
}

func NewLeagueService(leagueRepo league.Repository, userRepo user.Repository, access LeagueAccessResolver) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		userRepo:   userRepo,
		access:     access,
	}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	span.SetAttributes(attribute.Int("league.count", len(leagues)))

	return leagues, nil
}

// ListAccessibleLeagues returns the leagues the user's tier may search.
func (s *LeagueService) ListAccessibleLeagues(ctx context.Context, userID string) ([]league.League, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListAccessibleLeagues", tripSpanAttributes(userID, "")...)
	defer span.End()

	account, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	span.SetAttributes(attribute.String("user.tier", string(account.Tier)))

	leagues, err := s.access.AccessibleLeagues(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("resolve accessible leagues: %w", err)
	}
	span.SetAttributes(attribute.Int("league.count", len(leagues)))

	return leagues, nil
}
