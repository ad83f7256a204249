package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
)

type LeagueAccessConfig struct {
	// FreemiumExtraLeagueIDs are searchable on the free tier in addition to
	// the top-five leagues.
	FreemiumExtraLeagueIDs []string
}

// LeagueAccessService decides which leagues a user may search.
type LeagueAccessService struct {
	leagueRepo league.Repository
	extras     map[string]struct{}
}

func NewLeagueAccessService(leagueRepo league.Repository, cfg LeagueAccessConfig) *LeagueAccessService {
	extras := make(map[string]struct{}, len(cfg.FreemiumExtraLeagueIDs))
	for _, id := range cfg.FreemiumExtraLeagueIDs {
		if id = strings.TrimSpace(id); id != "" {
			extras[id] = struct{}{}
		}
	}
	return &LeagueAccessService{
		leagueRepo: leagueRepo,
		extras:     extras,
	}
}

// AccessibleLeagues returns the leagues the user's tier unlocks, in catalog order.
func (s *LeagueAccessService) AccessibleLeagues(ctx context.Context, u user.User) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueAccessService.AccessibleLeagues")
	defer span.End()

	if s.leagueRepo == nil {
		return nil, fmt.Errorf("%w: league repository is not configured", ErrDependencyUnavailable)
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	switch user.ParseTier(string(u.Tier)) {
	case user.TierPro, user.TierPlanner:
		return leagues, nil
	}

	out := make([]league.League, 0, len(leagues))
	for _, item := range leagues {
		if _, extra := s.extras[item.ID]; item.TopFive || extra {
			out = append(out, item)
		}
	}
	return out, nil
}
