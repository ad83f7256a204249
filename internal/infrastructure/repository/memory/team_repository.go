package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/trip-recommender/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams []team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	out := make([]team.Team, 0, len(teams))
	for _, item := range teams {
		item.Aliases = append([]string(nil), item.Aliases...)
		out = append(out, item)
	}
	return &TeamRepository{teams: out}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		item.Aliases = append([]string(nil), item.Aliases...)
		out = append(out, item)
	}

	return out, nil
}
