package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/riskibarqy/trip-recommender/internal/domain/league"
)

// LeagueRepository serves a fixed catalog ordered by tier, keeping the input
// order within a tier. Invalid entries are dropped; a repeated id replaces
// the earlier entry in place.
type LeagueRepository struct {
	ordered []league.League
	index   map[string]int
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	ordered := make([]league.League, 0, len(leagues))
	seen := make(map[string]int, len(leagues))
	for _, item := range leagues {
		if item.Validate() != nil {
			continue
		}
		if pos, ok := seen[item.ID]; ok {
			ordered[pos] = item
			continue
		}
		seen[item.ID] = len(ordered)
		ordered = append(ordered, item)
	}

	slices.SortStableFunc(ordered, func(a, b league.League) int {
		return cmp.Compare(tierRank(a.Tier), tierRank(b.Tier))
	})

	index := make(map[string]int, len(ordered))
	for i, item := range ordered {
		index[item.ID] = i
	}
	return &LeagueRepository{ordered: ordered, index: index}
}

// tierRank puts unranked leagues after the numbered tiers.
func tierRank(t league.Tier) int {
	if t == league.TierOther {
		return int(league.TierTwo) + 1
	}
	return int(t)
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	return slices.Clone(r.ordered), nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	pos, ok := r.index[strings.TrimSpace(leagueID)]
	if !ok {
		return league.League{}, false, nil
	}
	return r.ordered[pos], true, nil
}
