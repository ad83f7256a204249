package cache

import (
	"context"
	"slices"
	"strings"

	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/team"
	"github.com/riskibarqy/trip-recommender/internal/domain/venue"
	basecache "github.com/riskibarqy/trip-recommender/internal/platform/cache"
)

// Decorators memoize catalog reads in a shared store. Misses are cached too;
// errors never are. Keys are namespaced per aggregate.

// lookup is a cached (value, exists) pair.
type lookup[T any] struct {
	value  T
	exists bool
}

func cachedLookup[T any](ctx context.Context, store *basecache.Store, key string, fetch func(context.Context) (T, bool, error)) (T, bool, error) {
	v, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		value, exists, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return lookup[T]{value: value, exists: exists}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	hit, _ := v.(lookup[T])
	return hit.value, hit.exists, nil
}

// cachedList stores a private copy and hands each caller its own clone.
func cachedList[T any](ctx context.Context, store *basecache.Store, key string, fetch func(context.Context) ([]T, error), clone func([]T) []T) ([]T, error) {
	v, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]T)
	return clone(items), nil
}

func foldKey(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

type LeagueRepository struct {
	next  league.Repository
	store *basecache.Store
}

func NewLeagueRepository(next league.Repository, store *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, store: store}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	return cachedList(ctx, r.store, "league:list", r.next.List, slices.Clone[[]league.League])
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return cachedLookup(ctx, r.store, "league:id:"+leagueID, func(ctx context.Context) (league.League, bool, error) {
		return r.next.GetByID(ctx, leagueID)
	})
}

type TeamRepository struct {
	next  team.Repository
	store *basecache.Store
}

func NewTeamRepository(next team.Repository, store *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, store: store}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return cachedList(ctx, r.store, "team:list", r.next.List, cloneTeams)
}

func cloneTeams(items []team.Team) []team.Team {
	out := slices.Clone(items)
	for i := range out {
		out[i].Aliases = slices.Clone(out[i].Aliases)
	}
	return out
}

type VenueRepository struct {
	next  venue.Repository
	store *basecache.Store
}

func NewVenueRepository(next venue.Repository, store *basecache.Store) *VenueRepository {
	return &VenueRepository{next: next, store: store}
}

func (r *VenueRepository) GetByID(ctx context.Context, venueID string) (venue.Venue, bool, error) {
	return cachedLookup(ctx, r.store, "venue:id:"+venueID, func(ctx context.Context) (venue.Venue, bool, error) {
		return r.next.GetByID(ctx, venueID)
	})
}

func (r *VenueRepository) FindByName(ctx context.Context, name, city string) (venue.Venue, bool, error) {
	return cachedLookup(ctx, r.store, "venue:name:"+foldKey(name, city), func(ctx context.Context) (venue.Venue, bool, error) {
		return r.next.FindByName(ctx, name, city)
	})
}
