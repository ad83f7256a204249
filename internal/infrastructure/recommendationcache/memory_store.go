package recommendationcache

import (
	"context"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	basecache "github.com/riskibarqy/trip-recommender/internal/platform/cache"
)

// MemoryStore keeps results in the process-local TTL/LRU store.
type MemoryStore struct {
	store *basecache.Store
}

func NewMemoryStore(store *basecache.Store) *MemoryStore {
	return &MemoryStore{store: store}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (recommendation.Result, bool, error) {
	v, ok := s.store.Get(ctx, key)
	if !ok {
		return recommendation.Result{}, false, nil
	}
	result, ok := v.(recommendation.Result)
	if !ok {
		s.store.Delete(ctx, key)
		return recommendation.Result{}, false, nil
	}
	return cloneResult(result), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value recommendation.Result, ttl time.Duration) error {
	s.store.SetWithTTL(ctx, key, cloneResult(value), ttl)
	return nil
}

func (s *MemoryStore) DeleteContaining(ctx context.Context, fragment string) (int, error) {
	return s.store.DeleteContaining(ctx, fragment), nil
}

// Sweep evicts expired results.
func (s *MemoryStore) Sweep() int {
	return s.store.Sweep()
}

func cloneResult(in recommendation.Result) recommendation.Result {
	out := in
	if in.Recommendations != nil {
		out.Recommendations = make([]recommendation.Recommendation, len(in.Recommendations))
		copy(out.Recommendations, in.Recommendations)
	}
	if in.Diagnostics != nil {
		diag := *in.Diagnostics
		out.Diagnostics = &diag
	}
	return out
}
