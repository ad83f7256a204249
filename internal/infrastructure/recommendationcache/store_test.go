package recommendationcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/trip-recommender/internal/domain/fixture"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	basecache "github.com/riskibarqy/trip-recommender/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() recommendation.Result {
	return recommendation.Result{
		Recommendations: []recommendation.Recommendation{
			{
				MatchID: "1035063",
				ForDate: "2026-01-04",
				Match: fixture.Fixture{
					ID:        "1035063",
					KickoffAt: time.Date(2026, 1, 4, 20, 0, 0, 0, time.UTC),
					Status:    "NS",
					League:    fixture.League{ID: "61", Name: "Ligue 1"},
				},
				Reason:           "PSG vs Lens in Ligue 1; fills an open day",
				Proximity:        "7 miles from Parc des Princes, Paris",
				Score:            85,
				AlternativeDates: []string{"2026-01-03", "2026-01-05"},
			},
		},
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_SetGetRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "trip-recs:v1:u=u1:t=trip-a:tier=pro:r=400:m=x", sampleResult(), time.Hour))

	got, ok, err := store.Get(ctx, "trip-recs:v1:u=u1:t=trip-a:tier=pro:r=400:m=x")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "1035063", got.Recommendations[0].MatchID)
	assert.True(t, got.Recommendations[0].Match.KickoffAt.Equal(time.Date(2026, 1, 4, 20, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"2026-01-03", "2026-01-05"}, got.Recommendations[0].AlternativeDates)
}

func TestRedisStore_ExpiresWithTTL(t *testing.T) {
	t.Parallel()

	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", recommendation.Result{}, time.Hour))
	mr.FastForward(61 * time.Minute)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_DeleteContaining(t *testing.T) {
	t.Parallel()

	store, _ := newRedisStore(t)
	ctx := context.Background()

	keys := []string{
		"trip-recs:v1:u=u1:t=trip-a:tier=pro:r=400:m=1",
		"trip-recs:v1:u=u1:t=trip-b:tier=pro:r=400:m=2",
		"trip-recs:v1:u=u2:t=trip-a:tier=pro:r=400:m=3",
	}
	for _, key := range keys {
		require.NoError(t, store.Set(ctx, key, sampleResult(), time.Hour))
	}

	removed, err := store.DeleteContaining(ctx, ":t=trip-a:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, ok, err := store.Get(ctx, keys[1])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_CorruptPayloadIsError(t *testing.T) {
	t.Parallel()

	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("k", "{not json"))

	_, ok, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(basecache.NewStore(time.Hour))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", sampleResult(), time.Hour))
	first, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	first.Recommendations[0].MatchID = "mutated"

	second, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "1035063", second.Recommendations[0].MatchID)
}

func TestMemoryStore_SweepAndDeleteContaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(basecache.NewStore(time.Hour, basecache.WithClock(func() time.Time { return now })))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "trip-recs:v1:u=u1:t=trip-a:m=1", recommendation.Result{}, time.Hour))
	require.NoError(t, store.Set(ctx, "trip-recs:v1:u=u1:t=trip-b:m=2", sampleResult(), 24*time.Hour))
	require.NoError(t, store.Set(ctx, "trip-recs:v1:u=u2:t=trip-c:m=3", sampleResult(), 24*time.Hour))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, store.Sweep())

	removed, err := store.DeleteContaining(ctx, ":u=u1:")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok, _ := store.Get(ctx, "trip-recs:v1:u=u2:t=trip-c:m=3")
	assert.True(t, ok)
}
