package nominatim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/platform/resilience"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg ClientConfig) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg.BaseURL = server.URL
	cfg.HTTPClient = server.Client()
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1000
	}
	return NewClient(cfg)
}

func TestGeocode_ReturnsLngLat(t *testing.T) {
	t.Parallel()

	var gotQuery, gotAgent string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"lat": "48.8414", "lon": "2.2530", "display_name": "Parc des Princes"}]`))
	}, ClientConfig{UserAgent: "trip-tests/0.1"})

	coords, found, err := client.Geocode(context.Background(), "Parc des Princes", "Paris", "France")
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 2.2530, coords[0], 1e-9)
	assert.InDelta(t, 48.8414, coords[1], 1e-9)
	assert.Equal(t, "Parc des Princes, Paris, France", gotQuery)
	assert.Equal(t, "trip-tests/0.1", gotAgent)
}

func TestGeocode_NoHits(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, ClientConfig{})

	_, found, err := client.Geocode(context.Background(), "Nowhere Arena", "Atlantis", "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGeocode_SkipsUnparseableHit(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat": "north", "lon": "2.0"}]`))
	}, ClientConfig{})

	_, found, err := client.Geocode(context.Background(), "Stade", "Paris", "France")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGeocode_EmptyNameIsInvalid(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"})
	_, _, err := client.Geocode(context.Background(), " ", "Paris", "France")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestGeocode_BreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, ClientConfig{CircuitBreaker: resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}})

	for i := 0; i < 3; i++ {
		_, _, err := client.Geocode(context.Background(), "Stade Velodrome", "Marseille", "France")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("attempt %d: expected dependency unavailable, got %v", i, err)
		}
	}
	assert.Equal(t, int32(2), calls.Load())
}
