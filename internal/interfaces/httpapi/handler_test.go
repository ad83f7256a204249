package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/team"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/infrastructure/recommendationcache"
	"github.com/riskibarqy/trip-recommender/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/trip-recommender/internal/observability"
	"github.com/riskibarqy/trip-recommender/internal/platform/cache"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
)

const (
	testTripID         = "trip-paris"
	nearbyFixtureID    = "9001"
	freemiumTestUserID = "demo-freemium"
)

type testEnvelope[T any] struct {
	Data  T `json:"data"`
	Error *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

type recommendationPayload struct {
	Recommendations []recommendation.Recommendation `json:"recommendations"`
	Cached          bool                            `json:"cached"`
	Diagnostics     *recommendation.Diagnostics     `json:"diagnostics"`
	Persisted       *storedRecommendationsDTO       `json:"persisted"`
}

// newTestServer wires the real services over the in-memory stack. Dates are
// relative to now so every fixture stays upcoming.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	base := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 30)
	day := func(offset int) string { return base.AddDate(0, 0, offset).Format(time.DateOnly) }
	parc := geo.Point{Lat: 48.8414, Lng: 2.2530}

	trips := memory.NewTripRepository([]trip.Trip{{
		ID:        testTripID,
		UserID:    memory.SeedUserID,
		Name:      "Paris",
		StartDate: day(0),
		EndDate:   day(3),
		Matches: []trip.SavedMatch{{
			MatchID:  "9000",
			HomeTeam: "Paris Saint-Germain",
			AwayTeam: "Olympique Lyonnais",
			League:   "Ligue 1",
			Venue:    trip.Venue{Name: "Parc des Princes", City: "Paris", Coordinates: &parc},
			Date:     base.AddDate(0, 0, 2).Add(20*time.Hour + 45*time.Minute).Format(time.RFC3339),
		}},
	}})
	provider := memory.NewFixtureProvider([]usecase.ExternalFixture{{
		ID:          nearbyFixtureID,
		KickoffAt:   base.AddDate(0, 0, 1).Add(14 * time.Hour),
		Status:      "NS",
		VenueName:   "Stade Charléty",
		VenueCity:   "Paris",
		VenueLngLat: &[2]float64{2.3464, 48.8186},
		LeagueID:    memory.LeagueIDLigue2,
		LeagueName:  "Ligue 2",
		HomeTeam:    usecase.ExternalTeam{ID: "1063", Name: "Paris FC"},
		AwayTeam:    usecase.ExternalTeam{ID: "1040", Name: "Grenoble"},
	}})

	logger := logging.NewNop()
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	userRepo := memory.NewUserRepository(memory.SeedUsers())
	venueRepo := memory.NewVenueRepository(memory.SeedVenues())

	access := usecase.NewLeagueAccessService(leagueRepo, usecase.LeagueAccessConfig{})
	venues := usecase.NewVenueLookupService(venueRepo, nil, cache.NewStore(time.Hour), usecase.VenueLookupConfig{}, logger)
	catalog := usecase.NewFixtureCatalog(provider, team.NewNormalizer(memory.SeedTeams()), venues, usecase.FixtureCatalogConfig{}, logger)
	recCache := usecase.NewRecommendationCache(
		recommendationcache.NewMemoryStore(cache.NewStore(time.Hour)),
		usecase.RecommendationCacheConfig{},
		logger,
	)
	metrics := observability.NewMetrics()
	recommendations := usecase.NewRecommendationService(
		catalog, access, venues, recCache, userRepo, trips,
		usecase.RecommendationServiceConfig{}, metrics, logger,
	)

	handler := NewHandler(usecase.NewLeagueService(leagueRepo, userRepo, access), recommendations, logger)
	return NewRouter(handler, logger, []string{"*"}, metrics)
}

func doRequest(t *testing.T, srv http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var out testEnvelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response body: %v (body=%s)", err, rec.Body.String())
	}
	return out
}

func hasMatch(items []recommendation.Recommendation, matchID string) bool {
	for _, item := range items {
		if item.MatchID == matchID {
			return true
		}
	}
	return false
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_ListLeagues(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/leagues", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope[[]leagueDTO](t, rec)
	if len(body.Data) != len(memory.SeedLeagues()) {
		t.Fatalf("expected %d leagues, got %d", len(memory.SeedLeagues()), len(body.Data))
	}
}

func TestRouter_ListMyLeaguesFollowsTier(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/users/me/leagues", freemiumTestUserID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope[[]leagueDTO](t, rec)
	if len(body.Data) != 5 {
		t.Fatalf("expected 5 top-five leagues for freemium, got %d", len(body.Data))
	}
	for _, item := range body.Data {
		if !item.TopFive {
			t.Fatalf("freemium user got non top-five league %s", item.ID)
		}
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/users/me/leagues", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without %s, got %d", UserIDHeader, rec.Code)
	}
}

func TestRouter_GetTripRecommendations(t *testing.T) {
	srv := newTestServer(t)
	path := "/v1/trips/" + testTripID + "/recommendations"

	rec := doRequest(t, srv, http.MethodGet, path, memory.SeedUserID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", rec.Code, rec.Body.String())
	}
	first := decodeEnvelope[recommendationPayload](t, rec).Data
	if first.Cached {
		t.Fatalf("expected first response to be computed")
	}
	if !hasMatch(first.Recommendations, nearbyFixtureID) {
		t.Fatalf("expected fixture %s to be recommended, got %+v", nearbyFixtureID, first.Recommendations)
	}
	if first.Persisted != nil {
		t.Fatalf("did not expect persistence without persist=true")
	}

	rec = doRequest(t, srv, http.MethodGet, path, memory.SeedUserID, "")
	second := decodeEnvelope[recommendationPayload](t, rec).Data
	if !second.Cached {
		t.Fatalf("expected second response to come from cache")
	}

	rec = doRequest(t, srv, http.MethodGet, path+"?force_refresh=true&persist=true", memory.SeedUserID, "")
	third := decodeEnvelope[recommendationPayload](t, rec).Data
	if third.Cached {
		t.Fatalf("expected force_refresh to bypass cache")
	}
	if third.Persisted == nil || third.Persisted.Count != len(third.Recommendations) {
		t.Fatalf("expected persisted summary for %d items, got %+v", len(third.Recommendations), third.Persisted)
	}
	if third.Persisted.Version != recommendation.DefaultWeights().Version {
		t.Fatalf("unexpected persisted version %q", third.Persisted.Version)
	}
}

func TestRouter_GetTripRecommendationsDiagnosticsAndErrors(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/trips/missing/recommendations", memory.SeedUserID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected diagnostics as 200, got %d", rec.Code)
	}
	body := decodeEnvelope[recommendationPayload](t, rec).Data
	if body.Diagnostics == nil || body.Diagnostics.Reason != recommendation.ReasonTripNotFound {
		t.Fatalf("expected trip_not_found diagnostics, got %+v", body.Diagnostics)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/trips/"+testTripID+"/recommendations", "nobody", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/trips/"+testTripID+"/recommendations?force_refresh=maybe", memory.SeedUserID, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad force_refresh, got %d", rec.Code)
	}
}

func TestRouter_DismissInteractionRemovesRecommendation(t *testing.T) {
	srv := newTestServer(t)
	recsPath := "/v1/trips/" + testTripID + "/recommendations"

	rec := doRequest(t, srv, http.MethodGet, recsPath, memory.SeedUserID, "")
	if !hasMatch(decodeEnvelope[recommendationPayload](t, rec).Data.Recommendations, nearbyFixtureID) {
		t.Fatalf("expected fixture %s before dismissal", nearbyFixtureID)
	}

	rec = doRequest(t, srv, http.MethodPost, recsPath+"/"+nearbyFixtureID+"/interactions", memory.SeedUserID,
		`{"action":"dismissed","score":42.5,"reason":"already seen"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body=%s)", rec.Code, rec.Body.String())
	}
	item := decodeEnvelope[interactionDTO](t, rec).Data
	if item.Action != "dismissed" || item.MatchID != nearbyFixtureID || item.TripID != testTripID {
		t.Fatalf("unexpected interaction %+v", item)
	}

	rec = doRequest(t, srv, http.MethodGet, recsPath, memory.SeedUserID, "")
	body := decodeEnvelope[recommendationPayload](t, rec).Data
	if body.Cached {
		t.Fatalf("expected dismissal to invalidate the trip cache")
	}
	if hasMatch(body.Recommendations, nearbyFixtureID) {
		t.Fatalf("expected dismissed fixture to be filtered out")
	}
}

func TestRouter_RecordInteractionValidation(t *testing.T) {
	srv := newTestServer(t)
	path := "/v1/trips/" + testTripID + "/recommendations/" + nearbyFixtureID + "/interactions"

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown action", body: `{"action":"liked"}`},
		{name: "missing action", body: `{"score":1}`},
		{name: "unknown field", body: `{"action":"saved","extra":true}`},
		{name: "malformed", body: `{"action":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, path, memory.SeedUserID, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (body=%s)", rec.Code, rec.Body.String())
			}
		})
	}

	rec := doRequest(t, srv, http.MethodPost, path, "nobody", `{"action":"viewed"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
}

func TestRouter_InvalidateCaches(t *testing.T) {
	srv := newTestServer(t)
	recsPath := "/v1/trips/" + testTripID + "/recommendations"

	doRequest(t, srv, http.MethodGet, recsPath, memory.SeedUserID, "")

	rec := doRequest(t, srv, http.MethodDelete, recsPath+"/cache", memory.SeedUserID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeEnvelope[cacheInvalidationDTO](t, rec).Data.Removed; got != 1 {
		t.Fatalf("expected 1 trip entry removed, got %d", got)
	}

	doRequest(t, srv, http.MethodGet, recsPath, memory.SeedUserID, "")
	rec = doRequest(t, srv, http.MethodDelete, "/v1/users/me/recommendations/cache", memory.SeedUserID, "")
	if got := decodeEnvelope[cacheInvalidationDTO](t, rec).Data.Removed; got != 1 {
		t.Fatalf("expected 1 user entry removed, got %d", got)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/v1/users/me/recommendations/cache", memory.SeedUserID, "")
	if got := decodeEnvelope[cacheInvalidationDTO](t, rec).Data.Removed; got != 0 {
		t.Fatalf("expected nothing left to remove, got %d", got)
	}
}

func TestRouter_ForeignTripIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	recsPath := "/v1/trips/" + testTripID + "/recommendations"

	doRequest(t, srv, http.MethodGet, recsPath, memory.SeedUserID, "")

	rec := doRequest(t, srv, http.MethodDelete, recsPath+"/cache", "intruder", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a foreign trip cache purge, got %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodPost, recsPath+"/"+nearbyFixtureID+"/interactions", "intruder", `{"action":"dismissed"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a foreign trip interaction, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, recsPath, memory.SeedUserID, "")
	body := decodeEnvelope[recommendationPayload](t, rec).Data
	if !body.Cached || !hasMatch(body.Recommendations, nearbyFixtureID) {
		t.Fatalf("owner cache must be untouched, cached=%v", body.Cached)
	}
}

func TestRouter_MetricsUseRoutePatterns(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodGet, "/v1/trips/"+testTripID+"/recommendations", memory.SeedUserID, "")

	rec := doRequest(t, srv, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	text := rec.Body.String()
	if !strings.Contains(text, `route="GET /v1/trips/{tripID}/recommendations"`) {
		t.Fatalf("expected route pattern label in metrics output")
	}
	if !strings.Contains(text, "trip_recommender_recommendation_requests_total") {
		t.Fatalf("expected recommendation counter in metrics output")
	}
}
