package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/fixture"
	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	tripmock "github.com/riskibarqy/trip-recommender/internal/mocks/domain/trip"
	usermock "github.com/riskibarqy/trip-recommender/internal/mocks/domain/user"
	"github.com/stretchr/testify/mock"
)

type serviceHarness struct {
	service  *RecommendationService
	searcher *fakeSearcher
	lookup   *countingLookup
}

func newServiceHarness(searcher *fakeSearcher, userRepo user.Repository, tripRepo trip.Repository) serviceHarness {
	lookup := &countingLookup{}
	access := NewLeagueAccessService(staticLeagues{ligue1, epl, ligue2}, LeagueAccessConfig{})
	service := NewRecommendationService(
		searcher,
		access,
		lookup,
		newMemoryRecommendationCache(),
		userRepo,
		tripRepo,
		RecommendationServiceConfig{},
		nil,
		nil,
	)
	return serviceHarness{service: service, searcher: searcher, lookup: lookup}
}

// parisCandidates spreads fixtures over the Paris trip window. Marseille is
// beyond 400 miles from the Parc des Princes, Lille and London are not.
func parisCandidates() []fixture.Fixture {
	return []fixture.Fixture{
		candidateFixture("sdf-0101", ligue1, kickoff("2026-01-01", 20), "Stade de France", stadeDeFrance),
		candidateFixture("lille-0102", ligue1, kickoff("2026-01-02", 19), "Stade Pierre-Mauroy", stadePierre),
		candidateFixture("sdf-0103-late", ligue1, kickoff("2026-01-03", 22), "Stade de France", stadeDeFrance),
		candidateFixture("london-0104", epl, kickoff("2026-01-04", 15), "Emirates", emirates),
		candidateFixture("marseille-0104", ligue1, kickoff("2026-01-04", 20), "Velodrome", velodrome),
		candidateFixture("lille-0105", ligue2, kickoff("2026-01-05", 20), "Stade Pierre-Mauroy", stadePierre),
		candidateFixture("sdf-0106", ligue1, kickoff("2026-01-06", 21), "Stade de France", stadeDeFrance),
		candidateFixture("london-0108", epl, kickoff("2026-01-08", 16), "Emirates", emirates),
	}
}

func recommendedIDs(result recommendation.Result) []string {
	out := make([]string, 0, len(result.Recommendations))
	for _, item := range result.Recommendations {
		out = append(out, item.MatchID)
	}
	return out
}

func containsMatch(result recommendation.Result, matchID string) bool {
	for _, item := range result.Recommendations {
		if item.MatchID == matchID {
			return true
		}
	}
	return false
}

func TestRecommendationService_ParisScenario(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), nil, nil)
	tr := parisTrip("trip-paris")

	result := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{
		TripID: tr.ID,
		User:   proUser(),
		Trip:   &tr,
	})

	if result.Diagnostics != nil {
		t.Fatalf("unexpected diagnostics: %+v", result.Diagnostics)
	}
	if result.Cached {
		t.Fatalf("first call must not be cached")
	}

	searched := h.searcher.searchedDates()
	for _, d := range []string{"2026-01-01", "2026-01-02", "2026-01-04", "2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09"} {
		if _, ok := searched[d]; !ok {
			t.Fatalf("expected %s to be searched, searched=%v", d, searched)
		}
	}
	if h.searcher.callCount() != len(searched) {
		t.Fatalf("each date must be fetched once, calls=%d dates=%d", h.searcher.callCount(), len(searched))
	}

	seen := make(map[string]struct{})
	for _, item := range result.Recommendations {
		if item.ForDate == "2026-01-03" {
			t.Fatalf("no recommendation may address the saved day: %+v", item)
		}
		if item.Score <= 0 {
			t.Fatalf("score must be positive: %+v", item)
		}
		if _, dup := seen[item.MatchID]; dup {
			t.Fatalf("match %s recommended twice", item.MatchID)
		}
		seen[item.MatchID] = struct{}{}
		if len(item.AlternativeDates) > 2 {
			t.Fatalf("at most two alternative dates, got %v", item.AlternativeDates)
		}
	}

	if containsMatch(result, "marseille-0104") {
		t.Fatalf("candidate beyond the radius must never be recommended")
	}
	if containsMatch(result, "sdf-0103-late") {
		t.Fatalf("candidate within 3h of a saved kickoff must never be recommended")
	}
	for _, want := range []string{"sdf-0101", "lille-0102", "london-0104", "lille-0105", "sdf-0106", "london-0108"} {
		if !containsMatch(result, want) {
			t.Fatalf("expected %s in %v", want, recommendedIDs(result))
		}
	}

	byDay := make([]string, 0, len(result.Recommendations))
	for _, item := range result.Recommendations {
		byDay = append(byDay, item.ForDate)
	}
	for i := 1; i < len(byDay); i++ {
		if byDay[i] < byDay[i-1] {
			t.Fatalf("recommendations must follow chronological day order, got %v", byDay)
		}
	}
}

func TestRecommendationService_ConflictFilterIsIdempotentUnderForceRefresh(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), nil, nil)
	tr := parisTrip("trip-paris")

	for i := 0; i < 2; i++ {
		result := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{
			TripID: tr.ID, User: proUser(), Trip: &tr, ForceRefresh: true,
		})
		if containsMatch(result, "sdf-0103-late") {
			t.Fatalf("run %d: conflicting candidate recommended", i)
		}
	}
}

func TestRecommendationService_CacheIdempotence(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), nil, nil)
	tr := parisTrip("trip-paris")
	in := GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr}

	first := h.service.GetRecommendationsForTrip(context.Background(), in)
	calls := h.searcher.callCount()
	second := h.service.GetRecommendationsForTrip(context.Background(), in)

	if first.Cached || !second.Cached {
		t.Fatalf("cached flags first=%v second=%v", first.Cached, second.Cached)
	}
	if !reflect.DeepEqual(first.Recommendations, second.Recommendations) {
		t.Fatalf("cached recommendations differ:\nfirst=%v\nsecond=%v", recommendedIDs(first), recommendedIDs(second))
	}
	if h.searcher.callCount() != calls {
		t.Fatalf("cache hit must not query the catalog")
	}

	forced := in
	forced.ForceRefresh = true
	refreshed := h.service.GetRecommendationsForTrip(context.Background(), forced)
	if refreshed.Cached || h.searcher.callCount() == calls {
		t.Fatalf("force refresh must bypass the cache")
	}
	third := h.service.GetRecommendationsForTrip(context.Background(), in)
	if !third.Cached {
		t.Fatalf("force refresh must still write a fresh entry")
	}
}

func TestRecommendationService_ZeroSavedMatches(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), nil, nil)
	tr := trip.Trip{ID: "empty-trip", UserID: "user-1"}

	result := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{
		TripID: tr.ID, User: proUser(), Trip: &tr,
	})

	if result.Diagnostics == nil || result.Diagnostics.Reason != recommendation.ReasonInvalidTripDates {
		t.Fatalf("expected invalid_trip_dates, got %+v", result.Diagnostics)
	}
	if result.Recommendations == nil || len(result.Recommendations) != 0 {
		t.Fatalf("expected an empty, non-nil list, got %#v", result.Recommendations)
	}
	if h.searcher.callCount() != 0 || h.lookup.callCount() != 0 {
		t.Fatalf("no external calls may be issued, catalog=%d lookup=%d", h.searcher.callCount(), h.lookup.callCount())
	}
}

func TestRecommendationService_StructuralDiagnostics(t *testing.T) {
	t.Parallel()

	full := trip.Trip{
		ID:        "full-trip",
		StartDate: "2026-02-01",
		EndDate:   "2026-02-02",
		Matches: []trip.SavedMatch{
			{MatchID: "a", Date: "2026-02-01", Venue: trip.Venue{Name: "Parc des Princes", City: "Paris", Coordinates: pointPtr(parcDesPrinces)}},
			{MatchID: "b", Date: "2026-02-02", Venue: trip.Venue{Name: "Parc des Princes", City: "Paris", Coordinates: pointPtr(parcDesPrinces)}},
		},
	}
	noVenue := trip.Trip{
		ID:        "no-venue",
		StartDate: "2026-02-01",
		EndDate:   "2026-02-04",
		Matches:   []trip.SavedMatch{{MatchID: "a", Date: "2026-02-01", Venue: trip.Venue{Name: "Somewhere"}}},
	}

	cases := []struct {
		name string
		in   GetRecommendationsInput
		want recommendation.Reason
	}{
		{name: "missing trip", in: GetRecommendationsInput{TripID: "ghost", User: proUser()}, want: recommendation.ReasonTripNotFound},
		{name: "mismatched trip id", in: GetRecommendationsInput{TripID: "other", User: proUser(), Trip: &full}, want: recommendation.ReasonTripNotFound},
		{name: "every day booked", in: GetRecommendationsInput{TripID: full.ID, User: proUser(), Trip: &full}, want: recommendation.ReasonAllDaysHaveMatches},
		{name: "no venue coordinates", in: GetRecommendationsInput{TripID: noVenue.ID, User: proUser(), Trip: &noVenue}, want: recommendation.ReasonNoVenuesWithCoords},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newServiceHarness(newFakeSearcher(), nil, nil)
			result := h.service.GetRecommendationsForTrip(context.Background(), tc.in)
			if result.Diagnostics == nil || result.Diagnostics.Reason != tc.want {
				t.Fatalf("reason=%+v want %s", result.Diagnostics, tc.want)
			}
			if len(result.Recommendations) != 0 {
				t.Fatalf("expected no recommendations")
			}
			if h.searcher.callCount() != 0 {
				t.Fatalf("catalog must not be queried")
			}
		})
	}
}

func TestRecommendationService_NoMatchesFound(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(
		candidateFixture("marseille", ligue1, kickoff("2026-01-04", 20), "Velodrome", velodrome),
	), nil, nil)
	tr := parisTrip("trip-paris")

	result := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr})
	diag := result.Diagnostics
	if diag == nil || diag.Reason != recommendation.ReasonNoMatchesFound {
		t.Fatalf("expected no_matches_found, got %+v", diag)
	}
	if diag.VenuesFound != 1 || diag.LeaguesSearched != 3 || len(diag.DaysSearched) != 8 {
		t.Fatalf("unexpected diagnostic details %+v", diag)
	}
	if diag.TripDateRange == nil || diag.TripDateRange.Start != "2026-01-01" || diag.TripDateRange.End != "2026-01-09" {
		t.Fatalf("unexpected date range %+v", diag.TripDateRange)
	}

	again := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr})
	if !again.Cached {
		t.Fatalf("empty results are cached with the short ttl")
	}
}

func TestRecommendationService_CatalogOutageIsNotCached(t *testing.T) {
	t.Parallel()

	searcher := newFakeSearcher()
	for _, d := range []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04", "2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09"} {
		searcher.failing[d] = true
	}
	h := newServiceHarness(searcher, nil, nil)
	tr := parisTrip("trip-paris")
	in := GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr}

	result := h.service.GetRecommendationsForTrip(context.Background(), in)
	if result.Diagnostics == nil || result.Diagnostics.Reason != recommendation.ReasonNoMatchesFound {
		t.Fatalf("expected no_matches_found, got %+v", result.Diagnostics)
	}
	if len(result.Diagnostics.FailedDays) != 8 {
		t.Fatalf("expected every open day to be reported as failed, got %v", result.Diagnostics.FailedDays)
	}

	calls := searcher.callCount()
	if again := h.service.GetRecommendationsForTrip(context.Background(), in); again.Cached || searcher.callCount() == calls {
		t.Fatalf("outage results must not be cached")
	}
}

func TestRecommendationService_TierRestrictsLeagues(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(
		candidateFixture("ligue2-close", ligue2, kickoff("2026-01-04", 20), "Stade de France", stadeDeFrance),
		candidateFixture("ligue1-close", ligue1, kickoff("2026-01-05", 20), "Stade de France", stadeDeFrance),
	), nil, nil)
	tr := parisTrip("trip-paris")
	free := proUser()
	free.Tier = user.TierFreemium
	free.Preferences.FavoriteLeagues = []string{ligue2.ID}

	result := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: free, Trip: &tr})
	if containsMatch(result, "ligue2-close") {
		t.Fatalf("restricted league must never be recommended")
	}
	if !containsMatch(result, "ligue1-close") {
		t.Fatalf("accessible league should be recommended, got %v", recommendedIDs(result))
	}
	if _, queried := h.searcher.leagueID[ligue2.ID]; queried {
		t.Fatalf("restricted league must not be queried")
	}
}

func TestRecommendationService_DismissalIsScopedToTrip(t *testing.T) {
	t.Parallel()

	searcher := newFakeSearcher(parisCandidates()...)
	h := newServiceHarness(searcher, nil, nil)
	tripA := parisTrip("trip-a")
	tripB := parisTrip("trip-b")

	u := proUser()
	u.History = []user.Interaction{{MatchID: "sdf-0106", TripID: "trip-a", Action: user.ActionDismissed, At: time.Now()}}

	a := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tripA.ID, User: u, Trip: &tripA})
	if containsMatch(a, "sdf-0106") {
		t.Fatalf("dismissed match must be absent for trip A")
	}
	b := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tripB.ID, User: u, Trip: &tripB})
	if !containsMatch(b, "sdf-0106") {
		t.Fatalf("dismissal for trip A must not affect trip B, got %v", recommendedIDs(b))
	}
}

func TestRecommendationService_DismissalAfterCachingIsHonoured(t *testing.T) {
	t.Parallel()

	userRepo := usermock.NewRepository(t)
	userRepo.On("AppendInteraction", mock.Anything, "user-1", mock.MatchedBy(func(item user.Interaction) bool {
		return item.MatchID == "sdf-0106" && item.TripID == "trip-a" && item.Action == user.ActionDismissed
	})).Return(nil).Once()
	tripA := parisTrip("trip-a")
	tripB := parisTrip("trip-b")
	tripRepo := tripmock.NewRepository(t)
	tripRepo.On("GetByID", mock.Anything, "user-1", "trip-a").Return(tripA, true, nil).Once()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), userRepo, tripRepo)
	u := proUser()

	before := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tripA.ID, User: u, Trip: &tripA})
	if !containsMatch(before, "sdf-0106") {
		t.Fatalf("precondition: sdf-0106 should be recommended, got %v", recommendedIDs(before))
	}
	h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tripB.ID, User: u, Trip: &tripB})

	item, err := h.service.RecordInteraction(context.Background(), "user-1", "trip-a", RecordInteractionInput{
		MatchID: "sdf-0106", Action: "dismissed", Score: 71, Reason: "not interested",
	})
	if err != nil {
		t.Fatalf("record interaction: %v", err)
	}
	u.History = append(u.History, item)

	after := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tripA.ID, User: u, Trip: &tripA})
	if after.Cached {
		t.Fatalf("dismissal must invalidate the trip cache")
	}
	if containsMatch(after, "sdf-0106") {
		t.Fatalf("dismissed match must be absent after dismissal")
	}

	otherTrip := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tripB.ID, User: u, Trip: &tripB})
	if !otherTrip.Cached || !containsMatch(otherTrip, "sdf-0106") {
		t.Fatalf("trip B cache must survive and still offer the match, cached=%v ids=%v", otherTrip.Cached, recommendedIDs(otherTrip))
	}
}

func TestRecommendationService_CacheHitDropsLaterDismissals(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), nil, nil)
	tr := parisTrip("trip-a")
	u := proUser()

	first := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: u, Trip: &tr})
	if !containsMatch(first, "london-0108") {
		t.Fatalf("precondition failed, got %v", recommendedIDs(first))
	}

	u.History = []user.Interaction{{MatchID: "london-0108", TripID: "trip-a", Action: user.ActionDismissed}}
	second := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: u, Trip: &tr})
	if !second.Cached || containsMatch(second, "london-0108") {
		t.Fatalf("cache hit must drop dismissed match, cached=%v ids=%v", second.Cached, recommendedIDs(second))
	}
}

type panickingAccess struct{}

func (panickingAccess) AccessibleLeagues(context.Context, user.User) ([]league.League, error) {
	panic("tier table corrupted")
}

type failingAccess struct{}

func (failingAccess) AccessibleLeagues(context.Context, user.User) ([]league.League, error) {
	return nil, errors.New("tier service timeout")
}

func TestRecommendationService_UnexpectedFailuresBecomeErrorDiagnostics(t *testing.T) {
	t.Parallel()

	for _, access := range []LeagueAccessResolver{panickingAccess{}, failingAccess{}} {
		service := NewRecommendationService(newFakeSearcher(), access, nil, newMemoryRecommendationCache(), nil, nil, RecommendationServiceConfig{}, nil, nil)
		tr := parisTrip("trip-a")

		result := service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr})
		if result.Diagnostics == nil || result.Diagnostics.Reason != recommendation.ReasonError {
			t.Fatalf("expected error diagnostic, got %+v", result.Diagnostics)
		}
		if result.Diagnostics.Message == "" || len(result.Recommendations) != 0 {
			t.Fatalf("unexpected error result %+v", result)
		}
	}
}

type metricsRecorder struct {
	outcomes []string
}

func (m *metricsRecorder) ObserveRecommendationRequest(outcome string, _ bool, _ time.Duration, _ int) {
	m.outcomes = append(m.outcomes, outcome)
}

func TestRecommendationService_ReportsOutcomes(t *testing.T) {
	t.Parallel()

	metrics := &metricsRecorder{}
	access := NewLeagueAccessService(staticLeagues{ligue1}, LeagueAccessConfig{})
	service := NewRecommendationService(newFakeSearcher(parisCandidates()...), access, nil, newMemoryRecommendationCache(), nil, nil, RecommendationServiceConfig{}, metrics, nil)
	tr := parisTrip("trip-a")
	empty := trip.Trip{ID: "empty"}

	service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr})
	service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: empty.ID, User: proUser(), Trip: &empty})

	if !reflect.DeepEqual(metrics.outcomes, []string{"ok", "invalid_trip_dates"}) {
		t.Fatalf("outcomes=%v", metrics.outcomes)
	}
}

func TestRecommendationService_GetRecommendationsForUserTripUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userRepo := usermock.NewRepository(t)
	tripRepo := tripmock.NewRepository(t)
	tr := parisTrip("trip-a")

	userRepo.On("GetByID", mock.Anything, "user-1").Return(proUser(), true, nil).Twice()
	tripRepo.On("GetByID", mock.Anything, "user-1", "trip-a").Return(tr, true, nil).Once()
	tripRepo.On("GetByID", mock.Anything, "user-1", "ghost").Return(trip.Trip{}, false, nil).Once()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), userRepo, tripRepo)

	result, err := h.service.GetRecommendationsForUserTrip(ctx, "user-1", "trip-a", false)
	if err != nil {
		t.Fatalf("get recommendations: %v", err)
	}
	if len(result.Recommendations) == 0 {
		t.Fatalf("expected recommendations")
	}

	missing, err := h.service.GetRecommendationsForUserTrip(ctx, "user-1", "ghost", false)
	if err != nil {
		t.Fatalf("missing trip must be a diagnostic, got error %v", err)
	}
	if missing.Diagnostics == nil || missing.Diagnostics.Reason != recommendation.ReasonTripNotFound {
		t.Fatalf("expected trip_not_found, got %+v", missing.Diagnostics)
	}
}

func TestRecommendationService_GetRecommendationsForUserTrip_Errors(t *testing.T) {
	t.Parallel()

	userRepo := usermock.NewRepository(t)
	userRepo.On("GetByID", mock.Anything, "nobody").Return(user.User{}, false, nil).Once()
	h := newServiceHarness(newFakeSearcher(), userRepo, tripmock.NewRepository(t))

	if _, err := h.service.GetRecommendationsForUserTrip(context.Background(), "", "trip", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := h.service.GetRecommendationsForUserTrip(context.Background(), "nobody", "trip", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecommendationService_PersistRecommendationsUsingMockery(t *testing.T) {
	t.Parallel()

	generatedAt := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	recs := []recommendation.Recommendation{{MatchID: "sdf-0106", ForDate: "2026-01-06", Score: 85}}

	tripRepo := tripmock.NewRepository(t)
	tripRepo.On("SaveRecommendations", mock.Anything, "user-1", "trip-a", mock.MatchedBy(func(stored recommendation.Stored) bool {
		return stored.Version == "2024.2" && stored.GeneratedAt.Equal(generatedAt) && len(stored.Items) == 1
	})).Return(nil).Once()

	h := newServiceHarness(newFakeSearcher(), nil, tripRepo)
	h.service.now = func() time.Time { return generatedAt }

	stored, err := h.service.PersistRecommendations(context.Background(), "user-1", "trip-a", recs)
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if stored.Items[0].MatchID != "sdf-0106" {
		t.Fatalf("unexpected stored items %+v", stored.Items)
	}
}

func TestRecommendationService_RecordInteraction_Validation(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(), usermock.NewRepository(t), nil)

	cases := []RecordInteractionInput{
		{MatchID: "", Action: "viewed"},
		{MatchID: "m", Action: "liked"},
	}
	for _, in := range cases {
		if _, err := h.service.RecordInteraction(context.Background(), "user-1", "trip-a", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestRecommendationService_ViewedInteractionKeepsCache(t *testing.T) {
	t.Parallel()

	userRepo := usermock.NewRepository(t)
	userRepo.On("AppendInteraction", mock.Anything, "user-1", mock.Anything).Return(nil).Once()
	tr := parisTrip("trip-a")
	tripRepo := tripmock.NewRepository(t)
	tripRepo.On("GetByID", mock.Anything, "user-1", "trip-a").Return(tr, true, nil).Once()
	h := newServiceHarness(newFakeSearcher(parisCandidates()...), userRepo, tripRepo)
	in := GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr}

	h.service.GetRecommendationsForTrip(context.Background(), in)
	if _, err := h.service.RecordInteraction(context.Background(), "user-1", "trip-a", RecordInteractionInput{MatchID: "sdf-0106", Action: "viewed"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if again := h.service.GetRecommendationsForTrip(context.Background(), in); !again.Cached {
		t.Fatalf("viewed interactions must not invalidate the cache")
	}
}

func TestRecommendationService_ForeignTripIsNotFound(t *testing.T) {
	t.Parallel()

	userRepo := usermock.NewRepository(t)
	tripRepo := tripmock.NewRepository(t)
	tripRepo.On("GetByID", mock.Anything, "intruder", "trip-a").Return(trip.Trip{}, false, nil).Twice()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), userRepo, tripRepo)
	tr := parisTrip("trip-a")
	h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr})

	if _, err := h.service.RecordInteraction(context.Background(), "intruder", "trip-a", RecordInteractionInput{MatchID: "sdf-0106", Action: "dismissed"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for interaction on a foreign trip, got %v", err)
	}
	if removed, err := h.service.InvalidateUserTripCache(context.Background(), "intruder", "trip-a"); !errors.Is(err, ErrNotFound) || removed != 0 {
		t.Fatalf("expected ErrNotFound and nothing removed, got removed=%d err=%v", removed, err)
	}

	again := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: proUser(), Trip: &tr})
	if !again.Cached {
		t.Fatalf("owner cache must survive a foreign invalidation attempt")
	}
}

func TestRecommendationService_CacheHitWithEverythingDismissed(t *testing.T) {
	t.Parallel()

	h := newServiceHarness(newFakeSearcher(parisCandidates()...), nil, nil)
	tr := parisTrip("trip-a")
	u := proUser()

	first := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: u, Trip: &tr})
	if len(first.Recommendations) == 0 {
		t.Fatalf("precondition: expected recommendations")
	}
	for _, item := range first.Recommendations {
		u.History = append(u.History, user.Interaction{MatchID: item.MatchID, TripID: tr.ID, Action: user.ActionDismissed})
	}

	second := h.service.GetRecommendationsForTrip(context.Background(), GetRecommendationsInput{TripID: tr.ID, User: u, Trip: &tr})
	if !second.Cached || len(second.Recommendations) != 0 {
		t.Fatalf("expected an emptied cache hit, cached=%v ids=%v", second.Cached, recommendedIDs(second))
	}
	if second.Diagnostics == nil || second.Diagnostics.Reason != recommendation.ReasonNoMatchesFound {
		t.Fatalf("expected no_matches_found diagnostics, got %+v", second.Diagnostics)
	}
}
