package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/trip-recommender/internal/domain/fixture"
	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
)

const defaultRecommendationDayWorkers = 4

// FixtureSearcher returns actionable fixtures for a day across leagues.
type FixtureSearcher interface {
	SearchFixtures(ctx context.Context, date string, leagueIDs []string) ([]fixture.Fixture, error)
}

type LeagueAccessResolver interface {
	AccessibleLeagues(ctx context.Context, u user.User) ([]league.League, error)
}

// RecommendationMetrics observes finished recommendation requests. outcome is
// the diagnostic reason, or "ok".
type RecommendationMetrics interface {
	ObserveRecommendationRequest(outcome string, cached bool, duration time.Duration, count int)
}

type nopRecommendationMetrics struct{}

func (nopRecommendationMetrics) ObserveRecommendationRequest(string, bool, time.Duration, int) {}

type RecommendationServiceConfig struct {
	Weights    recommendation.Weights
	DayWorkers int
}

type GetRecommendationsInput struct {
	TripID string
	User   user.User
	// Trip is nil when the caller could not find it.
	Trip         *trip.Trip
	ForceRefresh bool
}

type RecordInteractionInput struct {
	MatchID string
	Action  string
	Score   float64
	Reason  string
}

type RecommendationService struct {
	catalog  FixtureSearcher
	access   LeagueAccessResolver
	venues   VenueCoordinateLookup
	cache    *RecommendationCache
	userRepo user.Repository
	tripRepo trip.Repository
	pipeline *candidatePipeline
	cfg      RecommendationServiceConfig
	metrics  RecommendationMetrics
	logger   *logging.Logger
	now      func() time.Time
}

func NewRecommendationService(
	catalog FixtureSearcher,
	access LeagueAccessResolver,
	venues VenueCoordinateLookup,
	cache *RecommendationCache,
	userRepo user.Repository,
	tripRepo trip.Repository,
	cfg RecommendationServiceConfig,
	metrics RecommendationMetrics,
	logger *logging.Logger,
) *RecommendationService {
	if cfg.Weights.Version == "" {
		cfg.Weights = recommendation.DefaultWeights()
	}
	if cfg.DayWorkers <= 0 {
		cfg.DayWorkers = defaultRecommendationDayWorkers
	}
	if metrics == nil {
		metrics = nopRecommendationMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RecommendationService{
		catalog:  catalog,
		access:   access,
		venues:   venues,
		cache:    cache,
		userRepo: userRepo,
		tripRepo: tripRepo,
		pipeline: newCandidatePipeline(cfg.Weights),
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// GetRecommendationsForTrip never fails. Structural problems and unexpected
// errors are reported through Diagnostics with an empty list.
func (s *RecommendationService) GetRecommendationsForTrip(ctx context.Context, in GetRecommendationsInput) (result recommendation.Result) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.GetRecommendationsForTrip", tripSpanAttributes(in.User.ID, in.TripID)...)
	defer span.End()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "recommendation request panicked",
				"trip_id", in.TripID,
				"user_id", in.User.ID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			result = errorResult(fmt.Errorf("unexpected failure: %v", r))
		}
		s.metrics.ObserveRecommendationRequest(outcomeLabel(result), result.Cached, time.Since(started), len(result.Recommendations))
	}()

	return s.getRecommendations(ctx, in)
}

func (s *RecommendationService) getRecommendations(ctx context.Context, in GetRecommendationsInput) recommendation.Result {
	if in.Trip == nil || (in.TripID != "" && in.Trip.ID != "" && in.Trip.ID != in.TripID) {
		return diagnosticResult(&recommendation.Diagnostics{
			Reason:  recommendation.ReasonTripNotFound,
			Message: fmt.Sprintf("trip %q was not found", in.TripID),
		})
	}
	t := *in.Trip
	if t.ID == "" {
		t.ID = in.TripID
	}

	window, ok := ResolveDateRange(t)
	if !ok {
		return diagnosticResult(&recommendation.Diagnostics{
			Reason:  recommendation.ReasonInvalidTripDates,
			Message: "trip has no valid dates; add a match or set a start and end date",
		})
	}
	dateRange := window.Range()

	days := DaysWithoutMatches(t, window)
	if len(days) == 0 {
		return diagnosticResult(&recommendation.Diagnostics{
			Reason:        recommendation.ReasonAllDaysHaveMatches,
			Message:       "every day of the trip already has a saved match",
			TripDateRange: &dateRange,
		})
	}

	venues := ExtractVenues(ctx, t, s.venues, s.logger)
	if len(venues) == 0 {
		return diagnosticResult(&recommendation.Diagnostics{
			Reason:        recommendation.ReasonNoVenuesWithCoords,
			Message:       "no saved match has a venue with known coordinates",
			TripDateRange: &dateRange,
			DaysSearched:  days,
		})
	}

	key := RecommendationCacheKey(in.User, t)
	if !in.ForceRefresh {
		if cached, hit := s.cache.Get(ctx, key); hit {
			result := withoutDismissed(cached, in.User, t.ID)
			if len(result.Recommendations) == 0 && result.Diagnostics == nil {
				result.Diagnostics = &recommendation.Diagnostics{
					Reason:        recommendation.ReasonNoMatchesFound,
					Message:       "every cached recommendation for this trip has been dismissed",
					TripDateRange: &dateRange,
					DaysSearched:  days,
					VenuesFound:   len(venues),
				}
			}
			return result
		}
	}

	leagues, err := s.accessibleLeagues(ctx, in.User)
	if err != nil {
		s.logger.ErrorContext(ctx, "resolve accessible leagues failed", "user_id", in.User.ID, "error", err)
		return errorResult(err)
	}

	diag := &recommendation.Diagnostics{
		Reason:          recommendation.ReasonNoMatchesFound,
		Message:         "no nearby matches were found for the open days of this trip",
		TripDateRange:   &dateRange,
		DaysSearched:    days,
		VenuesFound:     len(venues),
		LeaguesSearched: len(leagues),
	}
	if len(leagues) == 0 {
		diag.Message = "no leagues are available for this subscription"
		result := diagnosticResult(diag)
		s.cache.Set(ctx, key, result)
		return result
	}

	req := newPipelineRequest(t, in.User, window, venues, leagues)
	byDate, failedDates, err := s.prefetch(ctx, req, leagues, days)
	if err != nil {
		s.logger.ErrorContext(ctx, "prefetch candidate fixtures failed", "trip_id", t.ID, "error", err)
		return errorResult(err)
	}

	recs := make([]recommendation.Recommendation, 0)
	seen := make(map[string]struct{})
	for _, target := range days {
		dates := searchDates(target, window)
		pool := make([]fixture.Fixture, 0)
		failed := 0
		for _, d := range dates {
			if _, bad := failedDates[d]; bad {
				failed++
				continue
			}
			pool = append(pool, byDate[d]...)
		}
		if failed == len(dates) {
			diag.FailedDays = append(diag.FailedDays, target)
			s.logger.WarnContext(ctx, "no fixture data for trip day", "trip_id", t.ID, "date", target)
			continue
		}

		dayRecs, evaluated := s.pipeline.run(req, target, pool, seen)
		diag.CandidatesEvaluated += evaluated
		recs = append(recs, dayRecs...)
	}

	result := recommendation.Result{Recommendations: recs}
	if len(recs) == 0 {
		result.Diagnostics = diag
		if len(diag.FailedDays) > 0 {
			return result
		}
	}

	s.cache.Set(ctx, key, result)
	return result
}

func (s *RecommendationService) accessibleLeagues(ctx context.Context, u user.User) ([]league.League, error) {
	if s.access == nil {
		return nil, fmt.Errorf("%w: league access is not configured", ErrDependencyUnavailable)
	}
	return s.access.AccessibleLeagues(ctx, u)
}

type daySearch struct {
	date  string
	items []fixture.Fixture
	err   error
}

// prefetch searches every date the days will widen to, in parallel on a
// request-scoped pool. Dates whose search failed are returned separately.
func (s *RecommendationService) prefetch(ctx context.Context, req *pipelineRequest, leagues []league.League, days []string) (map[string][]fixture.Fixture, map[string]struct{}, error) {
	if s.catalog == nil {
		return nil, nil, fmt.Errorf("%w: fixture catalog is not configured", ErrDependencyUnavailable)
	}

	dates := make([]string, 0, len(days)+2)
	queued := make(map[string]struct{}, len(days)+2)
	for _, target := range days {
		for _, d := range searchDates(target, req.window) {
			if _, ok := queued[d]; ok {
				continue
			}
			queued[d] = struct{}{}
			dates = append(dates, d)
		}
	}

	leagueIDs := make([]string, 0, len(leagues))
	for _, item := range leagues {
		leagueIDs = append(leagueIDs, item.ID)
	}

	workers := s.cfg.DayWorkers
	if workers > len(dates) {
		workers = len(dates)
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p any) {
		s.logger.ErrorContext(ctx, "fixture day search panicked", "panic", p)
	}))
	if err != nil {
		return nil, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan daySearch, len(dates))
	var workersWG sync.WaitGroup
	for _, d := range dates {
		d := d
		workersWG.Add(1)
		if err := pool.Submit(func() {
			defer workersWG.Done()
			pyroscope.TagWrapper(ctx, pyroscope.Labels("workload", "fixture_day_search"), func(ctx context.Context) {
				items, err := s.catalog.SearchFixtures(ctx, d, leagueIDs)
				results <- daySearch{date: d, items: items, err: err}
			})
		}); err != nil {
			workersWG.Done()
			return nil, nil, fmt.Errorf("submit day search to worker pool: %w", err)
		}
	}

	workersWG.Wait()
	close(results)

	byDate := make(map[string][]fixture.Fixture, len(dates))
	failed := make(map[string]struct{})
	for _, d := range dates {
		failed[d] = struct{}{}
	}
	for res := range results {
		if res.err != nil {
			s.logger.WarnContext(ctx, "fixture day search failed", "date", res.date, "error", res.err)
			continue
		}
		delete(failed, res.date)
		byDate[res.date] = res.items
	}

	return byDate, failed, nil
}

// GetRecommendationsForUserTrip loads the user and trip and delegates. A
// missing trip is reported through Diagnostics.
func (s *RecommendationService) GetRecommendationsForUserTrip(ctx context.Context, userID, tripID string, forceRefresh bool) (recommendation.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.GetRecommendationsForUserTrip", tripSpanAttributes(userID, tripID)...)
	defer span.End()

	userID = strings.TrimSpace(userID)
	tripID = strings.TrimSpace(tripID)
	if userID == "" {
		return recommendation.Result{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if tripID == "" {
		return recommendation.Result{}, fmt.Errorf("%w: trip id is required", ErrInvalidInput)
	}

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return recommendation.Result{}, err
	}

	in := GetRecommendationsInput{
		TripID:       tripID,
		User:         u,
		ForceRefresh: forceRefresh,
	}
	if s.tripRepo == nil {
		return recommendation.Result{}, fmt.Errorf("%w: trip repository is not configured", ErrDependencyUnavailable)
	}
	t, exists, err := s.tripRepo.GetByID(ctx, userID, tripID)
	if err != nil {
		return recommendation.Result{}, fmt.Errorf("get trip: %w", err)
	}
	if exists {
		in.Trip = &t
	}

	return s.GetRecommendationsForTrip(ctx, in), nil
}

// PersistRecommendations writes recs onto the trip with the weight table
// version and the generation time.
func (s *RecommendationService) PersistRecommendations(ctx context.Context, userID, tripID string, recs []recommendation.Recommendation) (recommendation.Stored, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.PersistRecommendations", tripSpanAttributes(userID, tripID)...)
	defer span.End()

	userID = strings.TrimSpace(userID)
	tripID = strings.TrimSpace(tripID)
	if userID == "" || tripID == "" {
		return recommendation.Stored{}, fmt.Errorf("%w: user id and trip id are required", ErrInvalidInput)
	}
	if s.tripRepo == nil {
		return recommendation.Stored{}, fmt.Errorf("%w: trip repository is not configured", ErrDependencyUnavailable)
	}

	stored := recommendation.Stored{
		Items:       append([]recommendation.Recommendation(nil), recs...),
		Version:     s.cfg.Weights.Version,
		GeneratedAt: s.now().UTC(),
	}
	if err := s.tripRepo.SaveRecommendations(ctx, userID, tripID, stored); err != nil {
		return recommendation.Stored{}, fmt.Errorf("save trip recommendations: %w", err)
	}
	return stored, nil
}

// RecordInteraction appends to the user's history. Saves and dismissals
// change what the trip should be offered, so they drop its cache entries.
func (s *RecommendationService) RecordInteraction(ctx context.Context, userID, tripID string, in RecordInteractionInput) (user.Interaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.RecordInteraction", tripSpanAttributes(userID, tripID)...)
	defer span.End()

	userID = strings.TrimSpace(userID)
	tripID = strings.TrimSpace(tripID)
	matchID := strings.TrimSpace(in.MatchID)
	if userID == "" || tripID == "" || matchID == "" {
		return user.Interaction{}, fmt.Errorf("%w: user id, trip id and match id are required", ErrInvalidInput)
	}
	action, err := user.ParseAction(in.Action)
	if err != nil {
		return user.Interaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.userRepo == nil {
		return user.Interaction{}, fmt.Errorf("%w: user repository is not configured", ErrDependencyUnavailable)
	}
	if _, err := s.requireOwnedTrip(ctx, userID, tripID); err != nil {
		return user.Interaction{}, err
	}

	item := user.Interaction{
		MatchID: matchID,
		TripID:  tripID,
		Action:  action,
		At:      s.now().UTC(),
		Score:   in.Score,
		Reason:  strings.TrimSpace(in.Reason),
	}
	if err := s.userRepo.AppendInteraction(ctx, userID, item); err != nil {
		return user.Interaction{}, fmt.Errorf("append interaction: %w", err)
	}

	if action == user.ActionDismissed || action == user.ActionSaved {
		removed := s.InvalidateTripCache(ctx, tripID)
		s.logger.DebugContext(ctx, "trip recommendation cache invalidated",
			"trip_id", tripID,
			"action", string(action),
			"removed", removed,
		)
	}
	return item, nil
}

func (s *RecommendationService) InvalidateTripCache(ctx context.Context, tripID string) int {
	return s.cache.InvalidateByTrip(ctx, tripID)
}

// InvalidateUserTripCache drops the cached sets of a trip owned by userID.
func (s *RecommendationService) InvalidateUserTripCache(ctx context.Context, userID, tripID string) (int, error) {
	userID = strings.TrimSpace(userID)
	tripID = strings.TrimSpace(tripID)
	if userID == "" || tripID == "" {
		return 0, fmt.Errorf("%w: user id and trip id are required", ErrInvalidInput)
	}
	if _, err := s.requireOwnedTrip(ctx, userID, tripID); err != nil {
		return 0, err
	}
	return s.InvalidateTripCache(ctx, tripID), nil
}

func (s *RecommendationService) InvalidateUserCache(ctx context.Context, userID string) int {
	return s.cache.InvalidateByUser(ctx, userID)
}

// requireOwnedTrip reports ErrNotFound for trips userID does not own, so
// foreign trip ids are indistinguishable from missing ones.
func (s *RecommendationService) requireOwnedTrip(ctx context.Context, userID, tripID string) (trip.Trip, error) {
	if s.tripRepo == nil {
		return trip.Trip{}, fmt.Errorf("%w: trip repository is not configured", ErrDependencyUnavailable)
	}
	t, exists, err := s.tripRepo.GetByID(ctx, userID, tripID)
	if err != nil {
		return trip.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	if !exists {
		return trip.Trip{}, fmt.Errorf("%w: trip=%s", ErrNotFound, tripID)
	}
	return t, nil
}

func (s *RecommendationService) loadUser(ctx context.Context, userID string) (user.User, error) {
	if s.userRepo == nil {
		return user.User{}, fmt.Errorf("%w: user repository is not configured", ErrDependencyUnavailable)
	}
	u, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return u, nil
}

// withoutDismissed marks a cached result and drops matches dismissed after it
// was stored.
func withoutDismissed(cached recommendation.Result, u user.User, tripID string) recommendation.Result {
	dismissed := u.DismissedMatches(tripID)
	items := make([]recommendation.Recommendation, 0, len(cached.Recommendations))
	for _, item := range cached.Recommendations {
		if _, ok := dismissed[item.MatchID]; ok {
			continue
		}
		items = append(items, item)
	}
	cached.Recommendations = items
	cached.Cached = true
	return cached
}

func diagnosticResult(diag *recommendation.Diagnostics) recommendation.Result {
	return recommendation.Result{
		Recommendations: []recommendation.Recommendation{},
		Diagnostics:     diag,
	}
}

func errorResult(err error) recommendation.Result {
	return diagnosticResult(&recommendation.Diagnostics{
		Reason:  recommendation.ReasonError,
		Message: err.Error(),
	})
}

func outcomeLabel(result recommendation.Result) string {
	if result.Diagnostics == nil {
		return "ok"
	}
	return string(result.Diagnostics.Reason)
}
