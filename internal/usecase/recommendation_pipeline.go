package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/fixture"
	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
)

// conflictWindow is how close a candidate kickoff may be to a saved kickoff
// before the user could not attend both.
const conflictWindow = 3 * time.Hour

const maxAlternativeDates = 2

// pipelineRequest is the request-local state shared by every day of one run.
type pipelineRequest struct {
	trip      trip.Trip
	user      user.User
	window    DateWindow
	venues    []SavedVenue
	leagues   map[string]league.League
	radius    float64
	saved     map[string]struct{}
	kickoffs  []time.Time
	dismissed map[string]struct{}
}

func newPipelineRequest(t trip.Trip, u user.User, window DateWindow, venues []SavedVenue, leagues []league.League) *pipelineRequest {
	req := &pipelineRequest{
		trip:      t,
		user:      u,
		window:    window,
		venues:    venues,
		leagues:   make(map[string]league.League, len(leagues)),
		radius:    u.RadiusMiles(),
		saved:     make(map[string]struct{}, len(t.Matches)),
		kickoffs:  make([]time.Time, 0, len(t.Matches)),
		dismissed: u.DismissedMatches(t.ID),
	}
	for _, item := range leagues {
		req.leagues[item.ID] = item
	}
	for _, item := range t.Matches {
		req.saved[item.MatchID] = struct{}{}
		if kickoff, ok := item.Kickoff(); ok {
			req.kickoffs = append(req.kickoffs, kickoff)
		}
	}
	return req
}

type candidate struct {
	match     fixture.Fixture
	order     int
	nearest   SavedVenue
	distance  float64
	dayOffset int
	breakdown ScoreBreakdown
	score     float64
}

// candidatePipeline filters, scores and selects fixtures for one target day.
type candidatePipeline struct {
	scorer  *Scorer
	weights recommendation.Weights
}

func newCandidatePipeline(weights recommendation.Weights) *candidatePipeline {
	return &candidatePipeline{
		scorer:  NewScorer(weights),
		weights: weights,
	}
}

// searchDates returns the target day plus its neighbours that are still
// inside the trip window.
func searchDates(target string, window DateWindow) []string {
	out := []string{target}
	for _, offset := range []int{-1, 1} {
		d, ok := shiftDay(target, offset)
		if ok && window.ContainsDay(d) {
			out = append(out, d)
		}
	}
	return out
}

// alternativeDates returns up to two days near target inside the window.
func alternativeDates(target string, window DateWindow) []string {
	out := make([]string, 0, maxAlternativeDates)
	for _, offset := range []int{-1, 1, -2, 2} {
		if len(out) == maxAlternativeDates {
			break
		}
		d, ok := shiftDay(target, offset)
		if ok && window.ContainsDay(d) {
			out = append(out, d)
		}
	}
	return out
}

// run applies every filter to fixtures, scores the survivors and returns the
// selection for target. Emitted match ids are added to seen. evaluated counts
// scored candidates.
func (p *candidatePipeline) run(req *pipelineRequest, target string, fixtures []fixture.Fixture, seen map[string]struct{}) (out []recommendation.Recommendation, evaluated int) {
	targetDay, err := time.Parse(time.DateOnly, target)
	if err != nil {
		return nil, 0
	}

	pool := make([]candidate, 0, len(fixtures))
	local := make(map[string]struct{}, len(fixtures))
	for i, item := range fixtures {
		if _, dup := local[item.ID]; dup {
			continue
		}
		local[item.ID] = struct{}{}

		if _, emitted := seen[item.ID]; emitted {
			continue
		}
		lg, allowed := req.leagues[item.League.ID]
		if !allowed {
			continue
		}

		nearest, distance, nearby := nearestVenue(item, req.venues, req.radius)
		if !nearby {
			continue
		}
		if conflictsWithSaved(item.KickoffAt, req.kickoffs) {
			continue
		}
		if _, dismissed := req.dismissed[item.ID]; dismissed {
			continue
		}

		_, alreadySaved := req.saved[item.ID]
		c := candidate{
			match:     item,
			order:     i,
			nearest:   nearest,
			distance:  distance,
			dayOffset: dayDistance(item.KickoffAt, targetDay),
		}
		c.breakdown = p.scorer.Score(ScoreInput{
			Match:         item,
			DistanceMiles: distance,
			DayOffset:     c.dayOffset,
			LeagueTier:    lg.Tier,
			AlreadySaved:  alreadySaved,
		}, req.user)
		c.score = c.breakdown.Total()
		pool = append(pool, c)
	}

	selected := selectCandidates(pool, p.weights.MinScore, p.weights.MaxPerDay)
	alternatives := alternativeDates(target, req.window)

	out = make([]recommendation.Recommendation, 0, len(selected))
	for _, c := range selected {
		seen[c.match.ID] = struct{}{}
		out = append(out, recommendation.Recommendation{
			MatchID:          c.match.ID,
			ForDate:          target,
			Match:            c.match,
			Reason:           describeReason(c, req.leagues[c.match.League.ID]),
			Proximity:        describeProximity(c),
			Score:            c.score,
			AlternativeDates: append([]string(nil), alternatives...),
		})
	}
	return out, len(pool)
}

// nearestVenue reports the closest saved venue within radius miles.
func nearestVenue(item fixture.Fixture, venues []SavedVenue, radius float64) (SavedVenue, float64, bool) {
	if item.Venue.Coordinates == nil || !item.Venue.Coordinates.Valid() {
		return SavedVenue{}, 0, false
	}

	var (
		best     SavedVenue
		bestDist = math.Inf(1)
	)
	for _, v := range venues {
		d := geo.DistanceMiles(*item.Venue.Coordinates, v.Coordinates)
		if d < bestDist {
			best, bestDist = v, d
		}
	}
	if bestDist > radius {
		return SavedVenue{}, 0, false
	}
	return best, bestDist, true
}

func conflictsWithSaved(kickoff time.Time, saved []time.Time) bool {
	for _, item := range saved {
		diff := kickoff.Sub(item)
		if diff < 0 {
			diff = -diff
		}
		if diff < conflictWindow {
			return true
		}
	}
	return false
}

// selectCandidates orders by score then catalog order then match id, fills
// from candidates at or above minScore and backfills from the positive rest.
// Non-positive scores are never selected.
func selectCandidates(pool []candidate, minScore float64, maxPerDay int) []candidate {
	if maxPerDay <= 0 || len(pool) == 0 {
		return nil
	}

	ranked := append([]candidate(nil), pool...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.match.ID < b.match.ID
	})

	above := make([]candidate, 0, len(ranked))
	below := make([]candidate, 0, len(ranked))
	for _, c := range ranked {
		switch {
		case c.score <= 0:
		case c.score >= minScore:
			above = append(above, c)
		default:
			below = append(below, c)
		}
	}

	out := make([]candidate, 0, maxPerDay)
	for _, group := range [][]candidate{above, below} {
		for _, c := range group {
			if len(out) == maxPerDay {
				return out
			}
			out = append(out, c)
		}
	}
	return out
}

func describeReason(c candidate, lg league.League) string {
	m := c.match
	competition := m.League.Name
	if competition == "" {
		competition = lg.Name
	}

	head := fmt.Sprintf("%s vs %s", m.HomeTeam.Name, m.AwayTeam.Name)
	if competition != "" {
		head += " in " + competition
	}

	parts := []string{head}
	switch c.dayOffset {
	case 0:
		parts = append(parts, "fills an open day")
	case 1:
		parts = append(parts, "one day from an open day")
	default:
		parts = append(parts, fmt.Sprintf("%d days from an open day", c.dayOffset))
	}
	if lg.Tier == league.TierOne {
		parts = append(parts, "top-tier league")
	}
	if c.breakdown.FavoriteTeam > 0 {
		parts = append(parts, "features one of your favorite teams")
	}
	if c.breakdown.FavoriteLeague > 0 {
		parts = append(parts, "one of your favorite leagues")
	}
	if c.breakdown.FavoriteVenue > 0 {
		parts = append(parts, "at one of your favorite venues")
	}
	return strings.Join(parts, "; ")
}

func describeProximity(c candidate) string {
	anchor := c.nearest.Name
	if c.nearest.City != "" {
		anchor += ", " + c.nearest.City
	}
	if c.distance < 1 {
		return "less than a mile from " + anchor
	}
	miles := int(math.Round(c.distance))
	unit := "miles"
	if miles == 1 {
		unit = "mile"
	}
	return fmt.Sprintf("%d %s from %s", miles, unit, anchor)
}
