package usecase

import (
	"github.com/riskibarqy/trip-recommender/internal/domain/fixture"
	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
)

// ScoreBreakdown keeps each additive term so reasons can be explained.
type ScoreBreakdown struct {
	Base           float64
	Proximity      float64
	Temporal       float64
	LeagueQuality  float64
	FavoriteTeam   float64
	FavoriteLeague float64
	FavoriteVenue  float64
	Penalty        float64
}

func (b ScoreBreakdown) Total() float64 {
	return b.Base + b.Proximity + b.Temporal + b.LeagueQuality +
		b.FavoriteTeam + b.FavoriteLeague + b.FavoriteVenue + b.Penalty
}

// ScoreInput is everything the scorer needs about one candidate.
type ScoreInput struct {
	Match         fixture.Fixture
	DistanceMiles float64
	DayOffset     int
	LeagueTier    league.Tier
	AlreadySaved  bool
}

type Scorer struct {
	weights recommendation.Weights
}

func NewScorer(weights recommendation.Weights) *Scorer {
	return &Scorer{weights: weights}
}

func (s *Scorer) Score(in ScoreInput, u user.User) ScoreBreakdown {
	w := s.weights
	multiplier := w.Multiplier(u.Strength())

	out := ScoreBreakdown{
		Base:          w.Base,
		Proximity:     w.ProximityMiles.Lookup(in.DistanceMiles),
		Temporal:      w.TemporalDays.Lookup(float64(in.DayOffset)),
		LeagueQuality: w.LeagueQuality(in.LeagueTier),
	}

	prefs := u.Preferences
	if containsID(prefs.FavoriteTeams, in.Match.HomeTeam.ID) || containsID(prefs.FavoriteTeams, in.Match.AwayTeam.ID) {
		out.FavoriteTeam = w.FavoriteTeam * multiplier
	}
	if containsID(prefs.FavoriteLeagues, in.Match.League.ID) {
		bonus := w.FavoriteLeague
		if in.LeagueTier == league.TierOne {
			bonus += w.FavoriteLeagueTop
		}
		out.FavoriteLeague = bonus * multiplier
	}
	if containsID(prefs.FavoriteVenues, in.Match.Venue.ID) {
		out.FavoriteVenue = w.FavoriteVenue * multiplier
	}
	if in.AlreadySaved {
		out.Penalty = w.AlreadySavedPenalty
	}

	return out
}

func containsID(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, item := range ids {
		if item == id {
			return true
		}
	}
	return false
}
