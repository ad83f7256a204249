package recommendation

import (
	"math"

	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
)

// Band awards Points to inputs below Upper that were not caught by an earlier band.
type Band struct {
	Upper  float64
	Points float64
}

// Bands is a piecewise lookup over half-open buckets [prev.Upper, Upper) with
// a catch-all for anything beyond the last bucket.
type Bands struct {
	Steps  []Band
	Beyond float64
}

func (b Bands) Lookup(value float64) float64 {
	if math.IsNaN(value) {
		return b.Beyond
	}
	if value < 0 {
		value = 0
	}
	for _, step := range b.Steps {
		if value < step.Upper {
			return step.Points
		}
	}
	return b.Beyond
}

// Weights is the scoring constant table. Tune by shipping a new Version.
type Weights struct {
	Version string

	Base               float64
	ProximityMiles     Bands
	TemporalDays       Bands
	LeagueTierPoints   map[league.Tier]float64
	FavoriteTeam       float64
	FavoriteLeague     float64
	FavoriteLeagueTop  float64
	FavoriteVenue      float64
	StrengthMultiplier map[user.PreferenceStrength]float64

	AlreadySavedPenalty float64

	MinScore  float64
	MaxPerDay int
}

func DefaultWeights() Weights {
	return Weights{
		Version: "2024.2",
		Base:    10,
		ProximityMiles: Bands{
			Steps: []Band{
				{Upper: 25, Points: 40},
				{Upper: 50, Points: 30},
				{Upper: 100, Points: 25},
				{Upper: 200, Points: 15},
				{Upper: 300, Points: 5},
			},
			Beyond: 0,
		},
		TemporalDays: Bands{
			Steps: []Band{
				{Upper: 1, Points: 20},
				{Upper: 2, Points: 12},
				{Upper: 3, Points: 6},
				{Upper: 4, Points: 3},
			},
			Beyond: 0,
		},
		LeagueTierPoints: map[league.Tier]float64{
			league.TierOne:   15,
			league.TierTwo:   8,
			league.TierOther: 0,
		},
		FavoriteTeam:      25,
		FavoriteLeague:    15,
		FavoriteLeagueTop: 5,
		FavoriteVenue:     10,
		StrengthMultiplier: map[user.PreferenceStrength]float64{
			user.StrengthLight:    0.5,
			user.StrengthStandard: 1.0,
			user.StrengthStrong:   1.5,
		},
		AlreadySavedPenalty: -1000,
		MinScore:            30,
		MaxPerDay:           3,
	}
}

func (w Weights) LeagueQuality(tier league.Tier) float64 {
	return w.LeagueTierPoints[tier]
}

func (w Weights) Multiplier(strength user.PreferenceStrength) float64 {
	if m, ok := w.StrengthMultiplier[strength]; ok {
		return m
	}
	return 1.0
}
