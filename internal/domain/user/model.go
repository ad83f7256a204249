package user

import (
	"fmt"
	"strings"
	"time"
)

type Tier string

const (
	TierFreemium Tier = "freemium"
	TierPro      Tier = "pro"
	TierPlanner  Tier = "planner"
)

func ParseTier(raw string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierPro:
		return TierPro
	case TierPlanner:
		return TierPlanner
	default:
		return TierFreemium
	}
}

type PreferenceStrength string

const (
	StrengthLight    PreferenceStrength = "light"
	StrengthStandard PreferenceStrength = "standard"
	StrengthStrong   PreferenceStrength = "strong"
)

func ParsePreferenceStrength(raw string) PreferenceStrength {
	switch PreferenceStrength(strings.ToLower(strings.TrimSpace(raw))) {
	case StrengthLight:
		return StrengthLight
	case StrengthStrong:
		return StrengthStrong
	default:
		return StrengthStandard
	}
}

const (
	DefaultRadiusMiles = 400
	MinRadiusMiles     = 50
	MaxRadiusMiles     = 1000
)

type Preferences struct {
	FavoriteTeams        []string           `json:"favoriteTeams" validate:"dive,required"`
	FavoriteLeagues      []string           `json:"favoriteLeagues" validate:"dive,required"`
	FavoriteVenues       []string           `json:"favoriteVenues" validate:"dive,required"`
	Strength             PreferenceStrength `json:"preferenceStrength" validate:"omitempty,oneof=light standard strong"`
	RecommendationRadius int                `json:"recommendationRadius" validate:"omitempty,min=50,max=1000"`
}

type Action string

const (
	ActionViewed    Action = "viewed"
	ActionSaved     Action = "saved"
	ActionDismissed Action = "dismissed"
)

func ParseAction(raw string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionViewed:
		return ActionViewed, nil
	case ActionSaved:
		return ActionSaved, nil
	case ActionDismissed:
		return ActionDismissed, nil
	default:
		return "", fmt.Errorf("unknown recommendation action %q", raw)
	}
}

// Interaction is one entry of the recommendation history log.
type Interaction struct {
	MatchID string
	TripID  string
	Action  Action
	At      time.Time
	Score   float64
	Reason  string
}

type User struct {
	ID          string
	Tier        Tier
	Preferences Preferences
	History     []Interaction
}

// RadiusMiles returns the effective recommendation radius.
func (u User) RadiusMiles() float64 {
	radius := u.Preferences.RecommendationRadius
	switch {
	case radius <= 0:
		radius = DefaultRadiusMiles
	case radius < MinRadiusMiles:
		radius = MinRadiusMiles
	case radius > MaxRadiusMiles:
		radius = MaxRadiusMiles
	}
	return float64(radius)
}

// DismissedMatches returns the match ids dismissed for the given trip. Other
// trips never contribute.
func (u User) DismissedMatches(tripID string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, item := range u.History {
		if item.Action != ActionDismissed || item.TripID != tripID {
			continue
		}
		out[item.MatchID] = struct{}{}
	}
	return out
}

func (u User) Strength() PreferenceStrength {
	return ParsePreferenceStrength(string(u.Preferences.Strength))
}
