package httpapi

import (
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
)

type leagueDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	Tier        int    `json:"tier"`
	TopFive     bool   `json:"topFive"`
}

type recommendationResultDTO struct {
	recommendation.Result
	Persisted *storedRecommendationsDTO `json:"persisted,omitempty"`
}

type storedRecommendationsDTO struct {
	Count       int    `json:"count"`
	Version     string `json:"version"`
	GeneratedAt string `json:"generatedAt"`
}

type interactionDTO struct {
	MatchID string  `json:"matchId"`
	TripID  string  `json:"tripId"`
	Action  string  `json:"action"`
	At      string  `json:"at"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
}

type cacheInvalidationDTO struct {
	Removed int `json:"removed"`
}

func leaguesToDTO(items []league.League) []leagueDTO {
	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		out = append(out, leagueDTO{
			ID:          item.ID,
			Name:        item.Name,
			CountryCode: item.CountryCode,
			Tier:        int(item.Tier),
			TopFive:     item.TopFive,
		})
	}
	return out
}

func storedToDTO(v recommendation.Stored) *storedRecommendationsDTO {
	return &storedRecommendationsDTO{
		Count:       len(v.Items),
		Version:     v.Version,
		GeneratedAt: v.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func interactionToDTO(v user.Interaction) interactionDTO {
	return interactionDTO{
		MatchID: v.MatchID,
		TripID:  v.TripID,
		Action:  string(v.Action),
		At:      v.At.UTC().Format(time.RFC3339),
		Score:   v.Score,
		Reason:  v.Reason,
	}
}
