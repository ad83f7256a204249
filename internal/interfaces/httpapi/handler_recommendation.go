package httpapi

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/trip-recommender/internal/usecase"
)

func (h *Handler) GetTripRecommendations(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("tripID")
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTripRecommendations", attribute.String("trip.id", tripID))
	defer span.End()

	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	forceRefresh, err := queryBool(r, "force_refresh")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	persist, err := queryBool(r, "persist")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(attribute.Bool("recommendation.force_refresh", forceRefresh))
	result, err := h.recommendationService.GetRecommendationsForUserTrip(ctx, userID, tripID, forceRefresh)
	if err != nil {
		h.logger.WarnContext(ctx, "get trip recommendations failed", "user_id", userID, "trip_id", tripID, "error", err)
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(attribute.Int("recommendation.count", len(result.Recommendations)))
	out := recommendationResultDTO{Result: result}
	if persist && len(result.Recommendations) > 0 {
		stored, err := h.recommendationService.PersistRecommendations(ctx, userID, tripID, result.Recommendations)
		if err != nil {
			h.logger.WarnContext(ctx, "persist trip recommendations failed", "user_id", userID, "trip_id", tripID, "error", err)
			writeError(ctx, w, err)
			return
		}
		out.Persisted = storedToDTO(stored)
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type recordInteractionRequest struct {
	Action string  `json:"action" validate:"required,oneof=viewed saved dismissed"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason" validate:"omitempty,max=500"`
}

func (h *Handler) RecordRecommendationInteraction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordRecommendationInteraction")
	defer span.End()

	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordInteractionRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tripID := r.PathValue("tripID")
	item, err := h.recommendationService.RecordInteraction(ctx, userID, tripID, usecase.RecordInteractionInput{
		MatchID: r.PathValue("matchID"),
		Action:  req.Action,
		Score:   req.Score,
		Reason:  req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record recommendation interaction failed", "user_id", userID, "trip_id", tripID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, interactionToDTO(item))
}

func (h *Handler) InvalidateTripRecommendationCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvalidateTripRecommendationCache")
	defer span.End()

	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	removed, err := h.recommendationService.InvalidateUserTripCache(ctx, userID, r.PathValue("tripID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, cacheInvalidationDTO{Removed: removed})
}

func (h *Handler) InvalidateMyRecommendationCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvalidateMyRecommendationCache")
	defer span.End()

	userID, err := requireUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	removed := h.recommendationService.InvalidateUserCache(ctx, userID)
	writeSuccess(ctx, w, http.StatusOK, cacheInvalidationDTO{Removed: removed})
}
