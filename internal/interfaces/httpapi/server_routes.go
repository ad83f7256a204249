package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics MetricsRecorder) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("GET /v1/users/me/leagues", RequireUser(http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("DELETE /v1/users/me/recommendations/cache", RequireUser(http.HandlerFunc(handler.InvalidateMyRecommendationCache)))

	mux.Handle("GET /v1/trips/{tripID}/recommendations", RequireUser(http.HandlerFunc(handler.GetTripRecommendations)))
	mux.Handle("POST /v1/trips/{tripID}/recommendations/{matchID}/interactions", RequireUser(http.HandlerFunc(handler.RecordRecommendationInteraction)))
	mux.Handle("DELETE /v1/trips/{tripID}/recommendations/cache", RequireUser(http.HandlerFunc(handler.InvalidateTripRecommendationCache)))
}
