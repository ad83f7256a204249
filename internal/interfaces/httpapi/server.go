package httpapi

import (
	"net/http"

	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
)

// MetricsRecorder observes requests and serves the scrape endpoint.
type MetricsRecorder interface {
	HTTPMetrics
	Handler() http.Handler
}

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	metrics MetricsRecorder,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metrics)
	registerPublicDomainRoutes(mux, handler)
	registerUserRoutes(mux, handler)

	var routes http.Handler = mux
	if metrics != nil {
		routes = InstrumentRoutes(metrics, mux)
	}

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, routes))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
