package httpapi

import (
	"context"

	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// withUserID also tags every context-aware log line below the route with the
// caller.
func withUserID(ctx context.Context, userID string) context.Context {
	ctx = logging.ContextWith(ctx, "user_id", userID)
	return context.WithValue(ctx, userIDContextKey, userID)
}

func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}
