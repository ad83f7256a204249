package user

import "context"

// Repository is the read side of the user store plus the interaction log
// append used by the route layer.
type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	AppendInteraction(ctx context.Context, userID string, item Interaction) error
}
