package team

import "context"

// Repository lists the teams known to the name normalizer.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
}
