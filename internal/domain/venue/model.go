package venue

import (
	"fmt"

	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
)

// Venue is a stadium with known coordinates.
type Venue struct {
	ID          string
	Name        string
	City        string
	Country     string
	Coordinates geo.Point
}

func (v Venue) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("venue name is required")
	}
	if !v.Coordinates.Valid() {
		return fmt.Errorf("venue %q has invalid coordinates", v.Name)
	}
	return nil
}
