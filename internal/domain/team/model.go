package team

import "fmt"

// Team is a club with the canonical name used across the product and the
// provider spellings that map onto it.
type Team struct {
	ID      string
	Name    string
	Aliases []string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
