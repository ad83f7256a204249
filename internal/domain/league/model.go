package league

import "fmt"

// Tier ranks leagues by typical match quality for recommendation scoring.
type Tier int

const (
	TierOther Tier = 0
	TierOne   Tier = 1
	TierTwo   Tier = 2
)

// League is a competition the fixture catalog can be queried for.
type League struct {
	ID          string
	Name        string
	CountryCode string
	Tier        Tier
	// TopFive leagues stay searchable on every subscription tier.
	TopFive bool
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Tier < TierOther || l.Tier > TierTwo {
		return fmt.Errorf("league tier %d is out of range", l.Tier)
	}

	return nil
}
