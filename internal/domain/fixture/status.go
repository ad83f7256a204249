package fixture

import (
	"strings"
	"time"
)

// Phase is the lifecycle position of a fixture relative to now.
type Phase string

const (
	PhaseUpcoming  Phase = "upcoming"
	PhaseLive      Phase = "live"
	PhaseCompleted Phase = "completed"
	PhaseCancelled Phase = "cancelled"
)

const (
	StatusNotStarted = "NS"
	StatusTBD        = "TBD"
)

// matchWindow bounds how long after kickoff an unknown status is still treated
// as possibly in progress.
const matchWindow = 3 * time.Hour

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case "LIVE", "IN_PLAY", "1H", "HT", "2H", "ET", "BT", "P", "INT", "SUSP":
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case "FINISHED", "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case "CANCELLED", "POSTPONED", "ABANDONED", "CANC", "ABD", "AWD", "WO", "PST":
		return true
	default:
		return false
	}
}

// Classify maps a provider status code and kickoff time to a phase.
func Classify(status string, kickoffAt, now time.Time) Phase {
	switch {
	case IsLiveStatus(status):
		return PhaseLive
	case IsFinishedStatus(status):
		return PhaseCompleted
	case IsCancelledLikeStatus(status):
		return PhaseCancelled
	}

	if kickoffAt.IsZero() {
		return PhaseUpcoming
	}
	if now.Sub(kickoffAt) > matchWindow {
		return PhaseCompleted
	}
	if !now.Before(kickoffAt) {
		return PhaseLive
	}
	return PhaseUpcoming
}

// IsActionable reports whether a user could still plan to attend the fixture.
func IsActionable(f Fixture, now time.Time) bool {
	return Classify(f.Status, f.KickoffAt, now) == PhaseUpcoming
}
