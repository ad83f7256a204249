package usecase

import (
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/recommendation"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
)

const day = 24 * time.Hour

// DateWindow is an inclusive range of UTC calendar days.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

func (w DateWindow) Contains(date time.Time) bool {
	d := truncateDay(date)
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w DateWindow) ContainsDay(date string) bool {
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return false
	}
	return w.Contains(parsed)
}

func (w DateWindow) Range() recommendation.DateRange {
	return recommendation.DateRange{
		Start: w.Start.Format(time.DateOnly),
		End:   w.End.Format(time.DateOnly),
	}
}

// Days lists every day in the window as YYYY-MM-DD.
func (w DateWindow) Days() []string {
	if w.End.Before(w.Start) {
		return nil
	}
	out := make([]string, 0, int(w.End.Sub(w.Start)/day)+1)
	for d := w.Start; !d.After(w.End); d = d.Add(day) {
		out = append(out, d.Format(time.DateOnly))
	}
	return out
}

// ResolveDateRange prefers the explicit trip dates and falls back to the
// span of saved match dates. The window is widened to cover every saved match.
// ok is false when no valid date can be derived.
func ResolveDateRange(t trip.Trip) (DateWindow, bool) {
	var (
		window DateWindow
		found  bool
	)

	start, startOK := trip.ParseDate(t.StartDate)
	end, endOK := trip.ParseDate(t.EndDate)
	if startOK && endOK && !truncateDay(start).After(truncateDay(end)) {
		window = DateWindow{Start: truncateDay(start), End: truncateDay(end)}
		found = true
	}

	for _, item := range t.Matches {
		kickoff, ok := item.Kickoff()
		if !ok {
			continue
		}
		d := truncateDay(kickoff)
		if !found {
			window = DateWindow{Start: d, End: d}
			found = true
			continue
		}
		if d.Before(window.Start) {
			window.Start = d
		}
		if d.After(window.End) {
			window.End = d
		}
	}

	return window, found
}

// DaysWithoutMatches walks the window in order and returns the days that have
// no saved match.
func DaysWithoutMatches(t trip.Trip, window DateWindow) []string {
	taken := make(map[string]struct{}, len(t.Matches))
	for _, item := range t.Matches {
		if d := item.Day(); d != "" {
			taken[d] = struct{}{}
		}
	}

	out := make([]string, 0)
	for _, d := range window.Days() {
		if _, ok := taken[d]; ok {
			continue
		}
		out = append(out, d)
	}
	return out
}

func truncateDay(value time.Time) time.Time {
	u := value.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// shiftDay returns the YYYY-MM-DD day offset days away from date.
func shiftDay(date string, offset int) (string, bool) {
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", false
	}
	return parsed.AddDate(0, 0, offset).Format(time.DateOnly), true
}

// dayDistance is the absolute number of calendar days between a and b.
func dayDistance(a, b time.Time) int {
	diff := int(truncateDay(a).Sub(truncateDay(b)) / day)
	if diff < 0 {
		return -diff
	}
	return diff
}
