package trip

import "testing"

func TestSavedMatch_Day(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"2026-01-03":                "2026-01-03",
		"2026-01-03T20:00:00Z":      "2026-01-03",
		"2026-01-03T23:30:00-02:00": "2026-01-04",
		"2026-01-03 18:45:00":       "2026-01-03",
		"not-a-date":                "",
		"":                          "",
	}
	for in, want := range cases {
		if got := (SavedMatch{Date: in}).Day(); got != want {
			t.Fatalf("Day(%q)=%q want=%q", in, got, want)
		}
	}
}
