package team

import (
	"sync"
	"testing"
)

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	n := NewNormalizer([]Team{
		{ID: "85", Name: "Paris Saint-Germain", Aliases: []string{"Paris Saint Germain", "PSG"}},
		{ID: "529", Name: "Barcelona", Aliases: []string{"FC Barcelona"}},
		{ID: "81", Name: "Marseille", Aliases: []string{"Olympique de Marseille"}},
	})

	cases := map[string]string{
		"Paris Saint Germain":    "Paris Saint-Germain",
		"  psg ":                 "Paris Saint-Germain",
		"FC  Barcelona":          "Barcelona",
		"Olympique de Marséille": "Marseille",
		"Lens":                   "Lens",
		"":                       "",
	}
	for input, want := range cases {
		if got := n.Normalize(input); got != want {
			t.Fatalf("Normalize(%q)=%q want=%q", input, got, want)
		}
	}
}

func TestNormalizer_NilIsPassthrough(t *testing.T) {
	t.Parallel()

	var n *Normalizer
	if got := n.Normalize(" Lyon "); got != "Lyon" {
		t.Fatalf("unexpected passthrough value: %q", got)
	}
}

func TestNormalizer_ConcurrentUse(t *testing.T) {
	t.Parallel()

	n := NewNormalizer([]Team{
		{ID: "81", Name: "Marseille", Aliases: []string{"Olympique de Marseille"}},
		{ID: "79", Name: "Lille", Aliases: []string{"LOSC Lillé"}},
	})

	inputs := map[string]string{
		"Olympique de Marséille": "Marseille",
		"losc lille":             "Lille",
		"Stade Rennais":          "Stade Rennais",
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16*len(inputs))
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				for input, want := range inputs {
					if got := n.Normalize(input); got != want {
						errs <- input + " -> " + got
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Fatalf("concurrent normalize mismatch: %s", msg)
	}
}
