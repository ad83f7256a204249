package team

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps provider team names to canonical names. Lookups that miss
// return the input unchanged.
type Normalizer struct {
	canonical map[string]string
}

func NewNormalizer(teams []Team) *Normalizer {
	canonical := make(map[string]string, len(teams)*3)
	for _, item := range teams {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		canonical[foldKey(name)] = name
		for _, alias := range item.Aliases {
			if key := foldKey(alias); key != "" {
				canonical[key] = name
			}
		}
	}
	return &Normalizer{canonical: canonical}
}

func (n *Normalizer) Normalize(apiName string) string {
	trimmed := strings.TrimSpace(apiName)
	if n == nil || trimmed == "" {
		return trimmed
	}
	if name, ok := n.canonical[foldKey(trimmed)]; ok {
		return name
	}
	return trimmed
}

// A chained transformer buffers between stages, so each caller takes its own.
var accentStrippers = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

func stripAccents(value string) (string, error) {
	t := accentStrippers.Get().(transform.Transformer)
	defer accentStrippers.Put(t)
	out, _, err := transform.String(t, value)
	return out, err
}

func foldKey(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if stripped, err := stripAccents(value); err == nil {
		value = stripped
	}
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
