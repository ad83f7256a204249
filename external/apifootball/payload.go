package apifootball

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/trip-recommender/internal/usecase"
)

type fixturesResponse struct {
	Get      string        `json:"get"`
	Errors   any           `json:"errors"`
	Results  int           `json:"results"`
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID        int64  `json:"id"`
		Timezone  string `json:"timezone"`
		Date      string `json:"date"`
		Timestamp int64  `json:"timestamp"`
		Venue     struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long  string `json:"long"`
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Season  int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamItem `json:"home"`
		Away teamItem `json:"away"`
	} `json:"teams"`
}

type teamItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// providerError surfaces the errors field, which API-Football returns with a
// 200 status as either an empty list or a keyed object.
func (r fixturesResponse) providerError() error {
	var messages []string
	rateLimited := false
	switch v := r.Errors.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if strings.EqualFold(key, "rateLimit") || strings.EqualFold(key, "requests") {
				rateLimited = true
			}
			messages = append(messages, fmt.Sprintf("%s: %v", key, v[key]))
		}
	case []any:
		for _, item := range v {
			messages = append(messages, fmt.Sprint(item))
		}
	}
	if len(messages) == 0 {
		return nil
	}

	text := sanitizeSensitiveText(strings.Join(messages, "; "), "")
	if rateLimited {
		return fmt.Errorf("%w: %w: %s", usecase.ErrDependencyUnavailable, usecase.ErrRateLimited, text)
	}
	return fmt.Errorf("provider rejected request: %s", text)
}
