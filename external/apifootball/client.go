package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
	"github.com/riskibarqy/trip-recommender/internal/platform/resilience"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://v3.football.api-sports.io"
	apiKeyHeader    = "x-apisports-key"
	maxResponseSize = 6 << 20
	// Seasons are named by their starting year and roll over in July.
	seasonRolloverMonth = time.July
)

var apiKeyRegex = regexp.MustCompile(`(?i)(x-apisports-key|key)[=:]\s*[^&\s"']+`)
var errAPIFootballTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	// RetryBackoff is the base delay; attempt n waits n*RetryBackoff.
	RetryBackoff time.Duration
	// RequestsPerSecond <= 0 disables client-side throttling.
	RequestsPerSecond float64
	Burst             int
	// Season overrides the date-derived season when set.
	Season         int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client lists fixtures from API-Football v3.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	maxRetries   int
	retryBackoff time.Duration
	season       int
	limiter      *rate.Limiter
	logger       *logging.Logger
	guard        *resilience.Guard
	flight       resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		token:        strings.TrimSpace(cfg.Token),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		season:       cfg.Season,
		limiter:      limiter,
		logger:       logger,
		guard:        resilience.NewGuard(cfg.CircuitBreaker, isTransient),
	}
}

// ListFixtures returns the fixtures of one league on one UTC calendar day.
func (c *Client) ListFixtures(ctx context.Context, leagueID, date string) ([]usecase.ExternalFixture, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid fixture date %q", usecase.ErrInvalidInput, date)
	}

	season := c.season
	if season <= 0 {
		season = SeasonFor(day)
	}

	var payload fixturesResponse
	query := map[string]string{
		"league": leagueID,
		"season": strconv.Itoa(season),
		"date":   day.Format(time.DateOnly),
	}
	if err := c.doJSON(ctx, "/fixtures", query, &payload); err != nil {
		return nil, crerr.Wrapf(err, "list fixtures league=%s date=%s", leagueID, query["date"])
	}
	if err := payload.providerError(); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalFixture, 0, len(payload.Response))
	for _, item := range payload.Response {
		out = append(out, mapFixture(item))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SeasonFor derives the season start year for a match day.
func SeasonFor(day time.Time) int {
	day = day.UTC()
	if day.Month() < seasonRolloverMonth {
		return day.Year() - 1
	}
	return day.Year()
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if err := c.guard.Allow(); err != nil {
		c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.guard.State())
		return fmt.Errorf("%w: fixture provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.DoContext(ctx, fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		c.guard.Record(reqErr)
		return raw, reqErr
	})
	if err != nil {
		if isTransient(err) {
			return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errAPIFootballTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw, c.token))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw, c.token))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func mapFixture(item fixtureItem) usecase.ExternalFixture {
	out := usecase.ExternalFixture{
		ID:            formatID(item.Fixture.ID),
		KickoffAt:     parseKickoff(item.Fixture.Date, item.Fixture.Timestamp),
		Status:        strings.ToUpper(strings.TrimSpace(item.Fixture.Status.Short)),
		VenueID:       formatID(item.Fixture.Venue.ID),
		VenueName:     strings.TrimSpace(item.Fixture.Venue.Name),
		VenueCity:     strings.TrimSpace(item.Fixture.Venue.City),
		VenueCountry:  strings.TrimSpace(item.League.Country),
		LeagueID:      formatID(item.League.ID),
		LeagueName:    strings.TrimSpace(item.League.Name),
		LeagueCountry: strings.TrimSpace(item.League.Country),
		Season:        item.League.Season,
		HomeTeam: usecase.ExternalTeam{
			ID:   formatID(item.Teams.Home.ID),
			Name: strings.TrimSpace(item.Teams.Home.Name),
			Logo: strings.TrimSpace(item.Teams.Home.Logo),
		},
		AwayTeam: usecase.ExternalTeam{
			ID:   formatID(item.Teams.Away.ID),
			Name: strings.TrimSpace(item.Teams.Away.Name),
			Logo: strings.TrimSpace(item.Teams.Away.Logo),
		},
	}
	return out
}

func parseKickoff(raw string, timestamp int64) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts.UTC()
		}
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	return time.Time{}
}

func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errAPIFootballTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiKeyRegex.ReplaceAllString(value, "$1=REDACTED")
}

func abbreviateBody(body []byte, token string) string {
	text := sanitizeSensitiveText(string(body), token)
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
