package nominatim

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
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
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "trip-recommender/1.0"
	maxResponseSize  = 1 << 20
)

var errNominatimTransient = crerr.New("nominatim transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	// Email is sent with each request as the usage policy asks.
	Email   string
	Timeout time.Duration
	// RequestsPerSecond defaults to the public instance limit of 1.
	RequestsPerSecond float64
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

// Client geocodes venues against a Nominatim search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	email      string
	limiter    *rate.Limiter
	logger     *logging.Logger
	guard      *resilience.Guard
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
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
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		email:      strings.TrimSpace(cfg.Email),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
		guard:      resilience.NewGuard(cfg.CircuitBreaker, isTransient),
	}
}

// Geocode resolves a venue to [lng, lat]. A search with no hits reports
// found=false and no error.
func (c *Client) Geocode(ctx context.Context, name, city, country string) ([2]float64, bool, error) {
	parts := make([]string, 0, 3)
	for _, part := range []string{name, city, country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if strings.TrimSpace(name) == "" {
		return [2]float64{}, false, fmt.Errorf("%w: venue name is required", usecase.ErrInvalidInput)
	}

	if err := c.guard.Allow(); err != nil {
		c.logger.WarnContext(ctx, "nominatim circuit breaker rejected request", "state", c.guard.State())
		return [2]float64{}, false, fmt.Errorf("%w: geocoder is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	results, err := c.search(ctx, strings.Join(parts, ", "))
	c.guard.Record(err)
	if err != nil {
		if isTransient(err) {
			return [2]float64{}, false, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return [2]float64{}, false, err
	}

	for _, item := range results {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(item.Lat), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(item.Lon), 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			continue
		}
		return [2]float64{lng, lat}, true, nil
	}
	return [2]float64{}, false, nil
}

func (c *Client) search(ctx context.Context, query string) ([]searchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "jsonv2")
	values.Set("limit", "1")
	if c.email != "" {
		values.Set("email", c.email)
	}
	fullURL := c.baseURL + "/search?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %v", errNominatimTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errNominatimTransient, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: geocoder status=%d", errNominatimTransient, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoder status=%d", resp.StatusCode)
	}

	var results []searchResult
	if err := sonic.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decode geocoder payload: %w", err)
	}
	c.logger.DebugContext(ctx, "nominatim search completed", "query", query, "hits", len(results))
	return results, nil
}

func isTransient(err error) bool {
	return err != nil && stderrors.Is(err, errNominatimTransient)
}
