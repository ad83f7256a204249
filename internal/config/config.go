package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	// DBURL empty selects the seeded in-memory repositories.
	DBURL                   string
	DBApplicationName       string
	DBTraceEnabled          bool
	DBBootstrapSeed         bool

	CacheEnabled       bool
	CacheTTL           time.Duration
	CacheCapacity      int
	CacheSweepInterval time.Duration

	RecommendationCacheBackend       string
	RecommendationCacheTTL           time.Duration
	RecommendationEmptyCacheTTL      time.Duration
	RecommendationDayWorkers         int
	RecommendationCatalogTimeout     time.Duration
	RecommendationCatalogConcurrency int
	RecommendationFreemiumLeagues    []string
	RecommendationVenueNegativeTTL   time.Duration

	APIFootballEnabled           bool
	APIFootballBaseURL           string
	APIFootballToken             string
	APIFootballTimeout           time.Duration
	APIFootballMaxRetries        int
	APIFootballRequestsPerSecond float64
	APIFootballSeason            int
	APIFootballCircuit           CircuitConfig

	NominatimEnabled           bool
	NominatimBaseURL           string
	NominatimUserAgent         string
	NominatimEmail             string
	NominatimTimeout           time.Duration
	NominatimRequestsPerSecond float64
	NominatimCircuit           CircuitConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

// CircuitConfig is the per-dependency breaker block loaded from
// <PREFIX>_CIRCUIT_* variables.
type CircuitConfig struct {
	Enabled         bool
	FailureCount    int
	OpenTimeout     time.Duration
	HalfOpenMaxReqs int
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "trip-recommender-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	p := &parser{}
	cfg.ReadTimeout = p.positiveDuration("APP_READ_TIMEOUT", "10s")
	cfg.WriteTimeout = p.positiveDuration("APP_WRITE_TIMEOUT", "30s")
	cfg.ShutdownTimeout = p.positiveDuration("APP_SHUTDOWN_TIMEOUT", "10s")

	cfg.DBApplicationName = strings.TrimSpace(getEnv("DB_APPLICATION_NAME", cfg.ServiceName))
	cfg.DBTraceEnabled = p.bool("DB_TRACE_ENABLED", "true")
	cfg.DBBootstrapSeed = p.bool("DB_BOOTSTRAP_SEED", strconv.FormatBool(appEnv == EnvDev))

	cfg.CacheEnabled = p.bool("CACHE_ENABLED", "true")
	cfg.CacheTTL = p.positiveDuration("CACHE_TTL", "60s")
	cfg.CacheCapacity = p.minInt("CACHE_CAPACITY", 10000, 1)
	cfg.CacheSweepInterval = p.positiveDuration("CACHE_SWEEP_INTERVAL", "5m")

	cfg.RecommendationCacheBackend = strings.ToLower(strings.TrimSpace(getEnv("RECOMMENDATION_CACHE_BACKEND", CacheBackendMemory)))
	cfg.RecommendationCacheTTL = p.positiveDuration("RECOMMENDATION_CACHE_TTL", "24h")
	cfg.RecommendationEmptyCacheTTL = p.positiveDuration("RECOMMENDATION_EMPTY_CACHE_TTL", "1h")
	cfg.RecommendationDayWorkers = p.minInt("RECOMMENDATION_DAY_WORKERS", 4, 1)
	cfg.RecommendationCatalogTimeout = p.positiveDuration("RECOMMENDATION_CATALOG_TIMEOUT", "10s")
	cfg.RecommendationCatalogConcurrency = p.minInt("RECOMMENDATION_CATALOG_CONCURRENCY", 8, 1)
	cfg.RecommendationFreemiumLeagues = splitCSV(getEnv("RECOMMENDATION_FREEMIUM_EXTRA_LEAGUES", ""))
	cfg.RecommendationVenueNegativeTTL = p.positiveDuration("RECOMMENDATION_VENUE_NEGATIVE_TTL", "15m")

	cfg.APIFootballEnabled = p.bool("APIFOOTBALL_ENABLED", "false")
	cfg.APIFootballBaseURL = strings.TrimSpace(getEnv("APIFOOTBALL_BASE_URL", "https://v3.football.api-sports.io"))
	cfg.APIFootballToken = strings.TrimSpace(getEnv("APIFOOTBALL_TOKEN", ""))
	cfg.APIFootballTimeout = p.positiveDuration("APIFOOTBALL_TIMEOUT", "10s")
	cfg.APIFootballMaxRetries = p.minInt("APIFOOTBALL_MAX_RETRIES", 2, 0)
	cfg.APIFootballRequestsPerSecond = p.float("APIFOOTBALL_REQUESTS_PER_SECOND", 5)
	cfg.APIFootballSeason = p.minInt("APIFOOTBALL_SEASON", 0, 0)
	cfg.APIFootballCircuit = p.circuit("APIFOOTBALL")

	cfg.NominatimEnabled = p.bool("NOMINATIM_ENABLED", "false")
	cfg.NominatimBaseURL = strings.TrimSpace(getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"))
	cfg.NominatimUserAgent = strings.TrimSpace(getEnv("NOMINATIM_USER_AGENT", cfg.ServiceName+"/"+cfg.ServiceVersion))
	cfg.NominatimEmail = strings.TrimSpace(getEnv("NOMINATIM_EMAIL", ""))
	cfg.NominatimTimeout = p.positiveDuration("NOMINATIM_TIMEOUT", "5s")
	cfg.NominatimRequestsPerSecond = p.float("NOMINATIM_REQUESTS_PER_SECOND", 1)
	cfg.NominatimCircuit = p.circuit("NOMINATIM")

	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = p.minInt("REDIS_DB", 0, 0)
	cfg.RedisPoolSize = p.minInt("REDIS_POOL_SIZE", 10, 1)

	cfg.UptraceEnabled = p.bool("UPTRACE_ENABLED", "false")
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	cfg.PyroscopeEnabled = p.bool("PYROSCOPE_ENABLED", "false")
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeUploadRate = p.positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")

	cfg.PprofEnabled = p.bool("PPROF_ENABLED", "false")
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.RecommendationCacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when RECOMMENDATION_CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("invalid RECOMMENDATION_CACHE_BACKEND %q: valid values are %s, %s", c.RecommendationCacheBackend, CacheBackendMemory, CacheBackendRedis)
	}
	if c.APIFootballEnabled && c.APIFootballToken == "" {
		return fmt.Errorf("APIFOOTBALL_TOKEN is required when APIFOOTBALL_ENABLED=true")
	}
	if c.NominatimEnabled && c.NominatimUserAgent == "" {
		return fmt.Errorf("NOMINATIM_USER_AGENT is required when NOMINATIM_ENABLED=true")
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if c.PyroscopeEnabled {
		if c.PyroscopeServerAddress == "" {
			return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		}
		if c.PyroscopeAppName == "" {
			return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
		}
	}
	if c.PprofEnabled && c.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	return nil
}

// parser keeps the first error so Load reads every variable in one pass.
type parser struct {
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) bool(key, fallback string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return false
	}
	return value
}

func (p *parser) positiveDuration(key, fallback string) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if value <= 0 {
		p.fail(fmt.Errorf("%s must be > 0", key))
	}
	return value
}

func (p *parser) minInt(key string, fallback, minimum int) int {
	value, err := getEnvAsInt(key, fallback)
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return fallback
	}
	if value < minimum {
		p.fail(fmt.Errorf("%s must be >= %d", key, minimum))
	}
	return value
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return fallback
	}
	if value < 0 {
		p.fail(fmt.Errorf("%s must be >= 0", key))
	}
	return value
}

func (p *parser) circuit(prefix string) CircuitConfig {
	return CircuitConfig{
		Enabled:         p.bool(prefix+"_CIRCUIT_ENABLED", "true"),
		FailureCount:    p.minInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5, 1),
		OpenTimeout:     p.positiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"),
		HalfOpenMaxReqs: p.minInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1),
	}
}


func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
