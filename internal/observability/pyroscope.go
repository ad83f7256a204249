package observability

import (
	"fmt"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/trip-recommender/internal/config"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
)

// InitPyroscope starts continuous profiling when enabled.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              profileTags(cfg),
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
		"fixture_provider", fixtureProviderName(cfg),
	)

	return profiler.Stop, nil
}

// profileTags labels every profile with the backends that shape the
// recommendation hot path, so flame graphs can be split by deployment.
func profileTags(cfg config.Config) map[string]string {
	tags := map[string]string{
		"env":              cfg.AppEnv,
		"service":          cfg.ServiceName,
		"version":          cfg.ServiceVersion,
		"cache_backend":    cfg.RecommendationCacheBackend,
		"fixture_provider": fixtureProviderName(cfg),
		"geocoder":         "none",
		"storage":          "memory",
	}
	if cfg.NominatimEnabled {
		tags["geocoder"] = "nominatim"
	}
	if strings.TrimSpace(cfg.DBURL) != "" {
		tags["storage"] = "postgres"
	}
	return tags
}

func fixtureProviderName(cfg config.Config) string {
	if cfg.APIFootballEnabled {
		return "apifootball"
	}
	return "memory"
}
