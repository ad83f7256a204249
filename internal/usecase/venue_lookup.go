package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/domain/venue"
	"github.com/riskibarqy/trip-recommender/internal/platform/cache"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
	"github.com/riskibarqy/trip-recommender/internal/platform/logging"
	"github.com/riskibarqy/trip-recommender/internal/platform/resilience"
)

const (
	venueLookupCachePrefix  = "venue-coords:"
	defaultVenueNegativeTTL = 15 * time.Minute
)

// Geocoder resolves free-form venue descriptors to [lng, lat].
type Geocoder interface {
	Geocode(ctx context.Context, name, city, country string) ([2]float64, bool, error)
}

type VenueLookupConfig struct {
	NegativeTTL time.Duration
}

// VenueLookupService consults the stadium catalog first and falls back to the
// geocoder. Results, including misses, are memoized.
type VenueLookupService struct {
	venueRepo venue.Repository
	geocoder  Geocoder
	store     *cache.Store
	flight    resilience.SingleFlight
	cfg       VenueLookupConfig
	logger    *logging.Logger
}

type venueLookupEntry struct {
	point geo.Point
	found bool
}

func NewVenueLookupService(
	venueRepo venue.Repository,
	geocoder Geocoder,
	store *cache.Store,
	cfg VenueLookupConfig,
	logger *logging.Logger,
) *VenueLookupService {
	if cfg.NegativeTTL <= 0 {
		cfg.NegativeTTL = defaultVenueNegativeTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &VenueLookupService{
		venueRepo: venueRepo,
		geocoder:  geocoder,
		store:     store,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *VenueLookupService) GetVenueCoordinates(ctx context.Context, name, city, country string) ([2]float64, bool, error) {
	name = strings.TrimSpace(name)
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if name == "" {
		return [2]float64{}, false, fmt.Errorf("%w: venue name is required", ErrInvalidInput)
	}

	key := venueLookupCachePrefix + strings.ToLower(name+"|"+city+"|"+country)
	if s.store != nil {
		if cached, ok := s.store.Get(ctx, key); ok {
			if entry, ok := cached.(venueLookupEntry); ok {
				return entry.point.LngLat(), entry.found, nil
			}
		}
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		return s.resolve(ctx, name, city, country)
	})
	if err != nil {
		return [2]float64{}, false, err
	}

	entry := value.(venueLookupEntry)
	if s.store != nil {
		if entry.found {
			s.store.Set(ctx, key, entry)
		} else {
			s.store.SetWithTTL(ctx, key, entry, s.cfg.NegativeTTL)
		}
	}
	return entry.point.LngLat(), entry.found, nil
}

func (s *VenueLookupService) resolve(ctx context.Context, name, city, country string) (venueLookupEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueLookupService.resolve")
	defer span.End()

	if s.venueRepo != nil {
		item, exists, err := s.venueRepo.FindByName(ctx, name, city)
		if err != nil {
			s.logger.WarnContext(ctx, "venue catalog lookup failed", "venue", name, "city", city, "error", err)
		} else if exists && item.Coordinates.Valid() {
			return venueLookupEntry{point: item.Coordinates, found: true}, nil
		}
	}

	if s.geocoder == nil {
		return venueLookupEntry{}, nil
	}

	pair, found, err := s.geocoder.Geocode(ctx, name, city, country)
	if err != nil {
		return venueLookupEntry{}, fmt.Errorf("geocode venue %q: %w", name, err)
	}
	if !found {
		return venueLookupEntry{}, nil
	}
	point := geo.FromLngLat(pair)
	if !point.Valid() {
		return venueLookupEntry{}, nil
	}
	return venueLookupEntry{point: point, found: true}, nil
}
