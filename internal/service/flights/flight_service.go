package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/domain"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kvstore"
)

// SearchUseCase resolves candidate flights for a route and date. The
// offer list is never empty: when nothing live is available a demo offer
// is synthesized. The second result reports that fallback.
type SearchUseCase interface {
	Search(ctx context.Context, origin, destination, departureDate string) ([]domain.FlightOffer, bool)
}

// OffersAPI is the live flight-offers collaborator.
type OffersAPI interface {
	SearchOffers(ctx context.Context, origin, destination, departureDate string) ([]domain.FlightOffer, error)
}

const cacheKeyPrefix = "flight-cache:"

const (
	demoPrice    = 150
	demoCapacity = 12
)

// demoAirlines maps routes to a plausible carrier for synthesized offers.
var demoAirlines = map[string]struct {
	Code string
	Name string
	Logo string
}{
	"OSL-FRA": {"LH", "Lufthansa", "🇩🇪"},
	"FRA-OSL": {"LH", "Lufthansa", "🇩🇪"},
	"LHR-JFK": {"BA", "British Airways", "🇬🇧"},
	"JFK-LHR": {"BA", "British Airways", "🇬🇧"},
	"LAX-NRT": {"UA", "United Airlines", "🇺🇸"},
}

var demoAirlineDefault = struct {
	Code string
	Name string
	Logo string
}{"AA", "American Airlines", "🇺🇸"}

type FlightService struct {
	api      OffersAPI // nil when no credentials are configured
	store    kvstore.Store
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewFlightService(api OffersAPI, store kvstore.Store, cacheTTL time.Duration, logger *zap.Logger) *FlightService {
	return &FlightService{
		api:      api,
		store:    store,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Search tries the cache, then the live API, then synthesizes a demo
// offer. Every upstream failure is demoted to the fallback path; the
// caller always gets at least one offer.
func (s *FlightService) Search(ctx context.Context, origin, destination, departureDate string) ([]domain.FlightOffer, bool) {
	if cached := s.fromCache(ctx, origin, destination, departureDate); len(cached) > 0 {
		return cached, false
	}

	if s.api != nil {
		offers, err := s.api.SearchOffers(ctx, origin, destination, departureDate)
		if err != nil {
			s.logger.Warn("live flight search failed, falling back to demo offer",
				zap.String("origin", origin), zap.String("destination", destination), zap.Error(err))
		} else if len(offers) > 0 {
			s.cacheOffers(ctx, origin, destination, departureDate, offers)
			return offers, false
		}
	}

	return []domain.FlightOffer{s.synthesize(origin, destination, departureDate)}, true
}

func (s *FlightService) fromCache(ctx context.Context, origin, destination, departureDate string) []domain.FlightOffer {
	raw, err := s.store.Get(ctx, cacheKey(origin, destination, departureDate))
	if err != nil {
		if err != kvstore.ErrNotFound {
			s.logger.Warn("flight cache read failed", zap.Error(err))
		}
		return nil
	}

	var entry domain.OfferCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil
	}
	// A read past the entry's expiry is a miss, regardless of how the
	// entry survived in the store.
	if entry.Expired(s.now()) {
		return nil
	}
	return entry.Flights
}

func (s *FlightService) cacheOffers(ctx context.Context, origin, destination, departureDate string, offers []domain.FlightOffer) {
	now := s.now()
	entry := domain.OfferCacheEntry{
		Flights:   offers,
		CachedAt:  now,
		ExpiresAt: now.Add(s.cacheTTL),
	}
	if err := s.store.Set(ctx, cacheKey(origin, destination, departureDate), entry); err != nil {
		s.logger.Warn("flight cache write failed", zap.Error(err))
	}
}

func (s *FlightService) synthesize(origin, destination, departureDate string) domain.FlightOffer {
	airline, ok := demoAirlines[origin+"-"+destination]
	if !ok {
		airline = demoAirlineDefault
	}

	date, err := time.Parse("2006-01-02", departureDate)
	if err != nil {
		date = s.now()
	}
	departure := time.Date(date.Year(), date.Month(), date.Day(), 10, 30, 0, 0, time.UTC)
	arrival := departure.Add(2*time.Hour + 30*time.Minute)

	return domain.FlightOffer{
		ID:                fmt.Sprintf("demo-%d", s.now().UnixMilli()),
		Source:            domain.OfferSourceDemo,
		Airline:           airline.Code,
		AirlineName:       airline.Name,
		FlightNumber:      fmt.Sprintf("%s%d", airline.Code, rand.Intn(900)+100),
		Origin:            origin,
		Destination:       destination,
		Departure:         departure,
		Arrival:           arrival,
		Price:             demoPrice,
		AvailableCapacity: demoCapacity,
		Logo:              airline.Logo,
	}
}

// PurgeExpired removes stale cache entries from the store. The read path
// already ignores them; this keeps the table from accumulating garbage.
func (s *FlightService) PurgeExpired(ctx context.Context) (int, error) {
	entries, err := s.store.GetByPrefix(ctx, cacheKeyPrefix)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, e := range entries {
		var entry domain.OfferCacheEntry
		if err := json.Unmarshal(e.Value, &entry); err == nil && !entry.Expired(s.now()) {
			continue
		}
		if err := s.store.Delete(ctx, e.Key); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

func cacheKey(origin, destination, departureDate string) string {
	return fmt.Sprintf("%s%s-%s-%s", cacheKeyPrefix, origin, destination, departureDate)
}

var _ SearchUseCase = (*FlightService)(nil)
