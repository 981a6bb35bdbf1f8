package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"nearest-hub-service/internal/domain"
	"nearest-hub-service/internal/ports"
)

// Every resolution tier was tried and none produced a usable coordinate.
// Callers should treat this as "no suggestion available", not a fault.
var ErrLocationUnresolvable = errors.New("location unresolvable")

// Country-level centroid coordinates for the markets the trading desk
// works most. Final fallback tier: very coarse, tagged with a low
// confidence so downstream consumers can tell.
var countryCentroids = map[string]domain.Coordinate{
	"netherlands":    {Lat: 52.13, Lon: 5.29, Source: domain.SourceFallback, Confidence: 0.2},
	"germany":        {Lat: 51.17, Lon: 10.45, Source: domain.SourceFallback, Confidence: 0.2},
	"belgium":        {Lat: 50.64, Lon: 4.67, Source: domain.SourceFallback, Confidence: 0.2},
	"france":         {Lat: 46.60, Lon: 2.21, Source: domain.SourceFallback, Confidence: 0.2},
	"spain":          {Lat: 40.46, Lon: -3.75, Source: domain.SourceFallback, Confidence: 0.2},
	"italy":          {Lat: 42.50, Lon: 12.57, Source: domain.SourceFallback, Confidence: 0.2},
	"poland":         {Lat: 51.92, Lon: 19.15, Source: domain.SourceFallback, Confidence: 0.2},
	"united kingdom": {Lat: 54.00, Lon: -2.00, Source: domain.SourceFallback, Confidence: 0.2},
}

// LocationResolver resolves a city/country pair to a coordinate through an
// explicit ordered list of strategies, tried until one succeeds. The order
// is cheapest-first: cache, persisted store, live geocode, hub-name proxy,
// country centroid.
type LocationResolver struct {
	Cache    ports.GeocodeCache
	Repo     ports.HubRepository
	Geocoder ports.Geocoder
}

// resolveStrategy is one tagged tier of the fallback chain. found=false
// with a nil error means "this tier has nothing"; an error also just
// advances the chain (only total exhaustion is caller-visible).
type resolveStrategy struct {
	name string
	fn   func(ctx context.Context, loc domain.Location, hubs []domain.Hub) (domain.Coordinate, bool, error)
}

// Resolve runs the strategy chain for loc. hubs is the current active-hub
// list (used by the name-proxy tier). entityType/entityID, when non-empty,
// let a successful live geocode be persisted back to the entity store.
func (r *LocationResolver) Resolve(
	ctx context.Context,
	loc domain.Location,
	hubs []domain.Hub,
	entityType, entityID string,
) (domain.Coordinate, error) {
	if loc.IsZero() {
		return domain.Coordinate{}, fmt.Errorf("%w: city and country must be non-empty", ErrLocationUnresolvable)
	}

	strategies := []resolveStrategy{
		{name: "CacheLookup", fn: r.cacheLookup},
		{name: "PersistedLookup", fn: r.persistedLookup},
		{name: "LiveGeocode", fn: r.liveGeocode(entityType, entityID)},
		{name: "HubNameProxy", fn: r.hubNameProxy},
		{name: "CountryCentroid", fn: r.countryCentroid},
	}

	var lastErr error
	for _, s := range strategies {
		coord, found, err := s.fn(ctx, loc, hubs)
		if err != nil {
			// A failed tier only advances the chain; the error is kept
			// for the exhaustion message.
			lastErr = err
			log.Printf("resolve strategy=%s key=%s err=%v", s.name, loc.Key(), err)
			continue
		}
		if !found {
			continue
		}
		if !coord.Valid() {
			log.Printf("resolve strategy=%s key=%s discarded invalid coordinate", s.name, loc.Key())
			continue
		}
		return coord, nil
	}

	if lastErr != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %q, %q: last error: %v", ErrLocationUnresolvable, loc.City, loc.Country, lastErr)
	}
	return domain.Coordinate{}, fmt.Errorf("%w: %q, %q", ErrLocationUnresolvable, loc.City, loc.Country)
}

func (r *LocationResolver) cacheLookup(ctx context.Context, loc domain.Location, _ []domain.Hub) (domain.Coordinate, bool, error) {
	if r.Cache == nil {
		return domain.Coordinate{}, false, nil
	}
	return r.Cache.Get(ctx, loc.Key())
}

func (r *LocationResolver) persistedLookup(ctx context.Context, loc domain.Location, _ []domain.Hub) (domain.Coordinate, bool, error) {
	if r.Repo == nil {
		return domain.Coordinate{}, false, nil
	}
	return r.Repo.FindCityCoordinate(ctx, loc.City, loc.Country)
}

// liveGeocode wraps the geocoder tier with best-effort persistence of a
// successful result: the cache write keeps later lookups local, the store
// write survives the process.
func (r *LocationResolver) liveGeocode(entityType, entityID string) func(context.Context, domain.Location, []domain.Hub) (domain.Coordinate, bool, error) {
	return func(ctx context.Context, loc domain.Location, _ []domain.Hub) (domain.Coordinate, bool, error) {
		if r.Geocoder == nil {
			return domain.Coordinate{}, false, nil
		}

		coord, err := r.Geocoder.Geocode(ctx, loc.City, loc.Country)
		if err != nil {
			return domain.Coordinate{}, false, err
		}

		if r.Cache != nil {
			if err := r.Cache.Put(ctx, loc.Key(), coord); err != nil {
				log.Printf("geocode cache write failed key=%s: %v", loc.Key(), err)
			}
		}
		if r.Repo != nil && entityType != "" && entityID != "" {
			if err := r.Repo.UpdateEntityCoordinate(ctx, entityType, entityID, loc.City, loc.Country, coord); err != nil {
				log.Printf("entity coordinate write failed %s/%s: %v", entityType, entityID, err)
			}
		}

		return coord, true, nil
	}
}

// hubNameProxy borrows the coordinate of a hub whose name or city
// textually matches the entity's city. The match is a naive
// case-insensitive equality/substring check and ignores country, so a
// same-named hub elsewhere can win. Known limitation; it sits after live
// geocoding precisely because it is a last-resort proxy.
func (r *LocationResolver) hubNameProxy(_ context.Context, loc domain.Location, hubs []domain.Hub) (domain.Coordinate, bool, error) {
	city := strings.ToLower(strings.TrimSpace(loc.City))
	if city == "" {
		return domain.Coordinate{}, false, nil
	}

	for _, h := range hubs {
		if h.Coord == nil || !h.Coord.Valid() {
			continue
		}

		name := strings.ToLower(h.Name)
		hubCity := strings.ToLower(h.City)
		if hubCity == city || name == city || strings.Contains(name, city) {
			coord := *h.Coord
			coord.Source = domain.SourceFallback
			coord.Confidence = 0.5
			return coord, true, nil
		}
	}

	return domain.Coordinate{}, false, nil
}

func (r *LocationResolver) countryCentroid(_ context.Context, loc domain.Location, _ []domain.Hub) (domain.Coordinate, bool, error) {
	coord, ok := countryCentroids[strings.ToLower(strings.TrimSpace(loc.Country))]
	if !ok {
		return domain.Coordinate{}, false, nil
	}
	return coord, true, nil
}
