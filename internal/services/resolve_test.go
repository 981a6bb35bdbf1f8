package services

import (
	"context"
	"errors"
	"testing"

	"nearest-hub-service/internal/adapters/geocode"
	"nearest-hub-service/internal/domain"
	"nearest-hub-service/internal/ports"
)

type fakeGeocodeCache struct {
	m    map[string]domain.Coordinate
	puts int
}

func (f *fakeGeocodeCache) Get(ctx context.Context, key string) (domain.Coordinate, bool, error) {
	c, ok := f.m[key]
	return c, ok, nil
}

func (f *fakeGeocodeCache) Put(ctx context.Context, key string, coord domain.Coordinate) error {
	if f.m == nil {
		f.m = map[string]domain.Coordinate{}
	}
	f.m[key] = coord
	f.puts++
	return nil
}

func TestResolveCacheWins(t *testing.T) {
	cached := domain.Coordinate{Lat: 51.37, Lon: 6.17, Source: domain.SourceCached, Confidence: 1}
	spy := geocode.NewMockGeocoder(nil)
	r := &LocationResolver{
		Cache:    &fakeGeocodeCache{m: map[string]domain.Coordinate{"venlo|netherlands": cached}},
		Geocoder: spy,
	}

	coord, err := r.Resolve(context.Background(), domain.Location{City: "Venlo", Country: "Netherlands"}, nil, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Lat != cached.Lat || coord.Lon != cached.Lon {
		t.Errorf("coord = %+v, want cached value", coord)
	}
	if spy.Calls() != 0 {
		t.Errorf("geocoder called %d times on a cache hit", spy.Calls())
	}
}

func TestResolvePersistedBeforeGeocode(t *testing.T) {
	persisted := domain.Coordinate{Lat: 52.0, Lon: 5.0, Source: domain.SourcePersisted, Confidence: 1}
	spy := geocode.NewMockGeocoder(nil)
	r := &LocationResolver{
		Repo:     &fakeHubRepo{cityCoord: &persisted},
		Geocoder: spy,
	}

	coord, err := r.Resolve(context.Background(), domain.Location{City: "Utrecht", Country: "Netherlands"}, nil, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Source != domain.SourcePersisted {
		t.Errorf("source = %s, want persisted", coord.Source)
	}
	if spy.Calls() != 0 {
		t.Errorf("geocoder called %d times when a persisted coordinate exists", spy.Calls())
	}
}

func TestResolveGeocodePersistsResult(t *testing.T) {
	geocoded := domain.Coordinate{Lat: 41.39, Lon: 2.17, Source: domain.SourceGeocoded, Confidence: 0.9}
	spy := geocode.NewMockGeocoder(map[string]domain.Coordinate{"barcelona|spain": geocoded})
	cache := &fakeGeocodeCache{}
	repo := &fakeHubRepo{}
	r := &LocationResolver{Cache: cache, Repo: repo, Geocoder: spy}

	coord, err := r.Resolve(context.Background(), domain.Location{City: "Barcelona", Country: "Spain"}, nil, "supplier", "s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Source != domain.SourceGeocoded {
		t.Errorf("source = %s, want geocoded", coord.Source)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}

	// The entity-store write must carry the resolved location, so a later
	// FindCityCoordinate for the same city serves it without geocoding.
	if repo.savedCity != "Barcelona" || repo.savedCountry != "Spain" {
		t.Errorf("stored location = %q/%q, want Barcelona/Spain", repo.savedCity, repo.savedCountry)
	}
	if repo.savedCoord == nil || repo.savedCoord.Lat != geocoded.Lat || repo.savedCoord.Lon != geocoded.Lon {
		t.Errorf("stored coord = %+v, want the geocoded coordinate", repo.savedCoord)
	}
}

func TestResolveHubNameProxyAfterGeocodeFailure(t *testing.T) {
	failing := geocode.NewFailingGeocoder(ports.ErrLocationNotFound)
	r := &LocationResolver{Geocoder: failing}

	hubCoord := domain.Coordinate{Lat: 51.92, Lon: 4.48, Source: domain.SourcePersisted, Confidence: 1}
	hubs := []domain.Hub{{
		ID: "rtm", Name: "Rotterdam Fresh Hub", City: "Rotterdam", Country: "Netherlands",
		Active: true, Coord: &hubCoord,
	}}

	// Country-blind by design: the proxy matches on name/city text only.
	coord, err := r.Resolve(context.Background(), domain.Location{City: "Rotterdam", Country: "Atlantis"}, hubs, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Lat != hubCoord.Lat || coord.Lon != hubCoord.Lon {
		t.Errorf("coord = %+v, want hub coordinate", coord)
	}
	if coord.Source != domain.SourceFallback {
		t.Errorf("source = %s, want fallback", coord.Source)
	}
}

func TestResolveCountryCentroidLastResort(t *testing.T) {
	failing := geocode.NewFailingGeocoder(ports.ErrGeocoding)
	r := &LocationResolver{Geocoder: failing}

	coord, err := r.Resolve(context.Background(), domain.Location{City: "Nowhere", Country: "Spain"}, nil, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Source != domain.SourceFallback {
		t.Errorf("source = %s, want fallback", coord.Source)
	}
	if coord.Lat != 40.46 {
		t.Errorf("lat = %f, want the Spain centroid", coord.Lat)
	}
}

func TestResolveExhaustion(t *testing.T) {
	failing := geocode.NewFailingGeocoder(ports.ErrGeocoding)
	r := &LocationResolver{Geocoder: failing}

	_, err := r.Resolve(context.Background(), domain.Location{City: "Nowhere", Country: "Atlantis"}, nil, "", "")
	if !errors.Is(err, ErrLocationUnresolvable) {
		t.Fatalf("err = %v, want ErrLocationUnresolvable", err)
	}
}

func TestResolveDiscardsInvalidCoordinate(t *testing.T) {
	// A tier returning an out-of-range coordinate is skipped, not trusted.
	bad := domain.Coordinate{Lat: 95, Lon: 0, Source: domain.SourceCached, Confidence: 1}
	r := &LocationResolver{
		Cache: &fakeGeocodeCache{m: map[string]domain.Coordinate{"nowhere|spain": bad}},
	}

	coord, err := r.Resolve(context.Background(), domain.Location{City: "Nowhere", Country: "Spain"}, nil, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Lat != 40.46 {
		t.Errorf("lat = %f, want the Spain centroid after discarding the invalid entry", coord.Lat)
	}
}

func TestResolveEmptyLocation(t *testing.T) {
	r := &LocationResolver{}
	_, err := r.Resolve(context.Background(), domain.Location{City: " ", Country: ""}, nil, "", "")
	if !errors.Is(err, ErrLocationUnresolvable) {
		t.Fatalf("err = %v, want ErrLocationUnresolvable", err)
	}
}
