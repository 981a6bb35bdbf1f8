package geocode

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"nearest-hub-service/internal/domain"
)

// MockGeocoder is a test double keyed on "city|country". It counts calls
// so tests can assert that caching layers actually short-circuit lookups.
type MockGeocoder struct {
	mu    sync.Mutex
	m     map[string]domain.Coordinate
	err   error
	calls int
}

func NewMockGeocoder(coords map[string]domain.Coordinate) *MockGeocoder {
	return &MockGeocoder{m: coords}
}

// NewFailingGeocoder returns a mock whose every call fails with err.
func NewFailingGeocoder(err error) *MockGeocoder {
	return &MockGeocoder{err: err}
}

func (g *MockGeocoder) Geocode(ctx context.Context, city, country string) (domain.Coordinate, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.err != nil {
		return domain.Coordinate{}, g.err
	}

	key := strings.ToLower(city) + "|" + strings.ToLower(country)
	c, ok := g.m[key]
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("missing mock coordinate for %q", key)
	}
	return c, nil
}

// Calls reports how many times Geocode was invoked.
func (g *MockGeocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
