package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"nearest-hub-service/internal/domain"
)

// Geocode results stay valid for a day: city coordinates do not move, but
// a bounded TTL lets corrected provider data win eventually.
const GeocodeTTL = 24 * time.Hour

type memoryEntry struct {
	coord    domain.Coordinate
	storedAt time.Time
}

// MemoryGeocodeCache is an in-process TTL cache mapping location keys to
// coordinates. Expired entries are not deleted; they are simply reported
// as misses and superseded by the next Put. Last write wins on key
// collision. Safe for concurrent use.
type MemoryGeocodeCache struct {
	mu  sync.RWMutex
	m   map[string]memoryEntry
	ttl time.Duration
	now func() time.Time
}

func NewMemoryGeocodeCache(ttl time.Duration) *MemoryGeocodeCache {
	if ttl <= 0 {
		ttl = GeocodeTTL
	}
	return &MemoryGeocodeCache{
		m:   make(map[string]memoryEntry),
		ttl: ttl,
		now: time.Now,
	}
}

// Fetch the cached coordinate for a location key.
func (c *MemoryGeocodeCache) Get(ctx context.Context, key string) (domain.Coordinate, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Coordinate{}, false, errors.New("geocode cache: empty key")
	}

	c.mu.RLock()
	entry, ok := c.m[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) > c.ttl {
		return domain.Coordinate{}, false, nil
	}

	coord := entry.coord
	coord.Source = domain.SourceCached
	return coord, true, nil
}

// Store a coordinate under a location key, replacing any previous entry.
func (c *MemoryGeocodeCache) Put(ctx context.Context, key string, coord domain.Coordinate) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("geocode cache: empty key")
	}
	if !coord.Valid() {
		return errors.New("geocode cache: refusing to store invalid coordinate")
	}

	c.mu.Lock()
	c.m[key] = memoryEntry{coord: coord, storedAt: c.now()}
	c.mu.Unlock()
	return nil
}
