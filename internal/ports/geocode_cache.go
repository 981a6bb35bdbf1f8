package ports

import (
	"context"

	"nearest-hub-service/internal/domain"
)

// A TTL cache mapping location keys (see domain.Location.Key) to coordinates.
// Entries are superseded on expiry, never explicitly deleted.
type GeocodeCache interface {
	// Get returns the cached coordinate for key, and whether a live
	// (non-expired) entry was found.
	Get(ctx context.Context, key string) (domain.Coordinate, bool, error)
	// Put stores a coordinate under key, replacing any previous entry.
	Put(ctx context.Context, key string, coord domain.Coordinate) error
}
