package ports

import (
	"context"

	"nearest-hub-service/internal/domain"
)

// Port: a boundary for reading hub records and entity coordinates from
// a data source, and for persisting freshly geocoded coordinates.
type HubRepository interface {
	// ListActiveHubs returns all active hubs that carry a coordinate.
	ListActiveHubs(ctx context.Context) ([]domain.Hub, error)

	// FindCityCoordinate returns a previously persisted coordinate for
	// any entity sharing the given city/country, if one exists.
	FindCityCoordinate(ctx context.Context, city, country string) (domain.Coordinate, bool, error)

	// UpdateEntityCoordinate stores a resolved coordinate against an
	// entity row, keyed by the city/country it was resolved for, so
	// later FindCityCoordinate lookups for the same city can skip
	// geocoding.
	UpdateEntityCoordinate(ctx context.Context, entityType, entityID, city, country string, coord domain.Coordinate) error
}
