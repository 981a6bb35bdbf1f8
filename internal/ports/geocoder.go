package ports

import (
	"context"
	"errors"

	"nearest-hub-service/internal/domain"
)

// Geocoder failure taxonomy. Callers distinguish these with errors.Is:
// a rate-limit signal means back off, a not-found means the next fallback
// tier should be tried, anything else is a provider/transport fault.
var (
	// The provider returned zero results for the query.
	ErrLocationNotFound = errors.New("location not found")
	// The provider signalled HTTP 429; retrying immediately will fail again.
	ErrRateLimited = errors.New("geocoding rate limited")
	// Non-2xx response, malformed body, or out-of-range coordinates.
	ErrGeocoding = errors.New("geocoding failed")
)

// Contract for resolving a city/country pair to a coordinate via an
// external lookup service.
type Geocoder interface {
	// Geocode resolves city and country to a coordinate with
	// Source=geocoded and a provider confidence in [0,1].
	Geocode(ctx context.Context, city, country string) (domain.Coordinate, error)
}
