package domain

import "math"

// CoordinateSource records how a coordinate was obtained, so consumers
// can weigh cached/persisted values against fresh geocodes and fallbacks.
type CoordinateSource string

const (
	SourceCached    CoordinateSource = "cached"
	SourcePersisted CoordinateSource = "persisted"
	SourceGeocoded  CoordinateSource = "geocoded"
	SourceFallback  CoordinateSource = "fallback"
)

// Geographic coordinate (latitude, longitude) with provenance metadata.
type Coordinate struct {
	Lat        float64
	Lon        float64
	Source     CoordinateSource
	Confidence float64
}

// Valid reports whether both components are finite and within range.
// Invalid coordinates are discarded wherever they appear.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
