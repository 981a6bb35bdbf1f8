package services

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"nearest-hub-service/internal/domain"
)

// Distance estimation constants. These are tuned heuristics, not physical
// law; they live here as named values so a future tuning pass does not
// have to hunt for inline literals.
const (
	earthRadiusKm = 6371.0

	// Road-distance multiplier tiers: short trips track the straight line
	// (direct local roads), long trips accumulate detour.
	shortTripKm      = 50.0
	mediumTripKm     = 200.0
	shortMultiplier  = 1.2
	mediumMultiplier = 1.4
	longMultiplier   = 1.5

	// Coarse proxy for terrain and border effects: the more the trip
	// spans in raw degrees, the more complexity it crosses. A fudge
	// factor, capped so extreme spans do not dominate the multiplier.
	complexityCapDegrees = 10.0
	complexityFactor     = 0.02

	// Assumed average speeds per distance tier (km/h).
	shortTripSpeed  = 60.0
	mediumTripSpeed = 90.0
	longTripSpeed   = 100.0

	// Batch shaping for many-destination estimation. Each estimate is
	// pure, so this is throughput smoothing, not a correctness need.
	estimateBatchSize = 10
	interBatchPause   = 50 * time.Millisecond
)

// RoadEstimate is a deterministic distance/duration estimate derived from
// straight-line geometry. It is always an estimate: no routing service is
// consulted, and consumers must not present it as a measured distance.
type RoadEstimate struct {
	DistanceKm    int
	DurationHours int
}

// Haversine returns the great-circle distance in km between two points on
// a spherical earth.
func Haversine(a, b domain.Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180.0
	dLon := (b.Lon - a.Lon) * math.Pi / 180.0

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180.0)*math.Cos(b.Lat*math.Pi/180.0)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return earthRadiusKm * c
}

// roadMultiplier selects the detour multiplier for a straight-line
// distance. Pure function of d: same input always lands in the same tier.
func roadMultiplier(d float64) float64 {
	switch {
	case d < shortTripKm:
		return shortMultiplier
	case d < mediumTripKm:
		return mediumMultiplier
	default:
		return longMultiplier
	}
}

// tierSpeed mirrors the multiplier tiers with an assumed average speed.
func tierSpeed(d float64) float64 {
	switch {
	case d < shortTripKm:
		return shortTripSpeed
	case d < mediumTripKm:
		return mediumTripSpeed
	default:
		return longTripSpeed
	}
}

// EstimateRoadDistance converts two coordinates into an estimated road
// distance and travel duration without calling any routing service.
func EstimateRoadDistance(origin, dest domain.Coordinate) RoadEstimate {
	d := Haversine(origin, dest)

	correction := math.Min(math.Abs(dest.Lat-origin.Lat)+math.Abs(dest.Lon-origin.Lon), complexityCapDegrees) * complexityFactor
	km := math.Round(d * (roadMultiplier(d) + correction))

	hours := math.Round(km / tierSpeed(d))

	return RoadEstimate{
		DistanceKm:    int(km),
		DurationHours: int(hours),
	}
}

// EstimateBatch computes estimates from one origin to many destinations,
// processed in fixed-size concurrent batches with a small pause between
// batches. Results are positionally aligned with destinations.
func EstimateBatch(ctx context.Context, origin domain.Coordinate, destinations []domain.Coordinate) ([]RoadEstimate, error) {
	out := make([]RoadEstimate, len(destinations))

	for start := 0; start < len(destinations); start += estimateBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + estimateBatchSize
		if end > len(destinations) {
			end = len(destinations)
		}

		g, _ := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				out[i] = EstimateRoadDistance(origin, destinations[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if end < len(destinations) {
			timer := time.NewTimer(interBatchPause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return out, nil
}
