package domain

// A hub scored against a resolved entity location. Derived per query and
// discarded after use; never persisted.
//
// IsRoadDistance marks whether DistanceKm came from the road-distance
// heuristic or from a raw straight-line estimate, so consumers can present
// "estimated" honestly.
type RankedHub struct {
	HubID          string
	Name           string
	Code           string
	DistanceKm     int
	Warning        bool
	IsRoadDistance bool
}
