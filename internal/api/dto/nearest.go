package dto

type NearestHubsRequest struct {
	City       string `json:"city"`
	Country    string `json:"country"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type RankedHubResponse struct {
	HubID          string `json:"hub_id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	DistanceKm     int    `json:"distance_km"`
	Warning        bool   `json:"warning"`
	IsRoadDistance bool   `json:"is_road_distance"`
}

// Error is set (and Hubs empty) when no suggestion is available; the
// caller is expected to degrade to a soft advisory, not an error page.
type NearestHubsResponse struct {
	Hubs  []RankedHubResponse `json:"hubs"`
	Error string              `json:"error,omitempty"`
}
