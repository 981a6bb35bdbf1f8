package dto

type HubResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Code    string   `json:"code"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Active  bool     `json:"active"`
}

type ListHubsResponse struct {
	Hubs []HubResponse `json:"hubs"`
}
