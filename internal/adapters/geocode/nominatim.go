package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nearest-hub-service/internal/domain"
	"nearest-hub-service/internal/platform/obs"
	"nearest-hub-service/internal/ports"
)

// NominatimGeocoder implements ports.Geocoder using the public
// OpenStreetMap Nominatim search endpoint.
//
// It coordinates:
//   - City spelling correction
//   - Process-wide request pacing (Nominatim usage policy)
//   - Response validation against the coordinate range invariant
//
// The geocoder is safe for concurrent use; the shared Pacer serializes
// the actual outbound calls.
type NominatimGeocoder struct {
	session   *http.Client
	baseURL   string
	userAgent string
	pacer     *Pacer
}

type nominatimResult struct {
	Lat        string  `json:"lat"`
	Lon        string  `json:"lon"`
	Importance float64 `json:"importance"`
}

func NewNominatimGeocoder(baseURL, userAgent string, pacer *Pacer) (*NominatimGeocoder, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim geocoder: user agent is required by the provider's usage policy")
	}
	if pacer == nil {
		return nil, errors.New("nominatim geocoder: pacer must be non-nil")
	}
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}

	return &NominatimGeocoder{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		pacer:     pacer,
	}, nil
}

// Geocode resolves a city/country pair to a coordinate.
// Failure states map to the ports sentinels: zero results ->
// ErrLocationNotFound, HTTP 429 -> ErrRateLimited, everything else
// (non-2xx, malformed body, out-of-range coordinates, network faults)
// -> ErrGeocoding.
func (g *NominatimGeocoder) Geocode(ctx context.Context, city, country string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if city == "" || country == "" {
		return domain.Coordinate{}, fmt.Errorf("%w: city and country must be non-empty", ports.ErrGeocoding)
	}

	city = correctCity(city)

	if err := g.pacer.Wait(ctx); err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: wait for request slot: %v", ports.ErrGeocoding, err)
	}

	query := url.Values{}
	query.Set("q", city+","+country)
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("addressdetails", "1")
	query.Set("extratags", "1")
	endpoint := g.baseURL + "/search?" + query.Encode()

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, endpoint)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			if he.Code == http.StatusTooManyRequests {
				return domain.Coordinate{}, fmt.Errorf("%w: %q, %q", ports.ErrRateLimited, city, country)
			}
			return domain.Coordinate{}, fmt.Errorf("%w: unexpected status %d", ports.ErrGeocoding, he.Code)
		}
		return domain.Coordinate{}, fmt.Errorf("%w: execute request: %v", ports.ErrGeocoding, err)
	}
	defer resp.Body.Close()

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: decode response: %v", ports.ErrGeocoding, err)
	}

	if len(results) == 0 {
		return domain.Coordinate{}, fmt.Errorf("%w: %q, %q", ports.ErrLocationNotFound, city, country)
	}

	first := results[0]
	lat, latErr := strconv.ParseFloat(first.Lat, 64)
	lon, lonErr := strconv.ParseFloat(first.Lon, 64)
	if latErr != nil || lonErr != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: unparseable coordinates for %q, %q", ports.ErrGeocoding, city, country)
	}

	coord := domain.Coordinate{
		Lat:        lat,
		Lon:        lon,
		Source:     domain.SourceGeocoded,
		Confidence: clamp01(first.Importance),
	}
	if !coord.Valid() {
		return domain.Coordinate{}, fmt.Errorf(
			"%w: out-of-range coordinates (%f, %f) for %q, %q",
			ports.ErrGeocoding, lat, lon, city, country,
		)
	}

	return coord, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
