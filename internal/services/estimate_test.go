package services

import (
	"context"
	"testing"
	"time"

	"nearest-hub-service/internal/domain"
)

func TestHaversineSymmetryAndIdentity(t *testing.T) {
	pairs := [][2]domain.Coordinate{
		{{Lat: 51.37, Lon: 6.17}, {Lat: 51.51, Lon: -0.13}},
		{{Lat: 40.46, Lon: -3.75}, {Lat: 52.13, Lon: 5.29}},
		{{Lat: -33.87, Lon: 151.21}, {Lat: 35.68, Lon: 139.69}},
		{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 180}},
	}

	for _, p := range pairs {
		ab := Haversine(p[0], p[1])
		ba := Haversine(p[1], p[0])
		if ab != ba {
			t.Errorf("haversine not symmetric: %f vs %f", ab, ba)
		}
		if ab < 0 {
			t.Errorf("haversine negative: %f", ab)
		}
		if self := Haversine(p[0], p[0]); self != 0 {
			t.Errorf("haversine(a,a) = %f, want 0", self)
		}
	}
}

func TestRoadMultiplierTiers(t *testing.T) {
	cases := []struct {
		d    float64
		want float64
	}{
		{0, 1.2},
		{49.99, 1.2},
		{50, 1.4},
		{199.99, 1.4},
		{200, 1.5},
		{5000, 1.5},
	}

	for _, c := range cases {
		if got := roadMultiplier(c.d); got != c.want {
			t.Errorf("roadMultiplier(%f) = %f, want %f", c.d, got, c.want)
		}
		// Pure function: repeated calls with the same input agree.
		if again := roadMultiplier(c.d); again != roadMultiplier(c.d) {
			t.Errorf("roadMultiplier(%f) not deterministic: %f vs %f", c.d, again, roadMultiplier(c.d))
		}
	}
}

func TestEstimateVenloToLondon(t *testing.T) {
	venlo := domain.Coordinate{Lat: 51.37, Lon: 6.17}
	london := domain.Coordinate{Lat: 51.51, Lon: -0.13}

	straight := Haversine(venlo, london)
	if straight < 430 || straight > 445 {
		t.Fatalf("straight-line Venlo-London = %f, want ~437", straight)
	}

	est := EstimateRoadDistance(venlo, london)
	// 436.8 km straight falls in the long tier: multiplier 1.5 plus the
	// complexity correction (|0.14| + |6.30|) * 0.02 = 0.1288.
	if est.DistanceKm != 711 {
		t.Errorf("DistanceKm = %d, want 711", est.DistanceKm)
	}
	if est.DurationHours != 7 {
		t.Errorf("DurationHours = %d, want 7", est.DurationHours)
	}
	if est.DistanceKm <= WarningThresholdKm {
		t.Errorf("expected estimate beyond the warning threshold, got %d", est.DistanceKm)
	}
}

func TestEstimateNonNegativeIntegers(t *testing.T) {
	coords := []domain.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 51.37, Lon: 6.17},
		{Lat: -54.8, Lon: -68.3},
		{Lat: 89.9, Lon: 179.9},
	}

	for _, a := range coords {
		for _, b := range coords {
			est := EstimateRoadDistance(a, b)
			if est.DistanceKm < 0 {
				t.Errorf("negative distance %d for %v -> %v", est.DistanceKm, a, b)
			}
			if est.DurationHours < 0 {
				t.Errorf("negative duration %d for %v -> %v", est.DurationHours, a, b)
			}
		}
	}

	same := domain.Coordinate{Lat: 51.37, Lon: 6.17}
	if est := EstimateRoadDistance(same, same); est.DistanceKm != 0 || est.DurationHours != 0 {
		t.Errorf("zero-length trip estimated as %+v", est)
	}
}

func TestEstimateBatchMatchesSingles(t *testing.T) {
	origin := domain.Coordinate{Lat: 51.37, Lon: 6.17}
	destinations := make([]domain.Coordinate, 0, 25)
	for i := 0; i < 25; i++ {
		destinations = append(destinations, domain.Coordinate{
			Lat: 40 + float64(i)*0.5,
			Lon: -5 + float64(i)*0.7,
		})
	}

	batch, err := EstimateBatch(context.Background(), origin, destinations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != len(destinations) {
		t.Fatalf("got %d estimates, want %d", len(batch), len(destinations))
	}

	for i, d := range destinations {
		if single := EstimateRoadDistance(origin, d); single != batch[i] {
			t.Errorf("estimate %d: batch %+v != single %+v", i, batch[i], single)
		}
	}
}

func TestEstimateBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	destinations := make([]domain.Coordinate, 30)
	_, err := EstimateBatch(ctx, domain.Coordinate{}, destinations)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	// Cancellation should short-circuit well before the inter-batch pauses.
	start := time.Now()
	_, _ = EstimateBatch(ctx, domain.Coordinate{}, destinations)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("cancelled batch took %v", elapsed)
	}
}
