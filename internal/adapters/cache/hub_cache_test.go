package cache

import (
	"context"
	"testing"
	"time"

	"nearest-hub-service/internal/domain"
)

type countingHubRepo struct {
	hubs      []domain.Hub
	listCalls int
}

func (r *countingHubRepo) ListActiveHubs(ctx context.Context) ([]domain.Hub, error) {
	r.listCalls++
	return r.hubs, nil
}

func (r *countingHubRepo) FindCityCoordinate(ctx context.Context, city, country string) (domain.Coordinate, bool, error) {
	return domain.Coordinate{}, false, nil
}

func (r *countingHubRepo) UpdateEntityCoordinate(ctx context.Context, entityType, entityID, city, country string, coord domain.Coordinate) error {
	return nil
}

func TestHubCacheServesWithinTTL(t *testing.T) {
	repo := &countingHubRepo{hubs: []domain.Hub{{ID: "a", Name: "Hub A", Active: true}}}
	c := NewHubCache(repo, 5*time.Minute)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		hubs, err := c.ListActiveHubs(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hubs) != 1 {
			t.Fatalf("got %d hubs, want 1", len(hubs))
		}
	}

	if repo.listCalls != 1 {
		t.Errorf("repository hit %d times within TTL, want 1", repo.listCalls)
	}
}

func TestHubCacheReloadsWholesaleAfterTTL(t *testing.T) {
	repo := &countingHubRepo{hubs: []domain.Hub{{ID: "a", Name: "Hub A", Active: true}}}
	c := NewHubCache(repo, 5*time.Minute)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	if _, err := c.ListActiveHubs(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A row added upstream is not visible until the list expires.
	repo.hubs = append(repo.hubs, domain.Hub{ID: "b", Name: "Hub B", Active: true})
	hubs, _ := c.ListActiveHubs(ctx)
	if len(hubs) != 1 {
		t.Fatalf("stale list should still have 1 hub, got %d", len(hubs))
	}

	c.now = func() time.Time { return now.Add(6 * time.Minute) }
	hubs, err := c.ListActiveHubs(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hubs) != 2 {
		t.Fatalf("got %d hubs after reload, want 2", len(hubs))
	}
	if repo.listCalls != 2 {
		t.Errorf("repository hit %d times, want 2", repo.listCalls)
	}
}
