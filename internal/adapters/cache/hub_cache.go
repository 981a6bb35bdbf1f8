package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nearest-hub-service/internal/domain"
	"nearest-hub-service/internal/ports"
)

// Hubs change rarely; five minutes bounds the staleness window without
// hitting the store on every ranking query.
const HubListTTL = 5 * time.Minute

// HubCache caches the full active-hub list in front of a HubRepository.
// The list is refreshed wholesale after its TTL; there is no per-row
// invalidation. Reads and writes to the other repository methods pass
// straight through. Safe for concurrent use.
type HubCache struct {
	repo ports.HubRepository
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	hubs      []domain.Hub
	fetchedAt time.Time
}

func NewHubCache(repo ports.HubRepository, ttl time.Duration) *HubCache {
	if ttl <= 0 {
		ttl = HubListTTL
	}
	return &HubCache{repo: repo, ttl: ttl, now: time.Now}
}

// ListActiveHubs serves the cached list if fresher than the TTL,
// otherwise reloads it wholesale from the repository.
func (c *HubCache) ListActiveHubs(ctx context.Context) ([]domain.Hub, error) {
	if c.repo == nil {
		return nil, errors.New("hub cache: repository is nil")
	}

	c.mu.RLock()
	fresh := c.hubs != nil && c.now().Sub(c.fetchedAt) <= c.ttl
	hubs := c.hubs
	c.mu.RUnlock()

	if fresh {
		return hubs, nil
	}

	loaded, err := c.repo.ListActiveHubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("hub cache: reload active hubs: %w", err)
	}

	c.mu.Lock()
	c.hubs = loaded
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return loaded, nil
}

func (c *HubCache) FindCityCoordinate(ctx context.Context, city, country string) (domain.Coordinate, bool, error) {
	if c.repo == nil {
		return domain.Coordinate{}, false, errors.New("hub cache: repository is nil")
	}
	return c.repo.FindCityCoordinate(ctx, city, country)
}

func (c *HubCache) UpdateEntityCoordinate(ctx context.Context, entityType, entityID, city, country string, coord domain.Coordinate) error {
	if c.repo == nil {
		return errors.New("hub cache: repository is nil")
	}
	return c.repo.UpdateEntityCoordinate(ctx, entityType, entityID, city, country, coord)
}
