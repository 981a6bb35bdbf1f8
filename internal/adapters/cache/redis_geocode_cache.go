package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"nearest-hub-service/internal/domain"
)

// RedisGeocodeCache is a Redis-backed variant of the geocode cache for
// deployments where multiple instances should share one 24h lookup pool.
// Expiry is delegated to Redis TTLs; values are JSON-encoded coordinates.
type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

type redisCoordinate struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	if ttl <= 0 {
		ttl = GeocodeTTL
	}
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

func (c *RedisGeocodeCache) redisKey(key string) string {
	return "geocode:" + key
}

// Fetch the cached coordinate for a location key.
func (c *RedisGeocodeCache) Get(ctx context.Context, key string) (domain.Coordinate, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Coordinate{}, false, errors.New("geocode cache: empty key")
	}

	raw, err := c.client.Get(ctx, c.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache key=%q: %w", key, err)
	}

	var rc redisCoordinate
	if err := json.Unmarshal([]byte(raw), &rc); err != nil {
		// A corrupt entry behaves like a miss; the next Put supersedes it.
		return domain.Coordinate{}, false, nil
	}

	coord := domain.Coordinate{
		Lat:        rc.Lat,
		Lon:        rc.Lon,
		Source:     domain.SourceCached,
		Confidence: rc.Confidence,
	}
	if !coord.Valid() {
		return domain.Coordinate{}, false, nil
	}
	return coord, true, nil
}

// Store a coordinate under a location key, replacing any previous entry.
func (c *RedisGeocodeCache) Put(ctx context.Context, key string, coord domain.Coordinate) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("geocode cache: empty key")
	}
	if !coord.Valid() {
		return errors.New("geocode cache: refusing to store invalid coordinate")
	}

	payload, err := json.Marshal(redisCoordinate{
		Lat:        coord.Lat,
		Lon:        coord.Lon,
		Source:     string(coord.Source),
		Confidence: coord.Confidence,
	})
	if err != nil {
		return fmt.Errorf("insert geocode cache key=%q: marshal: %w", key, err)
	}

	if err := c.client.Set(ctx, c.redisKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}
	return nil
}
