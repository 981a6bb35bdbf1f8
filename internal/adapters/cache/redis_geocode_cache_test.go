package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"nearest-hub-service/internal/domain"
)

func testRedisCache(t *testing.T) (*RedisGeocodeCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisGeocodeCache(client, GeocodeTTL), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, _ := testRedisCache(t)
	ctx := context.Background()

	coord := domain.Coordinate{Lat: 51.37, Lon: 6.17, Source: domain.SourceGeocoded, Confidence: 0.8}
	if err := c.Put(ctx, "venlo|netherlands", coord); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, "venlo|netherlands")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Lat != coord.Lat || got.Lon != coord.Lon || got.Confidence != coord.Confidence {
		t.Errorf("got %+v, want %+v", got, coord)
	}
	if got.Source != domain.SourceCached {
		t.Errorf("source = %s, want cached", got.Source)
	}
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := testRedisCache(t)
	if _, ok, err := c.Get(context.Background(), "nowhere|atlantis"); err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want clean miss", ok, err)
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	c, mr := testRedisCache(t)
	ctx := context.Background()

	coord := domain.Coordinate{Lat: 51.37, Lon: 6.17, Source: domain.SourceGeocoded, Confidence: 0.8}
	if err := c.Put(ctx, "venlo|netherlands", coord); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(25 * time.Hour)

	if _, ok, _ := c.Get(ctx, "venlo|netherlands"); ok {
		t.Error("expected miss after the TTL elapsed")
	}
}

func TestRedisCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := testRedisCache(t)
	mr.Set("geocode:venlo|netherlands", "not json")

	if _, ok, err := c.Get(context.Background(), "venlo|netherlands"); err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want clean miss for corrupt entry", ok, err)
	}
}
