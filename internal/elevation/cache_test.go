package elevation

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-courseplay/internal/shared/geo"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingLookup struct {
	calls  int
	points []geo.LatLng
}

func (c *countingLookup) Elevations(_ context.Context, points []geo.LatLng) ([]Result, error) {
	c.calls++
	c.points = append(c.points, points...)
	results := make([]Result, len(points))
	for i, p := range points {
		if p.Lat < 0 {
			results[i] = Result{Err: ErrUnavailable}
			continue
		}
		results[i] = Result{Meters: p.Lat + 1000}
	}
	return results, nil
}

func TestCacheReadThrough(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	inner := &countingLookup{}
	cache := NewCache(client, inner, time.Hour)
	points := []geo.LatLng{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}, {Lat: 1, Lng: 2}}

	results, err := cache.Elevations(context.Background(), points)
	if err != nil {
		t.Fatalf("elevations: %v", err)
	}
	if results[0].Meters != 1001 || results[1].Meters != 1003 || results[2].Meters != 1001 {
		t.Fatalf("unexpected results %+v", results)
	}
	if len(inner.points) != 2 {
		t.Fatalf("expected duplicates collapsed, inner saw %d points", len(inner.points))
	}

	if got, err := s.Get(cacheKey(points[0])); err != nil || got != "1001" {
		t.Fatalf("expected cached value, got %q %v", got, err)
	}
	if ttl := s.TTL(cacheKey(points[1])); ttl != time.Hour {
		t.Fatalf("expected ttl 1h, got %v", ttl)
	}

	results, err = cache.Elevations(context.Background(), points[:2])
	if err != nil {
		t.Fatalf("elevations: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected cached lookup, inner called %d times", inner.calls)
	}
	if results[1].Meters != 1003 {
		t.Fatalf("unexpected cached result %+v", results[1])
	}
}

func TestCacheSkipsFailures(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	cache := NewCache(client, &countingLookup{}, time.Hour)
	results, err := cache.Elevations(context.Background(), []geo.LatLng{{Lat: -5, Lng: 1}})
	if err != nil {
		t.Fatalf("elevations: %v", err)
	}
	if !errors.Is(results[0].Err, ErrUnavailable) {
		t.Fatalf("expected failure to pass through")
	}
	if s.Exists(cacheKey(geo.LatLng{Lat: -5, Lng: 1})) {
		t.Fatalf("failures must not be cached")
	}
}

func TestCacheRedisDown(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()
	s.Close()

	inner := &countingLookup{}
	results, err := NewCache(client, inner, time.Hour).Elevations(context.Background(), []geo.LatLng{{Lat: 2}})
	if err != nil {
		t.Fatalf("expected fallthrough, got %v", err)
	}
	if results[0].Meters != 1002 || inner.calls != 1 {
		t.Fatalf("expected inner lookup, got %+v", results)
	}
}

func TestCacheWithoutRedis(t *testing.T) {
	inner := &countingLookup{}
	results, err := NewCache(nil, inner, time.Hour).Elevations(context.Background(), []geo.LatLng{{Lat: 2}, {Lat: 2}})
	if err != nil {
		t.Fatalf("elevations: %v", err)
	}
	if len(results) != 2 || results[1].Meters != 1002 || len(inner.points) != 1 {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestCacheInnerErrorKeepsHits(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hit := geo.LatLng{Lat: 1, Lng: 1}
	if err := s.Set(cacheKey(hit), "250"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	broken := lookupFunc(func(context.Context, []geo.LatLng) ([]Result, error) { return nil, errLookup })

	results, err := NewCache(client, broken, time.Hour).Elevations(context.Background(), []geo.LatLng{hit, {Lat: 2, Lng: 2}})
	if err != nil {
		t.Fatalf("elevations: %v", err)
	}
	if results[0].Err != nil || results[0].Meters != 250 {
		t.Fatalf("cached point should survive an inner failure: %+v", results[0])
	}
	if !errors.Is(results[1].Err, ErrUnavailable) || !errors.Is(results[1].Err, errLookup) {
		t.Fatalf("expected miss to be unavailable, got %+v", results[1])
	}
}

func TestCacheInnerShortAnswer(t *testing.T) {
	short := lookupFunc(func(context.Context, []geo.LatLng) ([]Result, error) { return []Result{}, nil })
	if _, err := NewCache(nil, short, time.Hour).Elevations(context.Background(), []geo.LatLng{{Lat: 1}}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

type lookupFunc func(context.Context, []geo.LatLng) ([]Result, error)

func (f lookupFunc) Elevations(ctx context.Context, points []geo.LatLng) ([]Result, error) {
	return f(ctx, points)
}
