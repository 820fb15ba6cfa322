package elevation

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"backend-courseplay/internal/shared/geo"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis read-through cache in front of another Lookup.
type Cache struct {
	redis *redis.Client
	next  Lookup
	ttl   time.Duration
}

func NewCache(redisClient *redis.Client, next Lookup, ttl time.Duration) *Cache {
	return &Cache{redis: redisClient, next: next, ttl: ttl}
}

func cacheKey(p geo.LatLng) string {
	return fmt.Sprintf("elevation:%.6f:%.6f", p.Lat, p.Lng)
}

// Elevations answers from Redis first and sends only the misses to the inner
// lookup. If the inner lookup fails, the misses are marked unavailable and the
// hits are still returned.
func (c *Cache) Elevations(ctx context.Context, points []geo.LatLng) ([]Result, error) {
	results := make([]Result, len(points))
	if len(points) == 0 {
		return results, nil
	}

	// unique keys, first index wins
	keys := make([]string, 0, len(points))
	indexOf := make(map[string]int, len(points))
	owners := make([]int, len(points))
	for i, p := range points {
		k := cacheKey(p)
		idx, ok := indexOf[k]
		if !ok {
			idx = len(keys)
			indexOf[k] = idx
			keys = append(keys, k)
		}
		owners[i] = idx
	}

	unique := make([]Result, len(keys))
	found := make([]bool, len(keys))
	if c.redis != nil {
		vals, err := c.redis.MGet(ctx, keys...).Result()
		if err != nil {
			log.Printf("elevation cache read error: %v", err)
		} else {
			for i, v := range vals {
				s, ok := v.(string)
				if !ok {
					continue
				}
				m, err := strconv.ParseFloat(s, 64)
				if err != nil {
					continue
				}
				unique[i] = Result{Meters: m}
				found[i] = true
			}
		}
	}

	var missPoints []geo.LatLng
	var missIdx []int
	for i := range keys {
		if !found[i] {
			missIdx = append(missIdx, i)
		}
	}
	if len(missIdx) > 0 {
		firstPoint := make([]int, len(keys))
		for i := len(points) - 1; i >= 0; i-- {
			firstPoint[owners[i]] = i
		}
		for _, idx := range missIdx {
			missPoints = append(missPoints, points[firstPoint[idx]])
		}

		fetched, err := c.next.Elevations(ctx, missPoints)
		if err != nil {
			failed := fmt.Errorf("%w: %w", ErrUnavailable, err)
			fetched = make([]Result, len(missPoints))
			for j := range fetched {
				fetched[j] = Result{Err: failed}
			}
		} else if len(fetched) != len(missPoints) {
			return nil, fmt.Errorf("%w: got %d results for %d points", ErrUnavailable, len(fetched), len(missPoints))
		}
		c.store(ctx, keys, missIdx, fetched)
		for j, idx := range missIdx {
			unique[idx] = fetched[j]
		}
	}

	for i := range points {
		results[i] = unique[owners[i]]
	}
	return results, nil
}

func (c *Cache) store(ctx context.Context, keys []string, idx []int, fetched []Result) {
	if c.redis == nil {
		return
	}
	pipe := c.redis.Pipeline()
	queued := 0
	for j, r := range fetched {
		if r.Err != nil {
			continue
		}
		pipe.Set(ctx, keys[idx[j]], strconv.FormatFloat(r.Meters, 'f', -1, 64), c.ttl)
		queued++
	}
	if queued == 0 {
		return
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("elevation cache write error: %v", err)
	}
}
