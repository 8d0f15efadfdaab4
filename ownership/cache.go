package ownership

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	cacheKey        = "ownership:breakdown"
	generationKey   = "ownership:generation"
	cacheExpiration = 5 * time.Minute
)

// Cache keeps the last computed Breakdown in Redis until a mutation
// invalidates it or it expires.
//
// Every Invalidate bumps a generation counter. A Breakdown computed from
// reads that started at generation g is only stored while the counter is
// still g, so a fill racing with a mutation never outlives it.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb, ttl: cacheExpiration}
}

// Generation returns the current invalidation counter. Read it before
// loading the data a later Set will store.
func (c *Cache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get reports a miss with ok=false. Decode failures count as misses.
func (c *Cache) Get(ctx context.Context) (b Breakdown, ok bool, err error) {
	raw, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Breakdown{}, false, nil
	}
	if err != nil {
		return Breakdown{}, false, err
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return Breakdown{}, false, nil
	}
	return b, true, nil
}

// Set stores b if no Invalidate happened since gen was read. stored is
// false when the entry was dropped as stale.
func (c *Cache) Set(ctx context.Context, gen int64, b Breakdown) (stored bool, err error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return false, err
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey, raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, generationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

func (c *Cache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, cacheKey)
		return nil
	})
	return err
}
