// Package cache is a small in-process TTL cache for read endpoints. Loads of
// a missing key are collapsed through singleflight so concurrent readers do
// not stampede the state lock.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	val     any
	expires time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	sf      singleflight.Group

	now func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}

	return e.val, true
}

func (c *Cache) Set(key string, val any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{val: val, expires: c.now().Add(ttl)}
}

func (c *Cache) Del(keys ...string) {
	if len(keys) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		delete(c.entries, k)
	}
}

// GetOrSet returns the cached value for key, or runs loader and caches its
// result for ttl. Concurrent loads of the same key are deduplicated.
func GetOrSet[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if v, ok := c.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		if v2, ok2 := c.Get(key); ok2 {
			return v2, nil
		}
		v3, err3 := loader(ctx)
		if err3 != nil {
			return nil, err3
		}
		c.Set(key, v3, ttl)
		return v3, nil
	})

	var zero T
	if err != nil {
		return zero, err
	}

	t, ok := vAny.(T)
	if !ok {
		return zero, fmt.Errorf("cache: unexpected value type for key %q", key)
	}

	return t, nil
}
