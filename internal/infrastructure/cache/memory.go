package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gramkart/backend/internal/domain"
)

// entry is a single cached value with a wall-clock expiry.
type entry struct {
	value      interface{}
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support. Values are
// JSON round-tripped on Set so reads behave the same as the Redis backend.
type MemoryCache struct {
	data  map[string]entry
	mutex sync.RWMutex
	stop  chan struct{}
}

// NewMemoryCache creates an in-memory cache and starts a janitor goroutine
// that evicts expired entries every cleanupInterval. A zero interval selects
// ten minutes.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval == 0 {
		cleanupInterval = 10 * time.Minute
	}

	c := &MemoryCache{
		data: make(map[string]entry),
		stop: make(chan struct{}),
	}
	go c.janitor(cleanupInterval)
	return c
}

// Get retrieves a value from the cache. Expired entries count as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.data[key]
	if !ok || time.Now().After(e.expiration) {
		return nil, domain.ErrCacheMiss
	}

	return e.value, nil
}

// Set stores a value with the given TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = entry{
		value:      stored,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists reports whether a key exists and is not expired.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.data[key]
	return ok && !time.Now().After(e.expiration), nil
}

// Close stops the janitor goroutine.
func (c *MemoryCache) Close() {
	close(c.stop)
}

// Size returns the current number of entries, expired included.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mutex.Lock()
			for key, e := range c.data {
				if now.After(e.expiration) {
					delete(c.data, key)
				}
			}
			c.mutex.Unlock()
		}
	}
}
