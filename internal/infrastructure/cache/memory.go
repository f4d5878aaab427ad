package cache

import (
	"time"

	"ultimate-kits/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache returns a go-cache backed store. Expired items are evicted every
// cleanupInterval.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) cache.CacheService {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func expiration(d time.Duration) time.Duration {
	switch d {
	case cache.NoExpiration:
		return gocache.NoExpiration
	case 0:
		return gocache.DefaultExpiration
	}
	return d
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}, d time.Duration) {
	c.store.Set(key, value, expiration(d))
}

func (c *memoryCache) Add(key string, value interface{}, d time.Duration) bool {
	return c.store.Add(key, value, expiration(d)) == nil
}

func (c *memoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryCache) ItemCount() int {
	return c.store.ItemCount()
}
