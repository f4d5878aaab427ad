package cache

import "time"

// NoExpiration keeps an item until it is deleted explicitly.
const NoExpiration time.Duration = -1

// CacheService is the process-local store behind catalog snapshots, browsing sessions,
// processed images, admin stats and rate-limit buckets.
type CacheService interface {
	Get(key string) (interface{}, bool)

	// Set stores value for d. Zero means the store's default expiration.
	Set(key string, value interface{}, d time.Duration)

	// Add stores value only when key is absent or expired and reports whether it did.
	Add(key string, value interface{}, d time.Duration) bool

	Delete(key string)

	// ItemCount includes expired items the janitor has not evicted yet.
	ItemCount() int
}
