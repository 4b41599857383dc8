package utils

import (
	"sync"
	"sync/atomic"
)

// Cache is a concurrency-safe map owned by one parser instance.
// Writes are plain sets; for deterministic values last-writer-wins is fine.
type Cache[K comparable, V any] struct {
	items map[K]V
	mutex sync.RWMutex

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

// Get retrieves an item from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	value, exists := c.items[key]
	c.mutex.RUnlock()

	if exists {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, exists
}

// Set stores an item in the cache. The zero value is a valid entry, so
// negative results (e.g. a nil pointer for "not found") are cached too.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = value
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss.
func (c *Cache[K, V]) GetOrLoad(key K, load func() V) V {
	if value, ok := c.Get(key); ok {
		return value
	}
	value := load()
	c.Set(key, value)
	return value
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

// GetStats returns cache statistics
func (c *Cache[K, V]) GetStats() CacheStats {
	return CacheStats{
		Size:   c.Size(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// CacheStats provides cache statistics
type CacheStats struct {
	Size   int   `json:"size" yaml:"size"`
	Hits   int64 `json:"hits" yaml:"hits"`
	Misses int64 `json:"misses" yaml:"misses"`
}
