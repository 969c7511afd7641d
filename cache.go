package offerskit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

// Cache stores opaque serialized values with a per-entry TTL. The client uses
// it cache-aside for offers lists; implementations must be safe for
// concurrent use. Every error is treated as absence by callers, so an
// implementation may fail loudly without breaking anything.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// cacheEntry is a value with its absolute expiry.
type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryCache is a sharded in-process cache with lazy expiry on read.
type InMemoryCache struct {
	shards    []*cacheShard
	numShards int
}

type cacheShard struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
}

// NewInMemoryCache creates a 16-way sharded cache.
func NewInMemoryCache() *InMemoryCache {
	numShards := 16
	shards := make([]*cacheShard, numShards)
	for i := range shards {
		shards[i] = &cacheShard{
			store: make(map[string]cacheEntry),
		}
	}
	return &InMemoryCache{
		shards:    shards,
		numShards: numShards,
	}
}

func (c *InMemoryCache) getShard(key string) *cacheShard {
	hash := fnv.New32a()
	hash.Write([]byte(key))
	return c.shards[hash.Sum32()%uint32(c.numShards)]
}

// Get implements Cache.
func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	shard := c.getShard(key)
	shard.mu.RLock()
	entry, exists := shard.store[key]
	shard.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		shard.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if current, ok := shard.store[key]; ok && time.Now().After(current.expiresAt) {
			delete(shard.store, key)
		}
		shard.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set implements Cache.
func (c *InMemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.store[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete implements Cache.
func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.store, key)
	return nil
}

// Clear implements Cache.
func (c *InMemoryCache) Clear(_ context.Context) error {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.store = make(map[string]cacheEntry)
		shard.mu.Unlock()
	}
	return nil
}

// Len returns the number of live entries, counting expired-but-unswept ones.
func (c *InMemoryCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.store)
		shard.mu.RUnlock()
	}
	return total
}

// offersCacheKey namespaces cache entries per product.
func offersCacheKey(productID string) string {
	return "offers:" + productID
}
