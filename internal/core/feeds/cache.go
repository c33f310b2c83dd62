package feeds

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the in-memory cache when no size is configured.
const DefaultMaxEntries = 1000

// Cache is the key/value store both fetchers read and write. Values are serialized
// result payloads; entries expire after their TTL and are never mutated in place.
type Cache interface {
	// Get returns the stored value for key.
	// Returns ErrCacheMiss if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl, replacing any previous entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryEntry struct {
	expiresAt time.Time
	value     []byte
}

// MemoryCache is a process-local Cache. Entries carry their own expiry instant; the
// underlying LRU only bounds the entry count, it never shortens a live entry's TTL
// unless the soft maximum is exceeded.
type MemoryCache struct {
	// mu makes the expiry check and removal in Get atomic with respect to Set.
	mu      sync.Mutex
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithClock replaces the time source used for expiry checks.
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates an in-memory cache holding at most maxEntries entries.
// maxEntries <= 0 uses DefaultMaxEntries.
func NewMemoryCache(maxEntries int, opts ...MemoryCacheOption) (*MemoryCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU: %w", err)
	}

	c := &MemoryCache{
		entries: entries,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns a copy of the cached value. Expired entries are dropped and reported as a miss.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if !c.now().Before(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), entry.value...), nil
}

// Set stores a copy of value until now+ttl.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTTL, ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

// Len returns the number of stored entries, including expired ones not yet dropped.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}
