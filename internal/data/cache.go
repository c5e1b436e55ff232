package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"robo-advisor/internal/model"
)

// Cache memoizes fetched histories keyed by CacheKey.
// Implementations treat backend failures as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.PriceSeries, bool)
	Set(ctx context.Context, key string, series []model.PriceSeries)
}

// CacheEntry represents a cached history
type CacheEntry struct {
	Series    []model.PriceSeries
	ExpiresAt time.Time // zero never expires
}

// MemoryCache is the process-local cache. With a zero TTL entries live for
// the process lifetime.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached history if available and not expired
func (c *MemoryCache) Get(_ context.Context, key string) ([]model.PriceSeries, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	entry, exists := c.store[key]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if !entry.ExpiresAt.IsZero() && c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.store, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.Series, true
}

// Set stores a history. Writing the same key twice is harmless: the value is
// a function of the key.
func (c *MemoryCache) Set(_ context.Context, key string, series []model.PriceSeries) {
	if c == nil {
		return
	}

	entry := &CacheEntry{Series: series}
	if c.ttl > 0 {
		entry.ExpiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = entry
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *MemoryCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// CacheKey creates a cache key from the ticker set and the date range.
// Ticker order does not matter; dates are compared at day granularity.
func CacheKey(tickers []string, start, end time.Time) string {
	sorted := append([]string(nil), tickers...)
	sort.Strings(sorted)
	keyStr := fmt.Sprintf("%s:%s:%s",
		strings.Join(sorted, ","),
		start.Format(time.DateOnly),
		end.Format(time.DateOnly),
	)

	// Hash the key to keep it reasonably sized
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
