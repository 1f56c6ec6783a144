package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/agroclima/prediction-service/internal/station"
)

// Cache is a concurrency-safe TTL cache for historical windows, keyed on
// the rounded coordinate and date range. Expired entries are pruned on
// write; the cache never grows unbounded for a fixed station set.
type Cache struct {
	mu   sync.RWMutex
	data map[string]cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	window   Window
	storedAt time.Time
}

// NewCache creates a Cache with the given TTL. A TTL <= 0 disables
// caching entirely (Get always misses).
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
	}
}

// cacheKey rounds coordinates to three decimals (roughly 110 m) so
// near-identical queries share an entry.
func cacheKey(point station.Coordinate, startDate, endDate string) string {
	return fmt.Sprintf("%.3f:%.3f:%s:%s", point.Latitude, point.Longitude, startDate, endDate)
}

// Get returns the cached window for the coordinate and range, if fresh.
func (c *Cache) Get(point station.Coordinate, startDate, endDate string) (Window, bool) {
	if c.ttl <= 0 {
		return Window{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[cacheKey(point, startDate, endDate)]
	if !ok || time.Since(entry.storedAt) > c.ttl {
		return Window{}, false
	}
	return entry.window, true
}

// Put stores a window and prunes entries past their TTL.
func (c *Cache) Put(win Window) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.data, key)
		}
	}

	c.data[cacheKey(win.Coordinate, win.StartDate, win.EndDate)] = cacheEntry{
		window:   win,
		storedAt: now,
	}
}
