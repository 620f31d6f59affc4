// Package sizing computes the pixel geometry of a grid: resolved column
// widths, the pinned/unpinned partition and body height, driven by a
// bounded fixed-point loop over scrollbar appearance.
package sizing

import "sync"

// Keys of the aggregate metrics held in a Cache.
const (
	KeyCalcWidth     = "calcWidth"
	KeyPinnedWidth   = "pinnedWidth"
	KeyUnpinnedWidth = "unpinnedWidth"
	KeyTotalWidth    = "totalWidth"
	KeyRowHeight     = "rowHeight"
)

// ColumnKey returns the cache key of a column's resolved width.
func ColumnKey(field string) string {
	return "col:" + field
}

// CacheStats reports cache effectiveness since creation.
type CacheStats struct {
	Hits          uint64
	Misses        uint64
	Invalidations uint64
}

// HitRatio returns hits / (hits + misses), or 0 before the first lookup.
func (s CacheStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache memoizes derived metrics of one grid instance.
//
// There is no partial invalidation: Invalidate drops every value, and the
// next recompute pass rebuilds what it needs.
type Cache struct {
	mu     sync.Mutex
	values map[string]float64
	stats  CacheStats
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{values: make(map[string]float64)}
}

// Get returns the memoized value for key, computing and storing it on a miss.
// compute runs without the cache lock held, so it may call Get for other keys.
func (c *Cache) Get(key string, compute func() float64) float64 {
	c.mu.Lock()
	if v, ok := c.values[key]; ok {
		c.stats.Hits++
		c.mu.Unlock()
		return v
	}
	c.stats.Misses++
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	c.values[key] = v
	c.mu.Unlock()
	return v
}

// Peek returns the memoized value for key without computing it.
func (c *Cache) Peek(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

// Put stores a value computed elsewhere, such as a batch of column widths
// produced by one resolver run.
func (c *Cache) Put(key string, v float64) {
	c.mu.Lock()
	c.values[key] = v
	c.mu.Unlock()
}

// Invalidate clears all memoized values.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.values)
	c.stats.Invalidations++
}

// Len returns the number of memoized values.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
