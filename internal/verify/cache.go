package verify

import "sync"

// Cache memoizes verdicts by lowercased DOI. Safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	verdicts map[string]Verdict
}

// NewCache creates an empty verdict cache.
func NewCache() *Cache {
	return &Cache{verdicts: make(map[string]Verdict)}
}

// Get returns the cached verdict for a key, if present.
func (c *Cache) Get(key string) (Verdict, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	verdict, ok := c.verdicts[key]

	return verdict, ok
}

// Put stores a verdict under a key, overwriting any previous entry.
func (c *Cache) Put(key string, verdict Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.verdicts[key] = verdict
}

// Len reports the number of cached verdicts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.verdicts)
}
