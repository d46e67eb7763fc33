package generation

import (
	"log"
	"sync"

	"sermon-studio/backend/internal/model"
)

// ListCache caches the per-owner generation list between mutations. Any
// successful create, update or delete invalidates the owner's entry so the
// next list reads fresh data; cached slices are never mutated in place.
type ListCache struct {
	mu      sync.RWMutex
	entries map[string][]model.Generation
}

// NewListCache creates an empty ListCache.
func NewListCache() *ListCache {
	return &ListCache{entries: make(map[string][]model.Generation)}
}

// Get returns the cached list for an owner, if any.
func (c *ListCache) Get(owner string) ([]model.Generation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.entries[owner]
	return list, ok
}

// Set stores the list for an owner.
func (c *ListCache) Set(owner string, list []model.Generation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[owner] = list
}

// Invalidate drops the owner's cached list.
func (c *ListCache) Invalidate(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[owner]; ok {
		log.Printf("[CACHE] Invalidating generation list for owner=%s", owner)
		delete(c.entries, owner)
	}
}
