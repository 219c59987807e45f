package cache

import (
	"sync"
	"time"
)

// entry is a cached fragment with its expiration time
type entry struct {
	body    []byte
	expires time.Time
}

func (e *entry) expired() bool {
	return time.Now().After(e.expires)
}

// FragmentCache holds rendered HTML fragments keyed by section identifier.
// Static section content never changes during the process lifetime, so the
// TTL only bounds memory, not staleness.
type FragmentCache struct {
	mu    sync.RWMutex
	items map[string]*entry
	ttl   time.Duration
}

// NewFragmentCache creates a fragment cache and starts its cleanup loop
func NewFragmentCache(ttl time.Duration) *FragmentCache {
	c := &FragmentCache{
		items: make(map[string]*entry),
		ttl:   ttl,
	}
	go c.cleanupExpired()
	return c
}

// Set stores a rendered fragment. The body is copied; callers may reuse
// their buffer.
func (c *FragmentCache) Set(key string, body []byte) {
	dup := make([]byte, len(body))
	copy(dup, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = &entry{
		body:    dup,
		expires: time.Now().Add(c.ttl),
	}
}

// Get retrieves a cached fragment
func (c *FragmentCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || e.expired() {
		return nil, false
	}
	return e.body, true
}

// Delete removes one fragment
func (c *FragmentCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all fragments
func (c *FragmentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry)
}

// Len returns the number of cached fragments
func (c *FragmentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// cleanupExpired removes expired entries periodically
func (c *FragmentCache) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, e := range c.items {
			if e.expired() {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
