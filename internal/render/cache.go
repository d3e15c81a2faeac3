package render

import (
	"container/list"
	"sync"
)

// OutputCache is an LRU cache of rendered strings keyed by content. It backs
// renders that are expensive and independent of block position, such as
// decoded inline images and highlighted code.
type OutputCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	key string
	out string
}

// NewOutputCache creates a cache holding at most maxSize entries.
func NewOutputCache(maxSize int) *OutputCache {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &OutputCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the cached output and marks it recently used.
func (c *OutputCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).out, true
	}
	return "", false
}

// Put stores output, evicting the least recently used entry at capacity.
func (c *OutputCache) Put(key, out string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).out = out
		return
	}

	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			delete(c.entries, oldest.Value.(*cacheEntry).key)
			c.lru.Remove(oldest)
		}
	}

	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, out: out})
}

// Clear removes every entry. Call it on resize or theme changes.
func (c *OutputCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached entries.
func (c *OutputCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
