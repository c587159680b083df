package filter

import (
	"container/list"
	"sync"
)

// lruCache is a thread-safe LRU cache of compiled filters keyed by expression
type lruCache struct {
	size  int
	order *list.List
	items map[string]*list.Element
	mu    sync.Mutex
}

type cacheEntry struct {
	expression string
	filter     *Filter
}

func newLRUCache(size int) *lruCache {
	return &lruCache{
		size:  size,
		order: list.New(),
		items: make(map[string]*list.Element, size),
	}
}

// get returns the cached filter and marks it most recently used
func (c *lruCache) get(expression string) (*Filter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[expression]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).filter, true
}

// put stores a filter, evicting the least recently used one when full
func (c *lruCache) put(expression string, f *Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[expression]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).filter = f
		return
	}

	c.items[expression] = c.order.PushFront(&cacheEntry{expression: expression, filter: f})

	if c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).expression)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
