package retained

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/agiangrant/canvasui/surface"
)

// measureCache is an LRU cache of text metrics so repeated layouts of the
// same strings do not go back to the host.
type measureCache struct {
	mu      sync.Mutex
	m       surface.Measurer
	maxSize int
	cache   map[string]*list.Element
	lru     *list.List // Front = most recently used
}

type cacheEntry struct {
	key     string
	metrics surface.TextMetrics
}

func newMeasureCache(m surface.Measurer, maxSize int) *measureCache {
	return &measureCache{
		m:       m,
		maxSize: maxSize,
		cache:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// MeasureText implements surface.Measurer. Errors are not cached.
func (c *measureCache) MeasureText(text string, f surface.Font) (surface.TextMetrics, error) {
	key := fmt.Sprintf("%s|%g|%d|%s", f.Family, f.Size, f.Weight, text)
	if tm, ok := c.get(key); ok {
		return tm, nil
	}
	tm, err := c.m.MeasureText(text, f)
	if err != nil {
		return tm, err
	}
	c.put(key, tm)
	return tm, nil
}

func (c *measureCache) get(key string) (surface.TextMetrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).metrics, true
	}
	return surface.TextMetrics{}, false
}

func (c *measureCache) put(key string, tm surface.TextMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).metrics = tm
		return
	}

	// Evict oldest entries if at capacity
	for c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.lru.Remove(oldest)
		delete(c.cache, oldest.Value.(*cacheEntry).key)
	}

	c.cache[key] = c.lru.PushFront(&cacheEntry{key: key, metrics: tm})
}

func (c *measureCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
