// Package assets fetches, decodes and caches the audio assets of units.
package assets

import (
	"slices"
	"sync"

	"github.com/llehouerou/duet/internal/player"
)

// AssetsPerUnit is the number of assets a unit can reference: four tracks, intro and
// main each.
const AssetsPerUnit = 4 * 2

// CapacityForUnits returns the cache capacity needed for units whole units.
func CapacityForUnits(units int) int {
	return max(units, 1) * AssetsPerUnit
}

// Cache holds decoded buffers keyed by location and evicts the oldest insertion once
// full. Clear starts a new generation; inserts tagged with an older generation are
// ignored so loads started before a Clear cannot repopulate it.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	items    map[string]*player.Buffer
	gen      uint64
}

// NewCache creates a cache holding at most capacity buffers.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: max(capacity, 1),
		items:    make(map[string]*player.Buffer),
	}
}

// Get returns the cached buffer for location.
func (c *Cache) Get(location string) (*player.Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[location]
	return b, ok
}

// Generation returns the current generation.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Put inserts buf in the current generation.
func (c *Cache) Put(location string, buf *player.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(location, buf)
}

// PutIfCurrent inserts buf only if gen is still the current generation.
func (c *Cache) PutIfCurrent(gen uint64, location string, buf *player.Buffer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.put(location, buf)
	return true
}

func (c *Cache) put(location string, buf *player.Buffer) {
	if _, ok := c.items[location]; ok {
		c.items[location] = buf
		return
	}
	c.items[location] = buf
	c.order = append(c.order, location)
	for len(c.order) > c.capacity {
		delete(c.items, c.order[0])
		c.order = c.order[1:]
	}
}

// Clear drops every buffer and starts a new generation.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
	c.order = nil
	c.gen++
}

// Len returns the number of cached buffers.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns the cached locations, oldest first.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}
