package engine

import (
	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/planner"
)

type cacheEntry struct {
	sql  string
	plan *planner.ExecutionPlan
}

// planCache keeps up to capacity plans and evicts the oldest insertion
// first. Entries carry their query text so hash collisions are misses.
type planCache struct {
	latch    common.ReaderWriterLatch
	capacity int
	entries  map[uint64]cacheEntry
	fifo     []uint64
}

func newPlanCache(capacity int, latch common.ReaderWriterLatch) *planCache {
	return &planCache{
		latch:    latch,
		capacity: capacity,
		entries:  make(map[uint64]cacheEntry),
		fifo:     make([]uint64, 0),
	}
}

func (c *planCache) get(key uint64, sql string) (*planner.ExecutionPlan, bool) {
	c.latch.RLock()
	defer c.latch.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.sql != sql {
		return nil, false
	}
	return e.plan, true
}

func (c *planCache) put(key uint64, sql string, plan *planner.ExecutionPlan) {
	if c.capacity <= 0 {
		return
	}
	c.latch.WLock()
	defer c.latch.WUnlock()
	if _, ok := c.entries[key]; !ok {
		c.fifo = append(c.fifo, key)
	}
	c.entries[key] = cacheEntry{sql, plan}
	for len(c.fifo) > c.capacity {
		delete(c.entries, c.fifo[0])
		c.fifo = c.fifo[1:]
	}
}

func (c *planCache) len() int {
	c.latch.RLock()
	defer c.latch.RUnlock()
	return len(c.entries)
}

func (c *planCache) clear() {
	c.latch.WLock()
	defer c.latch.WUnlock()
	c.entries = make(map[uint64]cacheEntry)
	c.fifo = c.fifo[:0]
}
