package preview

import (
	"sync"

	"nestor-draft/internal/entity"
)

// Cell is the preview side-channel: a single mutable slot written by
// the drawing facade and polled directly by the render layer every
// frame, bypassing the event path for per-frame responsiveness. It is
// intended for exactly that one consumer; the lock only covers the
// render goroutine reading while the input goroutine writes.
type Cell struct {
	mu sync.RWMutex
	e  *entity.Entity
}

// Set stores the current candidate (nil clears).
func (c *Cell) Set(e *entity.Entity) {
	c.mu.Lock()
	c.e = e
	c.mu.Unlock()
}

// Get returns the current candidate, or nil.
func (c *Cell) Get() *entity.Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.e
}

// Clear empties the cell.
func (c *Cell) Clear() {
	c.Set(nil)
}
