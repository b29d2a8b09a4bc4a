// SPDX-License-Identifier: GPL-2.0-or-later

package proxy

import (
	"log"
	"runtime"
	"sync"
	"weak"

	"github.com/google/uuid"

	"gconvar/cvar"
)

// Cache maps variables to their live handle. It does not keep handles
// alive. All methods must be called from the script thread.
type Cache struct {
	byVar map[*cvar.Var]*lease
	byID  map[uuid.UUID]*lease

	onRelease func(id uuid.UUID)

	// filled by the cleanup goroutine, drained by Collect
	mu        sync.Mutex
	collected []uuid.UUID
}

func NewCache() *Cache {
	return &Cache{
		byVar: make(map[*cvar.Var]*lease),
		byID:  make(map[uuid.UUID]*lease),
	}
}

// Len returns the number of live leases.
func (c *Cache) Len() int {
	return len(c.byVar)
}

// OnRelease sets fn to be called with the ID of every released handle.
func (c *Cache) OnRelease(fn func(id uuid.UUID)) {
	c.onRelease = fn
}

func (c *Cache) enqueue(id uuid.UUID) {
	c.mu.Lock()
	c.collected = append(c.collected, id)
	c.mu.Unlock()
}

// Collect releases the leases of handles the garbage collector reclaimed.
func (c *Cache) Collect() {
	c.mu.Lock()
	ids := c.collected
	c.collected = nil
	c.mu.Unlock()
	for _, id := range ids {
		if l, ok := c.byID[id]; ok {
			log.Printf("convar handle for %s collected", l.name.original)
			c.release(l)
		}
	}
}

func (c *Cache) release(l *lease) {
	if l.released {
		return
	}
	l.released = true
	l.restore()
	if h := l.handle.Value(); h != nil {
		h.fields = nil
	}
	delete(c.byID, l.id)
	if c.byVar[l.v] == l {
		delete(c.byVar, l.v)
	}
	if c.onRelease != nil {
		c.onRelease(l.id)
	}
}

// Resolve returns the handle for v, creating it on first use. It returns
// nil for a nil v.
func (c *Cache) Resolve(v *cvar.Var) *Handle {
	if v == nil {
		return nil
	}
	c.Collect()
	if l, ok := c.byVar[v]; ok {
		if h := l.handle.Value(); h != nil {
			return h
		}
		// unreachable but the cleanup did not run yet
		c.release(l)
	}
	l := &lease{
		id:   uuid.Must(uuid.NewV7()),
		v:    v,
		name: override{original: v.Name()},
		help: override{original: v.Help()},
	}
	h := &Handle{l: l}
	l.handle = weak.Make(h)
	c.byVar[v] = l
	c.byID[l.id] = l
	runtime.AddCleanup(h, c.enqueue, l.id)
	return h
}

// Destroy detaches h and restores what it overrode. It returns the variable
// h referred to, or nil if h was already detached.
func (c *Cache) Destroy(h *Handle) *cvar.Var {
	v, err := h.Var()
	if err != nil {
		return nil
	}
	c.release(h.l)
	h.l = nil
	return v
}

// Close releases every live lease. Handles still held by scripts become
// invalid.
func (c *Cache) Close() {
	c.Collect()
	for _, l := range c.byVar {
		c.release(l)
	}
}
