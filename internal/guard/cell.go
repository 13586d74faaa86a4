// Package guard provides the critical-section cell shared between
// interrupt callbacks and the cooperative update loop.
//
// A Cell holds state that an interrupt handler and regular code both
// touch. Every access goes through Do, which runs the callback with the
// cell locked. Callbacks must be short: no blocking calls, no I/O, no
// nested Do on the same cell.
package guard

import "sync"

// Cell is a mutex-guarded value.
//
// Thread Safety: all methods are safe for concurrent use.
type Cell[T any] struct {
	mu sync.Mutex
	v  T
}

// New returns a Cell holding v.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{v: v}
}

// Do runs fn with exclusive access to the guarded value.
func (c *Cell[T]) Do(fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.v)
}

// Load returns a shallow copy of the guarded value.
func (c *Cell[T]) Load() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}
