package component

import "sync/atomic"

// ID is a process-unique component identifier. IDs are allocated
// monotonically and never reused; 0 is never a valid ID and doubles as
// the "no parent" marker. The ID is the join key across the component
// tree, the layout tree, and the event system.
type ID uint64

// None is the zero ID, used for "no parent" and "no target".
const None ID = 0

// IDAllocator hands out component IDs from an atomic counter.
//
// Allocators are injectable so tests get deterministic IDs; Reset exists
// for exactly that purpose and must not be called while components from
// the previous epoch are still alive.
type IDAllocator struct {
	next atomic.Uint64
}

// NewIDAllocator creates an allocator starting at 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh, never-before-seen ID.
func (a *IDAllocator) Next() ID {
	return ID(a.next.Add(1))
}

// Reset rewinds the counter. Test use only.
func (a *IDAllocator) Reset() {
	a.next.Store(0)
}
