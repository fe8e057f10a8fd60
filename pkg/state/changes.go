// Package state detects component state changes, batches them, and
// flushes them in a deterministic, duplicate-free order. Batching is the
// core performance contract: N synchronous mutations to a component
// within one window produce exactly one update cycle and one layout
// recomputation, not N.
package state

import "github.com/go-keel/keel/pkg/component"

// Snapshot is a component's observable state at a point in time, keyed
// by field name. Values are compared by deep equality during diffing.
// Snapshots are superseded on each flush.
type Snapshot map[string]any

// Clone returns a shallow copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FieldChange records one field's transition within a batch. When the
// same field changes repeatedly in a window, Old keeps the value from
// before the first change and New the value after the last
// (last-write-wins).
type FieldChange struct {
	Old any
	New any
}

// Changes is the coalesced change set for one component within a
// batching window. It implements component.StateChanges.
type Changes struct {
	id            component.ID
	fields        map[string]FieldChange
	order         []string // first-touch order, for deterministic iteration
	affectsLayout bool
}

// ID returns the component the changes target.
func (c *Changes) ID() component.ID {
	return c.id
}

// Fields returns the touched field names in first-touch order.
func (c *Changes) Fields() []string {
	return c.order
}

// Field returns the recorded transition for a field name.
func (c *Changes) Field(name string) (FieldChange, bool) {
	fc, ok := c.fields[name]
	return fc, ok
}

// AffectsLayout reports whether any touched field was declared
// layout-relevant.
func (c *Changes) AffectsLayout() bool {
	return c.affectsLayout
}

// Len returns the number of touched fields.
func (c *Changes) Len() int {
	return len(c.order)
}

// merge folds other into c: union of touched fields, last-write-wins per
// field, earliest Old preserved.
func (c *Changes) merge(other *Changes) {
	for _, name := range other.order {
		incoming := other.fields[name]
		if existing, ok := c.fields[name]; ok {
			c.fields[name] = FieldChange{Old: existing.Old, New: incoming.New}
		} else {
			c.fields[name] = incoming
			c.order = append(c.order, name)
		}
	}
	c.affectsLayout = c.affectsLayout || other.affectsLayout
}
