package state

import (
	stderrors "errors"
	"reflect"
	"sort"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/errors"
)

// Pending is one drained entry from a flush.
type Pending struct {
	ID      component.ID
	Changes *Changes
}

// Tracker owns per-component state snapshots and the pending-change
// buffer. Single-threaded: all calls must come from the frame goroutine.
type Tracker struct {
	snapshots    map[component.ID]Snapshot
	layoutFields map[component.ID]map[string]bool

	pending  map[component.ID]*Changes
	order    []component.ID // insertion order of first change in the batch
	flushing bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		snapshots:    make(map[component.ID]Snapshot),
		layoutFields: make(map[component.ID]map[string]bool),
		pending:      make(map[component.ID]*Changes),
	}
}

// DeclareLayoutFields marks fields of a component as layout-relevant:
// a flushed change touching any of them dirties the layout node.
func (t *Tracker) DeclareLayoutFields(id component.ID, fields ...string) {
	set := t.layoutFields[id]
	if set == nil {
		set = make(map[string]bool, len(fields))
		t.layoutFields[id] = set
	}
	for _, f := range fields {
		set[f] = true
	}
}

// Record sets the baseline snapshot for a component without producing
// changes. Called at mount time.
func (t *Tracker) Record(id component.ID, snap Snapshot) {
	t.snapshots[id] = snap.Clone()
}

// Forget drops all tracking for a component. Called at unmount time.
func (t *Tracker) Forget(id component.ID) {
	delete(t.snapshots, id)
	delete(t.layoutFields, id)
	if _, ok := t.pending[id]; ok {
		delete(t.pending, id)
		for i, pendingID := range t.order {
			if pendingID == id {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
}

// DetectChanges diffs a snapshot against the recorded baseline. Returns
// (nil, false) when nothing changed by deep equality over the tracked
// fields. The baseline is not advanced; use Set for the full
// detect+batch+advance cycle.
func (t *Tracker) DetectChanges(id component.ID, snap Snapshot) (*Changes, bool) {
	previous := t.snapshots[id]

	changes := &Changes{id: id, fields: make(map[string]FieldChange)}
	layoutSet := t.layoutFields[id]

	// Deterministic field order: sorted union of old and new keys.
	names := make(map[string]bool, len(previous)+len(snap))
	for name := range previous {
		names[name] = true
	}
	for name := range snap {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		oldValue, hadOld := previous[name]
		newValue, hasNew := snap[name]
		if hadOld && hasNew && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		if !hadOld && !hasNew {
			continue
		}
		changes.fields[name] = FieldChange{Old: oldValue, New: newValue}
		changes.order = append(changes.order, name)
		if layoutSet[name] {
			changes.affectsLayout = true
		}
	}

	if len(changes.order) == 0 {
		return nil, false
	}
	return changes, true
}

// Set diffs, batches, and advances the baseline in one step. This is the
// entry point async work re-enters through: post a new snapshot here and
// the change reaches the component on the next flush.
func (t *Tracker) Set(id component.ID, snap Snapshot) bool {
	changes, changed := t.DetectChanges(id, snap)
	if !changed {
		return false
	}
	t.snapshots[id] = snap.Clone()
	t.Batch(changes)
	return true
}

// Batch appends changes to the per-component pending buffer. Multiple
// changes to the same component within one window coalesce into a single
// logical change set rather than firing multiple update cycles.
func (t *Tracker) Batch(changes *Changes) {
	if changes == nil || changes.Len() == 0 {
		return
	}
	if existing, ok := t.pending[changes.id]; ok {
		existing.merge(changes)
		return
	}
	t.pending[changes.id] = changes
	t.order = append(t.order, changes.id)
}

// HasPending reports whether the buffer holds undelivered changes.
func (t *Tracker) HasPending() bool {
	return len(t.order) > 0
}

// Flush drains the pending buffer in insertion order of first change and
// clears it. Flushing an empty buffer is a no-op, not an error. Flush
// must not be re-entered: a flush triggered while one is in progress is
// reported and ignored.
func (t *Tracker) Flush() []Pending {
	if t.flushing {
		errors.Report(&errors.KeelError{
			Op:   "state.Tracker.Flush",
			Kind: errors.KindState,
			Err:  stderrors.New("re-entrant flush ignored"),
		})
		return nil
	}
	if len(t.order) == 0 {
		return nil
	}

	t.flushing = true
	defer func() { t.flushing = false }()

	drained := make([]Pending, 0, len(t.order))
	for _, id := range t.order {
		if changes := t.pending[id]; changes != nil {
			drained = append(drained, Pending{ID: id, Changes: changes})
		}
	}
	t.pending = make(map[component.ID]*Changes)
	t.order = nil
	return drained
}
