// Package testkit provides an isolated runtime harness for tests. It
// drives the same flush and layout phases as a real frame loop without
// any platform surface.
package testkit

import (
	"testing"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/events"
	"github.com/go-keel/keel/pkg/geometry"
	"github.com/go-keel/keel/pkg/runtime"
	"github.com/go-keel/keel/pkg/state"
	"github.com/go-keel/keel/pkg/style"
)

const (
	// DefaultTestWidth is the default logical width for the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height for the test surface.
	DefaultTestHeight = 600
)

// Box is an inert component for structural tests. The label keeps
// instances distinct under the tree's identity check and shows up in
// failure output.
type Box struct {
	component.Base
	Label string
}

// NewBox creates a labeled inert component.
func NewBox(label string) *Box {
	return &Box{Label: label}
}

// RuntimeTester wraps a Runtime with a fixed surface size and pump
// helpers. Errors fail the owning test immediately.
type RuntimeTester struct {
	t       *testing.T
	runtime *runtime.Runtime
	size    geometry.Size
}

// NewWithT creates a tester bound to the given test. The runtime is
// torn down via t.Cleanup.
func NewWithT(t *testing.T, opts ...runtime.Option) *RuntimeTester {
	t.Helper()
	tester := &RuntimeTester{
		t:       t,
		runtime: runtime.New(opts...),
		size:    geometry.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
	}
	t.Cleanup(tester.cleanup)
	return tester
}

func (rt *RuntimeTester) cleanup() {
	if root := rt.runtime.Tree().Root(); root != component.None {
		_ = rt.runtime.Unmount(root)
	}
}

// Runtime exposes the underlying runtime for direct calls.
func (rt *RuntimeTester) Runtime() *runtime.Runtime {
	return rt.runtime
}

// SetSize changes the surface size used by subsequent pumps.
func (rt *RuntimeTester) SetSize(size geometry.Size) {
	rt.size = size
}

// Pump runs one frame. Failure fails the test.
func (rt *RuntimeTester) Pump() {
	rt.t.Helper()
	if err := rt.runtime.Frame(rt.size); err != nil {
		rt.t.Fatalf("Frame: %v", err)
	}
}

// MustMount mounts a component and fails the test on error.
func (rt *RuntimeTester) MustMount(parent component.ID, c component.Component, st style.Style, opts ...component.MountOption) component.ID {
	rt.t.Helper()
	id, err := rt.runtime.Mount(parent, c, st, opts...)
	if err != nil {
		rt.t.Fatalf("Mount: %v", err)
	}
	return id
}

// MountRow mounts a root row container of the given size and returns
// its ID.
func (rt *RuntimeTester) MountRow(width, height float64) component.ID {
	rt.t.Helper()
	st := style.Default()
	st.Direction = style.DirectionRow
	st.Width = style.Points(width)
	st.Height = style.Points(height)
	return rt.MustMount(component.None, NewBox(""), st)
}

// MountColumn mounts a root column container of the given size and
// returns its ID.
func (rt *RuntimeTester) MountColumn(width, height float64) component.ID {
	rt.t.Helper()
	st := style.Default()
	st.Direction = style.DirectionColumn
	st.Width = style.Points(width)
	st.Height = style.Points(height)
	return rt.MustMount(component.None, NewBox(""), st)
}

// MountChild mounts a fixed-basis child under parent.
func (rt *RuntimeTester) MountChild(parent component.ID, basis, grow float64) component.ID {
	rt.t.Helper()
	st := style.Default()
	st.Basis = style.Points(basis)
	st.Grow = grow
	return rt.MustMount(parent, NewBox(""), st)
}

// RectOf returns a component's rectangle, failing the test when the
// rectangle is unavailable.
func (rt *RuntimeTester) RectOf(id component.ID) geometry.Rect {
	rt.t.Helper()
	rect, ok := rt.runtime.RectOf(id)
	if !ok {
		rt.t.Fatalf("no computed rect for component %d", id)
	}
	return rect
}

// SetState forwards a state snapshot to the runtime.
func (rt *RuntimeTester) SetState(id component.ID, snap state.Snapshot) bool {
	return rt.runtime.SetState(id, snap)
}

// TapAt dispatches a pointer down at the given position.
func (rt *RuntimeTester) TapAt(x, y float64) events.DispatchResult {
	return rt.runtime.DispatchPointer(events.PointerEvent{
		Kind:     events.PointerDown,
		Position: geometry.Offset{X: x, Y: y},
	})
}
