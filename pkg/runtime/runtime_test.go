package runtime_test

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/events"
	"github.com/go-keel/keel/pkg/geometry"
	"github.com/go-keel/keel/pkg/runtime"
	"github.com/go-keel/keel/pkg/state"
	"github.com/go-keel/keel/pkg/style"
	"github.com/go-keel/keel/pkg/testkit"
)

// counter tracks OnUpdate deliveries.
type counter struct {
	component.Base
	updates []component.StateChanges
}

func (c *counter) OnUpdate(_ component.Context, changes component.StateChanges) {
	c.updates = append(c.updates, changes)
}

func TestBatchingContract(t *testing.T) {
	rt := testkit.NewWithT(t)
	root := rt.MountRow(300, 60)

	c := &counter{}
	child := style.Default()
	child.Basis = style.Points(100)
	id := rt.MustMount(root, c, child)

	rt.Runtime().Record(id, state.Snapshot{"count": 0})
	rt.Pump()
	firstPass := rt.Runtime().Stats().Recomputed

	// N synchronous mutations, one update delivery, one layout pass.
	rt.SetState(id, state.Snapshot{"count": 1})
	rt.SetState(id, state.Snapshot{"count": 2})
	rt.SetState(id, state.Snapshot{"count": 3})
	rt.Pump()

	if len(c.updates) != 1 {
		t.Fatalf("OnUpdate fired %d times, want 1", len(c.updates))
	}
	fields := c.updates[0].Fields()
	if len(fields) != 1 || fields[0] != "count" {
		t.Errorf("coalesced fields = %v", fields)
	}
	if firstPass == 0 {
		t.Error("initial pump did not lay anything out")
	}

	// A layout-neutral change leaves the whole tree cached.
	if got := rt.Runtime().Stats().Recomputed; got != 0 {
		t.Errorf("layout-neutral flush recomputed %d nodes", got)
	}
}

// resizer widens itself when its "width" state field changes.
type resizer struct {
	component.Base
}

func (r *resizer) OnUpdate(ctx component.Context, changes component.StateChanges) {
	if fc, ok := changes.(*state.Changes).Field("width"); ok {
		st := ctx.Tree.Get(ctx.ID).Style()
		st.Basis = style.Points(fc.New.(float64))
		ctx.Tree.SetStyle(ctx.ID, st)
	}
}

func TestStateDrivenRelayout(t *testing.T) {
	rt := testkit.NewWithT(t)
	root := rt.MountRow(400, 60)

	r := &resizer{}
	st := style.Default()
	st.Basis = style.Points(100)
	id := rt.MustMount(root, r, st)

	rt.Runtime().Record(id, state.Snapshot{"width": 100.0})
	rt.Runtime().DeclareLayoutFields(id, "width")
	rt.Pump()

	if got := rt.RectOf(id).Width(); got != 100 {
		t.Fatalf("initial width = %g", got)
	}

	rt.SetState(id, state.Snapshot{"width": 250.0})
	rt.Pump()

	if got := rt.RectOf(id).Width(); got != 250 {
		t.Errorf("width after state-driven restyle = %g, want 250", got)
	}
}

func TestPostFromGoroutine(t *testing.T) {
	rt := testkit.NewWithT(t)
	root := rt.MountRow(300, 60)

	c := &counter{}
	id := rt.MustMount(root, c, style.Default())
	rt.Runtime().Record(id, state.Snapshot{"ticks": 0})
	rt.Pump()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rt.Runtime().Post(id, state.Snapshot{"ticks": 1})
	}()
	wg.Wait()

	if !rt.Runtime().HasPending() {
		t.Fatal("posted change not pending")
	}
	rt.Pump()

	if len(c.updates) != 1 {
		t.Fatalf("posted change delivered %d times, want 1", len(c.updates))
	}
}

func TestDispatchThroughLayout(t *testing.T) {
	rt := testkit.NewWithT(t)
	root := rt.MountRow(300, 100)
	left := rt.MountChild(root, 100, 0)
	right := rt.MountChild(root, 100, 0)
	rt.Pump()

	var delivered []component.ID
	consume := func(id component.ID) events.PointerHandlerFunc {
		return func(ev events.PointerEvent) bool {
			delivered = append(delivered, id)
			return true
		}
	}
	rt.Runtime().OnPointer(left, consume(left))
	rt.Runtime().OnPointer(right, consume(right))

	if got := rt.TapAt(50, 50); got != events.Consumed {
		t.Fatalf("tap on left child = %v", got)
	}
	if got := rt.TapAt(150, 50); got != events.Consumed {
		t.Fatalf("tap on right child = %v", got)
	}
	if len(delivered) != 2 || delivered[0] != left || delivered[1] != right {
		t.Errorf("delivery order = %v, want [%d %d]", delivered, left, right)
	}

	if got := rt.TapAt(250, 50); got != events.Unhandled {
		t.Errorf("tap on bare root = %v, want Unhandled", got)
	}
	if got := rt.TapAt(1000, 1000); got != events.NoTarget {
		t.Errorf("tap outside = %v, want NoTarget", got)
	}
}

func TestZOrderThroughLayout(t *testing.T) {
	rt := testkit.NewWithT(t)
	root := rt.MountRow(200, 200)

	overlay := style.Default()
	overlay.Position = style.PositionAbsolute
	overlay.Left = style.Points(0)
	overlay.Top = style.Points(0)
	overlay.Width = style.Points(100)
	overlay.Height = style.Points(100)

	under := rt.MustMount(root, testkit.NewBox("under"), overlay)
	over := rt.MustMount(root, testkit.NewBox("over"), overlay)
	rt.Pump()

	hits := rt.Runtime().HitTestPoint(geometry.Offset{X: 50, Y: 50}).IDs()
	if len(hits) != 3 || hits[0] != over || hits[1] != under {
		t.Errorf("hit order = %v, want later-added child first", hits)
	}
}

func TestUnmountCleansUp(t *testing.T) {
	rt := testkit.NewWithT(t)
	root := rt.MountRow(300, 100)
	child := rt.MountChild(root, 100, 0)
	rt.Runtime().Record(child, state.Snapshot{"v": 0})
	rt.Runtime().OnPointer(child, events.PointerHandlerFunc(func(events.PointerEvent) bool { return true }))
	rt.Pump()

	if err := rt.Runtime().Unmount(child); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	rt.Pump()

	if _, ok := rt.Runtime().RectOf(child); ok {
		t.Error("unmounted component still has a rect")
	}
	if got := rt.TapAt(50, 50); got == events.Consumed {
		t.Error("stale pointer handler consumed an event")
	}
	// A stale snapshot must not resurrect the component on flush.
	rt.Runtime().SetState(child, state.Snapshot{"v": 1})
	rt.Pump()
}

// reentrant calls Frame from inside its own update hook.
type reentrant struct {
	component.Base
	frame func() error
	err   error
}

func (r *reentrant) OnUpdate(component.Context, component.StateChanges) {
	r.err = r.frame()
}

func TestReentrantFrameRejected(t *testing.T) {
	rt := testkit.NewWithT(t)
	root := rt.MountRow(300, 100)

	size := geometry.Size{Width: 300, Height: 100}
	c := &reentrant{frame: func() error { return rt.Runtime().Frame(size) }}
	id := rt.MustMount(root, c, style.Default())
	rt.Runtime().Record(id, state.Snapshot{"v": 0})
	rt.Pump()

	rt.SetState(id, state.Snapshot{"v": 1})
	rt.Pump()

	if !stderrors.Is(c.err, runtime.ErrReentrantFrame) {
		t.Errorf("nested Frame error = %v, want ErrReentrantFrame", c.err)
	}
}

func TestCachedFrames(t *testing.T) {
	rt := testkit.NewWithT(t)
	root := rt.MountRow(400, 100)
	for i := 0; i < 3; i++ {
		rt.MountChild(root, 100, 0)
	}
	rt.Pump()
	rt.Pump()

	stats := rt.Runtime().Stats()
	if stats.Recomputed != 0 {
		t.Errorf("idle frame recomputed %d nodes", stats.Recomputed)
	}
	if stats.CacheHits != 4 {
		t.Errorf("idle frame cache hits = %d, want 4", stats.CacheHits)
	}
}
