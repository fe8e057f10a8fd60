// Package runtime wires the component tree, state tracker, layout
// engine, and event system into one single-threaded frame cycle:
// flush pending state, apply updates, compute layout, then serve hit
// tests against the fresh rectangles.
package runtime

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/config"
	"github.com/go-keel/keel/pkg/errors"
	"github.com/go-keel/keel/pkg/events"
	"github.com/go-keel/keel/pkg/geometry"
	"github.com/go-keel/keel/pkg/layout"
	"github.com/go-keel/keel/pkg/state"
	"github.com/go-keel/keel/pkg/style"
)

// Option customizes runtime construction.
type Option func(*options)

type options struct {
	layoutOpts []layout.Option
	strategy   events.Strategy
}

// WithConfig applies resolved project configuration to the runtime's
// engine policy choices.
func WithConfig(cfg *config.Resolved) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.layoutOpts = append(o.layoutOpts,
			layout.WithContentResizePropagation(cfg.PropagateContentResize))
		if cfg.DiagnosticLimit > 0 {
			o.layoutOpts = append(o.layoutOpts,
				layout.WithDiagnosticLimit(cfg.DiagnosticLimit))
		}
	}
}

// WithLayoutOptions passes options through to the layout engine.
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(o *options) {
		o.layoutOpts = append(o.layoutOpts, opts...)
	}
}

// WithHitTestStrategy selects the hit tester's traversal strategy.
func WithHitTestStrategy(s events.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// Runtime is the coordinating object that owns all core state. Every
// method must be called from the runtime's single thread; goroutines
// re-enter only through Post.
type Runtime struct {
	alloc      *component.IDAllocator
	tree       *component.Tree
	tracker    *state.Tracker
	engine     *layout.Engine
	tester     *events.Tester
	dispatcher *events.Dispatcher

	inFrame bool

	postMu sync.Mutex
	posted []posted
}

type posted struct {
	id   component.ID
	snap state.Snapshot
}

// ErrReentrantFrame is returned when Frame is called while a frame is
// already in progress. The cycle is not safely resumable from partial
// state, so re-entry is rejected rather than nested.
var ErrReentrantFrame = stderrors.New("frame already in progress")

// New creates a runtime with an empty tree.
func New(opts ...Option) *Runtime {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	alloc := component.NewIDAllocator()
	engine := layout.NewEngine(o.layoutOpts...)
	tester := events.NewTester(engine)
	tester.SetStrategy(o.strategy)

	return &Runtime{
		alloc:      alloc,
		tree:       component.NewTree(alloc, engine),
		tracker:    state.NewTracker(),
		engine:     engine,
		tester:     tester,
		dispatcher: events.NewDispatcher(tester),
	}
}

// Tree exposes the component tree for direct inspection.
func (r *Runtime) Tree() *component.Tree {
	return r.tree
}

// Mount adds a component under parent (component.None for the root).
func (r *Runtime) Mount(parent component.ID, c component.Component, st style.Style, opts ...component.MountOption) (component.ID, error) {
	return r.tree.Mount(parent, c, st, opts...)
}

// Unmount removes a component and its subtree, along with its state
// baseline and pointer handler.
func (r *Runtime) Unmount(id component.ID) error {
	for _, descendant := range r.collectSubtree(id) {
		r.tracker.Forget(descendant)
		r.dispatcher.Unregister(descendant)
	}
	return r.tree.Unmount(id)
}

func (r *Runtime) collectSubtree(id component.ID) []component.ID {
	if r.tree.Get(id) == nil {
		return nil
	}
	ids := []component.ID{id}
	for _, child := range r.tree.Children(id) {
		ids = append(ids, r.collectSubtree(child)...)
	}
	return ids
}

// Record establishes a component's state baseline for change detection.
func (r *Runtime) Record(id component.ID, snap state.Snapshot) {
	r.tracker.Record(id, snap)
}

// DeclareLayoutFields marks state fields whose changes dirty layout.
func (r *Runtime) DeclareLayoutFields(id component.ID, fields ...string) {
	r.tracker.DeclareLayoutFields(id, fields...)
}

// SetState diffs the snapshot against the baseline and batches any
// changes for the next Frame. Reports whether anything changed.
func (r *Runtime) SetState(id component.ID, snap state.Snapshot) bool {
	return r.tracker.Set(id, snap)
}

// SetStyle replaces a component's layout style, dirtying its subtree.
func (r *Runtime) SetStyle(id component.ID, st style.Style) {
	r.tree.SetStyle(id, st)
}

// Post queues a state change from any goroutine. It is applied at the
// start of the next Frame, which is the only way asynchronous work may
// re-enter the core.
func (r *Runtime) Post(id component.ID, snap state.Snapshot) {
	r.postMu.Lock()
	r.posted = append(r.posted, posted{id: id, snap: snap})
	r.postMu.Unlock()
}

// Frame runs one cycle: drain posted changes, flush the batch through
// component update hooks, then compute layout for the available size.
// N synchronous mutations produce exactly one computation.
func (r *Runtime) Frame(available geometry.Size) error {
	const op = "runtime.Runtime.Frame"
	if r.inFrame {
		err := &errors.KeelError{Op: op, Kind: errors.KindState, Err: ErrReentrantFrame, Timestamp: time.Now()}
		errors.Report(err)
		return err
	}
	r.inFrame = true
	defer func() { r.inFrame = false }()

	r.drainPosted()

	for _, pending := range r.tracker.Flush() {
		r.tree.OnUpdate(pending.ID, pending.Changes)
	}

	root := r.tree.Root()
	if root == component.None {
		return nil
	}
	if err := r.engine.Compute(root, available); err != nil {
		return err
	}
	r.tester.Invalidate()
	return nil
}

func (r *Runtime) drainPosted() {
	r.postMu.Lock()
	queued := r.posted
	r.posted = nil
	r.postMu.Unlock()

	for _, p := range queued {
		r.tracker.Set(p.id, p.snap)
	}
}

// HasPending reports whether state changes await the next Frame.
func (r *Runtime) HasPending() bool {
	r.postMu.Lock()
	queued := len(r.posted) > 0
	r.postMu.Unlock()
	return queued || r.tracker.HasPending()
}

// OnPointer installs a component's pointer handler.
func (r *Runtime) OnPointer(id component.ID, h events.PointerHandler) {
	r.dispatcher.Register(id, h)
}

// DispatchPointer routes a pointer event through hit testing. Valid
// only between frames; rectangles reflect the last Compute.
func (r *Runtime) DispatchPointer(ev events.PointerEvent) events.DispatchResult {
	return r.dispatcher.DispatchPointer(r.tree.Root(), ev)
}

// HitTestPoint returns the components under a point, front to back.
func (r *Runtime) HitTestPoint(pt geometry.Offset) events.HitResult {
	return r.tester.HitTestPoint(r.tree.Root(), pt)
}

// HitTestRegion returns the components intersecting a rectangle,
// deepest first.
func (r *Runtime) HitTestRegion(region geometry.Rect) events.HitResult {
	return r.tester.HitTestRegion(r.tree.Root(), region)
}

// RectOf returns a component's computed rectangle from the last Frame.
func (r *Runtime) RectOf(id component.ID) (geometry.Rect, bool) {
	return r.engine.RectOf(id)
}

// Stats reports the work done by the most recent layout pass.
func (r *Runtime) Stats() layout.Stats {
	return r.engine.Stats()
}

// Diagnostics returns degraded-layout reports from the last pass.
func (r *Runtime) Diagnostics() []layout.Diagnostic {
	return r.engine.Diagnostics()
}
