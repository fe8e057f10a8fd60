package component

import (
	"reflect"
	"time"

	"github.com/go-keel/keel/pkg/errors"
)

// Component is the user-logic handle attached to a tree node. The tree
// holds it by interface, not by subclassing; behavior is discovered
// through the optional hook interfaces below.
type Component interface{}

// Context is passed to lifecycle hooks. It identifies the component and
// gives read access to the tree it lives in.
type Context struct {
	Tree *Tree
	ID   ID
}

// StateChanges describes a flushed batch of state changes targeting one
// component. The concrete type lives with the state tracker; the tree
// only needs the layout-relevance verdict and the touched fields.
type StateChanges interface {
	// Fields returns the names of the fields touched in the batch.
	Fields() []string
	// AffectsLayout reports whether any touched field is layout-relevant.
	AffectsLayout() bool
}

// BeforeMounter runs before the component's node is attached.
type BeforeMounter interface {
	BeforeMount(ctx Context)
}

// Initializer runs component-specific setup between BeforeMount and
// AfterMount.
type Initializer interface {
	Init(ctx Context)
}

// AfterMounter runs once the component is fully mounted.
type AfterMounter interface {
	AfterMount(ctx Context)
}

// Updater receives flushed state changes.
type Updater interface {
	OnUpdate(ctx Context, changes StateChanges)
}

// BeforeUnmounter runs at the start of teardown, while the component's
// children are still mounted.
type BeforeUnmounter interface {
	BeforeUnmount(ctx Context)
}

// AfterUnmounter runs after the component's children are gone and its
// bookkeeping has been removed.
type AfterUnmounter interface {
	AfterUnmount(ctx Context)
}

// Base is a no-op implementation of every hook. Embed it to implement
// only the hooks you care about.
type Base struct{}

func (Base) BeforeMount(Context)            {}
func (Base) Init(Context)                   {}
func (Base) AfterMount(Context)             {}
func (Base) OnUpdate(Context, StateChanges) {}
func (Base) BeforeUnmount(Context)          {}
func (Base) AfterUnmount(Context)           {}

// safeHook invokes a user hook with panic recovery. A panicking hook is
// reported through the error handler and otherwise ignored; user code
// must not be able to wedge the tree mid-transition.
func safeHook(c Component, hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportHookError(&errors.HookError{
				Component:  reflect.TypeOf(c).String(),
				Hook:       hook,
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()
	fn()
}
