// Package events maps surface-space points and regions to ordered
// component targets using the layout engine's computed rectangles, and
// routes pointer events to registered handlers with bubble-style
// fallback.
package events

import (
	"fmt"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/geometry"
)

// PointerKind identifies the kind of a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerUp
	PointerMove
	PointerCancel
)

// String returns a human-readable representation of the kind.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case PointerMove:
		return "move"
	case PointerCancel:
		return "cancel"
	default:
		return fmt.Sprintf("PointerKind(%d)", int(k))
	}
}

// PointerEvent is a platform-agnostic pointer event in surface-space
// coordinates. Target is filled in during dispatch with the component
// currently being offered the event.
type PointerEvent struct {
	Kind     PointerKind
	Position geometry.Offset
	Target   component.ID
}

// DispatchResult is the routing outcome of a pointer dispatch. It is
// not an error: an empty tree or a miss is a normal outcome.
type DispatchResult int

const (
	// NoTarget means no component's rectangle contained the event
	// position.
	NoTarget DispatchResult = iota
	// Unhandled means targets existed but none consumed the event.
	Unhandled
	// Consumed means a handler accepted the event and bubbling stopped.
	Consumed
)

// String returns a human-readable representation of the result.
func (r DispatchResult) String() string {
	switch r {
	case NoTarget:
		return "no target"
	case Unhandled:
		return "unhandled"
	case Consumed:
		return "consumed"
	default:
		return fmt.Sprintf("DispatchResult(%d)", int(r))
	}
}

// PointerHandler receives pointer events for one component. Returning
// true consumes the event and stops bubbling.
type PointerHandler interface {
	HandlePointer(ev PointerEvent) bool
}

// PointerHandlerFunc adapts a function to the PointerHandler interface.
type PointerHandlerFunc func(ev PointerEvent) bool

func (f PointerHandlerFunc) HandlePointer(ev PointerEvent) bool {
	return f(ev)
}
