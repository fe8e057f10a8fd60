package events

import (
	"time"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/errors"
)

// Dispatcher routes pointer events to registered handlers. Delivery is
// topmost-first over the hit-test result; a target that does not
// consume the event passes it to the next entry, bubble style.
type Dispatcher struct {
	tester   *Tester
	handlers map[component.ID]PointerHandler
}

// NewDispatcher creates a dispatcher over the given hit tester.
func NewDispatcher(tester *Tester) *Dispatcher {
	return &Dispatcher{
		tester:   tester,
		handlers: make(map[component.ID]PointerHandler),
	}
}

// Register installs the pointer handler for a component, replacing any
// previous one.
func (d *Dispatcher) Register(id component.ID, h PointerHandler) {
	if h == nil {
		delete(d.handlers, id)
		return
	}
	d.handlers[id] = h
}

// Unregister removes a component's pointer handler.
func (d *Dispatcher) Unregister(id component.ID) {
	delete(d.handlers, id)
}

// DispatchPointer hit-tests the event position and delivers the event
// front to back until a handler consumes it. Components without a
// handler are skipped. A panicking handler is reported and treated as
// non-consuming so one faulty component cannot swallow input.
func (d *Dispatcher) DispatchPointer(root component.ID, ev PointerEvent) DispatchResult {
	hits := d.tester.HitTestPoint(root, ev.Position)
	if len(hits) == 0 {
		return NoTarget
	}

	for _, entry := range hits {
		handler, ok := d.handlers[entry.ID]
		if !ok {
			continue
		}
		ev.Target = entry.ID
		if d.deliver(handler, ev) {
			return Consumed
		}
	}
	return Unhandled
}

func (d *Dispatcher) deliver(handler PointerHandler, ev PointerEvent) (consumed bool) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportPanic(&errors.PanicError{
				Op:         "events.Dispatcher.DispatchPointer",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			consumed = false
		}
	}()
	return handler.HandlePointer(ev)
}
