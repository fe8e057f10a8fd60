package events

import (
	"testing"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/geometry"
)

func TestDispatchPointer(t *testing.T) {
	newDispatcher := func() (*Dispatcher, *[]component.ID) {
		var delivered []component.ID
		d := NewDispatcher(NewTester(layeredTree()))
		return d, &delivered
	}

	handler := func(log *[]component.ID, id component.ID, consume bool) PointerHandlerFunc {
		return func(ev PointerEvent) bool {
			if ev.Target != id {
				t.Errorf("handler for %d saw target %d", id, ev.Target)
			}
			*log = append(*log, id)
			return consume
		}
	}

	down := func(x, y float64) PointerEvent {
		return PointerEvent{Kind: PointerDown, Position: geometry.Offset{X: x, Y: y}}
	}

	t.Run("topmost consumes", func(t *testing.T) {
		d, log := newDispatcher()
		d.Register(4, handler(log, 4, true))
		d.Register(2, handler(log, 2, true))

		if got := d.DispatchPointer(1, down(20, 20)); got != Consumed {
			t.Fatalf("result = %v, want Consumed", got)
		}
		if len(*log) != 1 || (*log)[0] != 4 {
			t.Errorf("delivery log = %v, want just the topmost", *log)
		}
	})

	t.Run("bubbles on non-consumption", func(t *testing.T) {
		d, log := newDispatcher()
		d.Register(4, handler(log, 4, false))
		d.Register(2, handler(log, 2, false))
		d.Register(1, handler(log, 1, true))

		if got := d.DispatchPointer(1, down(20, 20)); got != Consumed {
			t.Fatalf("result = %v, want Consumed", got)
		}
		want := []component.ID{4, 2, 1}
		if len(*log) != len(want) {
			t.Fatalf("delivery log = %v, want %v", *log, want)
		}
		for i := range want {
			if (*log)[i] != want[i] {
				t.Errorf("log[%d] = %d, want %d", i, (*log)[i], want[i])
			}
		}
	})

	t.Run("skips targets without handlers", func(t *testing.T) {
		d, log := newDispatcher()
		d.Register(1, handler(log, 1, true))

		if got := d.DispatchPointer(1, down(20, 20)); got != Consumed {
			t.Fatalf("result = %v, want Consumed", got)
		}
		if len(*log) != 1 || (*log)[0] != 1 {
			t.Errorf("delivery log = %v", *log)
		}
	})

	t.Run("unhandled when nothing consumes", func(t *testing.T) {
		d, log := newDispatcher()
		d.Register(4, handler(log, 4, false))

		if got := d.DispatchPointer(1, down(20, 20)); got != Unhandled {
			t.Errorf("result = %v, want Unhandled", got)
		}
	})

	t.Run("no target on a miss", func(t *testing.T) {
		d, _ := newDispatcher()
		if got := d.DispatchPointer(1, down(500, 500)); got != NoTarget {
			t.Errorf("result = %v, want NoTarget", got)
		}
	})

	t.Run("panicking handler does not swallow input", func(t *testing.T) {
		d, log := newDispatcher()
		d.Register(4, PointerHandlerFunc(func(PointerEvent) bool { panic("handler boom") }))
		d.Register(2, handler(log, 2, true))

		if got := d.DispatchPointer(1, down(20, 20)); got != Consumed {
			t.Errorf("result = %v, want Consumed via the next target", got)
		}
		if len(*log) != 1 || (*log)[0] != 2 {
			t.Errorf("delivery log = %v", *log)
		}
	})

	t.Run("unregister", func(t *testing.T) {
		d, log := newDispatcher()
		d.Register(4, handler(log, 4, true))
		d.Unregister(4)

		if got := d.DispatchPointer(1, down(20, 20)); got != Unhandled {
			t.Errorf("result = %v, want Unhandled after unregister", got)
		}
	})
}
