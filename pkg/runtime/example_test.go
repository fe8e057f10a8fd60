package runtime_test

import (
	"fmt"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/events"
	"github.com/go-keel/keel/pkg/geometry"
	"github.com/go-keel/keel/pkg/runtime"
	"github.com/go-keel/keel/pkg/state"
	"github.com/go-keel/keel/pkg/style"
)

// sidebar is a minimal component with no hook behavior.
type sidebar struct {
	component.Base
}

// This example builds a two-pane row, runs a frame, and reads the
// computed rectangles.
func ExampleRuntime_Frame() {
	rt := runtime.New()

	rootStyle := style.Default()
	rootStyle.Direction = style.DirectionRow
	rootStyle.Width = style.Points(300)
	rootStyle.Height = style.Points(100)
	root, _ := rt.Mount(component.None, &sidebar{}, rootStyle)

	paneStyle := style.Default()
	paneStyle.Basis = style.Points(100)
	pane, _ := rt.Mount(root, &sidebar{}, paneStyle)

	contentStyle := style.Default()
	contentStyle.Grow = 1
	content, _ := rt.Mount(root, &sidebar{}, contentStyle)

	_ = rt.Frame(geometry.Size{Width: 800, Height: 600})

	paneRect, _ := rt.RectOf(pane)
	contentRect, _ := rt.RectOf(content)
	fmt.Printf("pane %gx%g, content %gx%g\n",
		paneRect.Width(), paneRect.Height(), contentRect.Width(), contentRect.Height())
	// Output: pane 100x100, content 200x100
}

// This example routes a pointer event to the component under it.
func ExampleRuntime_DispatchPointer() {
	rt := runtime.New()

	rootStyle := style.Default()
	rootStyle.Width = style.Points(200)
	rootStyle.Height = style.Points(200)
	root, _ := rt.Mount(component.None, &sidebar{}, rootStyle)
	_ = rt.Frame(geometry.Size{Width: 800, Height: 600})

	rt.OnPointer(root, events.PointerHandlerFunc(func(ev events.PointerEvent) bool {
		fmt.Printf("tap at %g,%g\n", ev.Position.X, ev.Position.Y)
		return true
	}))

	result := rt.DispatchPointer(events.PointerEvent{
		Kind:     events.PointerDown,
		Position: geometry.Offset{X: 50, Y: 50},
	})
	fmt.Println(result)
	// Output:
	// tap at 50,50
	// consumed
}

// This example posts a state change from a background goroutine; the
// change is applied on the next frame.
func ExampleRuntime_Post() {
	rt := runtime.New()
	root, _ := rt.Mount(component.None, &sidebar{}, style.Default())
	rt.Record(root, state.Snapshot{"progress": 0})

	done := make(chan struct{})
	go func() {
		rt.Post(root, state.Snapshot{"progress": 100})
		close(done)
	}()
	<-done

	_ = rt.Frame(geometry.Size{Width: 800, Height: 600})
	fmt.Println(rt.HasPending())
	// Output: false
}
