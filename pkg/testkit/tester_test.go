package testkit

import (
	"testing"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/geometry"
	"github.com/go-keel/keel/pkg/style"
)

func TestPumpLaysOutMountedTree(t *testing.T) {
	rt := NewWithT(t)
	root := rt.MountRow(300, 60)
	a := rt.MountChild(root, 100, 0)
	b := rt.MountChild(root, 100, 1)
	rt.Pump()

	if got := rt.RectOf(a); got.Left != 0 || got.Width() != 100 {
		t.Errorf("first child rect = %+v", got)
	}
	if got := rt.RectOf(b); got.Left != 100 || got.Width() != 200 {
		t.Errorf("growing child rect = %+v", got)
	}
}

func TestSetSize(t *testing.T) {
	rt := NewWithT(t)

	// Content-sized root: capped by the surface.
	st := style.Default()
	st.Height = style.Points(100)
	root := rt.MustMount(component.None, NewBox("root"), st)
	rt.MountChild(root, 500, 0)

	rt.SetSize(geometry.Size{Width: 200, Height: 200})
	rt.Pump()

	if got := rt.RectOf(root).Width(); got != 200 {
		t.Errorf("content-sized root width = %g, want surface cap 200", got)
	}
}
