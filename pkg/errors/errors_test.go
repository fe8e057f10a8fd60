package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

// captureHandler records everything reported to it.
type captureHandler struct {
	errs   []*KeelError
	panics []*PanicError
	hooks  []*HookError
}

func (h *captureHandler) HandleError(err *KeelError) { h.errs = append(h.errs, err) }

func (h *captureHandler) HandlePanic(err *PanicError) { h.panics = append(h.panics, err) }

func (h *captureHandler) HandleHookError(err *HookError) { h.hooks = append(h.hooks, err) }

func withCapture(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	SetHandler(h)
	t.Cleanup(func() { SetHandler(nil) })
	return h
}

func TestReport(t *testing.T) {
	h := withCapture(t)

	inner := stderrors.New("boom")
	Report(&KeelError{Op: "layout.Engine.Compute", Kind: KindLayout, Err: inner})

	if len(h.errs) != 1 {
		t.Fatalf("reported %d errors, want 1", len(h.errs))
	}
	got := h.errs[0]
	if got.Timestamp.IsZero() {
		t.Error("Report should fill a zero timestamp")
	}
	if !stderrors.Is(got, inner) {
		t.Error("KeelError should unwrap to the inner error")
	}
	if msg := got.Error(); !strings.Contains(msg, "layout.Engine.Compute") || !strings.Contains(msg, "layout") {
		t.Errorf("Error() = %q", msg)
	}

	Report(nil)
	if len(h.errs) != 1 {
		t.Error("nil report should be ignored")
	}
}

func TestRecover(t *testing.T) {
	h := withCapture(t)

	func() {
		defer Recover("component.Tree.Mount")
		panic("hook exploded")
	}()

	if len(h.panics) != 1 {
		t.Fatalf("recovered %d panics, want 1", len(h.panics))
	}
	got := h.panics[0]
	if got.Op != "component.Tree.Mount" || got.Value != "hook exploded" {
		t.Errorf("panic = %+v", got)
	}
	if got.StackTrace == "" {
		t.Error("panic should carry a stack trace")
	}
	if !strings.Contains(got.Error(), "hook exploded") {
		t.Errorf("Error() = %q", got.Error())
	}
}

func TestHookErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *HookError
		want string
	}{
		{
			"panic variant",
			&HookError{Component: "Counter", Hook: "Init", Recovered: "nil deref"},
			`panic in Counter.Init(): nil deref`,
		},
		{
			"error variant",
			&HookError{Component: "Counter", Hook: "OnUpdate", Err: stderrors.New("bad state")},
			`error in Counter.OnUpdate(): bad state`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetHandlerNilRestoresDefault(t *testing.T) {
	SetHandler(&captureHandler{})
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("DefaultHandler = %T, want *LogHandler", DefaultHandler)
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindLifecycle, "lifecycle"},
		{KindLayout, "layout"},
		{KindState, "state"},
		{KindDispatch, "dispatch"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
