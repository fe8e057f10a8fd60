package component

import "fmt"

// LifecycleErrorKind identifies the category of a lifecycle misuse.
// These are programmer errors: they are returned to the caller
// immediately and are never retried internally.
type LifecycleErrorKind int

const (
	// AlreadyMounted is returned when mounting a component instance that
	// is already in phase Mounting or Mounted.
	AlreadyMounted LifecycleErrorKind = iota
	// ParentNotFound is returned when the requested parent ID does not
	// exist in the tree.
	ParentNotFound
	// InvalidTransition is returned when an operation would violate the
	// phase state machine, e.g. mounting under an unmounting parent.
	InvalidTransition
)

// String returns a human-readable representation of the kind.
func (k LifecycleErrorKind) String() string {
	switch k {
	case AlreadyMounted:
		return "already mounted"
	case ParentNotFound:
		return "parent not found"
	case InvalidTransition:
		return "invalid transition"
	default:
		return fmt.Sprintf("LifecycleErrorKind(%d)", int(k))
	}
}

// LifecycleError reports a lifecycle API misuse.
type LifecycleError struct {
	// Kind categorizes the misuse.
	Kind LifecycleErrorKind
	// Op is the operation that failed (e.g., "component.Tree.Mount").
	Op string
	// ID is the component the operation targeted, when known.
	ID ID
}

func (e *LifecycleError) Error() string {
	if e.ID != None {
		return fmt.Sprintf("%s: %s (component %d)", e.Op, e.Kind, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// LifecycleErrorKindOf extracts the kind from an error, reporting false
// when err is not a LifecycleError.
func LifecycleErrorKindOf(err error) (LifecycleErrorKind, bool) {
	lifecycleErr, ok := err.(*LifecycleError)
	if !ok {
		return 0, false
	}
	return lifecycleErr.Kind, true
}
