package layout

import (
	"fmt"

	"github.com/go-keel/keel/pkg/component"
)

// LayoutErrorKind identifies the category of a layout failure.
type LayoutErrorKind int

const (
	// CyclicReference means a node was discovered as its own ancestor
	// during traversal. Construction prevents this, so a hit is a
	// tree-construction defect and the error is fatal.
	CyclicReference LayoutErrorKind = iota
	// UnknownNode means the requested node does not exist in the layout
	// tree.
	UnknownNode
	// DuplicateNode means a node was added with an ID that already
	// exists in the layout tree.
	DuplicateNode
	// UnresolvedDimension means a percentage dimension was requested
	// against an undefined container extent. Recoverable: the value
	// resolves to zero and a diagnostic is recorded.
	UnresolvedDimension
)

// String returns a human-readable representation of the kind.
func (k LayoutErrorKind) String() string {
	switch k {
	case CyclicReference:
		return "cyclic reference"
	case UnknownNode:
		return "unknown node"
	case DuplicateNode:
		return "duplicate node"
	case UnresolvedDimension:
		return "unresolved dimension"
	default:
		return fmt.Sprintf("LayoutErrorKind(%d)", int(k))
	}
}

// LayoutError reports a layout computation failure.
type LayoutError struct {
	Kind LayoutErrorKind
	Op   string
	ID   component.ID
}

func (e *LayoutError) Error() string {
	if e.ID != component.None {
		return fmt.Sprintf("%s: %s (node %d)", e.Op, e.Kind, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Diagnostic records a recovered, degraded-layout condition. The pass
// continues; the affected region resolves to a visibly zero-sized box so
// the defect is locally debuggable without breaking the rest of the UI.
type Diagnostic struct {
	Kind    LayoutErrorKind
	ID      component.ID
	Field   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("node %d %s: %s (%s)", d.ID, d.Field, d.Kind, d.Message)
}
