package layout

import (
	"time"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/geometry"
	"github.com/go-keel/keel/pkg/style"
)

const defaultDiagnosticLimit = 64

// Option customizes engine construction.
type Option func(*Engine)

// WithContentResizePropagation controls whether marking a node dirty
// also re-dirties content-sized ancestors, letting their size track the
// changed content. Enabled by default; the switch exists because the
// choice materially affects dirty minimality.
func WithContentResizePropagation(enabled bool) Option {
	return func(e *Engine) {
		e.propagateContentResize = enabled
	}
}

// WithDiagnosticLimit bounds the retained diagnostics per pass.
func WithDiagnosticLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.diagnosticLimit = n
		}
	}
}

// Engine owns the layout node table and performs the flexbox algorithm
// with caching and incremental recomputation. Single-threaded; external
// readers consume rects only after Compute returns.
//
// Engine implements component.LayoutBinding so the component tree keeps
// it in sync on mount/unmount/style changes.
type Engine struct {
	nodes map[component.ID]*node

	propagateContentResize bool
	diagnosticLimit        int

	stats       Stats
	diagnostics []Diagnostic
	dropped     int // diagnostics beyond the limit

	warnedUnboundedFlex bool
}

// NewEngine creates an empty layout engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		nodes:                  make(map[component.ID]*node),
		propagateContentResize: true,
		diagnosticLimit:        defaultDiagnosticLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Len returns the number of layout nodes.
func (e *Engine) Len() int {
	return len(e.nodes)
}

// AddNode creates the layout node for a newly mounted component under
// the nearest layout-participating ancestor (None for the root).
func (e *Engine) AddNode(id, parent component.ID, st style.Style) error {
	const op = "layout.Engine.AddNode"
	if _, exists := e.nodes[id]; exists {
		return &LayoutError{Kind: DuplicateNode, Op: op, ID: id}
	}
	if parent != component.None && e.nodes[parent] == nil {
		return &LayoutError{Kind: UnknownNode, Op: op, ID: parent}
	}

	n := &node{
		id:        id,
		parent:    parent,
		style:     st,
		styleHash: st.Hash(),
		selfDirty: true,
	}
	e.nodes[id] = n
	if parentNode := e.nodes[parent]; parentNode != nil {
		parentNode.children = append(parentNode.children, id)
		e.MarkDirty(parent)
	}
	return nil
}

// RemoveNode destroys a node and its subtree entries, dirtying the
// parent whose arrangement loses a child.
func (e *Engine) RemoveNode(id component.ID) {
	n := e.nodes[id]
	if n == nil {
		return
	}
	if parentNode := e.nodes[n.parent]; parentNode != nil {
		parentNode.children = removeChild(parentNode.children, id)
		e.MarkDirty(n.parent)
	}
	e.removeSubtree(id)
}

func (e *Engine) removeSubtree(id component.ID) {
	n := e.nodes[id]
	if n == nil {
		return
	}
	for _, child := range n.children {
		e.removeSubtree(child)
	}
	delete(e.nodes, id)
}

// UpdateStyle replaces a node's style snapshot and invalidates its
// subtree.
func (e *Engine) UpdateStyle(id component.ID, st style.Style) {
	n := e.nodes[id]
	if n == nil {
		return
	}
	n.style = st
	n.styleHash = st.Hash()
	e.MarkDirty(id)
}

// MarkDirty invalidates a node's cached layout. The node and all of its
// descendants are marked for recomputation (child sizes depend on the
// parent-resolved space); ancestors receive a recurse marker so the
// top-down pass reaches the node. Under the content-resize policy,
// content-sized ancestors are re-dirtied outright.
func (e *Engine) MarkDirty(id component.ID) {
	n := e.nodes[id]
	if n == nil {
		return
	}
	e.dirtySubtree(n)

	for current := n.parent; current != component.None; {
		ancestor := e.nodes[current]
		if ancestor == nil {
			return
		}
		ancestor.childDirty = true
		if e.propagateContentResize && ancestor.contentSized() {
			ancestor.selfDirty = true
		}
		current = ancestor.parent
	}
}

func (e *Engine) dirtySubtree(n *node) {
	n.selfDirty = true
	for _, childID := range n.children {
		if child := e.nodes[childID]; child != nil {
			e.dirtySubtree(child)
		}
	}
}

// Compute runs the flexbox algorithm from root with the given available
// size, recomputing only dirty subtrees and reusing cached results
// elsewhere. After it returns, RectOf serves current rectangles.
func (e *Engine) Compute(root component.ID, available geometry.Size) error {
	const op = "layout.Engine.Compute"
	start := time.Now()

	rootNode := e.nodes[root]
	if rootNode == nil {
		return &LayoutError{Kind: UnknownNode, Op: op, ID: root}
	}
	if err := e.checkAcyclic(root); err != nil {
		return err
	}

	e.stats = Stats{}
	e.diagnostics = e.diagnostics[:0]
	e.dropped = 0

	// The root is offered the available space loosely so an explicit
	// root size wins; a content-sized root is capped by it.
	in := inputs{avail: available}
	e.layoutNode(rootNode, in)
	rootNode.relOffset = geometry.Offset{}
	e.positionPass(rootNode, geometry.Offset{})

	e.stats.Diagnostics = len(e.diagnostics) + e.dropped
	e.stats.Elapsed = time.Since(start)
	return nil
}

// RectOf returns the absolute computed rectangle for a node. The second
// return is false for unknown nodes and for nodes whose cached rect is
// stale (dirty and not yet recomputed).
func (e *Engine) RectOf(id component.ID) (geometry.Rect, bool) {
	n := e.nodes[id]
	if n == nil || n.selfDirty || n.childDirty {
		return geometry.Rect{}, false
	}
	return n.rect, true
}

// Children returns the ordered layout children of a node. Order is
// paint order: later entries are on top.
func (e *Engine) Children(id component.ID) []component.ID {
	n := e.nodes[id]
	if n == nil {
		return nil
	}
	return n.children
}

// Stats reports the work done by the most recent Compute pass.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Diagnostics returns the degraded-layout conditions recorded during
// the most recent pass, bounded by the configured limit.
func (e *Engine) Diagnostics() []Diagnostic {
	return e.diagnostics
}

func (e *Engine) recordDiagnostic(d Diagnostic) {
	if len(e.diagnostics) >= e.diagnosticLimit {
		e.dropped++
		return
	}
	e.diagnostics = append(e.diagnostics, d)
}

// positionPass assigns absolute rectangles top-down. It runs every
// pass; cached subtrees keep their relative offsets, so this is the
// only place position changes propagate without recomputation.
func (e *Engine) positionPass(n *node, parentOrigin geometry.Offset) {
	origin := parentOrigin.Add(n.relOffset)
	n.rect = geometry.RectFromLTWH(origin.X, origin.Y, n.size.Width, n.size.Height)

	contentOrigin := geometry.Offset{
		X: origin.X + n.style.Border.Left + n.style.Padding.Left,
		Y: origin.Y + n.style.Border.Top + n.style.Padding.Top,
	}
	for _, childID := range n.children {
		if child := e.nodes[childID]; child != nil {
			e.positionPass(child, contentOrigin)
		}
	}
}

// checkAcyclic verifies no node is its own ancestor. Construction
// prevents cycles; a hit here is a construction-time bug and is
// returned as a hard error rather than degraded silently.
func (e *Engine) checkAcyclic(root component.ID) error {
	const op = "layout.Engine.Compute"
	onPath := make(map[component.ID]bool)
	var walk func(id component.ID) error
	walk = func(id component.ID) error {
		if onPath[id] {
			return &LayoutError{Kind: CyclicReference, Op: op, ID: id}
		}
		n := e.nodes[id]
		if n == nil {
			return nil
		}
		onPath[id] = true
		for _, child := range n.children {
			if err := walk(child); err != nil {
				return err
			}
		}
		delete(onPath, id)
		return nil
	}
	return walk(root)
}

func removeChild(children []component.ID, id component.ID) []component.ID {
	for i, child := range children {
		if child == id {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}
