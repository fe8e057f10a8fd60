package component

import (
	"reflect"

	"github.com/go-keel/keel/pkg/style"
)

// LayoutBinding keeps the layout tree in sync with the component tree.
// Implemented by the layout engine; a nil binding is allowed for trees
// that do not participate in layout (pure logic tests).
type LayoutBinding interface {
	// AddNode creates the layout node paired with a newly mounted
	// component. parent is the nearest layout-participating ancestor,
	// or None for the layout root.
	AddNode(id, parent ID, st style.Style) error
	// RemoveNode destroys the layout node for an unmounted component.
	RemoveNode(id ID)
	// UpdateStyle replaces the node's style snapshot and dirties it.
	UpdateStyle(id ID, st style.Style)
	// MarkDirty invalidates the node's cached layout.
	MarkDirty(id ID)
}

// Node is one live component instance in the tree. Nodes reference each
// other only by ID; the arena owns all of them, so there are no
// ownership cycles to break on teardown.
type Node struct {
	ID       ID
	Parent   ID
	Children []ID // order = paint order = hit-test order
	Phase    Phase

	// Layout is false when the component opted out of layout
	// participation; such nodes have no layout node and their children
	// attach to the nearest participating ancestor.
	Layout bool

	component Component
	style     style.Style
}

// Component returns the user logic handle for the node.
func (n *Node) Component() Component {
	return n.component
}

// Style returns the node's current style.
func (n *Node) Style() style.Style {
	return n.style
}

// MountOption customizes a mount call.
type MountOption func(*mountConfig)

type mountConfig struct {
	layout bool
}

// WithoutLayout mounts a component with no layout presence. Its children
// are laid out under the nearest layout-participating ancestor.
func WithoutLayout() MountOption {
	return func(c *mountConfig) {
		c.layout = false
	}
}

// Tree owns the component arena and drives mount/update/unmount
// transitions. It is single-threaded: all calls must come from the same
// goroutine that runs the frame cycle.
type Tree struct {
	alloc   *IDAllocator
	binding LayoutBinding
	nodes   map[ID]*Node
	root    ID

	// mounted maps comparable component handles to their IDs so that
	// re-mounting a live instance fails loudly instead of forking it.
	mounted map[Component]ID
}

// NewTree creates a tree using the given allocator and layout binding.
// Both may be shared with other subsystems; binding may be nil.
func NewTree(alloc *IDAllocator, binding LayoutBinding) *Tree {
	if alloc == nil {
		alloc = NewIDAllocator()
	}
	return &Tree{
		alloc:   alloc,
		binding: binding,
		nodes:   make(map[ID]*Node),
		mounted: make(map[Component]ID),
	}
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the root component ID, or None when the tree is empty.
func (t *Tree) Root() ID {
	return t.root
}

// Get returns the node for an ID, or nil when it does not exist.
func (t *Tree) Get(id ID) *Node {
	return t.nodes[id]
}

// Phase returns the lifecycle phase for an ID. Unknown IDs report
// PhaseUnmounted: an ID we have never seen and an ID fully torn down are
// indistinguishable by design (IDs are never reused).
func (t *Tree) Phase(id ID) Phase {
	node := t.nodes[id]
	if node == nil {
		return PhaseUnmounted
	}
	return node.Phase
}

// Children returns the ordered child IDs of a node.
func (t *Tree) Children(id ID) []ID {
	node := t.nodes[id]
	if node == nil {
		return nil
	}
	return node.Children
}

// Mount allocates an ID, creates the node under parent (None for root),
// creates the paired layout node, and runs the mount hooks in order:
// BeforeMount → Init → AfterMount.
//
// Mount is atomic: on any error the tree and layout binding are exactly
// as they were. Hook panics are recovered and reported, not treated as
// mount failures.
func (t *Tree) Mount(parent ID, c Component, st style.Style, opts ...MountOption) (ID, error) {
	const op = "component.Tree.Mount"

	cfg := mountConfig{layout: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if c != nil && isComparable(c) {
		if live, ok := t.mounted[c]; ok {
			if !canTransition(t.Phase(live), PhaseMounting) {
				return None, &LifecycleError{Kind: AlreadyMounted, Op: op, ID: live}
			}
		}
	}

	var parentNode *Node
	if parent != None {
		parentNode = t.nodes[parent]
		if parentNode == nil {
			return None, &LifecycleError{Kind: ParentNotFound, Op: op, ID: parent}
		}
		if parentNode.Phase == PhaseUnmounting {
			return None, &LifecycleError{Kind: InvalidTransition, Op: op, ID: parent}
		}
	} else if t.root != None {
		// A second root is a structural misuse, same family as
		// re-mounting: the tree has exactly one root.
		return None, &LifecycleError{Kind: AlreadyMounted, Op: op, ID: t.root}
	}

	id := t.alloc.Next()
	node := &Node{
		ID:        id,
		Parent:    parent,
		Phase:     PhaseMounting,
		Layout:    cfg.layout,
		component: c,
		style:     st,
	}

	if cfg.layout && t.binding != nil {
		layoutParent := t.layoutAncestor(parent)
		if err := t.binding.AddNode(id, layoutParent, st); err != nil {
			return None, err
		}
	}

	t.nodes[id] = node
	if parentNode != nil {
		parentNode.Children = append(parentNode.Children, id)
	} else {
		t.root = id
	}
	if c != nil && isComparable(c) {
		t.mounted[c] = id
	}

	ctx := Context{Tree: t, ID: id}
	if hook, ok := c.(BeforeMounter); ok {
		safeHook(c, "BeforeMount", func() { hook.BeforeMount(ctx) })
	}
	if hook, ok := c.(Initializer); ok {
		safeHook(c, "Init", func() { hook.Init(ctx) })
	}
	node.Phase = PhaseMounted
	if hook, ok := c.(AfterMounter); ok {
		safeHook(c, "AfterMount", func() { hook.AfterMount(ctx) })
	}

	return id, nil
}

// Unmount tears a component down. Hook order is parent-first:
// BeforeUnmount fires while the children are still mounted so the
// component can observe them during its own teardown, then the children
// cascade, then AfterUnmount fires last.
//
// Unmounting an unknown ID, or a node that is not currently mounted
// (already tearing down, or still inside its own mount hooks), is a
// no-op.
func (t *Tree) Unmount(id ID) error {
	node := t.nodes[id]
	if node == nil {
		return nil
	}
	if !canTransition(node.Phase, PhaseUnmounting) {
		return nil
	}

	t.unmountNode(node)

	// Detach from the parent's child list only for the cascade root;
	// descendants are removed wholesale with their parents.
	if parentNode := t.nodes[node.Parent]; parentNode != nil {
		parentNode.Children = removeID(parentNode.Children, id)
	}
	if t.root == id {
		t.root = None
	}
	return nil
}

// unmountNode runs the teardown cascade for one node.
func (t *Tree) unmountNode(node *Node) {
	node.Phase = PhaseUnmounting
	ctx := Context{Tree: t, ID: node.ID}

	if hook, ok := node.component.(BeforeUnmounter); ok {
		safeHook(node.component, "BeforeUnmount", func() { hook.BeforeUnmount(ctx) })
	}

	// Children snapshot: hooks may not mutate the tree mid-cascade, but
	// a stale range over a shrinking slice would still be wrong.
	children := make([]ID, len(node.Children))
	copy(children, node.Children)
	for _, childID := range children {
		if child := t.nodes[childID]; child != nil {
			t.unmountNode(child)
		}
	}
	node.Children = nil

	if node.Layout && t.binding != nil {
		t.binding.RemoveNode(node.ID)
	}
	delete(t.nodes, node.ID)
	if node.component != nil && isComparable(node.component) {
		delete(t.mounted, node.component)
	}
	node.Phase = PhaseUnmounted

	if hook, ok := node.component.(AfterUnmounter); ok {
		safeHook(node.component, "AfterUnmount", func() { hook.AfterUnmount(ctx) })
	}
}

// OnUpdate forwards a flushed change batch to the component's OnUpdate
// hook and dirties its layout node when the changes are layout-relevant.
// Called by the update scheduler on flush; never directly by user code.
func (t *Tree) OnUpdate(id ID, changes StateChanges) {
	node := t.nodes[id]
	if node == nil || node.Phase != PhaseMounted {
		return
	}
	if hook, ok := node.component.(Updater); ok {
		ctx := Context{Tree: t, ID: id}
		safeHook(node.component, "OnUpdate", func() { hook.OnUpdate(ctx, changes) })
	}
	if changes != nil && changes.AffectsLayout() && node.Layout && t.binding != nil {
		t.binding.MarkDirty(id)
	}
}

// SetStyle replaces a component's style and propagates it to the layout
// node, dirtying the subtree.
func (t *Tree) SetStyle(id ID, st style.Style) {
	node := t.nodes[id]
	if node == nil {
		return
	}
	node.style = st
	if node.Layout && t.binding != nil {
		t.binding.UpdateStyle(id, st)
	}
}

// TreePath returns the root-to-node ancestor chain, node included.
// Returns nil for unknown IDs.
func (t *Tree) TreePath(id ID) []ID {
	if t.nodes[id] == nil {
		return nil
	}
	var path []ID
	for current := id; current != None; {
		path = append(path, current)
		node := t.nodes[current]
		if node == nil {
			break
		}
		current = node.Parent
	}
	// Reverse into root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// layoutAncestor walks up from parent to the nearest layout-participating
// node, None when there is none.
func (t *Tree) layoutAncestor(parent ID) ID {
	for current := parent; current != None; {
		node := t.nodes[current]
		if node == nil {
			return None
		}
		if node.Layout {
			return current
		}
		current = node.Parent
	}
	return None
}

func removeID(ids []ID, id ID) []ID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// isComparable guards the mounted-instance map against unhashable
// component types (a struct component holding a map, say).
func isComparable(c Component) bool {
	return reflect.TypeOf(c).Comparable()
}
