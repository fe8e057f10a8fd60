package events

import (
	"sort"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/geometry"
)

// TreeSource is the read-only view of the layout tree the hit tester
// consumes. The layout engine satisfies it after a compute pass; RectOf
// reports false for nodes without a current rectangle, which excludes
// them (and with pruning, their subtrees) from hit testing.
type TreeSource interface {
	Children(id component.ID) []component.ID
	RectOf(id component.ID) (geometry.Rect, bool)
}

// HitEntry is one hit-test match.
type HitEntry struct {
	ID   component.ID
	Rect geometry.Rect
}

// HitResult is the ordered set of components under a query, front to
// back: topmost (deepest, latest-added) first.
type HitResult []HitEntry

// IDs returns the result's component IDs in order.
func (r HitResult) IDs() []component.ID {
	ids := make([]component.ID, len(r))
	for i, entry := range r {
		ids[i] = entry.ID
	}
	return ids
}

// Contains reports whether the result includes the given component.
func (r HitResult) Contains(id component.ID) bool {
	for _, entry := range r {
		if entry.ID == id {
			return true
		}
	}
	return false
}

// Strategy selects the hit-test traversal. Both strategies produce
// identical ordering; they differ in cost profile.
type Strategy int

const (
	// StrategyRecursive walks the tree top-down, pruning subtrees whose
	// rectangle does not contain the point. Cheapest for one-off
	// queries.
	StrategyRecursive Strategy = iota
	// StrategyFlattened scans a cached depth-first flattening of the
	// tree. Cheaper for bursts of queries against an unchanged tree;
	// the cache is rebuilt after Invalidate.
	StrategyFlattened
)

// Tester performs point and region hit tests against a TreeSource.
// Single-threaded, like the rest of the core.
type Tester struct {
	source   TreeSource
	strategy Strategy

	flatRoot  component.ID
	flatValid bool
	flat      []flatEntry
}

type flatEntry struct {
	id    component.ID
	rect  geometry.Rect
	clip  geometry.Rect // rect intersected with every ancestor rect
	depth int
}

// NewTester creates a hit tester over the given tree view.
func NewTester(source TreeSource) *Tester {
	return &Tester{source: source}
}

// SetStrategy switches the traversal strategy for subsequent point
// queries.
func (t *Tester) SetStrategy(s Strategy) {
	t.strategy = s
}

// Invalidate discards the flattened traversal cache. Call after any
// pass that may have changed rectangles or tree shape.
func (t *Tester) Invalidate() {
	t.flatValid = false
	t.flat = t.flat[:0]
}

// HitTestPoint returns every component whose rectangle contains the
// point, front to back: descendants before ancestors, and among
// siblings the later-added child first. A miss yields an empty result.
func (t *Tester) HitTestPoint(root component.ID, pt geometry.Offset) HitResult {
	if t.strategy == StrategyFlattened {
		return t.hitPointFlattened(root, pt)
	}
	var result HitResult
	t.hitPointRecursive(root, pt, &result)
	return result
}

// hitPointRecursive visits children in reverse order so later-added
// siblings land first, appending each node after its subtree so
// descendants precede ancestors. Subtrees outside the point are pruned.
func (t *Tester) hitPointRecursive(id component.ID, pt geometry.Offset, result *HitResult) {
	rect, ok := t.source.RectOf(id)
	if !ok || !rect.Contains(pt) {
		return
	}
	children := t.source.Children(id)
	for i := len(children) - 1; i >= 0; i-- {
		t.hitPointRecursive(children[i], pt, result)
	}
	*result = append(*result, HitEntry{ID: id, Rect: rect})
}

// hitPointFlattened filters the cached flattening, which is stored in
// the exact order the recursive walk emits nodes. Each entry's clip is
// its rectangle intersected with every ancestor's, so the single
// containment test is equivalent to the recursive walk's pruning.
func (t *Tester) hitPointFlattened(root component.ID, pt geometry.Offset) HitResult {
	t.ensureFlat(root)
	var result HitResult
	for _, entry := range t.flat {
		if entry.clip.Contains(pt) {
			result = append(result, HitEntry{ID: entry.id, Rect: entry.rect})
		}
	}
	return result
}

// ensureFlat rebuilds the flattened traversal when stale.
func (t *Tester) ensureFlat(root component.ID) {
	if t.flatValid && t.flatRoot == root {
		return
	}
	t.flat = t.flat[:0]
	if rootRect, ok := t.source.RectOf(root); ok {
		t.flatten(root, rootRect, 0)
	}
	t.flatRoot = root
	t.flatValid = true
}

func (t *Tester) flatten(id component.ID, ancestorClip geometry.Rect, depth int) {
	rect, ok := t.source.RectOf(id)
	if !ok {
		return
	}
	clip := rect.Intersect(ancestorClip)
	children := t.source.Children(id)
	for i := len(children) - 1; i >= 0; i-- {
		t.flatten(children[i], clip, depth+1)
	}
	t.flat = append(t.flat, flatEntry{id: id, rect: rect, clip: clip, depth: depth})
}

// HitTestRegion returns every component whose rectangle intersects the
// query rectangle, grouped by depth with deeper components first. No
// ordering is guaranteed within a depth group beyond determinism.
func (t *Tester) HitTestRegion(root component.ID, region geometry.Rect) HitResult {
	var matches []flatEntry
	var walk func(id component.ID, depth int)
	walk = func(id component.ID, depth int) {
		rect, ok := t.source.RectOf(id)
		if !ok {
			return
		}
		if rect.Intersects(region) {
			matches = append(matches, flatEntry{id: id, rect: rect, depth: depth})
		}
		for _, child := range t.source.Children(id) {
			walk(child, depth+1)
		}
	}
	walk(root, 0)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].depth > matches[j].depth
	})

	result := make(HitResult, len(matches))
	for i, m := range matches {
		result[i] = HitEntry{ID: m.id, Rect: m.rect}
	}
	return result
}
