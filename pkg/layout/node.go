// Package layout owns the layout tree and the flexbox engine. One node
// exists per layout-participating component; the engine computes each
// node's rectangle with cache-aware, incremental recomputation.
package layout

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/go-keel/keel/pkg/component"
	"github.com/go-keel/keel/pkg/geometry"
	"github.com/go-keel/keel/pkg/style"
)

// inputs are the cache-key ingredients a parent hands a child: the
// available border-box space (NaN extent = undefined/unbounded) and
// whether each axis is imposed exactly rather than offered loosely.
type inputs struct {
	avail      geometry.Size
	mainTight  bool
	crossTight bool
}

// key folds the inputs and the node's style into a cache key. NaN
// extents are normalized so "undefined" always hashes identically.
func (in inputs) key(styleHash uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	write(styleHash)
	write(floatKey(in.avail.Width))
	write(floatKey(in.avail.Height))
	flags := uint64(0)
	if in.mainTight {
		flags |= 1
	}
	if in.crossTight {
		flags |= 2
	}
	write(flags)
	return h.Sum64()
}

func floatKey(v float64) uint64 {
	if math.IsNaN(v) {
		return 0x7ff8_0000_0000_0000
	}
	return math.Float64bits(v)
}

// node is one entry in the layout arena. Nodes reference relatives only
// by ID; the engine's table owns them all.
type node struct {
	id       component.ID
	parent   component.ID
	children []component.ID

	style     style.Style
	styleHash uint64

	// selfDirty means this node's own flex pass must re-run.
	// childDirty means some descendant does, so recursion cannot be
	// skipped even if this node's own inputs are unchanged.
	selfDirty  bool
	childDirty bool

	// Cached result, valid only when both dirty flags are clear.
	hasCache     bool
	cacheKey     uint64
	subtreeCount int

	// Outputs. relOffset is relative to the parent's content-box
	// origin; rect is absolute and assigned by the position pass.
	relOffset geometry.Offset
	size      geometry.Size
	rect      geometry.Rect
}

// contentSized reports whether the node sizes its main axis from
// content (no definite main dimension). Such nodes re-dirty upward when
// the content-resize propagation policy is enabled.
func (n *node) contentSized() bool {
	return n.style.MainDimension().IsAuto()
}
