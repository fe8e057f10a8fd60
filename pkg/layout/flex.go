package layout

import (
	"log"
	"math"

	"github.com/go-keel/keel/pkg/geometry"
	"github.com/go-keel/keel/pkg/style"
)

// layoutNode computes a node's size and its children's relative offsets,
// reusing the cached result when the node is clean and its inputs are
// unchanged. Skipping a clean subtree is the dominant performance lever:
// most passes touch a small dirty set.
func (e *Engine) layoutNode(n *node, in inputs) {
	key := in.key(n.styleHash)
	if !n.selfDirty && !n.childDirty && n.hasCache && n.cacheKey == key {
		e.stats.CacheHits += n.subtreeCount
		return
	}

	e.stats.Recomputed++
	e.performLayout(n, in)

	n.cacheKey = key
	n.hasCache = true
	n.selfDirty = false
	n.childDirty = false
	n.subtreeCount = 1
	for _, childID := range n.children {
		if child := e.nodes[childID]; child != nil {
			n.subtreeCount += child.subtreeCount
		}
	}
}

// flexItem carries per-child working state through the flex pass.
type flexItem struct {
	n           *node
	basis       float64 // clamped flex basis (border-box main size)
	target      float64 // resolved main size after grow/shrink
	marginMain  float64
	marginCross float64
	minMain     float64
	maxMain     float64
	grow        float64
	shrink      float64
	frozen      bool
	crossEst    float64 // hypothetical outer cross size
}

func (it *flexItem) outer() float64 {
	return it.target + it.marginMain
}

// flexLine is one run of items along the main axis.
type flexLine struct {
	items []*flexItem
	main  float64 // sum of outer targets
	cross float64
}

// performLayout runs the flexbox algorithm for one container:
// resolve own size, collect flex lines, distribute free space, align,
// position children, and recurse with each child's resolved space.
func (e *Engine) performLayout(n *node, in inputs) {
	isRow := n.style.Direction.IsRow()
	mainAvail := axisOf(in.avail, isRow)
	crossAvail := axisOf(in.avail, !isRow)

	mainInsets := axisInsets(n.style, isRow)
	crossInsets := axisInsets(n.style, !isRow)

	// Own border-box extents; NaN means content-sized, resolved after
	// the children are measured.
	ownMain := e.resolveOwnExtent(n, n.style.MainDimension(), mainAvail, in.mainTight, true)
	ownCross := e.resolveOwnExtent(n, n.style.CrossDimension(), crossAvail, in.crossTight, false)

	contentMain := ownMain - mainInsets  // NaN propagates
	contentCross := ownCross - crossInsets

	flow, absolute := e.partitionChildren(n)

	// Hypothetical main sizes.
	items := make([]*flexItem, 0, len(flow))
	totalGrow := 0.0
	for _, child := range flow {
		item := e.makeFlexItem(child, isRow, contentMain, contentCross)
		items = append(items, item)
		totalGrow += item.grow
	}

	if totalGrow > 0 && math.IsNaN(contentMain) && !e.warnedUnboundedFlex {
		e.warnedUnboundedFlex = true
		log.Printf("WARNING: flex grow used inside a container with an undefined %s extent; children cannot flex without a resolved size", n.style.Direction)
	}

	lines := collectLines(items, n.style.Wrap, contentMain)
	for _, line := range lines {
		resolveFlexibleLengths(line, contentMain)
	}

	// Content-sized main axis: widest line, bounded by available space.
	if math.IsNaN(contentMain) {
		widest := 0.0
		for _, line := range lines {
			widest = math.Max(widest, line.main)
		}
		contentMain = widest
		if !math.IsNaN(mainAvail) {
			contentMain = math.Min(contentMain, mainAvail-mainInsets)
		}
		ownMain = clampAxisExtent(n.style, contentMain+mainInsets, mainAvail, true)
		contentMain = ownMain - mainInsets
	}

	// Line cross sizes from hypothetical item cross sizes.
	for _, line := range lines {
		line.cross = 0
		for _, item := range line.items {
			line.cross = math.Max(line.cross, item.crossEst)
		}
	}
	if len(lines) == 1 && !math.IsNaN(contentCross) {
		lines[0].cross = contentCross
	}

	totalLineCross := 0.0
	for _, line := range lines {
		totalLineCross += line.cross
	}

	// Content-sized cross axis: stacked lines.
	if math.IsNaN(contentCross) {
		contentCross = totalLineCross
		if !math.IsNaN(crossAvail) {
			contentCross = math.Min(contentCross, crossAvail-crossInsets)
		}
		ownCross = clampAxisExtent(n.style, contentCross+crossInsets, crossAvail, false)
		contentCross = ownCross - crossInsets
	}

	lineOffsets := alignLines(lines, n.style.AlignContent, contentCross, totalLineCross)

	// Position flow children and recurse.
	for lineIndex, line := range lines {
		spacing, cursor := justifySpacing(n.style.Justify, len(line.items), math.Max(0, contentMain-line.main))
		for _, item := range line.items {
			child := item.n
			align := resolveAlign(n.style.AlignItems, child.style.AlignSelf)
			childCrossDim := child.style.Height
			if !isRow {
				childCrossDim = child.style.Width
			}
			stretch := align == style.AlignStretch && childCrossDim.IsAuto()

			childIn := inputs{mainTight: true}
			childCrossAvail := line.cross - item.marginCross
			if stretch {
				childIn.crossTight = true
			}
			childIn.avail = sizeFromAxes(item.target, math.Max(0, childCrossAvail), isRow)
			e.layoutNode(child, childIn)

			childCross := axisOf(child.size, !isRow)
			crossOffset := alignOffset(align, line.cross, childCross+item.marginCross)

			mainStart := cursor + marginStart(child.style, isRow)
			crossStart := lineOffsets[lineIndex] + crossOffset + marginStart(child.style, !isRow)
			child.relOffset = offsetFromAxes(mainStart, crossStart, isRow)

			cursor += item.outer() + spacing
		}
	}

	// Reverse direction mirrors main-axis positions within the content box.
	if n.style.Direction.IsReverse() {
		for _, line := range lines {
			for _, item := range line.items {
				child := item.n
				mainPos := axisOfOffset(child.relOffset, isRow)
				childMain := axisOf(child.size, isRow)
				mirrored := contentMain - mainPos - childMain
				child.relOffset = offsetFromAxes(mirrored, axisOfOffset(child.relOffset, !isRow), isRow)
			}
		}
	}

	n.size = sizeFromAxes(ownMain, ownCross, isRow)

	// Absolutely positioned children are out of flow: sized from their
	// explicit dimensions and offsets, relative to this content box.
	contentW, contentH := n.size.Width-n.style.Border.Left-n.style.Border.Right-n.style.Padding.Left-n.style.Padding.Right,
		n.size.Height-n.style.Border.Top-n.style.Border.Bottom-n.style.Padding.Top-n.style.Padding.Bottom
	for _, child := range absolute {
		e.layoutAbsolute(child, contentW, contentH)
	}
}

// resolveOwnExtent resolves a node's border-box extent on one axis.
// Returns NaN when the node is content-sized on that axis.
func (e *Engine) resolveOwnExtent(n *node, dim style.Dimension, avail float64, tight, mainAxis bool) float64 {
	if tight && !math.IsNaN(avail) {
		return avail
	}
	value, ok := dim.Resolve(avail)
	if !ok {
		if dim.Unit == style.UnitPercent {
			e.recordDiagnostic(Diagnostic{
				Kind:    UnresolvedDimension,
				ID:      n.id,
				Field:   "size",
				Message: "percentage against undefined container extent resolves to 0",
			})
			return 0
		}
		return math.NaN()
	}
	return clampAxisExtent(n.style, value, avail, mainAxis)
}

// clampAxisExtent applies the style's min/max constraints for one axis.
// mainAxis selects which constraint pair applies given the direction.
func clampAxisExtent(st style.Style, value, avail float64, mainAxis bool) float64 {
	isWidth := st.Direction.IsRow() == mainAxis
	minDim, maxDim := st.MinHeight, st.MaxHeight
	if isWidth {
		minDim, maxDim = st.MinWidth, st.MaxWidth
	}
	if upper, ok := maxDim.Resolve(avail); ok {
		value = math.Min(value, upper)
	}
	if lower, ok := minDim.Resolve(avail); ok {
		value = math.Max(value, lower)
	}
	return math.Max(0, value)
}

// partitionChildren splits children into normal flow and absolute.
func (e *Engine) partitionChildren(n *node) (flow, absolute []*node) {
	for _, childID := range n.children {
		child := e.nodes[childID]
		if child == nil {
			continue
		}
		if child.style.Position == style.PositionAbsolute {
			absolute = append(absolute, child)
		} else {
			flow = append(flow, child)
		}
	}
	return flow, absolute
}

// makeFlexItem computes a child's hypothetical sizes and flex factors.
// Basis resolution order: explicit basis, else the child's explicit
// main dimension, else intrinsic content size, else 0.
func (e *Engine) makeFlexItem(child *node, isRow bool, contentMain, contentCross float64) *flexItem {
	item := &flexItem{
		n:           child,
		grow:        child.style.Grow,
		shrink:      child.style.Shrink,
		marginMain:  axisMargins(child.style, isRow),
		marginCross: axisMargins(child.style, !isRow),
	}

	basis, ok := e.resolveChildDim(child, child.style.Basis, contentMain, "basis")
	if !ok {
		mainDim := child.style.Width
		if !isRow {
			mainDim = child.style.Height
		}
		basis, ok = e.resolveChildDim(child, mainDim, contentMain, "size")
		if !ok {
			basis = axisOf(e.measureIntrinsic(child), isRow)
		}
	}

	item.minMain, item.maxMain = 0, math.Inf(1)
	minDim, maxDim := child.style.MinHeight, child.style.MaxHeight
	if isRow {
		minDim, maxDim = child.style.MinWidth, child.style.MaxWidth
	}
	if min, ok := minDim.Resolve(contentMain); ok {
		item.minMain = min
	}
	if max, ok := maxDim.Resolve(contentMain); ok {
		item.maxMain = max
	}

	item.basis = clampRange(basis, item.minMain, item.maxMain)
	item.target = item.basis

	crossDim := child.style.Height
	if !isRow {
		crossDim = child.style.Width
	}
	if cross, ok := e.resolveChildDim(child, crossDim, contentCross, "size"); ok {
		item.crossEst = cross + item.marginCross
	} else {
		item.crossEst = axisOf(e.measureIntrinsic(child), !isRow) + item.marginCross
	}

	return item
}

// resolveChildDim resolves a child dimension, recording a diagnostic for
// a percentage against an undefined extent (which resolves to 0).
func (e *Engine) resolveChildDim(child *node, dim style.Dimension, container float64, field string) (float64, bool) {
	value, ok := dim.Resolve(container)
	if !ok && dim.Unit == style.UnitPercent {
		e.recordDiagnostic(Diagnostic{
			Kind:    UnresolvedDimension,
			ID:      child.id,
			Field:   field,
			Message: "percentage against undefined container extent resolves to 0",
		})
		return 0, true
	}
	return value, ok
}

// collectLines packs items greedily onto lines. Without wrap, all items
// form one line regardless of overflow.
func collectLines(items []*flexItem, wrap style.Wrap, contentMain float64) []*flexLine {
	if len(items) == 0 {
		return []*flexLine{{}}
	}
	if wrap != style.WrapWrap || math.IsNaN(contentMain) {
		line := &flexLine{items: items}
		for _, item := range items {
			line.main += item.outer()
		}
		return []*flexLine{line}
	}

	var lines []*flexLine
	current := &flexLine{}
	for _, item := range items {
		outer := item.outer()
		if len(current.items) > 0 && current.main+outer > contentMain {
			lines = append(lines, current)
			current = &flexLine{}
		}
		current.items = append(current.items, item)
		current.main += outer
	}
	lines = append(lines, current)
	return lines
}

// resolveFlexibleLengths distributes free space by grow factors or
// removes excess by shrink factors, clamping each item to its min/max
// and refreezing until no violations remain. Any floating-point residue
// goes to the last flexed item so main sizes sum to the line exactly.
func resolveFlexibleLengths(line *flexLine, contentMain float64) {
	if math.IsNaN(contentMain) || len(line.items) == 0 {
		return
	}

	free := contentMain - line.main
	growing := free > 0

	for _, item := range line.items {
		factor := item.grow
		if !growing {
			factor = item.shrink
		}
		if factor == 0 {
			item.frozen = true
		}
	}

	for iteration := 0; iteration < len(line.items)+1; iteration++ {
		remaining := contentMain
		totalFactor := 0.0
		for _, item := range line.items {
			if item.frozen {
				remaining -= item.outer()
				continue
			}
			remaining -= item.basis + item.marginMain
			if growing {
				totalFactor += item.grow
			} else {
				totalFactor += item.shrink * item.basis
			}
		}
		if totalFactor <= 0 {
			break
		}

		violated := false
		for _, item := range line.items {
			if item.frozen {
				continue
			}
			var share float64
			if growing {
				share = remaining * item.grow / totalFactor
			} else {
				share = remaining * item.shrink * item.basis / totalFactor
			}
			unclamped := item.basis + share
			item.target = clampRange(unclamped, item.minMain, item.maxMain)
			if !geometry.FloatEqual(item.target, unclamped) {
				item.frozen = true
				violated = true
			}
		}
		if !violated {
			break
		}
	}

	// Exact conservation: hand the residue to the last unfrozen item.
	sum := 0.0
	var lastFlexed *flexItem
	for _, item := range line.items {
		sum += item.outer()
		if !item.frozen {
			lastFlexed = item
		}
	}
	if lastFlexed != nil {
		residue := contentMain - sum
		lastFlexed.target = clampRange(lastFlexed.target+residue, lastFlexed.minMain, lastFlexed.maxMain)
	}

	line.main = 0
	for _, item := range line.items {
		line.main += item.outer()
	}
}

// justifySpacing returns the inter-item spacing and the starting cursor
// for a line with the given free space.
func justifySpacing(justify style.Justify, count int, free float64) (spacing, offset float64) {
	switch justify {
	case style.JustifyEnd:
		offset = free
	case style.JustifyCenter:
		offset = free * 0.5
	case style.JustifySpaceBetween:
		if count > 1 {
			spacing = free / float64(count-1)
		}
	case style.JustifySpaceAround:
		if count > 0 {
			spacing = free / float64(count)
			offset = spacing * 0.5
		}
	case style.JustifySpaceEvenly:
		if count > 0 {
			spacing = free / float64(count+1)
			offset = spacing
		}
	}
	return spacing, offset
}

// alignLines returns each line's cross-axis starting offset within the
// content box, applying align-content when wrapping produced multiple
// lines. Stretch grows every line equally.
func alignLines(lines []*flexLine, align style.AlignContent, contentCross, totalCross float64) []float64 {
	offsets := make([]float64, len(lines))
	free := math.Max(0, contentCross-totalCross)

	spacing, cursor := 0.0, 0.0
	if len(lines) > 1 {
		switch align {
		case style.AlignContentEnd:
			cursor = free
		case style.AlignContentCenter:
			cursor = free * 0.5
		case style.AlignContentStretch:
			extra := free / float64(len(lines))
			for _, line := range lines {
				line.cross += extra
			}
		case style.AlignContentSpaceBetween:
			spacing = free / float64(len(lines)-1)
		case style.AlignContentSpaceAround:
			spacing = free / float64(len(lines))
			cursor = spacing * 0.5
		}
	}

	for i, line := range lines {
		offsets[i] = cursor
		cursor += line.cross + spacing
	}
	return offsets
}

// resolveAlign folds align-self into the container's align-items.
func resolveAlign(containerAlign, selfAlign style.Align) style.Align {
	if selfAlign != style.AlignAuto {
		return selfAlign
	}
	if containerAlign == style.AlignAuto {
		return style.AlignStretch
	}
	return containerAlign
}

// alignOffset returns the cross-axis offset of an item within its line.
func alignOffset(align style.Align, lineCross, itemOuterCross float64) float64 {
	free := lineCross - itemOuterCross
	if free <= 0 {
		return 0
	}
	switch align {
	case style.AlignEnd:
		return free
	case style.AlignCenter:
		return free * 0.5
	default:
		return 0
	}
}

// layoutAbsolute sizes and positions an out-of-flow child against the
// containing content box. Opposite offsets with an auto dimension
// stretch the child between them.
func (e *Engine) layoutAbsolute(child *node, contentW, contentH float64) {
	st := child.style

	width, hasWidth := e.resolveChildDim(child, st.Width, contentW, "size")
	left, hasLeft := e.resolveChildDim(child, st.Left, contentW, "offset")
	right, hasRight := e.resolveChildDim(child, st.Right, contentW, "offset")
	if !hasWidth {
		if hasLeft && hasRight {
			width = math.Max(0, contentW-left-right)
		} else {
			width = e.measureIntrinsic(child).Width
		}
	}

	height, hasHeight := e.resolveChildDim(child, st.Height, contentH, "size")
	top, hasTop := e.resolveChildDim(child, st.Top, contentH, "offset")
	bottom, hasBottom := e.resolveChildDim(child, st.Bottom, contentH, "offset")
	if !hasHeight {
		if hasTop && hasBottom {
			height = math.Max(0, contentH-top-bottom)
		} else {
			height = e.measureIntrinsic(child).Height
		}
	}

	e.layoutNode(child, inputs{
		avail:      geometry.Size{Width: width, Height: height},
		mainTight:  true,
		crossTight: true,
	})

	x := 0.0
	switch {
	case hasLeft:
		x = left
	case hasRight:
		x = contentW - right - child.size.Width
	}
	y := 0.0
	switch {
	case hasTop:
		y = top
	case hasBottom:
		y = contentH - bottom - child.size.Height
	}
	child.relOffset = geometry.Offset{X: x, Y: y}
}

// measureIntrinsic estimates a node's border-box content size from
// explicit point dimensions and recursive child extents. Each child's
// main extent follows the flex pass's resolution order, so a point
// basis counts even when the child carries no explicit dimension.
// Percentages are unresolvable without a container and measure as
// content.
func (e *Engine) measureIntrinsic(n *node) geometry.Size {
	var width, height float64
	haveWidth, haveHeight := false, false

	if n.style.Width.Unit == style.UnitPoints {
		width, haveWidth = n.style.Width.Value, true
	}
	if n.style.Height.Unit == style.UnitPoints {
		height, haveHeight = n.style.Height.Value, true
	}

	if !haveWidth || !haveHeight {
		isRow := n.style.Direction.IsRow()
		sumMain, maxCross := 0.0, 0.0
		for _, childID := range n.children {
			child := e.nodes[childID]
			if child == nil || child.style.Position == style.PositionAbsolute {
				continue
			}
			childSize := e.measureIntrinsic(child)
			childMain := axisOf(childSize, isRow)
			if child.style.Basis.Unit == style.UnitPoints {
				minDim, maxDim := child.style.MinHeight, child.style.MaxHeight
				if isRow {
					minDim, maxDim = child.style.MinWidth, child.style.MaxWidth
				}
				childMain = clampPointRange(child.style.Basis.Value, minDim, maxDim)
			}
			sumMain += childMain + axisMargins(child.style, isRow)
			maxCross = math.Max(maxCross, axisOf(childSize, !isRow)+axisMargins(child.style, !isRow))
		}
		contentW, contentH := maxCross, sumMain
		if isRow {
			contentW, contentH = sumMain, maxCross
		}
		if !haveWidth {
			width = contentW + n.style.Padding.Horizontal() + n.style.Border.Horizontal()
		}
		if !haveHeight {
			height = contentH + n.style.Padding.Vertical() + n.style.Border.Vertical()
		}
	}

	width = clampPointRange(width, n.style.MinWidth, n.style.MaxWidth)
	height = clampPointRange(height, n.style.MinHeight, n.style.MaxHeight)
	return geometry.Size{Width: width, Height: height}
}

// Axis helpers, in the row/column switch style of the flex container.

func axisOf(s geometry.Size, isRow bool) float64 {
	if isRow {
		return s.Width
	}
	return s.Height
}

func axisOfOffset(o geometry.Offset, isRow bool) float64 {
	if isRow {
		return o.X
	}
	return o.Y
}

func sizeFromAxes(main, cross float64, isRow bool) geometry.Size {
	if isRow {
		return geometry.Size{Width: main, Height: cross}
	}
	return geometry.Size{Width: cross, Height: main}
}

func offsetFromAxes(main, cross float64, isRow bool) geometry.Offset {
	if isRow {
		return geometry.Offset{X: main, Y: cross}
	}
	return geometry.Offset{X: cross, Y: main}
}

// axisInsets returns the combined padding+border extent on one axis.
func axisInsets(st style.Style, isRow bool) float64 {
	if isRow {
		return st.Padding.Horizontal() + st.Border.Horizontal()
	}
	return st.Padding.Vertical() + st.Border.Vertical()
}

// axisMargins returns the combined margin extent on one axis.
func axisMargins(st style.Style, isRow bool) float64 {
	if isRow {
		return st.Margin.Horizontal()
	}
	return st.Margin.Vertical()
}

// marginStart returns the leading margin on one axis.
func marginStart(st style.Style, isRow bool) float64 {
	if isRow {
		return st.Margin.Left
	}
	return st.Margin.Top
}

func clampRange(v, min, max float64) float64 {
	return math.Max(min, math.Min(v, max))
}

func clampPointRange(v float64, minDim, maxDim style.Dimension) float64 {
	if maxDim.Unit == style.UnitPoints {
		v = math.Min(v, maxDim.Value)
	}
	if minDim.Unit == style.UnitPoints {
		v = math.Max(v, minDim.Value)
	}
	return math.Max(0, v)
}
