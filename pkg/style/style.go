// Package style defines the flexbox property set consumed by the layout
// engine. Styles are resolved value objects: whatever cascade or theming
// produced them is outside this module, which only reads the flex-relevant
// subset.
package style

import (
	"fmt"

	"github.com/go-keel/keel/pkg/geometry"
)

// Direction represents the flex-direction property.
type Direction int

const (
	DirectionRow Direction = iota
	DirectionRowReverse
	DirectionColumn
	DirectionColumnReverse
)

// IsRow reports whether the main axis is horizontal.
func (d Direction) IsRow() bool {
	return d == DirectionRow || d == DirectionRowReverse
}

// IsReverse reports whether children are laid out in reverse order.
func (d Direction) IsReverse() bool {
	return d == DirectionRowReverse || d == DirectionColumnReverse
}

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionRow:
		return "row"
	case DirectionRowReverse:
		return "row-reverse"
	case DirectionColumn:
		return "column"
	case DirectionColumnReverse:
		return "column-reverse"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Wrap represents the flex-wrap property.
type Wrap int

const (
	WrapNone Wrap = iota
	WrapWrap
)

// String returns a human-readable representation of the wrap mode.
func (w Wrap) String() string {
	switch w {
	case WrapNone:
		return "nowrap"
	case WrapWrap:
		return "wrap"
	default:
		return fmt.Sprintf("Wrap(%d)", int(w))
	}
}

// Justify represents the justify-content property, distributing children
// along the main axis of a line.
type Justify int

const (
	// JustifyStart places children at the start of the line.
	JustifyStart Justify = iota
	// JustifyEnd places children at the end of the line.
	JustifyEnd
	// JustifyCenter centers children within the line.
	JustifyCenter
	// JustifySpaceBetween places the first item at line start and the last
	// at line end, distributing remaining space evenly between items.
	JustifySpaceBetween
	// JustifySpaceAround gives equal space before and after each item,
	// including half-sized space at the line edges.
	JustifySpaceAround
	// JustifySpaceEvenly distributes free space evenly, including equal
	// space before the first and after the last item.
	JustifySpaceEvenly
)

// String returns a human-readable representation of the justification.
func (j Justify) String() string {
	switch j {
	case JustifyStart:
		return "start"
	case JustifyEnd:
		return "end"
	case JustifyCenter:
		return "center"
	case JustifySpaceBetween:
		return "space-between"
	case JustifySpaceAround:
		return "space-around"
	case JustifySpaceEvenly:
		return "space-evenly"
	default:
		return fmt.Sprintf("Justify(%d)", int(j))
	}
}

// Align represents cross-axis alignment for align-items and align-self.
type Align int

const (
	// AlignAuto defers to the container's align-items (align-self only).
	AlignAuto Align = iota
	// AlignStretch stretches the child to fill the line's cross size.
	AlignStretch
	// AlignStart places the child at the start of the cross axis.
	AlignStart
	// AlignEnd places the child at the end of the cross axis.
	AlignEnd
	// AlignCenter centers the child on the cross axis.
	AlignCenter
)

// String returns a human-readable representation of the alignment.
func (a Align) String() string {
	switch a {
	case AlignAuto:
		return "auto"
	case AlignStretch:
		return "stretch"
	case AlignStart:
		return "start"
	case AlignEnd:
		return "end"
	case AlignCenter:
		return "center"
	default:
		return fmt.Sprintf("Align(%d)", int(a))
	}
}

// AlignContent represents cross-axis distribution of flex lines when
// wrapping produces more than one line.
type AlignContent int

const (
	AlignContentStart AlignContent = iota
	AlignContentEnd
	AlignContentCenter
	AlignContentStretch
	AlignContentSpaceBetween
	AlignContentSpaceAround
)

// String returns a human-readable representation of the line alignment.
func (a AlignContent) String() string {
	switch a {
	case AlignContentStart:
		return "start"
	case AlignContentEnd:
		return "end"
	case AlignContentCenter:
		return "center"
	case AlignContentStretch:
		return "stretch"
	case AlignContentSpaceBetween:
		return "space-between"
	case AlignContentSpaceAround:
		return "space-around"
	default:
		return fmt.Sprintf("AlignContent(%d)", int(a))
	}
}

// Position represents the position mode of a node.
type Position int

const (
	// PositionRelative participates in normal flex flow.
	PositionRelative Position = iota
	// PositionAbsolute is removed from flow and positioned from its
	// explicit offsets relative to the containing node's content box.
	PositionAbsolute
)

// String returns a human-readable representation of the position mode.
func (p Position) String() string {
	switch p {
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// Style is the resolved flexbox property set for one component. It is a
// value object: the component owns it and the layout engine snapshots it
// into the component's layout node.
type Style struct {
	Direction    Direction
	Wrap         Wrap
	Justify      Justify
	AlignItems   Align
	AlignSelf    Align
	AlignContent AlignContent

	Grow   float64
	Shrink float64
	Basis  Dimension

	Width     Dimension
	Height    Dimension
	MinWidth  Dimension
	MinHeight Dimension
	MaxWidth  Dimension
	MaxHeight Dimension

	Margin  geometry.EdgeInsets
	Padding geometry.EdgeInsets
	Border  geometry.EdgeInsets

	Position Position
	// Offsets for absolute positioning, measured from the containing
	// node's content box. Auto means "not set".
	Left   Dimension
	Top    Dimension
	Right  Dimension
	Bottom Dimension
}

// Default returns the zero-config style: relative row container, no wrap,
// start-aligned, shrink 1 (matching the CSS initial value), auto sizing.
func Default() Style {
	return Style{
		AlignItems: AlignStretch,
		Shrink:     1,
	}
}

// MainDimension returns the explicit dimension along the main axis.
func (s Style) MainDimension() Dimension {
	if s.Direction.IsRow() {
		return s.Width
	}
	return s.Height
}

// CrossDimension returns the explicit dimension along the cross axis.
func (s Style) CrossDimension() Dimension {
	if s.Direction.IsRow() {
		return s.Height
	}
	return s.Width
}
