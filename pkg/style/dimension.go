package style

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// DimensionUnit discriminates how a Dimension resolves.
type DimensionUnit int

const (
	// UnitAuto sizes from content or context.
	UnitAuto DimensionUnit = iota
	// UnitPoints is an absolute value in surface units.
	UnitPoints
	// UnitPercent resolves against the container's corresponding extent.
	UnitPercent
)

// Dimension is a length that resolves against a container extent.
// The zero value is Auto.
type Dimension struct {
	Unit  DimensionUnit
	Value float64
}

// Auto returns an auto dimension.
func Auto() Dimension {
	return Dimension{Unit: UnitAuto}
}

// Points returns an absolute dimension.
func Points(v float64) Dimension {
	return Dimension{Unit: UnitPoints, Value: v}
}

// Percent returns a percentage dimension; v is in [0, 100].
func Percent(v float64) Dimension {
	return Dimension{Unit: UnitPercent, Value: v}
}

// IsAuto reports whether the dimension is unset.
func (d Dimension) IsAuto() bool {
	return d.Unit == UnitAuto
}

// IsDefinite reports whether the dimension resolves to a concrete value
// given a container extent. Percent is definite only when the container
// extent itself is defined (non-NaN).
func (d Dimension) IsDefinite(container float64) bool {
	switch d.Unit {
	case UnitPoints:
		return true
	case UnitPercent:
		return !math.IsNaN(container)
	default:
		return false
	}
}

// Resolve returns the concrete value against the container extent.
// The second return is false when the dimension cannot be resolved:
// auto, or percent against an undefined (NaN) extent.
func (d Dimension) Resolve(container float64) (float64, bool) {
	switch d.Unit {
	case UnitPoints:
		return d.Value, true
	case UnitPercent:
		if math.IsNaN(container) {
			return 0, false
		}
		return container * d.Value / 100, true
	default:
		return 0, false
	}
}

// String returns a human-readable representation of the dimension.
func (d Dimension) String() string {
	switch d.Unit {
	case UnitAuto:
		return "auto"
	case UnitPoints:
		return fmt.Sprintf("%gpt", d.Value)
	case UnitPercent:
		return fmt.Sprintf("%g%%", d.Value)
	default:
		return fmt.Sprintf("Dimension(%d,%g)", int(d.Unit), d.Value)
	}
}

// Hash returns a stable hash of the full style, used by the layout engine
// as a cache-key ingredient. Two styles with equal field values always
// produce the same hash.
func (s Style) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeDim := func(d Dimension) {
		writeInt(int(d.Unit))
		writeFloat(d.Value)
	}
	writeEdges := func(l, t, r, b float64) {
		writeFloat(l)
		writeFloat(t)
		writeFloat(r)
		writeFloat(b)
	}

	writeInt(int(s.Direction))
	writeInt(int(s.Wrap))
	writeInt(int(s.Justify))
	writeInt(int(s.AlignItems))
	writeInt(int(s.AlignSelf))
	writeInt(int(s.AlignContent))
	writeFloat(s.Grow)
	writeFloat(s.Shrink)
	writeDim(s.Basis)
	writeDim(s.Width)
	writeDim(s.Height)
	writeDim(s.MinWidth)
	writeDim(s.MinHeight)
	writeDim(s.MaxWidth)
	writeDim(s.MaxHeight)
	writeEdges(s.Margin.Left, s.Margin.Top, s.Margin.Right, s.Margin.Bottom)
	writeEdges(s.Padding.Left, s.Padding.Top, s.Padding.Right, s.Padding.Bottom)
	writeEdges(s.Border.Left, s.Border.Top, s.Border.Right, s.Border.Bottom)
	writeInt(int(s.Position))
	writeDim(s.Left)
	writeDim(s.Top)
	writeDim(s.Right)
	writeDim(s.Bottom)

	return h.Sum64()
}
