// Package clipmap streams heightfield data into nested level-of-detail rings
// and builds the static index topology used to draw them.
package clipmap

import (
	"fmt"
	"math"
)

// RestartIndex separates triangle-strip runs inside one index buffer.
// No grid built here can reach this many vertices.
const RestartIndex uint32 = math.MaxUint32

// SetID names one of the eight static index sets.
type SetID int

const (
	SetCenter1 SetID = iota
	SetCenter2
	SetCenter3
	SetCenter4
	SetRing1
	SetRing2
	SetRing3
	SetRing4
	SetCount
)

func (id SetID) String() string {
	switch {
	case id >= SetCenter1 && id <= SetCenter4:
		return fmt.Sprintf("center%d", int(id-SetCenter1)+1)
	case id >= SetRing1 && id <= SetRing4:
		return fmt.Sprintf("ring%d", int(id-SetRing1)+1)
	default:
		return fmt.Sprintf("SetID(%d)", int(id))
	}
}

// SetFor selects the index set for a ring level drawn with parity p.
// Level 0 is the solid centre, every other level has a hole for the level inside it.
func SetFor(level int, p Parity) SetID {
	if level == 0 {
		return SetCenter1 + SetID(p)
	}
	return SetRing1 + SetID(p)
}

// RingWidthForRim returns the ring width in cells for a rim width:
// 2^rim - 1 vertices per side, so there is always a centre vertex.
func RingWidthForRim(rim int) int {
	if rim < 2 || rim > 15 {
		panic(fmt.Sprintf("clipmap: rim width %d out of range", rim))
	}
	return 1<<rim - 2
}

// DefaultHoleWidth returns the hole that exactly fits the next finer ring:
// W fine cells cover W/2 coarse cells.
func DefaultHoleWidth(width int) int {
	return width / 2
}

// Topology holds the shared vertex grid and the eight index sets for one ring width.
// It is immutable once built.
type Topology struct {
	Width     int
	HoleWidth int
	Vertices  []float32 // (x, y) pairs

	sets [SetCount][]uint32
}

// NewTopology builds the vertex grid and all index sets.
func NewTopology(width, holeWidth int) *Topology {
	t := &Topology{
		Width:     width,
		HoleWidth: holeWidth,
		Vertices:  BuildVertexGrid(width),
	}
	for p := Parity(0); p < ParityCount; p++ {
		// The centre has no hole to shift, so its four sets share one pattern;
		// its edge against ring 1 is stitched by the odd-vertex averaging in clipmap.vert.
		t.sets[SetCenter1+SetID(p)] = BuildIndexSet(width, p.OffsetX(), p.OffsetY(), 0)
		t.sets[SetRing1+SetID(p)] = BuildIndexSet(width, p.OffsetX(), p.OffsetY(), holeWidth)
	}
	return t
}

// Set returns the indices of one variant.
func (t *Topology) Set(id SetID) []uint32 {
	return t.sets[id]
}

// VertexCount returns the number of grid vertices.
func (t *Topology) VertexCount() int {
	return (t.Width + 1) * (t.Width + 1)
}

// BuildVertexGrid returns a (width+1)^2 grid of unit-spaced (x, y) positions, row-major.
func BuildVertexGrid(width int) []float32 {
	if width <= 0 {
		panic(fmt.Sprintf("clipmap: invalid grid width %d", width))
	}
	n := width + 1
	out := make([]float32, 0, n*n*2)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out = append(out, float32(x), float32(y))
		}
	}
	return out
}

// HoleStart returns the first hole cell along one axis.
// The hole sits as close to the centre as the odd remainder allows;
// offset pushes it one cell towards the positive side.
func HoleStart(width, holeWidth int, offset bool) int {
	start := (width - holeWidth - 1) / 2
	if offset {
		start++
	}
	return start
}

// BuildIndexSet returns triangle-strip indices covering a width x width cell grid
// minus a centred holeWidth x holeWidth hole. Each row segment is its own strip,
// separated by RestartIndex. offsetX and offsetY move the hole by one cell.
func BuildIndexSet(width int, offsetX, offsetY bool, holeWidth int) []uint32 {
	if width <= 0 {
		panic(fmt.Sprintf("clipmap: invalid grid width %d", width))
	}
	if holeWidth < 0 || (holeWidth > 0 && holeWidth >= width) {
		panic(fmt.Sprintf("clipmap: hole width %d does not fit grid width %d", holeWidth, width))
	}

	stride := uint32(width + 1)
	hx0, hy0 := 0, 0
	if holeWidth > 0 {
		hx0 = HoleStart(width, holeWidth, offsetX)
		hy0 = HoleStart(width, holeWidth, offsetY)
	}
	hx1, hy1 := hx0+holeWidth, hy0+holeWidth

	out := make([]uint32, 0, width*(2*width+3))
	strip := func(y, x0, x1 int) {
		if x1 <= x0 {
			return
		}
		if len(out) > 0 {
			out = append(out, RestartIndex)
		}
		top := uint32(y) * stride
		bottom := top + stride
		for x := x0; x <= x1; x++ {
			out = append(out, top+uint32(x), bottom+uint32(x))
		}
	}

	for y := 0; y < width; y++ {
		if holeWidth > 0 && y >= hy0 && y < hy1 {
			strip(y, 0, hx0)
			strip(y, hx1, width)
			continue
		}
		strip(y, 0, width)
	}
	return out
}
