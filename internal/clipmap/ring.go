package clipmap

import (
	"fmt"
	"math"
)

// Parity is the sub-cell phase of the camera inside a ring's current cell.
// Bit 1 is set when the X phase is in the upper half, bit 0 for Y.
type Parity uint8

const (
	Parity00 Parity = iota
	Parity01
	Parity10
	Parity11
	ParityCount
)

// OffsetX reports whether the stitching pattern is shifted along X.
func (p Parity) OffsetX() bool { return p&2 != 0 }

// OffsetY reports whether the stitching pattern is shifted along Y.
func (p Parity) OffsetY() bool { return p&1 != 0 }

func (p Parity) String() string {
	return fmt.Sprintf("(%d,%d)", p>>1&1, p&1)
}

// ParityAt returns the parity of a ring with the given scale at a camera offset.
func ParityAt(offsetX, offsetY float64, scale int) Parity {
	var p Parity
	if phase(offsetX, scale) >= float64(scale) {
		p |= 2
	}
	if phase(offsetY, scale) >= float64(scale) {
		p |= 1
	}
	return p
}

func phase(offset float64, scale int) float64 {
	period := 2 * float64(scale)
	m := math.Mod(offset, period)
	if m < 0 {
		m += period
	}
	return m
}

// CellDelta quantises an offset change into ring cells at the given scale.
// The result is always even because the ring grid stitches in pairs.
func CellDelta(delta float64, scale int) int {
	s := float64(scale)
	steps := math.Floor((math.Abs(delta) + s) / (2 * s))
	switch {
	case delta > 0:
		return int(steps) * 2
	case delta < 0:
		return -int(steps) * 2
	default:
		return 0
	}
}

// State tracks a ring cache against the camera offset.
type State uint8

const (
	// StateFresh means the cache was just allocated and needs a full resample.
	StateFresh State = iota
	// StateSynced means the cache matches the tracked offset.
	StateSynced
	// StateStale means the camera moved at least one step and a patch is pending.
	StateStale
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateSynced:
		return "synced"
	case StateStale:
		return "stale"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Ring is one level of detail: a size x size toroidal cache of heights
// sampled at stride Scale around the ring's tracked offset.
type Ring struct {
	Level int
	Scale int

	size    int
	heights []float32 // slot (i mod size, j mod size), row-major

	// Tracked offset in field units. Always an odd multiple of Scale.
	lastX, lastY float64

	parity   Parity
	state    State
	revision uint64
}

func newRing(level, size int) *Ring {
	scale := 1 << level
	return &Ring{
		Level:   level,
		Scale:   scale,
		size:    size,
		heights: make([]float32, size*size),
		lastX:   float64(scale),
		lastY:   float64(scale),
		state:   StateFresh,
	}
}

// Size returns the cache side length.
func (r *Ring) Size() int { return r.size }

// Heights returns the raw cache in slot order. The render stage reads it; nothing else should.
func (r *Ring) Heights() []float32 { return r.heights }

// Offset returns the field offset the cache currently represents.
func (r *Ring) Offset() (x, y float64) { return r.lastX, r.lastY }

// Parity returns the stitching parity chosen by the last update.
func (r *Ring) Parity() Parity { return r.parity }

// State returns the cache state.
func (r *Ring) State() State { return r.state }

// Revision increments every time cache contents change.
func (r *Ring) Revision() uint64 { return r.revision }

// Center returns the ring cell the tracked offset maps to.
func (r *Ring) Center() (i, j int) {
	return int(math.Round(r.lastX / float64(r.Scale))), int(math.Round(r.lastY / float64(r.Scale)))
}

// Origin returns the ring cell of the first window column and row.
// Vertex (u, v) of the ring grid reads cell Origin + (u, v).
func (r *Ring) Origin() (i, j int) {
	ci, cj := r.Center()
	h := r.size / 2
	return ci - h, cj - h
}

// At returns the cached height of window cell (col, row), both in [0, Size).
func (r *Ring) At(col, row int) float32 {
	oi, oj := r.Origin()
	return r.heights[r.slot(oi+col, oj+row)]
}

func (r *Ring) slot(i, j int) int {
	return wrap(j, r.size)*r.size + wrap(i, r.size)
}

func wrap(v, n int) int {
	m := v % n
	if m < 0 {
		m += n
	}
	return m
}
