// Package terrain holds the ground-truth heightfield and the brush edits applied to it.
package terrain

import (
	"fmt"
	"math"
)

// HeightField is a square toroidal grid of height samples.
// Every coordinate is taken modulo the side length, so the field has no edges.
type HeightField struct {
	size    int
	spacing float32 // world distance between two adjacent samples

	// Logical origin: world (0, 0) maps to this cell.
	startX int
	startY int

	data []float32 // row-major, size*size
}

// FieldSizeForRim returns the heightfield side length for a clipmap rim width.
// The field is four ring footprints wide so the finest rings never see a repeat.
func FieldSizeForRim(rim int) int {
	if rim < 2 {
		panic(fmt.Sprintf("terrain: rim width %d too small", rim))
	}
	return 4 << rim
}

// NewHeightField creates a flat field of size x size samples.
func NewHeightField(size int, spacing float32) *HeightField {
	if size <= 0 {
		panic(fmt.Sprintf("terrain: invalid field size %d", size))
	}
	if !(spacing > 0) {
		panic(fmt.Sprintf("terrain: invalid vertex spacing %v", spacing))
	}
	return &HeightField{
		size:    size,
		spacing: spacing,
		startX:  size / 2,
		startY:  size / 2,
		data:    make([]float32, size*size),
	}
}

// Size returns the side length in samples.
func (f *HeightField) Size() int { return f.size }

// Spacing returns the world distance between adjacent samples.
func (f *HeightField) Spacing() float32 { return f.spacing }

// StartIndex returns the cell that world origin maps to.
func (f *HeightField) StartIndex() (int, int) { return f.startX, f.startY }

// Data returns the backing row-major samples. Callers must not retain it across a resize.
func (f *HeightField) Data() []float32 { return f.data }

// Sample returns the height at (x, y) after wrapping both coordinates.
func (f *HeightField) Sample(x, y int) float32 {
	return f.data[wrap(y, f.size)*f.size+wrap(x, f.size)]
}

// Set stores h at the wrapped coordinate (x, y).
func (f *HeightField) Set(x, y int, h float32) {
	f.data[wrap(y, f.size)*f.size+wrap(x, f.size)] = h
}

// HeightAt returns the nearest-sample height under a world position
// measured from the start index.
func (f *HeightField) HeightAt(worldX, worldZ float64) float32 {
	x := f.startX + int(math.Round(worldX/float64(f.spacing)))
	y := f.startY + int(math.Round(worldZ/float64(f.spacing)))
	return f.Sample(x, y)
}

// MinMax returns the lowest and highest sample.
func (f *HeightField) MinMax() (lo, hi float32) {
	lo, hi = f.data[0], f.data[0]
	for _, h := range f.data[1:] {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	return lo, hi
}

// wrap maps v into [0, n).
func wrap(v, n int) int {
	m := v % n
	if m < 0 {
		m += n
	}
	return m
}
