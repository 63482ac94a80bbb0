package terrain

import (
	"math"
)

// Brush is a circular sculpting stroke.
// X and Z are world coordinates measured from the field's start index.
type Brush struct {
	X, Z     float32
	Radius   float32 // world units
	Strength float32 // height added at the centre; negative lowers
}

// Region is a rectangle of field cells. X and Y are wrapped into the field,
// W and H never exceed the field size, so a region may straddle the seam.
type Region struct {
	X, Y int
	W, H int
}

// Contains reports whether the field cell (x, y) lies in r, under wrap.
func (r Region) Contains(x, y, size int) bool {
	return wrap(x-r.X, size) < r.W && wrap(y-r.Y, size) < r.H
}

// ContainsX reports whether column x lies in r.
func (r Region) ContainsX(x, size int) bool { return wrap(x-r.X, size) < r.W }

// ContainsY reports whether row y lies in r.
func (r Region) ContainsY(y, size int) bool { return wrap(y-r.Y, size) < r.H }

// footprint is a brush resolved into field space.
type footprint struct {
	cx, cy float64 // centre in cells
	r      float64 // radius in cells
	x0, x1 int     // inclusive cell range, unwrapped
	y0, y1 int
}

func (f *HeightField) resolve(b Brush) (footprint, bool) {
	if !(b.Radius > 0) || b.Strength == 0 {
		return footprint{}, false
	}
	if !finite(b.X) || !finite(b.Z) || !finite(b.Radius) || !finite(b.Strength) {
		return footprint{}, false
	}

	spacing := float64(f.spacing)
	// A centre more than one field width from the start index is off the
	// field, not a wrapped stroke.
	if math.Hypot(float64(b.X), float64(b.Z))/spacing > float64(f.size) {
		return footprint{}, false
	}
	r := float64(b.Radius) / spacing
	if limit := float64(f.size-1) / 2; r > limit {
		r = limit
	}
	cx := float64(f.startX) + float64(b.X)/spacing
	cy := float64(f.startY) + float64(b.Z)/spacing

	fp := footprint{
		cx: cx, cy: cy, r: r,
		x0: int(math.Ceil(cx - r)), x1: int(math.Floor(cx + r)),
		y0: int(math.Ceil(cy - r)), y1: int(math.Floor(cy + r)),
	}
	if fp.x1 < fp.x0 || fp.y1 < fp.y0 {
		return footprint{}, false
	}
	return fp, true
}

// Footprint returns the cells b can touch. The second result is false when
// the brush would not change anything.
func (f *HeightField) Footprint(b Brush) (Region, bool) {
	fp, ok := f.resolve(b)
	if !ok {
		return Region{}, false
	}
	return Region{
		X: wrap(fp.x0, f.size),
		Y: wrap(fp.y0, f.size),
		W: fp.x1 - fp.x0 + 1,
		H: fp.y1 - fp.y0 + 1,
	}, true
}

// ApplyBrush raises (or lowers) every cell within the brush radius by
// Strength weighted with a smooth falloff. Zero radius or zero strength is a no-op.
func (f *HeightField) ApplyBrush(b Brush) {
	fp, ok := f.resolve(b)
	if !ok {
		return
	}

	for y := fp.y0; y <= fp.y1; y++ {
		dy := float64(y) - fp.cy
		row := wrap(y, f.size) * f.size
		for x := fp.x0; x <= fp.x1; x++ {
			dx := float64(x) - fp.cx
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= fp.r {
				continue
			}
			f.data[row+wrap(x, f.size)] += b.Strength * falloff(d/fp.r)
		}
	}
}

// falloff is 1 at the centre and 0 at the rim with zero slope on both ends.
func falloff(t float64) float32 {
	k := 1 - t*t
	return float32(k * k)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
