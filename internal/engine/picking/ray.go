// Package picking casts rays from the screen into the landscape.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// AABB is an axis-aligned box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// HeightFunc returns the ground height under a render-space point.
type HeightFunc func(x, z float32) float32

// bisections refines a march hit between the last point above ground and the
// first below it.
const bisections = 16

// ScreenToRay converts a window pixel, y growing downward, into a ray from the
// near plane. invViewProj is the inverse of projection * view.
func ScreenToRay(x, y, width, height int, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*(float32(x)+0.5)/float32(width) - 1
	ndcY := 1 - 2*(float32(y)+0.5)/float32(height)

	near := unproject(invViewProj, ndcX, ndcY, -1)
	far := unproject(invViewProj, ndcX, ndcY, 1)

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv mgl32.Mat4, x, y, z float32) mgl32.Vec3 {
	p := inv.Mul4x1(mgl32.Vec4{x, y, z, 1})
	if p.W() != 0 {
		return p.Vec3().Mul(1 / p.W())
	}
	return p.Vec3()
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlaneY intersects the ray with the horizontal plane at height y.
func (r Ray) IntersectPlaneY(y float32) (mgl32.Vec3, bool) {
	if math.Abs(float64(r.Direction.Y())) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := (y - r.Origin.Y()) / r.Direction.Y()
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectAABB returns the span of the ray inside box, clipped to t >= 0.
func (r Ray) IntersectAABB(box AABB) (enter, exit float32, hit bool) {
	enter = float32(-math.MaxFloat32)
	exit = float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		enter = max(enter, t1)
		exit = min(exit, t2)
	}

	if exit < enter || exit < 0 {
		return 0, 0, false
	}
	return max(enter, 0), exit, true
}

// NewAABB builds a box from two opposite corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{min(a.X(), b.X()), min(a.Y(), b.Y()), min(a.Z(), b.Z())},
		Max: mgl32.Vec3{max(a.X(), b.X()), max(a.Y(), b.Y()), max(a.Z(), b.Z())},
	}
}

// MarchTerrain walks the ray through bounds in fixed steps until it passes
// below the ground, then bisects to the surface. bounds should enclose every
// height the function can return.
func MarchTerrain(r Ray, bounds AABB, height HeightFunc, step float32) (mgl32.Vec3, bool) {
	if !(step > 0) {
		return mgl32.Vec3{}, false
	}
	enter, exit, ok := r.IntersectAABB(bounds)
	if !ok {
		return mgl32.Vec3{}, false
	}

	below := func(t float32) bool {
		p := r.At(t)
		return p.Y() <= height(p.X(), p.Z())
	}
	if below(enter) {
		// Starting under the surface: only a hit on the box wall counts.
		if enter == 0 {
			return mgl32.Vec3{}, false
		}
		return surface(r.At(enter), height), true
	}

	prev := enter
	for t := enter + step; ; t += step {
		t = min(t, exit)
		if below(t) {
			lo, hi := prev, t
			for range bisections {
				mid := (lo + hi) / 2
				if below(mid) {
					hi = mid
				} else {
					lo = mid
				}
			}
			return surface(r.At(hi), height), true
		}
		if t >= exit {
			return mgl32.Vec3{}, false
		}
		prev = t
	}
}

func surface(p mgl32.Vec3, height HeightFunc) mgl32.Vec3 {
	return mgl32.Vec3{p.X(), height(p.X(), p.Z()), p.Z()}
}
