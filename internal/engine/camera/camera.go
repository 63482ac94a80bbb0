// Package camera provides the fly camera used to look over the landscape.
package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Movement selects how the camera treats the ground.
type Movement int

const (
	// MovementFree flies anywhere, ignoring the terrain.
	MovementFree Movement = iota
	// MovementAttached keeps the eye a fixed height above the terrain.
	MovementAttached
)

func (m Movement) String() string {
	switch m {
	case MovementFree:
		return "free"
	case MovementAttached:
		return "attached"
	default:
		return fmt.Sprintf("Movement(%d)", int(m))
	}
}

// ParseMovement accepts the names printed by Movement.String.
func ParseMovement(s string) (Movement, error) {
	switch s {
	case "free", "":
		return MovementFree, nil
	case "attached":
		return MovementAttached, nil
	default:
		return MovementFree, fmt.Errorf("unknown camera movement %q", s)
	}
}

// Motion is one frame of movement input, each axis in [-1, 1].
type Motion struct {
	Forward float32
	Right   float32
	Up      float32
	Boost   bool
}

// FlyCamera is a first-person camera pinned to the horizontal origin of render
// space. Horizontal motion is handed back to the caller, which scrolls the
// terrain underneath instead of moving the eye.
type FlyCamera struct {
	Height float32 // eye height in world units
	Yaw    float32 // radians, 0 looks down -Z
	Pitch  float32 // radians, positive looks up

	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Speed       float32 // world units per second
	BoostFactor float32
	Sensitivity float32 // radians per pixel of mouse drag
	MinHeight   float32
	EyeHeight   float32 // above ground when attached

	Movement Movement
}

const maxPitch = 89 * math.Pi / 180

// NewFlyCamera returns a camera hovering above the origin and looking slightly down.
func NewFlyCamera() *FlyCamera {
	return &FlyCamera{
		Height:      120,
		Pitch:       -0.35,
		FOV:         60,
		Aspect:      16.0 / 9.0,
		Near:        0.5,
		Far:         20000,
		Speed:       80,
		BoostFactor: 8,
		Sensitivity: 0.004,
		MinHeight:   -10000,
		EyeHeight:   6,
	}
}

// Position returns the eye in render space.
func (c *FlyCamera) Position() mgl32.Vec3 {
	return mgl32.Vec3{0, c.Height, 0}
}

// Forward returns the unit view direction.
func (c *FlyCamera) Forward() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	return mgl32.Vec3{float32(sy * cp), float32(sp), float32(-cy * cp)}
}

// Right returns the horizontal unit vector to the right of the view.
func (c *FlyCamera) Right() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	return mgl32.Vec3{float32(cy), 0, float32(sy)}
}

// View returns the view matrix.
func (c *FlyCamera) View() mgl32.Mat4 {
	eye := c.Position()
	return mgl32.LookAtV(eye, eye.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix.
func (c *FlyCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// SetViewport updates the aspect ratio after a window resize.
func (c *FlyCamera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Rotate turns the camera by a mouse drag in pixels.
func (c *FlyCamera) Rotate(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
	c.Yaw = float32(math.Remainder(float64(c.Yaw), 2*math.Pi))
}

// Step applies vertical motion to the eye and returns the horizontal distance
// travelled in world units along X and Z.
func (c *FlyCamera) Step(m Motion, dt float32) (dx, dz float64) {
	speed := c.Speed * dt
	if m.Boost {
		speed *= c.BoostFactor
	}

	f := c.Forward()
	r := c.Right()

	var move mgl32.Vec3
	if c.Movement == MovementAttached {
		// Walk on the ground: keep forward level.
		flat := mgl32.Vec3{f.X(), 0, f.Z()}
		if flat.Len() > 1e-6 {
			flat = flat.Normalize()
		}
		move = flat.Mul(m.Forward).Add(r.Mul(m.Right))
	} else {
		move = f.Mul(m.Forward).Add(r.Mul(m.Right)).Add(mgl32.Vec3{0, m.Up, 0})
	}
	move = move.Mul(speed)

	c.Height = max(c.Height+move.Y(), c.MinHeight)
	return float64(move.X()), float64(move.Z())
}

// Follow places the eye above the ground when the camera is attached.
func (c *FlyCamera) Follow(ground float32) {
	if c.Movement == MovementAttached {
		c.Height = ground + c.EyeHeight
	}
}

// Unproject turns a window pixel and its depth buffer value into a render-space
// point. Window y grows downward as SDL reports it.
func (c *FlyCamera) Unproject(x, y int, depth float32, width, height int) (mgl32.Vec3, error) {
	win := mgl32.Vec3{float32(x) + 0.5, float32(height-y) - 0.5, depth}
	p, err := mgl32.UnProject(win, c.View(), c.Projection(), 0, 0, width, height)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("unproject (%d, %d): %w", x, y, err)
	}
	return p, nil
}

// Reset returns the camera to its initial orientation and height.
func (c *FlyCamera) Reset() {
	d := NewFlyCamera()
	c.Height, c.Yaw, c.Pitch = d.Height, d.Yaw, d.Pitch
}
