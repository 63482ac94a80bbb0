package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestForwardAndRight(t *testing.T) {
	c := NewFlyCamera()
	c.Yaw, c.Pitch = 0, 0
	if f := c.Forward(); !f.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("Forward = %v", f)
	}
	if r := c.Right(); !r.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("Right = %v", r)
	}

	c.Yaw = math.Pi / 2
	if f := c.Forward(); !f.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("Forward at yaw 90 = %v", f)
	}
	// Right stays perpendicular to forward.
	if d := c.Forward().Dot(c.Right()); math.Abs(float64(d)) > 1e-6 {
		t.Errorf("Forward.Right = %v", d)
	}
}

func TestRotateClampsPitch(t *testing.T) {
	c := NewFlyCamera()
	c.Rotate(0, -1e6)
	if c.Pitch > maxPitch+1e-6 {
		t.Errorf("Pitch = %v exceeds limit", c.Pitch)
	}
	c.Rotate(0, 1e6)
	if c.Pitch < -maxPitch-1e-6 {
		t.Errorf("Pitch = %v below limit", c.Pitch)
	}
	c.Rotate(float32(10*math.Pi)/c.Sensitivity, 0)
	if math.Abs(float64(c.Yaw)) > math.Pi+1e-4 {
		t.Errorf("Yaw = %v not wrapped", c.Yaw)
	}
}

func TestStepFree(t *testing.T) {
	c := NewFlyCamera()
	c.Yaw, c.Pitch = 0, 0
	c.Speed = 10
	h := c.Height

	dx, dz := c.Step(Motion{Forward: 1}, 0.5)
	if !near(dx, 0) || !near(dz, -5) {
		t.Errorf("forward step = (%v, %v), want (0, -5)", dx, dz)
	}
	if c.Height != h {
		t.Errorf("level forward step changed height to %v", c.Height)
	}

	dx, dz = c.Step(Motion{Right: 1, Boost: true}, 0.5)
	if !near(dx, 5*float64(c.BoostFactor)) || !near(dz, 0) {
		t.Errorf("boosted strafe = (%v, %v)", dx, dz)
	}

	c.Step(Motion{Up: 1}, 1)
	if !near(float64(c.Height), float64(h+10)) {
		t.Errorf("Height = %v, want %v", c.Height, h+10)
	}
}

func TestStepAttachedStaysLevel(t *testing.T) {
	c := NewFlyCamera()
	c.Movement = MovementAttached
	c.Yaw, c.Pitch = 0, -1
	c.Speed = 4
	h := c.Height

	dx, dz := c.Step(Motion{Forward: 1, Up: 1}, 1)
	if !near(dx, 0) || !near(dz, -4) {
		t.Errorf("step = (%v, %v), want (0, -4)", dx, dz)
	}
	if c.Height != h {
		t.Errorf("attached step changed height")
	}

	c.Follow(30)
	if c.Height != 30+c.EyeHeight {
		t.Errorf("Follow: Height = %v", c.Height)
	}
}

func TestFollowIgnoredWhenFree(t *testing.T) {
	c := NewFlyCamera()
	h := c.Height
	c.Follow(-500)
	if c.Height != h {
		t.Errorf("free camera followed the ground")
	}
}

func TestUnprojectRoundTrip(t *testing.T) {
	c := NewFlyCamera()
	c.SetViewport(800, 600)
	c.Yaw, c.Pitch = 0.3, -0.6

	target := mgl32.Vec3{20, 60, -80}
	win := mgl32.Project(target, c.View(), c.Projection(), 0, 0, 800, 600)

	// Pick the pixel containing the projected point.
	x := int(win.X())
	y := 600 - 1 - int(win.Y())
	got, err := c.Unproject(x, y, win.Z(), 800, 600)
	if err != nil {
		t.Fatalf("Unproject: %v", err)
	}
	if got.Sub(target).Len() > 1 {
		t.Errorf("Unproject = %v, want near %v", got, target)
	}
}

func TestParseMovement(t *testing.T) {
	for _, m := range []Movement{MovementFree, MovementAttached} {
		got, err := ParseMovement(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMovement(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMovement("orbit"); err == nil {
		t.Error("expected error")
	}
}

func TestSetViewport(t *testing.T) {
	c := NewFlyCamera()
	c.SetViewport(1000, 500)
	if c.Aspect != 2 {
		t.Errorf("Aspect = %v", c.Aspect)
	}
	c.SetViewport(0, 500)
	if c.Aspect != 2 {
		t.Errorf("zero width changed aspect")
	}
}
