package editor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/landsculpt/internal/config"
	"github.com/Faultbox/landsculpt/internal/render"
	"github.com/Faultbox/landsculpt/internal/terrain"
)

// radiusStep scales the brush radius per wheel notch.
const radiusStep = 1.15

var (
	raiseColor = mgl32.Vec4{0.2, 0.9, 0.3, 1}
	lowerColor = mgl32.Vec4{0.95, 0.25, 0.2, 1}
)

// BrushTool is the sculpting brush the user steers with the mouse.
type BrushTool struct {
	Radius    float32
	MinRadius float32
	MaxRadius float32
	Strength  float32 // height per second at the centre
}

// NewBrushTool builds a brush from settings, clamping the start radius.
func NewBrushTool(cfg config.BrushConfig) BrushTool {
	b := BrushTool{
		Radius:    cfg.Radius,
		MinRadius: cfg.MinRadius,
		MaxRadius: cfg.MaxRadius,
		Strength:  cfg.Strength,
	}
	b.Radius = mgl32.Clamp(b.Radius, b.MinRadius, b.MaxRadius)
	return b
}

// Scroll grows the radius by wheel notches; negative notches shrink it.
func (b *BrushTool) Scroll(notches int) {
	if notches == 0 {
		return
	}
	r := float64(b.Radius) * math.Pow(radiusStep, float64(notches))
	b.Radius = mgl32.Clamp(float32(r), b.MinRadius, b.MaxRadius)
}

// Stroke is the brush applied at a render-space point for one frame.
func (b BrushTool) Stroke(at mgl32.Vec3, dt float32, lower bool) terrain.Brush {
	strength := b.Strength * dt
	if lower {
		strength = -strength
	}
	return terrain.Brush{X: at.X(), Z: at.Z(), Radius: b.Radius, Strength: strength}
}

// Overlay is the outline drawn under the cursor. A missed pick hides it.
func (b BrushTool) Overlay(at mgl32.Vec3, hit, lower bool) render.Brush {
	if !hit {
		return render.Brush{}
	}
	c := raiseColor
	if lower {
		c = lowerColor
	}
	return render.Brush{Position: at, Radius: b.Radius, Color: c}
}

// scrollWithTerrain moves a render-space point picked before the camera
// travelled (dx, dz) so it stays on the same spot of terrain.
func scrollWithTerrain(p mgl32.Vec3, dx, dz float64) mgl32.Vec3 {
	return mgl32.Vec3{p.X() - float32(dx), p.Y(), p.Z() - float32(dz)}
}

// Save writes the brush back into settings.
func (b BrushTool) Save(cfg *config.BrushConfig) {
	cfg.Radius = b.Radius
}
