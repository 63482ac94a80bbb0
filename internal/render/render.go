// Package render draws clipmap rings through abstract shader and draw
// capabilities, so the ring selection logic stays free of GL calls.
package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/landsculpt/internal/clipmap"
)

// Shader accepts named parameters and can be selected for subsequent draws.
type Shader interface {
	Set(name string, value any)
	Activate()
}

// Drawer issues the draw call for one ring with one of the topology index sets.
type Drawer interface {
	DrawRing(level int, set clipmap.SetID, ring *clipmap.Ring)
}

// Uniform names shared by the clipmap shaders.
const (
	UniformWorld          = "uWorld"
	UniformHeightCache    = "uHeightCache"
	UniformClipmapWidth   = "uClipmapWidth"
	UniformVertexSpacing  = "uVertexSpacing"
	UniformClipmapScale   = "uClipmapScale"
	UniformRingOrigin     = "uRingOrigin"
	UniformCacheOrigin    = "uCacheOrigin"
	UniformHeightRange    = "uHeightRange"
	UniformBrushPosition  = "uBrushPosition"
	UniformBrushScale     = "uBrushScale"
	UniformBrushColor     = "uBrushColor"
	UniformWireframeColor = "uWireframeColor"
)

// HeightCacheUnit is the texture unit ring caches are bound to.
const HeightCacheUnit = 0

// Kind identifies a shader program and the parameters it understands.
type Kind int

const (
	KindLandscape Kind = iota
	KindWireframe
)

var ringUniforms = []string{
	UniformWorld,
	UniformHeightCache,
	UniformClipmapWidth,
	UniformVertexSpacing,
	UniformClipmapScale,
	UniformRingOrigin,
	UniformCacheOrigin,
}

var kindUniforms = map[Kind][]string{
	KindLandscape: append(append([]string{}, ringUniforms...),
		UniformHeightRange,
		UniformBrushPosition,
		UniformBrushScale,
		UniformBrushColor,
	),
	KindWireframe: append(append([]string{}, ringUniforms...),
		UniformWireframeColor,
	),
}

// Uniforms lists the parameter names programs of this kind recognise.
func (k Kind) Uniforms() []string { return kindUniforms[k] }

func (k Kind) String() string {
	switch k {
	case KindLandscape:
		return "landscape"
	case KindWireframe:
		return "wireframe"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Mode is how the terrain is displayed.
type Mode int

const (
	ModeLandscape Mode = iota
	ModeWireframe
	modeCount
)

// ParseMode accepts the names printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "landscape", "":
		return ModeLandscape, nil
	case "wireframe":
		return ModeWireframe, nil
	default:
		return ModeLandscape, fmt.Errorf("unknown render mode %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeLandscape:
		return "landscape"
	case ModeWireframe:
		return "wireframe"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Kind returns the shader kind the mode draws with.
func (m Mode) Kind() Kind {
	if m == ModeWireframe {
		return KindWireframe
	}
	return KindLandscape
}

// Wireframe reports whether polygons are drawn as lines.
func (m Mode) Wireframe() bool { return m == ModeWireframe }

// Next cycles through the modes.
func (m Mode) Next() Mode { return (m + 1) % modeCount }

// WireframeColor alternates per level so neighbouring rings can be told apart.
func WireframeColor(level int) mgl32.Vec4 {
	if level%2 == 0 {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	return mgl32.Vec4{0.5, 0, 0, 1}
}

// Brush is the sculpting cursor as drawn on the landscape.
type Brush struct {
	Position mgl32.Vec3 // render space
	Radius   float32    // 0 hides the outline
	Color    mgl32.Vec4
}

// Frame carries the per-frame parameters of a pass.
type Frame struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4

	// Camera position over the field in field cells.
	OffsetX, OffsetY float64
	Spacing          float32

	HeightMin, HeightMax float32
	Brush                Brush
}

// Pass draws every ring of a landscape in one mode.
type Pass struct {
	Mode   Mode
	Shader Shader
	Drawer Drawer
}

// Draw sets frame parameters once, then per ring its placement and index set,
// and issues one draw per ring. It returns the number of draws.
func (p Pass) Draw(f Frame, rings []*clipmap.Ring) int {
	if len(rings) == 0 {
		return 0
	}
	kind := p.Mode.Kind()
	size := rings[0].Size()

	p.Shader.Activate()
	p.Shader.Set(UniformWorld, f.Projection.Mul4(f.View))
	p.Shader.Set(UniformHeightCache, int32(HeightCacheUnit))
	p.Shader.Set(UniformClipmapWidth, int32(size))
	p.Shader.Set(UniformVertexSpacing, f.Spacing)

	if kind == KindLandscape {
		p.Shader.Set(UniformHeightRange, mgl32.Vec2{f.HeightMin, f.HeightMax})
		p.Shader.Set(UniformBrushPosition, f.Brush.Position)
		p.Shader.Set(UniformBrushScale, f.Brush.Radius)
		p.Shader.Set(UniformBrushColor, f.Brush.Color)
	}

	for _, r := range rings {
		oi, oj := r.Origin()
		s := float64(r.Scale)

		p.Shader.Set(UniformClipmapScale, float32(r.Scale))
		// Relative to the camera so large offsets keep float precision.
		p.Shader.Set(UniformRingOrigin, mgl32.Vec2{
			float32(float64(oi)*s - f.OffsetX),
			float32(float64(oj)*s - f.OffsetY),
		})
		p.Shader.Set(UniformCacheOrigin, [2]int32{int32(floorMod(oi, size)), int32(floorMod(oj, size))})
		if kind == KindWireframe {
			p.Shader.Set(UniformWireframeColor, WireframeColor(r.Level))
		}

		p.Drawer.DrawRing(r.Level, clipmap.SetFor(r.Level, r.Parity()), r)
	}
	return len(rings)
}

func floorMod(v, n int) int {
	m := v % n
	if m < 0 {
		m += n
	}
	return m
}
