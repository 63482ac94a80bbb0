package render

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/landsculpt/internal/clipmap"
	"github.com/Faultbox/landsculpt/internal/terrain"
)

type setCall struct {
	name  string
	value any
}

type fakeShader struct {
	active bool
	calls  []setCall
}

func (s *fakeShader) Activate() { s.active = true }

func (s *fakeShader) Set(name string, value any) {
	s.calls = append(s.calls, setCall{name, value})
}

func (s *fakeShader) last(name string) (any, bool) {
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].name == name {
			return s.calls[i].value, true
		}
	}
	return nil, false
}

func (s *fakeShader) all(name string) []any {
	var out []any
	for _, c := range s.calls {
		if c.name == name {
			out = append(out, c.value)
		}
	}
	return out
}

type drawCall struct {
	level int
	set   clipmap.SetID
}

type fakeDrawer struct {
	draws []drawCall
}

func (d *fakeDrawer) DrawRing(level int, set clipmap.SetID, _ *clipmap.Ring) {
	d.draws = append(d.draws, drawCall{level, set})
}

func testRings(t *testing.T, x, y float64) []*clipmap.Ring {
	t.Helper()
	f := terrain.NewHeightField(64, 1)
	s := clipmap.NewStreamer(f, 3, 15)
	s.Reset(x, y)
	return s.Rings()
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"landscape", ModeLandscape, false},
		{"Wireframe", ModeWireframe, false},
		{"", ModeLandscape, false},
		{"points", ModeLandscape, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
	for _, m := range []Mode{ModeLandscape, ModeWireframe} {
		if got, _ := ParseMode(m.String()); got != m {
			t.Errorf("ParseMode(%v.String()) = %v", m, got)
		}
	}
}

func TestModeNextCycles(t *testing.T) {
	if ModeLandscape.Next() != ModeWireframe || ModeWireframe.Next() != ModeLandscape {
		t.Error("Next does not cycle")
	}
	if !ModeWireframe.Wireframe() || ModeLandscape.Wireframe() {
		t.Error("Wireframe flag wrong")
	}
}

func TestKindUniforms(t *testing.T) {
	land := KindLandscape.Uniforms()
	wire := KindWireframe.Uniforms()

	for _, name := range []string{UniformWorld, UniformRingOrigin, UniformCacheOrigin} {
		if !slices.Contains(land, name) || !slices.Contains(wire, name) {
			t.Errorf("%s missing from a kind", name)
		}
	}
	if !slices.Contains(land, UniformBrushPosition) || slices.Contains(wire, UniformBrushPosition) {
		t.Error("brush uniforms belong to the landscape kind only")
	}
	if !slices.Contains(wire, UniformWireframeColor) || slices.Contains(land, UniformWireframeColor) {
		t.Error("wireframe colour belongs to the wireframe kind only")
	}
}

func TestPassDrawsEveryRing(t *testing.T) {
	rings := testRings(t, 1.5, 0.5)
	sh, dr := &fakeShader{}, &fakeDrawer{}

	n := Pass{Mode: ModeLandscape, Shader: sh, Drawer: dr}.Draw(Frame{
		Projection: mgl32.Ident4(),
		View:       mgl32.Ident4(),
		OffsetX:    1.5,
		OffsetY:    0.5,
		Spacing:    2,
	}, rings)

	if n != 3 || len(dr.draws) != 3 {
		t.Fatalf("draws = %d (%d)", n, len(dr.draws))
	}
	if !sh.active {
		t.Error("shader not activated")
	}
	for i, d := range dr.draws {
		want := clipmap.SetFor(i, rings[i].Parity())
		if d.level != i || d.set != want {
			t.Errorf("draw %d = %+v, want level %d set %v", i, d, i, want)
		}
	}
	if dr.draws[0].set < clipmap.SetCenter1 || dr.draws[0].set > clipmap.SetCenter4 {
		t.Errorf("level 0 drawn with %v", dr.draws[0].set)
	}
	if len(sh.all(UniformWireframeColor)) != 0 {
		t.Error("landscape pass set a wireframe colour")
	}
	if v, _ := sh.last(UniformClipmapWidth); v != int32(15) {
		t.Errorf("clipmap width = %v", v)
	}
}

func TestPassRingPlacement(t *testing.T) {
	rings := testRings(t, 40.25, -7.5)
	sh := &fakeShader{}

	Pass{Mode: ModeLandscape, Shader: sh, Drawer: &fakeDrawer{}}.Draw(Frame{
		OffsetX: 40.25,
		OffsetY: -7.5,
		Spacing: 1,
	}, rings)

	origins := sh.all(UniformRingOrigin)
	caches := sh.all(UniformCacheOrigin)
	if len(origins) != len(rings) || len(caches) != len(rings) {
		t.Fatalf("got %d origins, %d cache origins", len(origins), len(caches))
	}
	for i, r := range rings {
		oi, oj := r.Origin()
		s := float64(r.Scale)
		want := mgl32.Vec2{float32(float64(oi)*s - 40.25), float32(float64(oj)*s + 7.5)}
		if got := origins[i].(mgl32.Vec2); !got.ApproxEqual(want) {
			t.Errorf("ring %d origin = %v, want %v", i, got, want)
		}
		c := caches[i].([2]int32)
		if c[0] < 0 || c[0] >= 15 || c[1] < 0 || c[1] >= 15 {
			t.Errorf("ring %d cache origin %v out of range", i, c)
		}
		// The cache origin slot holds the window's first cell.
		if got, want := r.Heights()[int(c[1])*15+int(c[0])], r.At(0, 0); got != want {
			t.Errorf("ring %d cache origin reads %v, want %v", i, got, want)
		}
	}
}

func TestWireframeAlternatesColour(t *testing.T) {
	rings := testRings(t, 0.25, 0.25)
	sh := &fakeShader{}
	Pass{Mode: ModeWireframe, Shader: sh, Drawer: &fakeDrawer{}}.Draw(Frame{}, rings)

	colors := sh.all(UniformWireframeColor)
	if len(colors) != 3 {
		t.Fatalf("got %d colours", len(colors))
	}
	if colors[0] != WireframeColor(0) || colors[1] != WireframeColor(1) || colors[2] != colors[0] {
		t.Errorf("colours = %v", colors)
	}
	if colors[0] == colors[1] {
		t.Error("neighbouring levels share a colour")
	}
	if _, ok := sh.last(UniformBrushPosition); ok {
		t.Error("wireframe pass set brush parameters")
	}
}

func TestPassNoRings(t *testing.T) {
	sh := &fakeShader{}
	if n := (Pass{Shader: sh, Drawer: &fakeDrawer{}}).Draw(Frame{}, nil); n != 0 {
		t.Errorf("draws = %d", n)
	}
	if sh.active {
		t.Error("shader activated with nothing to draw")
	}
}
