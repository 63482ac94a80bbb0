package editor

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/landsculpt/internal/clipmap"
	"github.com/Faultbox/landsculpt/internal/config"
	"github.com/Faultbox/landsculpt/internal/render"
)

func testBrush() BrushTool {
	return NewBrushTool(config.BrushConfig{Radius: 10, MinRadius: 2, MaxRadius: 50, Strength: 20})
}

func TestNewBrushToolClampsRadius(t *testing.T) {
	b := NewBrushTool(config.BrushConfig{Radius: 500, MinRadius: 2, MaxRadius: 50, Strength: 1})
	if b.Radius != 50 {
		t.Errorf("Radius = %v, want 50", b.Radius)
	}
}

func TestBrushScroll(t *testing.T) {
	b := testBrush()

	b.Scroll(0)
	if b.Radius != 10 {
		t.Fatalf("Scroll(0) changed radius to %v", b.Radius)
	}

	b.Scroll(1)
	if want := float32(10 * radiusStep); math.Abs(float64(b.Radius-want)) > 1e-4 {
		t.Errorf("Scroll(1) radius = %v, want %v", b.Radius, want)
	}
	b.Scroll(-1)
	if math.Abs(float64(b.Radius-10)) > 1e-4 {
		t.Errorf("Scroll(-1) radius = %v, want 10", b.Radius)
	}

	b.Scroll(100)
	if b.Radius != 50 {
		t.Errorf("radius after large scroll up = %v, want 50", b.Radius)
	}
	b.Scroll(-100)
	if b.Radius != 2 {
		t.Errorf("radius after large scroll down = %v, want 2", b.Radius)
	}
}

func TestBrushStroke(t *testing.T) {
	b := testBrush()
	at := mgl32.Vec3{3, 7, -4}

	raise := b.Stroke(at, 0.5, false)
	if raise.X != 3 || raise.Z != -4 {
		t.Errorf("stroke centre = (%v, %v), want (3, -4)", raise.X, raise.Z)
	}
	if raise.Radius != 10 {
		t.Errorf("stroke radius = %v, want 10", raise.Radius)
	}
	if raise.Strength != 10 {
		t.Errorf("raise strength = %v, want 10", raise.Strength)
	}

	lower := b.Stroke(at, 0.5, true)
	if lower.Strength != -10 {
		t.Errorf("lower strength = %v, want -10", lower.Strength)
	}
}

func TestBrushOverlay(t *testing.T) {
	b := testBrush()
	at := mgl32.Vec3{1, 2, 3}

	if o := b.Overlay(at, false, false); o != (render.Brush{}) {
		t.Errorf("missed pick overlay = %+v, want zero", o)
	}

	raise := b.Overlay(at, true, false)
	if raise.Position != at || raise.Radius != 10 || raise.Color != raiseColor {
		t.Errorf("raise overlay = %+v", raise)
	}
	if lower := b.Overlay(at, true, true); lower.Color != lowerColor {
		t.Errorf("lower overlay colour = %v, want %v", lower.Color, lowerColor)
	}
}

func TestScrollWithTerrain(t *testing.T) {
	picked := mgl32.Vec3{10, 4, -6}
	got := scrollWithTerrain(picked, 3, -2)
	if want := (mgl32.Vec3{7, 4, -4}); got != want {
		t.Errorf("scrollWithTerrain = %v, want %v", got, want)
	}
	if got := scrollWithTerrain(picked, 0, 0); got != picked {
		t.Errorf("still camera moved the cursor to %v", got)
	}
}

func TestBrushSave(t *testing.T) {
	b := testBrush()
	b.Scroll(2)

	var cfg config.BrushConfig
	b.Save(&cfg)
	if cfg.Radius != b.Radius {
		t.Errorf("saved radius = %v, want %v", cfg.Radius, b.Radius)
	}
}

func TestFrameStatsPublishesEverySecond(t *testing.T) {
	var s frameStats

	for i := 0; i < 9; i++ {
		if s.frame(100*time.Millisecond, clipmap.Stats{Rings: 1, Cells: 10}, 1) {
			t.Fatalf("published after %d frames", i+1)
		}
	}
	if !s.frame(100*time.Millisecond, clipmap.Stats{Rings: 1, Cells: 10}, 1) {
		t.Fatal("not published after one second")
	}
	if s.fps != 10 {
		t.Errorf("fps = %d, want 10", s.fps)
	}
	if s.rings != 10 || s.cells != 100 || s.uploads != 10 {
		t.Errorf("counters = %d rings %d cells %d uploads, want 10/100/10", s.rings, s.cells, s.uploads)
	}

	// Counters restart for the next second.
	s.frame(time.Second, clipmap.Stats{}, 0)
	if s.rings != 0 || s.cells != 0 || s.uploads != 0 || s.fps != 1 {
		t.Errorf("second window = %+v", s)
	}
}

func TestFrameStatsTitle(t *testing.T) {
	s := frameStats{fps: 60, rings: 3, cells: 42, uploads: 3}
	got := s.title(render.ModeWireframe, 12.3, -3)
	for _, want := range []string{"60 fps", "wireframe", "offset 12.3, -3.0", "42 cells"} {
		if !strings.Contains(got, want) {
			t.Errorf("title %q missing %q", got, want)
		}
	}
}
