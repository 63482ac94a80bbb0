// Package landscape ties a heightfield to its clipmap rings and the viewer's
// position over it.
package landscape

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/landsculpt/internal/clipmap"
	"github.com/Faultbox/landsculpt/internal/logger"
	"github.com/Faultbox/landsculpt/internal/terrain"
)

// ResetOffset is where the camera offset goes on reset. It sits just off the
// quantisation tie points at even multiples of a ring scale.
const ResetOffset = 0.0001

// Config describes a landscape.
type Config struct {
	Rim       int     // ring rim width; rings are 2^Rim - 1 vertices wide
	Clipmaps  int     // number of rings
	Spacing   float32 // world units between field samples
	HoleWidth int     // ring hole in cells; 0 picks the width that fits the inner ring

	Generate terrain.GenerateConfig
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	if c.Rim < 2 || c.Rim > 12 {
		errs = append(errs, fmt.Errorf("rim width %d out of range [2, 12]", c.Rim))
	}
	if c.Clipmaps < 1 || c.Clipmaps > 16 {
		errs = append(errs, fmt.Errorf("clipmap count %d out of range [1, 16]", c.Clipmaps))
	}
	if !(c.Spacing > 0) || math.IsInf(float64(c.Spacing), 0) {
		errs = append(errs, fmt.Errorf("vertex spacing %v must be positive", c.Spacing))
	}
	if c.HoleWidth < 0 {
		errs = append(errs, fmt.Errorf("hole width %d is negative", c.HoleWidth))
	} else if c.Rim >= 2 && c.Rim <= 12 && c.HoleWidth >= clipmap.RingWidthForRim(c.Rim) {
		errs = append(errs, fmt.Errorf("hole width %d does not fit ring width %d",
			c.HoleWidth, clipmap.RingWidthForRim(c.Rim)))
	}
	return errors.Join(errs...)
}

// Landscape is the heightfield being sculpted plus everything derived from it.
// Like the streamer it belongs to the frame loop.
type Landscape struct {
	cfg   Config
	state *state

	offsetX, offsetY float64 // camera position in field cells
	generation       uint64
}

// state is swapped as one value so a frame never sees a half-built landscape.
type state struct {
	field    *terrain.HeightField
	topology *clipmap.Topology
	streamer *clipmap.Streamer
}

// New builds a landscape and fills its rings around the reset offset.
func New(cfg Config) (*Landscape, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("landscape config: %w", err)
	}
	l := &Landscape{cfg: cfg}
	l.rebuild()
	return l, nil
}

// Resize replaces the landscape with a freshly generated one at a new rim width.
// Call it between frames; renderers notice through Generation.
func (l *Landscape) Resize(rim int) error {
	cfg := l.cfg
	cfg.Rim = rim
	if rim != l.cfg.Rim {
		// A custom hole width belongs to the old ring width.
		cfg.HoleWidth = 0
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("resize landscape: %w", err)
	}
	l.cfg = cfg
	l.rebuild()
	return nil
}

// Regenerate rebuilds the landscape at the current size with a different seed.
func (l *Landscape) Regenerate(seed int64) {
	l.cfg.Generate.Seed = seed
	l.rebuild()
}

func (l *Landscape) rebuild() {
	width := clipmap.RingWidthForRim(l.cfg.Rim)
	hole := l.cfg.HoleWidth
	if hole == 0 {
		hole = clipmap.DefaultHoleWidth(width)
	}

	field := terrain.NewHeightField(terrain.FieldSizeForRim(l.cfg.Rim), l.cfg.Spacing)
	gen := l.cfg.Generate
	if gen.Period <= 0 {
		gen.Period = float64(field.Size()) / 4
	}
	terrain.Generate(field, gen)

	st := &state{
		field:    field,
		topology: clipmap.NewTopology(width, hole),
		streamer: clipmap.NewStreamer(field, l.cfg.Clipmaps, width+1),
	}
	l.offsetX, l.offsetY = ResetOffset, ResetOffset
	st.streamer.Reset(l.offsetX, l.offsetY)

	l.state = st
	l.generation++

	lo, hi := field.MinMax()
	logger.Info("landscape built",
		zap.Int("rim", l.cfg.Rim),
		zap.Int("field", field.Size()),
		zap.Int("ringWidth", width),
		zap.Int("holeWidth", hole),
		zap.Int("clipmaps", l.cfg.Clipmaps),
		zap.Float32("minHeight", lo),
		zap.Float32("maxHeight", hi),
		zap.Uint64("generation", l.generation),
	)
}

// Config returns the active configuration.
func (l *Landscape) Config() Config { return l.cfg }

// Generation changes whenever the field, topology and rings are replaced.
func (l *Landscape) Generation() uint64 { return l.generation }

func (l *Landscape) Field() *terrain.HeightField { return l.state.field }

func (l *Landscape) Topology() *clipmap.Topology { return l.state.topology }

func (l *Landscape) Streamer() *clipmap.Streamer { return l.state.streamer }

// Rings returns the rings, finest first.
func (l *Landscape) Rings() []*clipmap.Ring { return l.state.streamer.Rings() }

// Spacing returns world units per field cell.
func (l *Landscape) Spacing() float32 { return l.cfg.Spacing }

// Extent returns the world size of one period of the field.
func (l *Landscape) Extent() float32 {
	return float32(l.state.field.Size()) * l.cfg.Spacing
}

// Offset returns the camera position in field cells.
func (l *Landscape) Offset() (x, y float64) { return l.offsetX, l.offsetY }

// Move shifts the camera by a world-space distance and streams the rings after it.
func (l *Landscape) Move(dx, dz float64) clipmap.Stats {
	spacing := float64(l.cfg.Spacing)
	return l.SetOffset(l.offsetX+dx/spacing, l.offsetY+dz/spacing)
}

// SetOffset places the camera at a field-cell position and streams the rings.
func (l *Landscape) SetOffset(x, y float64) clipmap.Stats {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		logger.Warn("ignoring non-finite camera offset", zap.Float64("x", x), zap.Float64("y", y))
		return clipmap.Stats{}
	}
	l.offsetX, l.offsetY = x, y
	return l.state.streamer.Update(x, y)
}

// ResetCamera returns the camera to the field origin and resamples every ring.
func (l *Landscape) ResetCamera() {
	l.offsetX, l.offsetY = ResetOffset, ResetOffset
	l.state.streamer.Reset(l.offsetX, l.offsetY)
}

// Sculpt applies a brush given in render space, where the viewer stands at
// the origin. Hits beyond one field extent (sky, far plane) are ignored.
func (l *Landscape) Sculpt(b terrain.Brush) bool {
	ext := l.Extent()
	if d := math.Hypot(float64(b.X), float64(b.Z)); !(d <= float64(ext)) {
		return false
	}

	// The field repeats every extent, so fold the camera offset back near
	// the start index before narrowing to float32.
	s := float64(l.cfg.Spacing)
	fb := b
	fb.X = float32(math.Remainder(float64(b.X)+l.offsetX*s, float64(ext)))
	fb.Z = float32(math.Remainder(float64(b.Z)+l.offsetY*s, float64(ext)))

	field := l.state.field
	region, ok := field.Footprint(fb)
	if !ok {
		return false
	}
	field.ApplyBrush(fb)
	st := l.state.streamer.Refresh(region)

	logger.Debug("sculpt",
		zap.Float32("x", fb.X),
		zap.Float32("z", fb.Z),
		zap.Float32("radius", b.Radius),
		zap.Float32("strength", b.Strength),
		zap.Int("cells", st.Cells),
	)
	return true
}

// HeightAt returns the terrain height under a render-space point.
func (l *Landscape) HeightAt(x, z float32) float32 {
	s := float64(l.cfg.Spacing)
	return l.state.field.HeightAt(float64(x)+l.offsetX*s, float64(z)+l.offsetY*s)
}
