package editor

import (
	"fmt"
	"time"

	"github.com/Faultbox/landsculpt/internal/clipmap"
	"github.com/Faultbox/landsculpt/internal/render"
)

// frameStats accumulates per-second counters for the title bar.
type frameStats struct {
	frames  int
	elapsed time.Duration

	fps     int
	rings   int // rings patched during the last second
	cells   int // cells resampled during the last second
	uploads int // ring buffers sent to the GPU during the last second

	pendingRings, pendingCells, pendingUploads int
}

// frame records one frame. It returns true when a second has passed and the
// published counters were refreshed.
func (s *frameStats) frame(dt time.Duration, st clipmap.Stats, uploads int) bool {
	s.frames++
	s.elapsed += dt
	s.pendingRings += st.Rings
	s.pendingCells += st.Cells
	s.pendingUploads += uploads
	if s.elapsed < time.Second {
		return false
	}

	s.fps = int(float64(s.frames) / s.elapsed.Seconds())
	s.rings, s.cells, s.uploads = s.pendingRings, s.pendingCells, s.pendingUploads
	s.frames, s.elapsed = 0, 0
	s.pendingRings, s.pendingCells, s.pendingUploads = 0, 0, 0
	return true
}

func (s *frameStats) title(mode render.Mode, offX, offY float64) string {
	return fmt.Sprintf("%s | %s | %d fps | offset %.1f, %.1f | %d rings %d cells %d uploads/s",
		title, mode, s.fps, offX, offY, s.rings, s.cells, s.uploads)
}
