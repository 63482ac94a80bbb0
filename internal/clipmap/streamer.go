package clipmap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/landsculpt/internal/logger"
	"github.com/Faultbox/landsculpt/internal/terrain"
)

// Source is the heightfield a streamer samples from.
type Source interface {
	Size() int
	StartIndex() (int, int)
	Sample(x, y int) float32
}

// Stats reports the work done by one Update or Refresh.
type Stats struct {
	Rings int // rings whose cache changed
	Cells int // cache cells resampled
}

// Streamer keeps one toroidal height cache per ring in step with the camera offset.
// It is not safe for concurrent use; the frame loop owns it.
type Streamer struct {
	src   Source
	size  int
	rings []*Ring
}

// NewStreamer allocates count rings with size x size caches and fills them.
func NewStreamer(src Source, count, size int) *Streamer {
	if count <= 0 || count > 30 {
		panic(fmt.Sprintf("clipmap: invalid ring count %d", count))
	}
	if size <= 0 {
		panic(fmt.Sprintf("clipmap: invalid cache size %d", size))
	}

	s := &Streamer{
		src:   src,
		size:  size,
		rings: make([]*Ring, count),
	}
	for level := range s.rings {
		s.rings[level] = newRing(level, size)
		s.Initialize(s.rings[level])
	}
	return s
}

// Rings returns every ring, finest first.
func (s *Streamer) Rings() []*Ring { return s.rings }

// Ring returns one level.
func (s *Streamer) Ring(level int) *Ring { return s.rings[level] }

// CacheSize returns the side length shared by every ring cache.
func (s *Streamer) CacheSize() int { return s.size }

// Initialize resamples every cell of r at its tracked offset.
func (s *Streamer) Initialize(r *Ring) {
	oi, oj := r.Origin()
	for row := 0; row < s.size; row++ {
		for col := 0; col < s.size; col++ {
			s.sample(r, oi+col, oj+row)
		}
	}
	r.state = StateSynced
	r.revision++
}

// Reset snaps every ring to the camera offset and resamples it from scratch.
// Call it after the camera jumps or the heightfield is replaced.
func (s *Streamer) Reset(offsetX, offsetY float64) {
	for _, r := range s.rings {
		base := float64(r.Scale)
		r.lastX = base + float64(CellDelta(offsetX-base, r.Scale)*r.Scale)
		r.lastY = base + float64(CellDelta(offsetY-base, r.Scale)*r.Scale)
		r.parity = ParityAt(offsetX, offsetY, r.Scale)
		r.state = StateFresh
		s.Initialize(r)
	}
	logger.Debug("clipmap reset",
		zap.Float64("offsetX", offsetX),
		zap.Float64("offsetY", offsetY),
		zap.Int("rings", len(s.rings)),
	)
}

// Update moves the ring caches to a new camera offset, resampling only the
// rows and columns that scrolled into view. Rings are visited finest first;
// the first ring that does not move ends the patching, because every coarser
// ring's cell contains the finer one's. Parity is refreshed on every ring:
// an offset sitting on a tie point can flip a coarse ring's parity without
// moving any cache.
func (s *Streamer) Update(offsetX, offsetY float64) Stats {
	var st Stats
	moving := true
	for _, r := range s.rings {
		r.parity = ParityAt(offsetX, offsetY, r.Scale)
		if !moving {
			continue
		}

		diffX := CellDelta(offsetX-r.lastX, r.Scale)
		diffY := CellDelta(offsetY-r.lastY, r.Scale)
		if diffX == 0 && diffY == 0 {
			moving = false
			continue
		}

		r.state = StateStale
		st.Cells += s.patch(r, diffX, diffY)
		st.Rings++
	}

	if st.Rings > 0 {
		logger.Debug("clipmap update",
			zap.Int("rings", st.Rings),
			zap.Int("cells", st.Cells),
		)
	}
	return st
}

// patch scrolls r by (diffX, diffY) ring cells and fills the exposed strips.
// Columns are filled over the rows both windows share; rows are filled over
// the whole new window, so the corner is sampled once.
func (s *Streamer) patch(r *Ring, diffX, diffY int) int {
	r.lastX += float64(diffX * r.Scale)
	r.lastY += float64(diffY * r.Scale)

	oi, oj := r.Origin()
	nx := min(abs(diffX), s.size)
	ny := min(abs(diffY), s.size)

	colLo, colHi := spanNew(diffX, nx, s.size)
	rowLo, rowHi := spanKept(diffY, ny, s.size)

	cells := 0
	for col := colLo; col < colHi; col++ {
		for row := rowLo; row < rowHi; row++ {
			s.sample(r, oi+col, oj+row)
			cells++
		}
	}

	rowLo, rowHi = spanNew(diffY, ny, s.size)
	for row := rowLo; row < rowHi; row++ {
		for col := 0; col < s.size; col++ {
			s.sample(r, oi+col, oj+row)
			cells++
		}
	}

	r.state = StateSynced
	r.revision++
	return cells
}

// spanNew returns the window range exposed by a shift of diff (n = clamped |diff|).
func spanNew(diff, n, size int) (lo, hi int) {
	if diff > 0 {
		return size - n, size
	}
	return 0, n
}

// spanKept returns the window range present both before and after a shift.
func spanKept(diff, n, size int) (lo, hi int) {
	if diff > 0 {
		return 0, size - n
	}
	return n, size
}

// Refresh resamples every cached cell whose field cell lies in region.
// Use it after the heightfield was edited in place.
func (s *Streamer) Refresh(region terrain.Region) Stats {
	var st Stats
	n := s.src.Size()
	sx, sy := s.src.StartIndex()

	cols := make([]int, 0, s.size)
	rows := make([]int, 0, s.size)

	for _, r := range s.rings {
		oi, oj := r.Origin()

		cols = cols[:0]
		for col := 0; col < s.size; col++ {
			if region.ContainsX(sx+(oi+col)*r.Scale, n) {
				cols = append(cols, col)
			}
		}
		rows = rows[:0]
		for row := 0; row < s.size; row++ {
			if region.ContainsY(sy+(oj+row)*r.Scale, n) {
				rows = append(rows, row)
			}
		}
		if len(cols) == 0 || len(rows) == 0 {
			continue
		}

		for _, row := range rows {
			for _, col := range cols {
				s.sample(r, oi+col, oj+row)
			}
		}
		st.Rings++
		st.Cells += len(cols) * len(rows)
		r.revision++
	}
	return st
}

// sample copies the field height for ring cell (i, j) into its slot.
func (s *Streamer) sample(r *Ring, i, j int) {
	sx, sy := s.src.StartIndex()
	r.heights[r.slot(i, j)] = s.src.Sample(sx+i*r.Scale, sy+j*r.Scale)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
