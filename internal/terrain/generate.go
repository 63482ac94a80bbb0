package terrain

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// GenerateConfig controls the procedural starting landscape.
type GenerateConfig struct {
	Seed      int64
	Amplitude float32 // peak height in world units; 0 keeps the field flat
	Octaves   int
	Period    float64 // cells per base-octave feature
}

// DefaultGenerateConfig returns rolling hills sized for the given field.
func DefaultGenerateConfig(size int) GenerateConfig {
	return GenerateConfig{
		Seed:      1,
		Amplitude: 40,
		Octaves:   5,
		Period:    float64(size) / 4,
	}
}

// Generate fills f with summed octaves of simplex noise.
// Noise is sampled on a 4D torus so the result tiles across the wrap seam.
func Generate(f *HeightField, cfg GenerateConfig) {
	if cfg.Amplitude == 0 || cfg.Octaves <= 0 {
		return
	}
	period := cfg.Period
	if period <= 0 {
		period = float64(f.size)
	}

	noises := make([]opensimplex.Noise, cfg.Octaves)
	for i := range noises {
		noises[i] = opensimplex.New(cfg.Seed + int64(i))
	}

	// Torus radius so one base period spans one unit of noise space.
	baseRadius := float64(f.size) / (2 * math.Pi * period)
	step := 2 * math.Pi / float64(f.size)

	var norm float64
	for i := range noises {
		norm += math.Pow(0.5, float64(i))
	}

	for y := 0; y < f.size; y++ {
		ay := float64(y) * step
		sy, cy := math.Sincos(ay)
		for x := 0; x < f.size; x++ {
			ax := float64(x) * step
			sx, cx := math.Sincos(ax)

			var h float64
			amp, radius := 1.0, baseRadius
			for _, n := range noises {
				h += amp * n.Eval4(cx*radius, sx*radius, cy*radius, sy*radius)
				amp *= 0.5
				radius *= 2
			}
			f.data[y*f.size+x] = float32(clamp(h/norm, -1, 1)) * cfg.Amplitude
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
