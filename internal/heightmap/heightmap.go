// Package heightmap exports heightfields as grayscale images.
package heightmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/Faultbox/landsculpt/internal/terrain"
)

// Format is an image container.
type Format int

const (
	FormatPNG  Format = iota // 16-bit gray
	FormatTIFF               // 16-bit gray, deflate
	FormatBMP                // 8-bit gray
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return 0, fmt.Errorf("unsupported heightmap extension %q", filepath.Ext(path))
	}
}

// Gray16 maps the field's height range onto [0, 65535]. Image (0, 0) is the
// field's start index, so the picture is centred where the editor starts.
// A flat field comes out black.
func Gray16(f *terrain.HeightField) *image.Gray16 {
	size := f.Size()
	lo, hi := f.MinMax()
	img := image.NewGray16(image.Rect(0, 0, size, size))
	sx, sy := f.StartIndex()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := normalize(f.Sample(sx+x, sy+y), lo, hi)
			img.SetGray16(x, y, color.Gray16{Y: uint16(v*65535 + 0.5)})
		}
	}
	return img
}

// Gray8 is Gray16 at 8 bits for containers without deep gray.
func Gray8(f *terrain.HeightField) *image.Gray {
	src := Gray16(f)
	img := image.NewGray(src.Rect)
	for i := 0; i < len(img.Pix); i++ {
		img.Pix[i] = src.Pix[2*i] // big-endian high byte
	}
	return img
}

// Encode writes f to w.
func Encode(w io.Writer, f *terrain.HeightField, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, Gray16(f))
	case FormatTIFF:
		return tiff.Encode(w, Gray16(f), &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		return bmp.Encode(w, Gray8(f))
	default:
		return fmt.Errorf("unknown heightmap format %v", format)
	}
}

// Save writes f to path in the format its extension names.
func Save(path string, f *terrain.HeightField) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating heightmap: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing heightmap: %w", cerr)
		}
	}()

	if err := Encode(file, f, format); err != nil {
		return fmt.Errorf("encoding %s heightmap: %w", format, err)
	}
	return nil
}

func normalize(h, lo, hi float32) float32 {
	if hi <= lo {
		return 0
	}
	v := (h - lo) / (hi - lo)
	return min(max(v, 0), 1)
}
