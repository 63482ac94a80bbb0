// Package renderer provides OpenGL frame state for the editor.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/landsculpt/internal/clipmap"
	"github.com/Faultbox/landsculpt/internal/logger"
	"github.com/Faultbox/landsculpt/internal/render"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer handles global OpenGL state.
type Renderer struct {
	config Config
	mode   render.Mode
}

// New initialises OpenGL. It must be called after the context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.Enable(gl.PRIMITIVE_RESTART)
	gl.PrimitiveRestartIndex(clipmap.RestartIndex)

	gl.FrontFace(gl.CCW)
	gl.ClearColor(0.55, 0.70, 0.85, 1.0)

	r.SetMode(render.ModeLandscape)
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close logs the renderer shutdown. GL objects belong to their owners.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
}

// Resize updates the viewport after a window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) { return r.config.Width, r.config.Height }

// SetMode switches polygon fill and culling for a render mode.
func (r *Renderer) SetMode(m render.Mode) {
	r.mode = m
	if m.Wireframe() {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.Disable(gl.CULL_FACE)
		gl.ClearColor(0.85, 0.85, 0.85, 1.0)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.ClearColor(0.55, 0.70, 0.85, 1.0)
	}
}

// Mode returns the active render mode.
func (r *Renderer) Mode() render.Mode { return r.mode }

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {}

// ReadDepth returns the depth buffer value under a window pixel, with y
// growing downward. 1 means nothing was drawn there.
func (r *Renderer) ReadDepth(x, y int) float32 {
	if x < 0 || y < 0 || x >= r.config.Width || y >= r.config.Height {
		return 1
	}
	var depth float32 = 1
	gl.ReadPixels(int32(x), int32(r.config.Height-1-y), 1, 1, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(&depth))
	return depth
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	if width <= 0 || height <= 0 {
		return nil, 0, 0
	}
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
