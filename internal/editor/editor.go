// Package editor implements the landscape editor's frame loop.
package editor

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/landsculpt/internal/clipmap"
	"github.com/Faultbox/landsculpt/internal/config"
	"github.com/Faultbox/landsculpt/internal/engine/camera"
	"github.com/Faultbox/landsculpt/internal/engine/debug"
	"github.com/Faultbox/landsculpt/internal/engine/input"
	"github.com/Faultbox/landsculpt/internal/engine/picking"
	"github.com/Faultbox/landsculpt/internal/engine/renderer"
	"github.com/Faultbox/landsculpt/internal/engine/scene"
	"github.com/Faultbox/landsculpt/internal/engine/scene/shaders"
	"github.com/Faultbox/landsculpt/internal/engine/shader"
	"github.com/Faultbox/landsculpt/internal/engine/window"
	"github.com/Faultbox/landsculpt/internal/landscape"
	"github.com/Faultbox/landsculpt/internal/logger"
	"github.com/Faultbox/landsculpt/internal/render"
)

const title = "Landsculpt"

// App is the editor: one window, one landscape, one fly camera.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	land     *landscape.Landscape
	camera   *camera.FlyCamera
	clipmaps *scene.ClipmapRenderer
	programs map[render.Kind]*shader.Program

	mode  render.Mode
	brush BrushTool

	// Cursor pick from the last rendered frame.
	cursor    mgl32.Vec3
	cursorHit bool

	heightMin, heightMax float32
	heightsDirty         bool
	generation           uint64

	screenshots *debug.Screenshots
	capture     bool // F12 pressed; grab the next frame before it is swapped

	stats frameStats
	log   *zap.Logger
}

// New opens the window and builds the landscape described by cfg.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("editor")
	log.Info("initializing editor",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("rim", cfg.Terrain.RimWidth),
		zap.Int("clipmaps", cfg.Terrain.Clipmaps),
	)

	mode, err := render.ParseMode(cfg.Graphics.RenderMode)
	if err != nil {
		return nil, err
	}
	movement, err := camera.ParseMovement(cfg.Camera.Movement)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:      cfg,
		mode:     mode,
		brush:    NewBrushTool(cfg.Brush),
		programs: make(map[render.Kind]*shader.Program),
		log:      log,

		screenshots: debug.NewScreenshots(cfg.Graphics.ScreenshotDir, "landsculpt"),
	}

	// Build the landscape before touching SDL so a bad config fails fast.
	a.land, err = landscape.New(cfg.Landscape())
	if err != nil {
		return nil, err
	}

	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just made.
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer.SetMode(a.mode)

	fragments := map[render.Kind]string{
		render.KindLandscape: shaders.LandscapeFragmentShader,
		render.KindWireframe: shaders.WireframeFragmentShader,
	}
	for kind, fs := range fragments {
		p, err := shader.NewProgram(kind, shaders.ClipmapVertexShader, fs)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to build shaders: %w", err)
		}
		a.programs[kind] = p
	}

	a.clipmaps = scene.NewClipmapRenderer()
	a.input = input.New()

	a.camera = camera.NewFlyCamera()
	a.camera.FOV = cfg.Camera.FOV
	a.camera.Far = cfg.Camera.Far
	a.camera.Speed = cfg.Camera.Speed
	a.camera.BoostFactor = cfg.Camera.BoostFactor
	a.camera.Sensitivity = cfg.Camera.Sensitivity
	a.camera.EyeHeight = cfg.Camera.EyeHeight
	a.camera.Movement = movement
	a.camera.SetViewport(w, h)

	log.Info("editor initialized", zap.Stringer("mode", a.mode), zap.Stringer("movement", movement))
	return a, nil
}

// Run drives frames until the window closes or Escape is pressed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	var minFrame time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	a.log.Info("starting frame loop")
	for a.running {
		now := time.Now()
		elapsed := now.Sub(lastTime)
		lastTime = now
		dt := float32(elapsed.Seconds())

		// 1. Input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		// 2. Camera and streaming
		st := a.move(dt)

		// 3. Brush, at the point picked last frame carried along by this frame's move
		a.sculpt(dt)

		// 4. Render and pick
		if err := a.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		a.pick()
		if a.capture {
			a.screenshot()
		}

		// 5. Present
		a.window.SwapBuffers()

		if a.stats.frame(elapsed, st, a.clipmaps.Uploads()) && a.cfg.Graphics.ShowStats {
			x, y := a.land.Offset()
			a.window.SetTitle(a.stats.title(a.mode, x, y))
		}

		if minFrame > 0 {
			if spent := time.Since(now); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}
	return nil
}

// Close releases GPU resources, the renderer and the window.
func (a *App) Close() {
	a.log.Info("closing editor")
	if a.clipmaps != nil {
		a.clipmaps.Destroy()
	}
	for _, p := range a.programs {
		p.Delete()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := a.window.DrawableSize()
			a.renderer.Resize(w, h)
			a.camera.SetViewport(w, h)

		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			a.handleKey(event.Key)
		}
	}
	a.brush.Scroll(a.input.Wheel())
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_F1:
		a.setMode(render.ModeLandscape)
	case sdl.SCANCODE_F2:
		a.setMode(render.ModeWireframe)
	case sdl.SCANCODE_TAB:
		a.setMode(a.mode.Next())
	case sdl.SCANCODE_R:
		a.land.ResetCamera()
		a.camera.Reset()
		a.log.Info("camera reset")
	case sdl.SCANCODE_C:
		if a.camera.Movement == camera.MovementFree {
			a.camera.Movement = camera.MovementAttached
		} else {
			a.camera.Movement = camera.MovementFree
		}
		a.log.Info("camera movement", zap.Stringer("movement", a.camera.Movement))
	case sdl.SCANCODE_N:
		seed := a.land.Config().Generate.Seed + 1
		a.land.Regenerate(seed)
		a.log.Info("new landscape", zap.Int64("seed", seed))
	case sdl.SCANCODE_PAGEUP, sdl.SCANCODE_PAGEDOWN:
		rim := a.land.Config().Rim + 1
		if key == sdl.SCANCODE_PAGEDOWN {
			rim -= 2
		}
		if err := a.land.Resize(rim); err != nil {
			a.log.Warn("resize rejected", zap.Int("rim", rim), zap.Error(err))
			return
		}
		a.log.Info("landscape resized", zap.Int("rim", rim))
	case sdl.SCANCODE_F5:
		a.saveSettings()
	case sdl.SCANCODE_F12:
		a.capture = true
	}
}

func (a *App) setMode(m render.Mode) {
	if m == a.mode {
		return
	}
	a.mode = m
	a.renderer.SetMode(m)
	a.log.Debug("render mode", zap.Stringer("mode", m))
}

func (a *App) saveSettings() {
	lc := a.land.Config()
	a.cfg.Terrain.RimWidth = lc.Rim
	a.cfg.Terrain.Seed = lc.Generate.Seed
	a.cfg.Graphics.RenderMode = a.mode.String()
	a.cfg.Camera.Movement = a.camera.Movement.String()
	a.brush.Save(&a.cfg.Brush)

	path, err := a.cfg.Save()
	if err != nil {
		a.log.Warn("failed to save settings", zap.Error(err))
		return
	}
	a.log.Info("settings saved", zap.String("path", path))
}

// move turns held keys into camera motion and streams the rings after it.
func (a *App) move(dt float32) clipmap.Stats {
	if a.input.IsButtonHeld(sdl.BUTTON_RIGHT) {
		dx, dy := a.input.Drag()
		a.camera.Rotate(float32(dx), float32(dy))
	}

	m := camera.Motion{
		Forward: a.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W),
		Right:   a.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D),
		Up:      a.input.Axis(sdl.SCANCODE_Q, sdl.SCANCODE_E),
		Boost:   a.input.Shift(),
	}
	dx, dz := a.camera.Step(m, dt)

	var st clipmap.Stats
	if dx != 0 || dz != 0 {
		st = a.land.Move(dx, dz)
		if a.cursorHit {
			a.cursor = scrollWithTerrain(a.cursor, dx, dz)
		}
	}
	a.camera.Follow(a.land.HeightAt(0, 0))
	return st
}

func (a *App) sculpt(dt float32) {
	if !a.cursorHit || !a.input.IsButtonHeld(sdl.BUTTON_LEFT) {
		return
	}
	if a.land.Sculpt(a.brush.Stroke(a.cursor, dt, a.input.Ctrl())) {
		a.heightsDirty = true
	}
}

func (a *App) render() error {
	if err := a.clipmaps.Sync(a.land); err != nil {
		return err
	}
	if a.heightsDirty || a.generation != a.land.Generation() {
		a.heightMin, a.heightMax = a.land.Field().MinMax()
		a.generation = a.land.Generation()
		a.heightsDirty = false
	}

	x, y := a.land.Offset()
	frame := render.Frame{
		Projection: a.camera.Projection(),
		View:       a.camera.View(),
		OffsetX:    x,
		OffsetY:    y,
		Spacing:    a.land.Spacing(),
		HeightMin:  a.heightMin,
		HeightMax:  a.heightMax,
		Brush:      a.brush.Overlay(a.cursor, a.cursorHit, a.input.Ctrl()),
	}

	a.renderer.Begin()
	render.Pass{
		Mode:   a.mode,
		Shader: a.programs[a.mode.Kind()],
		Drawer: a.clipmaps,
	}.Draw(frame, a.land.Rings())
	a.renderer.End()
	return nil
}

func (a *App) screenshot() {
	a.capture = false
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.screenshots.Save(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// pick finds the terrain under the cursor in the frame just drawn.
func (a *App) pick() {
	mx, my := a.input.Mouse()
	ww, wh := a.window.GetSize()
	pw, ph := a.renderer.Size()
	if ww <= 0 || wh <= 0 {
		a.cursorHit = false
		return
	}
	// Mouse coordinates are in screen points; the framebuffer may be denser.
	px := mx * pw / ww
	py := my * ph / wh

	// Wireframe leaves most pixels at the far plane, so march the field instead.
	if a.mode.Wireframe() {
		a.cursor, a.cursorHit = a.march(px, py, pw, ph)
		return
	}

	depth := a.renderer.ReadDepth(px, py)
	if depth >= 1 {
		a.cursorHit = false
		return
	}
	p, err := a.camera.Unproject(px, py, depth, pw, ph)
	if err != nil {
		a.cursorHit = false
		return
	}
	a.cursor, a.cursorHit = p, true
}

func (a *App) march(px, py, width, height int) (mgl32.Vec3, bool) {
	inv := a.camera.Projection().Mul4(a.camera.View()).Inv()
	ray := picking.ScreenToRay(px, py, width, height, inv)
	ext := a.land.Extent()
	bounds := picking.NewAABB(
		mgl32.Vec3{-ext, a.heightMin, -ext},
		mgl32.Vec3{ext, a.heightMax, ext},
	)
	return picking.MarchTerrain(ray, bounds, a.land.HeightAt, a.land.Spacing())
}
