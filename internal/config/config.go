// Package config handles editor configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/landsculpt/internal/engine/camera"
	"github.com/Faultbox/landsculpt/internal/landscape"
	"github.com/Faultbox/landsculpt/internal/logger"
	"github.com/Faultbox/landsculpt/internal/render"
	"github.com/Faultbox/landsculpt/internal/terrain"
)

// Config holds all editor settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Brush    BrushConfig    `yaml:"brush"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	FPSLimit      int    `yaml:"fps_limit"`
	RenderMode    string `yaml:"render_mode"`    // landscape or wireframe
	ShowStats     bool   `yaml:"show_stats"`     // frame and streaming stats in the title bar
	ScreenshotDir string `yaml:"screenshot_dir"` // F12 captures; empty is the working directory
}

// TerrainConfig describes the landscape and its clipmap rings.
type TerrainConfig struct {
	RimWidth        int     `yaml:"rim_width"`
	Clipmaps        int     `yaml:"clipmaps"`
	VertexSpacing   float32 `yaml:"vertex_spacing"`
	CenterHoleWidth int     `yaml:"center_hole_width"` // 0 fits the inner ring exactly
	Seed            int64   `yaml:"seed"`
	Amplitude       float32 `yaml:"amplitude"`
	Octaves         int     `yaml:"octaves"`
}

// BrushConfig holds sculpting settings.
type BrushConfig struct {
	Radius    float32 `yaml:"radius"`
	MinRadius float32 `yaml:"min_radius"`
	MaxRadius float32 `yaml:"max_radius"`
	Strength  float32 `yaml:"strength"` // height per second at the brush centre
}

// CameraConfig holds fly camera settings.
type CameraConfig struct {
	FOV         float32 `yaml:"fov"`
	Far         float32 `yaml:"far"`
	Speed       float32 `yaml:"speed"`
	BoostFactor float32 `yaml:"boost_factor"`
	Sensitivity float32 `yaml:"sensitivity"`
	Movement    string  `yaml:"movement"` // free or attached
	EyeHeight   float32 `yaml:"eye_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			FPSLimit:      0,
			RenderMode:    "landscape",
			ShowStats:     true,
			ScreenshotDir: "screenshots",
		},
		Terrain: TerrainConfig{
			RimWidth:      7,
			Clipmaps:      8,
			VertexSpacing: 1,
			Seed:          1,
			Amplitude:     60,
			Octaves:       6,
		},
		Brush: BrushConfig{
			Radius:    12,
			MinRadius: 1,
			MaxRadius: 200,
			Strength:  20,
		},
		Camera: CameraConfig{
			FOV:         60,
			Far:         20000,
			Speed:       80,
			BoostFactor: 8,
			Sensitivity: 0.004,
			Movement:    "free",
			EyeHeight:   6,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 3,
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("graphics: negative fps_limit %d", c.Graphics.FPSLimit))
	}
	if _, err := render.ParseMode(c.Graphics.RenderMode); err != nil {
		errs = append(errs, fmt.Errorf("graphics: %w", err))
	}
	if err := c.Landscape().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("terrain: %w", err))
	}
	if c.Terrain.Octaves < 0 {
		errs = append(errs, fmt.Errorf("terrain: negative octaves %d", c.Terrain.Octaves))
	}
	if c.Brush.MinRadius <= 0 || c.Brush.MaxRadius < c.Brush.MinRadius {
		errs = append(errs, fmt.Errorf("brush: invalid radius range [%v, %v]", c.Brush.MinRadius, c.Brush.MaxRadius))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera: fov %v out of range (0, 180)", c.Camera.FOV))
	}
	if _, err := camera.ParseMovement(c.Camera.Movement); err != nil {
		errs = append(errs, fmt.Errorf("camera: %w", err))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}

// Landscape converts the terrain section.
func (c *Config) Landscape() landscape.Config {
	return landscape.Config{
		Rim:       c.Terrain.RimWidth,
		Clipmaps:  c.Terrain.Clipmaps,
		Spacing:   c.Terrain.VertexSpacing,
		HoleWidth: c.Terrain.CenterHoleWidth,
		Generate: terrain.GenerateConfig{
			Seed:      c.Terrain.Seed,
			Amplitude: c.Terrain.Amplitude,
			Octaves:   c.Terrain.Octaves,
		},
	}
}

// LoggerOptions converts the logging section.
func (c *Config) LoggerOptions() logger.Options {
	opts := logger.DefaultOptions()
	opts.Level = c.Logging.Level
	opts.File = c.Logging.LogFile
	if c.Logging.MaxSizeMB > 0 {
		opts.MaxSizeMB = c.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups > 0 {
		opts.MaxBackups = c.Logging.MaxBackups
	}
	return opts
}
