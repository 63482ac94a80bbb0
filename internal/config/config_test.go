package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/landsculpt/internal/render"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Terrain.RimWidth != 7 || cfg.Terrain.Clipmaps != 8 {
		t.Errorf("expected rim 7 with 8 clipmaps, got %d/%d", cfg.Terrain.RimWidth, cfg.Terrain.Clipmaps)
	}
	if cfg.Camera.Movement != "free" {
		t.Errorf("expected free camera, got %s", cfg.Camera.Movement)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  render_mode: wireframe

terrain:
  rim_width: 6
  clipmaps: 5
  vertex_spacing: 2.5
  seed: 42

brush:
  radius: 30

camera:
  movement: attached

logging:
  level: "debug"
  log_file: "landsculpt.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen || cfg.Graphics.VSync {
		t.Error("fullscreen/vsync not loaded")
	}
	if cfg.Graphics.RenderMode != "wireframe" {
		t.Errorf("expected wireframe, got %s", cfg.Graphics.RenderMode)
	}
	if cfg.Terrain.RimWidth != 6 || cfg.Terrain.Clipmaps != 5 || cfg.Terrain.VertexSpacing != 2.5 {
		t.Errorf("terrain = %+v", cfg.Terrain)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Terrain.Octaves != 6 {
		t.Errorf("expected default octaves 6, got %d", cfg.Terrain.Octaves)
	}
	if cfg.Brush.Radius != 30 || cfg.Brush.MaxRadius != 200 {
		t.Errorf("brush = %+v", cfg.Brush)
	}
	if cfg.Camera.Movement != "attached" {
		t.Errorf("expected attached camera, got %s", cfg.Camera.Movement)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "landsculpt.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := map[string]string{
		"bad syntax": "graphics:\n  width: not a number\n  invalid syntax here\n",
		"unknown key": "terrain:\n  rim_widht: 5\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Errorf("empty file: %v", err)
	}
	if cfg.Terrain.RimWidth != 7 {
		t.Error("empty file changed defaults")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"window size", func(c *Config) { c.Graphics.Width = 0 }, "window size"},
		{"render mode", func(c *Config) { c.Graphics.RenderMode = "points" }, "render mode"},
		{"rim", func(c *Config) { c.Terrain.RimWidth = 1 }, "rim width"},
		{"spacing", func(c *Config) { c.Terrain.VertexSpacing = -1 }, "vertex spacing"},
		{"brush range", func(c *Config) { c.Brush.MaxRadius = 0.5 }, "radius range"},
		{"fov", func(c *Config) { c.Camera.FOV = 180 }, "fov"},
		{"movement", func(c *Config) { c.Camera.Movement = "orbit" }, "movement"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Height = -1
	cfg.Terrain.Clipmaps = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"window size", "clipmap count"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLandscapeConversion(t *testing.T) {
	cfg := Default()
	cfg.Terrain.CenterHoleWidth = 20
	l := cfg.Landscape()
	if l.Rim != 7 || l.Clipmaps != 8 || l.Spacing != 1 || l.HoleWidth != 20 {
		t.Errorf("landscape config = %+v", l)
	}
	if l.Generate.Seed != 1 || l.Generate.Octaves != 6 || l.Generate.Amplitude != 60 {
		t.Errorf("generate config = %+v", l.Generate)
	}
}

func TestLoggerOptions(t *testing.T) {
	cfg := Default()
	cfg.Logging.LogFile = "out.log"
	cfg.Logging.MaxSizeMB = 0
	opts := cfg.LoggerOptions()
	if opts.File != "out.log" || opts.Level != "info" || !opts.Console {
		t.Errorf("options = %+v", opts)
	}
	if opts.MaxSizeMB <= 0 {
		t.Errorf("MaxSizeMB = %d, want default", opts.MaxSizeMB)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("landsculpt.yaml", []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find landsculpt.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "terrain flags",
			setup: func() {
				*flagRim = 9
				*flagClipmaps = 4
				*flagSeed = 1234
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.RimWidth != 9 || cfg.Terrain.Clipmaps != 4 || cfg.Terrain.Seed != 1234 {
					t.Errorf("terrain = %+v", cfg.Terrain)
				}
			},
			teardown: func() {
				*flagRim = 0
				*flagClipmaps = 0
				*flagSeed = 0
			},
		},
		{
			name:  "wireframe flag",
			setup: func() { *flagWireframe = true },
			verify: func(t *testing.T, cfg *Config) {
				if m, _ := render.ParseMode(cfg.Graphics.RenderMode); m != render.ModeWireframe {
					t.Errorf("expected wireframe mode, got %s", cfg.Graphics.RenderMode)
				}
			},
			teardown: func() { *flagWireframe = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  clipmaps: 40\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Terrain.Seed = 77
	cfg.Brush.Radius = 42

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got := Default()
	if err := loadFromFile(got, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if got.Terrain.Seed != 77 || got.Brush.Radius != 42 {
		t.Errorf("round trip lost values: %+v %+v", got.Terrain, got.Brush)
	}
}
