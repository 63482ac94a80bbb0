package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagRim        = flag.Int("rim", 0, "Clipmap rim width (rings are 2^rim-1 vertices wide)")
	flagClipmaps   = flag.Int("clipmaps", 0, "Number of clipmap rings")
	flagSeed       = flag.Int64("seed", 0, "Terrain seed (0 keeps the configured seed)")
	flagWireframe  = flag.Bool("wireframe", false, "Start in wireframe mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowStats = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagRim > 0 {
		cfg.Terrain.RimWidth = *flagRim
	}
	if *flagClipmaps > 0 {
		cfg.Terrain.Clipmaps = *flagClipmaps
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagWireframe {
		cfg.Graphics.RenderMode = "wireframe"
	}
}
