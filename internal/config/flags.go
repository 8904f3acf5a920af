package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and per-frame stats")
	flagLevel      = flag.String("level", "", "Path to a YAML level description")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Framebuffer width")
	flagHeight     = flag.Int("height", 0, "Framebuffer height")
	flagShot       = flag.String("shot", "", "Render one frame to this file and exit")
	flagWriteCfg   = flag.String("write-config", "", "Write the effective config to this file and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ShotPath returns the --shot output path, empty for interactive mode.
func ShotPath() string {
	return *flagShot
}

// WriteConfigPath returns the --write-config output path.
func WriteConfigPath() string {
	return *flagWriteCfg
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		if cfg.Render.StatsInterval == 0 {
			cfg.Render.StatsInterval = 1
		}
	}
	if *flagLevel != "" {
		cfg.Data.LevelPath = *flagLevel
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
}
