package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Render.Width != 320 {
		t.Errorf("expected width 320, got %d", cfg.Render.Width)
	}
	if cfg.Render.Height != 200 {
		t.Errorf("expected height 200, got %d", cfg.Render.Height)
	}
	if cfg.Render.MaxVisplanes != 128 {
		t.Errorf("expected 128 visplanes, got %d", cfg.Render.MaxVisplanes)
	}
	if cfg.Render.FixedColormap != -1 {
		t.Errorf("expected no fixed colormap, got %d", cfg.Render.FixedColormap)
	}
	if cfg.Camera.EyeHeight != 41 {
		t.Errorf("expected eye height 41, got %d", cfg.Camera.EyeHeight)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Data.ScreenshotFormat != "png" {
		t.Errorf("expected png screenshots, got %s", cfg.Data.ScreenshotFormat)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
graphics:
  scale: 2
  fullscreen: true
  vsync: false

render:
  width: 640
  height: 400
  max_visplanes: 64
  extra_light: 2
  fixed_colormap: 32

camera:
  x: -96
  y: 784
  angle: 90
  eye_height: 48

data:
  level_path: "maps/e1m1.yaml"
  screenshot_format: bmp

logging:
  level: "debug"
  log_file: "bspview.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Scale != 2 {
		t.Errorf("expected scale 2, got %d", cfg.Graphics.Scale)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Render.Width != 640 || cfg.Render.Height != 400 {
		t.Errorf("expected 640x400, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.MaxVisplanes != 64 {
		t.Errorf("expected 64 visplanes, got %d", cfg.Render.MaxVisplanes)
	}
	if cfg.Render.FixedColormap != 32 {
		t.Errorf("expected fixed colormap 32, got %d", cfg.Render.FixedColormap)
	}
	if cfg.Camera.X != -96 || cfg.Camera.Y != 784 || cfg.Camera.Angle != 90 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	// Unset keys keep their defaults.
	if cfg.Camera.MoveSpeed != 256 {
		t.Errorf("expected default move speed 256, got %d", cfg.Camera.MoveSpeed)
	}
	if cfg.Data.LevelPath != "maps/e1m1.yaml" {
		t.Errorf("expected level path maps/e1m1.yaml, got %s", cfg.Data.LevelPath)
	}
	if cfg.Logging.LogFile != "bspview.log" {
		t.Errorf("expected log file 'bspview.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
render:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Render.Width = 0 }, ErrInvalidSize},
		{"single column", func(c *Config) { c.Render.Width = 1 }, ErrInvalidSize},
		{"zero height", func(c *Config) { c.Render.Height = 0 }, ErrInvalidSize},
		{"zero scale", func(c *Config) { c.Graphics.Scale = 0 }, ErrInvalidScale},
		{"gif screenshots", func(c *Config) { c.Data.ScreenshotFormat = "gif" }, ErrInvalidFormat},
		{"colormap too high", func(c *Config) { c.Render.FixedColormap = 40 }, ErrInvalidColormap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
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
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  width: 160\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if cfg.Render.StatsInterval != 1 {
					t.Errorf("expected per-frame stats with debug flag, got %d", cfg.Render.StatsInterval)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "level flag",
			setup: func() { *flagLevel = "maps/test.yaml" },
			verify: func(cfg *Config) {
				if cfg.Data.LevelPath != "maps/test.yaml" {
					t.Errorf("expected level maps/test.yaml, got %s", cfg.Data.LevelPath)
				}
			},
			teardown: func() { *flagLevel = "" },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 640
				*flagHeight = 480
			},
			verify: func(cfg *Config) {
				if cfg.Render.Width != 640 || cfg.Render.Height != 480 {
					t.Errorf("expected 640x480, got %dx%d", cfg.Render.Width, cfg.Render.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
render:
  width: 400
  height: 300
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 800
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Render.Width != 800 {
		t.Errorf("expected width 800 from flag, got %d", cfg.Render.Width)
	}
	if cfg.Render.Height != 300 {
		t.Errorf("expected height 300 from file, got %d", cfg.Render.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Render.ExtraLight = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Render.ExtraLight != 3 {
		t.Errorf("expected extra light 3, got %d", loaded.Render.ExtraLight)
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Graphics.Scale = 0
	if err := cfg.SaveTo(path); !errors.Is(err, ErrInvalidScale) {
		t.Errorf("expected ErrInvalidScale, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config should not be written")
	}
}

func TestSaveToHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), fileHeader) {
		t.Errorf("expected header comment, got %q", string(data[:min(len(data), 40)]))
	}
	if !strings.Contains(string(data), "\n  width: 320\n") {
		t.Error("expected two-space indented render width")
	}
}
