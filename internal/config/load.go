package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	ErrInvalidSize     = errors.New("render width must be at least 2 and height at least 1")
	ErrInvalidScale    = errors.New("graphics scale must be at least 1")
	ErrInvalidFormat   = errors.New("screenshot format must be png or bmp")
	ErrInvalidColormap = errors.New("fixed colormap out of range")
)

// minWidth matches the narrowest view the renderer can project.
const minWidth = 2

// maxColormap is the highest colormap index, the inverse (invulnerability) map.
const maxColormap = 32

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the renderer cannot run with.
func (c *Config) Validate() error {
	if c.Render.Width < minWidth || c.Render.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Render.Width, c.Render.Height)
	}
	if c.Graphics.Scale < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidScale, c.Graphics.Scale)
	}
	switch c.Data.ScreenshotFormat {
	case "png", "bmp":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Data.ScreenshotFormat)
	}
	if c.Render.FixedColormap < -1 || c.Render.FixedColormap > maxColormap {
		return fmt.Errorf("%w: %d", ErrInvalidColormap, c.Render.FixedColormap)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "BSPView")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "BSPView")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "bspview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "bspview")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
