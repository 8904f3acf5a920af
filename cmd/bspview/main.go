// Package main is the entry point for the BSP level viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/bspview/internal/config"
	"github.com/Faultbox/bspview/internal/logger"
	"github.com/Faultbox/bspview/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Fatal("viewer error", zap.Error(err))
	}
	logger.Sync()
}

func run(cfg *config.Config) error {
	logger.Info("=== BSP Viewer ===")
	logger.Debug("config",
		zap.Int("width", cfg.Render.Width),
		zap.Int("height", cfg.Render.Height),
		zap.Int("scale", cfg.Graphics.Scale),
		zap.String("level", cfg.Data.LevelPath),
		zap.String("sky_flat", cfg.Render.SkyFlat),
		zap.Any("camera", cfg.Camera),
	)

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		logger.Info("config written", zap.String("path", path))
		return nil
	}

	lvl, err := viewer.LoadLevel(cfg)
	if err != nil {
		return fmt.Errorf("loading level: %w", err)
	}

	// Broken references are skipped at render time, so they only warn here.
	if err := lvl.Validate(); err != nil {
		errs := multierr.Errors(err)
		for _, e := range errs {
			logger.Warn("level reference", zap.Error(e))
		}
		logger.Warn("level has bad references", zap.Int("count", len(errs)))
	}

	v, err := viewer.New(cfg, lvl)
	if err != nil {
		return err
	}
	defer v.Close()

	if path := config.ShotPath(); path != "" {
		return v.Shot(path)
	}

	if err := v.Run(); err != nil {
		return err
	}
	logger.Info("viewer closed normally")
	return nil
}
