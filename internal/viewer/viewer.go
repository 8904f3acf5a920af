// Package viewer drives the software renderer: it owns the camera, the
// framebuffer and the overlays, and runs either an interactive SDL loop or
// a single headless frame.
package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/bspview/internal/config"
	"github.com/Faultbox/bspview/internal/engine/camera"
	"github.com/Faultbox/bspview/internal/engine/debug"
	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/internal/engine/input"
	"github.com/Faultbox/bspview/internal/engine/renderer"
	"github.com/Faultbox/bspview/internal/engine/window"
	"github.com/Faultbox/bspview/internal/logger"
	"github.com/Faultbox/bspview/pkg/level"
)

// mapMargin is the map overlay border in framebuffer pixels.
const mapMargin = 4

// Viewer is the main viewer instance.
type Viewer struct {
	config   *config.Config
	level    *level.Level
	renderer *renderer.Renderer
	camera   *camera.FlyCamera

	frame *framebuffer.Framebuffer
	rgba  []byte

	mapView *debug.MapRenderer
	trace   debug.Trace
	showMap bool
	shots   *debug.ScreenshotCapture

	frames int
	last   renderer.FrameStats
	total  renderer.FrameStats

	running bool
	window  *window.Window
	input   *input.Input

	log *zap.Logger
}

// New creates a viewer for lvl. No window is opened; call Open for the
// interactive loop or Shot for a headless frame. lvl is only read, so load
// it with LoadLevel to apply the configured sky flat.
func New(cfg *config.Config, lvl *level.Level) (*Viewer, error) {
	log := logger.Named("viewer")

	rcfg := renderer.DefaultConfig(cfg.Render.Width, cfg.Render.Height)
	rcfg.MaxVisplanes = cfg.Render.MaxVisplanes
	rcfg.ExtraLight = cfg.Render.ExtraLight
	rcfg.FixedColormap = cfg.Render.FixedColormap
	rcfg.ClearColor = cfg.Render.ClearColor

	r, err := renderer.New(rcfg, lvl)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	shots, err := debug.NewScreenshotCapture(cfg.Data.ScreenshotDir, "bspview", cfg.Data.ScreenshotFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create screenshot capture: %w", err)
	}

	v := &Viewer{
		config:   cfg,
		level:    lvl,
		renderer: r,
		camera:   newCamera(cfg.Camera),
		frame:    r.NewFrame(),
		rgba:     make([]byte, cfg.Render.Width*cfg.Render.Height*4),
		mapView:  debug.NewMapRenderer(lvl, mapMargin),
		shots:    shots,
		log:      log,
	}

	log.Info("viewer initialized",
		zap.String("level", lvl.Name),
		zap.Float64("x", v.camera.X.Float()),
		zap.Float64("y", v.camera.Y.Float()),
		zap.Float64("angle", v.camera.Angle.Degrees()),
	)
	return v, nil
}

// LoadLevel loads the configured level, falling back to the configured sky
// flat when the level does not name one of its own.
func LoadLevel(cfg *config.Config) (*level.Level, error) {
	return level.Load(cfg.Data.LevelPath, level.WithSkyFallback(cfg.Render.SkyFlat))
}

func newCamera(cfg config.CameraConfig) *camera.FlyCamera {
	c := camera.NewFlyCamera(cfg.X, cfg.Y, cfg.Angle)
	c.SetEyeHeight(cfg.EyeHeight)
	if cfg.MoveSpeed > 0 {
		c.MoveSpeed = float64(cfg.MoveSpeed)
	}
	if cfg.TurnSpeed > 0 {
		c.TurnSpeed = cfg.TurnSpeed
	}
	return c
}

// Camera returns the viewer camera.
func (v *Viewer) Camera() *camera.FlyCamera { return v.camera }

// Frame returns the framebuffer of the last drawn frame.
func (v *Viewer) Frame() *framebuffer.Framebuffer { return v.frame }

// LastStats returns the stats of the last drawn frame.
func (v *Viewer) LastStats() renderer.FrameStats { return v.last }

// ToggleMap switches the traversal map overlay on or off.
func (v *Viewer) ToggleMap() {
	v.showMap = !v.showMap
	v.log.Debug("map overlay toggled", zap.Bool("visible", v.showMap))
}

// DrawFrame renders one frame from the current camera, with the map overlay
// on top when enabled.
func (v *Viewer) DrawFrame() error {
	cam := v.camera.View(v.level)

	var (
		stats renderer.FrameStats
		err   error
	)
	if v.showMap {
		v.trace.Reset()
		stats, err = v.renderer.RenderFrameTraced(v.frame, cam, &v.trace)
	} else {
		stats, err = v.renderer.RenderFrame(v.frame, cam)
	}
	if err != nil {
		return err
	}

	if v.showMap {
		v.mapView.Draw(v.frame, v.camera.Position(), v.camera.Angle, &v.trace)
	}

	v.last = stats
	v.total.Add(stats)
	v.frames++
	if n := v.config.Render.StatsInterval; n > 0 && v.frames%n == 0 {
		v.log.Debug("frame",
			zap.Int("frame", v.frames),
			zap.Object("stats", stats),
		)
	}
	return nil
}

// Screenshot writes the current frame to the screenshot directory.
func (v *Viewer) Screenshot() (string, error) {
	path, err := v.shots.CaptureFrame(v.frame, v.renderer.Palette())
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	v.log.Info("screenshot saved", zap.String("path", path))
	return path, nil
}

// Shot renders a single frame and writes it to path. The format follows
// the file extension.
func (v *Viewer) Shot(path string) error {
	if err := v.DrawFrame(); err != nil {
		return err
	}
	if err := debug.SaveImage(path, "", v.frame.Paletted(v.renderer.Palette())); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	v.log.Info("frame written",
		zap.String("path", path),
		zap.Object("stats", v.last),
	)
	return nil
}
