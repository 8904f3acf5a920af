// Package renderer implements the BSP visibility pass of the software
// renderer: front-to-back traversal, occlusion culling against solid wall
// ranges, wall column and visplane emission.
package renderer

import (
	"errors"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/internal/logger"
	"github.com/Faultbox/bspview/pkg/level"
)

// Renderer errors.
var (
	ErrNoLevel   = errors.New("renderer needs a level")
	ErrFrameSize = errors.New("frame size does not match renderer")
	ErrViewSize  = errors.New("view must be at least 2 columns wide and 1 row high")
)

// Config holds renderer configuration.
type Config struct {
	Width         int
	Height        int
	MaxVisplanes  int
	ExtraLight    int
	FixedColormap int
	ClearColor    byte
}

// DefaultConfig returns a config for a width x height view with no light
// overrides.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:         width,
		Height:        height,
		MaxVisplanes:  DefaultMaxVisplanes,
		FixedColormap: NoFixedColormap,
	}
}

// Renderer draws frames of one level at a fixed resolution. It is
// read-only after New, so frames may be rendered from several goroutines
// as long as each uses its own framebuffer.
type Renderer struct {
	config    Config
	level     *level.Level
	proj      *Projection
	palette   color.Palette
	colormaps *framebuffer.Colormaps

	walls  WallEmitter
	planes PlaneAllocator
	log    *zap.Logger
}

// New creates a renderer for lvl.
func New(cfg Config, lvl *level.Level) (*Renderer, error) {
	if lvl == nil {
		return nil, ErrNoLevel
	}
	if cfg.Width < MinWidth || cfg.Height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrViewSize, cfg.Width, cfg.Height)
	}
	if cfg.MaxVisplanes <= 0 {
		cfg.MaxVisplanes = DefaultMaxVisplanes
	}
	if cfg.FixedColormap >= framebuffer.NumColormaps {
		return nil, fmt.Errorf("fixed colormap %d out of range", cfg.FixedColormap)
	}

	pal := framebuffer.DefaultPalette()
	r := &Renderer{
		config:    cfg,
		level:     lvl,
		proj:      NewProjection(cfg.Width, cfg.Height),
		palette:   pal,
		colormaps: framebuffer.BuildColormaps(pal),
		walls:     Walls{},
		planes:    Planes{},
		log:       logger.Named("render"),
	}

	r.log.Info("renderer initialized",
		zap.String("level", lvl.Name),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("nodes", len(lvl.Nodes)),
		zap.Int("subsectors", len(lvl.Subsectors)),
	)
	return r, nil
}

// Level returns the level being rendered.
func (r *Renderer) Level() *level.Level { return r.level }

// Projection returns the shared projection tables.
func (r *Renderer) Projection() *Projection { return r.proj }

// Palette returns the palette frames are drawn with.
func (r *Renderer) Palette() color.Palette { return r.palette }

// Colormaps returns the light remapping tables.
func (r *Renderer) Colormaps() *framebuffer.Colormaps { return r.colormaps }

// NewFrame allocates a framebuffer of the renderer's size.
func (r *Renderer) NewFrame() *framebuffer.Framebuffer {
	return framebuffer.New(r.config.Width, r.config.Height)
}

// NewState prepares a frame state for fb seen from cam. tracer may be nil.
func (r *Renderer) NewState(fb *framebuffer.Framebuffer, cam Camera, tracer TraversalTracer) *State {
	rs := CreateRenderState(fb, r.level, r.proj, r.colormaps, Options{
		MaxVisplanes:  r.config.MaxVisplanes,
		ExtraLight:    r.config.ExtraLight,
		FixedColormap: r.config.FixedColormap,
		Walls:         r.walls,
		Planes:        r.planes,
		Tracer:        tracer,
	})
	rs.SetCamera(cam)
	return rs
}

// RenderFrame draws the level into fb from cam and returns the frame stats.
func (r *Renderer) RenderFrame(fb *framebuffer.Framebuffer, cam Camera) (FrameStats, error) {
	return r.RenderFrameTraced(fb, cam, nil)
}

// RenderFrameTraced is RenderFrame with a traversal observer.
func (r *Renderer) RenderFrameTraced(fb *framebuffer.Framebuffer, cam Camera, tracer TraversalTracer) (FrameStats, error) {
	if w, h := fb.Size(); w != r.config.Width || h != r.config.Height {
		return FrameStats{}, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrFrameSize, w, h, r.config.Width, r.config.Height)
	}

	fb.Clear(r.config.ClearColor)
	rs := r.NewState(fb, cam, tracer)
	rs.RenderBSPNode(r.level.Root())
	rs.DrawPlanes()
	stats := rs.Finish()

	if stats.BadRefs > 0 {
		r.log.Warn("skipped bad geometry references",
			zap.Int("count", stats.BadRefs),
			zap.String("level", r.level.Name),
		)
	}
	if stats.PlaneOverflows > 0 {
		r.log.Warn("visplane budget exhausted",
			zap.Int("max", r.config.MaxVisplanes),
			zap.Int("overflows", stats.PlaneOverflows),
		)
	}
	return stats, nil
}
