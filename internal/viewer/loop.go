package viewer

import (
	"fmt"
	"math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/bspview/internal/engine/input"
	"github.com/Faultbox/bspview/internal/engine/window"
)

// Open creates the window and input handler for Run.
func (v *Viewer) Open() error {
	w, err := window.New(window.Config{
		Title:      v.title(0),
		Width:      v.config.Render.Width,
		Height:     v.config.Render.Height,
		Scale:      v.config.Graphics.Scale,
		Fullscreen: v.config.Graphics.Fullscreen,
		VSync:      v.config.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	v.window = w
	v.input = input.New()
	return nil
}

// Run starts the main loop. It returns when the window is closed or the
// quit key is pressed.
func (v *Viewer) Run() error {
	if v.window == nil {
		if err := v.Open(); err != nil {
			return err
		}
	}
	v.running = true

	var frameBudget time.Duration
	if limit := v.config.Graphics.FPSLimit; limit > 0 {
		frameBudget = time.Second / time.Duration(limit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// 2. Move the camera
		v.camera.Step(v.input.Controls(), dt)

		// 3. Render
		if err := v.DrawFrame(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present
		if err := v.frame.ExpandRGBA(v.renderer.Palette(), v.rgba); err != nil {
			return fmt.Errorf("present error: %w", err)
		}
		if err := v.window.Present(v.rgba); err != nil {
			return fmt.Errorf("present error: %w", err)
		}

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(v.title(frameCount))
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	v.log.Info("viewer loop finished",
		zap.Int("frames", v.frames),
		zap.Object("totals", v.total),
	)
	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		v.handleEvent(event)
	}
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.resized(event.Width, event.Height)
	case input.EventKeyDown:
		v.handleKey(event.Key)
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case input.KeyQuit:
		v.running = false
	case input.KeyMap:
		v.ToggleMap()
	case input.KeyScreenshot:
		if _, err := v.Screenshot(); err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
		}
	case input.KeyStats:
		v.log.Info("frame stats",
			zap.Int("frame", v.frames),
			zap.Float64("x", v.camera.X.Float()),
			zap.Float64("y", v.camera.Y.Float()),
			zap.Float64("angle", v.camera.Angle.Degrees()),
			zap.Object("stats", v.last),
		)
	}
}

// resized records a window size change. The frame keeps its size and SDL
// scales it to the window through the renderer's logical size.
func (v *Viewer) resized(width, height int) {
	if v.window != nil {
		width, height = v.window.GetSize()
	}
	fw, fh := v.frame.Size()
	scale := math.Min(float64(width)/float64(fw), float64(height)/float64(fh))
	v.log.Debug("window resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("frame_width", fw),
		zap.Int("frame_height", fh),
		zap.Float64("scale", scale),
	)
}

func (v *Viewer) title(fps int) string {
	if fps == 0 {
		return fmt.Sprintf("bspview - %s", v.level.Name)
	}
	return fmt.Sprintf("bspview - %s - %d fps", v.level.Name, fps)
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
