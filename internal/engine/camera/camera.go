// Package camera provides the viewer's free-fly camera.
package camera

import (
	"github.com/Faultbox/bspview/internal/engine/input"
	"github.com/Faultbox/bspview/internal/engine/renderer"
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

// ceilingClearance keeps the eye below low ceilings.
const ceilingClearance = 4 * fixed.FracUnit

// runMultiplier scales movement while the run key is held.
const runMultiplier = 2

// FlyCamera is a free-moving camera. It passes through walls and follows
// the floor of whatever sector it is over.
type FlyCamera struct {
	X, Y      fixed.Fixed
	Angle     fixed.Angle
	EyeHeight fixed.Fixed

	// Sensitivity
	MoveSpeed float64 // map units per second
	TurnSpeed float64 // degrees per second

	z fixed.Fixed
}

// NewFlyCamera creates a camera at (x, y) map units facing angle degrees,
// with the default eye height.
func NewFlyCamera(x, y int, angle float64) *FlyCamera {
	return &FlyCamera{
		X:         fixed.FromInt(x),
		Y:         fixed.FromInt(y),
		Angle:     fixed.FromDegrees(angle),
		EyeHeight: fixed.FromInt(renderer.DefaultEyeHeight),
		MoveSpeed: 256,
		TurnSpeed: 120,
		z:         fixed.FromInt(renderer.DefaultEyeHeight),
	}
}

// SetEyeHeight sets the eye height in map units. Values below 1 are
// ignored.
func (c *FlyCamera) SetEyeHeight(units int) {
	if units < 1 {
		return
	}
	c.EyeHeight = fixed.FromInt(units)
	c.z = c.EyeHeight
}

// Step advances the camera by dt seconds of held controls.
func (c *FlyCamera) Step(ctl input.Controls, dt float64) {
	if dt <= 0 || !ctl.Moving() {
		return
	}
	speed := c.MoveSpeed
	turn := c.TurnSpeed
	if ctl.Run {
		speed *= runMultiplier
		turn *= runMultiplier
	}

	delta := fixed.FromDegrees(turn * dt)
	if ctl.TurnLeft {
		c.Angle += delta
	}
	if ctl.TurnRight {
		c.Angle -= delta
	}

	dist := fixed.FromFloat(speed * dt)
	if ctl.Forward {
		c.move(c.Angle, dist)
	}
	if ctl.Backward {
		c.move(c.Angle, -dist)
	}
	if ctl.StrafeLeft {
		c.move(c.Angle+fixed.Ang90, dist)
	}
	if ctl.StrafeRight {
		c.move(c.Angle-fixed.Ang90, dist)
	}
}

func (c *FlyCamera) move(a fixed.Angle, dist fixed.Fixed) {
	c.X += fixed.Mul(dist, a.Cos())
	c.Y += fixed.Mul(dist, a.Sin())
}

// View returns the render pose. The eye sits EyeHeight above the floor
// of the sector under the camera; over broken geometry the last height
// is kept.
func (c *FlyCamera) View(lvl *level.Level) renderer.Camera {
	if ss := renderer.PointInSubsector(lvl, c.X, c.Y); ss >= 0 {
		if sec := lvl.SubsectorSector(ss); sec != nil {
			z := sec.FloorHeight + c.EyeHeight
			if limit := sec.CeilingHeight - ceilingClearance; z > limit {
				z = limit
			}
			c.z = z
		}
	}
	return renderer.Camera{X: c.X, Y: c.Y, Z: c.z, Angle: c.Angle}
}

// Position returns the camera's map position.
func (c *FlyCamera) Position() level.Vertex {
	return level.Vertex{X: c.X, Y: c.Y}
}
