package renderer

import (
	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/pkg/fixed"
)

// FieldOfView is the horizontal field of view in fine angles (90 degrees).
const FieldOfView = 2048

// Light and height stepping constants.
const (
	HeightBits = 12
	HeightUnit = 1 << HeightBits

	LightLevels     = 16
	LightSegShift   = 4
	MaxLightScale   = 48
	LightScaleShift = 12
	MaxLightZ       = 128
	LightZShift     = 20

	// distMap and baseWidth scale light falloff to the screen width the
	// tables were tuned for.
	distMap   = 2
	baseWidth = 320
)

// Wall scale clamps.
const (
	minScale fixed.Fixed = 256
	maxScale fixed.Fixed = 64 * fixed.FracUnit
)

// Projection holds the screen-size dependent lookup tables. It is built
// once per resolution and shared read-only by every frame.
type Projection struct {
	Width, Height int

	CenterX, CenterY         int
	CenterXFrac, CenterYFrac fixed.Fixed
	// Projection is the focal distance in pixels, as fixed point.
	Projection fixed.Fixed

	// ViewAngleToX maps a fine angle in [-90, 90) degrees, offset by a
	// quarter turn, to the first screen column at or right of it.
	ViewAngleToX [fixed.FineAngles / 2]int
	// XToViewAngle maps a column to the smallest view angle that maps to it.
	// It has Width+1 entries.
	XToViewAngle []fixed.Angle
	// ClipAngle is the view angle of the leftmost column.
	ClipAngle fixed.Angle

	// YSlope is the distance factor of each row for flat planes.
	YSlope []fixed.Fixed

	// ScaleLight and ZLight map a light level and a wall scale or a plane
	// distance to a colormap index.
	ScaleLight [LightLevels][MaxLightScale]int
	ZLight     [LightLevels][MaxLightZ]int
}

// MinWidth is the narrowest view with a non-zero focal length.
const MinWidth = 2

// NewProjection builds the tables for a width x height view. Widths below
// MinWidth are raised to it.
func NewProjection(width, height int) *Projection {
	if width < MinWidth {
		width = MinWidth
	}
	if height < 1 {
		height = 1
	}
	p := &Projection{
		Width:        width,
		Height:       height,
		CenterX:      width / 2,
		CenterY:      height / 2,
		XToViewAngle: make([]fixed.Angle, width+1),
		YSlope:       make([]fixed.Fixed, height),
	}
	p.CenterXFrac = fixed.FromInt(p.CenterX)
	p.CenterYFrac = fixed.FromInt(p.CenterY)
	p.Projection = p.CenterXFrac

	p.initTextureMapping()
	p.initPlaneSlopes()
	p.initLightTables()
	return p
}

func (p *Projection) initTextureMapping() {
	focal := fixed.Div(p.CenterXFrac, fixed.FineTangent[fixed.FineAngles/4+FieldOfView/2])

	for i := range p.ViewAngleToX {
		tan := fixed.FineTangent[i]
		var t int
		switch {
		case tan > fixed.FracUnit*2:
			t = -1
		case tan < -fixed.FracUnit*2:
			t = p.Width + 1
		default:
			f := fixed.Mul(tan, focal)
			t = int((p.CenterXFrac - f + fixed.FracUnit - 1) >> fixed.FracBits)
			if t < -1 {
				t = -1
			} else if t > p.Width+1 {
				t = p.Width + 1
			}
		}
		p.ViewAngleToX[i] = t
	}

	// Scan for the lowest view angle that maps back to each column.
	for x := 0; x <= p.Width; x++ {
		i := 0
		for p.ViewAngleToX[i] > x {
			i++
		}
		p.XToViewAngle[x] = fixed.Angle(uint32(i)<<fixed.AngleToFineShift) - fixed.Ang90
	}

	// Take out the fencepost cases.
	for i, t := range p.ViewAngleToX {
		if t == -1 {
			p.ViewAngleToX[i] = 0
		} else if t == p.Width+1 {
			p.ViewAngleToX[i] = p.Width
		}
	}

	p.ClipAngle = p.XToViewAngle[0]
}

func (p *Projection) initPlaneSlopes() {
	half := fixed.FromInt(p.Width / 2)
	for y := range p.YSlope {
		dy := fixed.FromInt(y-p.Height/2) + fixed.FracUnit/2
		if dy < 0 {
			dy = -dy
		}
		p.YSlope[y] = fixed.Div(half, dy)
	}
}

func (p *Projection) initLightTables() {
	for i := 0; i < LightLevels; i++ {
		start := lightStart(i)
		for j := 0; j < MaxLightScale; j++ {
			p.ScaleLight[i][j] = clampMap(start - j*baseWidth/p.Width/distMap)
		}
		for j := 0; j < MaxLightZ; j++ {
			scale := fixed.Div(fixed.FromInt(baseWidth/2), fixed.Fixed((j+1)<<LightZShift))
			scale >>= LightScaleShift
			p.ZLight[i][j] = clampMap(start - int(scale)/distMap)
		}
	}
}

// lightStart returns the colormap used at the far end of a light level.
func lightStart(lightnum int) int {
	return ((LightLevels - 1 - lightnum) * 2) * framebuffer.NumLightMaps / LightLevels
}

func clampMap(level int) int {
	if level < 0 {
		return 0
	}
	if level >= framebuffer.NumLightMaps {
		return framebuffer.NumLightMaps - 1
	}
	return level
}

// clampLight bounds a light index to the table rows.
func clampLight(lightnum int) int {
	if lightnum < 0 {
		return 0
	}
	if lightnum >= LightLevels {
		return LightLevels - 1
	}
	return lightnum
}

// AngleToX returns the screen column for a view-relative angle already
// clipped to the field of view.
func (p *Projection) AngleToX(a fixed.Angle) int {
	return p.ViewAngleToX[(a+fixed.Ang90)>>fixed.AngleToFineShift]
}
