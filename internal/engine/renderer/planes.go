package renderer

import (
	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/pkg/fixed"
)

// PlaneUnset marks a visplane column that has not been claimed.
const PlaneUnset = -1

// Visplane is a run of floor or ceiling columns sharing height, flat and
// light. Top and Bottom are indexed by screen column.
type Visplane struct {
	Height fixed.Fixed
	Pic    int
	Light  int
	MinX   int
	MaxX   int
	Top    []int
	Bottom []int
}

func newVisplane(width int, height fixed.Fixed, pic, light int) *Visplane {
	pl := &Visplane{
		Height: height,
		Pic:    pic,
		Light:  light,
		MinX:   width,
		MaxX:   -1,
		Top:    make([]int, width),
		Bottom: make([]int, width),
	}
	for x := range pl.Top {
		pl.Top[x] = PlaneUnset
	}
	return pl
}

// Planes is the default PlaneAllocator.
type Planes struct{}

// FindPlane returns the plane matching height, pic and light, allocating
// a new one if none exists. All sky surfaces share one plane.
func (Planes) FindPlane(rs *State, height fixed.Fixed, pic, light int) *Visplane {
	if pic == rs.skyFlat() {
		height = 0
		light = 0
	}
	for _, pl := range rs.Visplanes {
		if pl.Height == height && pl.Pic == pic && pl.Light == light {
			return pl
		}
	}
	pl, _ := rs.allocPlane(height, pic, light)
	return pl
}

// CheckPlane returns a plane that can take columns start..stop: pl itself
// when none of the overlapping columns are claimed, otherwise a copy with
// the same attributes covering only start..stop.
func (Planes) CheckPlane(rs *State, pl *Visplane, start, stop int) *Visplane {
	var intrl, intrh, unionl, unionh int
	if start < pl.MinX {
		intrl, unionl = pl.MinX, start
	} else {
		unionl, intrl = pl.MinX, start
	}
	if stop > pl.MaxX {
		intrh, unionh = pl.MaxX, stop
	} else {
		unionh, intrh = pl.MaxX, stop
	}

	x := intrl
	for ; x <= intrh; x++ {
		if pl.Top[x] != PlaneUnset {
			break
		}
	}
	if x > intrh {
		pl.MinX, pl.MaxX = unionl, unionh
		return pl
	}

	next, fresh := rs.allocPlane(pl.Height, pl.Pic, pl.Light)
	if !fresh {
		next.MinX = min(next.MinX, start)
		next.MaxX = max(next.MaxX, stop)
		return next
	}
	next.MinX, next.MaxX = start, stop
	return next
}

// allocPlane appends a new plane. When the budget is spent it returns the
// last plane instead, reports false and counts the overflow.
func (rs *State) allocPlane(height fixed.Fixed, pic, light int) (*Visplane, bool) {
	if len(rs.Visplanes) >= rs.MaxVisplanes && len(rs.Visplanes) > 0 {
		rs.Stats.PlaneOverflows++
		return rs.Visplanes[len(rs.Visplanes)-1], false
	}
	pl := newVisplane(rs.Proj.Width, height, pic, light)
	rs.Visplanes = append(rs.Visplanes, pl)
	return pl, true
}

// DrawPlanes fills every claimed visplane column into the frame.
func (rs *State) DrawPlanes() {
	if rs.Frame == nil || rs.Colormaps == nil {
		return
	}
	sky := rs.skyFlat()
	for _, pl := range rs.Visplanes {
		if pl.MinX > pl.MaxX {
			continue
		}
		if pl.Pic == sky {
			rs.drawSky(pl)
			continue
		}
		rs.drawFlat(pl)
	}
}

func (rs *State) drawSky(pl *Visplane) {
	c := framebuffer.RampColor(framebuffer.SkyRamp, 0)
	if rs.FixedColormap >= 0 {
		c = rs.Colormaps[rs.FixedColormap][c]
	}
	for x := pl.MinX; x <= pl.MaxX; x++ {
		if pl.Top[x] == PlaneUnset || pl.Top[x] > pl.Bottom[x] {
			continue
		}
		rs.Frame.FillColumn(x, pl.Top[x], pl.Bottom[x], c)
	}
}

// drawFlat shades each row by its distance from the camera.
func (rs *State) drawFlat(pl *Visplane) {
	base := flatColor(pl.Pic)
	planeHeight := pl.Height - rs.ViewZ
	if planeHeight < 0 {
		planeHeight = -planeHeight
	}
	zlight := &rs.Proj.ZLight[clampLight(pl.Light>>LightSegShift+rs.ExtraLight)]

	for x := pl.MinX; x <= pl.MaxX; x++ {
		if pl.Top[x] == PlaneUnset {
			continue
		}
		for y := pl.Top[x]; y <= pl.Bottom[x]; y++ {
			cm := rs.FixedColormap
			if cm < 0 {
				dist := fixed.Mul(planeHeight, rs.Proj.YSlope[y])
				idx := int(dist >> LightZShift)
				if idx >= MaxLightZ {
					idx = MaxLightZ - 1
				}
				cm = zlight[idx]
			}
			rs.Frame.Set(x, y, rs.Colormaps[cm][base])
		}
	}
}

// flatColor picks the base palette entry for a flat. The sky ramp is
// reserved.
func flatColor(pic int) byte {
	if pic < 0 {
		pic = 0
	}
	return framebuffer.RampColor(pic%(framebuffer.RampCount-2)+1, 2)
}
