package renderer

import (
	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

// Walls is the default WallEmitter. It culls back faces and segs outside
// the field of view, clips against the solid seg list and draws each
// visible range as flat-shaded columns.
type Walls struct{}

// EmitWall processes one seg of the current subsector.
func (Walls) EmitWall(rs *State, seg int, subsector int, floor, ceiling *Visplane) {
	rs.Stats.SegsEmitted++

	w, ok := newWall(rs, seg)
	if !ok {
		rs.Stats.BadRefs++
		return
	}
	rs.FloorPlane = floor
	rs.CeilingPlane = ceiling
	w.addLine()
}

// wall is the working set for one seg.
type wall struct {
	rs    *State
	index int
	seg   *level.Seg
	line  *level.Linedef
	side  *level.Sidedef
	v1    *level.Vertex
	v2    *level.Vertex
	front *level.Sector
	back  *level.Sector

	angle1 fixed.Angle // world angle to v1
}

func newWall(rs *State, index int) (*wall, bool) {
	lvl := rs.Level
	seg := lvl.Seg(index)
	if seg == nil {
		return nil, false
	}
	w := &wall{
		rs:    rs,
		index: index,
		seg:   seg,
		line:  lvl.Linedef(seg.Linedef),
		side:  lvl.SegSidedef(seg),
		v1:    lvl.Vertex(seg.V1),
		v2:    lvl.Vertex(seg.V2),
		front: rs.FrontSector,
		back:  lvl.BackSector(seg),
	}
	if w.front == nil {
		w.front = lvl.FrontSector(seg)
	}
	if w.line == nil || w.side == nil || w.v1 == nil || w.v2 == nil || w.front == nil {
		return nil, false
	}
	return w, true
}

// addLine classifies the seg and clips its column range.
func (w *wall) addLine() {
	rs := w.rs

	angle1 := fixed.PointToAngle(w.v1.X-rs.ViewX, w.v1.Y-rs.ViewY)
	angle2 := fixed.PointToAngle(w.v2.X-rs.ViewX, w.v2.Y-rs.ViewY)

	// Back side, or seen edge on.
	span := angle1 - angle2
	if span >= fixed.Ang180 {
		return
	}
	w.angle1 = angle1

	angle1, angle2, ok := rs.clipToView(angle1-rs.ViewAngle, angle2-rs.ViewAngle, span)
	if !ok {
		return
	}

	x1 := rs.Proj.AngleToX(angle1)
	x2 := rs.Proj.AngleToX(angle2)
	// Does not cross a pixel.
	if x1 == x2 {
		return
	}

	front, back := w.front, w.back
	switch {
	case back == nil:
		rs.ClipSolidWallSegment(x1, x2-1, w.storeWallRange)
	case back.CeilingHeight <= front.FloorHeight || back.FloorHeight >= front.CeilingHeight:
		// Closed door.
		rs.ClipSolidWallSegment(x1, x2-1, w.storeWallRange)
	case back.CeilingHeight != front.CeilingHeight || back.FloorHeight != front.FloorHeight:
		// Window.
		rs.ClipPassWallSegment(x1, x2-1, w.storeWallRange)
	case back.CeilingPic == front.CeilingPic && back.FloorPic == front.FloorPic &&
		back.LightLevel == front.LightLevel && w.side.MidTexture == level.NoTexture:
		// Identical sectors on both sides with nothing to draw.
		return
	default:
		rs.ClipPassWallSegment(x1, x2-1, w.storeWallRange)
	}
}

// scaleFromGlobalAngle returns the texture scale of the wall at a world
// angle, given the wall's normal and distance.
func (rs *State) scaleFromGlobalAngle(visangle, normal fixed.Angle, distance fixed.Fixed) fixed.Fixed {
	anglea := fixed.Ang90 + (visangle - rs.ViewAngle)
	angleb := fixed.Ang90 + (visangle - normal)

	num := fixed.Mul(rs.Proj.Projection, angleb.Sin())
	den := fixed.Mul(distance, anglea.Sin())

	if den > num>>fixed.FracBits {
		scale := fixed.Div(num, den)
		if scale > maxScale {
			return maxScale
		}
		if scale < minScale {
			return minScale
		}
		return scale
	}
	return maxScale
}

// segRange holds the stepping values of one stored range.
type segRange struct {
	x, stopx int

	scale, scaleStep fixed.Fixed

	topFrac, topStep       fixed.Fixed
	bottomFrac, bottomStep fixed.Fixed
	pixHigh, pixHighStep   fixed.Fixed
	pixLow, pixLowStep     fixed.Fixed

	solid         bool
	topTexture    int
	bottomTexture int
	markFloor     bool
	markCeiling   bool

	lights *[MaxLightScale]int
}

// storeWallRange computes the projection of columns start..stop, records a
// drawseg and renders the columns.
func (w *wall) storeWallRange(start, stop int) {
	rs := w.rs
	front, back := w.front, w.back
	sky := rs.skyFlat()

	normal := w.seg.Angle + fixed.Ang90
	offsetAngle := normal - w.angle1
	if offsetAngle > fixed.Ang180 {
		offsetAngle = -offsetAngle
	}
	if offsetAngle > fixed.Ang90 {
		offsetAngle = fixed.Ang90
	}
	distAngle := fixed.Ang90 - offsetAngle
	hyp := fixed.PointToDist(w.v1.X-rs.ViewX, w.v1.Y-rs.ViewY)
	distance := fixed.Mul(hyp, distAngle.Sin())

	ds := DrawSeg{X1: start, X2: stop, Seg: w.index}
	r := segRange{x: start, stopx: stop + 1}

	r.scale = rs.scaleFromGlobalAngle(rs.ViewAngle+rs.Proj.XToViewAngle[start], normal, distance)
	ds.Scale1 = r.scale
	ds.Scale2 = r.scale
	if stop > start {
		ds.Scale2 = rs.scaleFromGlobalAngle(rs.ViewAngle+rs.Proj.XToViewAngle[stop], normal, distance)
		r.scaleStep = (ds.Scale2 - r.scale) / fixed.Fixed(stop-start)
		ds.ScaleStep = r.scaleStep
	}

	worldTop := front.CeilingHeight - rs.ViewZ
	worldBottom := front.FloorHeight - rs.ViewZ
	var worldHigh, worldLow fixed.Fixed

	if back == nil {
		r.solid = true
		r.markFloor = true
		r.markCeiling = true
		ds.Silhouette = SilBoth
		ds.BSilHeight = fixed.MaxFixed
		ds.TSilHeight = fixed.MinFixed
	} else {
		if front.FloorHeight > back.FloorHeight {
			ds.Silhouette = SilBottom
			ds.BSilHeight = front.FloorHeight
		} else if back.FloorHeight > rs.ViewZ {
			ds.Silhouette = SilBottom
			ds.BSilHeight = fixed.MaxFixed
		}
		if front.CeilingHeight < back.CeilingHeight {
			ds.Silhouette |= SilTop
			ds.TSilHeight = front.CeilingHeight
		} else if back.CeilingHeight < rs.ViewZ {
			ds.Silhouette |= SilTop
			ds.TSilHeight = fixed.MinFixed
		}
		if back.CeilingHeight <= front.FloorHeight {
			ds.BSilHeight = fixed.MaxFixed
			ds.Silhouette |= SilBottom
		}
		if back.FloorHeight >= front.CeilingHeight {
			ds.TSilHeight = fixed.MinFixed
			ds.Silhouette |= SilTop
		}

		worldHigh = back.CeilingHeight - rs.ViewZ
		worldLow = back.FloorHeight - rs.ViewZ

		// Height changes between two sky ceilings are not drawn.
		if front.CeilingPic == sky && back.CeilingPic == sky {
			worldTop = worldHigh
		}

		r.markFloor = worldLow != worldBottom || back.FloorPic != front.FloorPic ||
			back.LightLevel != front.LightLevel
		r.markCeiling = worldHigh != worldTop || back.CeilingPic != front.CeilingPic ||
			back.LightLevel != front.LightLevel
		if back.CeilingHeight <= front.FloorHeight || back.FloorHeight >= front.CeilingHeight {
			// Closed door.
			r.markFloor = true
			r.markCeiling = true
		}

		r.topTexture = -1
		r.bottomTexture = -1
		if worldHigh < worldTop {
			r.topTexture = w.side.TopTexture
		}
		if worldLow > worldBottom {
			r.bottomTexture = w.side.BottomTexture
		}
		if w.side.MidTexture != level.NoTexture {
			ds.Masked = true
		}
	}

	if rs.FixedColormap < 0 {
		lightnum := front.LightLevel>>LightSegShift + rs.ExtraLight
		// Fake contrast on axis-aligned walls.
		if w.v1.Y == w.v2.Y {
			lightnum--
		} else if w.v1.X == w.v2.X {
			lightnum++
		}
		r.lights = &rs.Proj.ScaleLight[clampLight(lightnum)]
	}

	// A plane on the far side of the view plane is never visible.
	if front.FloorHeight >= rs.ViewZ {
		r.markFloor = false
	}
	if front.CeilingHeight <= rs.ViewZ && front.CeilingPic != sky {
		r.markCeiling = false
	}

	worldTop >>= 4
	worldBottom >>= 4
	centerY := rs.Proj.CenterYFrac >> 4

	r.topStep = -fixed.Mul(r.scaleStep, worldTop)
	r.topFrac = centerY - fixed.Mul(worldTop, r.scale)
	r.bottomStep = -fixed.Mul(r.scaleStep, worldBottom)
	r.bottomFrac = centerY - fixed.Mul(worldBottom, r.scale)

	if back != nil {
		worldHigh >>= 4
		worldLow >>= 4
		if worldHigh < worldTop {
			r.pixHigh = centerY - fixed.Mul(worldHigh, r.scale)
			r.pixHighStep = -fixed.Mul(r.scaleStep, worldHigh)
		}
		if worldLow > worldBottom {
			r.pixLow = centerY - fixed.Mul(worldLow, r.scale)
			r.pixLowStep = -fixed.Mul(r.scaleStep, worldLow)
		}
	}

	if r.markCeiling && rs.CeilingPlane != nil {
		rs.CeilingPlane = rs.Planes.CheckPlane(rs, rs.CeilingPlane, start, stop)
	} else {
		r.markCeiling = false
	}
	if r.markFloor && rs.FloorPlane != nil {
		rs.FloorPlane = rs.Planes.CheckPlane(rs, rs.FloorPlane, start, stop)
	} else {
		r.markFloor = false
	}

	w.renderSegLoop(&r)

	if ds.Masked {
		if ds.Silhouette&SilTop == 0 {
			ds.Silhouette |= SilTop
			ds.TSilHeight = fixed.MinFixed
		}
		if ds.Silhouette&SilBottom == 0 {
			ds.Silhouette |= SilBottom
			ds.BSilHeight = fixed.MaxFixed
		}
	}
	rs.DrawSegs = append(rs.DrawSegs, ds)
}

// renderSegLoop walks the columns of a stored range. It claims plane
// columns above and below the wall, paints the wall parts and tightens
// the clip arrays.
func (w *wall) renderSegLoop(r *segRange) {
	rs := w.rs
	ceilingClip, floorClip := rs.CeilingClip, rs.FloorClip

	for ; r.x < r.stopx; r.x++ {
		x := r.x

		yl := int((r.topFrac + HeightUnit - 1) >> HeightBits)
		if yl < ceilingClip[x]+1 {
			yl = ceilingClip[x] + 1
		}
		if r.markCeiling {
			top := ceilingClip[x] + 1
			bottom := yl - 1
			if bottom >= floorClip[x] {
				bottom = floorClip[x] - 1
			}
			if top <= bottom {
				rs.CeilingPlane.Top[x] = top
				rs.CeilingPlane.Bottom[x] = bottom
			}
		}

		yh := int(r.bottomFrac >> HeightBits)
		if yh >= floorClip[x] {
			yh = floorClip[x] - 1
		}
		if r.markFloor {
			top := yh + 1
			bottom := floorClip[x] - 1
			if top <= ceilingClip[x] {
				top = ceilingClip[x] + 1
			}
			if top <= bottom {
				rs.FloorPlane.Top[x] = top
				rs.FloorPlane.Bottom[x] = bottom
			}
		}

		cm := w.columnColormap(r)
		rs.Stats.WallColumns++

		if r.solid {
			w.drawColumn(x, yl, yh, w.side.MidTexture, cm)
			ceilingClip[x] = rs.Proj.Height
			floorClip[x] = -1
		} else {
			if r.topTexture >= 0 {
				mid := int(r.pixHigh >> HeightBits)
				r.pixHigh += r.pixHighStep
				if mid >= floorClip[x] {
					mid = floorClip[x] - 1
				}
				if mid >= yl {
					w.drawColumn(x, yl, mid, r.topTexture, cm)
					ceilingClip[x] = mid
				} else {
					ceilingClip[x] = yl - 1
				}
			} else if r.markCeiling {
				ceilingClip[x] = yl - 1
			}

			if r.bottomTexture >= 0 {
				mid := int((r.pixLow + HeightUnit - 1) >> HeightBits)
				r.pixLow += r.pixLowStep
				if mid <= ceilingClip[x] {
					mid = ceilingClip[x] + 1
				}
				if mid <= yh {
					w.drawColumn(x, mid, yh, r.bottomTexture, cm)
					floorClip[x] = mid
				} else {
					floorClip[x] = yh + 1
				}
			} else if r.markFloor {
				floorClip[x] = yh + 1
			}
		}

		r.scale += r.scaleStep
		r.topFrac += r.topStep
		r.bottomFrac += r.bottomStep
	}
}

// columnColormap picks the light map for the current column.
func (w *wall) columnColormap(r *segRange) int {
	if w.rs.FixedColormap >= 0 || r.lights == nil {
		return w.rs.FixedColormap
	}
	idx := int(r.scale >> LightScaleShift)
	if idx >= MaxLightScale {
		idx = MaxLightScale - 1
	}
	return r.lights[idx]
}

func (w *wall) drawColumn(x, y1, y2, texture, cm int) {
	rs := w.rs
	if y1 > y2 || rs.Frame == nil {
		return
	}
	c := wallColor(texture)
	if cm >= 0 && rs.Colormaps != nil {
		c = rs.Colormaps[cm][c]
	}
	rs.Frame.FillColumn(x, y1, y2, c)
}

// wallColor picks the base palette entry for a texture id. The sky ramp
// is reserved.
func wallColor(texture int) byte {
	if texture < 0 {
		texture = 0
	}
	return framebuffer.RampColor(texture%(framebuffer.RampCount-1), 0)
}
