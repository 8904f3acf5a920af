package renderer

import (
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

// checkCoord names, per region code, the two box corners that bound the
// box silhouette as seen from that region: {x1, y1, x2, y2} indices into
// the box. Codes 3 and 7 cannot occur and code 5 is inside the box.
var checkCoord = [11]*[4]int{
	{level.BoxRight, level.BoxTop, level.BoxLeft, level.BoxBottom},
	{level.BoxRight, level.BoxTop, level.BoxLeft, level.BoxTop},
	{level.BoxRight, level.BoxBottom, level.BoxLeft, level.BoxTop},
	nil,
	{level.BoxLeft, level.BoxTop, level.BoxLeft, level.BoxBottom},
	nil,
	{level.BoxRight, level.BoxBottom, level.BoxRight, level.BoxTop},
	nil,
	{level.BoxLeft, level.BoxTop, level.BoxRight, level.BoxBottom},
	{level.BoxLeft, level.BoxBottom, level.BoxRight, level.BoxBottom},
	{level.BoxLeft, level.BoxBottom, level.BoxRight, level.BoxTop},
}

type boxResult int

const (
	boxVisible boxResult = iota // visible without a column test
	boxCulled                   // outside the field of view or empty
	boxSpan                     // covers the returned columns
)

// boxRegion returns the region code of the camera relative to box:
// boxy<<2 + boxx, with the box edges counted as inside.
func boxRegion(x, y fixed.Fixed, box level.BBox) int {
	boxx := 1
	if x < box[level.BoxLeft] {
		boxx = 0
	} else if x > box[level.BoxRight] {
		boxx = 2
	}
	boxy := 1
	if y > box[level.BoxTop] {
		boxy = 0
	} else if y < box[level.BoxBottom] {
		boxy = 2
	}
	return boxy<<2 + boxx
}

// boxColumns projects box onto the screen. For boxSpan, sx1..sx2 is the
// inclusive column range it covers.
func (rs *State) boxColumns(box level.BBox) (sx1, sx2 int, res boxResult) {
	code := boxRegion(rs.ViewX, rs.ViewY, box)
	if code == 5 {
		return 0, 0, boxVisible
	}
	cc := checkCoord[code]
	if cc == nil {
		return 0, 0, boxVisible
	}

	x1, y1 := box[cc[0]], box[cc[1]]
	x2, y2 := box[cc[2]], box[cc[3]]

	angle1 := fixed.PointToAngle(x1-rs.ViewX, y1-rs.ViewY) - rs.ViewAngle
	angle2 := fixed.PointToAngle(x2-rs.ViewX, y2-rs.ViewY) - rs.ViewAngle

	span := angle1 - angle2
	// Sitting on a line.
	if span >= fixed.Ang180 {
		return 0, 0, boxVisible
	}

	angle1, angle2, ok := rs.clipToView(angle1, angle2, span)
	if !ok {
		return 0, 0, boxCulled
	}

	sx1 = rs.Proj.AngleToX(angle1)
	sx2 = rs.Proj.AngleToX(angle2)
	if sx1 >= sx2 {
		return 0, 0, boxCulled
	}
	return sx1, sx2 - 1, boxSpan
}

// clipToView clamps a view-relative angle span to the field of view. It
// reports false when the span lies entirely outside.
func (rs *State) clipToView(angle1, angle2, span fixed.Angle) (fixed.Angle, fixed.Angle, bool) {
	clip := rs.Proj.ClipAngle

	tspan := angle1 + clip
	if tspan > 2*clip {
		tspan -= 2 * clip
		if tspan >= span {
			return 0, 0, false
		}
		angle1 = clip
	}
	tspan = clip - angle2
	if tspan > 2*clip {
		tspan -= 2 * clip
		if tspan >= span {
			return 0, 0, false
		}
		angle2 = -clip
	}
	return angle1, angle2, true
}

// CheckBBox reports whether any part of box might be visible: it is in
// the field of view and not wholly behind solid walls.
func (rs *State) CheckBBox(box level.BBox) bool {
	sx1, sx2, res := rs.boxColumns(box)
	switch res {
	case boxVisible:
		return true
	case boxCulled:
		return false
	}

	i := 0
	for int(rs.SolidSegs[i].Last) < sx2 {
		i++
	}
	seg := rs.SolidSegs[i]
	return !(sx1 >= int(seg.First) && sx2 <= int(seg.Last))
}
