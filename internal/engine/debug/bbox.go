package debug

import (
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

// DefaultBBoxPadding keeps culled box outlines off the walls they surround.
const DefaultBBoxPadding = 2 * fixed.FracUnit

// Edge is a map-space line segment.
type Edge [2]level.Vertex

// BBoxEdges returns the four edges of a node bounding box, grown by padding
// on every side: bottom, right, top, left.
func BBoxEdges(box level.BBox, padding fixed.Fixed) [4]Edge {
	minX := box[level.BoxLeft]
	maxX := box[level.BoxRight]
	minY := box[level.BoxBottom]
	maxY := box[level.BoxTop]

	// Handle inverted boxes
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding

	bl := level.Vertex{X: minX, Y: minY}
	br := level.Vertex{X: maxX, Y: minY}
	tr := level.Vertex{X: maxX, Y: maxY}
	tl := level.Vertex{X: minX, Y: maxY}
	return [4]Edge{{bl, br}, {br, tr}, {tr, tl}, {tl, bl}}
}
