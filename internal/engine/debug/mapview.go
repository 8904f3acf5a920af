package debug

import (
	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

// Overlay colors.
var (
	mapWallColor    = framebuffer.RampColor(0, 9)
	mapVisibleColor = framebuffer.RampColor(8, 0)
	mapCulledColor  = framebuffer.RampColor(6, 2)
	mapCameraColor  = framebuffer.RampColor(0, 0)
)

// MapRenderer draws a top-down view of a level with the last traversal
// highlighted: walls of visited subsectors bright, culled node boxes
// outlined.
type MapRenderer struct {
	lvl    *level.Level
	margin int

	minX, minY fixed.Fixed
	maxX, maxY fixed.Fixed
}

// NewMapRenderer creates a map renderer for lvl.
func NewMapRenderer(lvl *level.Level, margin int) *MapRenderer {
	if lvl == nil {
		return nil
	}
	m := &MapRenderer{lvl: lvl, margin: margin}
	for i, v := range lvl.Vertices {
		if i == 0 || v.X < m.minX {
			m.minX = v.X
		}
		if i == 0 || v.X > m.maxX {
			m.maxX = v.X
		}
		if i == 0 || v.Y < m.minY {
			m.minY = v.Y
		}
		if i == 0 || v.Y > m.maxY {
			m.maxY = v.Y
		}
	}
	return m
}

// project maps a map point to frame coordinates, keeping the aspect ratio
// and flipping y so north is up.
func (m *MapRenderer) project(fb *framebuffer.Framebuffer, v level.Vertex) (int, int) {
	w, h := fb.Size()
	spanX := (m.maxX - m.minX).Float()
	spanY := (m.maxY - m.minY).Float()
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	availW := float64(w - 1 - 2*m.margin)
	availH := float64(h - 1 - 2*m.margin)
	scale := min(availW/spanX, availH/spanY)

	x := float64(m.margin) + (v.X-m.minX).Float()*scale
	y := float64(h-1-m.margin) - (v.Y-m.minY).Float()*scale
	return int(x + 0.5), int(y + 0.5)
}

// Draw paints the map into fb. trace may be nil.
func (m *MapRenderer) Draw(fb *framebuffer.Framebuffer, cam level.Vertex, angle fixed.Angle, trace *Trace) {
	if m == nil {
		return
	}
	lvl := m.lvl

	for _, line := range lvl.Linedefs {
		v1, v2 := lvl.Vertex(line.V1), lvl.Vertex(line.V2)
		if v1 == nil || v2 == nil {
			continue
		}
		m.line(fb, *v1, *v2, mapWallColor)
	}

	if trace == nil {
		return
	}

	for _, c := range trace.Culled {
		node := lvl.Node(c.Node)
		if node == nil || c.Side < 0 || c.Side > 1 {
			continue
		}
		for _, e := range BBoxEdges(node.BBox[c.Side], DefaultBBoxPadding) {
			m.line(fb, e[0], e[1], mapCulledColor)
		}
	}

	for ss := range trace.VisitedSubsectors() {
		sub := lvl.Subsector(ss)
		if sub == nil {
			continue
		}
		for i := 0; i < sub.NumSegs; i++ {
			seg := lvl.Seg(sub.FirstSeg + i)
			if seg == nil {
				continue
			}
			v1, v2 := lvl.Vertex(seg.V1), lvl.Vertex(seg.V2)
			if v1 == nil || v2 == nil {
				continue
			}
			m.line(fb, *v1, *v2, mapVisibleColor)
		}
	}

	// Camera with a short heading tick.
	cx, cy := m.project(fb, cam)
	fb.Set(cx, cy, mapCameraColor)
	tip := level.Vertex{
		X: cam.X + fixed.Mul(angle.Cos(), 16*fixed.FracUnit),
		Y: cam.Y + fixed.Mul(angle.Sin(), 16*fixed.FracUnit),
	}
	m.line(fb, cam, tip, mapCameraColor)
}

func (m *MapRenderer) line(fb *framebuffer.Framebuffer, a, b level.Vertex, c byte) {
	x0, y0 := m.project(fb, a)
	x1, y1 := m.project(fb, b)
	DrawLine(fb, x0, y0, x1, y1, c)
}

// DrawLine rasterizes a line with Bresenham's algorithm. Pixels outside
// the frame are dropped.
func DrawLine(fb *framebuffer.Framebuffer, x0, y0, x1, y1 int, c byte) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		fb.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
