package renderer

import (
	"fmt"

	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

const (
	testWidth  = 64
	testHeight = 48
)

func vtx(x, y int) level.Vertex {
	return level.Vertex{X: fixed.FromInt(x), Y: fixed.FromInt(y)}
}

func box(top, bottom, left, right int) level.BBox {
	return level.BBox{fixed.FromInt(top), fixed.FromInt(bottom), fixed.FromInt(left), fixed.FromInt(right)}
}

// vnode builds a vertical partition at x pointing north, so the east side
// is the front.
func vnode(x int, right, left level.BBox, front, back level.NodeRef) level.Node {
	return level.Node{
		X:        fixed.FromInt(x),
		Y:        fixed.FromInt(-22),
		Dy:       fixed.FromInt(44),
		BBox:     [2]level.BBox{right, left},
		Children: [2]level.NodeRef{front, back},
	}
}

// threeNodeLevel is a strip along the x axis split at x=16 (root), x=-32
// and x=48. Subsector 0, east of x=48, holds a one-sided wall at x=64
// facing west. The other subsectors hold a wall at x=-64.
//
//	-64   SS3   -32   SS2   16   SS1   48   SS0   64
func threeNodeLevel() *level.Level {
	wallSeg := level.Seg{V1: 0, V2: 1, Angle: fixed.Ang270, Linedef: 0}
	backSeg := level.Seg{V1: 2, V2: 3, Angle: fixed.Ang90, Linedef: 1}

	return &level.Level{
		Name:     "three nodes",
		Vertices: []level.Vertex{vtx(64, 22), vtx(64, -22), vtx(-64, -22), vtx(-64, 22)},
		Sectors: []level.Sector{{
			CeilingHeight: fixed.FromInt(128),
			FloorPic:      0,
			CeilingPic:    1,
			LightLevel:    160,
		}},
		Sidedefs: []level.Sidedef{{MidTexture: 1}},
		Linedefs: []level.Linedef{
			{V1: 0, V2: 1, Dy: fixed.FromInt(-44), Flags: level.LineBlocking, Sides: [2]int{0, level.NoSide}},
			{V1: 2, V2: 3, Dy: fixed.FromInt(44), Flags: level.LineBlocking, Sides: [2]int{0, level.NoSide}},
		},
		Segs: []level.Seg{wallSeg, backSeg, backSeg, backSeg},
		Subsectors: []level.Subsector{
			{FirstSeg: 0, NumSegs: 1},
			{FirstSeg: 1, NumSegs: 1},
			{FirstSeg: 2, NumSegs: 1},
			{FirstSeg: 3, NumSegs: 1},
		},
		Nodes: []level.Node{
			vnode(48, box(22, -22, 48, 64), box(22, -22, 16, 48), level.SubsectorChild(0), level.SubsectorChild(1)),
			vnode(-32, box(22, -22, -32, 16), box(22, -22, -64, -32), level.SubsectorChild(2), level.SubsectorChild(3)),
			vnode(16, box(22, -22, 16, 64), box(22, -22, -64, 16), level.NodeChild(0), level.NodeChild(1)),
		},
		Textures: []string{"-", "STARTAN3"},
		Flats:    []string{"FLOOR4_8", "CEIL3_5"},
		SkyFlat:  -1,
	}
}

// singleLeafLevel has no nodes: the root is subsector 0.
func singleLeafLevel() *level.Level {
	lvl := threeNodeLevel()
	lvl.Nodes = nil
	lvl.Subsectors = lvl.Subsectors[:1]
	return lvl
}

func newTestState(lvl *level.Level, opts Options) *State {
	pal := framebuffer.DefaultPalette()
	return CreateRenderState(
		framebuffer.New(testWidth, testHeight),
		lvl,
		NewProjection(testWidth, testHeight),
		framebuffer.BuildColormaps(pal),
		opts,
	)
}

// recorder logs traversal events in order.
type recorder struct {
	events []string
}

func (r *recorder) EnterNode(node int) {
	r.events = append(r.events, fmt.Sprintf("node %d", node))
}

func (r *recorder) EnterSubsector(ss int) {
	r.events = append(r.events, fmt.Sprintf("subsector %d", ss))
}

func (r *recorder) CheckBBox(node, side int, visible bool) {
	r.events = append(r.events, fmt.Sprintf("bbox %d/%d %t", node, side, visible))
}

// countingWalls records emitted segs without drawing.
type countingWalls struct {
	segs []int
}

func (c *countingWalls) EmitWall(rs *State, seg, subsector int, floor, ceiling *Visplane) {
	c.segs = append(c.segs, seg)
}
