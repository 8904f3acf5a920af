// Package level holds the static, read-only geometry of a BSP level:
// vertices, linedefs, sidedefs, sectors, segs, subsectors and nodes.
//
// Lookups never panic. An out-of-range index yields nil so callers can
// skip malformed references instead of aborting a frame.
package level

import "github.com/Faultbox/bspview/pkg/fixed"

// SubsectorFlag marks a node child reference as a subsector index.
// This is the 32-bit "deep" layout; the low 31 bits hold the index.
const SubsectorFlag uint32 = 0x80000000

// NodeRef references either a node or, with SubsectorFlag set, a subsector.
type NodeRef uint32

// NodeChild returns a reference to node i.
func NodeChild(i int) NodeRef {
	return NodeRef(uint32(i) &^ SubsectorFlag)
}

// SubsectorChild returns a reference to subsector i.
func SubsectorChild(i int) NodeRef {
	return NodeRef(uint32(i) | SubsectorFlag)
}

// IsSubsector reports whether r references a subsector.
func (r NodeRef) IsSubsector() bool {
	return uint32(r)&SubsectorFlag != 0
}

// Index returns the node or subsector index without the flag bit.
func (r NodeRef) Index() int {
	return int(uint32(r) &^ SubsectorFlag)
}

// Bounding box coordinate slots.
const (
	BoxTop = iota
	BoxBottom
	BoxLeft
	BoxRight
)

// BBox is an axis-aligned box indexed by BoxTop, BoxBottom, BoxLeft, BoxRight.
type BBox [4]fixed.Fixed

// Contains reports whether (x, y) lies inside b, edges included.
func (b BBox) Contains(x, y fixed.Fixed) bool {
	return x >= b[BoxLeft] && x <= b[BoxRight] && y >= b[BoxBottom] && y <= b[BoxTop]
}

// Linedef flags.
const (
	LineBlocking      uint16 = 1 << 0
	LineBlockMonsters uint16 = 1 << 1
	LineTwoSided      uint16 = 1 << 2
	LineDontPegTop    uint16 = 1 << 3
	LineDontPegBottom uint16 = 1 << 4
	LineSecret        uint16 = 1 << 5
	LineSoundBlock    uint16 = 1 << 6
	LineDontDraw      uint16 = 1 << 7
	LineMapped        uint16 = 1 << 8
)

// NoSide marks a missing sidedef on a linedef.
const NoSide = -1

// NoTexture is the texture id of "-".
const NoTexture = 0

// Vertex is a map point.
type Vertex struct {
	X, Y fixed.Fixed
}

// Sector is a region with one floor and one ceiling.
type Sector struct {
	FloorHeight   fixed.Fixed
	CeilingHeight fixed.Fixed
	FloorPic      int // index into Level.Flats
	CeilingPic    int // index into Level.Flats
	LightLevel    int // 0-255
	Special       int
	Tag           int
}

// Sidedef describes one face of a linedef.
type Sidedef struct {
	TextureOffset fixed.Fixed
	RowOffset     fixed.Fixed
	TopTexture    int // index into Level.Textures, NoTexture for none
	BottomTexture int
	MidTexture    int
	Sector        int
}

// Linedef is a wall edge between two vertices.
type Linedef struct {
	V1, V2  int
	Dx, Dy  fixed.Fixed
	Flags   uint16
	Special int
	Tag     int
	Sides   [2]int // front, back; NoSide when absent
}

// TwoSided reports whether the line has the two-sided flag.
func (l *Linedef) TwoSided() bool {
	return l.Flags&LineTwoSided != 0
}

// Seg is a directed fragment of a linedef belonging to one subsector.
type Seg struct {
	V1, V2  int
	Angle   fixed.Angle
	Linedef int
	Side    int // 0 follows the linedef, 1 runs against it
	Offset  fixed.Fixed
}

// Subsector is a convex leaf: a contiguous run of segs.
type Subsector struct {
	NumSegs  int
	FirstSeg int
}

// Node is a BSP partition. Children[0] and BBox[0] are the right (front)
// side of the partition line; index 1 is the left (back) side.
type Node struct {
	X, Y     fixed.Fixed
	Dx, Dy   fixed.Fixed
	BBox     [2]BBox
	Children [2]NodeRef
}

// Level is the immutable geometry of one map.
type Level struct {
	Name       string
	Vertices   []Vertex
	Linedefs   []Linedef
	Sidedefs   []Sidedef
	Sectors    []Sector
	Segs       []Seg
	Subsectors []Subsector
	Nodes      []Node

	// Textures and Flats name the ids used by sidedefs and sectors.
	// Textures[0] is always "-".
	Textures []string
	Flats    []string
	SkyFlat  int // flat id of the sky, -1 when the level has none
}

// Root returns the reference the traversal starts from. A level without
// nodes is a single subsector.
func (l *Level) Root() NodeRef {
	if len(l.Nodes) == 0 {
		return SubsectorChild(0)
	}
	return NodeChild(len(l.Nodes) - 1)
}

// Node returns node i or nil.
func (l *Level) Node(i int) *Node {
	if i < 0 || i >= len(l.Nodes) {
		return nil
	}
	return &l.Nodes[i]
}

// Subsector returns subsector i or nil.
func (l *Level) Subsector(i int) *Subsector {
	if i < 0 || i >= len(l.Subsectors) {
		return nil
	}
	return &l.Subsectors[i]
}

// Seg returns seg i or nil.
func (l *Level) Seg(i int) *Seg {
	if i < 0 || i >= len(l.Segs) {
		return nil
	}
	return &l.Segs[i]
}

// Vertex returns vertex i or nil.
func (l *Level) Vertex(i int) *Vertex {
	if i < 0 || i >= len(l.Vertices) {
		return nil
	}
	return &l.Vertices[i]
}

// Linedef returns linedef i or nil.
func (l *Level) Linedef(i int) *Linedef {
	if i < 0 || i >= len(l.Linedefs) {
		return nil
	}
	return &l.Linedefs[i]
}

// Sidedef returns sidedef i or nil.
func (l *Level) Sidedef(i int) *Sidedef {
	if i < 0 || i >= len(l.Sidedefs) {
		return nil
	}
	return &l.Sidedefs[i]
}

// Sector returns sector i or nil.
func (l *Level) Sector(i int) *Sector {
	if i < 0 || i >= len(l.Sectors) {
		return nil
	}
	return &l.Sectors[i]
}

// SegSidedef returns the sidedef the seg is drawn with, or nil.
func (l *Level) SegSidedef(seg *Seg) *Sidedef {
	line := l.Linedef(seg.Linedef)
	if line == nil || seg.Side < 0 || seg.Side > 1 {
		return nil
	}
	return l.Sidedef(line.Sides[seg.Side])
}

// FrontSector returns the sector on the seg's facing side, or nil.
func (l *Level) FrontSector(seg *Seg) *Sector {
	side := l.SegSidedef(seg)
	if side == nil {
		return nil
	}
	return l.Sector(side.Sector)
}

// BackSector returns the sector behind a two-sided seg, or nil for a
// one-sided line or a broken reference.
func (l *Level) BackSector(seg *Seg) *Sector {
	line := l.Linedef(seg.Linedef)
	if line == nil || !line.TwoSided() || seg.Side < 0 || seg.Side > 1 {
		return nil
	}
	side := l.Sidedef(line.Sides[seg.Side^1])
	if side == nil {
		return nil
	}
	return l.Sector(side.Sector)
}

// SubsectorSector resolves the owning sector of subsector i through its
// first seg. It returns nil when any link in the chain is missing.
func (l *Level) SubsectorSector(i int) *Sector {
	sub := l.Subsector(i)
	if sub == nil || sub.NumSegs <= 0 {
		return nil
	}
	seg := l.Seg(sub.FirstSeg)
	if seg == nil {
		return nil
	}
	return l.FrontSector(seg)
}

// TextureName returns the name for a texture id, "-" when unknown.
func (l *Level) TextureName(id int) string {
	if id <= 0 || id >= len(l.Textures) {
		return "-"
	}
	return l.Textures[id]
}

// FlatName returns the name for a flat id, "" when unknown.
func (l *Level) FlatName(id int) string {
	if id < 0 || id >= len(l.Flats) {
		return ""
	}
	return l.Flats[id]
}

// FlatID returns the id of the named flat, -1 when the level has none.
func (l *Level) FlatID(name string) int {
	for id, n := range l.Flats {
		if n == name {
			return id
		}
	}
	return -1
}
