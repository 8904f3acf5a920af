package level

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/bspview/pkg/fixed"
)

// Level description errors.
var (
	ErrEmptyLevel   = errors.New("level has no subsectors")
	ErrInvalidChild = errors.New("node child must name exactly one of node or subsector")
	ErrInvalidBox   = errors.New("bounding box needs 4 values: top, bottom, left, right")
)

// DefaultSkyFlat is the flat name that marks an open sky ceiling.
const DefaultSkyFlat = "F_SKY1"

// Document is the YAML level description. Coordinates and heights are
// whole map units.
type Document struct {
	Name       string         `yaml:"name"`
	Sky        string         `yaml:"sky"`
	Vertices   [][2]int       `yaml:"vertices"`
	Sectors    []SectorDoc    `yaml:"sectors"`
	Sidedefs   []SidedefDoc   `yaml:"sidedefs"`
	Linedefs   []LinedefDoc   `yaml:"linedefs"`
	Segs       []SegDoc       `yaml:"segs"`
	Subsectors []SubsectorDoc `yaml:"subsectors"`
	Nodes      []NodeDoc      `yaml:"nodes"`
}

// SectorDoc describes a sector.
type SectorDoc struct {
	Floor       int    `yaml:"floor"`
	Ceiling     int    `yaml:"ceiling"`
	FloorFlat   string `yaml:"floor_flat"`
	CeilingFlat string `yaml:"ceiling_flat"`
	Light       int    `yaml:"light"`
	Special     int    `yaml:"special"`
	Tag         int    `yaml:"tag"`
}

// SidedefDoc describes a sidedef. Empty texture names mean "-".
type SidedefDoc struct {
	Sector  int    `yaml:"sector"`
	Upper   string `yaml:"upper"`
	Lower   string `yaml:"lower"`
	Middle  string `yaml:"middle"`
	XOffset int    `yaml:"x_offset"`
	YOffset int    `yaml:"y_offset"`
}

// LinedefDoc describes a linedef. A missing back side is one-sided.
type LinedefDoc struct {
	V1      int    `yaml:"v1"`
	V2      int    `yaml:"v2"`
	Flags   uint16 `yaml:"flags"`
	Special int    `yaml:"special"`
	Tag     int    `yaml:"tag"`
	Front   *int   `yaml:"front"`
	Back    *int   `yaml:"back"`
}

// SegDoc describes a seg. The angle is derived from its vertices.
type SegDoc struct {
	V1      int `yaml:"v1"`
	V2      int `yaml:"v2"`
	Linedef int `yaml:"linedef"`
	Side    int `yaml:"side"`
	Offset  int `yaml:"offset"`
}

// SubsectorDoc describes a subsector.
type SubsectorDoc struct {
	FirstSeg int `yaml:"first_seg"`
	NumSegs  int `yaml:"num_segs"`
}

// ChildDoc names one child of a node.
type ChildDoc struct {
	Node      *int `yaml:"node"`
	Subsector *int `yaml:"subsector"`
}

// NodeDoc describes a BSP node. Boxes are [top, bottom, left, right].
type NodeDoc struct {
	X        int      `yaml:"x"`
	Y        int      `yaml:"y"`
	Dx       int      `yaml:"dx"`
	Dy       int      `yaml:"dy"`
	RightBox []int    `yaml:"right_box"`
	LeftBox  []int    `yaml:"left_box"`
	Right    ChildDoc `yaml:"right"`
	Left     ChildDoc `yaml:"left"`
}

// Option adjusts how a description is turned into a Level.
type Option func(*buildOptions)

type buildOptions struct {
	skyFallback string
}

// WithSkyFallback names the sky flat to use when the flat the description
// names (or DefaultSkyFlat) is not used by any sector.
func WithSkyFallback(name string) Option {
	return func(o *buildOptions) { o.skyFallback = name }
}

// Load reads and parses a YAML level description from path.
func Load(path string, opts ...Option) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lvl, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return lvl, nil
}

// Parse builds a Level from YAML. It does not check cross references;
// call Validate for that.
func Parse(data []byte, opts ...Option) (*Level, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Build(opts...)
}

// Build converts the description into fixed-point geometry.
func (d *Document) Build(opts ...Option) (*Level, error) {
	if len(d.Subsectors) == 0 {
		return nil, ErrEmptyLevel
	}

	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	sky := d.Sky
	if sky == "" {
		sky = DefaultSkyFlat
	}

	lvl := &Level{
		Name:     d.Name,
		Textures: []string{"-"},
		SkyFlat:  -1,
	}
	textures := map[string]int{"-": NoTexture, "": NoTexture}
	flats := map[string]int{}

	textureID := func(name string) int {
		if id, ok := textures[name]; ok {
			return id
		}
		id := len(lvl.Textures)
		lvl.Textures = append(lvl.Textures, name)
		textures[name] = id
		return id
	}
	flatID := func(name string) int {
		if id, ok := flats[name]; ok {
			return id
		}
		id := len(lvl.Flats)
		lvl.Flats = append(lvl.Flats, name)
		flats[name] = id
		if name == sky {
			lvl.SkyFlat = id
		}
		return id
	}

	lvl.Vertices = make([]Vertex, len(d.Vertices))
	for i, v := range d.Vertices {
		lvl.Vertices[i] = Vertex{X: fixed.FromInt(v[0]), Y: fixed.FromInt(v[1])}
	}

	lvl.Sectors = make([]Sector, len(d.Sectors))
	for i, s := range d.Sectors {
		lvl.Sectors[i] = Sector{
			FloorHeight:   fixed.FromInt(s.Floor),
			CeilingHeight: fixed.FromInt(s.Ceiling),
			FloorPic:      flatID(s.FloorFlat),
			CeilingPic:    flatID(s.CeilingFlat),
			LightLevel:    s.Light,
			Special:       s.Special,
			Tag:           s.Tag,
		}
	}
	if lvl.SkyFlat < 0 && o.skyFallback != "" {
		lvl.SkyFlat = lvl.FlatID(o.skyFallback)
	}

	lvl.Sidedefs = make([]Sidedef, len(d.Sidedefs))
	for i, s := range d.Sidedefs {
		lvl.Sidedefs[i] = Sidedef{
			TextureOffset: fixed.FromInt(s.XOffset),
			RowOffset:     fixed.FromInt(s.YOffset),
			TopTexture:    textureID(s.Upper),
			BottomTexture: textureID(s.Lower),
			MidTexture:    textureID(s.Middle),
			Sector:        s.Sector,
		}
	}

	lvl.Linedefs = make([]Linedef, len(d.Linedefs))
	for i, l := range d.Linedefs {
		line := Linedef{
			V1:      l.V1,
			V2:      l.V2,
			Flags:   l.Flags,
			Special: l.Special,
			Tag:     l.Tag,
			Sides:   [2]int{NoSide, NoSide},
		}
		if l.Front != nil {
			line.Sides[0] = *l.Front
		}
		if l.Back != nil {
			line.Sides[1] = *l.Back
		}
		if v1, v2 := lvl.Vertex(l.V1), lvl.Vertex(l.V2); v1 != nil && v2 != nil {
			line.Dx = v2.X - v1.X
			line.Dy = v2.Y - v1.Y
		}
		lvl.Linedefs[i] = line
	}

	lvl.Segs = make([]Seg, len(d.Segs))
	for i, s := range d.Segs {
		seg := Seg{
			V1:      s.V1,
			V2:      s.V2,
			Linedef: s.Linedef,
			Side:    s.Side,
			Offset:  fixed.FromInt(s.Offset),
		}
		if v1, v2 := lvl.Vertex(s.V1), lvl.Vertex(s.V2); v1 != nil && v2 != nil {
			seg.Angle = fixed.PointToAngle(v2.X-v1.X, v2.Y-v1.Y)
		}
		lvl.Segs[i] = seg
	}

	lvl.Subsectors = make([]Subsector, len(d.Subsectors))
	for i, s := range d.Subsectors {
		lvl.Subsectors[i] = Subsector{FirstSeg: s.FirstSeg, NumSegs: s.NumSegs}
	}

	lvl.Nodes = make([]Node, len(d.Nodes))
	for i, n := range d.Nodes {
		node := Node{
			X:  fixed.FromInt(n.X),
			Y:  fixed.FromInt(n.Y),
			Dx: fixed.FromInt(n.Dx),
			Dy: fixed.FromInt(n.Dy),
		}
		var err error
		if node.BBox[0], err = buildBox(n.RightBox); err != nil {
			return nil, fmt.Errorf("node %d right box: %w", i, err)
		}
		if node.BBox[1], err = buildBox(n.LeftBox); err != nil {
			return nil, fmt.Errorf("node %d left box: %w", i, err)
		}
		if node.Children[0], err = n.Right.ref(); err != nil {
			return nil, fmt.Errorf("node %d right child: %w", i, err)
		}
		if node.Children[1], err = n.Left.ref(); err != nil {
			return nil, fmt.Errorf("node %d left child: %w", i, err)
		}
		lvl.Nodes[i] = node
	}

	return lvl, nil
}

func buildBox(v []int) (BBox, error) {
	if len(v) != 4 {
		return BBox{}, ErrInvalidBox
	}
	return BBox{
		BoxTop:    fixed.FromInt(v[BoxTop]),
		BoxBottom: fixed.FromInt(v[BoxBottom]),
		BoxLeft:   fixed.FromInt(v[BoxLeft]),
		BoxRight:  fixed.FromInt(v[BoxRight]),
	}, nil
}

func (c ChildDoc) ref() (NodeRef, error) {
	switch {
	case c.Node != nil && c.Subsector == nil:
		return NodeChild(*c.Node), nil
	case c.Subsector != nil && c.Node == nil:
		return SubsectorChild(*c.Subsector), nil
	}
	return 0, ErrInvalidChild
}
