package renderer

import (
	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

// DefaultEyeHeight is the camera height above the floor in map units.
const DefaultEyeHeight = 41

// DefaultMaxVisplanes matches the vanilla plane budget.
const DefaultMaxVisplanes = 128

// NoFixedColormap disables the colormap override.
const NoFixedColormap = -1

// Camera is a view pose in map space.
type Camera struct {
	X, Y  fixed.Fixed
	Z     fixed.Fixed // eye height in world space
	Angle fixed.Angle
}

// WallEmitter receives every seg of a visible subsector, front to back.
// floor and ceiling are the planes current for the subsector; either may
// be nil when the surface faces away from the camera.
type WallEmitter interface {
	EmitWall(rs *State, seg int, subsector int, floor, ceiling *Visplane)
}

// PlaneAllocator hands out visplanes for a frame.
type PlaneAllocator interface {
	FindPlane(rs *State, height fixed.Fixed, pic, light int) *Visplane
	CheckPlane(rs *State, pl *Visplane, start, stop int) *Visplane
}

// TraversalTracer observes the BSP walk. Any method may be a no-op.
type TraversalTracer interface {
	EnterNode(node int)
	EnterSubsector(subsector int)
	CheckBBox(node, side int, visible bool)
}

// Options configures a render state.
type Options struct {
	MaxVisplanes  int
	ExtraLight    int
	FixedColormap int

	Walls  WallEmitter
	Planes PlaneAllocator
	Tracer TraversalTracer
}

// DefaultOptions returns options with the built-in collaborators.
func DefaultOptions() Options {
	return Options{
		MaxVisplanes:  DefaultMaxVisplanes,
		FixedColormap: NoFixedColormap,
	}
}

// State is everything one frame pass reads and writes. It is created by
// CreateRenderState and owned by a single goroutine.
type State struct {
	Frame     *framebuffer.Framebuffer
	Level     *level.Level
	Proj      *Projection
	Colormaps *framebuffer.Colormaps

	ViewX, ViewY, ViewZ fixed.Fixed
	ViewAngle           fixed.Angle
	ViewSin, ViewCos    fixed.Fixed

	ExtraLight    int
	FixedColormap int

	// CeilingClip holds, per column, the lowest row already covered from
	// the top; FloorClip the highest row covered from the bottom.
	CeilingClip []int
	FloorClip   []int

	// SolidSegs lists fully occluded column ranges, sorted and bracketed
	// by two sentinels.
	SolidSegs []ClipRange

	Visplanes    []*Visplane
	MaxVisplanes int
	DrawSegs     []DrawSeg

	// Sector and planes of the subsector being processed.
	FrontSector  *level.Sector
	FloorPlane   *Visplane
	CeilingPlane *Visplane

	Walls  WallEmitter
	Planes PlaneAllocator
	Tracer TraversalTracer

	Stats FrameStats

	maxDepth int
}

// CreateRenderState returns a fresh frame state: open clip arrays, the two
// sentinel solid segs, no planes or drawsegs and the camera at the origin
// at eye height.
func CreateRenderState(fb *framebuffer.Framebuffer, lvl *level.Level, proj *Projection, cm *framebuffer.Colormaps, opts Options) *State {
	w, h := proj.Width, proj.Height

	rs := &State{
		Frame:         fb,
		Level:         lvl,
		Proj:          proj,
		Colormaps:     cm,
		ViewZ:         fixed.FromInt(DefaultEyeHeight),
		ExtraLight:    opts.ExtraLight,
		FixedColormap: opts.FixedColormap,
		CeilingClip:   make([]int, w),
		FloorClip:     make([]int, w),
		SolidSegs:     newSolidSegs(w),
		MaxVisplanes:  opts.MaxVisplanes,
		Walls:         opts.Walls,
		Planes:        opts.Planes,
		Tracer:        opts.Tracer,
	}
	for x := range rs.CeilingClip {
		rs.CeilingClip[x] = -1
		rs.FloorClip[x] = h
	}
	rs.ViewSin = rs.ViewAngle.Sin()
	rs.ViewCos = rs.ViewAngle.Cos()

	if rs.MaxVisplanes <= 0 {
		rs.MaxVisplanes = DefaultMaxVisplanes
	}
	if rs.Walls == nil {
		rs.Walls = Walls{}
	}
	if rs.Planes == nil {
		rs.Planes = Planes{}
	}
	if rs.Tracer == nil {
		rs.Tracer = nopTracer{}
	}
	if lvl != nil {
		rs.maxDepth = len(lvl.Nodes) + 1
	}
	return rs
}

// SetCamera moves the view to cam.
func (rs *State) SetCamera(cam Camera) {
	rs.ViewX = cam.X
	rs.ViewY = cam.Y
	rs.ViewZ = cam.Z
	rs.ViewAngle = cam.Angle
	rs.ViewSin = cam.Angle.Sin()
	rs.ViewCos = cam.Angle.Cos()
}

// skyFlat returns the level's sky flat id, or -1.
func (rs *State) skyFlat() int {
	if rs.Level == nil {
		return -1
	}
	return rs.Level.SkyFlat
}

type nopTracer struct{}

func (nopTracer) EnterNode(int)            {}
func (nopTracer) EnterSubsector(int)       {}
func (nopTracer) CheckBBox(int, int, bool) {}
