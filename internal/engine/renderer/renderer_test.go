package renderer

import (
	"bytes"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/bspview/internal/engine/framebuffer"
	"github.com/Faultbox/bspview/internal/logger"
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

func TestCreateRenderState(t *testing.T) {
	rs := newTestState(threeNodeLevel(), DefaultOptions())

	for x := 0; x < testWidth; x++ {
		if rs.CeilingClip[x] != -1 {
			t.Fatalf("ceiling clip[%d] = %d, want -1", x, rs.CeilingClip[x])
		}
		if rs.FloorClip[x] != testHeight {
			t.Fatalf("floor clip[%d] = %d, want %d", x, rs.FloorClip[x], testHeight)
		}
	}
	want := newSolidSegs(testWidth)
	if len(rs.SolidSegs) != 2 || rs.SolidSegs[0] != want[0] || rs.SolidSegs[1] != want[1] {
		t.Errorf("expected two sentinels, got %v", rs.SolidSegs)
	}
	if len(rs.Visplanes) != 0 || len(rs.DrawSegs) != 0 {
		t.Error("expected no visplanes or drawsegs")
	}
	if rs.ViewX != 0 || rs.ViewY != 0 || rs.ViewAngle != 0 {
		t.Errorf("expected camera at origin, got %d,%d angle %d", rs.ViewX, rs.ViewY, rs.ViewAngle)
	}
	if rs.ViewZ != fixed.FromInt(DefaultEyeHeight) {
		t.Errorf("expected eye height %d, got %v", DefaultEyeHeight, rs.ViewZ.Float())
	}
	if rs.FixedColormap != NoFixedColormap || rs.ExtraLight != 0 {
		t.Errorf("expected no light overrides, got colormap %d extra %d", rs.FixedColormap, rs.ExtraLight)
	}
	if rs.MaxVisplanes != DefaultMaxVisplanes {
		t.Errorf("expected %d visplanes, got %d", DefaultMaxVisplanes, rs.MaxVisplanes)
	}
	if rs.IsScreenOccluded() {
		t.Error("fresh state must not be occluded")
	}
}

func TestEndToEndThreeNodes(t *testing.T) {
	opts := DefaultOptions()
	opts.FixedColormap = 0
	rs := newTestState(threeNodeLevel(), opts)
	rs.Frame.Clear(framebuffer.RampColor(framebuffer.SkyRamp, 8))

	rs.RenderBSPNode(rs.Level.Root())
	rs.DrawPlanes()
	stats := rs.Finish()

	if len(rs.SolidSegs) != 3 {
		t.Fatalf("expected one wall range between sentinels, got %v", rs.SolidSegs)
	}
	wall := rs.SolidSegs[1]
	if wall.First < 21 || wall.First > 23 || wall.Last < 41 || wall.Last > 43 {
		t.Errorf("wall range %v, want about [22, 42]", wall)
	}
	if rs.IsScreenOccluded() {
		t.Error("a single wall must not occlude the screen")
	}

	want := FrameStats{
		Nodes:       3,
		Subsectors:  3,
		BBoxChecks:  3,
		BBoxCulls:   1,
		SegsEmitted: 3,
		WallColumns: int(wall.Last-wall.First) + 1,
		Visplanes:   2,
		DrawSegs:    1,
	}
	if stats != want {
		t.Errorf("stats\n got  %+v\n want %+v", stats, want)
	}

	ds := rs.DrawSegs[0]
	if ds.Silhouette != SilBoth || ds.Seg != 0 {
		t.Errorf("unexpected drawseg %+v", ds)
	}
	if ds.Scale1 < fixed.FracUnit/4 || ds.Scale1 > fixed.FracUnit {
		t.Errorf("scale %v out of range for a wall 64 units away", ds.Scale1.Float())
	}

	for x := int(wall.First); x <= int(wall.Last); x++ {
		if rs.CeilingClip[x] != testHeight || rs.FloorClip[x] != -1 {
			t.Fatalf("column %d not closed: ceiling %d floor %d", x, rs.CeilingClip[x], rs.FloorClip[x])
		}
	}
	if rs.CeilingClip[5] != -1 || rs.FloorClip[5] != testHeight {
		t.Error("columns outside the wall must stay open")
	}

	cm := rs.Colormaps[0]
	mid := (int(wall.First) + int(wall.Last)) / 2
	if got, want := rs.Frame.At(mid, testHeight/2), cm[wallColor(1)]; got != want {
		t.Errorf("wall pixel = %d, want %d", got, want)
	}
	if got, want := rs.Frame.At(mid, testHeight-1), cm[flatColor(0)]; got != want {
		t.Errorf("floor pixel = %d, want %d", got, want)
	}
	if got, want := rs.Frame.At(5, testHeight/2), framebuffer.RampColor(framebuffer.SkyRamp, 8); got != want {
		t.Errorf("untouched pixel = %d, want clear color %d", got, want)
	}
}

func TestVisplaneOverflow(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxVisplanes = 1
	rs := newTestState(threeNodeLevel(), opts)
	planes := Planes{}

	first := planes.FindPlane(rs, 0, 0, 160)
	second := planes.FindPlane(rs, fixed.FromInt(8), 0, 160)

	if second != first {
		t.Error("exhausted allocator should reuse the last plane")
	}
	if rs.Stats.PlaneOverflows != 1 {
		t.Errorf("expected 1 overflow, got %d", rs.Stats.PlaneOverflows)
	}
	if len(rs.Visplanes) != 1 {
		t.Errorf("expected 1 plane, got %d", len(rs.Visplanes))
	}
}

func TestFindPlane(t *testing.T) {
	lvl := threeNodeLevel()
	lvl.SkyFlat = 1
	rs := newTestState(lvl, DefaultOptions())
	planes := Planes{}

	a := planes.FindPlane(rs, 0, 0, 160)
	if b := planes.FindPlane(rs, 0, 0, 160); b != a {
		t.Error("matching attributes should share a plane")
	}
	if c := planes.FindPlane(rs, 0, 0, 144); c == a {
		t.Error("different light needs its own plane")
	}

	s1 := planes.FindPlane(rs, fixed.FromInt(128), 1, 160)
	s2 := planes.FindPlane(rs, fixed.FromInt(256), 1, 96)
	if s1 != s2 {
		t.Error("sky planes should merge regardless of height and light")
	}
	if s1.Height != 0 || s1.Light != 0 {
		t.Errorf("sky plane not normalised: height %v light %d", s1.Height.Float(), s1.Light)
	}
	if a.MinX != testWidth || a.MaxX != -1 || a.Top[0] != PlaneUnset {
		t.Errorf("new plane should be empty: %d..%d", a.MinX, a.MaxX)
	}
}

func TestCheckPlane(t *testing.T) {
	rs := newTestState(threeNodeLevel(), DefaultOptions())
	planes := Planes{}

	pl := planes.FindPlane(rs, 0, 0, 160)
	if got := planes.CheckPlane(rs, pl, 10, 20); got != pl || pl.MinX != 10 || pl.MaxX != 20 {
		t.Fatalf("empty plane should take the range, got %d..%d", pl.MinX, pl.MaxX)
	}
	pl.Top[12], pl.Bottom[12] = 30, 40

	// Disjoint range widens the same plane.
	if got := planes.CheckPlane(rs, pl, 25, 30); got != pl || pl.MinX != 10 || pl.MaxX != 30 {
		t.Errorf("disjoint range should widen, got %d..%d", pl.MinX, pl.MaxX)
	}

	// Overlap with a claimed column splits.
	split := planes.CheckPlane(rs, pl, 5, 15)
	if split == pl {
		t.Fatal("overlap with claimed column should allocate a new plane")
	}
	if split.MinX != 5 || split.MaxX != 15 || split.Height != pl.Height || split.Pic != pl.Pic || split.Light != pl.Light {
		t.Errorf("unexpected split plane %+v", split)
	}
}

func TestRendererRoom(t *testing.T) {
	lvl, err := level.Load("../../../pkg/level/testdata/room.yaml")
	if err != nil {
		t.Fatalf("failed to load room: %v", err)
	}

	r, err := New(DefaultConfig(testWidth, testHeight), lvl)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	fb := r.NewFrame()
	cam := Camera{X: fixed.FromInt(64), Y: fixed.FromInt(96), Z: fixed.FromInt(DefaultEyeHeight)}
	stats, err := r.RenderFrame(fb, cam)
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	if stats.BadRefs != 0 {
		t.Errorf("expected no bad references, got %d", stats.BadRefs)
	}
	if stats.Subsectors != 2 {
		t.Errorf("expected both rooms visible through the opening, got %d subsectors", stats.Subsectors)
	}
	if stats.WallColumns < testWidth {
		t.Errorf("expected every column to hit a wall, got %d columns", stats.WallColumns)
	}
	if stats.Visplanes == 0 {
		t.Error("expected floor and ceiling planes")
	}

	// The sky of room B shows through the opening.
	sky := framebuffer.RampColor(framebuffer.SkyRamp, 0)
	if !bytes.Contains(fb.Pix(), []byte{sky}) {
		t.Error("expected sky pixels in the frame")
	}
}

func TestRendererNarrowViews(t *testing.T) {
	lvl, err := level.Load("../../../pkg/level/testdata/room.yaml")
	if err != nil {
		t.Fatalf("failed to load room: %v", err)
	}
	cam := Camera{X: fixed.FromInt(64), Y: fixed.FromInt(96), Z: fixed.FromInt(DefaultEyeHeight)}

	for _, width := range []int{2, 3, 7, 64, 320, 1920} {
		r, err := New(DefaultConfig(width, 8), lvl)
		if err != nil {
			t.Fatalf("width %d: New failed: %v", width, err)
		}
		if clip := r.Projection().ClipAngle; clip == 0 || clip >= fixed.Ang90 {
			t.Errorf("width %d: clip angle %#x outside the view", width, uint32(clip))
		}
		stats, err := r.RenderFrame(r.NewFrame(), cam)
		if err != nil {
			t.Fatalf("width %d: RenderFrame failed: %v", width, err)
		}
		if stats.WallColumns < width {
			t.Errorf("width %d: expected every column walled, got %d", width, stats.WallColumns)
		}
	}
}

func TestProjectionRaisesNarrowWidth(t *testing.T) {
	p := NewProjection(1, 1)
	if p.Width != MinWidth || p.CenterX != 1 {
		t.Errorf("expected width %d centred on 1, got width %d centre %d", MinWidth, p.Width, p.CenterX)
	}
	if p.ClipAngle == 0 || p.ClipAngle >= fixed.Ang90 {
		t.Errorf("clip angle %#x outside the view", uint32(p.ClipAngle))
	}
}

// clipWatch draws through Walls and checks that no wall loosens the
// per-column clip bounds. Values are compared clamped to [-1, height].
type clipWatch struct {
	t       *testing.T
	ceiling []int
	floor   []int
	walls   int
}

func (c *clipWatch) EmitWall(rs *State, seg, subsector int, floor, ceiling *Visplane) {
	c.ceiling = append(c.ceiling[:0], rs.CeilingClip...)
	c.floor = append(c.floor[:0], rs.FloorClip...)
	Walls{}.EmitWall(rs, seg, subsector, floor, ceiling)
	c.walls++

	h := rs.Proj.Height
	for x := range rs.CeilingClip {
		if clampClip(rs.CeilingClip[x], h) < clampClip(c.ceiling[x], h) {
			c.t.Fatalf("seg %d lowered the ceiling clip at column %d: %d -> %d",
				seg, x, c.ceiling[x], rs.CeilingClip[x])
		}
		if clampClip(rs.FloorClip[x], h) > clampClip(c.floor[x], h) {
			c.t.Fatalf("seg %d raised the floor clip at column %d: %d -> %d",
				seg, x, c.floor[x], rs.FloorClip[x])
		}
	}
}

func clampClip(v, height int) int {
	if v < -1 {
		return -1
	}
	if v > height {
		return height
	}
	return v
}

func TestClipBoundsOnlyTighten(t *testing.T) {
	lvl, err := level.Load("../../../pkg/level/testdata/room.yaml")
	if err != nil {
		t.Fatalf("failed to load room: %v", err)
	}
	pal := framebuffer.DefaultPalette()
	proj := NewProjection(testWidth, testHeight)
	cm := framebuffer.BuildColormaps(pal)
	fb := framebuffer.New(testWidth, testHeight)
	watch := &clipWatch{t: t}
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 500; i++ {
		x := fixed.FromInt(1) + fixed.Fixed(rng.Int63n(int64(fixed.FromInt(318))))
		y := fixed.FromInt(1) + fixed.Fixed(rng.Int63n(int64(fixed.FromInt(190))))
		sec := lvl.SubsectorSector(PointInSubsector(lvl, x, y))
		if sec == nil {
			t.Fatalf("no sector under (%v, %v)", x.Float(), y.Float())
		}

		rs := CreateRenderState(fb, lvl, proj, cm, Options{
			MaxVisplanes:  DefaultMaxVisplanes,
			FixedColormap: NoFixedColormap,
			Walls:         watch,
		})
		rs.SetCamera(Camera{
			X:     x,
			Y:     y,
			Z:     sec.FloorHeight + fixed.FromInt(DefaultEyeHeight),
			Angle: fixed.Angle(rng.Uint32()),
		})
		rs.RenderBSPNode(lvl.Root())
	}
	if watch.walls == 0 {
		t.Fatal("no walls were emitted")
	}
}

func TestRendererFrameSizeMismatch(t *testing.T) {
	r, err := New(DefaultConfig(testWidth, testHeight), threeNodeLevel())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = r.RenderFrame(framebuffer.New(10, 10), Camera{})
	if !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(DefaultConfig(testWidth, testHeight), nil); !errors.Is(err, ErrNoLevel) {
		t.Errorf("expected ErrNoLevel, got %v", err)
	}
	for _, size := range [][2]int{{0, testHeight}, {1, 1}, {1, testHeight}, {testWidth, 0}} {
		if _, err := New(DefaultConfig(size[0], size[1]), threeNodeLevel()); !errors.Is(err, ErrViewSize) {
			t.Errorf("%dx%d: expected ErrViewSize, got %v", size[0], size[1], err)
		}
	}
	cfg := DefaultConfig(testWidth, testHeight)
	cfg.FixedColormap = 99
	if _, err := New(cfg, threeNodeLevel()); err == nil {
		t.Error("expected error for out of range colormap")
	}
}

func TestRendererLogsBadRefsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	defer logger.Set(nil)

	lvl := threeNodeLevel()
	lvl.Nodes[0].Children[1] = level.SubsectorChild(99)
	lvl.Segs[2].Linedef = 17

	r, err := New(DefaultConfig(testWidth, testHeight), lvl)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	stats, err := r.RenderFrame(r.NewFrame(), Camera{Z: fixed.FromInt(DefaultEyeHeight)})
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if stats.BadRefs != 2 {
		t.Errorf("expected 2 bad references, got %d", stats.BadRefs)
	}

	entries := logs.FilterMessage("skipped bad geometry references").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning per frame, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["count"]; got != int64(2) {
		t.Errorf("expected count 2 in log, got %v", got)
	}
	if got := entries[0].LoggerName; got != "render" {
		t.Errorf("expected render logger, got %q", got)
	}
}

func TestRendererConcurrentFrames(t *testing.T) {
	r, err := New(DefaultConfig(testWidth, testHeight), threeNodeLevel())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	cam := Camera{Z: fixed.FromInt(DefaultEyeHeight)}

	ref := r.NewFrame()
	if _, err := r.RenderFrame(ref, cam); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	const workers = 4
	frames := make([]*framebuffer.Framebuffer, workers)
	var wg sync.WaitGroup
	for i := range frames {
		frames[i] = r.NewFrame()
		wg.Add(1)
		go func(fb *framebuffer.Framebuffer) {
			defer wg.Done()
			_, _ = r.RenderFrame(fb, cam)
		}(frames[i])
	}
	wg.Wait()

	for i, fb := range frames {
		if !bytes.Equal(fb.Pix(), ref.Pix()) {
			t.Errorf("frame %d differs from the reference", i)
		}
	}
}

func TestFrameStatsMarshal(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	s := FrameStats{Nodes: 3, BadRefs: 1}
	if err := s.MarshalLogObject(enc); err != nil {
		t.Fatal(err)
	}
	if enc.Fields["nodes"] != 3 || enc.Fields["bad_refs"] != 1 {
		t.Errorf("unexpected fields %v", enc.Fields)
	}
	if _, ok := enc.Fields["plane_overflows"]; ok {
		t.Error("zero overflows should be omitted")
	}

	var total FrameStats
	total.Add(s)
	total.Add(s)
	if total.Nodes != 6 || total.BadRefs != 2 {
		t.Errorf("unexpected sum %+v", total)
	}
}
