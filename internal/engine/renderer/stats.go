package renderer

import "go.uber.org/zap/zapcore"

// FrameStats counts the work done by one frame pass.
type FrameStats struct {
	Nodes          int
	Subsectors     int
	BBoxChecks     int
	BBoxCulls      int
	SegsEmitted    int
	WallColumns    int
	Visplanes      int
	DrawSegs       int
	BadRefs        int
	PlaneOverflows int
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s FrameStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("nodes", s.Nodes)
	enc.AddInt("subsectors", s.Subsectors)
	enc.AddInt("bbox_checks", s.BBoxChecks)
	enc.AddInt("bbox_culls", s.BBoxCulls)
	enc.AddInt("segs", s.SegsEmitted)
	enc.AddInt("wall_columns", s.WallColumns)
	enc.AddInt("visplanes", s.Visplanes)
	enc.AddInt("drawsegs", s.DrawSegs)
	if s.BadRefs > 0 {
		enc.AddInt("bad_refs", s.BadRefs)
	}
	if s.PlaneOverflows > 0 {
		enc.AddInt("plane_overflows", s.PlaneOverflows)
	}
	return nil
}

// Add accumulates o into s.
func (s *FrameStats) Add(o FrameStats) {
	s.Nodes += o.Nodes
	s.Subsectors += o.Subsectors
	s.BBoxChecks += o.BBoxChecks
	s.BBoxCulls += o.BBoxCulls
	s.SegsEmitted += o.SegsEmitted
	s.WallColumns += o.WallColumns
	s.Visplanes += o.Visplanes
	s.DrawSegs += o.DrawSegs
	s.BadRefs += o.BadRefs
	s.PlaneOverflows += o.PlaneOverflows
}

// Finish copies the final plane and drawseg counts into the stats and
// returns them.
func (rs *State) Finish() FrameStats {
	rs.Stats.Visplanes = len(rs.Visplanes)
	rs.Stats.DrawSegs = len(rs.DrawSegs)
	return rs.Stats
}
