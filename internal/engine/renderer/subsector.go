package renderer

// RenderSubsector sets up the floor and ceiling planes of a leaf and
// hands each of its segs to the wall emitter.
func (rs *State) RenderSubsector(num int) {
	ss := rs.Level.Subsector(num)
	if ss == nil {
		rs.Stats.BadRefs++
		return
	}
	sec := rs.Level.SubsectorSector(num)
	if sec == nil {
		rs.Stats.BadRefs++
		return
	}
	rs.Stats.Subsectors++
	rs.Tracer.EnterSubsector(num)

	rs.FrontSector = sec
	rs.FloorPlane = nil
	rs.CeilingPlane = nil
	if sec.FloorHeight < rs.ViewZ {
		rs.FloorPlane = rs.Planes.FindPlane(rs, sec.FloorHeight, sec.FloorPic, sec.LightLevel)
	}
	if sec.CeilingHeight > rs.ViewZ || sec.CeilingPic == rs.skyFlat() {
		rs.CeilingPlane = rs.Planes.FindPlane(rs, sec.CeilingHeight, sec.CeilingPic, sec.LightLevel)
	}

	for i := 0; i < ss.NumSegs; i++ {
		rs.Walls.EmitWall(rs, ss.FirstSeg+i, num, rs.FloorPlane, rs.CeilingPlane)
	}
}
