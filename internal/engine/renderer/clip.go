package renderer

import "math"

// ClipRange is an inclusive run of fully occluded columns.
type ClipRange struct {
	First, Last int32
}

func newSolidSegs(width int) []ClipRange {
	segs := make([]ClipRange, 2, 32)
	segs[0] = ClipRange{First: math.MinInt32, Last: -1}
	segs[1] = ClipRange{First: int32(width), Last: math.MaxInt32}
	return segs
}

// IsScreenOccluded reports whether every column is covered by solid walls.
func (rs *State) IsScreenOccluded() bool {
	first := rs.SolidSegs[0]
	return first.First <= 0 && int(first.Last) >= rs.Proj.Width-1
}

// ClipSolidWallSegment passes the not yet occluded parts of columns
// first..last to store and then marks the whole range solid.
func (rs *State) ClipSolidWallSegment(first, last int, store func(start, stop int)) {
	segs := rs.SolidSegs

	// Find the first range that touches or follows first.
	i := 0
	for int(segs[i].Last) < first-1 {
		i++
	}

	if first < int(segs[i].First) {
		if last < int(segs[i].First)-1 {
			// Entirely visible, insert a new range.
			store(first, last)
			segs = append(segs, ClipRange{})
			copy(segs[i+1:], segs[i:])
			segs[i] = ClipRange{First: int32(first), Last: int32(last)}
			rs.SolidSegs = segs
			return
		}
		// There is a fragment above segs[i].
		store(first, int(segs[i].First)-1)
		segs[i].First = int32(first)
	}

	// Bottom contained in start?
	if last <= int(segs[i].Last) {
		return
	}

	next := i
	merged := false
	for last >= int(segs[next+1].First)-1 {
		// There is a fragment between two ranges.
		store(int(segs[next].Last)+1, int(segs[next+1].First)-1)
		next++
		if last <= int(segs[next].Last) {
			segs[i].Last = segs[next].Last
			merged = true
			break
		}
	}
	if !merged {
		// There is a fragment after next.
		store(int(segs[next].Last)+1, last)
		segs[i].Last = int32(last)
	}

	// Remove the ranges swallowed by i.
	if next != i {
		segs = append(segs[:i+1], segs[next+1:]...)
	}
	rs.SolidSegs = segs
}

// ClipPassWallSegment passes the not yet occluded parts of columns
// first..last to store without marking anything solid.
func (rs *State) ClipPassWallSegment(first, last int, store func(start, stop int)) {
	segs := rs.SolidSegs

	i := 0
	for int(segs[i].Last) < first-1 {
		i++
	}

	if first < int(segs[i].First) {
		if last < int(segs[i].First)-1 {
			store(first, last)
			return
		}
		store(first, int(segs[i].First)-1)
	}

	if last <= int(segs[i].Last) {
		return
	}

	for last >= int(segs[i+1].First)-1 {
		store(int(segs[i].Last)+1, int(segs[i+1].First)-1)
		i++
		if last <= int(segs[i].Last) {
			return
		}
	}
	store(int(segs[i].Last)+1, last)
}
