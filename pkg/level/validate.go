package level

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrBadReference is wrapped by every cross-reference problem Validate finds.
var ErrBadReference = errors.New("bad reference")

// Validate checks every index in the level and returns all problems
// combined with multierr. A nil result means the renderer will never hit
// a missing reference. Use multierr.Errors to list them individually.
func (l *Level) Validate() error {
	var err error
	bad := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrBadReference}, args...)...))
	}

	for i, line := range l.Linedefs {
		if l.Vertex(line.V1) == nil {
			bad("linedef %d v1 %d", i, line.V1)
		}
		if l.Vertex(line.V2) == nil {
			bad("linedef %d v2 %d", i, line.V2)
		}
		for s, side := range line.Sides {
			if side == NoSide {
				if s == 0 {
					bad("linedef %d has no front side", i)
				} else if line.TwoSided() {
					bad("linedef %d is two-sided without a back side", i)
				}
				continue
			}
			if l.Sidedef(side) == nil {
				bad("linedef %d side %d sidedef %d", i, s, side)
			}
		}
	}

	for i, side := range l.Sidedefs {
		if l.Sector(side.Sector) == nil {
			bad("sidedef %d sector %d", i, side.Sector)
		}
	}

	for i, seg := range l.Segs {
		if l.Vertex(seg.V1) == nil || l.Vertex(seg.V2) == nil {
			bad("seg %d vertices %d, %d", i, seg.V1, seg.V2)
		}
		if l.Linedef(seg.Linedef) == nil {
			bad("seg %d linedef %d", i, seg.Linedef)
		}
		if seg.Side != 0 && seg.Side != 1 {
			bad("seg %d side %d", i, seg.Side)
		}
	}

	for i, sub := range l.Subsectors {
		if sub.NumSegs <= 0 {
			bad("subsector %d has no segs", i)
			continue
		}
		if sub.FirstSeg < 0 || sub.FirstSeg+sub.NumSegs > len(l.Segs) {
			bad("subsector %d segs %d..%d", i, sub.FirstSeg, sub.FirstSeg+sub.NumSegs-1)
		}
	}

	for i, node := range l.Nodes {
		for side, child := range node.Children {
			if child.IsSubsector() {
				if l.Subsector(child.Index()) == nil {
					bad("node %d child %d subsector %d", i, side, child.Index())
				}
				continue
			}
			// Children must come earlier so the tree has no cycles.
			if child.Index() >= i {
				bad("node %d child %d node %d", i, side, child.Index())
			}
		}
	}

	return err
}
