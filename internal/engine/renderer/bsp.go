package renderer

import (
	"github.com/Faultbox/bspview/pkg/fixed"
	"github.com/Faultbox/bspview/pkg/level"
)

// PointOnSide returns 0 when (x, y) is on the front (right) side of the
// node's partition line and 1 when it is on the back (left) side.
func PointOnSide(x, y fixed.Fixed, node *level.Node) int {
	if node.Dx == 0 {
		if x <= node.X {
			return boolSide(node.Dy > 0)
		}
		return boolSide(node.Dy < 0)
	}
	if node.Dy == 0 {
		if y <= node.Y {
			return boolSide(node.Dx < 0)
		}
		return boolSide(node.Dx > 0)
	}

	dx := int64(x) - int64(node.X)
	dy := int64(y) - int64(node.Y)

	// right = dy*Dx, left = Dy*dx; front when right < left.
	if fixed.CompareProducts(dy, int64(node.Dx), int64(node.Dy), dx) < 0 {
		return 0
	}
	return 1
}

func boolSide(back bool) int {
	if back {
		return 1
	}
	return 0
}

// PointInSubsector returns the subsector containing (x, y), or -1 when
// the tree references something that does not exist.
func PointInSubsector(lvl *level.Level, x, y fixed.Fixed) int {
	ref := lvl.Root()
	for depth := 0; !ref.IsSubsector(); depth++ {
		node := lvl.Node(ref.Index())
		if node == nil || depth > len(lvl.Nodes) {
			return -1
		}
		ref = node.Children[PointOnSide(x, y, node)]
	}
	if lvl.Subsector(ref.Index()) == nil {
		return -1
	}
	return ref.Index()
}

// RenderBSPNode walks the tree below ref front to back from the camera,
// processing each subsector that may be visible.
func (rs *State) RenderBSPNode(ref level.NodeRef) {
	rs.renderNode(ref, 0)
}

func (rs *State) renderNode(ref level.NodeRef, depth int) {
	if rs.IsScreenOccluded() {
		return
	}
	if depth > rs.maxDepth {
		rs.Stats.BadRefs++
		return
	}
	if ref.IsSubsector() {
		rs.RenderSubsector(ref.Index())
		return
	}

	num := ref.Index()
	node := rs.Level.Node(num)
	if node == nil {
		rs.Stats.BadRefs++
		return
	}
	rs.Stats.Nodes++
	rs.Tracer.EnterNode(num)

	side := PointOnSide(rs.ViewX, rs.ViewY, node)
	rs.renderNode(node.Children[side], depth+1)

	far := side ^ 1
	rs.Stats.BBoxChecks++
	visible := rs.CheckBBox(node.BBox[far])
	rs.Tracer.CheckBBox(num, far, visible)
	if !visible {
		rs.Stats.BBoxCulls++
		return
	}
	rs.renderNode(node.Children[far], depth+1)
}
