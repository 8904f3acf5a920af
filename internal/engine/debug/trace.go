package debug

// CulledBox names the node side whose bounding box was rejected.
type CulledBox struct {
	Node int
	Side int
}

// Trace records one frame of BSP traversal. It satisfies
// renderer.TraversalTracer.
type Trace struct {
	Nodes      []int
	Subsectors []int
	Culled     []CulledBox
}

// EnterNode records a visited node.
func (t *Trace) EnterNode(node int) {
	t.Nodes = append(t.Nodes, node)
}

// EnterSubsector records a visited subsector.
func (t *Trace) EnterSubsector(subsector int) {
	t.Subsectors = append(t.Subsectors, subsector)
}

// CheckBBox records rejected boxes; visible ones are implied by the visits
// that follow.
func (t *Trace) CheckBBox(node, side int, visible bool) {
	if !visible {
		t.Culled = append(t.Culled, CulledBox{Node: node, Side: side})
	}
}

// Reset clears the trace for the next frame, keeping its storage.
func (t *Trace) Reset() {
	t.Nodes = t.Nodes[:0]
	t.Subsectors = t.Subsectors[:0]
	t.Culled = t.Culled[:0]
}

// VisitedSubsectors returns the set of subsectors in the trace.
func (t *Trace) VisitedSubsectors() map[int]bool {
	set := make(map[int]bool, len(t.Subsectors))
	for _, ss := range t.Subsectors {
		set[ss] = true
	}
	return set
}
