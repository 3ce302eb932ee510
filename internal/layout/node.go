package layout

import (
	"github.com/piwi3910/gdrrcut/internal/apperr"
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
)

// Width returns the node's width.
func (l *Layout) Width(h NodeHandle) uint64 { return l.arena.get(h).width }

// Height returns the node's height.
func (l *Layout) Height(h NodeHandle) uint64 { return l.arena.get(h).height }

// Size returns the node's size.
func (l *Layout) Size(h NodeHandle) geom.Size {
	d := l.arena.get(h)
	return geom.NewSize(d.width, d.height)
}

// Area returns the node's area.
func (l *Layout) Area(h NodeHandle) uint64 { return l.Size(h).Area() }

// NextCutOrient returns the orientation along which h's children (current
// or future) are arranged.
func (l *Layout) NextCutOrient(h NodeHandle) geom.Orientation { return l.arena.get(h).nextCutOrient }

// PartType returns the part occupying h, or nil if h is empty or a
// structure node.
func (l *Layout) PartType(h NodeHandle) *catalog.PartType { return l.arena.get(h).parttype }

// Children returns h's children, empty for a leaf (empty or part) node.
func (l *Layout) Children(h NodeHandle) []NodeHandle {
	return l.arena.get(h).children
}

// Parent returns h's parent and whether it has one. Every node the caller
// can observe has a parent: the tree's conceptual root (TopNode) is
// parented to an internal sentinel that exists purely so remove_node's
// logic never needs a special "no parent" case (see Layout.sentinel in
// layout.go and DESIGN.md).
func (l *Layout) Parent(h NodeHandle) (NodeHandle, bool) {
	d := l.arena.get(h)
	return d.parent, d.parent.Valid()
}

// IsEmpty reports whether h is an unfilled leaf.
func (l *Layout) IsEmpty(h NodeHandle) bool {
	d := l.arena.get(h)
	return d.parttype == nil && len(d.children) == 0
}

// IsPart reports whether h holds a placed part.
func (l *Layout) IsPart(h NodeHandle) bool { return l.arena.get(h).parttype != nil }

// IsStructure reports whether h is an internal node (has children).
func (l *Layout) IsStructure(h NodeHandle) bool {
	d := l.arena.get(h)
	return d.parttype == nil && len(d.children) > 0
}

// InsertionPossible reports whether parttype under rotation r fits inside
// the empty node h. Mirrors node.rs::insertion_possible.
func (l *Layout) InsertionPossible(h NodeHandle, pt catalog.PartType, r geom.Rotation) bool {
	if !l.IsEmpty(h) {
		apperr.Invariant("layout: insertion_possible called on a non-empty node")
	}
	if !pt.AllowsRotation(r) {
		return false
	}
	size := pt.SizeFor(r)
	return size.Fits(l.Size(h))
}

// GenerateReplacementBlueprints enumerates the alternative ways to place
// parttype under rotation r into the empty node h, each alternative being
// the ordered sibling list that replaces h in its parent's children.
//
// This is a direct port of node.rs::generate_insertion_blueprints: the
// four scenarios (exact/parallel fit along the current cut, perpendicular
// fit, and the general two-stage case) are distinguished purely by which
// of the node's dimensions the part's size matches, not by an explicit
// "exact fit" branch — an exact fit is simply the degenerate case of the
// parallel-fit branch where the remainder comes out zero-sized, and
// pruneReplacementSet collapses that degeneracy away. Scenario 4 (neither
// dimension matches) always emits both the same-direction-first and the
// opposite-direction-first alternative, per the source: both are valid
// plans and nothing picks one over the other ahead of the recreate
// search.
func (l *Layout) GenerateReplacementBlueprints(h NodeHandle, pt catalog.PartType, r geom.Rotation) [][]NodeBlueprint {
	if !l.InsertionPossible(h, pt, r) {
		apperr.Invariant("layout: generate replacement blueprints for an insertion that does not fit")
	}
	size := pt.SizeFor(r)
	w, ht := size.Width, size.Height
	nodeW, nodeH := l.Width(h), l.Height(h)
	orient := l.NextCutOrient(h)
	rot := orient.Rotate()

	// Scenario 2: part spans the node's full extent along the current cut
	// orientation; split into part + remainder on the same level.
	if orient == geom.Horizontal && nodeH == ht {
		part := PartBlueprint(w, nodeH, pt, orient)
		remainder := EmptyBlueprint(nodeW-w, nodeH, orient)
		return l.filterByMaxStages(h, [][]NodeBlueprint{pruneReplacementSet([]NodeBlueprint{part, remainder})})
	}
	if orient == geom.Vertical && nodeW == w {
		part := PartBlueprint(nodeW, ht, pt, orient)
		remainder := EmptyBlueprint(nodeW, nodeH-ht, orient)
		return l.filterByMaxStages(h, [][]NodeBlueprint{pruneReplacementSet([]NodeBlueprint{part, remainder})})
	}

	// Scenario 3: part spans the node's full extent in the dimension
	// perpendicular to the current cut; wrap a rotated-orientation split
	// inside a same-size structure node on the current level.
	if orient == geom.Horizontal && nodeW == w {
		wrapper := EmptyBlueprint(nodeW, nodeH, orient)
		wrapper.AddChild(PartBlueprint(nodeW, ht, pt, rot))
		wrapper.AddChild(EmptyBlueprint(nodeW, nodeH-ht, rot))
		return l.filterByMaxStages(h, [][]NodeBlueprint{pruneReplacementSet([]NodeBlueprint{wrapper})})
	}
	if orient == geom.Vertical && nodeH == ht {
		wrapper := EmptyBlueprint(nodeW, nodeH, orient)
		wrapper.AddChild(PartBlueprint(w, nodeH, pt, rot))
		wrapper.AddChild(EmptyBlueprint(nodeW-w, nodeH, rot))
		return l.filterByMaxStages(h, [][]NodeBlueprint{pruneReplacementSet([]NodeBlueprint{wrapper})})
	}

	var out [][]NodeBlueprint

	// Scenario 4.1: first cut in the same direction as the current
	// orientation, part placed in the resulting sub-band.
	if orient == geom.Horizontal {
		partParent := EmptyBlueprint(w, nodeH, orient)
		remainderTop := EmptyBlueprint(nodeW-w, nodeH, orient)
		partParent.AddChild(PartBlueprint(w, ht, pt, rot))
		partParent.AddChild(EmptyBlueprint(w, nodeH-ht, rot))
		out = append(out, pruneReplacementSet([]NodeBlueprint{partParent, remainderTop}))
	}
	if orient == geom.Vertical {
		partParent := EmptyBlueprint(nodeW, ht, orient)
		remainderTop := EmptyBlueprint(nodeW, nodeH-ht, orient)
		partParent.AddChild(PartBlueprint(w, ht, pt, rot))
		partParent.AddChild(EmptyBlueprint(nodeW-w, ht, rot))
		out = append(out, pruneReplacementSet([]NodeBlueprint{partParent, remainderTop}))
	}

	// Scenario 4.2: first cut opposite the current orientation, nested
	// two levels deep. In both branches the wrapper's two children
	// (partParent and remainderTop) carry the wrapper's orientation
	// rotated once.
	if orient == geom.Horizontal {
		copyNode := EmptyBlueprint(nodeW, nodeH, orient)
		partParent := EmptyBlueprint(nodeW, ht, rot)
		remainderTop := EmptyBlueprint(nodeW, nodeH-ht, rot)
		partParent.AddChild(PartBlueprint(w, ht, pt, rot.Rotate()))
		partParent.AddChild(EmptyBlueprint(nodeW-w, ht, rot.Rotate()))
		copyNode.AddChild(partParent)
		copyNode.AddChild(remainderTop)
		out = append(out, pruneReplacementSet([]NodeBlueprint{copyNode}))
	}
	if orient == geom.Vertical {
		copyNode := EmptyBlueprint(nodeW, nodeH, orient)
		partParent := EmptyBlueprint(w, nodeH, rot)
		remainderTop := EmptyBlueprint(nodeW-w, nodeH, rot)
		partParent.AddChild(PartBlueprint(w, ht, pt, rot.Rotate()))
		partParent.AddChild(EmptyBlueprint(w, nodeH-ht, rot.Rotate()))
		copyNode.AddChild(partParent)
		copyNode.AddChild(remainderTop)
		out = append(out, pruneReplacementSet([]NodeBlueprint{copyNode}))
	}

	return l.filterByMaxStages(h, out)
}

// filterByMaxStages drops any alternative whose resulting depth would
// exceed l.SheetType.MaxStages (0 means unlimited). Grounded on spec.md
// §4.1/§9: "the max-stages constraint from SheetType may be enforced by
// the caller by filtering blueprints whose resulting depth exceeds the
// limit" — the Open Questions default ("do enforce") is applied here, at
// the point spec.md names as the natural enforcement site.
func (l *Layout) filterByMaxStages(h NodeHandle, alts [][]NodeBlueprint) [][]NodeBlueprint {
	if l.SheetType.MaxStages == 0 {
		return alts
	}
	limit := int(l.SheetType.MaxStages)
	base := l.Depth(h)
	out := make([][]NodeBlueprint, 0, len(alts))
	for _, alt := range alts {
		fits := true
		for _, nb := range alt {
			if base+blueprintDepth(nb) > limit {
				fits = false
				break
			}
		}
		if fits {
			out = append(out, alt)
		}
	}
	return out
}
