package layout

import (
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
)

// NodeBlueprint is an immutable, not-yet-materialised description of a
// node (and, recursively, its subtree) that Layout.ImplementReplacement
// will splice into the live arena in place of the node an insertion
// targeted. It mirrors core/insertion/node_blueprint.rs: a plain value
// type carrying no parent/arena reference of its own.
type NodeBlueprint struct {
	Width, Height uint64
	PartType      *catalog.PartType // nil means an empty node
	NextCutOrient geom.Orientation
	Children      []NodeBlueprint
}

// EmptyBlueprint describes an unfilled node of the given size.
func EmptyBlueprint(w, h uint64, orient geom.Orientation) NodeBlueprint {
	return NodeBlueprint{Width: w, Height: h, NextCutOrient: orient}
}

// PartBlueprint describes a leaf node holding one placed part.
func PartBlueprint(w, h uint64, pt catalog.PartType, orient geom.Orientation) NodeBlueprint {
	ptCopy := pt
	return NodeBlueprint{Width: w, Height: h, PartType: &ptCopy, NextCutOrient: orient}
}

// AddChild appends a child blueprint, turning a would-be leaf into a
// structure node.
func (nb *NodeBlueprint) AddChild(c NodeBlueprint) {
	nb.Children = append(nb.Children, c)
}

// Cost is the leaf-leftover-value contribution of this blueprint's
// subtree: material cost is assessed once per Layout, not per node, so it
// is always zero here; part_area_excluded/included are Problem-level
// aggregates recomputed from remaining quantities, not summed from nodes
// (see Layout.Cost).
func (nb NodeBlueprint) Cost(leftoverPower float64) geom.Cost {
	if len(nb.Children) == 0 {
		if nb.PartType == nil {
			return geom.Cost{LeftoverValue: geom.LeftoverValue(nb.Width*nb.Height, leftoverPower)}
		}
		return geom.Cost{}
	}
	var total geom.Cost
	for _, c := range nb.Children {
		total = total.Add(c.Cost(leftoverPower))
	}
	return total
}

// pruneZeroArea drops zero-area children (an artifact of generating
// replacement blueprints from the same width/height-matching formula that
// handles an exact fit: the "remainder" side of an exact-fit split comes
// out zero-sized instead of being special-cased away). A structure node
// left with exactly one surviving child is inlined to that child so an
// exact fit collapses to a single part blueprint instead of a redundant
// wrapper around it. Returns ok=false if nb itself has zero area.
func pruneZeroArea(nb NodeBlueprint) (out NodeBlueprint, ok bool) {
	if nb.Width == 0 || nb.Height == 0 {
		return NodeBlueprint{}, false
	}
	if len(nb.Children) == 0 {
		return nb, true
	}
	kept := make([]NodeBlueprint, 0, len(nb.Children))
	for _, c := range nb.Children {
		if pc, ok := pruneZeroArea(c); ok {
			kept = append(kept, pc)
		}
	}
	if len(kept) == 1 {
		return kept[0], true
	}
	nb.Children = kept
	return nb, true
}

// blueprintDepth is the number of additional stages nb's subtree adds
// beyond the node it replaces: 0 for a leaf, 1 + its deepest child
// otherwise.
func blueprintDepth(nb NodeBlueprint) int {
	if len(nb.Children) == 0 {
		return 0
	}
	max := 0
	for _, c := range nb.Children {
		if d := blueprintDepth(c); d > max {
			max = d
		}
	}
	return 1 + max
}

// pruneReplacementSet prunes every top-level sibling in a candidate
// replacement sequence, dropping any that degenerate to zero area.
func pruneReplacementSet(set []NodeBlueprint) []NodeBlueprint {
	out := make([]NodeBlueprint, 0, len(set))
	for _, nb := range set {
		if pruned, ok := pruneZeroArea(nb); ok {
			out = append(out, pruned)
		}
	}
	return out
}
