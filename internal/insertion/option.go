// Package insertion holds the candidate-placement types recreate chooses
// between — InsertionOption (a feasible placement of one part, not yet
// costed) and InsertionBlueprint (the not-yet-committed replacement plan
// behind an option, carrying its cost delta) — plus InsertionOptionCache, the bidirectional index
// that makes finding "every option touching layout L / part type P"
// cheap after an edit instead of a full rescan.
package insertion

import (
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/layout"
)

// LayoutKind distinguishes an option/blueprint that targets a layout
// already in the Problem's solution from one that targets a fresh,
// not-yet-opened sheet instance (an "empty template" in spec terms).
type LayoutKind int

const (
	ExistingLayout LayoutKind = iota
	EmptyTemplate
)

// LayoutRef identifies which layout (existing, by id) or which sheet
// template (by sheet type id) a candidate targets. It is the Problem-
// level address InsertionOption/InsertionBlueprint carry instead of a
// direct *layout.Layout, so this package stays independent of
// internal/problem (which owns the existing/template distinction).
//
// FirstCutOrient only matters when Kind is EmptyTemplate: generating
// options against a not-yet-opened sheet requires picking one of its
// allowed first-cut orientations, and Problem needs to know which one
// was used so that opening the real layout (internal/layout.New)
// reproduces the same initial single-leaf shape the blueprint's node
// handles were generated against.
type LayoutRef struct {
	Kind           LayoutKind
	ID             int
	FirstCutOrient geom.Orientation
}

// InsertionOption is one feasible way to place a part type: which layout,
// which empty node within it, and under which rotation. It carries no
// cost; BuildBlueprints computes that per blueprint. Rotation
// mirrors spec.md §3's `rotation: optional<Rotation>` exactly: nil means
// both orientations fit node geometrically, so one Option stands in for
// what would otherwise be two (one per rotation) — matching §4.2's "an
// Option with rotation = None when both work" instead of double-counting
// the node.
type InsertionOption struct {
	Layout   LayoutRef
	Node     layout.NodeHandle
	PartType catalog.PartType
	Rotation *geom.Rotation
}

// InsertionBlueprint is the replacement plan an InsertionOption resolves
// to once a concrete layout tree is available to splice it into:
// original is the empty node being replaced, Replacements is the sibling
// sequence layout.Layout.ImplementReplacement will materialise in its
// place, and CostDelta is cost(Replacements) - cost(original) under the
// comparator recreate/LAHC use to rank alternatives.
type InsertionBlueprint struct {
	Layout       LayoutRef
	Original     layout.NodeHandle
	Replacements []layout.NodeBlueprint
	PartType     catalog.PartType
	CostDelta    geom.Cost
}

// BuildBlueprints generates every InsertionBlueprint alternative for
// placing pt into the empty node "original" of l, under rotation r if
// given, or under both Default and Rotated (each contributing its own
// alternatives) when r is nil — the r == nil case is what an
// InsertionOption with Rotation == nil ("both orientations fit")
// expands to once a concrete layout tree is available to build against.
func BuildBlueprints(ref LayoutRef, l *layout.Layout, original layout.NodeHandle, pt catalog.PartType, r *geom.Rotation, leftoverPower float64) []InsertionBlueprint {
	rotations := []geom.Rotation{geom.Default, geom.Rotated}
	if r != nil {
		rotations = []geom.Rotation{*r}
	}
	originalCost := geom.Cost{LeftoverValue: geom.LeftoverValue(l.Area(original), leftoverPower)}

	var out []InsertionBlueprint
	for _, rot := range rotations {
		alts := l.GenerateReplacementBlueprints(original, pt, rot)
		for _, replacements := range alts {
			var sum geom.Cost
			for _, nb := range replacements {
				sum = sum.Add(nb.Cost(leftoverPower))
			}
			out = append(out, InsertionBlueprint{
				Layout:       ref,
				Original:     original,
				Replacements: replacements,
				PartType:     pt,
				CostDelta:    sum.Sub(originalCost),
			})
		}
	}
	return out
}
