// Package problem holds the mutable solution state GDRR iterates on: a
// Problem aggregates the live layouts opened so far, remaining part/sheet
// quantities, and applies InsertionBlueprint/RemoveNode edits from
// internal/gdrr, while ProblemSolution is the immutable, cheaply
// reference-shared snapshot LAHC accepts/restores against.
//
// Grounded on original_source/src/optimization/problem.rs (field shape:
// instance, parttype_qtys, sheettype_qtys, layouts, empty_layouts,
// random) and layout_index.rs (the Existing/Empty distinction, carried
// here as insertion.LayoutRef instead of a Rust enum holding an arena
// index directly, per internal/insertion's design).
package problem

import (
	"math/rand"

	"github.com/piwi3910/gdrrcut/internal/apperr"
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/insertion"
	"github.com/piwi3910/gdrrcut/internal/layout"
)

// Problem is the mutable aggregate one LAHC worker ruins and recreates.
type Problem struct {
	Instance      catalog.Instance
	LeftoverPower float64

	partQty  []int // remaining demand, indexed by part id
	sheetQty []int // remaining stock, indexed by sheet id

	layouts     map[int]*layout.Layout
	nextLayout  int
	shared      map[int]bool // layout id -> still referenced by the last snapshot
	rng         *rand.Rand
}

// New builds a Problem with no layouts open yet and full remaining
// demand/stock, mirroring Problem::new's initial state.
func New(instance catalog.Instance, leftoverPower float64, rng *rand.Rand) *Problem {
	return &Problem{
		Instance:      instance,
		LeftoverPower: leftoverPower,
		partQty:       instance.InitialPartQuantities(),
		sheetQty:      instance.InitialSheetQuantities(),
		layouts:       make(map[int]*layout.Layout),
		shared:        make(map[int]bool),
		rng:           rng,
	}
}

// RNG returns the Problem's random source, shared by gdrr's ruin/recreate
// so a single seed drives one worker's whole run.
func (p *Problem) RNG() *rand.Rand { return p.rng }

// Layouts returns every currently open layout, keyed by id.
func (p *Problem) Layouts() map[int]*layout.Layout { return p.layouts }

// PartQty returns the remaining demand for a part type id.
func (p *Problem) PartQty(id int) int { return p.partQty[id] }

// SheetQty returns the remaining stock for a sheet type id.
func (p *Problem) SheetQty(id int) int { return p.sheetQty[id] }

// RemainingPartTypes returns every part type that still has outstanding
// demand.
func (p *Problem) RemainingPartTypes() []catalog.PartType {
	var out []catalog.PartType
	for i, d := range p.Instance.Parts {
		if p.partQty[i] > 0 {
			out = append(out, d.Type)
		}
	}
	return out
}

// OpenSheetTemplates returns one insertion.LayoutRef per (sheet type,
// allowed first-cut orientation) pair that still has remaining stock —
// recreate's candidate list for opening a fresh layout.
func (p *Problem) OpenSheetTemplates() []insertion.LayoutRef {
	var out []insertion.LayoutRef
	for i, s := range p.Instance.Sheets {
		if p.sheetQty[i] <= 0 {
			continue
		}
		for _, orient := range s.Type.AllowedFirstCutOrientations() {
			out = append(out, insertion.LayoutRef{Kind: insertion.EmptyTemplate, ID: i, FirstCutOrient: orient})
		}
	}
	return out
}

// TemplateLayout builds a throwaway, never-committed Layout for
// generating insertion options/blueprints against a not-yet-opened
// sheet. Its node handles are deterministic by construction (New always
// allocates sentinel/top/leaf in the same order), so a blueprint
// generated against this instance applies unchanged to the real Layout
// ImplementBlueprint later opens for the same ref.
func (p *Problem) TemplateLayout(ref insertion.LayoutRef) *layout.Layout {
	sheet := p.Instance.SheetTypeByID(ref.ID)
	return layout.New(ref.ID, sheet, ref.FirstCutOrient)
}

// layoutFor returns the open layout an ExistingLayout ref addresses,
// panicking on an unknown id or an EmptyTemplate ref.
func (p *Problem) layoutFor(ref insertion.LayoutRef) *layout.Layout {
	switch ref.Kind {
	case insertion.ExistingLayout:
		l, ok := p.layouts[ref.ID]
		if !ok {
			apperr.Invariant("problem: no existing layout with id %d", ref.ID)
		}
		return l
	default:
		apperr.Invariant("problem: layoutFor called with an EmptyTemplate ref")
		return nil
	}
}

// beforeMutate copy-on-writes l if an outstanding ProblemSolution still
// shares its pointer, so that solution's view stays immutable.
func (p *Problem) beforeMutate(id int) *layout.Layout {
	l := p.layouts[id]
	if p.shared[id] {
		l = l.DeepCopy()
		p.layouts[id] = l
		p.shared[id] = false
	}
	return l
}

// ImplementBlueprint applies bp: opening a new layout first if it
// targets an empty template, then splicing its replacement nodes in and
// decrementing the part type's remaining demand. Returns the ref of the
// layout actually mutated (bp.Layout.ID resolves to a real layout id
// once a template has been opened) and the resulting cache update.
func (p *Problem) ImplementBlueprint(bp insertion.InsertionBlueprint) (insertion.LayoutRef, layout.CacheUpdates) {
	ref := bp.Layout
	var l *layout.Layout
	if ref.Kind == insertion.EmptyTemplate {
		sheetID := ref.ID
		p.sheetQty[sheetID]--
		id := p.nextLayout
		p.nextLayout++
		l = layout.New(id, p.Instance.SheetTypeByID(sheetID), ref.FirstCutOrient)
		p.layouts[id] = l
		p.shared[id] = false
		ref = insertion.LayoutRef{Kind: insertion.ExistingLayout, ID: id}
	} else {
		l = p.beforeMutate(ref.ID)
	}

	updates := l.ImplementReplacement(bp.Original, bp.Replacements)
	p.partQty[bp.PartType.ID]--
	return ref, updates
}

// RemoveNode tears node out of the layout identified by id, returning
// the freed part types (added back to remaining demand) and whether the
// whole layout collapsed to empty (in which case it is dropped from
// Problem's live layouts and its sheet's stock is returned).
func (p *Problem) RemoveNode(layoutID int, node layout.NodeHandle) (freed []catalog.PartType, layoutDropped bool) {
	l := p.beforeMutate(layoutID)
	freed, emptied := l.RemoveNode(node)
	for _, pt := range freed {
		p.partQty[pt.ID]++
	}
	if emptied {
		p.sheetQty[l.SheetType.ID]++
		delete(p.layouts, layoutID)
		delete(p.shared, layoutID)
	}
	return freed, emptied
}

// Cost is the Problem-wide cost: every open layout's material cost and
// leftover valuation, plus part_area_excluded/included recomputed from
// remaining demand rather than summed per layout (Layout.Cost always
// reports zero for those two fields).
func (p *Problem) Cost() geom.Cost {
	var total geom.Cost
	for _, l := range p.layouts {
		total = total.Add(l.Cost(p.LeftoverPower))
	}
	var excluded uint64
	for i, d := range p.Instance.Parts {
		excluded += d.Type.Area() * uint64(p.partQty[i])
	}
	total.PartAreaExcluded = excluded
	total.PartAreaIncluded = p.Instance.TotalPartArea - excluded
	return total
}
