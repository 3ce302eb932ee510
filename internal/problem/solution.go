package problem

import (
	"github.com/google/uuid"

	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/layout"
)

// ProblemSolution is an immutable snapshot of a Problem's state: the
// layouts present at the moment it was taken (shared by pointer with the
// live Problem, not deep-copied), the remaining quantities, and the cost
// computed at snapshot time. LAHC holds one as its running incumbent and
// restores Problem to it on a rejected iteration.
//
// Sharing layouts by reference is safe only because Problem always
// copy-on-writes a layout (Problem.beforeMutate) before mutating it if
// that layout is still marked "shared" by an outstanding snapshot — the
// Rust original achieves the same thing with Rc<Layout>; Go has no
// reference-counted immutability, so the copy-on-write flag in Problem
// stands in for it.
type ProblemSolution struct {
	// DebugID is a fresh random id assigned by each Snapshot call. Nothing
	// in the repository logs or reads it (internal/lahc tags its log
	// lines with the run id instead); it has no effect on solving.
	DebugID  uuid.UUID
	layouts  map[int]*layout.Layout
	partQty  []int
	sheetQty []int
	cost     geom.Cost
}

// Cost returns the snapshot's cost.
func (s *ProblemSolution) Cost() geom.Cost { return s.cost }

// Layouts returns the snapshot's layouts, keyed by id. Callers must
// treat these as read-only: they may still be shared with the live
// Problem that produced this snapshot.
func (s *ProblemSolution) Layouts() map[int]*layout.Layout { return s.layouts }

// Snapshot captures p's current state as a ProblemSolution. Every layout
// currently open is marked shared, so the next mutation against any of
// them copies first instead of reaching through this snapshot.
func (p *Problem) Snapshot(cost *geom.Cost) *ProblemSolution {
	c := p.Cost()
	if cost != nil {
		c = *cost
	}
	layouts := make(map[int]*layout.Layout, len(p.layouts))
	for id, l := range p.layouts {
		layouts[id] = l
		p.shared[id] = true
	}
	return &ProblemSolution{
		DebugID:  uuid.New(),
		layouts:  layouts,
		partQty:  append([]int(nil), p.partQty...),
		sheetQty: append([]int(nil), p.sheetQty...),
		cost:     c,
	}
}

// RestoreFrom resets p to a previously captured solution, re-sharing its
// layouts rather than deep-copying them (a rejected ruin/recreate pass
// discards whatever the live Problem currently holds).
func (p *Problem) RestoreFrom(s *ProblemSolution) {
	p.layouts = make(map[int]*layout.Layout, len(s.layouts))
	p.shared = make(map[int]bool, len(s.layouts))
	for id, l := range s.layouts {
		p.layouts[id] = l
		p.shared[id] = true
	}
	p.partQty = append([]int(nil), s.partQty...)
	p.sheetQty = append([]int(nil), s.sheetQty...)
}
