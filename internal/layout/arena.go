// Package layout implements the guillotine cutting-pattern tree for a
// single sheet: Node (a rectangle that is either empty, holds one part, or
// is an internal structure node with children) and Layout (the tree plus
// its cached cost/usage and the sorted-empty-node index used by recreate).
//
// The original implementation (core/entities/node.rs) links nodes with
// Rc<RefCell<Node>> and a Weak parent pointer so a node can be looked up
// and mutated from several places at once. Go has no borrow checker to
// make that safe, so this port keeps every Node in a per-Layout
// generational-index arena and refers to nodes by NodeHandle{index,
// generation} instead of by pointer. A handle from a node that has since
// been freed (removed, merged away) is caught by the generation check
// rather than silently aliasing a reused slot.
package layout

import (
	"github.com/piwi3910/gdrrcut/internal/apperr"
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
)

// NodeHandle addresses a node inside one Layout's arena. It is only valid
// relative to the Layout that produced it.
type NodeHandle struct {
	idx int
	gen uint32
}

// Valid reports whether h addresses a slot at all (zero value is invalid).
func (h NodeHandle) Valid() bool { return h.idx >= 0 }

var invalidHandle = NodeHandle{idx: -1}

type nodeData struct {
	width, height uint64
	parttype      *catalog.PartType // nil means the node is empty
	nextCutOrient geom.Orientation
	parent        NodeHandle
	children      []NodeHandle
}

type slot struct {
	gen   uint32
	alive bool
	data  nodeData
}

type arena struct {
	slots []slot
	free  []int
}

func (a *arena) alloc(d nodeData) NodeHandle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].alive = true
		a.slots[idx].data = d
		return NodeHandle{idx: idx, gen: a.slots[idx].gen}
	}
	a.slots = append(a.slots, slot{gen: 1, alive: true, data: d})
	return NodeHandle{idx: len(a.slots) - 1, gen: 1}
}

func (a *arena) release(h NodeHandle) {
	s := a.slotFor(h)
	s.alive = false
	s.gen++
	s.data = nodeData{}
	a.free = append(a.free, h.idx)
}

func (a *arena) slotFor(h NodeHandle) *slot {
	if h.idx < 0 || h.idx >= len(a.slots) {
		apperr.Invariant("layout: node handle %v out of range", h)
	}
	s := &a.slots[h.idx]
	if !s.alive || s.gen != h.gen {
		apperr.Invariant("layout: stale node handle %v", h)
	}
	return s
}

func (a *arena) get(h NodeHandle) *nodeData {
	return &a.slotFor(h).data
}
