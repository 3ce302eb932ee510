package layout

import (
	"sort"

	"github.com/piwi3910/gdrrcut/internal/apperr"
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
)

// Layout is one guillotine cutting pattern over a single sheet instance:
// the node arena, the real tree root (TopNode), and the cost/usage caches
// and empty-node index that make ruin & recreate cheap to query.
//
// The arena holds one extra node above the top of the tree: a sentinel
// whose only child is TopNode. It has no size of its own and is never
// walked, costed, serialised, or exposed to a caller by handle; it exists
// solely so RemoveNode can treat "remove the whole layout" (ruin's
// deficit-recovery path, which releases top_node_index wholesale) with
// exactly the same parent/sibling logic as removing any other node,
// instead of special-casing "this node has no parent". See DESIGN.md.
type Layout struct {
	ID        int
	SheetType catalog.SheetType

	arena     arena
	sentinel  NodeHandle
	top       NodeHandle
	sortedEmp []NodeHandle

	cachedCost  *geom.Cost
	cachedUsage *float64
}

// New builds a Layout over an unused sheet instance, rooted with the
// given first-cut orientation. Mirrors Layout::new (layout.rs): a root
// spanning the full sheet, with a single empty child of the same size
// whose next_cut_orient is rotated from the root's.
func New(id int, sheet catalog.SheetType, firstCutOrient geom.Orientation) *Layout {
	l := &Layout{ID: id, SheetType: sheet}
	l.sentinel = l.arena.alloc(nodeData{parent: invalidHandle})
	l.top = l.arena.alloc(nodeData{
		width: sheet.Width, height: sheet.Height,
		nextCutOrient: firstCutOrient,
		parent:        l.sentinel,
	})
	l.arena.get(l.sentinel).children = []NodeHandle{l.top}

	leaf := l.arena.alloc(nodeData{
		width: sheet.Width, height: sheet.Height,
		nextCutOrient: firstCutOrient.Rotate(),
		parent:        l.top,
	})
	l.arena.get(l.top).children = []NodeHandle{leaf}
	l.sortedEmp = []NodeHandle{leaf}
	return l
}

// TopNode returns the handle of the tree's real root.
func (l *Layout) TopNode() NodeHandle { return l.top }

// Depth returns the number of guillotine-cut stages between TopNode and
// h: TopNode is stage 0, and each level below adds one, matching the
// glossary's "one depth level of alternating cut orientation" stage
// definition. Used by GenerateReplacementBlueprints to enforce
// SheetType.MaxStages.
func (l *Layout) Depth(h NodeHandle) int {
	depth := 0
	for h != l.top {
		parent, ok := l.Parent(h)
		if !ok {
			apperr.Invariant("layout: depth walk escaped the tree root")
		}
		h = parent
		depth++
	}
	return depth
}

// IsEmpty reports whether the layout currently holds no parts at all
// (TopNode has collapsed back down to a single unfilled leaf).
func (l *Layout) IsEmpty() bool { return l.IsEmpty(l.top) }

// SortedEmptyNodes returns the layout's empty leaves ordered by
// decreasing area, as recreate's insertion-option cache relies on.
func (l *Layout) SortedEmptyNodes() []NodeHandle {
	return l.sortedEmp
}

// GetRemovableNodes returns every Part or Structure node in the tree
// (i.e. every node ruin may legally pick to tear out), in no particular
// order.
func (l *Layout) GetRemovableNodes() []NodeHandle {
	var out []NodeHandle
	var walk func(NodeHandle)
	walk = func(h NodeHandle) {
		if l.IsEmpty(h) {
			return
		}
		out = append(out, h)
		for _, c := range l.Children(h) {
			walk(c)
		}
	}
	walk(l.top)
	return out
}

// Cost returns the layout's cached cost: the sheet's material cost plus
// the leftover valuation of every empty leaf. part_area_excluded/included
// are always zero here — Problem.Cost overrides those fields from
// instance-wide remaining quantities rather than summing them per layout.
func (l *Layout) Cost(leftoverPower float64) geom.Cost {
	if l.cachedCost != nil {
		return *l.cachedCost
	}
	c := l.costOf(l.top, leftoverPower)
	c.MaterialCost = l.SheetType.Value
	l.cachedCost = &c
	return c
}

func (l *Layout) costOf(h NodeHandle, power float64) geom.Cost {
	d := l.arena.get(h)
	if len(d.children) == 0 {
		if d.parttype == nil {
			return geom.Cost{LeftoverValue: geom.LeftoverValue(d.width*d.height, power)}
		}
		return geom.Cost{}
	}
	var sum geom.Cost
	for _, c := range d.children {
		sum = sum.Add(l.costOf(c, power))
	}
	return sum
}

// Usage returns the cached fraction of sheet area covered by placed
// parts: usage(leaf) is 1 for a part, 0 for empty, and
// usage(structure) = Σ child.area·usage(child) / node.area.
func (l *Layout) Usage() float64 {
	if l.cachedUsage != nil {
		return *l.cachedUsage
	}
	u := l.usageOf(l.top)
	l.cachedUsage = &u
	return u
}

func (l *Layout) usageOf(h NodeHandle) float64 {
	d := l.arena.get(h)
	if len(d.children) == 0 {
		if d.parttype != nil {
			return 1
		}
		return 0
	}
	parentArea := float64(d.width * d.height)
	if parentArea == 0 {
		return 0
	}
	var sum float64
	for _, c := range d.children {
		cd := l.arena.get(c)
		childArea := float64(cd.width * cd.height)
		sum += childArea * l.usageOf(c) / parentArea
	}
	return sum
}

func (l *Layout) invalidateCaches() {
	l.cachedCost = nil
	l.cachedUsage = nil
}

// CacheUpdates reports which empty-node handles an edit invalidated
// (removed from the tree or replaced) versus added, so
// insertion.InsertionOptionCache can update incrementally instead of
// rebuilding from scratch.
type CacheUpdates struct {
	LayoutID    int
	Invalidated []NodeHandle
	Added       []NodeHandle
}

// ImplementReplacement splices replacements into original's parent in
// original's place, materialising each NodeBlueprint (recursively) into
// real arena nodes. original must be an empty leaf — the sole precondition
// every GenerateReplacementBlueprints call already establishes.
func (l *Layout) ImplementReplacement(original NodeHandle, replacements []NodeBlueprint) CacheUpdates {
	if !l.IsEmpty(original) {
		apperr.Invariant("layout: ImplementReplacement target is not an empty node")
	}
	parentHandle, ok := l.Parent(original)
	if !ok {
		apperr.Invariant("layout: node has no parent")
	}
	parent := l.arena.get(parentHandle)

	newTop := make([]NodeHandle, 0, len(replacements))
	for _, nb := range replacements {
		newTop = append(newTop, l.materialize(nb, parentHandle))
	}

	children := make([]NodeHandle, 0, len(parent.children)-1+len(newTop))
	for _, c := range parent.children {
		if c == original {
			children = append(children, newTop...)
			continue
		}
		children = append(children, c)
	}
	parent.children = children

	l.removeSortedEmpty(original)
	l.arena.release(original)

	var added []NodeHandle
	for _, h := range newTop {
		added = append(added, l.collectEmptyLeaves(h)...)
	}
	for _, h := range added {
		l.insertSortedEmpty(h)
	}

	l.invalidateCaches()
	return CacheUpdates{LayoutID: l.ID, Invalidated: []NodeHandle{original}, Added: added}
}

func (l *Layout) materialize(nb NodeBlueprint, parent NodeHandle) NodeHandle {
	h := l.arena.alloc(nodeData{
		width: nb.Width, height: nb.Height,
		parttype: nb.PartType, nextCutOrient: nb.NextCutOrient,
		parent: parent,
	})
	if len(nb.Children) > 0 {
		children := make([]NodeHandle, 0, len(nb.Children))
		for _, c := range nb.Children {
			children = append(children, l.materialize(c, h))
		}
		l.arena.get(h).children = children
	}
	return h
}

func (l *Layout) collectEmptyLeaves(h NodeHandle) []NodeHandle {
	d := l.arena.get(h)
	if len(d.children) == 0 {
		if d.parttype == nil {
			return []NodeHandle{h}
		}
		return nil
	}
	var out []NodeHandle
	for _, c := range d.children {
		out = append(out, l.collectEmptyLeaves(c)...)
	}
	return out
}

// RemoveNode tears h (a Part or Structure node) out of the tree,
// returning the part types freed from its subtree and whether the whole
// layout collapsed back to empty. Mirrors node.rs::remove_child's three
// scenarios:
//
//  1. A sibling empty node exists and at least one other sibling remains
//     besides it: the sibling absorbs h's space (widened/heightened along
//     the parent's cut orientation) and h is discarded.
//  2. No sibling empty node exists: h itself is converted in place into
//     an empty leaf (its subtree, if any, is discarded).
//  3. A sibling empty node exists and it is h's only other sibling: the
//     parent itself becomes the empty leaf (both h and the sibling are
//     discarded), propagating the collapse upward exactly like scenario 2
//     would for the parent.
func (l *Layout) RemoveNode(h NodeHandle) (freed []catalog.PartType, layoutEmptied bool) {
	if l.IsEmpty(h) {
		apperr.Invariant("layout: cannot remove an already-empty node")
	}
	freed = l.collectPartLeaves(h)

	parentHandle, ok := l.Parent(h)
	if !ok {
		apperr.Invariant("layout: node has no parent")
	}
	parent := l.arena.get(parentHandle)

	var emptySibling NodeHandle
	hasEmptySibling := false
	for _, c := range parent.children {
		if c == h {
			continue
		}
		if l.IsEmpty(c) {
			emptySibling = c
			hasEmptySibling = true
			break
		}
	}

	switch {
	case !hasEmptySibling:
		// Scenario 2.
		d := l.arena.get(h)
		l.freeDescendantsOf(h)
		d.parttype = nil
		l.insertSortedEmpty(h)

	case len(parent.children) == 2:
		// Scenario 3: h and emptySibling are parent's only children.
		l.removeSortedEmpty(emptySibling)
		l.arena.release(emptySibling)
		l.freeSubtree(h)
		parent.children = nil
		l.insertSortedEmpty(parentHandle)

	default:
		// Scenario 1.
		d := l.arena.get(h)
		sib := l.arena.get(emptySibling)
		l.removeSortedEmpty(emptySibling)
		switch parent.nextCutOrient {
		case geom.Horizontal:
			sib.height += d.height
		case geom.Vertical:
			sib.width += d.width
		}
		children := make([]NodeHandle, 0, len(parent.children)-1)
		for _, c := range parent.children {
			if c != h {
				children = append(children, c)
			}
		}
		parent.children = children
		l.freeSubtree(h)
		l.insertSortedEmpty(emptySibling)
	}

	l.invalidateCaches()
	return freed, l.IsEmpty(l.top)
}

// freeDescendantsOf releases every node below h (not h itself), removing
// any empty leaves found along the way from the sorted index.
func (l *Layout) freeDescendantsOf(h NodeHandle) {
	d := l.arena.get(h)
	for _, c := range d.children {
		l.freeSubtree(c)
	}
	d.children = nil
}

// freeSubtree releases h and everything below it.
func (l *Layout) freeSubtree(h NodeHandle) {
	d := l.arena.get(h)
	for _, c := range d.children {
		l.freeSubtree(c)
	}
	if len(d.children) == 0 && d.parttype == nil {
		l.removeSortedEmpty(h)
	}
	l.arena.release(h)
}

func (l *Layout) collectPartLeaves(h NodeHandle) []catalog.PartType {
	d := l.arena.get(h)
	if len(d.children) == 0 {
		if d.parttype != nil {
			return []catalog.PartType{*d.parttype}
		}
		return nil
	}
	var out []catalog.PartType
	for _, c := range d.children {
		out = append(out, l.collectPartLeaves(c)...)
	}
	return out
}

func (l *Layout) insertSortedEmpty(h NodeHandle) {
	area := l.Area(h)
	i := sort.Search(len(l.sortedEmp), func(i int) bool {
		return l.Area(l.sortedEmp[i]) <= area
	})
	l.sortedEmp = append(l.sortedEmp, invalidHandle)
	copy(l.sortedEmp[i+1:], l.sortedEmp[i:])
	l.sortedEmp[i] = h
}

func (l *Layout) removeSortedEmpty(h NodeHandle) {
	for i, c := range l.sortedEmp {
		if c == h {
			l.sortedEmp = append(l.sortedEmp[:i], l.sortedEmp[i+1:]...)
			return
		}
	}
}

// DeepCopy returns an independent Layout with the same tree shape,
// content and id, for ProblemSolution snapshotting of a layout that is
// about to be mutated while an earlier snapshot still references it.
// Mirrors node.rs::create_deep_copy, minus its original_copy_node_map
// (nothing outside the arena holds a node reference to remap).
func (l *Layout) DeepCopy() *Layout {
	cp := &Layout{ID: l.ID, SheetType: l.SheetType}
	cp.sentinel = cp.arena.alloc(nodeData{parent: invalidHandle})
	var copyNode func(h, newParent NodeHandle) NodeHandle
	copyNode = func(h, newParent NodeHandle) NodeHandle {
		d := l.arena.get(h)
		nh := cp.arena.alloc(nodeData{
			width: d.width, height: d.height,
			parttype: d.parttype, nextCutOrient: d.nextCutOrient,
			parent: newParent,
		})
		if len(d.children) > 0 {
			children := make([]NodeHandle, 0, len(d.children))
			for _, c := range d.children {
				children = append(children, copyNode(c, nh))
			}
			cp.arena.get(nh).children = children
		}
		return nh
	}
	cp.top = copyNode(l.top, cp.sentinel)
	cp.arena.get(cp.sentinel).children = []NodeHandle{cp.top}
	for _, h := range cp.collectEmptyLeaves(cp.top) {
		cp.insertSortedEmpty(h)
	}
	return cp
}
