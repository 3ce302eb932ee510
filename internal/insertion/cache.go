package insertion

import (
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/layout"
)

type nodeKey struct {
	Layout LayoutRef
	Node   layout.NodeHandle
}

// InsertionOptionCache is the bidirectional multi-map recreate queries to
// answer "every way to place part type P" and "every option an edit to
// layout L, node N just invalidated". Grounded on
// original_source/src/util/multi_map.rs (IndexMap<K, Vec<V>>), kept here
// as two synchronised maps rather than one generic MultiMap<K,V> since
// the cache always needs both the by-node and by-part-type views at
// once, not a single arbitrary key.
type InsertionOptionCache struct {
	byNode map[nodeKey][]InsertionOption
	byPart map[int][]InsertionOption
}

// NewCache returns an empty cache.
func NewCache() *InsertionOptionCache {
	return &InsertionOptionCache{
		byNode: make(map[nodeKey][]InsertionOption),
		byPart: make(map[int][]InsertionOption),
	}
}

func (c *InsertionOptionCache) insert(opt InsertionOption) {
	k := nodeKey{Layout: opt.Layout, Node: opt.Node}
	c.byNode[k] = append(c.byNode[k], opt)
	c.byPart[opt.PartType.ID] = append(c.byPart[opt.PartType.ID], opt)
}

// ByNode returns every cached option targeting the given (layout, node).
func (c *InsertionOptionCache) ByNode(ref LayoutRef, node layout.NodeHandle) []InsertionOption {
	return c.byNode[nodeKey{Layout: ref, Node: node}]
}

// ByPartType returns every cached option for the given part type id.
func (c *InsertionOptionCache) ByPartType(partTypeID int) []InsertionOption {
	return c.byPart[partTypeID]
}

// IsEmpty reports whether the cache currently holds no options at all —
// recreate's termination condition for "nothing more fits anywhere".
func (c *InsertionOptionCache) IsEmpty() bool {
	return len(c.byPart) == 0
}

// RemoveNode purges every option that targets node, in either index.
func (c *InsertionOptionCache) RemoveNode(ref LayoutRef, node layout.NodeHandle) {
	k := nodeKey{Layout: ref, Node: node}
	opts := c.byNode[k]
	delete(c.byNode, k)
	for _, opt := range opts {
		c.unindexByPart(opt)
	}
}

// RemoveLayout purges every option targeting any node of the given
// layout; recreate uses it to drop a sheet template whose stock has run
// out.
func (c *InsertionOptionCache) RemoveLayout(ref LayoutRef) {
	for k, opts := range c.byNode {
		if k.Layout != ref {
			continue
		}
		delete(c.byNode, k)
		for _, opt := range opts {
			c.unindexByPart(opt)
		}
	}
}

// RemovePartType purges every option for a part type, used once its
// demand has been fully satisfied.
func (c *InsertionOptionCache) RemovePartType(partTypeID int) {
	opts := c.byPart[partTypeID]
	delete(c.byPart, partTypeID)
	for _, opt := range opts {
		c.unindexByNode(opt)
	}
}

func (c *InsertionOptionCache) unindexByPart(opt InsertionOption) {
	removeOption(c.byPart, opt.PartType.ID, opt)
}

func (c *InsertionOptionCache) unindexByNode(opt InsertionOption) {
	removeOption(c.byNode, nodeKey{Layout: opt.Layout, Node: opt.Node}, opt)
}

func removeOption[K comparable](m map[K][]InsertionOption, key K, opt InsertionOption) {
	list := m[key]
	for i, o := range list {
		if o == opt {
			m[key] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(m[key]) == 0 {
		delete(m, key)
	}
}

var bothRotations = [2]geom.Rotation{geom.Default, geom.Rotated}

// candidateRotations returns the rotations worth geometrically testing
// for pt: both, unless FixedRotation restricts it to one, or the part is
// square (or otherwise rotation-symmetric), in which case Rotated would
// just duplicate Default.
func candidateRotations(pt catalog.PartType) []geom.Rotation {
	out := make([]geom.Rotation, 0, 2)
	for _, r := range bothRotations {
		if !pt.AllowsRotation(r) {
			continue
		}
		if r == geom.Rotated && pt.Size() == pt.RotatedSize() {
			continue // square (or otherwise rotation-symmetric) part: no new option
		}
		out = append(out, r)
	}
	return out
}

// optionForFit builds the single Option a node's set of geometrically
// fitting rotations collapses to: nil Rotation when both of
// candidateRotations' entries fit (spec.md §4.2's "Option with rotation
// = None when both work"), the one concrete Rotation when only one does,
// or ok=false when neither does.
func optionForFit(ref LayoutRef, node layout.NodeHandle, pt catalog.PartType, fitting []geom.Rotation) (opt InsertionOption, ok bool) {
	switch len(fitting) {
	case 0:
		return InsertionOption{}, false
	case 1:
		r := fitting[0]
		return InsertionOption{Layout: ref, Node: node, PartType: pt, Rotation: &r}, true
	default:
		return InsertionOption{Layout: ref, Node: node, PartType: pt, Rotation: nil}, true
	}
}

func fittingRotations(l *layout.Layout, node layout.NodeHandle, pt catalog.PartType, candidates []geom.Rotation) []geom.Rotation {
	var fitting []geom.Rotation
	for _, rot := range candidates {
		if l.InsertionPossible(node, pt, rot) {
			fitting = append(fitting, rot)
		}
	}
	return fitting
}

// AddForPartTypes builds every insertion option for placing any of parts
// into any of l's empty nodes, inserts them into the cache, and returns
// them. Empty nodes are visited largest first (Layout.SortedEmptyNodes);
// since no node beyond one too small to hold a part's minimum footprint
// can hold it either, the scan over nodes for a given part type stops
// the moment that threshold is crossed instead of checking every node.
func (c *InsertionOptionCache) AddForPartTypes(ref LayoutRef, l *layout.Layout, parts []catalog.PartType) []InsertionOption {
	var added []InsertionOption
	nodes := l.SortedEmptyNodes()
	for _, pt := range parts {
		minArea := pt.Area()
		cands := candidateRotations(pt)
		for _, node := range nodes {
			if l.Area(node) < minArea {
				break
			}
			opt, ok := optionForFit(ref, node, pt, fittingRotations(l, node, pt, cands))
			if !ok {
				continue
			}
			c.insert(opt)
			added = append(added, opt)
		}
	}
	return added
}

// ApplyUpdates incrementally reconciles the cache with a Layout edit:
// options on invalidated nodes are dropped, and the newly exposed empty
// nodes are scanned against every part type with outstanding demand.
func (c *InsertionOptionCache) ApplyUpdates(ref LayoutRef, l *layout.Layout, updates layout.CacheUpdates, remainingParts []catalog.PartType) []InsertionOption {
	for _, h := range updates.Invalidated {
		c.RemoveNode(ref, h)
	}
	if len(updates.Added) == 0 || len(remainingParts) == 0 {
		return nil
	}
	var added []InsertionOption
	for _, h := range updates.Added {
		for _, pt := range remainingParts {
			opt, ok := optionForFit(ref, h, pt, fittingRotations(l, h, pt, candidateRotations(pt)))
			if !ok {
				continue
			}
			c.insert(opt)
			added = append(added, opt)
		}
	}
	return added
}
