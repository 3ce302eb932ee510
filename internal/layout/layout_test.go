package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
)

func newTestLayout(w, h uint64) *Layout {
	sheet := catalog.SheetType{ID: 0, Width: w, Height: h, Value: 10}
	return New(0, sheet, geom.Horizontal)
}

func TestNewLayoutStartsAsOneEmptyLeaf(t *testing.T) {
	l := newTestLayout(100, 200)
	require.True(t, l.IsEmpty())
	require.Len(t, l.SortedEmptyNodes(), 1)
	assert.Equal(t, geom.NewSize(100, 200), l.Size(l.TopNode()))
	assert.Equal(t, geom.Vertical, l.NextCutOrient(l.SortedEmptyNodes()[0]))
}

func TestExactFitCollapsesToSinglePartNode(t *testing.T) {
	l := newTestLayout(100, 200)
	leaf := l.SortedEmptyNodes()[0]
	pt := catalog.PartType{ID: 0, Width: 100, Height: 200}
	require.True(t, l.InsertionPossible(leaf, pt, geom.Default))

	alts := l.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	require.Len(t, alts, 1)
	require.Len(t, alts[0], 1)
	assert.NotNil(t, alts[0][0].PartType)

	l.ImplementReplacement(leaf, alts[0])
	assert.False(t, l.IsEmpty())
	assert.Empty(t, l.SortedEmptyNodes())
	assert.Equal(t, 1.0, l.Usage())
}

func TestParallelSplitLeavesOneRemainder(t *testing.T) {
	l := newTestLayout(100, 200)
	leaf := l.SortedEmptyNodes()[0] // next_cut_orient = Vertical (rotate of Horizontal)
	pt := catalog.PartType{ID: 0, Width: 100, Height: 50}

	alts := l.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	require.Len(t, alts, 1)
	require.Len(t, alts[0], 2)

	l.ImplementReplacement(leaf, alts[0])
	require.Len(t, l.SortedEmptyNodes(), 1)
	remainder := l.SortedEmptyNodes()[0]
	assert.Equal(t, geom.NewSize(100, 150), l.Size(remainder))
}

func TestGeneralSplitEmitsBothBlueprintOrders(t *testing.T) {
	l := newTestLayout(100, 200)
	leaf := l.SortedEmptyNodes()[0]
	// Matches neither width nor height: forces scenario 4.
	pt := catalog.PartType{ID: 0, Width: 40, Height: 60}

	alts := l.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	require.Len(t, alts, 2, "both same-direction-first and opposite-direction-first must be emitted")
	// Same-direction-first: a part-holding structure plus a remainder sibling.
	require.Len(t, alts[0], 2)
	// Opposite-direction-first: one full-size wrapper nesting both levels.
	require.Len(t, alts[1], 1)
}

func TestMaxStagesFiltersOutTheDeeperBlueprintOrder(t *testing.T) {
	sheet := catalog.SheetType{ID: 0, Width: 100, Height: 200, Value: 10, MaxStages: 2}
	l := New(0, sheet, geom.Horizontal)
	leaf := l.SortedEmptyNodes()[0]
	// Matches neither width nor height: forces scenario 4. Leaf sits at
	// depth 1; the same-direction-first alternative nests one stage
	// deeper (depth 2, within the limit) but opposite-direction-first
	// nests two stages deeper (depth 3, over the limit) and must be
	// dropped.
	pt := catalog.PartType{ID: 0, Width: 40, Height: 60}

	alts := l.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	require.Len(t, alts, 1, "the deeper opposite-direction-first order must be filtered by MaxStages")
}

func TestMaxStagesZeroMeansUnlimited(t *testing.T) {
	l := newTestLayout(100, 200)
	leaf := l.SortedEmptyNodes()[0]
	pt := catalog.PartType{ID: 0, Width: 40, Height: 60}

	alts := l.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	require.Len(t, alts, 2)
}

func TestRemoveNodeScenario1MergesIntoSibling(t *testing.T) {
	l := newTestLayout(100, 100)
	leaf := l.SortedEmptyNodes()[0]
	ptA := catalog.PartType{ID: 0, Width: 100, Height: 30}
	alts := l.GenerateReplacementBlueprints(leaf, ptA, geom.Default)
	l.ImplementReplacement(leaf, alts[0])

	remainder := l.SortedEmptyNodes()[0]
	ptB := catalog.PartType{ID: 1, Width: 100, Height: 30}
	alts2 := l.GenerateReplacementBlueprints(remainder, ptB, geom.Default)
	l.ImplementReplacement(remainder, alts2[0])

	// Tree now has 3 children under top: partA, partB, remainder(empty).
	require.Len(t, l.Children(l.TopNode()), 3)
	partNodes := l.GetRemovableNodes()
	require.NotEmpty(t, partNodes)

	partBHandle := findPartNode(l, l.TopNode(), ptB.ID)
	require.True(t, partBHandle.found)

	freed, emptied := l.RemoveNode(partBHandle.handle)
	require.Len(t, freed, 1)
	assert.Equal(t, ptB, freed[0])
	assert.False(t, emptied)
	require.Len(t, l.Children(l.TopNode()), 2)
	require.Len(t, l.SortedEmptyNodes(), 1)
	assert.Equal(t, geom.NewSize(100, 70), l.Size(l.SortedEmptyNodes()[0]))
}

func TestRemoveNodeScenario3CollapsesParent(t *testing.T) {
	l := newTestLayout(100, 100)
	leaf := l.SortedEmptyNodes()[0]
	pt := catalog.PartType{ID: 0, Width: 100, Height: 30}
	alts := l.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	l.ImplementReplacement(leaf, alts[0])

	// Exactly two children remain under top: the part and the remainder.
	require.Len(t, l.Children(l.TopNode()), 2)
	partHandle := findPartNode(l, l.TopNode(), pt.ID)
	require.True(t, partHandle.found)

	freed, emptied := l.RemoveNode(partHandle.handle)
	require.Len(t, freed, 1)
	assert.True(t, emptied)
	assert.True(t, l.IsEmpty())
	require.Len(t, l.SortedEmptyNodes(), 1)
	assert.Equal(t, geom.NewSize(100, 100), l.Size(l.SortedEmptyNodes()[0]))
}

func TestRemoveTopNodeDropsWholeLayout(t *testing.T) {
	l := newTestLayout(100, 100)
	leaf := l.SortedEmptyNodes()[0]
	pt := catalog.PartType{ID: 0, Width: 100, Height: 100}
	alts := l.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	l.ImplementReplacement(leaf, alts[0])

	_, emptied := l.RemoveNode(l.TopNode())
	assert.True(t, emptied)
	assert.True(t, l.IsEmpty())
}

func TestDeepCopyIsIndependent(t *testing.T) {
	l := newTestLayout(50, 50)
	leaf := l.SortedEmptyNodes()[0]
	pt := catalog.PartType{ID: 0, Width: 50, Height: 20}
	alts := l.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	l.ImplementReplacement(leaf, alts[0])

	cp := l.DeepCopy()
	require.Equal(t, l.Usage(), cp.Usage())

	remainder := cp.SortedEmptyNodes()[0]
	pt2 := catalog.PartType{ID: 1, Width: 50, Height: 30}
	alts2 := cp.GenerateReplacementBlueprints(remainder, pt2, geom.Default)
	cp.ImplementReplacement(remainder, alts2[0])

	assert.NotEqual(t, l.Usage(), cp.Usage())
	assert.Len(t, l.SortedEmptyNodes(), 1)
	assert.Empty(t, cp.SortedEmptyNodes())
}

// --- test helpers ---

type layoutHandleFinder struct {
	handle NodeHandle
	found  bool
}

func findPartNode(l *Layout, h NodeHandle, partID int) layoutHandleFinder {
	if pt := l.PartType(h); pt != nil && pt.ID == partID {
		return layoutHandleFinder{handle: h, found: true}
	}
	for _, c := range l.Children(h) {
		if r := findPartNode(l, c, partID); r.found {
			return r
		}
	}
	return layoutHandleFinder{}
}
