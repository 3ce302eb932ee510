package problem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/insertion"
)

func testInstance() catalog.Instance {
	part := catalog.PartType{ID: 0, Width: 40, Height: 20}
	sheet := catalog.SheetType{ID: 0, Width: 100, Height: 100, Value: 7}
	return catalog.NewInstance(
		[]catalog.PartDemand{{Type: part, Demand: 3}},
		[]catalog.SheetStock{{Type: sheet, Stock: 2}},
	)
}

func TestImplementBlueprintOpensLayoutFromTemplate(t *testing.T) {
	inst := testInstance()
	p := New(inst, 2.0, rand.New(rand.NewSource(1)))

	ref := insertion.LayoutRef{Kind: insertion.EmptyTemplate, ID: 0, FirstCutOrient: geom.Horizontal}
	tmpl := p.TemplateLayout(ref)
	leaf := tmpl.SortedEmptyNodes()[0]
	pt := inst.Parts[0].Type
	alts := tmpl.GenerateReplacementBlueprints(leaf, pt, geom.Default)

	bp := insertion.InsertionBlueprint{Layout: ref, Original: leaf, Replacements: alts[0], PartType: pt}
	realRef, updates := p.ImplementBlueprint(bp)

	assert.Equal(t, insertion.ExistingLayout, realRef.Kind)
	require.Len(t, p.Layouts(), 1)
	assert.Equal(t, 1, p.SheetQty(0))
	assert.Equal(t, 2, p.PartQty(0))
	assert.NotEmpty(t, updates.Added)
}

func TestRemoveNodeReturnsPartsAndDropsEmptiedLayout(t *testing.T) {
	inst := testInstance()
	p := New(inst, 2.0, rand.New(rand.NewSource(1)))
	pt := inst.Parts[0].Type
	ref := insertion.LayoutRef{Kind: insertion.EmptyTemplate, ID: 0, FirstCutOrient: geom.Horizontal}
	tmpl := p.TemplateLayout(ref)
	leaf := tmpl.SortedEmptyNodes()[0]
	alts := tmpl.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	realRef, _ := p.ImplementBlueprint(insertion.InsertionBlueprint{Layout: ref, Original: leaf, Replacements: alts[0], PartType: pt})

	l := p.Layouts()[realRef.ID]
	freed, dropped := p.RemoveNode(realRef.ID, l.TopNode())
	require.Len(t, freed, 1)
	assert.Equal(t, pt, freed[0])
	assert.False(t, dropped) // top collapses to an empty leaf, not a deleted layout
	assert.Equal(t, 3, p.PartQty(0))
}

func TestSnapshotRestoreRoundTrips(t *testing.T) {
	inst := testInstance()
	p := New(inst, 2.0, rand.New(rand.NewSource(1)))
	before := p.Snapshot(nil)

	pt := inst.Parts[0].Type
	ref := insertion.LayoutRef{Kind: insertion.EmptyTemplate, ID: 0, FirstCutOrient: geom.Horizontal}
	tmpl := p.TemplateLayout(ref)
	leaf := tmpl.SortedEmptyNodes()[0]
	alts := tmpl.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	p.ImplementBlueprint(insertion.InsertionBlueprint{Layout: ref, Original: leaf, Replacements: alts[0], PartType: pt})

	require.Len(t, p.Layouts(), 1)
	p.RestoreFrom(before)
	assert.Empty(t, p.Layouts())
	assert.Equal(t, 3, p.PartQty(0))
	assert.Equal(t, 2, p.SheetQty(0))
}

func TestCopyOnWriteKeepsSnapshotIndependent(t *testing.T) {
	inst := testInstance()
	p := New(inst, 2.0, rand.New(rand.NewSource(1)))
	pt := inst.Parts[0].Type
	ref := insertion.LayoutRef{Kind: insertion.EmptyTemplate, ID: 0, FirstCutOrient: geom.Horizontal}
	tmpl := p.TemplateLayout(ref)
	leaf := tmpl.SortedEmptyNodes()[0]
	alts := tmpl.GenerateReplacementBlueprints(leaf, pt, geom.Default)
	realRef, _ := p.ImplementBlueprint(insertion.InsertionBlueprint{Layout: ref, Original: leaf, Replacements: alts[0], PartType: pt})

	snap := p.Snapshot(nil)
	l := p.Layouts()[realRef.ID]
	remainder := l.SortedEmptyNodes()[0]
	alts2 := l.GenerateReplacementBlueprints(remainder, pt, geom.Default)
	p.ImplementBlueprint(insertion.InsertionBlueprint{Layout: insertion.LayoutRef{Kind: insertion.ExistingLayout, ID: realRef.ID}, Original: remainder, Replacements: alts2[0], PartType: pt})

	snapLayout := snap.layouts[realRef.ID]
	assert.NotEqual(t, l.Usage(), snapLayout.Usage())
}
