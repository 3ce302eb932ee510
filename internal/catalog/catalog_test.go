package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/gdrrcut/internal/geom"
)

func TestPartTypeRotationAndArea(t *testing.T) {
	p := PartType{ID: 0, Width: 40, Height: 60}
	assert.Equal(t, uint64(2400), p.Area())
	assert.Equal(t, geom.NewSize(40, 60), p.Size())
	assert.Equal(t, geom.NewSize(60, 40), p.RotatedSize())
	assert.True(t, p.AllowsRotation(geom.Default))
	assert.True(t, p.AllowsRotation(geom.Rotated))

	fixed := geom.Default
	p.FixedRotation = &fixed
	assert.True(t, p.AllowsRotation(geom.Default))
	assert.False(t, p.AllowsRotation(geom.Rotated))
}

func TestInstanceTotals(t *testing.T) {
	parts := []PartDemand{
		{Type: PartType{ID: 0, Width: 10, Height: 10}, Demand: 2},
		{Type: PartType{ID: 1, Width: 5, Height: 20}, Demand: 3},
	}
	sheets := []SheetStock{
		{Type: SheetType{ID: 0, Width: 100, Height: 100, Value: 5}, Stock: 4},
	}
	inst := NewInstance(parts, sheets)

	require.Equal(t, uint64(100*2+100*3), inst.TotalPartArea)
	require.Equal(t, 5, inst.TotalPartQty)

	qty := inst.InitialPartQuantities()
	assert.Equal(t, []int{2, 3}, qty)

	sheetQty := inst.InitialSheetQuantities()
	assert.Equal(t, []int{4}, sheetQty)
}

func TestInstanceUnboundedStock(t *testing.T) {
	sheets := []SheetStock{
		{Type: SheetType{ID: 0, Width: 10, Height: 10, Value: 1}, Unbounded: true},
	}
	inst := NewInstance(nil, sheets)
	qty := inst.InitialSheetQuantities()
	assert.Equal(t, UnboundedStock, qty[0])
}
