package lahc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/gdrrcut/internal/geom"
)

func TestCostHistoryStartsWithASingleSeedEntry(t *testing.T) {
	seed := geom.Cost{MaterialCost: 10}
	h := newCostHistory(seed)
	assert.Len(t, h.items, 1)
	assert.Equal(t, seed, h.front())
	assert.Equal(t, seed, h.back())
}

func TestCostHistoryFirstAcceptGrowsStraightToCapacity(t *testing.T) {
	seed := geom.Cost{MaterialCost: 10}
	h := newCostHistory(seed)

	// The first accept pops the lone seed entry and must grow the queue
	// all the way to historyLength in one step, so front() reflects the
	// improvement immediately instead of staying pinned to seed for
	// historyLength-1 further iterations.
	h.popFront()
	improved := geom.Cost{MaterialCost: 5}
	h.fillTo(3, improved)
	assert.Len(t, h.items, 3)
	assert.Equal(t, improved, h.front())
	assert.Equal(t, improved, h.back())
}

func TestCostHistorySteadyStateShiftsOneSlotAtATime(t *testing.T) {
	h := newCostHistory(geom.Cost{MaterialCost: 10})
	h.popFront()
	h.fillTo(3, geom.Cost{MaterialCost: 10}) // grown to capacity, all equal.

	prevBack := h.back()
	h.popFront()
	next := geom.Cost{MaterialCost: 1}
	h.fillTo(3, next)
	assert.Len(t, h.items, 3)
	assert.Equal(t, prevBack, h.front())
	assert.Equal(t, next, h.back())
}

func TestCostHistoryResetCollapsesBackToASingleEntry(t *testing.T) {
	h := newCostHistory(geom.Cost{MaterialCost: 10})
	h.popFront()
	h.fillTo(3, geom.Cost{MaterialCost: 5})

	h.reset(geom.Cost{MaterialCost: 99})
	assert.Len(t, h.items, 1)
	assert.Equal(t, geom.Cost{MaterialCost: 99}, h.front())
	assert.Equal(t, geom.Cost{MaterialCost: 99}, h.back())
}

func TestLocalCollectorRxSyncAppliesMatLimitAndTerminate(t *testing.T) {
	toCoord := make(chan WorkerMessage, 4)
	fromCoord := make(chan CoordinatorMessage, 4)
	c := NewLocalCollector(0, toCoord, fromCoord)
	assert.Equal(t, UnboundedMaterialLimit, c.MaterialLimit())
	assert.False(t, c.Terminate())

	fromCoord <- CoordinatorMessage{Kind: SyncMatLimit, MaterialLimit: 42}
	c.RxSync()
	assert.Equal(t, uint64(42), c.MaterialLimit())
	assert.False(t, c.Terminate())

	fromCoord <- CoordinatorMessage{Kind: Terminate}
	c.RxSync()
	assert.True(t, c.Terminate())
}

func TestLocalCollectorReportClassifiesCompleteIncompleteAndStats(t *testing.T) {
	toCoord := make(chan WorkerMessage, 4)
	fromCoord := make(chan CoordinatorMessage, 4)
	c := NewLocalCollector(1, toCoord, fromCoord)

	c.Report(nil, geom.Cost{PartAreaExcluded: 0})
	msg := <-toCoord
	assert.Equal(t, CompleteSolution, msg.Kind)

	c.Report(nil, geom.Cost{PartAreaExcluded: 10})
	msg = <-toCoord
	assert.Equal(t, IncompleteSolution, msg.Kind)

	fromCoord <- CoordinatorMessage{Kind: SyncMatLimit, MaterialLimit: 7}
	c.RxSync()
	c.Report(nil, geom.Cost{PartAreaExcluded: 10})
	msg = <-toCoord
	assert.Equal(t, StatsOnly, msg.Kind)
	assert.Nil(t, msg.Solution)
}

func TestLocalCollectorReportNeverBlocksOnFullChannel(t *testing.T) {
	toCoord := make(chan WorkerMessage)
	fromCoord := make(chan CoordinatorMessage)
	c := NewLocalCollector(0, toCoord, fromCoord)

	done := make(chan struct{})
	go func() {
		c.Report(nil, geom.Cost{PartAreaExcluded: 0})
		close(done)
	}()
	<-done
}
