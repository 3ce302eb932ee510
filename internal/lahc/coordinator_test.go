package lahc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/gdrrcut/internal/applog"
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/config"
)

func tinyInstance() catalog.Instance {
	part := catalog.PartType{ID: 0, Width: 40, Height: 30}
	sheet := catalog.SheetType{ID: 0, Width: 100, Height: 100, Value: 10}
	return catalog.NewInstance(
		[]catalog.PartDemand{{Type: part, Demand: 4}},
		[]catalog.SheetStock{{Type: sheet, Stock: 10}},
	)
}

func TestRunFindsACompleteSolutionWithinIterationBudget(t *testing.T) {
	base := tinyInstance()
	// A cheaper sheet that no part fits keeps the best complete cost above
	// the cheapest sheet value, so the coordinator's early stop never fires
	// and every worker runs its full iteration budget.
	cheap := catalog.SheetStock{Type: catalog.SheetType{ID: 1, Width: 10, Height: 10, Value: 1}, Stock: 1}
	inst := catalog.NewInstance(base.Parts, append(base.Sheets, cheap))
	cfg := config.Default()
	cfg.NThreads = 2
	cfg.AvgNodesRemoved = 3
	cfg.HistoryLength = 5

	outcome := Run(context.Background(), inst, cfg, 0, 200, 0, applog.Nop())

	require.Len(t, outcome.WorkerResults, 2)
	if outcome.BestComplete != nil {
		assert.Equal(t, uint64(0), outcome.BestCompleteCost.PartAreaExcluded)
	}
	for _, r := range outcome.WorkerResults {
		assert.Equal(t, 200, r.Iterations)
	}
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	inst := tinyInstance()
	cfg := config.Default()
	cfg.NThreads = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan Outcome, 1)
	go func() { done <- Run(ctx, inst, cfg, 0, 0, 0, applog.Nop()) }()

	select {
	case outcome := <-done:
		require.Len(t, outcome.WorkerResults, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
