package lahc

import (
	"time"

	"github.com/piwi3910/gdrrcut/internal/gdrr"
	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/problem"
)

// LocalCollector is a worker's side of its channel pair with the
// coordinator. It buffers the last-synced material limit and terminate
// flag so the hot ruin/recreate loop never blocks on a channel except at
// its 100-iteration poll boundary.
type LocalCollector struct {
	workerID  int
	toCoord   chan<- WorkerMessage
	fromCoord <-chan CoordinatorMessage
	matLimit  uint64
	terminate bool
}

// NewLocalCollector builds a worker's collector over its channel pair.
func NewLocalCollector(workerID int, toCoord chan<- WorkerMessage, fromCoord <-chan CoordinatorMessage) *LocalCollector {
	return &LocalCollector{workerID: workerID, toCoord: toCoord, fromCoord: fromCoord, matLimit: UnboundedMaterialLimit}
}

// MaterialLimit returns the last material limit this worker has seen.
func (c *LocalCollector) MaterialLimit() uint64 { return c.matLimit }

// Terminate reports whether the coordinator has asked this worker to stop.
func (c *LocalCollector) Terminate() bool { return c.terminate }

// RxSync drains every coordinator message currently queued, without blocking.
func (c *LocalCollector) RxSync() {
	for {
		select {
		case msg, ok := <-c.fromCoord:
			if !ok {
				c.terminate = true
				return
			}
			switch msg.Kind {
			case SyncMatLimit:
				c.matLimit = msg.MaterialLimit
			case Terminate:
				c.terminate = true
			}
		default:
			return
		}
	}
}

// Report sends one local-improvement update upward. A complete solution
// (no part area excluded) always ships the full snapshot; an incomplete
// one ships in full only while the coordinator has not yet bounded the
// search with a material limit — once it has, the coordinator already
// holds a complete solution to beat, and an incomplete improvement is
// only worth reporting as a stats update. The send is best-effort: a
// worker never blocks waiting for the coordinator to drain.
func (c *LocalCollector) Report(sol *problem.ProblemSolution, cost geom.Cost) {
	kind := IncompleteSolution
	switch {
	case cost.PartAreaExcluded == 0:
		kind = CompleteSolution
	case c.matLimit != UnboundedMaterialLimit:
		kind = StatsOnly
	}
	msg := WorkerMessage{WorkerID: c.workerID, Kind: kind, Cost: cost, Solution: sol}
	if kind == StatsOnly {
		msg.Solution = nil
	}
	select {
	case c.toCoord <- msg:
	default:
	}
}

// Result summarises one worker's run for the coordinator's final report.
type Result struct {
	BestSolution *problem.ProblemSolution
	BestCost     geom.Cost
	Iterations   int
	Accepted     int
	Improved     int
}

// RunWorker drives one independent LAHC search until collector observes
// Terminate, maxIterations is reached (0 means unbounded), or deadline
// has passed (the zero Time means unbounded). Grounded on
// gdrr.rs::lahc.
func RunWorker(k *gdrr.Kernel, collector *LocalCollector, maxIterations int, deadline time.Time) Result {
	emptyCost := geom.Cost{PartAreaExcluded: k.Problem.Instance.TotalPartArea}
	history := newCostHistory(emptyCost)

	matLimit := collector.MaterialLimit()
	var localOptimum *problem.ProblemSolution
	// baseline is what a rejected iteration restores to: the last
	// accepted snapshot, or (before any accept) the state Problem
	// started this worker's run in. The source restores from
	// local_optimum directly; since that is legitimately None before
	// the first accept, this baseline stands in for it rather than
	// leaving the very first reject with nothing to roll back to.
	baseline := k.Problem.Snapshot(nil)

	result := Result{BestCost: emptyCost}
	nIterations, nAccepted, nImproved := 0, 0, 0

	for {
		if maxIterations > 0 && nIterations >= maxIterations {
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
		if collector.Terminate() {
			break
		}

		currentCost := k.Problem.Cost()
		if localOptimum != nil {
			currentCost = localOptimum.Cost()
		}
		var matBudget int64
		if matLimit == UnboundedMaterialLimit {
			matBudget = 1 << 60
		} else {
			matBudget = int64(matLimit) - 1 - int64(currentCost.MaterialCost)
		}
		matBudget = k.Ruin(matBudget)

		maxExcluded := history.front().PartAreaExcluded
		if localOptimum != nil && localOptimum.Cost().PartAreaExcluded > maxExcluded {
			maxExcluded = localOptimum.Cost().PartAreaExcluded
		}
		k.Recreate(matBudget, maxExcluded)

		cost := k.Problem.Cost()
		accept := geom.LessOrEqual(cost, history.front())
		if !accept && localOptimum != nil {
			accept = geom.LessOrEqual(cost, localOptimum.Cost())
		}

		if accept {
			localOptimum = k.Problem.Snapshot(&cost)
			baseline = localOptimum
			prevBack := history.back()
			history.popFront()
			if geom.Less(cost, prevBack) {
				history.fillTo(k.Config.HistoryLength, cost)
				nImproved++
				collector.Report(localOptimum, cost)
				if result.BestSolution == nil || geom.Less(cost, result.BestCost) {
					result.BestSolution, result.BestCost = localOptimum, cost
				}
			} else {
				history.fillTo(k.Config.HistoryLength, prevBack)
			}
			nAccepted++
		} else {
			k.Problem.RestoreFrom(baseline)
		}

		if newLimit := collector.MaterialLimit(); newLimit < matLimit {
			matLimit = newLimit
			localOptimum = nil
			baseline = k.Problem.Snapshot(nil)
			history.reset(emptyCost)
		}

		nIterations++
		if nIterations%100 == 0 {
			collector.RxSync()
		}
	}

	result.Iterations, result.Accepted, result.Improved = nIterations, nAccepted, nImproved
	return result
}
