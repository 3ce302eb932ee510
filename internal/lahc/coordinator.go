package lahc

import (
	"context"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/gdrrcut/internal/applog"
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/config"
	"github.com/piwi3910/gdrrcut/internal/gdrr"
	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/problem"
)

// Outcome is what Run reports once every worker has stopped: the best
// complete solution found (if any), the best incomplete one (tracked so
// a caller still gets a usable partial result when no complete packing
// was reached), and per-worker statistics.
type Outcome struct {
	RunID              uuid.UUID
	BestComplete       *problem.ProblemSolution
	BestCompleteCost   geom.Cost
	BestIncomplete     *problem.ProblemSolution
	BestIncompleteCost geom.Cost
	WorkerResults      []Result
}

// Run spawns cfg.NThreads independent LAHC workers over copies of inst
// and drives them to completion, fanning their improvement reports
// through a coordinator that tracks the global-best solutions and
// narrows the material limit every worker searches under once a
// complete packing is found. It returns once every worker has stopped,
// either because ctx was cancelled, maxRunTime elapsed, maxRRIterations
// was reached, or the coordinator decided no cheaper complete solution
// is reachable (the current best already costs the cheapest sheet).
//
// baseSeed, when non-zero, makes every worker's RNG a deterministic
// function of it (for reproducible runs, e.g. the CLI's --seed flag);
// zero derives the seed from a fresh per-run UUID instead.
//
// Grounded on spec.md §5's worker/coordinator message-passing model;
// the channel/goroutine/select plumbing follows
// junjiewwang-perf-analysis/pkg/parallel/worker_pool.go.
func Run(ctx context.Context, inst catalog.Instance, cfg *config.Config, maxRunTime time.Duration, maxRRIterations int, baseSeed int64, logger applog.Logger) Outcome {
	if logger == nil {
		logger = applog.Nop()
	}
	runID := uuid.New()
	if baseSeed != 0 {
		var seedBytes [8]byte
		binary.BigEndian.PutUint64(seedBytes[:], uint64(baseSeed))
		copy(runID[:8], seedBytes[:])
	}
	logger = logger.WithField("runID", runID)

	var deadline time.Time
	if maxRunTime > 0 {
		deadline = time.Now().Add(maxRunTime)
	}

	nWorkers := cfg.NThreads
	toCoord := make(chan WorkerMessage, nWorkers*4)
	fromCoord := make([]chan CoordinatorMessage, nWorkers)
	for i := range fromCoord {
		fromCoord[i] = make(chan CoordinatorMessage, 4)
	}

	results := make([]Result, nWorkers)
	var wg sync.WaitGroup
	wg.Add(nWorkers)
	for i := 0; i < nWorkers; i++ {
		go func(workerID int) {
			defer wg.Done()
			rng := workerRNG(runID, workerID)
			p := problem.New(inst, cfg.LeftoverValuationPower, rng)
			k := &gdrr.Kernel{Problem: p, Config: cfg}
			collector := NewLocalCollector(workerID, toCoord, fromCoord[workerID])
			results[workerID] = RunWorker(k, collector, maxRRIterations, deadline)
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	outcome := Outcome{RunID: runID, BestIncompleteCost: geom.Cost{PartAreaExcluded: inst.TotalPartArea}}
	floor := minSheetValue(inst)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	terminated := false
	terminate := func() {
		if terminated {
			return
		}
		terminated = true
		broadcastTerminate(fromCoord)
	}

loop:
	for {
		select {
		case <-ctx.Done():
			terminate()
		case msg := <-toCoord:
			improved := applyWorkerMessage(&outcome, msg, logger)
			if improved && outcome.BestComplete != nil {
				broadcastMatLimit(fromCoord, outcome.BestCompleteCost.MaterialCost)
				if outcome.BestCompleteCost.MaterialCost <= floor {
					terminate()
				}
			}
		case <-ticker.C:
			if !deadline.IsZero() && !time.Now().Before(deadline) {
				terminate()
			}
		case <-done:
			break loop
		}
	}

	// Drain whatever arrived between the last select iteration and
	// every worker actually exiting.
	for {
		select {
		case msg := <-toCoord:
			applyWorkerMessage(&outcome, msg, logger)
		default:
			outcome.WorkerResults = results
			return outcome
		}
	}
}

// applyWorkerMessage folds one worker report into outcome, returning
// whether it improved the tracked best. StatsOnly messages never carry
// a solution and never improve anything.
func applyWorkerMessage(outcome *Outcome, msg WorkerMessage, logger applog.Logger) bool {
	switch msg.Kind {
	case CompleteSolution:
		if msg.Solution != nil && (outcome.BestComplete == nil || geom.Less(msg.Cost, outcome.BestCompleteCost)) {
			outcome.BestComplete, outcome.BestCompleteCost = msg.Solution, msg.Cost
			logger.Info("worker %d reported a new best complete solution, material cost %d", msg.WorkerID, msg.Cost.MaterialCost)
			return true
		}
	case IncompleteSolution:
		if msg.Solution != nil && geom.Less(msg.Cost, outcome.BestIncompleteCost) {
			outcome.BestIncomplete, outcome.BestIncompleteCost = msg.Solution, msg.Cost
		}
	}
	return false
}

func broadcastTerminate(fromCoord []chan CoordinatorMessage) {
	for _, ch := range fromCoord {
		select {
		case ch <- CoordinatorMessage{Kind: Terminate}:
		default:
		}
	}
}

func broadcastMatLimit(fromCoord []chan CoordinatorMessage, limit uint64) {
	for _, ch := range fromCoord {
		select {
		case ch <- CoordinatorMessage{Kind: SyncMatLimit, MaterialLimit: limit}:
		default:
		}
	}
}

// minSheetValue is the cheapest any complete solution could ever cost:
// once a complete solution reaches it, no ruin/recreate pass can do
// better and the search can stop early.
func minSheetValue(inst catalog.Instance) uint64 {
	if len(inst.Sheets) == 0 {
		return 0
	}
	min := inst.Sheets[0].Type.Value
	for _, s := range inst.Sheets[1:] {
		if s.Type.Value < min {
			min = s.Type.Value
		}
	}
	return min
}

// workerRNG derives a worker's seed from the run id and its index, so a
// run is reproducible given the same runID while every worker still
// explores independently.
func workerRNG(runID uuid.UUID, workerID int) *rand.Rand {
	seedBytes := runID[:8]
	seed := int64(binary.BigEndian.Uint64(seedBytes)) ^ int64(workerID)*0x9E3779B97F4A7C15
	return rand.New(rand.NewSource(seed))
}
