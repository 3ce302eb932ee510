// Package lahc is the Late-Acceptance Hill-Climbing driver: one worker
// goroutine per configured thread, each running an independent
// ruin/recreate search over its own gdrr.Kernel/problem.Problem, and a
// coordinator that tracks the global-best complete and incomplete
// solutions and the shrinking material limit all workers search under.
//
// Grounded on gdrr.rs::lahc for the per-worker loop and spec.md §5 for
// the worker/coordinator message-passing model (the source's own
// coordinator/thread plumbing was not present in the retrieved corpus);
// the channel/goroutine/select idiom itself follows
// junjiewwang-perf-analysis/pkg/parallel/worker_pool.go.
package lahc

import (
	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/problem"
)

// WorkerMessageKind distinguishes how much of a local improvement a
// worker ships to the coordinator.
type WorkerMessageKind int

const (
	StatsOnly WorkerMessageKind = iota
	IncompleteSolution
	CompleteSolution
)

// WorkerMessage is one worker -> coordinator update.
type WorkerMessage struct {
	WorkerID int
	Kind     WorkerMessageKind
	Cost     geom.Cost
	Solution *problem.ProblemSolution
}

// CoordinatorMessageKind distinguishes the coordinator's two control
// messages.
type CoordinatorMessageKind int

const (
	SyncMatLimit CoordinatorMessageKind = iota
	Terminate
)

// CoordinatorMessage is one coordinator -> worker control message.
type CoordinatorMessage struct {
	Kind          CoordinatorMessageKind
	MaterialLimit uint64
}

// UnboundedMaterialLimit is the sentinel a worker starts with before the
// coordinator has found any complete solution to bound the search by.
const UnboundedMaterialLimit = ^uint64(0)
