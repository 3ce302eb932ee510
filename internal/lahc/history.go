package lahc

import "github.com/piwi3910/gdrrcut/internal/geom"

// costHistory is the fixed-length FIFO queue LAHC's acceptance test
// compares the current cost against: its front is the cost accepted
// historyLength iterations ago. Grounded on gdrr.rs::lahc's
// VecDeque<Cost> lahc_history.
type costHistory struct {
	items []geom.Cost
}

// newCostHistory starts the queue with a single seed entry, not a full
// capacity's worth: gdrr.rs::lahc seeds lahc_history with one
// empty_problem_cost entry and only grows it to historyLength inside the
// first-accept branch's fill loop (see fillTo). Starting full here would
// leave front() stuck on the trivial seed cost for historyLength-1
// iterations after the first real accept, silently loosening the
// acceptance test.
func newCostHistory(seed geom.Cost) *costHistory {
	return &costHistory{items: []geom.Cost{seed}}
}

func (h *costHistory) front() geom.Cost { return h.items[0] }
func (h *costHistory) back() geom.Cost  { return h.items[len(h.items)-1] }

func (h *costHistory) popFront() {
	h.items = h.items[1:]
}

// fillTo pads the queue back up to capacity by repeating value at the
// back, used right after popFront to restore historyLength.
func (h *costHistory) fillTo(capacity int, value geom.Cost) {
	for len(h.items) < capacity {
		h.items = append(h.items, value)
	}
}

// reset reseeds the queue back down to a single entry, used when the
// coordinator lowers the material limit out from under a worker mid-run
// — mirroring gdrr.rs::lahc's `lahc_history.clear();
// lahc_history.push_back(empty_problem_cost)`, which re-grows from one
// entry exactly like a fresh newCostHistory rather than staying full.
func (h *costHistory) reset(seed geom.Cost) {
	h.items = []geom.Cost{seed}
}
