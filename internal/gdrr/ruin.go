package gdrr

import (
	"math/rand"

	"github.com/piwi3910/gdrrcut/internal/apperr"
	"github.com/piwi3910/gdrrcut/internal/layout"
)

type layoutUsage struct {
	id    int
	usage float64
}

// ruinCount draws how many nodes to tear out this pass. spec.md §6
// resolves gdrr.rs's `gen_range(2..(avg-2)*2+1) + 2` formula (whose
// final "+2" double-offset reads as a source quirk, not a deliberate
// design) as the simpler "uniform over [2, 2*avgNodesRemoved-3]" the
// spec table states directly.
func ruinCount(avgNodesRemoved int, rng *rand.Rand) int {
	hi := 2*avgNodesRemoved - 3
	if hi < 2 {
		hi = 2
	}
	return rng.Intn(hi-2+1) + 2
}

// Ruin tears nodes out of the Problem's layouts and returns the updated
// material-limit budget. While budget is non-negative it removes
// ruinCount nodes, each from a layout chosen by biased sampling weighted
// toward low usage (preserve good layouts, rough up bad ones) and then a
// uniformly random removable node within it. Once budget has gone
// negative (ruin is recovering from over the material limit) it
// switches to deterministic worst-first: repeatedly drop the single
// lowest-usage layout's TopNode wholesale until the budget is no longer
// negative. Grounded on gdrr.rs::ruin.
func (k *Kernel) Ruin(matLimitBudget int64) int64 {
	rng := k.Problem.RNG()

	if matLimitBudget >= 0 {
		n := ruinCount(k.Config.AvgNodesRemoved, rng)
		for i := 0; i < n; i++ {
			layoutID, ok := k.pickBiasedLowUsageLayout(rng)
			if !ok {
				break
			}
			l := k.Problem.Layouts()[layoutID]
			removable := l.GetRemovableNodes()
			if len(removable) == 0 {
				continue
			}
			node := removable[rng.Intn(len(removable))]
			sheetValue := l.SheetType.Value
			_, dropped := k.Problem.RemoveNode(layoutID, node)
			if dropped {
				matLimitBudget += int64(sheetValue)
			}
		}
		return matLimitBudget
	}

	for matLimitBudget < 0 {
		layoutID, l, ok := k.worstUsageLayout()
		if !ok {
			break
		}
		sheetValue := l.SheetType.Value
		_, dropped := k.Problem.RemoveNode(layoutID, l.TopNode())
		if !dropped {
			apperr.Invariant("gdrr: removing a layout's TopNode must always empty the whole layout")
		}
		matLimitBudget += int64(sheetValue)
	}
	return matLimitBudget
}

func (k *Kernel) pickBiasedLowUsageLayout(rng *rand.Rand) (int, bool) {
	layouts := k.Problem.Layouts()
	if len(layouts) == 0 {
		return 0, false
	}
	entries := make([]layoutUsage, 0, len(layouts))
	for id, l := range layouts {
		entries = append(entries, layoutUsage{id: id, usage: l.Usage()})
	}
	picked, ok := biasedSample(entries, func(a, b layoutUsage) bool { return a.usage < b.usage }, rng)
	if !ok {
		return 0, false
	}
	return picked.id, true
}

func (k *Kernel) worstUsageLayout() (int, *layout.Layout, bool) {
	var bestID int
	var best *layout.Layout
	found := false
	for id, l := range k.Problem.Layouts() {
		if !found || l.Usage() < best.Usage() {
			bestID, best, found = id, l, true
		}
	}
	return bestID, best, found
}
