package gdrr

import (
	"math/rand"
	"sort"
)

// selectLowestInRange walks a range already sorted best-first, skipping
// ("blinking past") each index with probability blinkRate, and returns
// the first index not skipped — or n if every index was skipped, meaning
// "fall through to the next-best strategy". Mirrors
// util/blink.rs::select_lowest exactly; gdrr.rs's select_lowest_in_range
// calls are this same function under a name matching its call sites.
func selectLowestInRange(n int, blinkRate float64, rng *rand.Rand) int {
	for i := 0; i < n; i++ {
		if rng.Float64() > blinkRate {
			return i
		}
	}
	return n
}

// selectLowestEntry picks, among counts (unsorted, indexed like the
// caller's own slice), the index of the entry with the lowest value,
// using the same blink-skip walk as selectLowestInRange but over counts
// sorted ascending first. gdrr.rs uses this to elect which part type to
// place next: the one with the fewest cached insertion options (hardest
// to place), with blink skipping to avoid always picking the strict
// minimum.
func selectLowestEntry(counts []int, blinkRate float64, rng *rand.Rand) int {
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] < counts[order[j]] })
	pos := selectLowestInRange(len(order), blinkRate, rng)
	if pos >= len(order) {
		pos = len(order) - 1
	}
	return order[pos]
}
