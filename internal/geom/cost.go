package geom

import "math"

// LeftoverValue returns the value assigned to an empty leaf of the given
// area under exponent power: area^power. The source keeps the exponent in
// a process-wide lock; here it is threaded explicitly by the caller
// (internal/problem.Problem stores it per-instance at construction, see
// design notes in DESIGN.md) so no global mutable state is needed.
func LeftoverValue(area uint64, power float64) float64 {
	return math.Pow(float64(area), power)
}

// Cost is the four-component value of a (partial) solution. Addition and
// subtraction are componentwise; part_area_excluded + part_area_included
// is invariant at the Problem level: it always equals the instance's
// total demanded part area.
//
// The source mixes f32 and f64 for leftover valuation and usage; this
// port standardises on float64 throughout cost arithmetic, including the
// leftover-valuation exponent (config.Config.LeftoverValuationPower, passed
// to LeftoverValue above).
type Cost struct {
	MaterialCost      uint64
	LeftoverValue     float64
	PartAreaExcluded  uint64
	PartAreaIncluded  uint64
}

// Zero is the additive identity.
func Zero() Cost {
	return Cost{}
}

// Add returns the componentwise sum.
func (c Cost) Add(other Cost) Cost {
	return Cost{
		MaterialCost:     c.MaterialCost + other.MaterialCost,
		LeftoverValue:    c.LeftoverValue + other.LeftoverValue,
		PartAreaExcluded: c.PartAreaExcluded + other.PartAreaExcluded,
		PartAreaIncluded: c.PartAreaIncluded + other.PartAreaIncluded,
	}
}

// Sub returns the componentwise difference. Callers must ensure this
// does not underflow the unsigned fields (the guillotine tree never
// produces a negative aggregate in practice).
func (c Cost) Sub(other Cost) Cost {
	return Cost{
		MaterialCost:     c.MaterialCost - other.MaterialCost,
		LeftoverValue:    c.LeftoverValue - other.LeftoverValue,
		PartAreaExcluded: c.PartAreaExcluded - other.PartAreaExcluded,
		PartAreaIncluded: c.PartAreaIncluded - other.PartAreaIncluded,
	}
}

// PartAreaFractionIncluded returns the fraction of total part area that
// is included, or 0 if no part area is tracked at all.
func (c Cost) PartAreaFractionIncluded() float64 {
	total := c.PartAreaExcluded + c.PartAreaIncluded
	if total == 0 {
		return 0
	}
	return float64(c.PartAreaIncluded) / float64(total)
}

// Compare is the strict weak order used by LAHC, the recreate selector,
// and the tests (spec §4.4, §9): ascending PartAreaExcluded is primary
// (fewer excluded parts is better), descending LeftoverValue is the
// tie-breaker (larger leftovers are more valuable). It returns a
// negative number if a is better than b, positive if worse, 0 if equal
// under this order.
func Compare(a, b Cost) int {
	if a.PartAreaExcluded != b.PartAreaExcluded {
		if a.PartAreaExcluded < b.PartAreaExcluded {
			return -1
		}
		return 1
	}
	if a.LeftoverValue != b.LeftoverValue {
		if a.LeftoverValue > b.LeftoverValue {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether a strictly precedes b under Compare.
func Less(a, b Cost) bool {
	return Compare(a, b) < 0
}

// LessOrEqual reports whether a is no worse than b under Compare.
func LessOrEqual(a, b Cost) bool {
	return Compare(a, b) <= 0
}
