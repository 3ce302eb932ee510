package gdrr

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/geom"
	"github.com/piwi3910/gdrrcut/internal/insertion"
)

// maxExistingBlueprintOptions caps how many cached (layout, node) options
// for one part type recreate expands into concrete blueprints before
// choosing among them — gdrr.rs caps this "~20" to bound per-part-type
// work when a layout has many interchangeable empty nodes.
const maxExistingBlueprintOptions = 20

// Recreate greedily reinserts outstanding parts (including any ruin just
// displaced) until either every part type has been placed or given up
// on, or part area given up on this pass exceeds maxPartAreaNotIncluded.
// Returns the updated material-limit budget. Grounded on
// gdrr.rs::recreate.
func (k *Kernel) Recreate(matLimitBudget int64, maxPartAreaNotIncluded uint64) int64 {
	partsToConsider := k.Problem.RemainingPartTypes()
	cache := insertion.NewCache()

	for id, l := range k.Problem.Layouts() {
		ref := insertion.LayoutRef{Kind: insertion.ExistingLayout, ID: id}
		cache.AddForPartTypes(ref, l, partsToConsider)
	}
	for _, ref := range k.Problem.OpenSheetTemplates() {
		tmpl := k.Problem.TemplateLayout(ref)
		cache.AddForPartTypes(ref, tmpl, partsToConsider)
	}

	var partAreaNotIncluded uint64
	rng := k.Problem.RNG()

	for len(partsToConsider) > 0 && partAreaNotIncluded <= maxPartAreaNotIncluded {
		idx := k.selectNextPartType(partsToConsider, cache, rng)
		pt := partsToConsider[idx]

		bp, found := k.selectInsertionBlueprint(pt, cache, &matLimitBudget)
		if !found {
			partAreaNotIncluded += uint64(k.Problem.PartQty(pt.ID)) * pt.Area()
			cache.RemovePartType(pt.ID)
			partsToConsider = append(partsToConsider[:idx], partsToConsider[idx+1:]...)
			continue
		}

		openingNew := bp.Layout.Kind == insertion.EmptyTemplate
		sheetID := bp.Layout.ID
		var sheetType catalog.SheetType
		if openingNew {
			sheetType = k.Problem.Instance.SheetTypeByID(sheetID)
		}

		realRef, updates := k.Problem.ImplementBlueprint(bp)
		l := k.Problem.Layouts()[realRef.ID]
		cache.ApplyUpdates(realRef, l, updates, partsToConsider)

		if openingNew {
			matLimitBudget -= int64(sheetType.Value)
			if k.Problem.SheetQty(sheetID) == 0 {
				for _, orient := range sheetType.AllowedFirstCutOrientations() {
					cache.RemoveLayout(insertion.LayoutRef{Kind: insertion.EmptyTemplate, ID: sheetID, FirstCutOrient: orient})
				}
			}
		}

		if k.Problem.PartQty(pt.ID) == 0 {
			cache.RemovePartType(pt.ID)
			partsToConsider = append(partsToConsider[:idx], partsToConsider[idx+1:]...)
		}
		if cache.IsEmpty() {
			break
		}
	}
	return matLimitBudget
}

// selectNextPartType elects which outstanding part type to attempt next:
// candidates are shuffled to break ties randomly, then blink-selected
// biased toward whichever has the fewest cached insertion options (the
// hardest part to place gets first refusal). Returns an index into
// parts. Grounded on gdrr.rs::select_next_parttype.
func (k *Kernel) selectNextPartType(parts []catalog.PartType, cache *insertion.InsertionOptionCache, rng *rand.Rand) int {
	order := rng.Perm(len(parts))
	counts := make([]int, len(parts))
	for i, origIdx := range order {
		counts[i] = len(cache.ByPartType(parts[origIdx].ID))
	}
	blinked := selectLowestEntry(counts, k.Config.BlinkRate, rng)
	return order[blinked]
}

// selectInsertionBlueprint elects one concrete InsertionBlueprint for pt:
// options targeting already-open layouts are preferred over opening a
// new sheet, and sorted by cost so the blink selector picks the best
// with occasional skips; a new-sheet option is only considered at all if
// its sheet's value fits the remaining material budget, and is picked
// uniformly at random among candidates (no cost-based bias: one sheet is
// as "new" as another). Returns found=false if pt cannot be placed
// anywhere right now. Grounded on gdrr.rs::select_insertion_blueprint.
func (k *Kernel) selectInsertionBlueprint(pt catalog.PartType, cache *insertion.InsertionOptionCache, matLimitBudget *int64) (insertion.InsertionBlueprint, bool) {
	rng := k.Problem.RNG()
	opts := cache.ByPartType(pt.ID)

	var existing, fresh []insertion.InsertionBlueprint
	nExpanded := 0
	for _, opt := range opts {
		switch opt.Layout.Kind {
		case insertion.ExistingLayout:
			if nExpanded >= maxExistingBlueprintOptions {
				continue
			}
			nExpanded++
			l := k.Problem.Layouts()[opt.Layout.ID]
			existing = append(existing, insertion.BuildBlueprints(opt.Layout, l, opt.Node, opt.PartType, opt.Rotation, k.Problem.LeftoverPower)...)
		case insertion.EmptyTemplate:
			sheetType := k.Problem.Instance.SheetTypeByID(opt.Layout.ID)
			if int64(sheetType.Value) > *matLimitBudget {
				continue
			}
			tmpl := k.Problem.TemplateLayout(opt.Layout)
			fresh = append(fresh, insertion.BuildBlueprints(opt.Layout, tmpl, opt.Node, opt.PartType, opt.Rotation, k.Problem.LeftoverPower)...)
		}
	}

	if len(existing) > 0 {
		sort.SliceStable(existing, func(i, j int) bool {
			return geom.Less(existing[i].CostDelta, existing[j].CostDelta)
		})
		idx := selectLowestInRange(len(existing), k.Config.BlinkRate, rng)
		if idx >= len(existing) {
			idx = len(existing) - 1
		}
		return existing[idx], true
	}
	if len(fresh) > 0 {
		return fresh[rng.Intn(len(fresh))], true
	}
	return insertion.InsertionBlueprint{}, false
}
