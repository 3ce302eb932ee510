package catalog

// PartDemand pairs a PartType with how many are required.
type PartDemand struct {
	Type   PartType
	Demand int
}

// SheetStock pairs a SheetType with how many are available. Unbounded set
// means unbounded stock (Stock is then ignored); the flag is separate
// because a Stock of 0 is a legitimate "none left" state once consumed.
type SheetStock struct {
	Type     SheetType
	Stock    int
	Unbounded bool
}

// Instance is the immutable input catalog: parts and sheets in input
// order, with demand/stock quantities and precomputed totals.
type Instance struct {
	Parts          []PartDemand
	Sheets         []SheetStock
	TotalPartArea  uint64
	TotalPartQty   int
}

// NewInstance builds an Instance, precomputing the area/qty totals; it
// does not assign IDs. Callers must have already set
// PartType.ID/SheetType.ID to the slice index (io.ParseInstance does
// this); NewInstance only aggregates.
func NewInstance(parts []PartDemand, sheets []SheetStock) Instance {
	var totalArea uint64
	var totalQty int
	for _, p := range parts {
		totalArea += p.Type.Area() * uint64(p.Demand)
		totalQty += p.Demand
	}
	return Instance{
		Parts:         parts,
		Sheets:        sheets,
		TotalPartArea: totalArea,
		TotalPartQty:  totalQty,
	}
}

// PartTypeByID returns the PartType with the given id.
func (inst Instance) PartTypeByID(id int) PartType {
	return inst.Parts[id].Type
}

// SheetTypeByID returns the SheetType with the given id.
func (inst Instance) SheetTypeByID(id int) SheetType {
	return inst.Sheets[id].Type
}

// InitialPartQuantities returns a fresh copy of each part's demand,
// indexed by part id, for Problem's mutable remaining-quantity vector.
func (inst Instance) InitialPartQuantities() []int {
	qty := make([]int, len(inst.Parts))
	for i, p := range inst.Parts {
		qty[i] = p.Demand
	}
	return qty
}

// InitialSheetQuantities returns a fresh copy of each sheet's stock,
// indexed by sheet id. Unbounded stock is represented as a very large
// sentinel so the same decrement logic works uniformly.
const UnboundedStock = int(^uint(0) >> 1)

func (inst Instance) InitialSheetQuantities() []int {
	qty := make([]int, len(inst.Sheets))
	for i, s := range inst.Sheets {
		if s.Unbounded {
			qty[i] = UnboundedStock
		} else {
			qty[i] = s.Stock
		}
	}
	return qty
}
