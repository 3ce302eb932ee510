// Package io parses instance and config-adjacent JSON, serializes
// solutions back out, and renders the HTML/SVG visualisation — the
// external I/O surface spec.md §6 places outside the core engine.
//
// Grounded on original_source/src/io/json_format.rs for the wire schema
// and original_source/src/io/html_export.rs for the SVG rendering, ported
// to encoding/json the way the teacher's internal/export package renders
// its own output formats (PDF/labels) from a plain result model.
package io

import (
	"encoding/json"
	"os"

	"github.com/piwi3910/gdrrcut/internal/apperr"
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/config"
)

// jsonSheetType mirrors spec.md §6's Instance JSON "Sheet" schema. Stock
// is a pointer so a field absent from the input means unbounded, distinct
// from an explicit zero.
type jsonSheetType struct {
	Length uint64 `json:"Length"`
	Height uint64 `json:"Height"`
	Stock  *int   `json:"Stock,omitempty"`
	Cost   uint64 `json:"Cost"`
}

// jsonPartType's Value mirrors the wire schema but has no catalog.PartType
// counterpart: spec.md §3's PartType carries no value field (cost is
// driven by sheet material cost and leftover valuation, never by a
// per-part value), so it is accepted on input and ignored.
type jsonPartType struct {
	Length uint64 `json:"Length"`
	Height uint64 `json:"Height"`
	Demand int    `json:"Demand"`
	Value  uint64 `json:"Value"`
}

type jsonInstance struct {
	Name    string          `json:"Name"`
	Objects []jsonSheetType `json:"Objects"`
	Items   []jsonPartType  `json:"Items"`
}

// ParseInstance reads and decodes an Instance JSON file, assigning dense
// ids by input order (spec.md §6: "Parser assigns dense ids by input
// order. (Length maps to width.)"). valuationMode selects whether each
// sheet's Cost or its computed Area becomes its catalog.SheetType.Value
// — applied once here so internal/layout and internal/problem consume
// Value uniformly afterward without needing config awareness. maxStages
// is likewise stamped onto every parsed SheetType: the wire schema has no
// per-sheet field for it (spec.md §6's Sheet JSON lists only
// Length/Height/Stock/Cost), so the Non-goals' "unless configured"
// override runs through the run-wide config.Config.MaxStages knob
// instead.
func ParseInstance(path string, valuationMode config.SheetValuationMode, maxStages uint8) (string, catalog.Instance, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", catalog.Instance{}, apperr.Wrap(apperr.CodeIO, "reading instance file "+path, err)
	}
	var ji jsonInstance
	if err := json.Unmarshal(raw, &ji); err != nil {
		return "", catalog.Instance{}, apperr.Wrap(apperr.CodeParse, "parsing instance JSON", err)
	}

	sheets := make([]catalog.SheetStock, len(ji.Objects))
	for i, o := range ji.Objects {
		st := catalog.SheetType{ID: i, Width: o.Length, Height: o.Height, Value: o.Cost, MaxStages: maxStages}
		if valuationMode == config.SheetValuationArea {
			st.Value = st.Area()
		}
		stock := catalog.SheetStock{Type: st}
		if o.Stock == nil {
			stock.Unbounded = true
		} else {
			stock.Stock = *o.Stock
		}
		sheets[i] = stock
	}

	parts := make([]catalog.PartDemand, len(ji.Items))
	for i, it := range ji.Items {
		parts[i] = catalog.PartDemand{
			Type:   catalog.PartType{ID: i, Width: it.Length, Height: it.Height},
			Demand: it.Demand,
		}
	}

	inst := catalog.NewInstance(parts, sheets)
	if len(inst.Parts) == 0 {
		return "", catalog.Instance{}, apperr.New(apperr.CodeInvalidInstance, "instance has no items")
	}
	if len(inst.Sheets) == 0 {
		return "", catalog.Instance{}, apperr.New(apperr.CodeInvalidInstance, "instance has no objects")
	}
	return ji.Name, inst, nil
}
