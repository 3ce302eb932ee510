package io

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/piwi3910/gdrrcut/internal/apperr"
	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/layout"
	"github.com/piwi3910/gdrrcut/internal/problem"
)

type jsonCPNodeType string

const (
	nodeStructure jsonCPNodeType = "Structure"
	nodeItem      jsonCPNodeType = "Item"
	nodeLeftover  jsonCPNodeType = "Leftover"
)

type jsonCPNode struct {
	Length      uint64         `json:"Length"`
	Height      uint64         `json:"Height"`
	Orientation string         `json:"Orientation,omitempty"`
	Type        jsonCPNodeType `json:"Type"`
	Item        *int           `json:"Item,omitempty"`
	Children    []jsonCPNode   `json:"Children"`
}

type jsonCP struct {
	Object int        `json:"Object"`
	Root   jsonCPNode `json:"Root"`
	Usage  float64    `json:"Usage"`
}

type jsonStatistics struct {
	UsagePct            float64 `json:"UsagePct"`
	PartAreaIncludedPct float64 `json:"PartAreaIncludedPct"`
	NObjectsUsed        int     `json:"NObjectsUsed"`
	MaterialCost        uint64  `json:"MaterialCost"`
	RunTimeMs           int64   `json:"RunTimeMs"`
	ConfigPath          string  `json:"ConfigPath"`
}

type jsonSolution struct {
	Name            string          `json:"Name"`
	Objects         []jsonSheetType `json:"Objects"`
	Items           []jsonPartType  `json:"Items"`
	CuttingPatterns []jsonCP        `json:"CuttingPatterns"`
	Statistics      jsonStatistics  `json:"Statistics"`
}

// Solution is what the CLI hands to WriteSolution/WriteHTML: the result of
// one optimisation run, plus the metadata solution_stats.rs threads
// through the original's Statistics block.
type Solution struct {
	Name       string
	Instance   catalog.Instance
	Best       *problem.ProblemSolution
	RunTime    time.Duration
	ConfigPath string
}

// WriteSolution serializes s to path in spec.md §6's Solution JSON
// schema (instance schema plus CuttingPatterns and Statistics).
func WriteSolution(path string, s Solution) error {
	js := toJSONSolution(s)
	data, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.CodeIO, "encoding solution JSON", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.CodeIO, "writing solution file "+path, err)
	}
	return nil
}

func toJSONSolution(s Solution) jsonSolution {
	objects := make([]jsonSheetType, len(s.Instance.Sheets))
	for i, sh := range s.Instance.Sheets {
		js := jsonSheetType{Length: sh.Type.Width, Height: sh.Type.Height, Cost: sh.Type.Value}
		if !sh.Unbounded {
			stock := sh.Stock
			js.Stock = &stock
		}
		objects[i] = js
	}
	items := make([]jsonPartType, len(s.Instance.Parts))
	for i, p := range s.Instance.Parts {
		items[i] = jsonPartType{Length: p.Type.Width, Height: p.Type.Height, Demand: p.Demand, Value: 0}
	}

	var patterns []jsonCP
	var usedSheetArea, includedPartArea uint64
	var materialCost uint64
	if s.Best != nil {
		ids := make([]int, 0, len(s.Best.Layouts()))
		for id := range s.Best.Layouts() {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			l := s.Best.Layouts()[id]
			root := buildNode(l, l.TopNode())
			patterns = append(patterns, jsonCP{Object: l.SheetType.ID, Root: root, Usage: l.Usage()})
			usedSheetArea += l.SheetType.Area()
			materialCost += l.SheetType.Value
		}
		includedPartArea = s.Best.Cost().PartAreaIncluded
		materialCost = s.Best.Cost().MaterialCost
	}

	var usagePct, includedPct float64
	if usedSheetArea > 0 {
		usagePct = 100.0 * float64(includedPartArea) / float64(usedSheetArea)
	}
	if s.Instance.TotalPartArea > 0 {
		includedPct = 100.0 * float64(includedPartArea) / float64(s.Instance.TotalPartArea)
	}

	return jsonSolution{
		Name:            s.Name,
		Objects:         objects,
		Items:           items,
		CuttingPatterns: patterns,
		Statistics: jsonStatistics{
			UsagePct:            usagePct,
			PartAreaIncludedPct: includedPct,
			NObjectsUsed:        len(patterns),
			MaterialCost:        materialCost,
			RunTimeMs:           s.RunTime.Milliseconds(),
			ConfigPath:          s.ConfigPath,
		},
	}
}

// buildNode walks a live layout tree into its wire representation,
// mirroring json_format.rs's JsonCPNode shape: a childless Part node is
// "Item", a childless non-part node is "Leftover", anything else is
// "Structure" carrying the orientation its children are laid out along.
func buildNode(l *layout.Layout, h layout.NodeHandle) jsonCPNode {
	children := l.Children(h)
	size := l.Size(h)
	node := jsonCPNode{Length: size.Width, Height: size.Height}

	if len(children) == 0 {
		if pt := l.PartType(h); pt != nil {
			node.Type = nodeItem
			id := pt.ID
			node.Item = &id
		} else {
			node.Type = nodeLeftover
		}
		return node
	}

	node.Type = nodeStructure
	node.Orientation = l.NextCutOrient(h).String()
	node.Children = make([]jsonCPNode, len(children))
	for i, c := range children {
		node.Children[i] = buildNode(l, c)
	}
	return node
}

// Summary renders a short human-readable line for CLI/log output, in the
// same spirit as solution_stats.rs's solution_stats_string.
func (s Solution) Summary() string {
	if s.Best == nil {
		return "no solution found"
	}
	cost := s.Best.Cost()
	return fmt.Sprintf("material cost %d, part area included %d/%d, %d sheets used",
		cost.MaterialCost, cost.PartAreaIncluded, s.Instance.TotalPartArea, len(s.Best.Layouts()))
}
