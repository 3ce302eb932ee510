package io

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/gdrrcut/internal/catalog"
	"github.com/piwi3910/gdrrcut/internal/config"
	"github.com/piwi3910/gdrrcut/internal/gdrr"
	"github.com/piwi3910/gdrrcut/internal/problem"
)

func writeTempInstance(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseInstanceAssignsDenseIDsAndDefaultsUnboundedStock(t *testing.T) {
	path := writeTempInstance(t, `{
		"Name": "demo",
		"Objects": [{"Length": 100, "Height": 100, "Cost": 5}],
		"Items": [{"Length": 40, "Height": 30, "Demand": 3, "Value": 0}]
	}`)

	name, inst, err := ParseInstance(path, config.SheetValuationCost, 2)
	require.NoError(t, err)
	assert.Equal(t, "demo", name)
	require.Len(t, inst.Sheets, 1)
	require.Len(t, inst.Parts, 1)
	assert.Equal(t, 0, inst.Sheets[0].Type.ID)
	assert.True(t, inst.Sheets[0].Unbounded)
	assert.Equal(t, uint64(5), inst.Sheets[0].Type.Value)
	assert.Equal(t, 3, inst.Parts[0].Demand)
}

func TestParseInstanceAreaValuationOverridesSheetValue(t *testing.T) {
	path := writeTempInstance(t, `{
		"Name": "demo",
		"Objects": [{"Length": 10, "Height": 10, "Stock": 2, "Cost": 999}],
		"Items": [{"Length": 5, "Height": 5, "Demand": 1, "Value": 0}]
	}`)

	_, inst, err := ParseInstance(path, config.SheetValuationArea, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), inst.Sheets[0].Type.Value)
	assert.False(t, inst.Sheets[0].Unbounded)
	assert.Equal(t, 2, inst.Sheets[0].Stock)
	assert.Equal(t, uint8(3), inst.Sheets[0].Type.MaxStages)
}

func TestParseInstanceRejectsMalformedJSON(t *testing.T) {
	path := writeTempInstance(t, `{not json`)
	_, _, err := ParseInstance(path, config.SheetValuationCost, 2)
	assert.Error(t, err)
}

func solvedSolution(t *testing.T) Solution {
	t.Helper()
	part := catalog.PartType{ID: 0, Width: 40, Height: 30}
	sheet := catalog.SheetType{ID: 0, Width: 100, Height: 100, Value: 7}
	inst := catalog.NewInstance(
		[]catalog.PartDemand{{Type: part, Demand: 2}},
		[]catalog.SheetStock{{Type: sheet, Stock: 5}},
	)
	cfg := config.Default()
	p := problem.New(inst, cfg.LeftoverValuationPower, rand.New(rand.NewSource(7)))
	k := &gdrr.Kernel{Problem: p, Config: cfg}
	k.Recreate(1<<30, inst.TotalPartArea)
	snap := p.Snapshot(nil)
	return Solution{Name: "t", Instance: inst, Best: snap, RunTime: 25 * time.Millisecond, ConfigPath: "cfg.json"}
}

func TestWriteSolutionRoundTripsThroughJSON(t *testing.T) {
	s := solvedSolution(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "solution.json")
	require.NoError(t, WriteSolution(path, s))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded jsonSolution
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "t", decoded.Name)
	assert.NotEmpty(t, decoded.CuttingPatterns)
	assert.Equal(t, len(decoded.CuttingPatterns), decoded.Statistics.NObjectsUsed)
	assert.Equal(t, int64(25), decoded.Statistics.RunTimeMs)
}

func TestWriteHTMLProducesAnSVGPerPattern(t *testing.T) {
	s := solvedSolution(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "solution.html")
	require.NoError(t, WriteHTML(path, s))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "<svg")
	assert.Contains(t, content, "Cutting Patterns")
}
