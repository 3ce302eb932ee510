package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFillsDefaultsForOmittedKeys(t *testing.T) {
	path := writeTempConfig(t, `{"blinkRate": 0.3}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.BlinkRate)
	assert.Equal(t, Default().AvgNodesRemoved, cfg.AvgNodesRemoved)
	assert.Equal(t, Default().HistoryLength, cfg.HistoryLength)
}

func TestLoadFillsDefaultMaxStagesAndAllowsOverride(t *testing.T) {
	path := writeTempConfig(t, `{"blinkRate": 0.3}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), cfg.MaxStages)

	path = writeTempConfig(t, `{"maxStages": 4}`)
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), cfg.MaxStages)
}

func TestLoadRejectsInvalidBlinkRate(t *testing.T) {
	path := writeTempConfig(t, `{"blinkRate": 1.5}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
