// Package config loads the flat, camelCase run configuration
// (spec.md §6, "Config JSON") that tunes GDRR's ruin/recreate/LAHC
// behaviour.
//
// Grounded on junjiewwang-perf-analysis/pkg/config/config.go: the same
// viper-with-defaults-then-unmarshal shape, adapted from that repo's
// nested mapstructure/YAML schema to this one's flat JSON schema.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/piwi3910/gdrrcut/internal/apperr"
)

// SheetValuationMode selects which sheet attribute recreate/ruin treat
// as material cost.
type SheetValuationMode string

const (
	SheetValuationArea SheetValuationMode = "Area"
	SheetValuationCost SheetValuationMode = "Cost"
)

// Config holds every tunable listed in spec.md §6's Config JSON table.
type Config struct {
	AvgNodesRemoved        int                `mapstructure:"avgNodesRemoved"`
	BlinkRate              float64            `mapstructure:"blinkRate"`
	MaxRunTime             *int               `mapstructure:"maxRunTime"`
	MaxRRIterations        *int               `mapstructure:"maxRRIterations"`
	LeftoverValuationPower float64            `mapstructure:"leftoverValuationPower"`
	HistoryLength          int                `mapstructure:"historyLength"`
	RotationAllowed        bool               `mapstructure:"rotationAllowed"`
	NThreads               int                `mapstructure:"nThreads"`
	SheetValuationMode     SheetValuationMode `mapstructure:"sheetValuationMode"`
	MaxStages              uint8              `mapstructure:"maxStages"`
}

// Default returns the configuration used when no config file overrides a
// given key.
func Default() *Config {
	return &Config{
		AvgNodesRemoved:        8,
		BlinkRate:              0.15,
		LeftoverValuationPower: 2.0,
		HistoryLength:          50,
		RotationAllowed:        true,
		NThreads:               1,
		SheetValuationMode:     SheetValuationCost,
		MaxStages:              2,
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("avgNodesRemoved", d.AvgNodesRemoved)
	v.SetDefault("blinkRate", d.BlinkRate)
	v.SetDefault("leftoverValuationPower", d.LeftoverValuationPower)
	v.SetDefault("historyLength", d.HistoryLength)
	v.SetDefault("rotationAllowed", d.RotationAllowed)
	v.SetDefault("nThreads", d.NThreads)
	v.SetDefault("sheetValuationMode", string(d.SheetValuationMode))
	v.SetDefault("maxStages", d.MaxStages)
}

// Load reads a Config from the JSON file at path, falling back to
// Default() for any key the file omits.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidConfig, "reading config file "+path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidConfig, "unmarshalling config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values that would make ruin/recreate/LAHC ill-defined.
func (c *Config) Validate() error {
	if c.AvgNodesRemoved < 2 {
		return apperr.Wrap(apperr.CodeInvalidConfig, "avgNodesRemoved must be >= 2", fmt.Errorf("got %d", c.AvgNodesRemoved))
	}
	if c.BlinkRate < 0 || c.BlinkRate > 1 {
		return apperr.Wrap(apperr.CodeInvalidConfig, "blinkRate must be within [0,1]", fmt.Errorf("got %v", c.BlinkRate))
	}
	if c.HistoryLength < 1 {
		return apperr.Wrap(apperr.CodeInvalidConfig, "historyLength must be >= 1", fmt.Errorf("got %d", c.HistoryLength))
	}
	if c.NThreads < 1 {
		return apperr.Wrap(apperr.CodeInvalidConfig, "nThreads must be >= 1", fmt.Errorf("got %d", c.NThreads))
	}
	switch c.SheetValuationMode {
	case SheetValuationArea, SheetValuationCost:
	default:
		return apperr.Wrap(apperr.CodeInvalidConfig, "sheetValuationMode must be Area or Cost", fmt.Errorf("got %q", c.SheetValuationMode))
	}
	return nil
}
