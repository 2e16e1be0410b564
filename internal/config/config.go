// Package config holds the comparison defaults: filter threshold,
// significance measure, and display palette. Values are plain data passed
// into the pipeline at construction; nothing here is process-global.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/procdiff/procdiff/internal/diff"
	"github.com/procdiff/procdiff/internal/export"
)

// Significance measure names accepted in config files and manifests.
const (
	SignificanceRelative   = "relative"
	SignificanceDependency = "dependency"
)

// Config is the tunable surface of a comparison run.
type Config struct {
	// Threshold is the significance cutoff in [0, 1] for the filtered view.
	Threshold float64 `yaml:"threshold"`

	// Significance selects the edge significance measure.
	Significance string `yaml:"significance"`

	// Palette fixes the provenance colors of the rendered diff.
	Palette export.Palette `yaml:"palette"`
}

// Default returns the built-in configuration: the miner's conventional
// dependency cutoff, relative-frequency significance, and the standard
// palette.
func Default() Config {
	return Config{
		Threshold:    diff.DefaultThreshold,
		Significance: SignificanceRelative,
		Palette:      export.DefaultPalette(),
	}
}

// Load reads a YAML config file over the defaults: absent keys keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %v outside [0, 1]", c.Threshold)
	}
	if c.Significance != SignificanceRelative && c.Significance != SignificanceDependency {
		return fmt.Errorf("significance %q: must be %q or %q", c.Significance, SignificanceRelative, SignificanceDependency)
	}
	if c.Palette.Common == "" || c.Palette.First == "" || c.Palette.Second == "" {
		return fmt.Errorf("palette must name all three colors")
	}
	return nil
}

// SignificanceFunc resolves the configured measure name.
func (c Config) SignificanceFunc() diff.SignificanceFunc {
	if c.Significance == SignificanceDependency {
		return diff.Dependency
	}
	return diff.RelativeOutFrequency
}
