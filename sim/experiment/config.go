package experiment

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls one batch of replications.
type Config struct {
	Replications int     `yaml:"replications"` // number of independent runs R
	Horizon      float64 `yaml:"horizon"`      // simulated time T each run advances to
	Warmup       float64 `yaml:"warmup"`       // records arriving before W are dropped (0 = keep all)
	Seed         int64   `yaml:"seed"`         // replication r is seeded with Seed + r
	Workers      int     `yaml:"workers"`      // replications run concurrently (1 = sequential)
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Replications: 10,
		Horizon:      1000,
		Warmup:       0,
		Seed:         0,
		Workers:      1,
	}
}

// LoadConfig reads a YAML experiment file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading experiment config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing experiment config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that all fields are usable.
func (c Config) Validate() error {
	if c.Replications < 1 {
		return fmt.Errorf("replications must be at least 1, got %d", c.Replications)
	}
	if math.IsNaN(c.Horizon) || math.IsInf(c.Horizon, 0) || c.Horizon <= 0 {
		return fmt.Errorf("horizon must be a finite positive time, got %v", c.Horizon)
	}
	if math.IsNaN(c.Warmup) || math.IsInf(c.Warmup, 0) || c.Warmup < 0 {
		return fmt.Errorf("warmup must be a finite non-negative time, got %v", c.Warmup)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
