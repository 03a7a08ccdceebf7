package experiment

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/internal/testutil"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Replications)
	assert.Equal(t, 1, cfg.Workers)
	assert.Zero(t, cfg.Seed)
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	cfg, err := LoadConfig(testutil.TestdataPath(t, "experiment.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Config{Replications: 30, Horizon: 500, Warmup: 50, Seed: 0, Workers: 4}, cfg)
}

func TestLoadConfig_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("replication: 5\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading experiment config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero replications", func(c *Config) { c.Replications = 0 }},
		{"zero horizon", func(c *Config) { c.Horizon = 0 }},
		{"infinite horizon", func(c *Config) { c.Horizon = math.Inf(1) }},
		{"negative warmup", func(c *Config) { c.Warmup = -1 }},
		{"NaN warmup", func(c *Config) { c.Warmup = math.NaN() }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Warmup = cfg.Horizon * 2
	assert.NoError(t, cfg.Validate(), "warmup beyond the horizon is allowed and yields empty windows")
}
