package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/evaluator"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "headsup.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2000, cfg.Table.StartingChips)
	assert.Equal(t, 50, cfg.Table.Blind)
	assert.Equal(t, []int{10, 50, 100}, cfg.Table.BetSteps)
	assert.Equal(t, equity.DefaultTrials, cfg.Estimator.Trials)
	assert.Nil(t, cfg.Estimator.Seed)
	assert.Equal(t, evaluator.RawKickers, cfg.KickerRule())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Simulate.Report)
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
table {
  player_name    = "Ada"
  opponent_name  = "Deep Stack"
  starting_chips = 500
  blind          = 25
  bet_steps      = [25, 100]
  kickers        = "best-five"
}

estimator {
  trials  = 5000
  workers = 3
  seed    = 42
}

ai {
  fold_threshold  = 0.2
  call_threshold  = 0.4
  raise_threshold = 0.8
  aggressiveness  = 1.0
  jitter          = 0
  think_ms        = 250
}

log {
  level = "debug"
}

simulate {
  report = "results.json"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Ada", cfg.Table.PlayerName)
	assert.Equal(t, "Deep Stack", cfg.Table.OpponentName)
	assert.Equal(t, 500, cfg.Table.StartingChips)
	assert.Equal(t, 25, cfg.Table.Blind)
	assert.Equal(t, []int{25, 100}, cfg.Table.BetSteps)
	assert.Equal(t, evaluator.BestFive, cfg.KickerRule())

	assert.Equal(t, 5000, cfg.Estimator.Trials)
	assert.Equal(t, 3, cfg.Estimator.Workers)
	require.NotNil(t, cfg.Estimator.Seed)
	assert.Equal(t, int64(42), *cfg.Estimator.Seed)

	thresholds := cfg.AIThresholds()
	assert.Equal(t, 0.2, thresholds.FoldThreshold)
	assert.Equal(t, 0.4, thresholds.CallThreshold)
	assert.Equal(t, 0.8, thresholds.RaiseThreshold)
	assert.Equal(t, 1.0, thresholds.Aggressiveness)
	assert.Equal(t, 250, cfg.AI.ThinkMs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "results.json", cfg.Simulate.Report)

	e := equity.New(cfg.EstimatorOptions()...)
	assert.Equal(t, 5000, e.Trials())
	assert.Equal(t, 3, e.Workers())
}

func TestLoadPartialFileAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
table {
  player_name = "Ada"
}

ai {
  raise_threshold = 0.9
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	defaults := Default()
	assert.Equal(t, "Ada", cfg.Table.PlayerName)
	assert.Equal(t, defaults.Table.OpponentName, cfg.Table.OpponentName)
	assert.Equal(t, defaults.Table.StartingChips, cfg.Table.StartingChips)
	assert.Equal(t, defaults.Estimator, cfg.Estimator)
	assert.Equal(t, 0.9, cfg.AI.RaiseThreshold)
	assert.Equal(t, defaults.AI.FoldThreshold, cfg.AI.FoldThreshold)
	assert.Equal(t, defaults.Log, cfg.Log)
	assert.Empty(t, cfg.Simulate.Report)
}

func TestLoadRejectsMalformedFiles(t *testing.T) {
	tests := map[string]string{
		"syntax error":      `table {`,
		"unknown attribute": "table {\n  seats = 9\n}\n",
		"wrong type":        "estimator {\n  trials = \"lots\"\n}\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"same names", func(c *Config) { c.Table.OpponentName = c.Table.PlayerName }},
		{"no chips", func(c *Config) { c.Table.StartingChips = -1 }},
		{"blind above stack", func(c *Config) { c.Table.Blind = c.Table.StartingChips + 1 }},
		{"bad bet step", func(c *Config) { c.Table.BetSteps = []int{10, 0} }},
		{"bad kicker rule", func(c *Config) { c.Table.Kickers = "highest" }},
		{"negative trials", func(c *Config) { c.Estimator.Trials = -5 }},
		{"negative workers", func(c *Config) { c.Estimator.Workers = -1 }},
		{"unordered thresholds", func(c *Config) { c.AI.FoldThreshold = 0.9 }},
		{"jitter too large", func(c *Config) { c.AI.Jitter = 0.8 }},
		{"negative think time", func(c *Config) { c.AI.ThinkMs = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
