package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/ai"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/gameid"
)

func testConfig(opponent string, rounds int) Config {
	return Config{
		Rounds:        rounds,
		Hero:          ai.DefaultConfig(),
		Opponent:      opponent,
		StartingChips: 2000,
		Blind:         50,
		Trials:        200,
		Workers:       2,
		Kickers:       evaluator.RawKickers,
		Seed:          12345,
		Timeout:       30 * time.Second,
	}
}

func TestNew(t *testing.T) {
	sim, err := New(testConfig("tight", 10))
	require.NoError(t, err)
	assert.Equal(t, 10, sim.config.Rounds)
	assert.NotNil(t, sim.config.Logger)

	tests := map[string]func(*Config){
		"no rounds":        func(c *Config) { c.Rounds = 0 },
		"no blind":         func(c *Config) { c.Blind = 0 },
		"blind over stack": func(c *Config) { c.StartingChips = 10 },
		"unknown opponent": func(c *Config) { c.Opponent = "shark" },
		"bad hero":         func(c *Config) { c.Hero.FoldThreshold = 0.9 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig("tight", 10)
			mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"default", "loose", "maniac", "station", "tight"}, Presets())
	for _, name := range Presets() {
		cfg, err := Preset(name)
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate(), name)
	}
	_, err := Preset("shark")
	assert.Error(t, err)
}

func TestRunPlaysDuplicateRounds(t *testing.T) {
	sim, err := New(testConfig("station", 3))
	require.NoError(t, err)

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Rounds)
	assert.Equal(t, 3, stats.SeatResults[0].Rounds)
	assert.Equal(t, 3, stats.SeatResults[1].Rounds)
	assert.NoError(t, stats.Validate())

	for _, v := range stats.Values {
		assert.LessOrEqual(t, v, 40.0, "cannot win more than the opponent's stack")
		assert.GreaterOrEqual(t, v, -40.0, "cannot lose more than our own stack")
	}
}

func TestMirrorMatchBreaksEven(t *testing.T) {
	// Identical thresholds and estimator seeds make the swapped-seat replay
	// an exact mirror of the first round
	sim, err := New(testConfig("default", 4))
	require.NoError(t, err)

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Rounds)
	assert.InDelta(t, 0, stats.Mean(), 1e-9)
	for i := 0; i < len(stats.Values); i += 2 {
		assert.InDelta(t, 0, stats.Values[i]+stats.Values[i+1], 1e-9, "round pair %d", i/2)
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() []float64 {
		sim, err := New(testConfig("loose", 3))
		require.NoError(t, err)
		stats, err := sim.Run(context.Background())
		require.NoError(t, err)
		return stats.Values
	}
	assert.Equal(t, run(), run())
}

func TestRunCancelled(t *testing.T) {
	sim, err := New(testConfig("tight", 2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummary(t *testing.T) {
	sim, err := New(testConfig("maniac", 2))
	require.NoError(t, err)
	stats, err := sim.Run(context.Background())
	require.NoError(t, err)

	var out bytes.Buffer
	PrintSummary(&out, stats, "maniac")
	assert.Contains(t, out.String(), "RESULTS vs maniac")
	assert.Contains(t, out.String(), "Rounds played: 4")
	assert.Contains(t, out.String(), "95% CI")
	assert.Contains(t, out.String(), "Seat 0: 2 rounds")
	assert.Contains(t, out.String(), "Seat 1: 2 rounds")
}

func TestWriteReport(t *testing.T) {
	sim, err := New(testConfig("station", 2))
	require.NoError(t, err)
	stats, err := sim.Run(context.Background())
	require.NoError(t, err)

	finished := time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC)
	report := NewReport("station", 12345, stats, finished)
	require.NoError(t, gameid.Validate(report.ID))
	assert.Equal(t, 4, report.Rounds)
	assert.Equal(t, stats.Mean(), report.MeanBlinds)

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report, decoded)
	assert.Contains(t, string(data), `"opponent": "station"`)

	assert.Error(t, WriteReport(filepath.Join(t.TempDir(), "missing", "results.json"), report))
}
