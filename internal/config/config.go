// Package config loads the HCL file describing a heads-up table: seat names,
// stakes, the estimator and the computer opponent.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/headsup/internal/ai"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
)

// Config is the complete table configuration
type Config struct {
	Table     *TableConfig     `hcl:"table,block"`
	Estimator *EstimatorConfig `hcl:"estimator,block"`
	AI        *AIConfig        `hcl:"ai,block"`
	Log       *LogConfig       `hcl:"log,block"`
	Simulate  *SimulateConfig  `hcl:"simulate,block"`
}

// TableConfig describes the players and stakes
type TableConfig struct {
	PlayerName    string `hcl:"player_name,optional"`
	OpponentName  string `hcl:"opponent_name,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	Blind         int    `hcl:"blind,optional"`
	BetSteps      []int  `hcl:"bet_steps,optional"`
	Kickers       string `hcl:"kickers,optional"`
}

// EstimatorConfig controls the Monte Carlo simulation
type EstimatorConfig struct {
	Trials  int    `hcl:"trials,optional"`
	Workers int    `hcl:"workers,optional"`
	Seed    *int64 `hcl:"seed,optional"`
}

// AIConfig holds the opponent's thresholds
type AIConfig struct {
	FoldThreshold  float64 `hcl:"fold_threshold,optional"`
	CallThreshold  float64 `hcl:"call_threshold,optional"`
	RaiseThreshold float64 `hcl:"raise_threshold,optional"`
	Aggressiveness float64 `hcl:"aggressiveness,optional"`
	Jitter         float64 `hcl:"jitter,optional"`
	ThinkMs        int     `hcl:"think_ms,optional"`
}

// LogConfig sets the log level
type LogConfig struct {
	Level string `hcl:"level,optional"`
}

// SimulateConfig controls the simulate command. An empty report path
// writes no report file.
type SimulateConfig struct {
	Report string `hcl:"report,optional"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Table: &TableConfig{
			PlayerName:    "Player",
			OpponentName:  "Computer",
			StartingChips: game.DefaultStartingChips,
			Blind:         game.DefaultBlind,
			BetSteps:      []int{10, 50, 100},
			Kickers:       evaluator.RawKickers.String(),
		},
		Estimator: &EstimatorConfig{
			Trials:  equity.DefaultTrials,
			Workers: equity.DefaultWorkers(),
		},
		AI: &AIConfig{
			FoldThreshold:  aiDefaults.FoldThreshold,
			CallThreshold:  aiDefaults.CallThreshold,
			RaiseThreshold: aiDefaults.RaiseThreshold,
			Aggressiveness: aiDefaults.Aggressiveness,
			Jitter:         0.05,
		},
		Log: &LogConfig{
			Level: "warn",
		},
		Simulate: &SimulateConfig{},
	}
}

// Load reads an HCL configuration file. A missing file yields Default().
// Blocks and attributes left out of the file take their default values.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Table == nil {
		c.Table = defaults.Table
	}
	if c.Table.PlayerName == "" {
		c.Table.PlayerName = defaults.Table.PlayerName
	}
	if c.Table.OpponentName == "" {
		c.Table.OpponentName = defaults.Table.OpponentName
	}
	if c.Table.StartingChips == 0 {
		c.Table.StartingChips = defaults.Table.StartingChips
	}
	if c.Table.Blind == 0 {
		c.Table.Blind = defaults.Table.Blind
	}
	if len(c.Table.BetSteps) == 0 {
		c.Table.BetSteps = defaults.Table.BetSteps
	}
	if c.Table.Kickers == "" {
		c.Table.Kickers = defaults.Table.Kickers
	}

	if c.Estimator == nil {
		c.Estimator = defaults.Estimator
	}
	if c.Estimator.Trials == 0 {
		c.Estimator.Trials = defaults.Estimator.Trials
	}
	if c.Estimator.Workers == 0 {
		c.Estimator.Workers = defaults.Estimator.Workers
	}

	// Zero thresholds are treated as unset
	if c.AI == nil {
		c.AI = defaults.AI
	}
	if c.AI.FoldThreshold == 0 {
		c.AI.FoldThreshold = defaults.AI.FoldThreshold
	}
	if c.AI.CallThreshold == 0 {
		c.AI.CallThreshold = defaults.AI.CallThreshold
	}
	if c.AI.RaiseThreshold == 0 {
		c.AI.RaiseThreshold = defaults.AI.RaiseThreshold
	}
	if c.AI.Aggressiveness == 0 {
		c.AI.Aggressiveness = defaults.AI.Aggressiveness
	}

	if c.Log == nil {
		c.Log = defaults.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}

	if c.Simulate == nil {
		c.Simulate = defaults.Simulate
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.PlayerName == c.Table.OpponentName {
		return fmt.Errorf("player and opponent need different names, both are %q", c.Table.PlayerName)
	}
	if c.Table.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive: %d", c.Table.StartingChips)
	}
	if c.Table.Blind <= 0 || c.Table.Blind > c.Table.StartingChips {
		return fmt.Errorf("blind must be between 1 and the starting chips: %d", c.Table.Blind)
	}
	for _, step := range c.Table.BetSteps {
		if step <= 0 {
			return fmt.Errorf("bet steps must be positive: %d", step)
		}
	}
	if _, err := evaluator.ParseKickerRule(c.Table.Kickers); err != nil {
		return fmt.Errorf("table: %w", err)
	}

	if c.Estimator.Trials < 0 {
		return fmt.Errorf("estimator trials must be positive: %d", c.Estimator.Trials)
	}
	if c.Estimator.Workers < 0 {
		return fmt.Errorf("estimator workers must be positive: %d", c.Estimator.Workers)
	}

	if err := c.AIThresholds().Validate(); err != nil {
		return fmt.Errorf("ai: %w", err)
	}
	if c.AI.Jitter < 0 || c.AI.Jitter > 0.5 {
		return fmt.Errorf("ai: jitter must be between 0 and 0.5: %g", c.AI.Jitter)
	}
	if c.AI.ThinkMs < 0 {
		return fmt.Errorf("ai: think_ms must not be negative: %d", c.AI.ThinkMs)
	}
	return nil
}

// AIThresholds returns the configured opponent thresholds before jitter
func (c *Config) AIThresholds() ai.Config {
	return ai.Config{
		FoldThreshold:  c.AI.FoldThreshold,
		CallThreshold:  c.AI.CallThreshold,
		RaiseThreshold: c.AI.RaiseThreshold,
		Aggressiveness: c.AI.Aggressiveness,
	}
}

// KickerRule returns the parsed showdown kicker rule
func (c *Config) KickerRule() evaluator.KickerRule {
	rule, err := evaluator.ParseKickerRule(c.Table.Kickers)
	if err != nil {
		return evaluator.RawKickers
	}
	return rule
}

// EstimatorOptions converts the estimator block into equity options
func (c *Config) EstimatorOptions() []equity.Option {
	opts := []equity.Option{
		equity.WithTrials(c.Estimator.Trials),
		equity.WithWorkers(c.Estimator.Workers),
		equity.WithComparator(evaluator.Comparator{Kickers: c.KickerRule()}),
	}
	if c.Estimator.Seed != nil {
		opts = append(opts, equity.WithSeed(*c.Estimator.Seed))
	}
	return opts
}
