package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/simulator"
)

type SimulateCmd struct {
	Config   string        `short:"c" default:"headsup.hcl" help:"Path to HCL configuration file; its ai block sets the hero"`
	Rounds   int           `short:"n" default:"1000" help:"Number of deals, each played from both seats"`
	Opponent string        `short:"o" default:"default" enum:"default,tight,loose,station,maniac" help:"Opponent style (default|tight|loose|station|maniac)"`
	Trials   int           `short:"t" default:"2000" help:"Monte Carlo trials per decision"`
	Seed     *int64        `help:"RNG seed for reproducible runs"`
	Timeout  time.Duration `default:"30s" help:"Maximum time per round"`
	Report   string        `short:"r" help:"Write a JSON report to this file (overrides the config)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return c.run(ctx, os.Stdout, cfg, g.Logger(cfg.Log.Level))
}

func (c *SimulateCmd) run(ctx context.Context, out io.Writer, cfg *config.Config, logger *log.Logger) error {
	seed := randutil.Seed()
	if c.Seed != nil {
		seed = *c.Seed
	}

	sim, err := simulator.New(simulator.Config{
		Rounds:        c.Rounds,
		Hero:          cfg.AIThresholds(),
		Opponent:      c.Opponent,
		StartingChips: cfg.Table.StartingChips,
		Blind:         cfg.Table.Blind,
		Trials:        c.Trials,
		Workers:       cfg.Estimator.Workers,
		Kickers:       cfg.KickerRule(),
		Seed:          seed,
		Timeout:       c.Timeout,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting simulation", "rounds", c.Rounds, "opponent", c.Opponent, "seed", seed)
	start := time.Now()

	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(out, stats, c.Opponent)
	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("\nSeed %d, %d rounds in %v",
		seed, stats.Rounds, time.Since(start).Round(time.Millisecond))))

	path := c.Report
	if path == "" {
		path = cfg.Simulate.Report
	}
	if path == "" {
		return nil
	}
	if err := simulator.WriteReport(path, simulator.NewReport(c.Opponent, seed, stats, time.Now())); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.Info("Report written", "path", path)
	return nil
}
