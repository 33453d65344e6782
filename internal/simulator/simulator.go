// Package simulator plays the computer opponent against itself over many
// duplicate rounds to measure how one set of thresholds fares against
// another.
package simulator

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/headsup/internal/ai"
	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/logging"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/statistics"
)

// presets are the opponent styles a simulation can be run against
var presets = map[string]ai.Config{
	"default": ai.DefaultConfig(),
	"tight":   {FoldThreshold: 0.45, CallThreshold: 0.60, RaiseThreshold: 0.80, Aggressiveness: 0.5},
	"loose":   {FoldThreshold: 0.20, CallThreshold: 0.35, RaiseThreshold: 0.60, Aggressiveness: 0.7},
	"station": {FoldThreshold: 0.05, CallThreshold: 0.10, RaiseThreshold: 0.95, Aggressiveness: 0.3},
	"maniac":  {FoldThreshold: 0.10, CallThreshold: 0.20, RaiseThreshold: 0.40, Aggressiveness: 1.5},
}

// Presets returns the names of the built-in opponent styles
func Presets() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Preset returns the thresholds for a named opponent style
func Preset(name string) (ai.Config, error) {
	cfg, ok := presets[name]
	if !ok {
		return ai.Config{}, fmt.Errorf("unknown opponent type %q", name)
	}
	return cfg, nil
}

// Config holds configuration for running simulations
type Config struct {
	Rounds        int
	Hero          ai.Config
	Opponent      string
	StartingChips int
	Blind         int
	Trials        int
	Workers       int
	Kickers       evaluator.KickerRule
	Seed          int64
	Timeout       time.Duration
	Logger        *log.Logger
}

// Simulator runs heads-up rounds between two computer opponents
type Simulator struct {
	config  Config
	hero    *ai.Opponent
	villain *ai.Opponent
	cmp     evaluator.Comparator
}

// New creates a simulator. Both sides estimate with the same seed so that a
// duplicate round with swapped seats replays identical decisions for
// identical thresholds.
func New(config Config) (*Simulator, error) {
	if config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", config.Rounds)
	}
	if config.Blind <= 0 || config.StartingChips < config.Blind {
		return nil, fmt.Errorf("need a positive blind no larger than the stack, got %d/%d", config.Blind, config.StartingChips)
	}
	if err := config.Hero.Validate(); err != nil {
		return nil, fmt.Errorf("hero: %w", err)
	}
	villainCfg, err := Preset(config.Opponent)
	if err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}

	cmp := evaluator.Comparator{Kickers: config.Kickers}
	newEstimator := func() *equity.Estimator {
		return equity.New(
			equity.WithTrials(config.Trials),
			equity.WithWorkers(config.Workers),
			equity.WithSeed(config.Seed),
			equity.WithComparator(cmp),
		)
	}

	return &Simulator{
		config:  config,
		hero:    ai.NewOpponent(config.Hero, newEstimator(), ai.WithLogger(config.Logger.With("side", "hero"))),
		villain: ai.NewOpponent(villainCfg, newEstimator(), ai.WithLogger(config.Logger.With("side", "villain"))),
		cmp:     cmp,
	}, nil
}

// Run plays every round twice, once from each seat with the same deal, and
// returns the hero's results
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	stats := &statistics.Statistics{}

	for round := 0; round < s.config.Rounds; round++ {
		seed := s.config.Seed + int64(round)

		// Alternate which seat goes first so neither gets a positional head start
		first := round % 2
		for _, seat := range [2]int{first, 1 - first} {
			result, err := s.playRoundWithTimeout(ctx, seed, seat)
			if err != nil {
				return nil, fmt.Errorf("round %d (seed %d, seat %d): %w", round+1, seed, seat, err)
			}
			stats.Add(result)
		}

		if (round+1)%100 == 0 {
			s.config.Logger.Info("Progress", "rounds", round+1, "mean", fmt.Sprintf("%.3f", stats.Mean()))
		}
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playRoundWithTimeout bounds a single round by the configured timeout
func (s *Simulator) playRoundWithTimeout(ctx context.Context, seed int64, heroSeat int) (statistics.RoundResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	return s.playRound(ctx, seed, heroSeat)
}

// playRound deals a fresh round from seed with the hero in heroSeat and
// plays it to the end
func (s *Simulator) playRound(ctx context.Context, seed int64, heroSeat int) (statistics.RoundResult, error) {
	players := [2]*game.Player{
		{Name: "Villain", Chips: s.config.StartingChips},
		{Name: "Villain", Chips: s.config.StartingChips},
	}
	players[heroSeat].Name = "Hero"

	agents := [2]*ai.Opponent{s.villain, s.villain}
	agents[heroSeat] = s.hero

	r, err := game.NewRound(players, deck.New(randutil.New(seed)), s.config.Blind,
		game.WithComparator(s.cmp),
		game.WithLogger(s.config.Logger))
	if err != nil {
		return statistics.RoundResult{}, err
	}

	for !r.Done() {
		seat := r.ToAct()
		d, err := agents[seat].Decide(ctx, r.View(seat))
		if err != nil {
			return statistics.RoundResult{}, err
		}
		if err := r.Act(seat, d.Action); err != nil {
			return statistics.RoundResult{}, fmt.Errorf("%s: %w", players[seat].Name, err)
		}
	}

	o, _ := r.Outcome()
	blind := float64(s.config.Blind)
	net := players[heroSeat].Chips - s.config.StartingChips

	return statistics.RoundResult{
		NetBlinds:      float64(net) / blind,
		Seed:           seed,
		Seat:           heroSeat,
		WentToShowdown: !o.Folded,
		Pot:            o.Pot,
		PotBlinds:      float64(o.Pot) / blind,
		Street:         r.Street(),
	}, nil
}

// PrintSummary writes a summary of simulation results to w
func PrintSummary(w io.Writer, stats *statistics.Statistics, opponent string) {
	mean := stats.Mean()
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS vs %s ===\n", opponent)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f blinds/round\n", mean)
	fmt.Fprintf(w, "Median: %.4f blinds/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f blinds\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f blinds\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] blinds/round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== PROFIT SOURCE ANALYSIS ===\n")
	if wins := stats.ShowdownWins + stats.NonShowdownWins; wins > 0 {
		fmt.Fprintf(w, "Winning rounds: %d showdown (%.1f%%), %d fold equity (%.1f%%)\n",
			stats.ShowdownWins, float64(stats.ShowdownWins)/float64(wins)*100,
			stats.NonShowdownWins, float64(stats.NonShowdownWins)/float64(wins)*100)
	}
	meanNSD := stats.NonShowdownBlinds / float64(stats.Rounds)
	meanSD := stats.ShowdownBlinds / float64(stats.Rounds)
	fmt.Fprintf(w, "Non-showdown: %.2f blinds/round avg (all rounds)\n", meanNSD)
	fmt.Fprintf(w, "Showdown: %.2f blinds/round avg (all rounds)\n", meanSD)

	fmt.Fprintf(w, "\n=== POT SIZE ANALYSIS ===\n")
	fmt.Fprintf(w, "Max pot observed: %d chips (%.1f blinds)\n", stats.MaxPot, stats.MaxPotBlinds)
	fmt.Fprintf(w, "Big pots (>=%d blinds): %d rounds (%.1f%%), %.2f blinds total\n",
		statistics.BigPotBlinds, stats.BigPots,
		float64(stats.BigPots)/float64(stats.Rounds)*100, stats.BigPotBlinds)

	fmt.Fprintf(w, "\n=== STREET ANALYSIS ===\n")
	for street, n := range stats.Streets {
		if n > 0 {
			fmt.Fprintf(w, "Ended on %s: %d rounds\n", game.Street(street), n)
		}
	}

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for seat, ss := range stats.SeatResults {
		if ss.Rounds > 0 {
			fmt.Fprintf(w, "Seat %d: %d rounds, %.3f blinds/round\n", seat, ss.Rounds, stats.SeatMean(seat))
		}
	}
}
