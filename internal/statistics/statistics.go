// Package statistics accumulates per-round results of simulated heads-up
// play, measured in blinds won or lost.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/headsup/internal/game"
)

// BigPotBlinds is the pot size, in blinds, from which a pot counts as big
const BigPotBlinds = 20

// RoundResult is the outcome of one round from the hero's point of view
type RoundResult struct {
	NetBlinds      float64     // Blinds won (positive) or lost (negative)
	Seed           int64       // Deal seed, for replay
	Seat           int         // Hero's seat, 0 or 1
	WentToShowdown bool        // Round was settled by comparing hands
	Pot            int         // Final pot in chips
	PotBlinds      float64     // Final pot in blinds
	Street         game.Street // Street the round ended on
}

// SeatStats tracks results for one seat
type SeatStats struct {
	Rounds    int
	SumBlinds float64
}

// Statistics tracks simulation results
type Statistics struct {
	Rounds     int
	SumBlinds  float64
	SumBlinds2 float64   // Sum of squares for variance calculation
	Values     []float64 // Every result, for median and percentiles

	ShowdownWins      int     // Rounds won at showdown
	NonShowdownWins   int     // Rounds won because the opponent folded
	ShowdownBlinds    float64 // Net blinds from showdowns, wins and losses
	NonShowdownBlinds float64 // Net blinds from folds, wins and losses
	AllBlinds         float64 // Running total for the ledger check

	SeatResults [2]SeatStats
	Streets     [game.Showdown + 1]int // Rounds ending on each street

	MaxPot       int
	MaxPotBlinds float64
	BigPots      int
	BigPotBlinds float64 // Net blinds from big pots
}

// Add incorporates a round result
func (s *Statistics) Add(result RoundResult) {
	net := result.NetBlinds
	s.Rounds++
	s.SumBlinds += net
	s.SumBlinds2 += net * net
	s.Values = append(s.Values, net)

	if net > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}

	if result.WentToShowdown {
		s.ShowdownBlinds += net
	} else {
		s.NonShowdownBlinds += net
	}
	s.AllBlinds += net

	if result.Seat == 0 || result.Seat == 1 {
		s.SeatResults[result.Seat].Rounds++
		s.SeatResults[result.Seat].SumBlinds += net
	}
	if result.Street >= game.PreFlop && result.Street <= game.Showdown {
		s.Streets[result.Street]++
	}

	if result.Pot > s.MaxPot {
		s.MaxPot = result.Pot
		s.MaxPotBlinds = result.PotBlinds
	}
	if result.PotBlinds >= BigPotBlinds {
		s.BigPots++
		s.BigPotBlinds += net
	}
}

// Mean returns the average result in blinds per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumBlinds / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	// Rounding can push identical results just below zero
	return max(0, (s.SumBlinds2-float64(s.Rounds)*mean*mean)/float64(s.Rounds-1))
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated result at p (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the average result when the hero sat in seat
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat > 1 || s.SeatResults[seat].Rounds == 0 {
		return 0
	}
	return s.SeatResults[seat].SumBlinds / float64(s.SeatResults[seat].Rounds)
}

// IsLedgerBalanced checks that showdown and fold results add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBlinds-s.ShowdownBlinds-s.NonShowdownBlinds) <= 1e-6
}

// Validate checks the accumulated data is internally consistent
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: all=%.6f, showdown=%.6f, non-showdown=%.6f",
			s.AllBlinds, s.ShowdownBlinds, s.NonShowdownBlinds)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values length (%d) does not match rounds count (%d)", len(s.Values), s.Rounds)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Rounds {
		return fmt.Errorf("total wins (%d) exceeds total rounds (%d)", wins, s.Rounds)
	}
	if seats := s.SeatResults[0].Rounds + s.SeatResults[1].Rounds; seats != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match total rounds (%d)", seats, s.Rounds)
	}
	return nil
}
