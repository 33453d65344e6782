// Package ai is the computer opponent. It turns a Monte Carlo win rate into
// a check, call, bet or fold using a small set of thresholds.
package ai

import (
	"fmt"
	"math"
	rand "math/rand/v2"
	"slices"
)

// Config holds the decision thresholds. Win rates below FoldThreshold give
// up when facing a bet, rates at or above CallThreshold always continue,
// and rates at or above RaiseThreshold bet Aggressiveness times the pot.
type Config struct {
	FoldThreshold  float64
	CallThreshold  float64
	RaiseThreshold float64
	Aggressiveness float64
}

// DefaultConfig returns thresholds tuned for a random heads-up opponent
func DefaultConfig() Config {
	return Config{
		FoldThreshold:  0.30,
		CallThreshold:  0.50,
		RaiseThreshold: 0.70,
		Aggressiveness: 0.5,
	}
}

// NewConfig perturbs every value of base by up to ±jitter so that each
// session faces a slightly different opponent. Thresholds stay in [0,1] and
// in fold ≤ call ≤ raise order.
func NewConfig(base Config, jitter float64, rng *rand.Rand) Config {
	if jitter <= 0 || rng == nil {
		return base
	}
	perturb := func(v float64) float64 {
		return v + (rng.Float64()*2-1)*jitter
	}

	thresholds := []float64{
		clamp(perturb(base.FoldThreshold)),
		clamp(perturb(base.CallThreshold)),
		clamp(perturb(base.RaiseThreshold)),
	}
	slices.Sort(thresholds)

	return Config{
		FoldThreshold:  thresholds[0],
		CallThreshold:  thresholds[1],
		RaiseThreshold: thresholds[2],
		Aggressiveness: math.Max(0, base.Aggressiveness*(1+(rng.Float64()*2-1)*jitter)),
	}
}

// Validate checks that thresholds are probabilities in ascending order
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"fold threshold":  c.FoldThreshold,
		"call threshold":  c.CallThreshold,
		"raise threshold": c.RaiseThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %g", name, v)
		}
	}
	if c.FoldThreshold > c.CallThreshold || c.CallThreshold > c.RaiseThreshold {
		return fmt.Errorf("thresholds must satisfy fold <= call <= raise, got %g, %g, %g",
			c.FoldThreshold, c.CallThreshold, c.RaiseThreshold)
	}
	if c.Aggressiveness < 0 {
		return fmt.Errorf("aggressiveness must not be negative, got %g", c.Aggressiveness)
	}
	return nil
}

func clamp(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
