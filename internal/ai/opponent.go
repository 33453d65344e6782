package ai

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/logging"
)

// Decision is the opponent's chosen action and the win rate behind it
type Decision struct {
	Action  game.Action
	WinRate float64
}

// Opponent decides actions from an equity estimate. The estimate is cached
// until the hole cards or the visible board change, so several decisions on
// one street cost a single simulation.
type Opponent struct {
	cfg       Config
	estimator *equity.Estimator
	clock     quartz.Clock
	think     time.Duration
	logger    *log.Logger

	mu        sync.Mutex
	cached    bool
	key       cacheKey
	rate      float64
	estimates int
}

// cacheKey identifies a hole hand and the visible board it was estimated on
type cacheKey struct {
	hole    [2]deck.Card
	board   [5]deck.Card
	visible int
}

// Option configures an Opponent
type Option func(*Opponent)

// WithClock sets the clock used for the think delay
func WithClock(clock quartz.Clock) Option {
	return func(o *Opponent) {
		o.clock = clock
	}
}

// WithThinkTime makes every decision wait d before returning
func WithThinkTime(d time.Duration) Option {
	return func(o *Opponent) {
		o.think = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(o *Opponent) {
		o.logger = logger
	}
}

// NewOpponent creates an opponent that plays cfg using estimator
func NewOpponent(cfg Config, estimator *equity.Estimator, opts ...Option) *Opponent {
	o := &Opponent{
		cfg:       cfg,
		estimator: estimator,
		clock:     quartz.NewReal(),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns the thresholds this opponent plays with
func (o *Opponent) Config() Config { return o.cfg }

// WinRate estimates how often hole beats a random hand on board. Repeated
// calls with the same hole cards and visible board reuse the last estimate.
func (o *Opponent) WinRate(ctx context.Context, hole, board []deck.Card) (float64, error) {
	key := newCacheKey(hole, board)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cached && o.key == key {
		return o.rate, nil
	}

	result, err := o.estimator.Estimate(ctx, hole, board)
	if err != nil {
		return 0, err
	}
	o.cached = true
	o.key = key
	o.rate = result.Probability()
	o.estimates++

	o.logger.Debug("Re-estimated win rate",
		"visible", len(board),
		"win_rate", o.rate,
		"duration", result.Duration)
	return o.rate, nil
}

func newCacheKey(hole, board []deck.Card) cacheKey {
	var key cacheKey
	copy(key.hole[:], hole)
	copy(key.board[:], board)
	key.visible = len(board)
	return key
}

// Decide chooses an action for the seat described by v
func (o *Opponent) Decide(ctx context.Context, v game.View) (Decision, error) {
	rate, err := o.WinRate(ctx, v.Hole, v.Board)
	if err != nil {
		return Decision{}, err
	}
	if err := o.wait(ctx); err != nil {
		return Decision{}, err
	}

	d := Decision{Action: o.cfg.choose(rate, v), WinRate: rate}
	o.logger.Debug("Opponent decided",
		"street", v.Street,
		"action", d.Action,
		"win_rate", rate,
		"to_call", v.ToCall)
	return d, nil
}

// wait pauses for the think time, returning early if ctx is done
func (o *Opponent) wait(ctx context.Context) error {
	if o.think <= 0 {
		return ctx.Err()
	}

	done := make(chan struct{})
	timer := o.clock.AfterFunc(o.think, func() {
		close(done)
	})
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c Config) choose(rate float64, v game.View) game.Action {
	facing := v.ToCall > 0
	canBet := v.Chips > v.ToCall && v.OpponentChips > 0

	switch {
	case rate >= c.RaiseThreshold && canBet:
		return game.Action{Kind: game.Bet, Amount: c.betSize(v)}
	case rate >= c.CallThreshold, rate >= c.FoldThreshold && rate >= potOdds(v):
		if facing {
			return game.Action{Kind: game.Call}
		}
		return game.Action{Kind: game.Check}
	case facing:
		return game.Action{Kind: game.Fold}
	default:
		return game.Action{Kind: game.Check}
	}
}

// betSize is Aggressiveness times the pot, at least one chip and no more
// than the stack left after calling
func (c Config) betSize(v game.View) int {
	amount := int(math.Round(c.Aggressiveness * float64(v.Pot)))
	return max(1, min(amount, v.Chips-v.ToCall))
}

// potOdds is the share of the final pot a call would contribute
func potOdds(v game.View) float64 {
	if v.ToCall <= 0 {
		return 0
	}
	return float64(v.ToCall) / float64(v.Pot+v.ToCall)
}
