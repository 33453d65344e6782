// Package equity estimates how often a heads-up hand wins outright by Monte
// Carlo simulation against a random opponent hand.
package equity

import (
	"context"
	"fmt"
	"math"
	rand "math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/logging"
	"github.com/lox/headsup/internal/randutil"
)

const (
	// DefaultTrials keeps the standard error of an estimate under 0.16%
	// for any win rate (sqrt(0.25/100000)).
	DefaultTrials = 100000

	// FallbackWorkers is used when the platform reports no CPUs
	FallbackWorkers = 16
)

// DefaultWorkers returns one worker per hardware thread, or FallbackWorkers
// when that cannot be discovered
func DefaultWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return FallbackWorkers
}

// Estimator runs Monte Carlo trials across a fixed pool of workers. It holds
// no mutable state and is safe for concurrent use.
type Estimator struct {
	trials  int
	workers int
	seed    int64
	seeded  bool
	clock   quartz.Clock
	logger  *log.Logger
	cmp     evaluator.Comparator
}

// Option configures an Estimator
type Option func(*Estimator)

// WithTrials sets the number of trials per estimate
func WithTrials(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.trials = n
		}
	}
}

// WithWorkers sets the number of parallel workers
func WithWorkers(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSeed makes every estimate reproducible for a given worker count
func WithSeed(seed int64) Option {
	return func(e *Estimator) {
		e.seed = seed
		e.seeded = true
	}
}

// WithClock sets the clock used to time estimates
func WithClock(clock quartz.Clock) Option {
	return func(e *Estimator) {
		e.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Estimator) {
		e.logger = logger
	}
}

// WithComparator sets how each trial's showdown is settled
func WithComparator(cmp evaluator.Comparator) Option {
	return func(e *Estimator) {
		e.cmp = cmp
	}
}

// New creates an Estimator with DefaultTrials and DefaultWorkers
func New(opts ...Option) *Estimator {
	e := &Estimator{
		trials:  DefaultTrials,
		workers: DefaultWorkers(),
		clock:   quartz.NewReal(),
		logger:  logging.Discard(),
		cmp:     evaluator.DefaultComparator,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Trials returns the number of trials per estimate
func (e *Estimator) Trials() int { return e.trials }

// Workers returns the size of the worker pool
func (e *Estimator) Workers() int { return e.workers }

// Result aggregates the outcome of every trial in one estimate
type Result struct {
	Wins     int
	Ties     int
	Trials   int
	Workers  int
	Duration time.Duration
}

// Probability is the fraction of trials won outright. Ties are not wins.
func (r Result) Probability() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trials)
}

// TieRate is the fraction of trials that split the pot
func (r Result) TieRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Ties) / float64(r.Trials)
}

// StdError returns the binomial standard error of Probability
func (r Result) StdError() float64 {
	if r.Trials == 0 {
		return 0
	}
	p := r.Probability()
	return math.Sqrt(p * (1 - p) / float64(r.Trials))
}

// ConfidenceInterval95 returns the 95% interval around Probability, clamped
// to [0,1]
func (r Result) ConfidenceInterval95() (float64, float64) {
	p := r.Probability()
	margin := 1.96 * r.StdError()
	return math.Max(0, p-margin), math.Min(1, p+margin)
}

// EvaluateHand returns the probability that hole beats a random opponent
// once board (0 to 5 cards) is completed. It panics on malformed input:
// hole must be two cards and no card may repeat across hole and board.
func (e *Estimator) EvaluateHand(hole, board []deck.Card) float64 {
	result, err := e.Estimate(context.Background(), hole, board)
	if err != nil {
		panic(fmt.Sprintf("equity: %v", err))
	}
	return result.Probability()
}

// Estimate runs every trial and blocks until all workers finish. The context
// is only consulted before the workers start; a started run always completes.
func (e *Estimator) Estimate(ctx context.Context, hole, board []deck.Card) (Result, error) {
	if len(hole) != 2 {
		return Result{}, fmt.Errorf("need 2 hole cards, got %d", len(hole))
	}
	if len(board) > 5 {
		return Result{}, fmt.Errorf("board has %d cards, at most 5 allowed", len(board))
	}
	if err := deck.CheckDistinct(hole, board); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	seed := e.seed
	if !e.seeded {
		seed = rand.Int64()
	}
	workers := min(e.workers, e.trials)
	unseen := unseenCards(hole, board)
	start := e.clock.Now()

	counts := make([]tally, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			counts[w] = e.runWorker(w, workers, hole, board, unseen, randutil.Derive(seed, w))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Workers: workers}
	for _, c := range counts {
		result.Wins += c.wins
		result.Ties += c.ties
		result.Trials += c.trials
	}
	result.Duration = e.clock.Since(start)

	e.logger.Debug("Estimated win rate",
		"hole", deck.FormatCards(hole),
		"board", deck.FormatCards(board),
		"trials", result.Trials,
		"workers", result.Workers,
		"probability", fmt.Sprintf("%.4f", result.Probability()),
		"duration", result.Duration)

	return result, nil
}

// tally is one worker's private count
type tally struct {
	wins   int
	ties   int
	trials int
}

// runWorker plays trials w, w+workers, w+2*workers, ... Each trial takes a
// private copy of the unseen cards, shuffles the cards it needs to the
// front, completes the board from them in order and deals the opponent the
// next two.
func (e *Estimator) runWorker(w, workers int, hole, board, unseen []deck.Card, rng *rand.Rand) tally {
	var t tally

	need := 5 - len(board)
	draw := need + 2
	pool := make([]deck.Card, len(unseen))

	mine := make([]deck.Card, 7)
	theirs := make([]deck.Card, 7)
	copy(mine, hole)
	copy(mine[2:], board)
	copy(theirs[2:], board)
	fill := 2 + len(board)

	for i := w; i < e.trials; i += workers {
		copy(pool, unseen)
		for k := 0; k < draw; k++ {
			j := k + rng.IntN(len(pool)-k)
			pool[k], pool[j] = pool[j], pool[k]
		}

		copy(mine[fill:], pool[:need])
		copy(theirs[fill:], pool[:need])
		theirs[0], theirs[1] = pool[need], pool[need+1]

		t.trials++
		switch e.cmp.Compare(mine, theirs) {
		case evaluator.FirstWins:
			t.wins++
		case evaluator.Tie:
			t.ties++
		}
	}
	return t
}

// unseenCards returns the 52-card pack minus every known card. With two hole
// cards and at most five on the board at least 45 remain, enough for any
// board completion plus an opponent hand.
func unseenCards(known ...[]deck.Card) []deck.Card {
	var used [deck.NumSuits * deck.NumRanks]bool
	for _, group := range known {
		for _, c := range group {
			used[c.Index()] = true
		}
	}
	unseen := make([]deck.Card, 0, len(used))
	for _, c := range deck.Full() {
		if !used[c.Index()] {
			unseen = append(unseen, c)
		}
	}
	return unseen
}
