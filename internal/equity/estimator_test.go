package equity

import (
	"context"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
)

func parse(t *testing.T, s string) []deck.Card {
	t.Helper()
	if s == "" {
		return nil
	}
	cards, err := deck.ParseCards(s)
	require.NoError(t, err)
	return cards
}

func TestEstimateWinRates(t *testing.T) {
	tests := []struct {
		name        string
		hole        string
		board       string
		expectedMin float64
		expectedMax float64
	}{
		{
			name:        "pocket aces preflop",
			hole:        "AsAd",
			expectedMin: 0.83, // ~85% equity, almost none of it from split pots
			expectedMax: 0.88,
		},
		{
			name:        "seven deuce offsuit preflop",
			hole:        "7h2c",
			expectedMin: 0.28,
			expectedMax: 0.40,
		},
		{
			name:        "quad aces on the river",
			hole:        "AsAd",
			board:       "AhAcKdKh2c",
			expectedMin: 1.0,
			expectedMax: 1.0,
		},
		{
			name:        "royal flush on board with the lowest kickers",
			hole:        "2c2d",
			board:       "AhKhQhJhTh",
			expectedMin: 0.0,
			expectedMax: 0.0,
		},
		{
			name:        "set on the flop",
			hole:        "7s7d",
			board:       "7cKd2h",
			expectedMin: 0.85,
			expectedMax: 0.97,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithTrials(20000), WithWorkers(4), WithSeed(12345))
			result, err := e.Estimate(context.Background(), parse(t, tt.hole), parse(t, tt.board))
			require.NoError(t, err)

			p := result.Probability()
			assert.GreaterOrEqual(t, p, tt.expectedMin, "win rate %.4f", p)
			assert.LessOrEqual(t, p, tt.expectedMax, "win rate %.4f", p)
			assert.Equal(t, 20000, result.Trials)
		})
	}
}

func TestTiesAreNotWins(t *testing.T) {
	// Under best-five every hand plays the royal flush on the board.
	e := New(WithTrials(1000), WithWorkers(2), WithSeed(1),
		WithComparator(evaluator.Comparator{Kickers: evaluator.BestFive}))
	result, err := e.Estimate(context.Background(), parse(t, "2c7d"), parse(t, "AhKhQhJhTh"))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Wins)
	assert.Equal(t, 1000, result.Ties)
	assert.InDelta(t, 1.0, result.TieRate(), 1e-12)
	assert.Zero(t, e.EvaluateHand(parse(t, "2c7d"), parse(t, "AhKhQhJhTh")))
}

func TestConvergesWithMoreTrials(t *testing.T) {
	hole, board := parse(t, "AsAd"), parse(t, "AhAcKdKh2c")
	for _, trials := range []int{100, 1000, 10000} {
		e := New(WithTrials(trials), WithSeed(9))
		assert.InDelta(t, 1.0, e.EvaluateHand(hole, board), 1e-12, "trials=%d", trials)
	}
}

func TestRepeatedRunsHaveOverlappingIntervals(t *testing.T) {
	hole := parse(t, "KhQh")
	a, err := New(WithTrials(20000), WithSeed(1)).Estimate(context.Background(), hole, nil)
	require.NoError(t, err)
	b, err := New(WithTrials(20000), WithSeed(2)).Estimate(context.Background(), hole, nil)
	require.NoError(t, err)

	aLo, aHi := a.ConfidenceInterval95()
	bLo, bHi := b.ConfidenceInterval95()
	assert.True(t, aLo <= bHi && bLo <= aHi,
		"intervals [%.4f, %.4f] and [%.4f, %.4f] do not overlap", aLo, aHi, bLo, bHi)
	assert.Less(t, a.StdError(), 0.005)
}

func TestSeededEstimateIsReproducible(t *testing.T) {
	hole, board := parse(t, "JcTc"), parse(t, "9c8d2s")
	a, err := New(WithTrials(5000), WithWorkers(3), WithSeed(77)).Estimate(context.Background(), hole, board)
	require.NoError(t, err)
	b, err := New(WithTrials(5000), WithWorkers(3), WithSeed(77)).Estimate(context.Background(), hole, board)
	require.NoError(t, err)

	assert.Equal(t, a.Wins, b.Wins)
	assert.Equal(t, a.Ties, b.Ties)
}

func TestEveryTrialRunsOnce(t *testing.T) {
	tests := []struct {
		trials, workers, wantWorkers int
	}{
		{trials: 10, workers: 4, wantWorkers: 4},
		{trials: 3, workers: 8, wantWorkers: 3},
		{trials: 1001, workers: 16, wantWorkers: 16},
		{trials: 1, workers: 1, wantWorkers: 1},
	}
	for _, tt := range tests {
		e := New(WithTrials(tt.trials), WithWorkers(tt.workers), WithSeed(5))
		result, err := e.Estimate(context.Background(), parse(t, "AhKh"), nil)
		require.NoError(t, err)
		assert.Equal(t, tt.trials, result.Trials)
		assert.Equal(t, tt.wantWorkers, result.Workers)
		assert.LessOrEqual(t, result.Wins+result.Ties, result.Trials)
	}
}

func TestEstimateDurationUsesClock(t *testing.T) {
	clock := quartz.NewMock(t)
	e := New(WithTrials(500), WithWorkers(2), WithSeed(3), WithClock(clock))
	result, err := e.Estimate(context.Background(), parse(t, "AhKh"), parse(t, "QhJh2c"))
	require.NoError(t, err)
	assert.Zero(t, result.Duration, "mock clock does not advance on its own")
}

func TestEstimateRejectsMalformedInput(t *testing.T) {
	e := New(WithTrials(10))
	ctx := context.Background()

	_, err := e.Estimate(ctx, parse(t, "AhKhQh"), nil)
	assert.Error(t, err)

	_, err = e.Estimate(ctx, parse(t, "AhKh"), parse(t, "2c3c4c5c6c7c"))
	assert.Error(t, err)

	_, err = e.Estimate(ctx, parse(t, "AhKh"), parse(t, "Ah2c3c"))
	assert.ErrorIs(t, err, deck.ErrDuplicateCard)

	assert.Panics(t, func() { e.EvaluateHand(parse(t, "Ah"), nil) })
}

func TestEstimateHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(WithTrials(10)).Estimate(ctx, parse(t, "AhKh"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComparatorOption(t *testing.T) {
	// The hole pair never improves on the board straight, so under
	// best-five it can only split or lose to an ace. Raw kickers let the
	// pair of eights outrank lower hole cards.
	hole, board := parse(t, "8c8d"), parse(t, "9hTdJcQsKh")
	raw := New(WithTrials(2000), WithSeed(4))
	best := New(WithTrials(2000), WithSeed(4), WithComparator(evaluator.Comparator{Kickers: evaluator.BestFive}))

	rawResult, err := raw.Estimate(context.Background(), hole, board)
	require.NoError(t, err)
	bestResult, err := best.Estimate(context.Background(), hole, board)
	require.NoError(t, err)

	assert.Zero(t, bestResult.Wins)
	assert.Greater(t, rawResult.Wins, 0)
}

func TestUnseenCards(t *testing.T) {
	unseen := unseenCards(parse(t, "AhKh"), parse(t, "2c3c4c"))
	assert.Len(t, unseen, 47)
	assert.NoError(t, deck.CheckDistinct(unseen, parse(t, "AhKh2c3c4c")))
}

func TestDefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
	e := New()
	assert.Equal(t, DefaultTrials, e.Trials())
	assert.Equal(t, DefaultWorkers(), e.Workers())
}

func BenchmarkEstimate(b *testing.B) {
	e := New(WithTrials(10000), WithSeed(1))
	hole := deck.MustParseCards("AsKs")
	board := deck.MustParseCards("QsJs2h")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.EvaluateHand(hole, board)
	}
}
