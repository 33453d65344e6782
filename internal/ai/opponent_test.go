package ai

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/randutil"
)

func testOpponent(opts ...Option) *Opponent {
	est := equity.New(equity.WithTrials(2000), equity.WithWorkers(2), equity.WithSeed(1))
	return NewOpponent(DefaultConfig(), est, opts...)
}

func TestWinRateIsCachedPerVisibleBoard(t *testing.T) {
	o := testOpponent()
	ctx := context.Background()
	hole := deck.MustParseCards("AsKs")
	board := deck.MustParseCards("QsJs2h9d3c")

	first, err := o.WinRate(ctx, hole, nil)
	require.NoError(t, err)
	again, err := o.WinRate(ctx, hole, nil)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, o.estimates)

	for visible := 3; visible <= 5; visible++ {
		_, err := o.WinRate(ctx, hole, board[:visible])
		require.NoError(t, err)
		_, err = o.WinRate(ctx, hole, board[:visible])
		require.NoError(t, err)
	}
	assert.Equal(t, 4, o.estimates, "one estimate per visible board size")

	_, err = o.WinRate(ctx, deck.MustParseCards("7c2d"), board)
	require.NoError(t, err)
	assert.Equal(t, 5, o.estimates, "new hole cards invalidate the cache")
}

func TestWinRateRejectsBadInput(t *testing.T) {
	o := testOpponent()
	_, err := o.WinRate(context.Background(), deck.MustParseCards("AsKs"), deck.MustParseCards("As2c3c"))
	assert.ErrorIs(t, err, deck.ErrDuplicateCard)
	assert.Zero(t, o.estimates)
}

func TestChoose(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		rate float64
		view game.View
		want game.Action
	}{
		{
			name: "strong hand bets half the pot",
			rate: 0.9,
			view: game.View{Pot: 100, Chips: 1950, OpponentChips: 1950},
			want: game.Action{Kind: game.Bet, Amount: 50},
		},
		{
			name: "strong hand raises a bet",
			rate: 0.75,
			view: game.View{Pot: 300, ToCall: 200, Chips: 1950, OpponentChips: 1750},
			want: game.Action{Kind: game.Bet, Amount: 150},
		},
		{
			name: "strong hand calls an all in",
			rate: 0.9,
			view: game.View{Pot: 4000, ToCall: 1950, Chips: 1950, OpponentChips: 0},
			want: game.Action{Kind: game.Call},
		},
		{
			name: "bet size capped at remaining stack",
			rate: 0.9,
			view: game.View{Pot: 1000, ToCall: 100, Chips: 300, OpponentChips: 1000},
			want: game.Action{Kind: game.Bet, Amount: 200},
		},
		{
			name: "medium hand calls",
			rate: 0.55,
			view: game.View{Pot: 300, ToCall: 200, Chips: 1950, OpponentChips: 1750},
			want: game.Action{Kind: game.Call},
		},
		{
			name: "medium hand checks",
			rate: 0.55,
			view: game.View{Pot: 100, Chips: 1950, OpponentChips: 1950},
			want: game.Action{Kind: game.Check},
		},
		{
			name: "marginal hand calls a small bet",
			rate: 0.35,
			view: game.View{Pot: 300, ToCall: 20, Chips: 1950, OpponentChips: 1750},
			want: game.Action{Kind: game.Call},
		},
		{
			name: "marginal hand folds to a big bet",
			rate: 0.35,
			view: game.View{Pot: 1100, ToCall: 1000, Chips: 1950, OpponentChips: 900},
			want: game.Action{Kind: game.Fold},
		},
		{
			name: "weak hand folds to any bet",
			rate: 0.1,
			view: game.View{Pot: 110, ToCall: 10, Chips: 1950, OpponentChips: 1940},
			want: game.Action{Kind: game.Fold},
		},
		{
			name: "weak hand checks when free",
			rate: 0.1,
			view: game.View{Pot: 100, Chips: 1950, OpponentChips: 1950},
			want: game.Action{Kind: game.Check},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.choose(tt.rate, tt.view))
		})
	}
}

func TestDecideUsesEstimate(t *testing.T) {
	o := testOpponent()
	v := game.View{
		Street:        game.River,
		Hole:          deck.MustParseCards("AsAd"),
		Board:         deck.MustParseCards("AhAcKdKh2c"),
		Pot:           100,
		Chips:         1950,
		OpponentChips: 1950,
	}
	d, err := o.Decide(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.WinRate)
	assert.Equal(t, game.Action{Kind: game.Bet, Amount: 50}, d.Action)
}

func TestDecideHonoursContextDuringThinkTime(t *testing.T) {
	clock := quartz.NewMock(t)
	o := testOpponent(WithClock(clock), WithThinkTime(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	v := game.View{Hole: deck.MustParseCards("7c2d"), Pot: 100, Chips: 1950, OpponentChips: 1950}

	// Warm the cache so the cancelled context only affects the wait
	_, err := o.WinRate(ctx, v.Hole, v.Board)
	require.NoError(t, err)
	cancel()

	_, err = o.Decide(ctx, v)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecidePlaysAFullRound(t *testing.T) {
	s, err := game.NewSession([2]string{"Alice", "Bot"}, 2000, 50, randutil.New(5))
	require.NoError(t, err)
	r, err := s.NextRound()
	require.NoError(t, err)

	o := testOpponent()
	for !r.Done() {
		seat := r.ToAct()
		a := game.Action{Kind: game.Check}
		if seat == 1 {
			d, err := o.Decide(context.Background(), r.View(seat))
			require.NoError(t, err)
			a = d.Action
		} else if r.ToCall(seat) > 0 {
			a = game.Action{Kind: game.Call}
		}
		require.NoError(t, r.Act(seat, a))
	}
	assert.Equal(t, 4000, s.Player(0).Chips+s.Player(1).Chips)
}

func TestNewConfigJitter(t *testing.T) {
	base := DefaultConfig()
	assert.Equal(t, base, NewConfig(base, 0, randutil.New(1)))

	for seed := int64(0); seed < 200; seed++ {
		cfg := NewConfig(base, 0.1, randutil.New(seed))
		require.NoError(t, cfg.Validate())
		assert.InDelta(t, base.FoldThreshold, cfg.FoldThreshold, 0.3)
		assert.InDelta(t, base.RaiseThreshold, cfg.RaiseThreshold, 0.3)
		assert.InDelta(t, base.Aggressiveness, cfg.Aggressiveness, 0.05+1e-9)
	}

	a := NewConfig(base, 0.1, randutil.New(9))
	b := NewConfig(base, 0.1, randutil.New(9))
	assert.Equal(t, a, b)

	wild := NewConfig(base, 5, randutil.New(3))
	require.NoError(t, wild.Validate(), "large jitter still yields ordered probabilities")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := []Config{
		{FoldThreshold: -0.1, CallThreshold: 0.5, RaiseThreshold: 0.7},
		{FoldThreshold: 0.3, CallThreshold: 0.5, RaiseThreshold: 1.2},
		{FoldThreshold: 0.6, CallThreshold: 0.5, RaiseThreshold: 0.7},
		{FoldThreshold: 0.3, CallThreshold: 0.5, RaiseThreshold: 0.7, Aggressiveness: -1},
	}
	for _, cfg := range bad {
		assert.Error(t, cfg.Validate(), "%+v", cfg)
	}
}
