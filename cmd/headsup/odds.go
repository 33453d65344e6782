package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/tui"
)

type OddsCmd struct {
	Hole    string `arg:"" help:"Your two hole cards, e.g. 'AsKd'"`
	Board   string `short:"b" help:"Community cards revealed so far (e.g. 'Td7s8h')"`
	Trials  int    `short:"t" default:"100000" help:"Number of Monte Carlo trials"`
	Workers int    `short:"w" help:"Parallel workers (defaults to one per CPU)"`
	Seed    *int64 `help:"Random seed for reproducible results"`
	Kickers string `default:"raw" enum:"raw,best-five" help:"Showdown kicker rule (raw|best-five)"`
}

func (c *OddsCmd) Run(g *Globals) error {
	return c.run(context.Background(), os.Stdout, g)
}

func (c *OddsCmd) run(ctx context.Context, out io.Writer, g *Globals) error {
	hole, err := parseHole(c.Hole)
	if err != nil {
		return err
	}
	board, err := parseBoard(c.Board, 0)
	if err != nil {
		return err
	}
	rule, err := evaluator.ParseKickerRule(c.Kickers)
	if err != nil {
		return err
	}

	opts := []equity.Option{
		equity.WithTrials(c.Trials),
		equity.WithComparator(evaluator.Comparator{Kickers: rule}),
		equity.WithLogger(g.Logger()),
	}
	if c.Workers > 0 {
		opts = append(opts, equity.WithWorkers(c.Workers))
	}
	if c.Seed != nil {
		opts = append(opts, equity.WithSeed(*c.Seed))
	}

	result, err := equity.New(opts...).Estimate(ctx, hole, board)
	if err != nil {
		return err
	}

	displayOdds(out, hole, board, result)
	return nil
}

func displayOdds(out io.Writer, hole, board []deck.Card, result equity.Result) {
	lo, hi := result.ConfidenceInterval95()

	fmt.Fprintln(out, headerStyle.Render("Heads-up win rate"))
	fmt.Fprintf(out, "Hand:   %s\n", handStyle.Render(tui.RenderCards(hole)))
	fmt.Fprintf(out, "Board:  %s\n", tui.RenderCards(board))
	if len(board) == 0 {
		if pct, ok := deck.StartingHandPercentile(hole[0], hole[1]); ok {
			fmt.Fprintf(out, "Class:  %s (percentile %.0f of starting hands)\n",
				deck.StartingHandKey(hole[0], hole[1]), pct*100)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Win:    %s\n", winStyle.Render(fmt.Sprintf("%.2f%%", result.Probability()*100)))
	fmt.Fprintf(out, "Tie:    %s\n", tieStyle.Render(fmt.Sprintf("%.2f%%", result.TieRate()*100)))
	fmt.Fprintf(out, "95%% CI: %.2f%% - %.2f%%\n", lo*100, hi*100)
	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("%d trials across %d workers in %v",
		result.Trials, result.Workers, result.Duration)))
}

// parseHole parses exactly two hole cards
func parseHole(s string) ([]deck.Card, error) {
	hole, err := deck.ParseCards(s)
	if err != nil {
		return nil, fmt.Errorf("hand %q: %w", s, err)
	}
	if len(hole) != 2 {
		return nil, fmt.Errorf("hand %q: must contain exactly 2 cards, got %d", s, len(hole))
	}
	return hole, nil
}

// parseBoard parses up to five community cards, requiring at least minCards
func parseBoard(s string, minCards int) ([]deck.Card, error) {
	if s == "" && minCards == 0 {
		return nil, nil
	}
	board, err := deck.ParseCards(s)
	if err != nil {
		return nil, fmt.Errorf("board %q: %w", s, err)
	}
	if len(board) < minCards || len(board) > 5 {
		return nil, fmt.Errorf("board %q: must contain %d to 5 cards, got %d", s, minCards, len(board))
	}
	return board, nil
}
