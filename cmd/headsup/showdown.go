package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/tui"
)

type ShowdownCmd struct {
	Board   string   `short:"b" required:"" help:"Community cards, 3 to 5 (e.g. 'Td7s8h2c')"`
	Hands   []string `arg:"" help:"Two-card hands to compare, e.g. 'AcKd QhJs'"`
	Kickers string   `default:"raw" enum:"raw,best-five" help:"Showdown kicker rule (raw|best-five)"`
}

func (c *ShowdownCmd) Run(g *Globals) error {
	return c.run(os.Stdout)
}

func (c *ShowdownCmd) run(out io.Writer) error {
	board, err := parseBoard(c.Board, 3)
	if err != nil {
		return err
	}
	holes, err := parseHands(c.Hands)
	if err != nil {
		return err
	}
	if err := deck.CheckDistinct(append(slices.Clone(holes), board)...); err != nil {
		return err
	}
	rule, err := evaluator.ParseKickerRule(c.Kickers)
	if err != nil {
		return err
	}

	hands := make([][]deck.Card, len(holes))
	for i, hole := range holes {
		hands[i] = evaluator.NewHand(hole...).Combine(board)
	}
	winners := evaluator.Comparator{Kickers: rule}.Winners(hands)

	fmt.Fprintf(out, "Board: %s\n\n", tui.RenderCards(board))
	for i, hand := range hands {
		marker := "  "
		if slices.Contains(winners, i) {
			marker = winStyle.Render("★ ")
		}
		fmt.Fprintf(out, "%s%s  %s\n", marker, handStyle.Render(tui.RenderCards(holes[i])),
			categoryStyle.Render(evaluator.Evaluate(hand).String()))
	}

	fmt.Fprintln(out)
	if len(winners) > 1 {
		fmt.Fprintln(out, tieStyle.Render(fmt.Sprintf("Split pot between %d hands", len(winners))))
	} else {
		fmt.Fprintln(out, winStyle.Render(fmt.Sprintf("Hand %d wins", winners[0]+1)))
	}
	return nil
}

func parseHands(handStrings []string) ([][]deck.Card, error) {
	if len(handStrings) == 0 {
		return nil, fmt.Errorf("at least one hand is required")
	}
	hands := make([][]deck.Card, 0, len(handStrings))
	for _, s := range handStrings {
		hole, err := parseHole(s)
		if err != nil {
			return nil, err
		}
		hands = append(hands, hole)
	}
	return hands, nil
}
