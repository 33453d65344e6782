package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/tui"
)

type RankCmd struct {
	Cards []string `arg:"" help:"5 to 7 cards, e.g. 'AsKs QsJsTs 2d'"`
}

func (c *RankCmd) Run(g *Globals) error {
	return c.run(os.Stdout)
}

func (c *RankCmd) run(out io.Writer) error {
	cards, err := deck.ParseCards(strings.Join(c.Cards, ""))
	if err != nil {
		return err
	}
	if len(cards) < 5 || len(cards) > 7 {
		return fmt.Errorf("need 5 to 7 cards, got %d", len(cards))
	}
	if err := deck.CheckDistinct(cards); err != nil {
		return err
	}

	strength := evaluator.Evaluate(cards)
	fmt.Fprintf(out, "%s  %s %s\n",
		tui.RenderCards(cards),
		categoryStyle.Render(fmt.Sprintf("[%d]", int(strength.Category))),
		strength)
	return nil
}
