package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/headsup/internal/ai"
	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/equity"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/gameid"
	"github.com/lox/headsup/internal/phh"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/tui"
)

type PlayCmd struct {
	Config string `short:"c" default:"headsup.hcl" help:"Path to HCL configuration file"`
	Seed   *int64 `help:"Deterministic seed for the deal and the opponent (optional)"`
	TUI    bool   `help:"Full-screen interface with a scrolling game log"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := g.Logger(cfg.Log.Level)

	seed := randutil.Seed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Debug("Dealing", "seed", seed)

	t, err := newTable(cfg, randutil.New(seed), logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if c.TUI {
		return tui.Run(ctx, tui.Config{
			Session:    t.session,
			Opponent:   t.opponent,
			Names:      [2]string{cfg.Table.PlayerName, cfg.Table.OpponentName},
			BetSteps:   cfg.Table.BetSteps,
			OnRoundEnd: t.record,
			Logger:     logger,
		})
	}
	return t.play(ctx, os.Stdin, os.Stdout)
}

// table runs a session between the human in seat 0 and the computer in
// seat 1
type table struct {
	id       string
	cfg      *config.Config
	session  *game.Session
	opponent *ai.Opponent
	last     *phh.HandHistory
	logger   *log.Logger
}

func newTable(cfg *config.Config, rng *rand.Rand, logger *log.Logger) (*table, error) {
	session, err := game.NewSession(
		[2]string{cfg.Table.PlayerName, cfg.Table.OpponentName},
		cfg.Table.StartingChips,
		cfg.Table.Blind,
		rng,
		game.WithLogger(logger),
		game.WithComparator(evaluator.Comparator{Kickers: cfg.KickerRule()}),
	)
	if err != nil {
		return nil, err
	}

	estimator := equity.New(append(cfg.EstimatorOptions(), equity.WithLogger(logger))...)
	thresholds := ai.NewConfig(cfg.AIThresholds(), cfg.AI.Jitter, rng)
	logger.Debug("Opponent thresholds",
		"fold", thresholds.FoldThreshold,
		"call", thresholds.CallThreshold,
		"raise", thresholds.RaiseThreshold,
		"aggressiveness", thresholds.Aggressiveness)

	opponent := ai.NewOpponent(thresholds, estimator,
		ai.WithLogger(logger),
		ai.WithThinkTime(time.Duration(cfg.AI.ThinkMs)*time.Millisecond))

	return &table{
		id:       gameid.Generate(),
		cfg:      cfg,
		session:  session,
		opponent: opponent,
		logger:   logger,
	}, nil
}

func (t *table) play(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for !t.session.Over() {
		r, err := t.session.NextRound()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("── Round %d ──", t.session.Rounds())))

		for !r.Done() {
			if err := ctx.Err(); err != nil {
				return err
			}

			if r.ToAct() == 1 {
				d, err := t.opponent.Decide(ctx, r.View(1))
				if err != nil {
					return err
				}
				if err := r.Act(1, d.Action); err != nil {
					return fmt.Errorf("opponent: %w", err)
				}
				fmt.Fprintf(out, "%s %s\n", t.cfg.Table.OpponentName, d.Action.Verb())
				continue
			}

			t.renderTable(out, r)
			a, ok := t.prompt(scanner, out, r.View(0))
			if !ok {
				fmt.Fprintln(out, "Goodbye")
				return scanner.Err()
			}
			if err := r.Act(0, a); err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}
		}
		t.renderOutcome(out, r)
		t.record(r)
	}

	winner, _ := t.session.Winner()
	loser := t.session.Player(1 - winner)
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s is out of chips! %s wins the game!",
		loser.Name, t.session.Player(winner).Name)))
	return nil
}

// prompt reads actions until one parses. ok is false on quit or end of input.
func (t *table) prompt(scanner *bufio.Scanner, out io.Writer, v game.View) (game.Action, bool) {
	steps := make([]string, len(t.cfg.Table.BetSteps))
	for i, step := range t.cfg.Table.BetSteps {
		steps[i] = fmt.Sprintf("bet %d", step)
	}
	options := "check"
	if v.ToCall > 0 {
		options = "call"
	}
	hint := fmt.Sprintf("[%s | %s | allin | fold | history | quit]", options, strings.Join(steps, " | "))

	for {
		fmt.Fprintf(out, "%s %s > ", "Your move", infoStyle.Render(hint))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return game.Action{}, false
		}

		line := strings.TrimSpace(strings.ToLower(scanner.Text()))
		switch line {
		case "quit", "q", "exit":
			return game.Action{}, false
		case "allin", "all in", "all":
			return game.Action{Kind: game.Bet, Amount: v.Chips}, true
		case "history", "h":
			t.printLast(out)
			continue
		}

		a, err := game.ParseAction(line)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			continue
		}
		return a, true
	}
}

func (t *table) renderTable(out io.Writer, r *game.Round) {
	board := r.Visible()
	fmt.Fprintf(out, "Board: %s %s\n", tui.RenderCards(board), tui.RenderHidden(5-len(board)))
	fmt.Fprintf(out, "Pot: %d   %s: %d   %s: %d\n", r.Pot(),
		t.cfg.Table.PlayerName, t.session.Player(0).Chips,
		t.cfg.Table.OpponentName, t.session.Player(1).Chips)
	fmt.Fprintf(out, "Your hand: %s", handStyle.Render(tui.RenderCards(r.Hole(0))))
	if toCall := r.ToCall(0); toCall > 0 {
		fmt.Fprintf(out, "   To call: %d", toCall)
	}
	fmt.Fprintln(out)
}

func (t *table) renderOutcome(out io.Writer, r *game.Round) {
	o, _ := r.Outcome()
	names := [2]string{t.cfg.Table.PlayerName, t.cfg.Table.OpponentName}

	if !o.Folded {
		fmt.Fprintf(out, "Board: %s\n", tui.RenderCards(r.Board()))
		for seat := range names {
			fmt.Fprintf(out, "%s: %s  %s\n", names[seat],
				handStyle.Render(tui.RenderCards(r.Hole(seat))),
				categoryStyle.Render(o.Strengths[seat].String()))
		}
	}

	switch {
	case o.Split():
		fmt.Fprintln(out, tieStyle.Render(fmt.Sprintf("It's a draw! Pot of %d split", o.Pot)))
	default:
		fmt.Fprintln(out, winStyle.Render(fmt.Sprintf("%s wins the pot of %d!", names[o.Winners[0]], o.Pot)))
	}
	fmt.Fprintln(out)
}

// record keeps the settled round as a PHH transcript for the history command
func (t *table) record(r *game.Round) {
	names := [2]string{t.cfg.Table.PlayerName, t.cfg.Table.OpponentName}
	handID := fmt.Sprintf("%s-%d", t.id, t.session.Rounds())

	h, err := phh.FromRound(t.id, handID, names, r, time.Now())
	if err != nil {
		t.logger.Warn("Failed to record round", "hand", handID, "error", err)
		return
	}
	t.last = h
}

func (t *table) printLast(out io.Writer) {
	if t.last == nil {
		fmt.Fprintln(out, infoStyle.Render("No round has finished yet"))
		return
	}
	if err := phh.Encode(out, t.last); err != nil {
		fmt.Fprintln(out, errorStyle.Render(err.Error()))
	}
}
