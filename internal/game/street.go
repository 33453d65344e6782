// Package game runs a heads-up Texas Hold'em session: blinds, four betting
// streets, all-in run outs and showdown settlement between two players.
package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrHandOver is returned when acting on a round that has been settled
	ErrHandOver = errors.New("hand is over")
	// ErrIllegalAction is returned for out-of-turn or malformed actions
	ErrIllegalAction = errors.New("illegal action")
	// ErrInsufficientChips is returned when a bet cannot be covered
	ErrInsufficientChips = errors.New("insufficient chips")
	// ErrGameOver is returned when a new round is requested after a player
	// has run out of chips
	ErrGameOver = errors.New("game over")
)

// Street represents a betting round within a hand
type Street int

const (
	PreFlop Street = iota
	Flop
	Turn
	River
	Showdown
)

var streetNames = [...]string{"preflop", "flop", "turn", "river", "showdown"}

func (s Street) String() string {
	if s < PreFlop || s > Showdown {
		return fmt.Sprintf("Street(%d)", int(s))
	}
	return streetNames[s]
}

// Visible returns how many board cards are face up on this street
func (s Street) Visible() int {
	switch s {
	case PreFlop:
		return 0
	case Flop:
		return 3
	case Turn:
		return 4
	default:
		return 5
	}
}

// ActionKind is what a player does when it is their turn
type ActionKind int

const (
	Check ActionKind = iota
	Call
	Bet
	Fold
)

func (k ActionKind) String() string {
	switch k {
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Fold:
		return "fold"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is a player's move. Amount is only meaningful for Bet, where it is
// the amount put in on top of anything owed.
type Action struct {
	Kind   ActionKind
	Amount int
}

func (a Action) String() string {
	if a.Kind == Bet {
		return fmt.Sprintf("bet %d", a.Amount)
	}
	return a.Kind.String()
}

// Verb phrases the action in the third person, e.g. "bets 50"
func (a Action) Verb() string {
	switch a.Kind {
	case Check:
		return "checks"
	case Call:
		return "calls"
	case Bet:
		return fmt.Sprintf("bets %d", a.Amount)
	case Fold:
		return "folds"
	default:
		return a.String()
	}
}

// ParseAction reads actions like "check", "call", "fold", "bet 50" or a bare
// amount. "wait" and "pass" are accepted for check and fold.
func ParseAction(s string) (Action, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("%w: empty action", ErrIllegalAction)
	}

	switch fields[0] {
	case "check", "wait", "k":
		return Action{Kind: Check}, nil
	case "call", "c":
		return Action{Kind: Call}, nil
	case "fold", "pass", "f":
		return Action{Kind: Fold}, nil
	case "bet", "raise", "b", "r":
		if len(fields) != 2 {
			return Action{}, fmt.Errorf("%w: %s needs an amount", ErrIllegalAction, fields[0])
		}
		return parseBet(fields[1])
	default:
		if len(fields) == 1 {
			if a, err := parseBet(fields[0]); err == nil {
				return a, nil
			}
		}
		return Action{}, fmt.Errorf("%w: unknown action %q", ErrIllegalAction, s)
	}
}

func parseBet(s string) (Action, error) {
	amount, err := strconv.Atoi(s)
	if err != nil || amount <= 0 {
		return Action{}, fmt.Errorf("%w: invalid bet amount %q", ErrIllegalAction, s)
	}
	return Action{Kind: Bet, Amount: amount}, nil
}
