package evaluator

import (
	"fmt"

	"github.com/lox/headsup/internal/deck"
)

// Outcome is the result of comparing two hands. The values line up with the
// usual 1/-1/0 comparator convention.
type Outcome int

const (
	SecondWins Outcome = -1
	Tie        Outcome = 0
	FirstWins  Outcome = 1
)

// String returns the readable outcome
func (o Outcome) String() string {
	switch o {
	case FirstWins:
		return "first wins"
	case SecondWins:
		return "second wins"
	case Tie:
		return "tie"
	default:
		return "unknown"
	}
}

// Flip returns the outcome seen from the other hand
func (o Outcome) Flip() Outcome {
	return -o
}

// KickerRule selects how hands of the same category are ordered
type KickerRule int

const (
	// RawKickers compares every card of both hands, sorted by rank and
	// walked from the top, position by position. This is the table's
	// historical behaviour: it does not isolate the best five cards, so
	// e.g. a sixth or seventh card can decide between two equal straights.
	RawKickers KickerRule = iota

	// BestFive compares the category-specific best five cards, the way a
	// card room settles a showdown.
	BestFive
)

// String returns the rule name used in configuration
func (k KickerRule) String() string {
	switch k {
	case RawKickers:
		return "raw"
	case BestFive:
		return "best-five"
	default:
		return "unknown"
	}
}

// ParseKickerRule parses "raw" or "best-five"
func ParseKickerRule(s string) (KickerRule, error) {
	switch s {
	case "", "raw":
		return RawKickers, nil
	case "best-five", "best5":
		return BestFive, nil
	default:
		return 0, fmt.Errorf("unknown kicker rule %q (want raw or best-five)", s)
	}
}

// Comparator orders complete hands. The zero value uses RawKickers.
type Comparator struct {
	Kickers KickerRule
}

// DefaultComparator is the comparator used by Compare and Winners
var DefaultComparator = Comparator{Kickers: RawKickers}

// Compare orders two hands of equal size (normally hole cards plus a full
// board, seven cards each). It panics if the sizes differ or fall outside
// 5-7 cards.
func (cmp Comparator) Compare(a, b []deck.Card) Outcome {
	if len(a) != len(b) {
		panic(fmt.Sprintf("evaluator: compare needs equal-sized hands, got %d and %d", len(a), len(b)))
	}

	if cmp.Kickers == BestFive {
		return Evaluate(a).Compare(Evaluate(b))
	}

	ca, cb := Classify(a), Classify(b)
	if ca != cb {
		if ca > cb {
			return FirstWins
		}
		return SecondWins
	}

	ra, rb := Hand(a).SortedRanks(), Hand(b).SortedRanks()
	for i := len(ra) - 1; i >= 0; i-- {
		if ra[i] != rb[i] {
			if ra[i] > rb[i] {
				return FirstWins
			}
			return SecondWins
		}
	}
	return Tie
}

// Winners returns the indexes of the best hands in a single pass: the first
// hand starts as the winner, a strictly better hand replaces the winner set
// and an equal hand joins it. It panics on an empty list.
func (cmp Comparator) Winners(hands [][]deck.Card) []int {
	if len(hands) == 0 {
		panic("evaluator: winners needs at least one hand")
	}
	winners := []int{0}
	for i := 1; i < len(hands); i++ {
		switch cmp.Compare(hands[i], hands[winners[0]]) {
		case FirstWins:
			winners = []int{i}
		case Tie:
			winners = append(winners, i)
		}
	}
	return winners
}

// Compare orders two hands with the DefaultComparator
func Compare(a, b []deck.Card) Outcome {
	return DefaultComparator.Compare(a, b)
}

// Winners selects the best hands with the DefaultComparator
func Winners(hands [][]deck.Card) []int {
	return DefaultComparator.Winners(hands)
}
