package evaluator

import (
	"fmt"

	"github.com/lox/headsup/internal/deck"
)

// tally holds per-rank and per-suit counts for a set of cards. Index 14 is
// the ace; indexes 0 and 1 are unused.
type tally struct {
	ranks     [15]int
	suits     [deck.NumSuits]int
	flushSuit int // -1 when no suit has five or more cards
	flushHas  [15]bool
}

func newTally(cards []deck.Card) tally {
	var t tally
	for _, c := range cards {
		t.ranks[c.Rank]++
		t.suits[c.Suit]++
	}

	t.flushSuit = -1
	for suit, n := range t.suits {
		if n >= 5 {
			t.flushSuit = suit
			break
		}
	}
	if t.flushSuit >= 0 {
		for _, c := range cards {
			if int(c.Suit) == t.flushSuit {
				t.flushHas[c.Rank] = true
			}
		}
	}
	return t
}

func (t *tally) present(r deck.Rank) bool {
	return t.ranks[r] > 0
}

// Classify returns the category of 5 to 7 distinct cards.
//
// Every category check runs and the highest match wins, so extra cards never
// hide a stronger category. Two separate three-of-a-kinds count as a full
// house. Classify panics on fewer than 5 or more than 7 cards; callers own
// that precondition.
func Classify(cards []deck.Card) Category {
	if len(cards) < 5 || len(cards) > 7 {
		panic(fmt.Sprintf("evaluator: classify needs 5-7 cards, got %d", len(cards)))
	}
	t := newTally(cards)
	best := HighCard

	if t.flushSuit >= 0 {
		has := func(r deck.Rank) bool { return t.flushHas[r] }
		if has(deck.Ten) && has(deck.Jack) && has(deck.Queen) && has(deck.King) && has(deck.Ace) {
			best = max(best, RoyalFlush)
		}
		if _, ok := highestStraight(has); ok {
			best = max(best, StraightFlush)
		}
	}

	var pairs, threes, fours int
	for r := deck.Two; r <= deck.Ace; r++ {
		switch t.ranks[r] {
		case 4:
			fours++
		case 3:
			threes++
		case 2:
			pairs++
		}
	}
	if fours > 0 {
		best = max(best, FourOfAKind)
	}
	if threes > 0 && (pairs > 0 || threes > 1) {
		best = max(best, FullHouse)
	}
	if threes > 0 {
		best = max(best, ThreeOfAKind)
	}
	if pairs >= 2 {
		best = max(best, TwoPair)
	}
	if pairs == 1 {
		best = max(best, OnePair)
	}

	if t.flushSuit >= 0 {
		best = max(best, Flush)
	}

	if _, ok := highestStraight(t.present); ok {
		best = max(best, Straight)
	}

	return best
}

// highestStraight scans the 5-card windows from ace-high down to the
// five-high wheel and returns the top rank of the first complete one.
func highestStraight(has func(deck.Rank) bool) (deck.Rank, bool) {
	for start := deck.Ten; start >= deck.Two; start-- {
		complete := true
		for r := start; r < start+5; r++ {
			if !has(r) {
				complete = false
				break
			}
		}
		if complete {
			return start + 4, true
		}
	}
	if has(deck.Ace) && has(deck.Two) && has(deck.Three) && has(deck.Four) && has(deck.Five) {
		return deck.Five, true
	}
	return 0, false
}
