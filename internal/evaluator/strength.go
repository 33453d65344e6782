package evaluator

import (
	"fmt"
	"slices"

	"github.com/lox/headsup/internal/deck"
)

// Strength is a category plus the ranks that break ties inside it, most
// significant first. Ranks only covers the best five cards: the straight's
// top card, the quad rank and kicker, the trips and pair of a full house,
// and so on.
type Strength struct {
	Category Category
	Ranks    []deck.Rank
}

// Evaluate computes the Strength of 5 to 7 distinct cards. Its Category
// always equals Classify(cards).
func Evaluate(cards []deck.Card) Strength {
	category := Classify(cards)
	t := newTally(cards)

	switch category {
	case RoyalFlush, StraightFlush:
		high, _ := highestStraight(func(r deck.Rank) bool { return t.flushHas[r] })
		return Strength{Category: category, Ranks: []deck.Rank{high}}

	case FourOfAKind:
		quad := t.ranksWithCount(4)[0]
		return Strength{Category: category, Ranks: append([]deck.Rank{quad}, t.kickers(1, quad)...)}

	case FullHouse:
		trips := t.ranksWithCount(3)
		pair := deck.Rank(0)
		for _, r := range t.ranksWithAtLeast(2) {
			if r != trips[0] {
				pair = r
				break
			}
		}
		return Strength{Category: category, Ranks: []deck.Rank{trips[0], pair}}

	case Flush:
		var ranks []deck.Rank
		for r := deck.Ace; r >= deck.Two && len(ranks) < 5; r-- {
			if t.flushHas[r] {
				ranks = append(ranks, r)
			}
		}
		return Strength{Category: category, Ranks: ranks}

	case Straight:
		high, _ := highestStraight(t.present)
		return Strength{Category: category, Ranks: []deck.Rank{high}}

	case ThreeOfAKind:
		trip := t.ranksWithCount(3)[0]
		return Strength{Category: category, Ranks: append([]deck.Rank{trip}, t.kickers(2, trip)...)}

	case TwoPair:
		pairs := t.ranksWithCount(2)[:2]
		return Strength{Category: category, Ranks: append(slices.Clone(pairs), t.kickers(1, pairs...)...)}

	case OnePair:
		pair := t.ranksWithCount(2)[0]
		return Strength{Category: category, Ranks: append([]deck.Rank{pair}, t.kickers(3, pair)...)}

	default:
		return Strength{Category: category, Ranks: t.kickers(5)}
	}
}

// Compare orders two strengths: category first, then tiebreak ranks
func (s Strength) Compare(other Strength) Outcome {
	if s.Category != other.Category {
		if s.Category > other.Category {
			return FirstWins
		}
		return SecondWins
	}
	for i := 0; i < len(s.Ranks) && i < len(other.Ranks); i++ {
		if s.Ranks[i] != other.Ranks[i] {
			if s.Ranks[i] > other.Ranks[i] {
				return FirstWins
			}
			return SecondWins
		}
	}
	return Tie
}

// String describes the made hand, e.g. "Full House, Sevens over Kings"
func (s Strength) String() string {
	if len(s.Ranks) == 0 {
		return s.Category.String()
	}
	top := s.Ranks[0]
	switch s.Category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush, Straight:
		return fmt.Sprintf("%s, %s high", s.Category, top.Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s with %s kicker", top.Plural(), s.Ranks[1].Name())
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", top.Plural(), s.Ranks[1].Plural())
	case Flush:
		return fmt.Sprintf("Flush, %s high", top.Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", top.Plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", top.Plural(), s.Ranks[1].Plural())
	case OnePair:
		return fmt.Sprintf("Pair of %s", top.Plural())
	default:
		return fmt.Sprintf("High Card, %s", top.Name())
	}
}

// ranksWithCount returns ranks held exactly n times, highest first
func (t *tally) ranksWithCount(n int) []deck.Rank {
	var ranks []deck.Rank
	for r := deck.Ace; r >= deck.Two; r-- {
		if t.ranks[r] == n {
			ranks = append(ranks, r)
		}
	}
	return ranks
}

// ranksWithAtLeast returns ranks held n or more times, highest first
func (t *tally) ranksWithAtLeast(n int) []deck.Rank {
	var ranks []deck.Rank
	for r := deck.Ace; r >= deck.Two; r-- {
		if t.ranks[r] >= n {
			ranks = append(ranks, r)
		}
	}
	return ranks
}

// kickers returns up to n present ranks, highest first, skipping exclude
func (t *tally) kickers(n int, exclude ...deck.Rank) []deck.Rank {
	var ranks []deck.Rank
	for r := deck.Ace; r >= deck.Two && len(ranks) < n; r-- {
		if t.ranks[r] > 0 && !slices.Contains(exclude, r) {
			ranks = append(ranks, r)
		}
	}
	return ranks
}
