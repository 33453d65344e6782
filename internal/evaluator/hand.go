package evaluator

import (
	"slices"

	"github.com/lox/headsup/internal/deck"
)

// Hand is an unordered collection of cards: two hole cards, or up to seven
// once combined with the board.
type Hand []deck.Card

// NewHand creates a hand holding a copy of cards
func NewHand(cards ...deck.Card) Hand {
	return append(Hand(nil), cards...)
}

// Combine returns a new hand holding the cards of both hands. The receiver is
// not modified. Combining hands that share a card is a caller error.
func (h Hand) Combine(other []deck.Card) Hand {
	combined := make(Hand, 0, len(h)+len(other))
	combined = append(combined, h...)
	return append(combined, other...)
}

// SortedRanks returns the ranks of the hand in ascending order
func (h Hand) SortedRanks() []deck.Rank {
	ranks := make([]deck.Rank, len(h))
	for i, c := range h {
		ranks[i] = c.Rank
	}
	slices.Sort(ranks)
	return ranks
}

// String returns the cards in compact notation
func (h Hand) String() string {
	return deck.FormatCards(h)
}
