package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrEmptyDeck is returned when drawing from an exhausted deck. A heads-up
// round needs at most 9 cards, so hitting this is an invariant violation.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck is a shuffled, draw-once sequence over the standard 52-card pack
type Deck struct {
	cards [NumSuits * NumRanks]Card
	next  int
	rng   *rand.Rand
}

// New creates a full deck and shuffles it with rng
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// Shuffle randomizes the order of the cards using Fisher-Yates and makes
// every card available again
func (d *Deck) Shuffle() {
	d.next = 0
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Reset repopulates the deck with all 52 cards and reshuffles it
func (d *Deck) Reset() {
	copy(d.cards[:], Full())
	d.Shuffle()
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[d.next]
	d.next++
	return card, nil
}

// DrawN draws n cards. Nothing is drawn if fewer than n remain.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > d.Remaining() {
		return nil, fmt.Errorf("draw %d cards with %d remaining: %w", n, d.Remaining(), ErrEmptyDeck)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return d.Remaining() == 0
}
