package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateCard is returned when a card appears more than once where a
// set of distinct cards is required.
var ErrDuplicateCard = errors.New("duplicate card")

// Suit represents a card suit
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// NumSuits is the number of suits in a standard pack
const NumSuits = 4

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Name returns the long suit name ("Hearts")
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	default:
		return "Unknown"
	}
}

// Letter returns the single-letter notation used by ParseCard
func (s Suit) Letter() byte {
	if s > Spades {
		return '?'
	}
	return "hdcs"[s]
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ace is high (14) and also plays low in a
// five-high straight.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of ranks in a standard pack
const NumRanks = 13

// String returns the single-character rank notation
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string("23456789TJQKA"[r-Two])
}

// Name returns the long rank name ("Queen", "7")
func (r Rank) Name() string {
	switch r {
	case Ten:
		return "10"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	case Ace:
		return "Ace"
	default:
		return r.String()
	}
}

var pluralNames = [...]string{
	"Twos", "Threes", "Fours", "Fives", "Sixes", "Sevens", "Eights",
	"Nines", "Tens", "Jacks", "Queens", "Kings", "Aces",
}

// Plural returns the plural rank name ("Sixes", "Aces")
func (r Rank) Plural() string {
	if r < Two || r > Ace {
		return "?"
	}
	return pluralNames[r-Two]
}

// Card is an immutable playing card. Cards are comparable with ==.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether the card is one of the 52 standard cards
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Spades
}

// Index returns a dense index in [0,52) for valid cards
func (c Card) Index() int {
	return int(c.Suit)*NumRanks + int(c.Rank-Two)
}

// String returns the compact notation, e.g. "As" or "Th"
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit.Letter())
}

// Symbol returns the rank followed by the suit symbol, e.g. "A♠"
func (c Card) Symbol() string {
	return c.Rank.String() + c.Suit.String()
}

// Name returns the long form, e.g. "Ace of Spades"
func (c Card) Name() string {
	return c.Rank.Name() + " of " + c.Suit.Name()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Full returns all 52 distinct cards in canonical order (suit-major)
func Full() []Card {
	cards := make([]Card, 0, NumSuits*NumRanks)
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// ParseCard parses a single card in [Rank][Suit] notation, e.g. "As", "td".
// A leading "10" is accepted for ten.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: expected 2 characters", s)
	}
	rank, err := parseRank(s[0])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	suit, err := parseSuit(s[1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return NewCard(rank, suit), nil
}

// ParseCards parses a run of cards such as "AsKd" or "As Kd, Th".
// Spaces and commas between cards are ignored.
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "", "10", "T").Replace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d (must be even)", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

// CheckDistinct returns ErrDuplicateCard if any card repeats across the groups
func CheckDistinct(groups ...[]Card) error {
	var seen [NumSuits * NumRanks]bool
	for _, group := range groups {
		for _, c := range group {
			if !c.Valid() {
				return fmt.Errorf("invalid card rank=%d suit=%d", c.Rank, c.Suit)
			}
			if seen[c.Index()] {
				return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
			}
			seen[c.Index()] = true
		}
	}
	return nil
}

// FormatCards joins cards in compact notation separated by spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func parseRank(c byte) (Rank, error) {
	switch c {
	case 'A', 'a':
		return Ace, nil
	case 'K', 'k':
		return King, nil
	case 'Q', 'q':
		return Queen, nil
	case 'J', 'j':
		return Jack, nil
	case 'T', 't':
		return Ten, nil
	}
	if c >= '2' && c <= '9' {
		return Rank(c-'0'), nil
	}
	return 0, fmt.Errorf("unknown rank '%c'", c)
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	case 's', 'S':
		return Spades, nil
	default:
		return 0, fmt.Errorf("unknown suit '%c'", c)
	}
}
