package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/headsup/internal/deck"
)

const (
	// DefaultStartingChips is each player's stack at the start of a session
	DefaultStartingChips = 2000
	// DefaultBlind is posted by both players every round
	DefaultBlind = 50
)

// Session is a sequence of rounds between the same two players, played until
// one of them has no chips left.
type Session struct {
	players [2]*Player
	blind   int
	deck    *deck.Deck
	opts    []Option
	logger  *log.Logger
	round   *Round
	rounds  int
}

// NewSession seats two players with startingChips each. The deck is shuffled
// with rng before every round.
func NewSession(names [2]string, startingChips, blind int, rng *rand.Rand, opts ...Option) (*Session, error) {
	if startingChips <= 0 {
		return nil, fmt.Errorf("starting chips must be positive, got %d", startingChips)
	}
	if blind <= 0 || blind > startingChips {
		return nil, fmt.Errorf("blind must be between 1 and %d, got %d", startingChips, blind)
	}

	s := &Session{
		blind:  blind,
		deck:   deck.New(rng),
		opts:   opts,
		logger: newOptions(opts).logger,
	}
	for i, name := range names {
		s.players[i] = &Player{Name: name, Chips: startingChips}
	}
	return s, nil
}

// NextRound reshuffles and deals a new round. The previous round must be
// settled first.
func (s *Session) NextRound() (*Round, error) {
	if s.round != nil && !s.round.Done() {
		return nil, fmt.Errorf("%w: round %d is still in progress", ErrIllegalAction, s.rounds)
	}
	if s.Over() {
		return nil, ErrGameOver
	}

	s.deck.Reset()
	r, err := NewRound(s.players, s.deck, s.blind, s.opts...)
	if err != nil {
		return nil, err
	}
	s.rounds++
	s.round = r

	s.logger.Info("Starting round",
		"round", s.rounds,
		"stacks", fmt.Sprintf("%s=%d %s=%d",
			s.players[0].Name, s.players[0].Chips,
			s.players[1].Name, s.players[1].Chips))
	return r, nil
}

// Round returns the current round, or nil before the first deal
func (s *Session) Round() *Round { return s.round }

// Rounds returns how many rounds have been dealt
func (s *Session) Rounds() int { return s.rounds }

// Blind returns the amount each player posts per round
func (s *Session) Blind() int { return s.blind }

// Player returns a snapshot of the player in seat
func (s *Session) Player(seat int) Player { return *s.players[seat] }

// Over reports whether a settled round has left a player without chips
func (s *Session) Over() bool {
	if s.round != nil && !s.round.Done() {
		return false
	}
	return s.players[0].Chips == 0 || s.players[1].Chips == 0
}

// Winner returns the seat still holding chips once the session is over
func (s *Session) Winner() (int, bool) {
	if !s.Over() {
		return 0, false
	}
	if s.players[0].Chips > 0 {
		return 0, true
	}
	return 1, true
}
