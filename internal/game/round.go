package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
	"github.com/lox/headsup/internal/logging"
)

// Player is one seat at the table
type Player struct {
	Name  string
	Chips int
}

// Dealer supplies the cards for a round. *deck.Deck satisfies it.
type Dealer interface {
	Draw() (deck.Card, error)
	DrawN(n int) ([]deck.Card, error)
}

// Option configures rounds and sessions
type Option func(*options)

type options struct {
	cmp    evaluator.Comparator
	logger *log.Logger
}

// WithComparator sets how showdowns are settled
func WithComparator(cmp evaluator.Comparator) Option {
	return func(o *options) {
		o.cmp = cmp
	}
}

// WithLogger sets the logger for table events
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		cmp:    evaluator.DefaultComparator,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Outcome describes how a round was settled
type Outcome struct {
	// Winners holds the seats that shared the pot, lowest seat first
	Winners []int
	Folded  bool
	Pot     int
	Payouts [2]int
	// Strengths is only populated when the round reached showdown
	Strengths [2]evaluator.Strength
}

// Split reports whether the pot was divided
func (o Outcome) Split() bool {
	return len(o.Winners) > 1
}

// View is what one seat can see when it is asked to act
type View struct {
	Seat          int
	Street        Street
	Hole          []deck.Card
	Board         []deck.Card
	Pot           int
	ToCall        int
	Chips         int
	OpponentChips int
}

// Record is one action taken during a round
type Record struct {
	Seat   int
	Street Street
	Action Action
	Total  int // chips seat has put in on this street, blinds included
}

// Round is a single hand between two players. Seat 0 acts first on every
// street.
type Round struct {
	players   [2]*Player
	holes     [2][]deck.Card
	board     []deck.Card
	street    Street
	pot       int
	committed [2]int
	acted     [2]bool
	toAct     int
	starting  [2]int
	blinds    [2]int
	actions   []Record
	outcome   *Outcome
	cmp       evaluator.Comparator
	logger    *log.Logger
}

// NewRound deals two hole cards to each player, alternating seats, then the
// five board cards face down, and posts a blind from each player. A player
// who cannot cover the blind posts what they have and the board runs out
// immediately.
func NewRound(players [2]*Player, dealer Dealer, blind int, opts ...Option) (*Round, error) {
	if blind <= 0 {
		return nil, fmt.Errorf("blind must be positive, got %d", blind)
	}
	for seat, p := range players {
		if p == nil || p.Chips <= 0 {
			return nil, fmt.Errorf("%w: seat %d has no chips", ErrGameOver, seat)
		}
	}

	o := newOptions(opts)
	r := &Round{
		players: players,
		cmp:     o.cmp,
		logger:  o.logger,
	}

	for i := 0; i < 2; i++ {
		for seat := range r.holes {
			card, err := dealer.Draw()
			if err != nil {
				return nil, fmt.Errorf("deal hole cards: %w", err)
			}
			r.holes[seat] = append(r.holes[seat], card)
		}
	}
	board, err := dealer.DrawN(5)
	if err != nil {
		return nil, fmt.Errorf("deal board: %w", err)
	}
	r.board = board

	for seat, p := range r.players {
		r.starting[seat] = p.Chips
		r.blinds[seat] = min(blind, p.Chips)
		r.post(seat, r.blinds[seat])
	}
	r.logger.Debug("Posted blinds", "blind", blind, "pot", r.pot)

	if r.anyAllIn() {
		r.runOut()
	}
	return r, nil
}

// Act applies the action for seat. Errors leave the round unchanged.
func (r *Round) Act(seat int, a Action) error {
	if r.outcome != nil {
		return ErrHandOver
	}
	if seat != r.toAct {
		return fmt.Errorf("%w: seat %d acted out of turn", ErrIllegalAction, seat)
	}

	other := 1 - seat
	toCall := r.ToCall(seat)

	switch a.Kind {
	case Check:
		if toCall > 0 {
			return fmt.Errorf("%w: cannot check facing %d", ErrIllegalAction, toCall)
		}
		r.record(seat, a)
		r.acted[seat] = true
		if r.acted[other] {
			r.nextStreet()
		} else {
			r.toAct = other
		}

	case Call:
		if toCall == 0 {
			return fmt.Errorf("%w: nothing to call", ErrIllegalAction)
		}
		r.post(seat, min(toCall, r.players[seat].Chips))
		r.record(seat, a)
		r.nextStreet()

	case Bet:
		if a.Amount <= 0 {
			return fmt.Errorf("%w: bet must be positive, got %d", ErrIllegalAction, a.Amount)
		}
		chips := r.players[seat].Chips
		if chips <= toCall {
			return fmt.Errorf("%w: %d chips cannot raise over %d to call", ErrInsufficientChips, chips, toCall)
		}
		if r.players[other].Chips == 0 {
			return fmt.Errorf("%w: opponent is all in", ErrIllegalAction)
		}
		// Never bet more than the opponent can call
		raise := min(a.Amount, chips-toCall, r.players[other].Chips)
		r.post(seat, toCall+raise)
		r.record(seat, Action{Kind: Bet, Amount: raise})
		r.acted[seat] = true
		r.acted[other] = false
		r.toAct = other

	case Fold:
		r.record(seat, a)
		r.settle([]int{other}, true)

	default:
		return fmt.Errorf("%w: unknown action %v", ErrIllegalAction, a.Kind)
	}
	return nil
}

func (r *Round) record(seat int, a Action) {
	r.actions = append(r.actions, Record{
		Seat:   seat,
		Street: r.street,
		Action: a,
		Total:  r.committed[seat],
	})
	r.logger.Info("Player action",
		"player", r.players[seat].Name,
		"street", r.street,
		"action", a,
		"pot", r.pot)
}

func (r *Round) post(seat, amount int) {
	r.players[seat].Chips -= amount
	r.committed[seat] += amount
	r.pot += amount
}

// returnUncalled gives back the part of a bet the other player never matched
func (r *Round) returnUncalled() {
	for seat := range r.committed {
		excess := r.committed[seat] - r.committed[1-seat]
		if excess > 0 {
			r.committed[seat] -= excess
			r.players[seat].Chips += excess
			r.pot -= excess
		}
	}
}

func (r *Round) anyAllIn() bool {
	return r.players[0].Chips == 0 || r.players[1].Chips == 0
}

func (r *Round) nextStreet() {
	r.returnUncalled()
	r.committed = [2]int{}
	r.acted = [2]bool{}
	r.toAct = 0

	if r.anyAllIn() {
		r.runOut()
		return
	}

	r.street++
	if r.street == Showdown {
		r.showdown()
		return
	}
	r.logger.Info("Dealt street", "street", r.street, "board", deck.FormatCards(r.Visible()))
}

// runOut reveals every remaining board card and settles
func (r *Round) runOut() {
	r.returnUncalled()
	r.logger.Info("All in, running out the board", "from", r.street)
	r.showdown()
}

func (r *Round) showdown() {
	r.street = Showdown
	hands := [][]deck.Card{
		evaluator.NewHand(r.holes[0]...).Combine(r.board),
		evaluator.NewHand(r.holes[1]...).Combine(r.board),
	}
	out := r.settle(r.cmp.Winners(hands), false)
	for seat, h := range hands {
		out.Strengths[seat] = evaluator.Evaluate(h)
	}
}

// settle pays the pot to winners. A pot that does not divide evenly gives
// the odd chip to the lowest winning seat.
func (r *Round) settle(winners []int, folded bool) *Outcome {
	out := &Outcome{
		Winners: winners,
		Folded:  folded,
		Pot:     r.pot,
	}
	share := r.pot / len(winners)
	for _, seat := range winners {
		out.Payouts[seat] += share
	}
	out.Payouts[winners[0]] += r.pot % len(winners)

	for seat, amount := range out.Payouts {
		r.players[seat].Chips += amount
	}
	r.pot = 0
	r.outcome = out

	names := make([]string, len(winners))
	for i, seat := range winners {
		names[i] = r.players[seat].Name
	}
	r.logger.Info("Round settled",
		"winners", names,
		"pot", out.Pot,
		"folded", folded,
		"board", deck.FormatCards(r.board))
	return out
}

// Street returns the current street. A round won by a fold keeps the street
// it ended on.
func (r *Round) Street() Street { return r.street }

// Pot returns the chips committed by both players and not yet paid out
func (r *Round) Pot() int { return r.pot }

// ToAct returns the seat whose turn it is
func (r *Round) ToAct() int { return r.toAct }

// ToCall returns how much seat owes to match the other player this street
func (r *Round) ToCall(seat int) int {
	return max(0, r.committed[1-seat]-r.committed[seat])
}

// Done reports whether the round has been settled
func (r *Round) Done() bool { return r.outcome != nil }

// Outcome returns the settlement once the round is done
func (r *Round) Outcome() (Outcome, bool) {
	if r.outcome == nil {
		return Outcome{}, false
	}
	return *r.outcome, true
}

// Actions returns every action taken so far, in order
func (r *Round) Actions() []Record {
	return append([]Record(nil), r.actions...)
}

// StartingStacks returns each player's chips before the blinds were posted
func (r *Round) StartingStacks() [2]int { return r.starting }

// Blinds returns what each player posted as a blind
func (r *Round) Blinds() [2]int { return r.blinds }

// Hole returns a copy of seat's hole cards
func (r *Round) Hole(seat int) []deck.Card {
	return append([]deck.Card(nil), r.holes[seat]...)
}

// Board returns all five board cards, including those still face down
func (r *Round) Board() []deck.Card {
	return append([]deck.Card(nil), r.board...)
}

// Visible returns the face-up prefix of the board for the current street
func (r *Round) Visible() []deck.Card {
	return append([]deck.Card(nil), r.board[:r.street.Visible()]...)
}

// View returns what seat can see
func (r *Round) View(seat int) View {
	return View{
		Seat:          seat,
		Street:        r.street,
		Hole:          r.Hole(seat),
		Board:         r.Visible(),
		Pot:           r.pot,
		ToCall:        r.ToCall(seat),
		Chips:         r.players[seat].Chips,
		OpponentChips: r.players[1-seat].Chips,
	}
}
