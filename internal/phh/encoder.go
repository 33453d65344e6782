package phh

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/game"
)

// ErrRoundInProgress is returned when converting a round that has not been
// settled
var ErrRoundInProgress = errors.New("phh: round is still in progress")

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// FormatAction converts a recorded action to PHH notation. Checks and calls
// are both "cc"; bets and raises give the seat's street total.
func FormatAction(rec game.Record) (string, bool) {
	player := fmt.Sprintf("p%d", rec.Seat+1)
	switch rec.Action.Kind {
	case game.Fold:
		return player + " f", true
	case game.Check, game.Call:
		return player + " cc", true
	case game.Bet:
		if rec.Total <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", player, rec.Total), true
	default:
		return "", false
	}
}

// streetCards is how many board cards are face up once each street is dealt
var streetCards = []int{3, 4, 5}

// FromRound records a settled round. Seat 0 is p1.
func FromRound(table, handID string, names [2]string, r *game.Round, at time.Time) (*HandHistory, error) {
	outcome, ok := r.Outcome()
	if !ok {
		return nil, ErrRoundInProgress
	}

	starting := r.StartingStacks()
	blinds := r.Blinds()
	h := &HandHistory{
		Variant:           Variant,
		Table:             table,
		SeatCount:         2,
		Seats:             []int{1, 2},
		Antes:             []int{0, 0},
		BlindsOrStraddles: blinds[:],
		MinBet:            max(blinds[0], blinds[1]),
		StartingStacks:    starting[:],
		FinishingStacks:   []int{r.View(0).Chips, r.View(1).Chips},
		Winnings:          outcome.Payouts[:],
		Players:           names[:],
		HandID:            handID,
	}
	h.SetTime(at)

	for seat := range 2 {
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", seat+1, joinCards(r.Hole(seat))))
	}

	board := r.Board()
	shown := 0
	deal := func(visible int) {
		for _, n := range streetCards {
			if n > shown && n <= visible {
				h.Actions = append(h.Actions, "d db "+joinCards(board[shown:n]))
				shown = n
			}
		}
	}

	for _, rec := range r.Actions() {
		deal(rec.Street.Visible())
		if action, ok := FormatAction(rec); ok {
			h.Actions = append(h.Actions, action)
		}
	}

	if !outcome.Folded {
		deal(len(board))
		for seat := range 2 {
			h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", seat+1, joinCards(r.Hole(seat))))
		}
	}
	return h, nil
}

func joinCards(cards []deck.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}
