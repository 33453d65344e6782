package simulator

import (
	"encoding/json"
	"io"
	"time"

	"github.com/lox/headsup/internal/fileutil"
	"github.com/lox/headsup/internal/gameid"
	"github.com/lox/headsup/internal/statistics"
)

// Report is the machine-readable summary of a simulation run
type Report struct {
	ID       string    `json:"id"`
	Opponent string    `json:"opponent"`
	Seed     int64     `json:"seed"`
	Rounds   int       `json:"rounds"`
	Finished time.Time `json:"finished"`

	MeanBlinds   float64    `json:"mean_blinds"`
	MedianBlinds float64    `json:"median_blinds"`
	StdDev       float64    `json:"std_dev"`
	StdError     float64    `json:"std_error"`
	CI95         [2]float64 `json:"ci95"`

	ShowdownWins    int        `json:"showdown_wins"`
	NonShowdownWins int        `json:"non_showdown_wins"`
	BigPots         int        `json:"big_pots"`
	MaxPot          int        `json:"max_pot"`
	SeatMeanBlinds  [2]float64 `json:"seat_mean_blinds"`
}

// NewReport summarises stats. Each report gets a fresh time-sortable ID.
func NewReport(opponent string, seed int64, stats *statistics.Statistics, finished time.Time) Report {
	low, high := stats.ConfidenceInterval95()
	return Report{
		ID:              gameid.Generate(),
		Opponent:        opponent,
		Seed:            seed,
		Rounds:          stats.Rounds,
		Finished:        finished.UTC(),
		MeanBlinds:      stats.Mean(),
		MedianBlinds:    stats.Median(),
		StdDev:          stats.StdDev(),
		StdError:        stats.StdError(),
		CI95:            [2]float64{low, high},
		ShowdownWins:    stats.ShowdownWins,
		NonShowdownWins: stats.NonShowdownWins,
		BigPots:         stats.BigPots,
		MaxPot:          stats.MaxPot,
		SeatMeanBlinds:  [2]float64{stats.SeatMean(0), stats.SeatMean(1)},
	}
}

// WriteReport writes report as indented JSON, replacing path atomically
func WriteReport(path string, report Report) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	})
}
