package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/headsup/internal/logging"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	LogLevel string `short:"l" help:"Log level (debug|info|warn|error), defaults to warn"`
	NoColor  bool   `help:"Disable colours and text styles" env:"NO_COLOR"`
}

// Logger returns a stderr logger at the requested level, or fallback when
// no level was given on the command line
func (g *Globals) Logger(fallback ...string) *log.Logger {
	level := g.LogLevel
	if level == "" && len(fallback) > 0 {
		level = fallback[0]
	}
	if level == "" {
		level = "warn"
	}
	return logging.New(os.Stderr, level)
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Odds     OddsCmd          `cmd:"" help:"Estimate the win rate of a hand against a random opponent"`
	Rank     RankCmd          `cmd:"" help:"Classify 5 to 7 cards"`
	Showdown ShowdownCmd      `cmd:"" help:"Find the winning hands on a board"`
	Play     PlayCmd          `cmd:"" help:"Play heads-up against the computer"`
	Simulate SimulateCmd      `cmd:"" help:"Pit the computer's thresholds against an opponent style"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("headsup"),
		kong.Description("Heads-up Texas Hold'em against a Monte Carlo opponent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
