// Package tui is a full-screen Bubble Tea front end for a heads-up session:
// a scrolling game log, a sidebar with stacks and the pot, and an input
// line for the human's actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/headsup/internal/ai"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/logging"
)

const (
	// HumanSeat is where the person at the keyboard sits
	HumanSeat = 0
	// ComputerSeat is where the opponent sits
	ComputerSeat = 1

	sidebarWidth = 28
)

// Decider chooses actions for the computer seat
type Decider interface {
	Decide(ctx context.Context, v game.View) (ai.Decision, error)
}

// Config wires a model to a session
type Config struct {
	Session    *game.Session
	Opponent   Decider
	Names      [2]string
	BetSteps   []int
	OnRoundEnd func(*game.Round) // called after every settled round, may be nil
	Logger     *log.Logger
}

// decisionMsg carries the computer's choice back to Update
type decisionMsg struct {
	decision ai.Decision
	err      error
}

// Model is the Bubble Tea model for a session
type Model struct {
	ctx    context.Context
	cfg    Config
	logger *log.Logger

	round       *game.Round
	logViewport viewport.Model
	actionInput textinput.Model
	gameLog     []string
	focusedPane int // 0 = log, 1 = input

	thinking bool
	finished bool
	quitting bool
	err      error

	width  int
	height int
}

// NewModel creates a model. ctx bounds the computer's decisions.
func NewModel(ctx context.Context, cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	ti := textinput.New()
	ti.Placeholder = "check, call, bet 50, allin, fold"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		ctx:         ctx,
		cfg:         cfg,
		logger:      cfg.Logger.WithPrefix("tui"),
		logViewport: viewport.New(10, 5),
		actionInput: ti,
		focusedPane: 1,
	}
}

// Run shows the model full screen until the session ends or the player
// quits
func Run(ctx context.Context, cfg Config) error {
	m := NewModel(ctx, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return m.err
}

// Log returns the game log lines
func (m *Model) Log() []string { return append([]string(nil), m.gameLog...) }

// Err returns the error that stopped the session, if any
func (m *Model) Err() error { return m.err }

// Finished reports whether one player has won every chip
func (m *Model) Finished() bool { return m.finished }

// Init deals the first round
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.advance())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case decisionMsg:
		return m, m.applyDecision(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
			return m, nil
		case "enter":
			if m.focusedPane == 1 {
				line := m.actionInput.Value()
				m.actionInput.SetValue("")
				return m, m.submit(line)
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.logViewport, cmd = m.logViewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// submit handles a line typed by the human
func (m *Model) submit(line string) tea.Cmd {
	line = strings.TrimSpace(strings.ToLower(line))
	switch line {
	case "quit", "q", "exit":
		return m.quit()
	}
	if m.finished {
		return m.quit()
	}
	if m.thinking || m.round == nil || m.round.ToAct() != HumanSeat {
		return nil
	}

	var a game.Action
	switch line {
	case "allin", "all in", "all":
		a = game.Action{Kind: game.Bet, Amount: m.round.View(HumanSeat).Chips}
	default:
		var err error
		if a, err = game.ParseAction(line); err != nil {
			m.addLog(ErrorStyle.Render(err.Error()))
			return nil
		}
	}

	if err := m.round.Act(HumanSeat, a); err != nil {
		m.addLog(ErrorStyle.Render(err.Error()))
		return nil
	}
	m.addLog(fmt.Sprintf("%s %s", m.cfg.Names[HumanSeat], a.Verb()))
	return m.advance()
}

// applyDecision plays the computer's action
func (m *Model) applyDecision(msg decisionMsg) tea.Cmd {
	m.thinking = false
	if msg.err != nil {
		m.err = msg.err
		return m.quit()
	}
	if err := m.round.Act(ComputerSeat, msg.decision.Action); err != nil {
		m.err = fmt.Errorf("opponent: %w", err)
		return m.quit()
	}
	m.logger.Debug("Opponent acted", "action", msg.decision.Action, "win_rate", msg.decision.WinRate)
	m.addLog(fmt.Sprintf("%s %s", m.cfg.Names[ComputerSeat], msg.decision.Action.Verb()))
	return m.advance()
}

// advance settles finished rounds, deals new ones and hands the turn to
// whoever acts next. It returns a command when the computer must decide.
func (m *Model) advance() tea.Cmd {
	for m.round == nil || m.round.Done() {
		if m.round != nil {
			m.logOutcome()
			if m.cfg.OnRoundEnd != nil {
				m.cfg.OnRoundEnd(m.round)
			}
		}

		if m.cfg.Session.Over() {
			m.finished = true
			winner, _ := m.cfg.Session.Winner()
			m.addLog(HeaderStyle.Render(fmt.Sprintf("%s is out of chips! %s wins the game!",
				m.cfg.Names[1-winner], m.cfg.Names[winner])))
			m.addLog(InfoStyle.Render("Press Enter to exit"))
			return nil
		}

		r, err := m.cfg.Session.NextRound()
		if err != nil {
			m.err = err
			return m.quit()
		}
		m.round = r
		m.addLog("")
		m.addLog(HeaderStyle.Render(fmt.Sprintf(" Round %d ", m.cfg.Session.Rounds())))
		m.addLog(fmt.Sprintf("Your hand: %s", RenderCards(r.Hole(HumanSeat))))
	}

	if m.round.ToAct() != ComputerSeat {
		return nil
	}
	m.thinking = true
	view := m.round.View(ComputerSeat)
	ctx, decider := m.ctx, m.cfg.Opponent
	return func() tea.Msg {
		d, err := decider.Decide(ctx, view)
		return decisionMsg{decision: d, err: err}
	}
}

func (m *Model) logOutcome() {
	o, _ := m.round.Outcome()
	if !o.Folded {
		m.addLog(fmt.Sprintf("Board: %s", RenderCards(m.round.Board())))
		for seat, name := range m.cfg.Names {
			m.addLog(fmt.Sprintf("%s: %s  %s", name,
				RenderCards(m.round.Hole(seat)), o.Strengths[seat]))
		}
	}
	if o.Split() {
		m.addLog(WarningStyle.Render(fmt.Sprintf("It's a draw! Pot of %d split", o.Pot)))
		return
	}
	m.addLog(SuccessStyle.Render(fmt.Sprintf("%s wins the pot of %d!", m.cfg.Names[o.Winners[0]], o.Pot)))
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func (m *Model) addLog(line string) {
	m.gameLog = append(m.gameLog, line)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

// View renders the log and sidebar above the action pane
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	action := m.renderActionPane()
	actionHeight := lipgloss.Height(action)
	paneHeight := max(1, m.height-actionHeight-4)

	inputStyle, logStyle := focusedPaneStyle, paneStyle
	if m.focusedPane == 0 {
		inputStyle, logStyle = paneStyle, focusedPaneStyle
	}
	actionPane := inputStyle.Width(max(1, m.width-2)).Render(action)

	sidebar := paneStyle.Width(sidebarWidth).Height(paneHeight).Render(m.renderSidebar())

	m.logViewport.Width = max(1, m.width-sidebarWidth-4)
	m.logViewport.Height = paneHeight
	logPane := logStyle.Width(m.logViewport.Width).Height(paneHeight).Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)
	return lipgloss.JoinVertical(lipgloss.Left, top, actionPane)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	if m.round != nil {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: %d", m.round.Pot())))
		b.WriteString("\n")
		board := m.round.Visible()
		b.WriteString(fmt.Sprintf("Board: %s %s\n\n", RenderCards(board), RenderHidden(5-len(board))))
	}
	for seat, name := range m.cfg.Names {
		b.WriteString(fmt.Sprintf("%s: %d\n", name, m.cfg.Session.Player(seat).Chips))
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	switch {
	case m.finished:
		b.WriteString(HandInfoStyle.Render("Game over"))
	case m.thinking:
		b.WriteString(HandInfoStyle.Render(m.cfg.Names[ComputerSeat] + " is thinking..."))
	case m.round != nil && !m.round.Done():
		v := m.round.View(HumanSeat)
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand: %s  Pot: %d", RenderCards(v.Hole), v.Pot)))
		b.WriteString("\n")
		b.WriteString(m.renderAvailableActions(v))
	}
	b.WriteString("\n")
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn page, Tab to input"
	}
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

func (m *Model) renderAvailableActions(v game.View) string {
	var actions []string
	if v.ToCall > 0 {
		actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[call %d]", v.ToCall)))
	} else {
		actions = append(actions, SuccessStyle.Render("[check]"))
	}
	if v.Chips > v.ToCall && v.OpponentChips > 0 {
		for _, step := range m.cfg.BetSteps {
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[bet %d]", step)))
		}
		actions = append(actions, WarningStyle.Render(fmt.Sprintf("[allin %d]", v.Chips)))
	}
	actions = append(actions, ErrorStyle.Render("[fold]"))
	return strings.Join(actions, " ")
}
