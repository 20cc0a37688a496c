package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/paper-rally/internal/agent"
	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
)

// Model is the Bubble Tea model for one race. Racer 0 may be driven by the
// human; every racer with a bot entry is driven by its agent on a timer.
type Model struct {
	state *race.State
	bots  map[race.ID]agent.Agent
	human race.ID
	// hasHuman is false in watch mode, where every racer is a bot.
	hasHuman bool

	cursor   int
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	width    int
	height   int
	quitting bool
	err      error
}

// NewModel creates a model for the given race. bots maps racer ids to their
// strategies; when hasHuman is set, the human racer needs no bot entry.
func NewModel(state *race.State, bots map[race.ID]agent.Agent, human race.ID, hasHuman bool) Model {
	t := state.Track()
	return Model{
		state:    state,
		bots:     bots,
		human:    human,
		hasHuman: hasHuman,
		screen:   core.NewScreen(t.Width()+2, t.Height()+4),
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
}

// Err returns the error that aborted the race, if any.
func (m Model) Err() error {
	return m.err
}

// humanTurn reports whether the human drives the racer to move next.
func (m Model) humanTurn() bool {
	return m.hasHuman && !m.state.Finished() && m.state.CurrentID() == m.human
}

// options returns the moves the current racer may take: the candidate set,
// or the crash fallback alone when no candidate is reachable.
func (m Model) options() []core.Vec {
	r := m.state.CurrentRacer()
	if opts := r.Candidates(); len(opts) > 0 {
		return opts
	}
	if fallback, pending := r.CrashFallback(); pending {
		return []core.Vec{fallback}
	}
	return nil
}

// Init starts the bot timer when a bot has the first turn.
func (m Model) Init() tea.Cmd {
	if !m.humanTurn() && !m.state.Finished() {
		return botTickCmd()
	}
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case BotTickMsg:
		return m.handleBotTurn()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !m.humanTurn() {
		return m, nil
	}
	opts := m.options()
	if len(opts) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.cursor = (m.cursor + 1) % len(opts)

	case key.Matches(msg, m.keys.Prev):
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(opts) - 1
		}

	case key.Matches(msg, m.keys.Confirm):
		if err := m.state.Advance(opts[m.cursor]); err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		m.cursor = 0
		if !m.state.Finished() && !m.humanTurn() {
			return m, botTickCmd()
		}
	}
	return m, nil
}

// handleBotTurn advances one bot racer and reschedules the timer while bots
// keep the turn.
func (m Model) handleBotTurn() (tea.Model, tea.Cmd) {
	if m.state.Finished() || m.humanTurn() {
		return m, nil
	}

	bot, ok := m.bots[m.state.CurrentID()]
	if !ok {
		m.err = fmt.Errorf("no strategy for racer %d", m.state.CurrentID())
		m.quitting = true
		return m, tea.Quit
	}
	if err := m.state.Advance(bot.NextPosition()); err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}

	if !m.state.Finished() && !m.humanTurn() {
		return m, botTickCmd()
	}
	return m, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	t := m.state.Track()
	m.screen.Resize(max(t.Width()+2, 40), t.Height()+4)
	m.screen.Clear()

	var selected *core.Vec
	if m.humanTurn() {
		if opts := m.options(); len(opts) > 0 {
			p := opts[m.cursor%len(opts)]
			selected = &p
		}
	}
	DrawRace(m.screen, m.state, selected, 1, 2)

	m.screen.DrawTextColored(1, 0, m.statusLine(), core.ColorBrightWhite)

	view := RenderScreen(m.screen)
	if m.state.Finished() {
		view += "\n" + RenderStandings(m.state)
	}
	return view + "\n" + m.help.View(m.keys)
}

// statusLine summarizes whose turn it is and their velocity.
func (m Model) statusLine() string {
	if m.state.Finished() {
		return "race finished"
	}
	r := m.state.CurrentRacer()
	who := "bot"
	if m.humanTurn() {
		who = "you"
	}
	if _, pending := r.CrashFallback(); pending {
		return fmt.Sprintf("racer %d (%s)  velocity %v  CRASH", r.ID(), who, r.Velocity())
	}
	return fmt.Sprintf("racer %d (%s)  velocity %v", r.ID(), who, r.Velocity())
}

// Run starts the Bubble Tea program for one race and returns once the user
// quits or the race errors out.
func Run(state *race.State, bots map[race.ID]agent.Agent, human race.ID, hasHuman bool) error {
	p := tea.NewProgram(
		NewModel(state, bots, human, hasHuman),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
