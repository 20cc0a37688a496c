// Package tui provides the Bubble Tea integration for the rally game. It
// handles the terminal UI loop, input mapping and the pacing of bot turns.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// botMoveDelay paces bot turns so a human can follow the race.
const botMoveDelay = 300 * time.Millisecond

// BotTickMsg is sent when the next bot racer should take its turn.
type BotTickMsg time.Time

// botTickCmd returns a Bubble Tea command that schedules the next bot move.
func botTickCmd() tea.Cmd {
	return tea.Tick(botMoveDelay, func(t time.Time) tea.Msg {
		return BotTickMsg(t)
	})
}
