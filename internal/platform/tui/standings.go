package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/paper-rally/internal/race"
)

// RenderStandings renders the finish order of a race as a bordered table.
func RenderStandings(st *race.State) string {
	columns := []table.Column{
		{Title: "Place", Width: 6},
		{Title: "Racer", Width: 8},
		{Title: "Steps", Width: 6},
	}

	board := st.Scoreboard()
	rows := make([]table.Row, len(board))
	for i, res := range board {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", res.Racer),
			fmt.Sprintf("%d", res.Steps),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	return border.Render(t.View())
}
