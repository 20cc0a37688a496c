package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
	"github.com/vovakirdan/paper-rally/internal/track"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// racerColors assigns each racer a stable palette color by id.
var racerColors = []core.Color{
	core.ColorBrightRed,
	core.ColorBrightBlue,
	core.ColorBrightMagenta,
	core.ColorBrightCyan,
	core.ColorOrange,
	core.ColorBrightWhite,
}

// RacerColor returns the palette color for a racer id.
func RacerColor(id race.ID) core.Color {
	return racerColors[int(id)%len(racerColors)]
}

// Track and overlay glyphs.
const (
	glyphWall      = '#'
	glyphOpen      = '.'
	glyphStart     = '\''
	glyphDest      = '='
	glyphTrail     = '*'
	glyphCandidate = '+'
	glyphSelected  = 'x'
)

// DrawRace renders the full race onto the screen at the given offset: the
// track, the trail and marker of every racer, and the candidate overlay of
// the racer whose turn it is. The selected candidate, if any, is highlighted.
func DrawRace(s *core.Screen, st *race.State, selected *core.Vec, offX, offY int) {
	t := st.Track()

	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			p := core.V(x, y)
			r, c := glyphOpen, core.ColorGray
			switch {
			case t.Terrain(p) == track.Blocked:
				r, c = glyphWall, core.ColorWhite
			case t.InStart(p):
				r, c = glyphStart, core.ColorGreen
			case t.InDest(p):
				r, c = glyphDest, core.ColorBrightYellow
			case t.Terrain(p) == track.Special:
				if name, ok := t.EffectAt(p); ok {
					r, c = []rune(name)[0], core.ColorYellow
				}
			}
			s.SetColored(offX+x, offY+y, r, c)
		}
	}

	for _, id := range st.IDs() {
		racer := st.Racer(id)
		for _, p := range racer.Path() {
			s.SetColored(offX+p.X, offY+p.Y, glyphTrail, core.ColorGray)
		}
	}

	// Candidate overlay for the racer to move, under the racer markers so a
	// candidate on an occupied cell stays visible as the racer.
	if !st.Finished() {
		cur := st.CurrentRacer()
		for _, p := range cur.Candidates() {
			s.SetColored(offX+p.X, offY+p.Y, glyphCandidate, core.ColorBrightGreen)
		}
		if fallback, pending := cur.CrashFallback(); pending {
			s.SetColored(offX+fallback.X, offY+fallback.Y, glyphCandidate, core.ColorBrightRed)
		}
		if selected != nil {
			s.SetColored(offX+selected.X, offY+selected.Y, glyphSelected, core.ColorBrightYellow)
		}
	}

	for _, id := range st.IDs() {
		p := st.Racer(id).Position()
		s.SetColored(offX+p.X, offY+p.Y, '0'+rune(int(id)%10), RacerColor(id))
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
