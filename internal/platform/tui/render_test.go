package tui

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
	"github.com/vovakirdan/paper-rally/internal/track"
)

func TestDrawRaceGlyphs(t *testing.T) {
	layout := track.Layout{
		Width:  4,
		Height: 1,
		Cells:  []track.Terrain{track.Open, track.Open, track.Blocked, track.Open},
		Start:  []core.Vec{core.V(0, 0)},
		Dest:   []core.Vec{core.V(3, 0)},
	}
	tr, err := track.New(layout)
	if err != nil {
		t.Fatalf("track.New failed: %v", err)
	}
	st, err := race.NewState(tr, nil, race.DefaultRules(), 1, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}

	s := core.NewScreen(4, 1)
	DrawRace(s, st, nil, 0, 0)

	got := s.String()
	if got[0] != '0' {
		t.Errorf("screen = %q, expected racer marker at the start cell", got)
	}
	if got[2] != glyphWall {
		t.Errorf("screen = %q, expected wall glyph at x=2", got)
	}
	if got[3] != glyphDest {
		t.Errorf("screen = %q, expected destination glyph at x=3", got)
	}
}

func TestRenderScreenKeepsAllRows(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColored(0, 1, "cd", core.ColorBrightRed)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "ab") {
		t.Errorf("first line %q missing text", lines[0])
	}
	if !strings.Contains(lines[1], "cd") {
		t.Errorf("second line %q missing text", lines[1])
	}
}
