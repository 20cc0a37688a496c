// Package mapfile parses race maps from YAML files. A map carries the grid
// as ASCII art rows plus the definitions of the effect templates the rows
// refer to. This package depends on track and race but neither depends on it.
package mapfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
	"github.com/vovakirdan/paper-rally/internal/track"
)

// MapError contains details about a map validation failure.
type MapError struct {
	Code    string
	Message string
}

func (e MapError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// yamlMap is the on-disk YAML structure of a map file.
type yamlMap struct {
	ID      string                `yaml:"id"`
	Name    string                `yaml:"name"`
	Racers  int                   `yaml:"racers,omitempty"`
	Rows    []string              `yaml:"rows"`
	Effects map[string]yamlEffect `yaml:"effects,omitempty"`
}

// yamlEffect is one effect template definition.
type yamlEffect struct {
	Kind       string  `yaml:"kind"`
	Duration   int     `yaml:"duration"`
	Priority   int     `yaml:"priority,omitempty"`
	Multiplier float64 `yaml:"multiplier,omitempty"`
	MaxSpeed   int     `yaml:"maxspeed,omitempty"`
}

// Map is a parsed and validated race map.
type Map struct {
	ID   string
	Name string
	// Racers is the suggested racer count, never above the start area size.
	Racers   int
	Layout   track.Layout
	Catalog  map[string]race.Effect
	FilePath string
}

// Track builds the immutable track from the map layout.
func (m *Map) Track() (*track.Track, error) {
	return track.New(m.Layout)
}

// Grid glyphs. Every other rune marks a Special cell whose effect template
// is named after the rune.
const (
	glyphBlocked = '#'
	glyphOpen    = '.'
	glyphStart   = 'S'
	glyphDest    = 'D'
)

// Parse decodes and validates a YAML map file.
func Parse(data []byte) (Map, error) {
	var ym yamlMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return Map{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if len(ym.Rows) == 0 {
		return Map{}, MapError{Code: "EMPTY_GRID", Message: "map has no rows"}
	}
	width := len([]rune(ym.Rows[0]))
	if width == 0 {
		return Map{}, MapError{Code: "EMPTY_GRID", Message: "map rows are empty"}
	}

	m := Map{
		ID:      ym.ID,
		Name:    ym.Name,
		Racers:  ym.Racers,
		Catalog: make(map[string]race.Effect, len(ym.Effects)),
		Layout: track.Layout{
			Width:  width,
			Height: len(ym.Rows),
			Spots:  make(map[core.Vec]string),
		},
	}

	for name, ye := range ym.Effects {
		e, err := parseEffect(name, ye)
		if err != nil {
			return Map{}, err
		}
		m.Catalog[name] = e
	}

	for y, row := range ym.Rows {
		runes := []rune(row)
		if len(runes) != width {
			return Map{}, MapError{
				Code:    "RAGGED_ROWS",
				Message: fmt.Sprintf("row %d has %d cells, expected %d", y, len(runes), width),
			}
		}
		for x, ch := range runes {
			p := core.V(x, y)
			switch ch {
			case glyphBlocked:
				m.Layout.Cells = append(m.Layout.Cells, track.Blocked)
			case glyphOpen:
				m.Layout.Cells = append(m.Layout.Cells, track.Open)
			case glyphStart:
				m.Layout.Cells = append(m.Layout.Cells, track.Open)
				m.Layout.Start = append(m.Layout.Start, p)
			case glyphDest:
				m.Layout.Cells = append(m.Layout.Cells, track.Open)
				m.Layout.Dest = append(m.Layout.Dest, p)
			default:
				name := string(ch)
				if _, ok := m.Catalog[name]; !ok {
					return Map{}, MapError{
						Code:    "UNKNOWN_EFFECT",
						Message: fmt.Sprintf("cell (%d,%d) marks effect %q with no definition", x, y, name),
					}
				}
				m.Layout.Cells = append(m.Layout.Cells, track.Special)
				m.Layout.Spots[p] = name
			}
		}
	}

	if len(m.Layout.Start) == 0 {
		return Map{}, MapError{Code: "EMPTY_START", Message: "map has no start cells"}
	}
	if len(m.Layout.Dest) == 0 {
		return Map{}, MapError{Code: "EMPTY_DEST", Message: "map has no destination cells"}
	}
	if m.Racers < 1 || m.Racers > len(m.Layout.Start) {
		m.Racers = len(m.Layout.Start)
	}
	return m, nil
}

// parseEffect validates one template definition.
func parseEffect(name string, ye yamlEffect) (race.Effect, error) {
	kind, ok := race.ParseEffectKind(ye.Kind)
	if !ok {
		return race.Effect{}, MapError{
			Code:    "BAD_EFFECT_PARAM",
			Message: fmt.Sprintf("effect %q: unknown kind %q", name, ye.Kind),
		}
	}
	if ye.Duration < 1 {
		return race.Effect{}, MapError{
			Code:    "BAD_EFFECT_PARAM",
			Message: fmt.Sprintf("effect %q: duration %d, expected at least 1", name, ye.Duration),
		}
	}
	switch kind {
	case race.EffectSand, race.EffectMultiSpeed:
		if ye.Multiplier <= 0 || ye.Multiplier >= 1 {
			return race.Effect{}, MapError{
				Code:    "BAD_EFFECT_PARAM",
				Message: fmt.Sprintf("effect %q: multiplier %v outside (0,1)", name, ye.Multiplier),
			}
		}
	case race.EffectMaxSpeed:
		if ye.MaxSpeed < 0 {
			return race.Effect{}, MapError{
				Code:    "BAD_EFFECT_PARAM",
				Message: fmt.Sprintf("effect %q: negative maxspeed %d", name, ye.MaxSpeed),
			}
		}
	}
	return race.Effect{
		Kind:       kind,
		Duration:   ye.Duration,
		Priority:   ye.Priority,
		Multiplier: ye.Multiplier,
		MaxSpeed:   ye.MaxSpeed,
	}, nil
}
