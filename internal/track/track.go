// Package track models the static surface a race is run on: terrain
// classification, the start and destination areas, and the cells that carry
// terrain effects. A Track is immutable once constructed and may be shared
// read-only by any number of racers and agents.
package track

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/paper-rally/internal/core"
)

// Terrain classifies a single grid point.
type Terrain uint8

const (
	// OutOfRange is the sentinel returned for points off the grid.
	OutOfRange Terrain = iota
	// Open points are plain street: always accessible, no effect attached.
	Open
	// Blocked points are walls. Racers can never enter or cross them.
	Blocked
	// Special points are accessible but carry a terrain effect template.
	Special
)

// String returns a human-readable name for the terrain class.
func (t Terrain) String() string {
	switch t {
	case Open:
		return "open"
	case Blocked:
		return "blocked"
	case Special:
		return "special"
	default:
		return "out-of-range"
	}
}

// neighbourOffsets are the 8 Chebyshev-adjacent directions.
var neighbourOffsets = []core.Vec{
	{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0},
	{X: 1, Y: -1}, {X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1},
}

// Layout is the raw construction input for a Track, typically produced by the
// map loader. Cells are stored in row-major order: index = y*Width + x.
type Layout struct {
	Width  int
	Height int
	Cells  []Terrain
	Start  []core.Vec
	Dest   []core.Vec
	// Spots maps Special cells to the name of their effect template.
	Spots map[core.Vec]string
}

// Track is the immutable grid the game is played on.
type Track struct {
	width  int
	height int
	cells  []Terrain
	start  map[core.Vec]bool
	dest   map[core.Vec]bool
	spots  map[core.Vec]string
}

// New builds a Track from a Layout. It enforces the structural invariants:
// dimensions positive, cell count matching, start and destination cells
// in range and never Blocked, effect spots only on Special cells.
func New(l Layout) (*Track, error) {
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("track: invalid dimensions %dx%d", l.Width, l.Height)
	}
	if len(l.Cells) != l.Width*l.Height {
		return nil, fmt.Errorf("track: got %d cells for a %dx%d grid", len(l.Cells), l.Width, l.Height)
	}

	t := &Track{
		width:  l.Width,
		height: l.Height,
		cells:  append([]Terrain(nil), l.Cells...),
		start:  make(map[core.Vec]bool, len(l.Start)),
		dest:   make(map[core.Vec]bool, len(l.Dest)),
		spots:  make(map[core.Vec]string, len(l.Spots)),
	}

	for _, p := range l.Start {
		if !t.Accessible(p) {
			return nil, fmt.Errorf("track: start cell %v is %s", p, t.Terrain(p))
		}
		t.start[p] = true
	}
	for _, p := range l.Dest {
		if !t.Accessible(p) {
			return nil, fmt.Errorf("track: destination cell %v is %s", p, t.Terrain(p))
		}
		t.dest[p] = true
	}
	for p, name := range l.Spots {
		if t.Terrain(p) != Special {
			return nil, fmt.Errorf("track: effect spot %v on %s cell", p, t.Terrain(p))
		}
		t.spots[p] = name
	}
	return t, nil
}

// Width returns the grid width.
func (t *Track) Width() int {
	return t.width
}

// Height returns the grid height.
func (t *Track) Height() int {
	return t.height
}

// InRange returns true if the point lies on the grid.
func (t *Track) InRange(p core.Vec) bool {
	return p.X >= 0 && p.X < t.width && p.Y >= 0 && p.Y < t.height
}

// Terrain returns the terrain class at p, or OutOfRange for points off the
// grid.
func (t *Track) Terrain(p core.Vec) Terrain {
	if !t.InRange(p) {
		return OutOfRange
	}
	return t.cells[p.Y*t.width+p.X]
}

// Accessible returns true if a racer may occupy p: in range and not Blocked.
func (t *Track) Accessible(p core.Vec) bool {
	terrain := t.Terrain(p)
	return terrain != OutOfRange && terrain != Blocked
}

// Reachable returns true if a racer can move from a straight to b without
// crossing a Blocked or out-of-range point. Every point of the rasterized
// segment must be accessible. This is the sole legality test for moves.
func (t *Track) Reachable(a, b core.Vec) bool {
	for _, p := range core.Line(a, b) {
		if !t.Accessible(p) {
			return false
		}
	}
	return true
}

// Neighbours returns the 8 Chebyshev-adjacent points of p, filtered to those
// that are accessible.
func (t *Track) Neighbours(p core.Vec) []core.Vec {
	nh := make([]core.Vec, 0, len(neighbourOffsets))
	for _, d := range neighbourOffsets {
		n := p.Add(d)
		if t.Accessible(n) {
			nh = append(nh, n)
		}
	}
	return nh
}

// InStart returns true if p lies in the start area.
func (t *Track) InStart(p core.Vec) bool {
	return t.start[p]
}

// InDest returns true if p lies in the destination area.
func (t *Track) InDest(p core.Vec) bool {
	return t.dest[p]
}

// StartCells returns the start area in deterministic (row-major) order.
func (t *Track) StartCells() []core.Vec {
	return sortedCells(t.start)
}

// DestCells returns the destination area in deterministic (row-major) order.
func (t *Track) DestCells() []core.Vec {
	return sortedCells(t.dest)
}

// EffectAt returns the name of the effect template attached to p, if any.
func (t *Track) EffectAt(p core.Vec) (string, bool) {
	name, ok := t.spots[p]
	return name, ok
}

func sortedCells(set map[core.Vec]bool) []core.Vec {
	cells := make([]core.Vec, 0, len(set))
	for p := range set {
		cells = append(cells, p)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}
