package agent

import (
	"errors"
	"math"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
	"github.com/vovakirdan/paper-rally/internal/track"
)

// ErrNoDestination is returned when a heuristic field is requested for a
// track without destination cells.
var ErrNoDestination = errors.New("agent: track has no destination cells")

// Weights parametrize the edge costs of the heuristic relaxation. The cost
// of stepping from one cell to an adjacent one depends on the terrain left
// behind and, for slowing effects, on the terrain entered.
type Weights struct {
	// Street is the cost of leaving an open cell for another open cell.
	Street float64
	// OffStreet is the cost of leaving an open cell for a special one.
	OffStreet float64
	// Cell is the cost of leaving a special cell without a slowing or
	// widening effect.
	Cell float64
	// SlowCell is the cost of leaving a sand or speed-clamp cell.
	SlowCell float64
	// WideCell is the cost of leaving a target-widening cell.
	WideCell float64
	// EnterSlow is the surcharge for stepping onto a sand or speed-clamp
	// cell from a special cell.
	EnterSlow float64
}

// DefaultWeights returns the cost profile used by the greedy, astar and
// exhaustive strategies. Slowing cells are strongly penalized, widening
// cells are nearly free.
func DefaultWeights() Weights {
	return Weights{
		Street:    5,
		OffStreet: 10,
		Cell:      5,
		SlowCell:  10,
		WideCell:  1,
		EnterSlow: 10,
	}
}

// SmoothWeights returns the nearly uniform profile the lookahead strategy
// uses; its tree search supplies the terrain awareness itself.
func SmoothWeights() Weights {
	return Weights{
		Street:    1,
		OffStreet: 1.5,
		Cell:      1.5,
		SlowCell:  1.5,
		WideCell:  1.5,
		EnterSlow: 0,
	}
}

// Field maps every cell connected to the destination area to an estimated
// remaining cost. Destination cells carry cost zero; cells unreachable from
// the destination are absent and report +Inf. A field depends only on the
// immutable track and is computed once per agent.
type Field struct {
	cost map[core.Vec]float64
	max  float64
}

// NewField relaxes the cost field outward from all destination cells at
// once, so tracks with wide destination areas pull racers toward the nearest
// part of the area instead of one arbitrary cell.
func NewField(t *track.Track, catalog map[string]race.Effect, w Weights) (*Field, error) {
	dests := t.DestCells()
	if len(dests) == 0 {
		return nil, ErrNoDestination
	}

	f := &Field{cost: make(map[core.Vec]float64)}
	queue := append([]core.Vec(nil), dests...)
	for _, d := range dests {
		f.cost[d] = 0
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range t.Neighbours(cur) {
			c := f.cost[cur] + w.edge(t, catalog, cur, n)
			if old, known := f.cost[n]; !known || c < old {
				f.cost[n] = c
				queue = append(queue, n)
			}
		}
	}

	for _, c := range f.cost {
		if c > f.max {
			f.max = c
		}
	}
	return f, nil
}

// edge returns the cost of the relaxation step from cell `from` to the
// adjacent cell `to`. Because the relaxation runs outward from the
// destination, `from` is the cell closer to it.
func (w Weights) edge(t *track.Track, catalog map[string]race.Effect, from, to core.Vec) float64 {
	var c float64
	switch {
	case t.InDest(from):
		c = 0
	case t.Terrain(from) == track.Open:
		if t.Terrain(to) == track.Open {
			c = w.Street
		} else {
			c = w.OffStreet
		}
	default:
		c = w.Cell
		switch kind, known := effectKind(t, catalog, from); {
		case known && (kind == race.EffectSand || kind == race.EffectMaxSpeed):
			c = w.SlowCell
		case known && kind == race.EffectWideTarget:
			c = w.WideCell
		}
		if kind, known := effectKind(t, catalog, to); known {
			if kind == race.EffectSand || kind == race.EffectMaxSpeed {
				c += w.EnterSlow
			}
		}
	}
	return c
}

// effectKind resolves the effect template attached to p through the catalog.
func effectKind(t *track.Track, catalog map[string]race.Effect, p core.Vec) (race.EffectKind, bool) {
	name, ok := t.EffectAt(p)
	if !ok {
		return 0, false
	}
	tmpl, ok := catalog[name]
	if !ok {
		return 0, false
	}
	return tmpl.Kind, true
}

// At returns the estimated remaining cost at p, +Inf for cells the
// destination cannot be reached from.
func (f *Field) At(p core.Vec) float64 {
	c, ok := f.cost[p]
	if !ok {
		return math.Inf(1)
	}
	return c
}

// Max returns the largest finite cost in the field; never less than 1 so it
// is safe as a normalization divisor.
func (f *Field) Max() float64 {
	if f.max < 1 {
		return 1
	}
	return f.max
}
