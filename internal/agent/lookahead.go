package agent

import (
	"math"
	"math/rand"
	"sort"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
)

func init() {
	Register("lookahead", NewLookahead)
}

// Lookahead evaluates every candidate with a depth-limited tree search. At
// each level it extrapolates the momentum, probes the best, median and worst
// neighbour of the projected point and recurses on them. Scores compare by
// field cost first, then by the depth remaining when the score was taken, so
// between equally cheap outcomes the one reached sooner wins. Cells already
// on the own path pay a penalty, which keeps the racer from circling.
type Lookahead struct {
	state *race.State
	id    race.ID
	field *Field
	depth int
}

// NewLookahead builds the lookahead strategy for one racer.
func NewLookahead(s *race.State, id race.ID, opts Options, _ *rand.Rand) (Agent, error) {
	f, err := NewField(s.Track(), s.Catalog(), SmoothWeights())
	if err != nil {
		return nil, err
	}
	return &Lookahead{state: s, id: id, field: f, depth: opts.LookaheadDepth}, nil
}

// outcome is a lexicographic tree-search score: lower cost wins, and between
// equal costs the outcome taken with more depth remaining (reached in fewer
// turns) wins.
type outcome struct {
	cost float64
	turn int
}

func (a outcome) better(b outcome) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	return a.turn < b.turn
}

// NextPosition implements Agent.
func (l *Lookahead) NextPosition() core.Vec {
	r := l.state.Racer(l.id)
	cands := r.Candidates()
	if len(cands) == 0 {
		fallback, _ := r.CrashFallback()
		return fallback
	}

	t := l.state.Track()
	pos := r.Position()

	best := cands[0]
	bestScore := outcome{cost: math.Inf(1)}
	for _, c := range cands {
		if t.InDest(c) {
			return c
		}
		if c == pos {
			continue
		}

		probe, from := c, pos
		if other := l.state.RacerAt(c); other != nil && other.ID() != l.id {
			// The engine will stop the racer one step short of the occupied
			// cell, so score that position instead.
			probe = core.Line(c, pos)[1]
			from = pos
			if probe == pos {
				continue
			}
		}

		score := l.score(probe, from, l.depth)
		if score.better(bestScore) {
			bestScore = score
			best = c
		}
	}
	return best
}

// score estimates how good it is to stand on pos having arrived from old
// with depth levels of search left.
func (l *Lookahead) score(pos, old core.Vec, depth int) outcome {
	t := l.state.Track()
	r := l.state.Racer(l.id)
	turn := l.depth - depth

	if t.InDest(pos) {
		return outcome{cost: 0, turn: turn}
	}
	if depth == 0 {
		return outcome{cost: l.field.At(pos), turn: turn}
	}
	if r.OnPath(pos) {
		return outcome{cost: l.field.At(pos) + 1, turn: turn}
	}

	vel := previewSpeed(t, l.state.Catalog(), pos, pos.Sub(old))
	target := pos.Add(vel)
	probes := l.probes(target)

	best := outcome{cost: math.Inf(1)}
	for _, n := range probes {
		if !t.Reachable(pos, n) {
			continue
		}
		if s := l.score(n, pos, depth-1); s.better(best) {
			best = s
		}
	}
	if math.IsInf(best.cost, 1) {
		// Nothing reachable around the projected point: a crash is coming.
		return outcome{cost: l.field.At(pos) + 1, turn: turn}
	}
	return best
}

// probes returns the best, median and worst accessible neighbour of the
// projected point, ranked by field cost. Three probes keep the branching
// factor constant while still noticing both opportunity and danger.
func (l *Lookahead) probes(target core.Vec) []core.Vec {
	nh := l.state.Track().Neighbours(target)
	if l.state.Track().Accessible(target) {
		nh = append(nh, target)
	}
	if len(nh) == 0 {
		return nil
	}
	sort.Slice(nh, func(i, j int) bool {
		ci, cj := l.field.At(nh[i]), l.field.At(nh[j])
		if ci != cj {
			return ci < cj
		}
		if nh[i].Y != nh[j].Y {
			return nh[i].Y < nh[j].Y
		}
		return nh[i].X < nh[j].X
	})
	if len(nh) <= 3 {
		return nh
	}
	return []core.Vec{nh[0], nh[len(nh)/2], nh[len(nh)-1]}
}
