package agent

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
)

func init() {
	Register("exhaustive", NewExhaustive)
}

// Exhaustive plays every candidate out on a cloned game, letting the other
// racers take random legal moves, and scores each candidate by its worst
// outcome over several such play-outs. Robust against interference at the
// price of cloning the full state per branch; depth is kept small.
type Exhaustive struct {
	state   *race.State
	id      race.ID
	field   *Field
	depth   int
	samples int
	rng     *rand.Rand
}

// NewExhaustive builds the exhaustive strategy for one racer.
func NewExhaustive(s *race.State, id race.ID, opts Options, rng *rand.Rand) (Agent, error) {
	f, err := NewField(s.Track(), s.Catalog(), DefaultWeights())
	if err != nil {
		return nil, err
	}
	return &Exhaustive{
		state:   s,
		id:      id,
		field:   f,
		depth:   opts.ExhaustiveDepth,
		samples: opts.ExhaustiveSamples,
		rng:     rng,
	}, nil
}

// NextPosition implements Agent.
func (e *Exhaustive) NextPosition() core.Vec {
	r := e.state.Racer(e.id)
	cands := r.Candidates()
	if len(cands) == 0 {
		fallback, _ := r.CrashFallback()
		return fallback
	}

	best := cands[0]
	bestWorst := math.Inf(1)
	for _, c := range cands {
		worst := math.Inf(-1)
		for i := 0; i < e.samples; i++ {
			if v := e.playout(e.state, c, e.depth); v > worst {
				worst = v
			}
		}
		if worst < bestWorst {
			bestWorst = worst
			best = c
		}
	}
	return best
}

// playout clones the game, commits target for the controlled racer, lets the
// opponents move randomly until it is the controlled racer's turn again and
// recurses until depth runs out. Returns the estimated remaining cost of the
// resulting position, zero once the racer finished and +Inf for branches the
// engine rejects. A finishing move scores zero right away: the turn rotation
// skips finished racers, so waiting for the controlled racer's turn would
// simulate the opponents until the whole race ends, which an opponent that
// cannot reach the destination turns into an endless loop.
func (e *Exhaustive) playout(s *race.State, target core.Vec, depth int) float64 {
	sim := s.Clone()
	if err := sim.Advance(target); err != nil {
		return math.Inf(1)
	}
	if sim.HasFinished(e.id) {
		return 0
	}
	for !sim.Finished() && sim.CurrentID() != e.id {
		if err := sim.Advance(randomMove(sim.CurrentRacer(), e.rng)); err != nil {
			return math.Inf(1)
		}
	}

	me := sim.Racer(e.id)
	if depth <= 1 {
		return e.field.At(me.Position())
	}

	cands := me.Candidates()
	if len(cands) == 0 {
		fallback, ok := me.CrashFallback()
		if !ok {
			return e.field.At(me.Position())
		}
		return e.playout(sim, fallback, depth-1)
	}
	best := math.Inf(1)
	for _, c := range cands {
		if v := e.playout(sim, c, depth-1); v < best {
			best = v
		}
	}
	return best
}

// randomMove picks a uniformly random legal move for a racer.
func randomMove(r *race.Racer, rng *rand.Rand) core.Vec {
	cands := r.Candidates()
	if len(cands) == 0 {
		fallback, _ := r.CrashFallback()
		return fallback
	}
	return cands[rng.Intn(len(cands))]
}
