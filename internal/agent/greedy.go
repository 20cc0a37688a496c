package agent

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
)

func init() {
	Register("greedy", NewGreedy)
}

// Greedy scores every candidate by its normalized field cost, compounded
// over the cells the current velocity would carry the racer through on the
// following turns. The cheapest product wins; a candidate inside the
// destination area wins outright.
type Greedy struct {
	state *race.State
	id    race.ID
	field *Field
}

// NewGreedy builds the greedy strategy for one racer.
func NewGreedy(s *race.State, id race.ID, _ Options, _ *rand.Rand) (Agent, error) {
	f, err := NewField(s.Track(), s.Catalog(), DefaultWeights())
	if err != nil {
		return nil, err
	}
	return &Greedy{state: s, id: id, field: f}, nil
}

// NextPosition implements Agent.
func (g *Greedy) NextPosition() core.Vec {
	r := g.state.Racer(g.id)
	cands := r.Candidates()
	if len(cands) == 0 {
		fallback, _ := r.CrashFallback()
		return fallback
	}

	t := g.state.Track()
	catalog := g.state.Catalog()
	maxH := g.field.Max()

	best := cands[0]
	bestScore := math.Inf(1)
	for _, c := range cands {
		if t.InDest(c) {
			return c
		}
		score := g.field.At(c) / maxH

		vel := c.Sub(r.Position())
		if other := g.state.RacerAt(c); other != nil && other.ID() != g.id {
			// Picking an occupied cell ends one step short of it, so the
			// extrapolation assumes a single-step velocity.
			if m := vel.Chebyshev(); m > 1 {
				vel = vel.Scale(1 / float64(m))
			}
		} else {
			vel = previewSpeed(t, catalog, c, vel)
		}

		// Compound the score along the straight-line continuation: each
		// further cell the momentum forces the racer through multiplies in
		// its own normalized cost.
		pos := c
		for i := 1; i < vel.Chebyshev(); i++ {
			next := pos.Add(vel)
			if !t.Reachable(pos, next) {
				break
			}
			if t.InDest(next) {
				return c
			}
			score *= g.field.At(next) / maxH
			vel = previewSpeed(t, catalog, next, vel)
			pos = next
			if vel.IsZero() {
				break
			}
		}

		if score < bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}
