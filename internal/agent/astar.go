package agent

import (
	"container/heap"
	"math/rand"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
)

func init() {
	Register("astar", NewAStar)
}

// AStar searches best-first over (position, velocity) pairs, which is the
// full kinematic state a racer carries between turns. Each expansion costs
// one turn; the field supplies the remaining-cost estimate. The search is
// capped, and when the cap fires before a destination state is popped the
// agent falls back to the visited state with the lowest field cost. In
// either case the returned move is the first step of the winning chain, so
// it is always a current candidate.
type AStar struct {
	state     *race.State
	id        race.ID
	field     *Field
	maxExpand int
}

// NewAStar builds the A* strategy for one racer.
func NewAStar(s *race.State, id race.ID, opts Options, _ *rand.Rand) (Agent, error) {
	f, err := NewField(s.Track(), s.Catalog(), DefaultWeights())
	if err != nil {
		return nil, err
	}
	return &AStar{state: s, id: id, field: f, maxExpand: opts.AStarMaxExpansions}, nil
}

// node is one search state. parent chains back to a root node, whose pos is
// one of the racer's current candidates.
type node struct {
	pos, vel core.Vec
	turns    int
	f        float64
	parent   *node
	index    int
}

// kinState keys the visited set.
type kinState struct {
	pos, vel core.Vec
}

// frontier is a min-heap over f.
type frontier []*node

func (q frontier) Len() int           { return len(q) }
func (q frontier) Less(i, j int) bool { return q[i].f < q[j].f }
func (q frontier) Swap(i, j int)      { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *frontier) Push(x any)        { n := x.(*node); n.index = len(*q); *q = append(*q, n) }
func (q *frontier) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// NextPosition implements Agent.
func (a *AStar) NextPosition() core.Vec {
	r := a.state.Racer(a.id)
	cands := r.Candidates()
	if len(cands) == 0 {
		fallback, _ := r.CrashFallback()
		return fallback
	}

	t := a.state.Track()
	pos := r.Position()

	open := &frontier{}
	for _, c := range cands {
		heap.Push(open, &node{pos: c, vel: c.Sub(pos), turns: 1, f: a.field.At(c) + 1})
	}

	visited := make(map[kinState]bool)
	var nearest *node
	var goal *node

	expansions := 0
	for open.Len() > 0 && expansions < a.maxExpand {
		cur := heap.Pop(open).(*node)
		key := kinState{pos: cur.pos, vel: cur.vel}
		if visited[key] {
			continue
		}
		visited[key] = true

		if nearest == nil || a.field.At(cur.pos) < a.field.At(nearest.pos) {
			nearest = cur
		}
		if t.InDest(cur.pos) {
			goal = cur
			break
		}
		expansions++

		// The successors of a state are the moves the engine would offer
		// there: the projected point and its neighbourhood, straight-line
		// reachable.
		projected := cur.pos.Add(cur.vel)
		expand := func(p core.Vec) {
			if !t.Reachable(cur.pos, p) {
				return
			}
			next := &node{
				pos:    p,
				vel:    p.Sub(cur.pos),
				turns:  cur.turns + 1,
				f:      a.field.At(p) + float64(cur.turns+1),
				parent: cur,
			}
			if visited[kinState{pos: next.pos, vel: next.vel}] {
				return
			}
			heap.Push(open, next)
		}
		expand(projected)
		for _, n := range t.Neighbours(projected) {
			expand(n)
		}
	}

	pick := goal
	if pick == nil {
		pick = nearest
	}
	if pick == nil {
		return cands[0]
	}
	for pick.parent != nil {
		pick = pick.parent
	}
	return pick.pos
}
