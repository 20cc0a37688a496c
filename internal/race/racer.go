package race

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/track"
)

// ID identifies a racer within one game.
type ID int

// Racer is one competitor on the track. Its fields are only ever mutated
// through State.Advance; agents read them through the accessor methods.
//
// A racer is always in one of two transient shapes, recomputed every turn:
// either the candidate set is non-empty and there is no crash fallback, or
// the candidate set is empty and the fallback is the forced next position.
type Racer struct {
	id    ID
	track *track.Track

	pos  core.Vec
	vel  core.Vec
	path []core.Vec

	effects    []Effect
	candidates []core.Vec
	crash      *core.Vec
}

// NewRacer creates a racer standing still on the given start cell with its
// initial candidate set computed.
func NewRacer(id ID, t *track.Track, start core.Vec) (*Racer, error) {
	if !t.Accessible(start) {
		return nil, fmt.Errorf("racer %d: start cell %v is not accessible", id, start)
	}
	r := &Racer{
		id:    id,
		track: t,
		pos:   start,
		path:  []core.Vec{start},
	}
	r.computeCandidates()
	return r, nil
}

// ID returns the racer's identifier.
func (r *Racer) ID() ID {
	return r.id
}

// Position returns the racer's current position.
func (r *Racer) Position() core.Vec {
	return r.pos
}

// Velocity returns the racer's current velocity.
func (r *Racer) Velocity() core.Vec {
	return r.vel
}

// Path returns a copy of every position the racer has occupied, oldest first.
func (r *Racer) Path() []core.Vec {
	return append([]core.Vec(nil), r.path...)
}

// PathLen returns the number of positions on the racer's path.
func (r *Racer) PathLen() int {
	return len(r.path)
}

// OnPath returns true if the racer has already occupied p.
func (r *Racer) OnPath(p core.Vec) bool {
	for _, q := range r.path {
		if q == p {
			return true
		}
	}
	return false
}

// Candidates returns a copy of the legal next positions for this turn.
// Empty exactly when a crash fallback is pending.
func (r *Racer) Candidates() []core.Vec {
	return append([]core.Vec(nil), r.candidates...)
}

// CrashFallback returns the forced next position and true when no candidate
// is reachable at the current velocity.
func (r *Racer) CrashFallback() (core.Vec, bool) {
	if r.crash == nil {
		return core.Vec{}, false
	}
	return *r.crash, true
}

// Effects returns a copy of the racer's active effects, sorted by priority.
func (r *Racer) Effects() []Effect {
	return append([]Effect(nil), r.effects...)
}

// addEffect inserts an effect keeping the list sorted by ascending priority.
// The sort is stable so earlier effects keep precedence within a priority.
func (r *Racer) addEffect(e Effect) {
	r.effects = append(r.effects, e)
	sort.SliceStable(r.effects, func(i, j int) bool {
		return r.effects[i].Priority < r.effects[j].Priority
	})
}

// hasCandidate reports whether p is a member of the current candidate set.
func (r *Racer) hasCandidate(p core.Vec) bool {
	for _, c := range r.candidates {
		if c == p {
			return true
		}
	}
	return false
}

// computeCandidates rebuilds the candidate set from scratch: the projected
// point position+velocity plus its accessible neighbours, filtered to those
// reachable in a straight line from the current position. When nothing is
// reachable the crash fallback is the last accessible point on the projected
// segment before the first inaccessible one.
func (r *Racer) computeCandidates() {
	r.candidates = r.candidates[:0]
	r.crash = nil

	target := r.pos.Add(r.vel)
	if r.track.Reachable(r.pos, target) {
		r.candidates = append(r.candidates, target)
	}
	for _, n := range r.track.Neighbours(target) {
		if r.track.Reachable(r.pos, n) {
			r.candidates = append(r.candidates, n)
		}
	}
	if len(r.candidates) > 0 {
		return
	}

	for _, p := range core.Line(r.pos, target) {
		if !r.track.Accessible(p) {
			break
		}
		fallback := p
		r.crash = &fallback
	}
}

// applyEffects runs all active effects of one category in priority order,
// decrementing durations and pruning spent effects.
func (r *Racer) applyEffects(cat EffectCategory) {
	kept := r.effects[:0]
	for _, e := range r.effects {
		if e.Category() != cat {
			kept = append(kept, e)
			continue
		}
		switch cat {
		case CategorySpeed:
			r.vel = e.ApplySpeed(r.vel)
		case CategoryCandidates:
			r.widenCandidates()
		}
		e.Duration--
		if e.Duration > 0 {
			kept = append(kept, e)
		}
	}
	r.effects = kept
}

// widenCandidates replaces the candidate set with the union of the
// 8-neighbourhoods of all current candidates.
func (r *Racer) widenCandidates() {
	widened := make(map[core.Vec]bool)
	for _, c := range r.candidates {
		for _, n := range r.track.Neighbours(c) {
			widened[n] = true
		}
	}
	r.candidates = r.candidates[:0]
	for p := range widened {
		r.candidates = append(r.candidates, p)
	}
	// Map iteration order is random; keep the set deterministic for agents.
	sort.Slice(r.candidates, func(i, j int) bool {
		if r.candidates[i].Y != r.candidates[j].Y {
			return r.candidates[i].Y < r.candidates[j].Y
		}
		return r.candidates[i].X < r.candidates[j].X
	})
}

// commitMove performs the full move transaction described by the target
// position. Called by State.Advance only. On an illegal target it returns
// ErrIllegalMove without touching any state.
func (r *Racer) commitMove(s *State, target core.Vec) error {
	var newPos core.Vec

	switch {
	case r.crash != nil:
		if target != *r.crash {
			return fmt.Errorf("%w: racer %d must take crash fallback %v, got %v",
				ErrIllegalMove, r.id, *r.crash, target)
		}
		newPos = *r.crash
		r.crash = nil
		r.addEffect(s.rules.Crash.Effect())
		r.vel = core.Vec{}

	case r.hasCandidate(target):
		newPos = target
		if other := s.RacerAt(target); other != nil && other.id != r.id {
			// Collision: stop one step short of the occupied cell, clamp
			// the victim immediately and attach the rest of its recovery,
			// then pick up our own shorter clamp.
			line := core.Line(other.pos, r.pos)
			newPos = line[1]
			other.takeCollision(s.rules.CollisionVictim)
			r.addEffect(s.rules.CollisionMover.Effect())
		}
		r.vel = newPos.Sub(r.pos)

	default:
		return fmt.Errorf("%w: racer %d cannot move to %v", ErrIllegalMove, r.id, target)
	}

	r.pos = newPos
	r.path = append(r.path, newPos)

	if r.track.Terrain(newPos) == track.Special {
		if name, ok := r.track.EffectAt(newPos); ok {
			if tmpl, ok := s.catalog[name]; ok {
				r.addEffect(tmpl)
			}
		}
	}

	r.applyEffects(CategorySpeed)
	r.computeCandidates()
	r.applyEffects(CategoryCandidates)
	return nil
}

// takeCollision applies the victim side of a collision: the clamp fires once
// right now and any remaining duration stays attached, then the candidate
// set is refreshed because the changed velocity invalidates it.
func (r *Racer) takeCollision(rule ClampRule) {
	e := rule.Effect()
	r.vel = e.ApplySpeed(r.vel)
	e.Duration--
	if e.Duration > 0 {
		r.addEffect(e)
	}
	r.computeCandidates()
}

// clone returns a deep copy of the racer sharing only the immutable track.
func (r *Racer) clone() *Racer {
	c := &Racer{
		id:         r.id,
		track:      r.track,
		pos:        r.pos,
		vel:        r.vel,
		path:       append([]core.Vec(nil), r.path...),
		effects:    append([]Effect(nil), r.effects...),
		candidates: append([]core.Vec(nil), r.candidates...),
	}
	if r.crash != nil {
		fallback := *r.crash
		c.crash = &fallback
	}
	return c
}
