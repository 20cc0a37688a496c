package race

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/track"
)

var (
	// ErrIllegalMove marks a rejected move: the target was neither a
	// candidate nor the pending crash fallback. State is unchanged.
	ErrIllegalMove = errors.New("illegal move")
	// ErrRaceFinished is returned by Advance once every racer has finished.
	ErrRaceFinished = errors.New("race already finished")
)

// Result is one scoreboard entry: the number of steps a racer needed to
// reach the destination area.
type Result struct {
	Racer ID
	Steps int
}

// State owns the full simulation: the shared read-only track, every racer,
// the turn pointer and the scoreboard. It is the single point through which
// any driver, human input or agent, advances the game.
type State struct {
	track   *track.Track
	rules   Rules
	catalog map[string]Effect

	racers  map[ID]*Racer
	order   []ID
	current int

	board    map[ID]int
	finished []ID
	done     bool
}

// NewState creates a game with n racers placed on distinct random start
// cells. The catalog maps effect template names referenced by the track to
// their effect instances; every referenced name must be present.
func NewState(t *track.Track, catalog map[string]Effect, rules Rules, n int, rng *rand.Rand) (*State, error) {
	starts := t.StartCells()
	if n < 1 {
		return nil, fmt.Errorf("race: need at least one racer, got %d", n)
	}
	if n > len(starts) {
		return nil, fmt.Errorf("race: %d racers but only %d start cells", n, len(starts))
	}
	rng.Shuffle(len(starts), func(i, j int) {
		starts[i], starts[j] = starts[j], starts[i]
	})

	s := &State{
		track:   t,
		rules:   rules,
		catalog: catalog,
		racers:  make(map[ID]*Racer, n),
		board:   make(map[ID]int),
	}
	for i := 0; i < n; i++ {
		id := ID(i)
		r, err := NewRacer(id, t, starts[i])
		if err != nil {
			return nil, err
		}
		s.racers[id] = r
		s.order = append(s.order, id)
	}
	return s, nil
}

// Track returns the shared read-only track.
func (s *State) Track() *track.Track {
	return s.track
}

// Rules returns the recovery parameters in force.
func (s *State) Rules() Rules {
	return s.rules
}

// Catalog returns the effect templates keyed by the names the track refers
// to. Callers must treat the map as read-only.
func (s *State) Catalog() map[string]Effect {
	return s.catalog
}

// IDs returns the racer ids in turn order.
func (s *State) IDs() []ID {
	return append([]ID(nil), s.order...)
}

// Racer returns the racer with the given id, or nil.
func (s *State) Racer(id ID) *Racer {
	return s.racers[id]
}

// CurrentID returns the id of the racer to move next.
func (s *State) CurrentID() ID {
	return s.order[s.current]
}

// CurrentRacer returns the racer to move next.
func (s *State) CurrentRacer() *Racer {
	return s.racers[s.CurrentID()]
}

// RacerAt returns the racer occupying p, or nil. Racers are scanned in turn
// order, so the result is deterministic.
func (s *State) RacerAt(p core.Vec) *Racer {
	for _, id := range s.order {
		if s.racers[id].pos == p {
			return s.racers[id]
		}
	}
	return nil
}

// HasFinished returns true once the racer has a scoreboard entry.
func (s *State) HasFinished(id ID) bool {
	_, ok := s.board[id]
	return ok
}

// Finished returns true once every racer has a scoreboard entry.
func (s *State) Finished() bool {
	return s.done
}

// Scoreboard returns the results in finish order.
func (s *State) Scoreboard() []Result {
	results := make([]Result, 0, len(s.finished))
	for _, id := range s.finished {
		results = append(results, Result{Racer: id, Steps: s.board[id]})
	}
	return results
}

// Advance moves the current racer to target. On success the scoreboard is
// updated if the racer reached the destination area and the turn pointer
// rotates to the next unfinished racer. A rejected move leaves all state
// untouched and reports ErrIllegalMove.
func (s *State) Advance(target core.Vec) error {
	if s.done {
		return ErrRaceFinished
	}

	r := s.CurrentRacer()
	if err := r.commitMove(s, target); err != nil {
		return err
	}

	if s.track.InDest(r.pos) && !s.HasFinished(r.id) {
		s.board[r.id] = len(r.path)
		s.finished = append(s.finished, r.id)
	}
	s.rotate()
	return nil
}

// rotate points the turn pointer at the next racer without a scoreboard
// entry, wrapping around, and raises the finished flag once none is left.
func (s *State) rotate() {
	if len(s.board) >= len(s.order) {
		s.done = true
		return
	}
	for {
		s.current = (s.current + 1) % len(s.order)
		if !s.HasFinished(s.CurrentID()) {
			return
		}
	}
}

// Clone returns a fully independent deep copy for speculative play-outs:
// racers, effects and scoreboard are copied, the immutable track, effect
// catalog and rules are shared.
func (s *State) Clone() *State {
	c := &State{
		track:    s.track,
		rules:    s.rules,
		catalog:  s.catalog,
		racers:   make(map[ID]*Racer, len(s.racers)),
		order:    append([]ID(nil), s.order...),
		current:  s.current,
		board:    make(map[ID]int, len(s.board)),
		finished: append([]ID(nil), s.finished...),
		done:     s.done,
	}
	for id, r := range s.racers {
		c.racers[id] = r.clone()
	}
	for id, steps := range s.board {
		c.board[id] = steps
	}
	return c
}
