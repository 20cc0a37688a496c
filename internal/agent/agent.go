// Package agent implements the move-selection strategies that drive bot
// racers. Every strategy consumes the game state read-only and produces one
// legal next position per turn; all mutation goes through State.Advance in
// the driving layer. Strategies register themselves by name in init(), so
// the CLI can instantiate them without hardcoded dependencies.
package agent

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
	"github.com/vovakirdan/paper-rally/internal/track"
)

// Agent picks moves for a single racer. NextPosition returns a member of the
// racer's current candidate set, or the crash fallback when that set is
// empty, so the result is always accepted by State.Advance.
type Agent interface {
	NextPosition() core.Vec
}

// Options tunes the search strategies. Zero fields fall back to defaults.
type Options struct {
	// LookaheadDepth is the recursion depth of the lookahead strategy.
	LookaheadDepth int
	// AStarMaxExpansions caps the frontier expansions of the A* strategy.
	AStarMaxExpansions int
	// ExhaustiveDepth is the number of own turns the exhaustive strategy
	// simulates ahead.
	ExhaustiveDepth int
	// ExhaustiveSamples is the number of random opponent play-outs per
	// candidate used for the worst-case estimate.
	ExhaustiveSamples int
}

// DefaultOptions returns the standard search tuning.
func DefaultOptions() Options {
	return Options{
		LookaheadDepth:     5,
		AStarMaxExpansions: 2000,
		ExhaustiveDepth:    2,
		ExhaustiveSamples:  3,
	}
}

// withDefaults fills zero fields with the default tuning.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.LookaheadDepth <= 0 {
		o.LookaheadDepth = def.LookaheadDepth
	}
	if o.AStarMaxExpansions <= 0 {
		o.AStarMaxExpansions = def.AStarMaxExpansions
	}
	if o.ExhaustiveDepth <= 0 {
		o.ExhaustiveDepth = def.ExhaustiveDepth
	}
	if o.ExhaustiveSamples <= 0 {
		o.ExhaustiveSamples = def.ExhaustiveSamples
	}
	return o
}

// Factory builds an agent controlling the given racer.
type Factory func(s *race.State, id race.ID, opts Options, rng *rand.Rand) (Agent, error)

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a strategy factory under a name. Called from init()
// functions; panics if the name is already taken.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("agent: strategy %q already registered", name))
	}
	factories[name] = f
}

// Create instantiates a strategy by name.
func Create(name string, s *race.State, id race.ID, opts Options, rng *rand.Rand) (Agent, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("agent: unknown strategy %q", name)
	}
	if s.Racer(id) == nil {
		return nil, fmt.Errorf("agent: no racer with id %d", id)
	}
	return f(s, id, opts.withDefaults(), rng)
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exists reports whether a strategy with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}

// previewSpeed applies the terrain effect template at pos to vel the way the
// simulation will once a racer lands there. Used by strategies to estimate
// how far a velocity really carries.
func previewSpeed(t *track.Track, catalog map[string]race.Effect, pos core.Vec, vel core.Vec) core.Vec {
	name, ok := t.EffectAt(pos)
	if !ok {
		return vel
	}
	tmpl, ok := catalog[name]
	if !ok {
		return vel
	}
	return tmpl.ApplySpeed(vel)
}
