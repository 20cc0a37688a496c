package agent

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/race"
	"github.com/vovakirdan/paper-rally/internal/track"
)

func newGame(t *testing.T, tr *track.Track, racers int) *race.State {
	t.Helper()

	s, err := race.NewState(tr, testCatalog(), race.DefaultRules(), racers, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	return s
}

func isCandidate(r *race.Racer, p core.Vec) bool {
	for _, c := range r.Candidates() {
		if c == p {
			return true
		}
	}
	return false
}

func TestRegisteredStrategyNames(t *testing.T) {
	expected := []string{"astar", "exhaustive", "greedy", "lookahead"}
	if got := Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Names() = %v, expected %v", got, expected)
	}
	for _, name := range expected {
		if !Exists(name) {
			t.Errorf("Exists(%q) = false", name)
		}
	}
}

func TestCreateRejectsUnknownInput(t *testing.T) {
	s := newGame(t, buildTrack(t, []string{"S.D"}), 1)
	rng := rand.New(rand.NewSource(1))

	if _, err := Create("no-such-strategy", s, 0, Options{}, rng); err == nil {
		t.Error("expected error for unknown strategy name")
	}
	if _, err := Create("greedy", s, 99, Options{}, rng); err == nil {
		t.Error("expected error for unknown racer id")
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{LookaheadDepth: 3}.withDefaults()
	if got.LookaheadDepth != 3 {
		t.Errorf("explicit depth overwritten: %d", got.LookaheadDepth)
	}
	def := DefaultOptions()
	if got.AStarMaxExpansions != def.AStarMaxExpansions ||
		got.ExhaustiveDepth != def.ExhaustiveDepth ||
		got.ExhaustiveSamples != def.ExhaustiveSamples {
		t.Errorf("zero fields not defaulted: %+v", got)
	}
}

// Every strategy must finish a plain corridor within a generous turn cap,
// producing only moves the engine accepts.
func TestStrategiesFinishOpenCorridor(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s := newGame(t, buildTrack(t, []string{"S....D"}), 1)
			a, err := Create(name, s, 0, Options{}, rand.New(rand.NewSource(7)))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			for turn := 0; turn < 60 && !s.Finished(); turn++ {
				r := s.Racer(0)
				move := a.NextPosition()
				if fallback, pending := r.CrashFallback(); pending {
					if move != fallback {
						t.Fatalf("turn %d: move %v, expected crash fallback %v", turn, move, fallback)
					}
				} else if !isCandidate(r, move) {
					t.Fatalf("turn %d: move %v is not a candidate %v", turn, move, r.Candidates())
				}
				if err := s.Advance(move); err != nil {
					t.Fatalf("turn %d: Advance(%v) failed: %v", turn, move, err)
				}
			}
			if !s.Finished() {
				t.Errorf("race not finished, racer stuck at %v", s.Racer(0).Position())
			}
		})
	}
}

// A candidate inside the destination area must win immediately for every
// strategy.
func TestStrategiesTakeFinishingMove(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s := newGame(t, buildTrack(t, []string{"S.D"}), 1)
			if err := s.Advance(core.V(1, 0)); err != nil {
				t.Fatalf("setup move failed: %v", err)
			}
			if !isCandidate(s.Racer(0), core.V(2, 0)) {
				t.Fatalf("setup: destination not a candidate, got %v", s.Racer(0).Candidates())
			}

			a, err := Create(name, s, 0, Options{}, rand.New(rand.NewSource(7)))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if got := a.NextPosition(); got != core.V(2, 0) {
				t.Errorf("NextPosition() = %v, expected the destination (2,0)", got)
			}
		})
	}
}

// A finishing candidate must be scored without waiting for the rest of the
// field: the opponent here is walled in at its start and can only stand
// still, so a play-out that simulates it until the race ends never returns.
func TestExhaustiveScoresWinDespiteStuckOpponent(t *testing.T) {
	s := newGame(t, buildTrack(t, []string{"S#S.D"}), 2)

	runner := race.ID(0)
	if s.Racer(runner).Position() != core.V(2, 0) {
		runner = 1
	}
	waitForTurn := func() {
		for s.CurrentID() != runner {
			stuck := s.CurrentRacer()
			if err := s.Advance(stuck.Candidates()[0]); err != nil {
				t.Fatalf("stuck opponent move failed: %v", err)
			}
		}
	}

	// Give the runner a velocity so its projected point is the destination.
	waitForTurn()
	if err := s.Advance(core.V(3, 0)); err != nil {
		t.Fatalf("setup move failed: %v", err)
	}
	waitForTurn()

	a, err := Create("exhaustive", s, runner, Options{}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	done := make(chan core.Vec, 1)
	go func() { done <- a.NextPosition() }()
	select {
	case got := <-done:
		if got != core.V(4, 0) {
			t.Errorf("NextPosition() = %v, expected the destination (4,0)", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("NextPosition did not return within 5s")
	}
}

// On a track with a single possible route every strategy agrees on the first
// step away from the start.
func TestStrategiesAgreeOnSinglePathGrid(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s := newGame(t, buildTrack(t, []string{
				"S#.",
				".#.",
				"..D",
			}), 1)

			a, err := Create(name, s, 0, Options{}, rand.New(rand.NewSource(7)))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if got := a.NextPosition(); got != core.V(0, 1) {
				t.Errorf("NextPosition() = %v, expected (0,1)", got)
			}
		})
	}
}

func TestStrategiesHandleMultipleRacers(t *testing.T) {
	tr := buildTrack(t, []string{
		"S...D",
		"S...D",
	})
	s := newGame(t, tr, 2)
	rng := rand.New(rand.NewSource(3))

	bots := make(map[race.ID]Agent)
	for i, name := range []string{"greedy", "lookahead"} {
		a, err := Create(name, s, race.ID(i), Options{}, rng)
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", name, err)
		}
		bots[race.ID(i)] = a
	}

	for turn := 0; turn < 120 && !s.Finished(); turn++ {
		if err := s.Advance(bots[s.CurrentID()].NextPosition()); err != nil {
			t.Fatalf("turn %d: Advance failed: %v", turn, err)
		}
	}
	if !s.Finished() {
		t.Error("two-racer race did not finish")
	}
	if len(s.Scoreboard()) != 2 {
		t.Errorf("scoreboard = %v, expected 2 entries", s.Scoreboard())
	}
}
