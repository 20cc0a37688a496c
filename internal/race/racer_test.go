package race

import (
	"testing"

	"github.com/vovakirdan/paper-rally/internal/core"
	"github.com/vovakirdan/paper-rally/internal/track"
)

// parseTrack builds a track from ASCII rows: '#' blocked, '.' open, 'S'
// start, 'D' destination, anything else a Special cell whose effect template
// is named after the rune.
func parseTrack(t *testing.T, rows []string) *track.Track {
	t.Helper()

	l := track.Layout{
		Width:  len(rows[0]),
		Height: len(rows),
		Spots:  make(map[core.Vec]string),
	}
	for y, row := range rows {
		for x, ch := range row {
			p := core.V(x, y)
			switch ch {
			case '#':
				l.Cells = append(l.Cells, track.Blocked)
			case '.':
				l.Cells = append(l.Cells, track.Open)
			case 'S':
				l.Cells = append(l.Cells, track.Open)
				l.Start = append(l.Start, p)
			case 'D':
				l.Cells = append(l.Cells, track.Open)
				l.Dest = append(l.Dest, p)
			default:
				l.Cells = append(l.Cells, track.Special)
				l.Spots[p] = string(ch)
			}
		}
	}

	tr, err := track.New(l)
	if err != nil {
		t.Fatalf("track.New() failed: %v", err)
	}
	return tr
}

// testCatalog covers the effect markers used by the test tracks.
func testCatalog() map[string]Effect {
	return map[string]Effect{
		"s": {Kind: EffectSand, Duration: 1, Priority: 1, Multiplier: 0.5},
		"m": {Kind: EffectMultiSpeed, Duration: 1, Priority: 1, Multiplier: 0.5},
		"x": {Kind: EffectMaxSpeed, Duration: 3, Priority: 1, MaxSpeed: 1},
		"w": {Kind: EffectWideTarget, Duration: 2, Priority: 1},
	}
}

// newTestState places racers on fixed cells for deterministic scenarios.
func newTestState(t *testing.T, tr *track.Track, positions ...core.Vec) *State {
	t.Helper()

	s := &State{
		track:   tr,
		rules:   DefaultRules(),
		catalog: testCatalog(),
		racers:  make(map[ID]*Racer, len(positions)),
		board:   make(map[ID]int),
	}
	for i, p := range positions {
		r, err := NewRacer(ID(i), tr, p)
		if err != nil {
			t.Fatalf("NewRacer failed: %v", err)
		}
		s.racers[ID(i)] = r
		s.order = append(s.order, ID(i))
	}
	return s
}

func candidateSet(r *Racer) map[core.Vec]bool {
	set := make(map[core.Vec]bool)
	for _, c := range r.Candidates() {
		set[c] = true
	}
	return set
}

func TestInitialCandidatesOnOpenGrid(t *testing.T) {
	tr := parseTrack(t, []string{
		"S..",
		"...",
		"..D",
	})
	s := newTestState(t, tr, core.V(0, 0))
	r := s.CurrentRacer()

	// Standing still, the projected point is the own position: candidates
	// are that point plus its in-grid neighbours.
	got := candidateSet(r)
	expected := []core.Vec{core.V(0, 0), core.V(1, 0), core.V(0, 1), core.V(1, 1)}
	if len(got) != len(expected) {
		t.Fatalf("candidates = %v, expected %d cells", r.Candidates(), len(expected))
	}
	for _, p := range expected {
		if !got[p] {
			t.Errorf("candidate %v missing", p)
		}
	}
	if _, pending := r.CrashFallback(); pending {
		t.Error("no crash fallback expected with candidates present")
	}
}

func TestCrashFallback(t *testing.T) {
	tr := parseTrack(t, []string{"S.#.D"})
	s := newTestState(t, tr, core.V(0, 0))
	r := s.CurrentRacer()

	// Force full speed toward the wall two steps ahead.
	r.vel = core.V(3, 0)
	r.computeCandidates()

	if len(r.Candidates()) != 0 {
		t.Fatalf("candidates = %v, expected none", r.Candidates())
	}
	fallback, pending := r.CrashFallback()
	if !pending {
		t.Fatal("expected a crash fallback")
	}
	if fallback != core.V(1, 0) {
		t.Errorf("fallback = %v, expected (1,0)", fallback)
	}

	// Any other target is rejected while the crash is pending.
	if err := s.Advance(core.V(3, 0)); err == nil {
		t.Error("expected rejection of non-fallback target")
	}

	if err := s.Advance(fallback); err != nil {
		t.Fatalf("Advance(fallback) failed: %v", err)
	}
	if r.Position() != core.V(1, 0) {
		t.Errorf("position = %v, expected (1,0)", r.Position())
	}
	if !r.Velocity().IsZero() {
		t.Errorf("velocity = %v, expected zero after crash", r.Velocity())
	}
	if len(r.Effects()) != 1 || r.Effects()[0].Kind != EffectMaxSpeed {
		t.Errorf("expected a single crash clamp effect, got %v", r.Effects())
	}
}

func TestCommitMoveAppendsPath(t *testing.T) {
	tr := parseTrack(t, []string{
		"S..",
		"..D",
	})
	s := newTestState(t, tr, core.V(0, 0))
	r := s.CurrentRacer()

	before := r.PathLen()
	if err := s.Advance(core.V(1, 0)); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if r.PathLen() != before+1 {
		t.Errorf("path length = %d, expected %d", r.PathLen(), before+1)
	}
	path := r.Path()
	if path[len(path)-1] != core.V(1, 0) {
		t.Errorf("last path entry = %v, expected (1,0)", path[len(path)-1])
	}
	if r.Velocity() != core.V(1, 0) {
		t.Errorf("velocity = %v, expected (1,0)", r.Velocity())
	}
}

func TestIllegalMoveLeavesStateUntouched(t *testing.T) {
	tr := parseTrack(t, []string{
		"S..",
		"..D",
	})
	s := newTestState(t, tr, core.V(0, 0))
	r := s.CurrentRacer()

	pos, vel, pathLen := r.Position(), r.Velocity(), r.PathLen()

	err := s.Advance(core.V(2, 1))
	if err == nil {
		t.Fatal("expected rejection of unreachable target")
	}
	if r.Position() != pos || r.Velocity() != vel || r.PathLen() != pathLen {
		t.Error("rejected move must not mutate the racer")
	}
	if s.CurrentID() != r.ID() {
		t.Error("rejected move must not rotate the turn")
	}
}

func TestSandEffectHalvesSpeed(t *testing.T) {
	tr := parseTrack(t, []string{"S.s.D"})
	s := newTestState(t, tr, core.V(0, 0))
	r := s.CurrentRacer()

	if err := s.Advance(core.V(1, 0)); err != nil {
		t.Fatalf("first move failed: %v", err)
	}
	// Landing on the sand cell: incoming velocity (1,0) is scaled by 0.5
	// and rounds to zero.
	if err := s.Advance(core.V(2, 0)); err != nil {
		t.Fatalf("move onto sand failed: %v", err)
	}
	if !r.Velocity().IsZero() {
		t.Errorf("velocity = %v, expected (0,0) after sand", r.Velocity())
	}
	if len(r.Effects()) != 0 {
		t.Errorf("sand is single-shot, effects = %v", r.Effects())
	}
}

func TestWideTargetEffect(t *testing.T) {
	tr := parseTrack(t, []string{
		"S.w..",
		".....",
		"....D",
	})
	s := newTestState(t, tr, core.V(0, 0))
	r := s.CurrentRacer()

	if err := s.Advance(core.V(1, 0)); err != nil {
		t.Fatalf("first move failed: %v", err)
	}

	// Snapshot what the candidate set would be without the effect.
	plain := newTestState(t, tr, core.V(1, 0))
	plain.CurrentRacer().vel = core.V(1, 0)
	plain.CurrentRacer().computeCandidates()
	plainCount := len(plain.CurrentRacer().Candidates())

	if err := s.Advance(core.V(2, 0)); err != nil {
		t.Fatalf("move onto widener failed: %v", err)
	}
	if got := len(r.Candidates()); got <= plainCount {
		t.Errorf("widened candidate count = %d, expected more than %d", got, plainCount)
	}
}

func TestCollisionBackoff(t *testing.T) {
	tr := parseTrack(t, []string{"S...D"})
	s := newTestState(t, tr, core.V(0, 0), core.V(2, 0))
	mover := s.Racer(0)
	victim := s.Racer(1)

	mover.vel = core.V(2, 0)
	mover.computeCandidates()
	if !mover.hasCandidate(core.V(2, 0)) {
		t.Fatalf("setup: victim cell not a candidate, got %v", mover.Candidates())
	}

	if err := s.Advance(core.V(2, 0)); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	if mover.Position() == victim.Position() {
		t.Error("mover must never end on the victim's cell")
	}
	if mover.Position() != core.V(1, 0) {
		t.Errorf("mover position = %v, expected back-off to (1,0)", mover.Position())
	}
	if mover.Velocity().Chebyshev() > 2 {
		t.Errorf("mover velocity %v exceeds pre-collision magnitude", mover.Velocity())
	}
	// Victim keeps a one-turn remainder of its recovery clamp.
	if len(victim.Effects()) != 1 || victim.Effects()[0].Duration != 1 {
		t.Errorf("victim effects = %v, expected one clamp with duration 1", victim.Effects())
	}
}
