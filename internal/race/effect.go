// Package race implements the turn-based racing simulation: timed effects,
// the racer state machine and the game state that arbitrates turns and
// collisions. The package is pure logic with no external dependencies; map
// loading and rendering live in their own packages.
package race

import "github.com/vovakirdan/paper-rally/internal/core"

// EffectKind identifies one of the built-in effect behaviors. Effects are a
// closed tagged variant: the kind plus the parameter fields fully describe
// the behavior, there is no open dispatch.
type EffectKind uint8

const (
	// EffectSand multiplies the velocity by Multiplier once (half speed on
	// the default maps). Single-shot.
	EffectSand EffectKind = iota
	// EffectMultiSpeed multiplies the velocity by a configured Multiplier
	// once. Single-shot.
	EffectMultiSpeed
	// EffectMaxSpeed rescales the velocity to MaxSpeed Chebyshev magnitude
	// along the same direction whenever it is faster. Lasts Duration turns.
	// Crash and collision recovery are instances of this kind.
	EffectMaxSpeed
	// EffectWideTarget replaces the candidate set with the union of the
	// 8-neighbourhoods of all current candidates. Lasts Duration turns.
	EffectWideTarget
)

// String returns the effect kind name as used in map files.
func (k EffectKind) String() string {
	switch k {
	case EffectSand:
		return "sand"
	case EffectMultiSpeed:
		return "multispeed"
	case EffectMaxSpeed:
		return "maxspeed"
	case EffectWideTarget:
		return "widetarget"
	default:
		return "unknown"
	}
}

// ParseEffectKind resolves a map-file kind name to its EffectKind.
func ParseEffectKind(name string) (EffectKind, bool) {
	switch name {
	case "sand":
		return EffectSand, true
	case "multispeed":
		return EffectMultiSpeed, true
	case "maxspeed":
		return EffectMaxSpeed, true
	case "widetarget":
		return EffectWideTarget, true
	default:
		return 0, false
	}
}

// EffectCategory decides at which phase of a move an effect is applied.
type EffectCategory uint8

const (
	// CategorySpeed effects run right after the racer's position changes,
	// before the new candidate set is computed.
	CategorySpeed EffectCategory = iota
	// CategoryCandidates effects run after the candidate set is computed.
	CategoryCandidates
)

// Effect is a timed modifier attached to a single racer. A zero Duration
// effect is spent and gets pruned. Effects of the same category are applied
// in ascending Priority order.
type Effect struct {
	Kind       EffectKind
	Duration   int
	Priority   int
	Multiplier float64 // EffectSand, EffectMultiSpeed
	MaxSpeed   int     // EffectMaxSpeed
}

// Category returns the phase this effect applies in.
func (e Effect) Category() EffectCategory {
	if e.Kind == EffectWideTarget {
		return CategoryCandidates
	}
	return CategorySpeed
}

// ApplySpeed returns the velocity after this effect. It is a pure function;
// duration bookkeeping is the racer's job. Candidate-phase effects return the
// velocity unchanged.
func (e Effect) ApplySpeed(v core.Vec) core.Vec {
	switch e.Kind {
	case EffectSand, EffectMultiSpeed:
		if v.Chebyshev() > 0 {
			return v.Scale(e.Multiplier)
		}
	case EffectMaxSpeed:
		if mag := v.Chebyshev(); mag > e.MaxSpeed {
			return v.Scale(float64(e.MaxSpeed) / float64(mag))
		}
	}
	return v
}

// ClampRule parametrizes the speed clamp attached on crashes and collisions.
type ClampRule struct {
	Duration int
	MaxSpeed int
	Priority int
}

// Effect builds the clamp effect instance for this rule.
func (r ClampRule) Effect() Effect {
	return Effect{
		Kind:     EffectMaxSpeed,
		Duration: r.Duration,
		Priority: r.Priority,
		MaxSpeed: r.MaxSpeed,
	}
}

// Rules carries the tunable recovery parameters of the simulation.
type Rules struct {
	// Crash is attached to a racer forced onto its crash fallback.
	Crash ClampRule
	// CollisionMover is attached to the racer that drove into another.
	CollisionMover ClampRule
	// CollisionVictim is attached to the racer that was hit.
	CollisionVictim ClampRule
}

// DefaultRules returns the standard recovery parameters.
func DefaultRules() Rules {
	return Rules{
		Crash:           ClampRule{Duration: 10, MaxSpeed: 0, Priority: 5},
		CollisionMover:  ClampRule{Duration: 1, MaxSpeed: 0, Priority: 10},
		CollisionVictim: ClampRule{Duration: 2, MaxSpeed: 0, Priority: 10},
	}
}
