// Package config provides YAML-based configuration loading for the rally
// simulation: crash and collision recovery parameters and the tuning knobs
// of the bot search strategies.
package config

import (
	"github.com/vovakirdan/paper-rally/internal/agent"
	"github.com/vovakirdan/paper-rally/internal/race"
)

// Config contains all tunable simulation parameters.
type Config struct {
	Recovery RecoveryConfig `yaml:"recovery"`
	Search   SearchConfig   `yaml:"search"`
}

// RecoveryConfig defines the speed clamps attached on crashes and collisions.
type RecoveryConfig struct {
	Crash           ClampConfig `yaml:"crash"`
	CollisionMover  ClampConfig `yaml:"collision_mover"`
	CollisionVictim ClampConfig `yaml:"collision_victim"`
}

// ClampConfig defines one speed clamp.
type ClampConfig struct {
	Duration int `yaml:"duration"`
	MaxSpeed int `yaml:"max_speed"`
	Priority int `yaml:"priority"`
}

// SearchConfig defines the tuning of the bot search strategies.
type SearchConfig struct {
	LookaheadDepth     int `yaml:"lookahead_depth"`
	AStarMaxExpansions int `yaml:"astar_max_expansions"`
	ExhaustiveDepth    int `yaml:"exhaustive_depth"`
	ExhaustiveSamples  int `yaml:"exhaustive_samples"`
}

// Rules converts the recovery section into simulation rules.
func (c Config) Rules() race.Rules {
	return race.Rules{
		Crash:           c.Recovery.Crash.rule(),
		CollisionMover:  c.Recovery.CollisionMover.rule(),
		CollisionVictim: c.Recovery.CollisionVictim.rule(),
	}
}

func (c ClampConfig) rule() race.ClampRule {
	return race.ClampRule{
		Duration: c.Duration,
		MaxSpeed: c.MaxSpeed,
		Priority: c.Priority,
	}
}

// Options converts the search section into agent options. Zero fields keep
// the agent defaults.
func (c Config) Options() agent.Options {
	return agent.Options{
		LookaheadDepth:     c.Search.LookaheadDepth,
		AStarMaxExpansions: c.Search.AStarMaxExpansions,
		ExhaustiveDepth:    c.Search.ExhaustiveDepth,
		ExhaustiveSamples:  c.Search.ExhaustiveSamples,
	}
}
