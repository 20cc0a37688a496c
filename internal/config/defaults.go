package config

import (
	_ "embed"
)

//go:embed defaults/rally.yaml
var defaultRallyYAML []byte

// DefaultConfig returns the default simulation configuration.
func DefaultConfig() Config {
	return Config{
		Recovery: RecoveryConfig{
			Crash:           ClampConfig{Duration: 10, MaxSpeed: 0, Priority: 5},
			CollisionMover:  ClampConfig{Duration: 1, MaxSpeed: 0, Priority: 10},
			CollisionVictim: ClampConfig{Duration: 2, MaxSpeed: 0, Priority: 10},
		},
		Search: SearchConfig{
			LookaheadDepth:     5,
			AStarMaxExpansions: 2000,
			ExhaustiveDepth:    2,
			ExhaustiveSamples:  3,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultRallyYAML
}
