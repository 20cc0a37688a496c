// rally is a terminal game of vector racing on graph paper: each turn a
// racer keeps its velocity and may nudge it by one cell in any direction.
//
// Usage:
//
//	rally maps               - List available maps
//	rally play [map]         - Race against bots in the terminal
//	rally sim [map]          - Run a headless bot-only race
//
// Global flags:
//
//	--maps <dir>     - Directory with extra map files
//	--seed <value>   - Set RNG seed for reproducible races
//	--config <path>  - Path to custom config YAML
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/paper-rally/internal/mapfile"
)

var (
	// Global flags
	flagMapsDir string
	flagSeed    int64
	flagConfig  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rally",
	Short: "Paper Rally - vector racing on graph paper in your terminal",
	Long: `Paper Rally is a turn-based racing game played on a grid. Velocity
carries over between turns and can change by at most one cell per turn, so
braking before a corner matters more than raw speed.

Available commands:
  maps   - Show all available maps
  play   - Race against bots in the terminal
  sim    - Run a headless bot-only race

Examples:
  rally maps
  rally play oval
  rally play sandpit --bots astar,greedy
  rally sim chicane --racers 4 --seed 42`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagMapsDir, "maps", "", "Directory with extra map files")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")

	// Add subcommands
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
}

// raceSeed resolves the seed flag, substituting the clock when unset.
func raceSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// newRNG creates the race RNG from the resolved seed.
func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// loadMap resolves the optional map argument, defaulting to the oval.
func loadMap(args []string) (mapfile.Map, error) {
	id := "oval"
	if len(args) > 0 {
		id = args[0]
	}
	return mapfile.NewLoader(flagMapsDir).LoadByID(id)
}
