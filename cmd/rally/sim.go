package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/paper-rally/internal/config"
	"github.com/vovakirdan/paper-rally/internal/race"
)

var (
	flagTurns   int
	flagVerbose bool
)

var simCmd = &cobra.Command{
	Use:   "sim [map]",
	Short: "Run a headless bot-only race",
	Long: `Run a race where every racer is a bot and print the standings.
Useful for comparing strategies and reproducing races with --seed.

Examples:
  rally sim
  rally sim chicane --racers 4 --bots astar,greedy --seed 42
  rally sim sandpit --verbose`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagRacers, "racers", 0, "Number of racers (0 = map suggestion)")
	simCmd.Flags().StringSliceVar(&flagBots, "bots", []string{"greedy"}, "Bot strategies, assigned round-robin")
	simCmd.Flags().IntVar(&flagTurns, "turns", 500, "Abort the race after this many turns")
	simCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Log every move")
}

func runSim(cmd *cobra.Command, args []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sim",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	m, err := loadMap(args)
	if err != nil {
		logger.Fatal("loading map", "err", err)
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	tr, err := m.Track()
	if err != nil {
		logger.Fatal("invalid map", "map", m.ID, "err", err)
	}

	racers := flagRacers
	if racers <= 0 {
		racers = m.Racers
	}

	seed := raceSeed()
	rng := newRNG(seed)
	state, err := race.NewState(tr, m.Catalog, cfg.Rules(), racers, rng)
	if err != nil {
		logger.Fatal("starting race", "err", err)
	}
	bots, err := makeBots(state, cfg.Options(), rng, false)
	if err != nil {
		logger.Fatal("creating bots", "err", err)
	}

	logger.Info("race start", "map", m.ID, "racers", racers, "seed", seed)

	turn := 0
	for ; turn < flagTurns && !state.Finished(); turn++ {
		id := state.CurrentID()
		move := bots[id].NextPosition()
		if err := state.Advance(move); err != nil {
			logger.Fatal("rejected move", "turn", turn, "racer", id, "move", move, "err", err)
		}
		r := state.Racer(id)
		logger.Debug("move", "turn", turn, "racer", id, "pos", r.Position(), "vel", r.Velocity())
	}

	if !state.Finished() {
		logger.Error("race aborted", "turns", turn)
		os.Exit(1)
	}
	logger.Info("race finished", "turns", turn)

	fmt.Println()
	fmt.Printf("  %-6s %-6s %s\n", "Place", "Racer", "Steps")
	fmt.Printf("  %-6s %-6s %s\n", "-----", "-----", "-----")
	for i, res := range state.Scoreboard() {
		fmt.Printf("  #%-5d %-6d %d\n", i+1, res.Racer, res.Steps)
	}
}
