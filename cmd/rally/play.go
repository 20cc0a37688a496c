package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/paper-rally/internal/agent"
	"github.com/vovakirdan/paper-rally/internal/config"
	"github.com/vovakirdan/paper-rally/internal/platform/tui"
	"github.com/vovakirdan/paper-rally/internal/race"
)

var (
	flagRacers int
	flagBots   []string
	flagWatch  bool
)

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Race against bots in the terminal",
	Long: `Start a race on the given map (default: oval). You drive racer 0,
the remaining racers are bots.

Controls:
  Left/Right  - Cycle through your legal targets
  Enter       - Commit the move
  ?           - Toggle help
  Q/Ctrl+C    - Quit

Bot strategies: greedy, lookahead, astar, exhaustive. The --bots list is
assigned to the bot racers in order and repeats when shorter.

Examples:
  rally play
  rally play sandpit --racers 3
  rally play chicane --bots astar,exhaustive
  rally play oval --watch --bots greedy,astar`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagRacers, "racers", 0, "Number of racers (0 = map suggestion)")
	playCmd.Flags().StringSliceVar(&flagBots, "bots", []string{"greedy"}, "Bot strategies, assigned round-robin")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Watch a bot-only race instead of driving")
}

func runPlay(cmd *cobra.Command, args []string) {
	m, err := loadMap(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'rally maps' to see available maps.")
		os.Exit(1)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tr, err := m.Track()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid map %s: %v\n", m.ID, err)
		os.Exit(1)
	}

	// Warn when the terminal cannot fit the track
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		if w < tr.Width()+2 || h < tr.Height()+6 {
			fmt.Fprintf(os.Stderr, "Warning: terminal %dx%d is small for map %s (%dx%d)\n",
				w, h, m.ID, tr.Width(), tr.Height())
		}
	}

	racers := flagRacers
	if racers <= 0 {
		racers = m.Racers
	}

	seed := raceSeed()
	rng := newRNG(seed)
	state, err := race.NewState(tr, m.Catalog, cfg.Rules(), racers, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	bots, err := makeBots(state, cfg.Options(), rng, !flagWatch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(state, bots, 0, !flagWatch); err != nil {
		fmt.Fprintf(os.Stderr, "Error running race: %v\n", err)
		os.Exit(1)
	}
}

// makeBots builds agents for every racer except, when skipFirst is set, the
// human-driven racer 0. Strategies come from --bots, repeated round-robin.
func makeBots(state *race.State, opts agent.Options, rng *rand.Rand, skipFirst bool) (map[race.ID]agent.Agent, error) {
	bots := make(map[race.ID]agent.Agent)
	i := 0
	for _, id := range state.IDs() {
		if skipFirst && id == 0 {
			continue
		}
		name := flagBots[i%len(flagBots)]
		a, err := agent.Create(name, state, id, opts, rng)
		if err != nil {
			return nil, err
		}
		bots[id] = a
		i++
	}
	return bots, nil
}
