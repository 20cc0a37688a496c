package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/paper-rally/internal/mapfile"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List all available maps",
	Long:  `Shows the builtin maps plus any maps found under --maps.`,
	Run:   runMaps,
}

func runMaps(cmd *cobra.Command, args []string) {
	maps, err := mapfile.NewLoader(flagMapsDir).LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(maps) == 0 {
		fmt.Println("No maps available.")
		return
	}

	fmt.Println("Available maps:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range maps {
		if len(m.ID) > maxIDLen {
			maxIDLen = len(m.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-8s  %-7s  %s\n", maxIDLen, "ID", "Size", "Racers", "Name")
	fmt.Printf("  %-*s  %-8s  %-7s  %s\n", maxIDLen, "--", "----", "------", "----")

	// Print maps
	for _, m := range maps {
		size := fmt.Sprintf("%dx%d", m.Layout.Width, m.Layout.Height)
		fmt.Printf("  %-*s  %-8s  %-7d  %s\n", maxIDLen, m.ID, size, m.Racers, m.Name)
	}

	fmt.Println()
	fmt.Println("Run 'rally play <id>' to race on a map.")
}
