package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var flagWorldsAll bool

var worldsCmd = &cobra.Command{
	Use:   "worlds",
	Short: "List worlds and levels with progress",
	Long: `Shows every world with its unlock state, star totals and the
per-level records. Locked worlds show their star requirement.

Examples:
  gemsrush worlds
  gemsrush worlds --all`,
	Run: runWorlds,
}

func init() {
	worldsCmd.Flags().BoolVar(&flagWorldsAll, "all", false, "Show levels of locked worlds too")
}

func runWorlds(cmd *cobra.Command, args []string) {
	manager, store, err := openManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	stats := manager.Stats()
	fmt.Printf("Gems Rush - %d/%d stars, %d/%d levels completed\n",
		stats.StarsEarned, stats.StarsTotal, stats.LevelsCompleted, stats.TotalLevels)
	fmt.Println()

	for _, w := range manager.Worlds() {
		maxStars := 3 * len(w.Levels)
		header := fmt.Sprintf("%s World %d: %s  [%d/%d stars]",
			w.Def.Symbol, w.Def.ID, w.Def.Theme, w.Progress.StarsEarned, maxStars)

		switch {
		case !w.Progress.Unlocked:
			fmt.Printf("%s  (locked, requires %d stars)\n", header, w.Def.StarsRequired)
			if !flagWorldsAll {
				fmt.Println()
				continue
			}
		case w.Progress.Completed:
			fmt.Printf("%s  (completed)\n", header)
		default:
			fmt.Println(header)
		}

		for _, lvl := range w.Levels {
			stars := strings.Repeat("*", lvl.Progress.Stars) + strings.Repeat("-", 3-lvl.Progress.Stars)
			status := "locked"
			switch {
			case lvl.Progress.Completed:
				status = fmt.Sprintf("best %d", lvl.Progress.BestScore)
			case lvl.Progress.Unlocked:
				status = "open"
			}
			fmt.Printf("  %d-%-2d [%s]  %-24s %-32s %s\n",
				w.Def.ID, lvl.Def.ID, stars, lvl.Def.Name, lvl.Def.Objective.String(), status)
		}
		fmt.Println()
	}
}
