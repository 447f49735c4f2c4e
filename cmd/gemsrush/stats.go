package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progression statistics",
	Long: `Displays aggregate progression: worlds and levels unlocked and
completed, stars earned, and accumulated rewards.`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	manager, store, err := openManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	s := manager.Stats()

	fmt.Println("Gems Rush - Progression")
	fmt.Println()
	fmt.Printf("  Worlds:     %d/%d unlocked, %d completed\n", s.WorldsUnlocked, s.TotalWorlds, s.WorldsCompleted)
	fmt.Printf("  Levels:     %d/%d unlocked, %d completed\n", s.LevelsUnlocked, s.TotalLevels, s.LevelsCompleted)
	fmt.Printf("  Stars:      %d/%d\n", s.StarsEarned, s.StarsTotal)
	fmt.Printf("  Essence:    %d\n", s.EssenceEarned)
	fmt.Printf("  Experience: %d\n", s.ExperienceEarned)

	if s.StarsTotal > 0 {
		pct := 100 * s.StarsEarned / s.StarsTotal
		fmt.Println()
		fmt.Printf("  %d%% of all stars collected\n", pct)
	}
}
