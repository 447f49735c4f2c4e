package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gems-rush/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [world level]",
	Short: "Show recent attempts",
	Long: `Without arguments, shows the most recent successful attempts across
all levels. With a world and level id, shows that level's best attempts.

Examples:
  gemsrush history
  gemsrush history 1 1
  gemsrush history 1 1 --limit 5`,
	Args: cobra.RangeArgs(0, 2),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Maximum attempts to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	if len(args) == 1 {
		fmt.Fprintln(os.Stderr, "Error: provide both world and level ids, or neither")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var entries []storage.AttemptEntry
	if len(args) == 2 {
		worldID, err1 := strconv.Atoi(args[0])
		levelID, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			fmt.Fprintln(os.Stderr, "Error: world and level must be numeric ids")
			os.Exit(1)
		}
		entries, err = store.BestAttempts(worldID, levelID, flagHistoryLimit)
		if err == nil {
			fmt.Printf("Best attempts - level %d-%d\n", worldID, levelID)
		}
	} else {
		entries, err = store.RecentAttempts(flagHistoryLimit)
		if err == nil {
			fmt.Println("Recent attempts")
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving attempts: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("No attempts recorded yet.")
		fmt.Println()
		fmt.Println("Play 'gemsrush play 1 1 --score <n>' to record the first one!")
		return
	}

	fmt.Printf("  %-6s  %-10s  %-7s  %-6s  %-6s  %s\n", "Level", "Score", "Moves", "Time", "Stars", "Date")
	fmt.Printf("  %-6s  %-10s  %-7s  %-6s  %-6s  %s\n", "-----", "-----", "-----", "----", "-----", "----")
	for _, e := range entries {
		stars := strings.Repeat("*", e.Stars)
		dateStr := e.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %d-%-4d  %-10d  %-7d  %-6d  %-6s  %s\n",
			e.WorldID, e.LevelID, e.Score, e.Moves, e.TimeSecs, stars, dateStr)
	}
}
