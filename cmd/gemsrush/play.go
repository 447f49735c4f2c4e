package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gems-rush/internal/progression"
)

var (
	flagScore int
	flagMoves int
	flagTime  int
)

var playCmd = &cobra.Command{
	Use:   "play <world> <level>",
	Short: "Record a level attempt",
	Long: `Starts the given level and records the attempt outcome. The board
simulation runs in the game client; this command feeds its final
score/moves/time triple through the progression rules: star rating,
best-record updates, rewards, unlocks and persistence.

Examples:
  gemsrush play 1 1 --score 1500 --moves 20
  gemsrush play 1 4 --score 2400 --time 95
  gemsrush play 2 5 --score 5200 --moves 18 --time 140`,
	Args: cobra.ExactArgs(2),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagScore, "score", 0, "Final score of the attempt")
	playCmd.Flags().IntVar(&flagMoves, "moves", 0, "Moves used")
	playCmd.Flags().IntVar(&flagTime, "time", 0, "Time taken in seconds")
	playCmd.MarkFlagRequired("score")
}

func runPlay(cmd *cobra.Command, args []string) {
	worldID, err1 := strconv.Atoi(args[0])
	levelID, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(os.Stderr, "Error: world and level must be numeric ids")
		os.Exit(1)
	}

	manager, store, err := openManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	// Print unlock and completion notices as they happen.
	manager.Events().Subscribe(func(e progression.Event) {
		switch ev := e.(type) {
		case progression.LevelUnlockedEvent:
			fmt.Printf("Unlocked: level %d-%d\n", ev.WorldID, ev.LevelID)
		case progression.WorldUnlockedEvent:
			if w, ok := manager.World(ev.WorldID); ok {
				fmt.Printf("Unlocked: world %d - %s\n", ev.WorldID, w.Def.Theme)
			}
		case progression.WorldCompletedEvent:
			fmt.Printf("World %d completed with %d stars!\n", ev.WorldID, ev.StarsEarned)
		}
	})

	if !manager.StartLevel(worldID, levelID) {
		lvl, ok := manager.Level(worldID, levelID)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: level %d-%d does not exist\n", worldID, levelID)
		} else if !lvl.Progress.Unlocked {
			fmt.Fprintf(os.Stderr, "Error: level %d-%d is locked\n", worldID, levelID)
		}
		fmt.Fprintln(os.Stderr, "Run 'gemsrush worlds' to see what is open.")
		os.Exit(1)
	}

	lvl, _ := manager.CurrentLevel()
	fmt.Printf("Playing %d-%d %q - %s\n", worldID, levelID, lvl.Def.Name, lvl.Def.Objective.String())

	res := manager.CompleteLevel(flagScore, flagMoves, flagTime)
	if res == nil {
		oneStar := lvl.Def.Tiers[0]
		fmt.Printf("Failed: score %d did not reach the one-star tier (score >= %d", flagScore, oneStar.Score)
		if oneStar.Moves > 0 {
			fmt.Printf(", moves <= %d", oneStar.Moves)
		}
		if oneStar.TimeSecs > 0 {
			fmt.Printf(", time <= %ds", oneStar.TimeSecs)
		}
		fmt.Println(")")
		return
	}

	fmt.Println()
	fmt.Printf("Stars:      %s\n", strings.Repeat("*", res.Stars)+strings.Repeat("-", 3-res.Stars))
	fmt.Printf("Score:      %d%s\n", res.Score, bestMark(res.NewBestScore))
	if res.Moves > 0 {
		fmt.Printf("Moves:      %d%s\n", res.Moves, bestMark(res.NewBestMoves))
	}
	if res.TimeSecs > 0 {
		fmt.Printf("Time:       %ds%s\n", res.TimeSecs, bestMark(res.NewBestTime))
	}
	fmt.Printf("Essence:    +%d\n", res.Essence)
	fmt.Printf("Experience: +%d\n", res.Experience)
	if res.FirstCompletion {
		fmt.Println("First completion!")
	}
}

func bestMark(isBest bool) string {
	if isBest {
		return "  (new best)"
	}
	return ""
}
