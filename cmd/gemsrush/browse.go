package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gems-rush/internal/platform/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive progress browser",
	Long: `Opens a terminal browser over the world map: pick a world to see
its levels, stars and best records.

Controls:
  Up/Down    - Move
  Enter      - Open world
  Esc/B      - Back
  Q/Ctrl+C   - Quit`,
	Run: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) {
	manager, store, err := openManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	// Get terminal size for the initial layout
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.Run(manager, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
		os.Exit(1)
	}
}
