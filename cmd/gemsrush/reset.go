package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gems-rush/internal/storage"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe saved progress",
	Long: `Deletes all saved progress, profile totals and attempt history.
The world catalog itself is untouched.

Requires --yes to confirm.`,
	Run: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetYes, "yes", false, "Confirm the wipe")
}

func runReset(cmd *cobra.Command, args []string) {
	if !flagResetYes {
		fmt.Fprintln(os.Stderr, "Refusing to wipe progress without --yes")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.ClearProgress(); err != nil {
		fmt.Fprintf(os.Stderr, "Error wiping progress: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Progress wiped. World 1 awaits.")
}
