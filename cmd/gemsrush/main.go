// gemsrush is the progression engine and toolbox for the Gems Rush
// match-3 game: world/level catalogs, star ratings, unlock gates,
// rewards and persistent progress.
//
// Usage:
//
//	gemsrush worlds                     - List worlds and levels with progress
//	gemsrush play <world> <level>       - Record a level attempt
//	gemsrush stats                      - Show progression statistics
//	gemsrush history                    - Show recent attempts
//	gemsrush browse                     - Interactive progress browser
//	gemsrush serve                      - Serve the browser over SSH
//	gemsrush reset                      - Wipe saved progress
//
// Global flags:
//
//	--db <path>       - Progress database path (default: ~/.gemsrush/progress.db)
//	--content <path>  - Custom world catalog YAML
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gems-rush/internal/content"
	"github.com/vovakirdan/gems-rush/internal/progression"
	"github.com/vovakirdan/gems-rush/internal/storage"
)

var (
	// Global flags
	flagDBPath  string
	flagContent string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gemsrush",
	Short: "Gems Rush - match-3 progression engine",
	Long: `Gems Rush progression toolbox: themed worlds of levels behind
star-based unlock gates, with best-record tracking and rewards.

Available commands:
  worlds   - List worlds and levels with progress
  play     - Record a level attempt (score/moves/time)
  stats    - Show progression statistics
  history  - Show recent attempts
  browse   - Interactive progress browser
  serve    - Serve the browser over SSH
  reset    - Wipe saved progress

Examples:
  gemsrush worlds
  gemsrush play 1 1 --score 1500 --moves 20
  gemsrush browse
  gemsrush serve --ssh :2222
  gemsrush history 1 1`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gemsrush/progress.db", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagContent, "content", "", "Path to custom world catalog YAML")

	// Add subcommands
	rootCmd.AddCommand(worldsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
}

// newLogger builds the CLI logger.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "gemsrush",
	})
}

// openManager wires the standard composition: catalog + store + manager.
// The returned store may be nil when the database cannot be opened; the
// manager still works in-memory. Callers own closing the store.
func openManager() (*progression.Manager, *storage.Store, error) {
	logger := newLogger()

	catalog, err := content.Load(flagContent)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load world catalog: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open progress database, running without persistence", "error", err)
		store = nil
	}

	opts := progression.Options{Logger: logger}
	if store != nil {
		opts.Store = store
		opts.Recorder = store
	}

	return progression.NewManager(catalog.Worlds, opts), store, nil
}
