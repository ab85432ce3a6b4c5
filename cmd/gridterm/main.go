// Package main implements gridterm, a terminal cell-grid viewer.
// gridterm hosts a shell inside an in-memory cell grid (screen plus
// scrollback, with VT100 cursor semantics, wide characters and resize
// reflow) and renders that grid in the host terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/dodorz/gridterm/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	debugMode       bool
	gridWidth       int
	gridHeight      int
	scrollbackLines int
	themeName       string
	shellPath       string
	listThemes      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridterm",
		Short: "A terminal cell-grid viewer",
		Long: `gridterm - terminal cell grid viewer

Runs a shell inside an in-memory cell grid with bounded scrollback,
VT100 cursor semantics, wide-character support and resize reflow, and
renders the grid in the host terminal.

Keys: PgUp/PgDn scroll into scrollback, Ctrl+S dumps a snapshot to the
state directory, Ctrl+Q quits.`,
		Example: `  # Run gridterm with your login shell
  gridterm

  # Fixed grid size with a deep scrollback
  gridterm --width 100 --height 30 --scrollback 50000

  # Run with a specific theme
  gridterm --theme dracula

  # List all available themes
  gridterm --list-themes`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listThemes {
				for _, id := range theme.Names() {
					fmt.Println(id)
				}
				return nil
			}
			return run()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging of unhandled escape sequences")
	rootCmd.PersistentFlags().IntVar(&gridWidth, "width", 0, "Grid width in cells (default: host terminal width)")
	rootCmd.PersistentFlags().IntVar(&gridHeight, "height", 0, "Grid height in lines (default: host terminal height)")
	rootCmd.PersistentFlags().IntVar(&scrollbackLines, "scrollback", 0, "Lines to keep in scrollback (default: from config or 10000)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme (e.g. dracula, nord). Leave empty for standard colors")
	rootCmd.PersistentFlags().StringVar(&shellPath, "shell", "", "Shell to run (default: $SHELL)")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s", version, commit, date)),
	); err != nil {
		os.Exit(1)
	}
}
