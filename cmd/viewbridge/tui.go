package main

import (
	"github.com/spf13/cobra"

	"github.com/viewbridge/viewbridge/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive status TUI",
	Long: `Launch the interactive terminal view of the running daemon.

The TUI provides:
  - Live display list, polled from the daemon
  - Detail view with per-display state
  - Destroying displays

Key bindings:
  j/k, ↑/↓    Navigate list
  enter       View display details
  D           Destroy display
  r           Refresh now
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.RunOptions{
		Client: getClient(),
		Config: getConfig().TUI,
	})
}
