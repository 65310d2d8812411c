package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var resizeCmd = &cobra.Command{
	Use:   "resize <name> <width> <height>",
	Short: "Resize a display",
	Long: `Resize a display's surface, in logical pixels.

Example:
  viewbridge resize preview 640 360`,
	RunE: runResize,
}

func init() {
	rootCmd.AddCommand(resizeCmd)
}

func runResize(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("expected <name> <width> <height> arguments")
	}

	width, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid width %q: %w", args[1], err)
	}
	height, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid height %q: %w", args[2], err)
	}

	if err := client.ResizeDisplay(args[0], width, height); err != nil {
		return fmt.Errorf("failed to resize display: %w", err)
	}
	return nil
}
