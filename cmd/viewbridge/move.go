package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <name> <x> <y>",
	Short: "Move a display within its window",
	Long: `Move a display to a new origin, in logical pixels relative to the
host window's top-left corner.

Example:
  viewbridge move preview 40 120`,
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("expected <name> <x> <y> arguments")
	}

	x, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[1], err)
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[2], err)
	}

	if err := client.MoveDisplay(args[0], x, y); err != nil {
		return fmt.Errorf("failed to move display: %w", err)
	}
	return nil
}
