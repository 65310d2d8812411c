package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/viewbridge/viewbridge/internal/geometry"
)

var regionCmd = &cobra.Command{
	Use:   "region <name> <x> <y> <width> <height>",
	Short: "Set the tracked region of a display",
	Long: `Set the client region the display mirrors, in logical pixels
relative to the host window. The daemon keeps the surface aligned with
the region as the window moves and resizes.

Example:
  # Mirror the area the host app renders its preview into
  viewbridge region preview 8 32 624 320`,
	RunE: runRegion,
}

func init() {
	rootCmd.AddCommand(regionCmd)
}

func runRegion(cmd *cobra.Command, args []string) error {
	if len(args) != 5 {
		return fmt.Errorf("expected <name> <x> <y> <width> <height> arguments")
	}

	vals := make([]int, 4)
	for i, arg := range args[1:] {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", arg, err)
		}
		vals[i] = v
	}

	rect := geometry.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if err := client.SetRegion(args[0], rect); err != nil {
		return fmt.Errorf("failed to set region: %w", err)
	}
	return nil
}
