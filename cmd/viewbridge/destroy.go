package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var destroyCmd = &cobra.Command{
	Use:   "destroy <name>...",
	Short: "Destroy displays",
	Long: `Destroy one or more displays, releasing their engine surfaces.

Examples:
  # Destroy a single display
  viewbridge destroy preview

  # Destroy several at once
  viewbridge destroy preview stream-view cam1`,
	RunE: runDestroy,
}

func init() {
	rootCmd.AddCommand(destroyCmd)
}

func runDestroy(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no display names provided")
	}

	var failCount int
	for _, name := range args {
		if err := client.DestroyDisplay(name); err != nil {
			logger.Warn("failed to destroy display", "name", name, "error", err)
			failCount++
		}
	}

	destroyed := len(args) - failCount
	if failCount > 0 {
		fmt.Fprintf(os.Stderr, "destroyed %d displays, %d failed\n", destroyed, failCount)
		return fmt.Errorf("%d of %d displays could not be destroyed", failCount, len(args))
	}

	fmt.Printf("destroyed %d displays\n", destroyed)
	return nil
}
