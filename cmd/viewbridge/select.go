package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var selectOpts struct {
	stdin bool // Read IDs from stdin
	clear bool
}

var selectCmd = &cobra.Command{
	Use:   "select [id...]",
	Short: "Replace the scene-item selection",
	Long: `Replace the selection snapshot the daemon holds. Displays draw
guide lines while exactly one item is selected.

IDs can be provided as positional arguments or via stdin (--stdin).

Examples:
  # Select a single item (guide lines on)
  viewbridge select item-42

  # Select several items (guide lines off)
  viewbridge select item-42 item-43

  # Clear the selection
  viewbridge select --clear

  # Feed IDs from another tool
  some-tool list-selected | viewbridge select --stdin`,
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)

	selectCmd.Flags().BoolVar(&selectOpts.stdin, "stdin", false,
		"Read IDs from stdin, one per line")
	selectCmd.Flags().BoolVar(&selectOpts.clear, "clear", false,
		"Clear the selection")
}

func runSelect(cmd *cobra.Command, args []string) error {
	if selectOpts.clear && (len(args) > 0 || selectOpts.stdin) {
		return fmt.Errorf("--clear cannot be combined with IDs")
	}

	ids := args
	if selectOpts.stdin {
		stdinIDs, err := readSelectionFromStdin()
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		ids = append(ids, stdinIDs...)
	}

	if len(ids) == 0 && !selectOpts.clear {
		return fmt.Errorf("no item IDs provided; use --clear to empty the selection")
	}

	if err := client.SetSelection(ids); err != nil {
		return fmt.Errorf("failed to set selection: %w", err)
	}

	fmt.Printf("selected %d items\n", len(ids))
	return nil
}

// readSelectionFromStdin reads item IDs from stdin, one per line.
func readSelectionFromStdin() ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}
	return ids, scanner.Err()
}
