package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viewbridge/viewbridge/internal/output"
)

var statusOpts struct {
	format string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Show the daemon version, the persisted base resolution and the
active displays in one snapshot.

Examples:
  # Human-readable status
  viewbridge status

  # Status as JSON for scripting
  viewbridge status --format json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", "",
		"Output format (plain, json, yaml; default from config)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	daemonVersion, err := client.Version()
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}

	resolution, err := client.BaseResolution()
	if err != nil {
		return fmt.Errorf("failed to get base resolution: %w", err)
	}

	displays, err := client.ListDisplays()
	if err != nil {
		return fmt.Errorf("failed to list displays: %w", err)
	}

	formatter := newFormatter(statusOpts.format, true)
	return formatter.FormatStatus(os.Stdout, output.Status{
		Version:    daemonVersion,
		Resolution: resolution.String(),
		Displays:   displays,
	})
}
