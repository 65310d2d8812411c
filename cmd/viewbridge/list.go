package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viewbridge/viewbridge/internal/output"
)

var listOpts struct {
	format string
	noAge  bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active displays",
	Long: `List the displays currently managed by the daemon.

Examples:
  # List displays
  viewbridge list

  # List as JSON for scripting
  viewbridge list --format json

  # Destroy every display
  viewbridge list --format json | jq -r '.[].name' | xargs viewbridge destroy`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "",
		"Output format (plain, json, yaml; default from config)")
	listCmd.Flags().BoolVar(&listOpts.noAge, "no-age", false,
		"Omit display ages from plain output")
}

func runList(cmd *cobra.Command, args []string) error {
	displays, err := client.ListDisplays()
	if err != nil {
		return fmt.Errorf("failed to list displays: %w", err)
	}

	formatter := newFormatter(listOpts.format, !listOpts.noAge)
	return formatter.FormatDisplays(os.Stdout, displays)
}

// newFormatter creates an output formatter, falling back to the
// configured default format when the flag is empty.
func newFormatter(format string, showAge bool) output.Formatter {
	if format == "" && cfg != nil {
		format = cfg.Output.Format
	}

	var ft output.FormatType
	switch strings.ToLower(format) {
	case "json":
		ft = output.FormatJSON
	case "yaml":
		ft = output.FormatYAML
	default:
		ft = output.FormatPlain
	}

	opts := output.DefaultFormatterOptions()
	opts.ShowAge = showAge

	return output.NewFormatter(ft, opts)
}
