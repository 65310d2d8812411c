package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/viewbridge/viewbridge/internal/ctl"
)

var createOpts struct {
	source       string
	mode         string
	paddingColor string
	paddingSize  int
	trackEvery   time.Duration
	moveDebounce time.Duration
}

var createCmd = &cobra.Command{
	Use:   "create <window> [name]",
	Short: "Create a display bound to a host window",
	Long: `Create a named display surface inside a host window and print its name.

The window is identified by its X11 window ID (decimal or 0x-prefixed
hex) or by a title substring. The daemon tracks the window and keeps
the surface aligned with it. When no name is given the daemon mints
one.

Examples:
  # Full program mix inside the window titled "Preview"
  viewbridge create Preview

  # Stream mix inside a window by ID, under a chosen name
  viewbridge create 0x3200007 stream-view --mode stream

  # Single-source preview with custom letterboxing
  viewbridge create Preview cam1 --source camera-1 --padding-size 4 --padding-color '#101010'`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVar(&createOpts.source, "source", "",
		"Render a single source instead of a mix")
	createCmd.Flags().StringVar(&createOpts.mode, "mode", "",
		"Mix to render (main, stream, record; default main)")
	createCmd.Flags().StringVar(&createOpts.paddingColor, "padding-color", "",
		"Letterbox color as #rrggbb (default from daemon config)")
	createCmd.Flags().IntVar(&createOpts.paddingSize, "padding-size", 0,
		"Letterbox padding in pixels (default from daemon config)")
	createCmd.Flags().DurationVar(&createOpts.trackEvery, "track-interval", 0,
		"Region poll interval (default from daemon config)")
	createCmd.Flags().DurationVar(&createOpts.moveDebounce, "move-debounce", 0,
		"Quiet period after a window move before styling resumes (default from daemon config)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("expected <window> and optional [name] arguments")
	}
	windowID := args[0]
	name := ""
	if len(args) == 2 {
		name = args[1]
	}

	created, err := client.CreateDisplay(name, windowID, ctl.CreateOptions{
		Source:        createOpts.source,
		Mode:          createOpts.mode,
		PaddingColor:  createOpts.paddingColor,
		PaddingSize:   createOpts.paddingSize,
		TrackInterval: createOpts.trackEvery,
		MoveDebounce:  createOpts.moveDebounce,
	})
	if err != nil {
		return fmt.Errorf("failed to create display: %w", err)
	}

	fmt.Println(created)
	return nil
}
