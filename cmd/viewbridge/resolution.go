package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viewbridge/viewbridge/internal/video"
)

// resolutionCmd represents the resolution command group.
var resolutionCmd = &cobra.Command{
	Use:   "resolution",
	Short: "Manage the base output resolution",
	Long: `Manage the persisted base output resolution.

The base resolution is the canvas size the rendering engine composites
at. It is persisted in the daemon's settings file and survives
restarts.

Use 'viewbridge resolution get' to print the current value.
Use 'viewbridge resolution set <width>x<height>' to change it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to showing the current resolution
		return resolutionGetRun(cmd, args)
	},
}

var resolutionGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the base output resolution",
	Long:  `Print the persisted base output resolution as <width>x<height>.`,
	RunE:  resolutionGetRun,
}

var resolutionSetCmd = &cobra.Command{
	Use:   "set <width>x<height>",
	Short: "Set the base output resolution",
	Long: `Set and persist the base output resolution.

Example:
  viewbridge resolution set 1920x1080`,
	RunE: resolutionSetRun,
}

func init() {
	// Add subcommands
	resolutionCmd.AddCommand(resolutionGetCmd)
	resolutionCmd.AddCommand(resolutionSetCmd)

	// Add to root
	rootCmd.AddCommand(resolutionCmd)
}

func resolutionGetRun(cmd *cobra.Command, args []string) error {
	res, err := client.BaseResolution()
	if err != nil {
		return fmt.Errorf("failed to get base resolution: %w", err)
	}

	fmt.Println(res.String())
	return nil
}

func resolutionSetRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected a single <width>x<height> argument")
	}

	res, err := video.ParseResolution(args[0])
	if err != nil {
		return err
	}

	if err := client.SetBaseResolution(res); err != nil {
		return fmt.Errorf("failed to set base resolution: %w", err)
	}

	fmt.Printf("base resolution: %s\n", res.String())
	return nil
}
