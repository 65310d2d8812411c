// Package main provides the CLI entrypoint for viewbridge.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/viewbridge/viewbridge/internal/config"
	"github.com/viewbridge/viewbridge/internal/ctl"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		bus        string
		service    string
	}
	logger *slog.Logger

	// client is the shared connection to the daemon's control service
	client *ctl.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "viewbridge",
	Short: "Control CLI for the viewbridged display daemon",
	Long: `viewbridge controls a running viewbridged daemon over D-Bus.

It manages display surfaces bound to host windows (create, move, resize,
destroy), the tracked region within each window, the selection that
drives guide lines, and the persisted base output resolution.

Running viewbridge without a subcommand launches the interactive TUI.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Load configuration
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Flags override the configured control endpoint
		bus := cfg.Control.Bus
		if globalOpts.bus != "" {
			bus = globalOpts.bus
		}
		service := cfg.Control.Service
		if globalOpts.service != "" {
			service = globalOpts.service
		}

		client, err = ctl.Dial(bus, service)
		if err != nil {
			return fmt.Errorf("failed to connect to control service: %w", err)
		}

		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/viewbridge/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.bus, "bus", "",
		"Message bus of the control service (session, system)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.service, "service", "",
		"D-Bus name of the control service")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// getClient returns the shared control-service client.
func getClient() *ctl.Client {
	return client
}

// getConfig returns the global config instance.
func getConfig() *config.Config {
	return cfg
}
