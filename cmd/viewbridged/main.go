// Package main is the entry point for the viewbridged display daemon.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/viewbridge/viewbridge/internal/bridge"
	"github.com/viewbridge/viewbridge/internal/config"
	"github.com/viewbridge/viewbridge/internal/ctl"
	"github.com/viewbridge/viewbridge/internal/display"
	"github.com/viewbridge/viewbridge/internal/engine"
	"github.com/viewbridge/viewbridge/internal/selection"
	"github.com/viewbridge/viewbridge/internal/settings"
	"github.com/viewbridge/viewbridge/internal/video"
	"github.com/viewbridge/viewbridge/internal/window"
	"github.com/viewbridge/viewbridge/internal/x11"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file (default ~/.config/viewbridge/viewbridged.toml)")
	noEngine := flag.Bool("no-engine", false, "Run without the rendering engine (surface calls become no-ops)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("viewbridged version", version)
		os.Exit(0)
	}

	cfg, err := config.LoadDaemonConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	run(cfg, *noEngine, logger)
}

func run(cfg *config.DaemonConfig, noEngine bool, logger *slog.Logger) {
	logger.Info("starting viewbridged", "version", version)

	// Open the settings store backing the persisted base resolution
	settingsPath := cfg.Settings.Path
	if settingsPath == "" {
		var err error
		settingsPath, err = settings.DefaultPath()
		if err != nil {
			logger.Error("failed to get settings path", "error", err)
			os.Exit(1)
		}
	}

	store, err := settings.Open(settingsPath, logger)
	if err != nil {
		logger.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}
	logger.Info("settings store opened", "path", settingsPath)

	// Connect to the rendering engine, or run engine-less
	var comp engine.Compositor
	if noEngine {
		logger.Warn("running without rendering engine, surface calls are no-ops")
		comp = engine.Nop{}
	} else {
		comp, err = bridge.Connect(bridge.Options{
			Bus:           cfg.Engine.Bus,
			Service:       cfg.Engine.Service,
			ObjectPath:    cfg.Engine.ObjectPath,
			VerifyTimeout: cfg.Engine.ConnectTimeout.Duration(),
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rendering engine", "error", err)
			os.Exit(1)
		}
	}

	// Connect the window system
	var (
		windows window.System
		xsys    *x11.System
	)
	switch cfg.Window.Backend {
	case string(config.WindowBackendNull):
		logger.Warn("running with null window backend, displays will be non-interactive")
		windows = window.NullSystem{}
	default:
		xsys, err = x11.Connect(x11.Options{
			Display:     cfg.Window.Display,
			ScaleFactor: cfg.Window.ScaleFactor,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to window system", "error", err)
			os.Exit(1)
		}
		go xsys.Run()
		windows = xsys
	}

	// Core services
	sel := selection.NewTracker()
	svc := video.NewService(comp, store, logger)
	manager := display.NewManager(windows, svc, sel, display.Options{
		PaddingColor:  cfg.PaddingColor(),
		PaddingSize:   cfg.Display.PaddingSize,
		TrackInterval: cfg.Display.TrackInterval.Duration(),
		MoveDebounce:  cfg.Display.MoveDebounce.Duration(),
	}, logger)

	// Pick up external edits to the settings file
	watcher, err := settings.NewWatcher(store, logger, func() {
		logger.Debug("settings reloaded", "base_resolution", svc.BaseResolution().String())
	})
	if err != nil {
		logger.Error("failed to create settings watcher", "error", err)
		os.Exit(1)
	}
	if err := watcher.Start(); err != nil {
		logger.Warn("failed to start settings watcher", "error", err)
	}

	// Export the control service
	server := ctl.NewServer(manager, svc, sel, version, ctl.ServerOptions{
		Bus:     cfg.Control.Bus,
		Service: cfg.Control.Service,
	}, logger)
	if err := server.Start(); err != nil {
		logger.Error("failed to start control service", "error", err)
		os.Exit(1)
	}

	logger.Info("viewbridged ready",
		"control_service", cfg.Control.Service,
		"base_resolution", svc.BaseResolution().String())

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	// Stop components in reverse order
	if err := server.Stop(); err != nil {
		logger.Warn("error stopping control service", "error", err)
	}
	manager.CloseAll()
	if xsys != nil {
		xsys.Close()
	}
	watcher.Stop()
	if err := store.Close(); err != nil {
		logger.Warn("error closing settings store", "error", err)
	}

	logger.Info("viewbridged stopped")
}
