package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/surfshell/internal/daemon"
	"github.com/1broseidon/surfshell/internal/eventloop"
	"github.com/1broseidon/surfshell/internal/hotkeys"
	"github.com/1broseidon/surfshell/internal/ipc"
	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/platform"
	"github.com/1broseidon/surfshell/internal/shell"
)

// frameInterval drives animations in the watch daemon.
const frameInterval = 16 * time.Millisecond

func printX11Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: surfshell x11 <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  overview [--apply]    Compute the multitask view for the current X11 windows")
	fmt.Fprintln(w, "  watch [--apply]       Mirror X11 windows into a shell until interrupted")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'surfshell x11 <command> --help' for command-specific options.")
}

func runX11(args []string) int {
	if len(args) == 0 {
		printX11Usage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "overview":
		return runX11Overview(args[1:])
	case "watch":
		return runX11Watch(args[1:])
	case "help", "-h", "--help":
		printX11Usage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown x11 command: %s\n\n", args[0])
		printX11Usage(os.Stderr)
		return 2
	}
}

func runX11Overview(args []string) int {
	fs := flag.NewFlagSet("overview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/surfshell/config.yaml)")
	apply := fs.Bool("apply", false, "Move the X11 windows into their multitask view cells")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger, closeLog, err := setupLogging(res.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to display: %v\n", err)
		return 1
	}
	defer backend.Disconnect()

	display, windows, err := daemon.ListActiveDisplay(backend)()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list windows: %v\n", err)
		return 1
	}

	s, err := shell.New(shell.Options{Config: res.Config, Logger: logger})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	bridge := daemon.NewBridge(daemon.BridgeConfig{Logger: logger}, s, backend)
	bridge.Sync(display, windows)
	s.Settle()

	if !s.EnterOverview(overview.ReasonShortcutKey) {
		fmt.Fprintln(os.Stderr, "Failed to enter multitask view")
		return 1
	}
	s.Settle()

	if *apply {
		moved, err := bridge.PlaceOverview()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to place windows: %v\n", err)
			return 1
		}
		logger.Info("windows placed", "moved", moved)
	}
	return printYAML(s.Snapshot().Overview)
}

func runX11Watch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/surfshell/config.yaml)")
	apply := fs.Bool("apply", false, "Push shell geometry and state back to the X11 windows (overrides x11.apply)")
	noHotkeys := fs.Bool("no-hotkeys", false, "Do not grab the configured hotkeys")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *apply {
		cfg.X11.Apply = true
	}
	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer backend.Disconnect()

	s, err := shell.New(shell.Options{Config: cfg, Logger: logger})
	if err != nil {
		logger.Error("failed to create shell", "error", err)
		return 1
	}

	loop := eventloop.New(eventloop.Config{
		FrameInterval: frameInterval,
		OnFrame:       s.Tick,
		Logger:        logger,
	})
	bridge := daemon.NewBridge(daemon.BridgeConfig{Apply: cfg.X11.Apply, Logger: logger}, s, backend)
	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: cfg.ReconcileInterval(),
		Logger:   logger,
	}, bridge, daemon.ListActiveDisplay(backend), loop.Post)
	controller := daemon.NewController(daemon.ControllerConfig{
		Apply:  cfg.X11.Apply,
		Logger: logger,
	}, loop, s, bridge, backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	// Populate the shell before clients can talk to it.
	reconciler.ReconcileNow()
	go reconciler.Run(ctx)

	ipcServer, err := ipc.NewServer(controller, logger)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer ipcServer.Stop()

	if !*noHotkeys {
		handler, err := hotkeys.NewHandler(backend, logger)
		if err != nil {
			logger.Error("failed to set up hotkeys", "error", err)
			return 1
		}
		if err := handler.Register(hotkeys.Bindings(cfg.X11.Hotkeys, controller)); err != nil {
			logger.Warn("hotkeys unavailable", "error", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go backend.EventLoop()
	defer backend.StopEventLoop()

	logger.Info("surfshell x11 watch started", "apply", cfg.X11.Apply, "socket", ipcServer.SocketPath())
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				reloadConfig(*configPath, loop, s, logger)
				continue
			}
			logger.Info("shutting down", "signal", sig.String())
			cancel()
			<-loopDone
			return 0
		case err := <-loopDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("shell loop stopped", "error", err)
				return 1
			}
			return 0
		}
	}
}

// reloadConfig re-reads the config file and hands the new tiling layouts
// to the running shell.
func reloadConfig(path string, loop *eventloop.Loop, s *shell.Shell, logger *slog.Logger) {
	logger.Info("received SIGHUP, reloading config")
	res, err := loadConfig(path)
	if err != nil {
		logger.Warn("config reload failed", "error", err)
		return
	}
	newCfg := res.Config
	loop.Post(func() { s.Tiler().UpdateConfig(newCfg) })
	logger.Info("config reloaded", "layouts", len(newCfg.LayoutNames()))
}
