package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/scene"
	"github.com/1broseidon/surfshell/internal/shell"
	"github.com/1broseidon/surfshell/internal/tui"
)

func runSimulate(args []string) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/surfshell/config.yaml)")
	enter := fs.Bool("overview", false, "Enter the multitask view even if the scene does not ask for it")
	asJSON := fs.Bool("json", false, "Print the snapshot as JSON instead of YAML")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: surfshell simulate [--config PATH] [--overview] [--json] <scene.yaml|scene.toml>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Replays a scene into an in-memory shell and prints the resulting")
		fmt.Fprintln(os.Stderr, "surfaces, stacking order and multitask view layout.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
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

	sc, err := scene.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	s, err := shell.New(shell.Options{Config: res.Config, Logger: logger})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if _, err := sc.Apply(s); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to apply scene: %v\n", err)
		return 1
	}
	if sc.Overview || *enter {
		if !s.EnterOverview(overview.ReasonShortcutKey) {
			fmt.Fprintln(os.Stderr, "Failed to enter multitask view")
			return 1
		}
		s.Settle()
	}

	snap := s.Snapshot()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	return printYAML(snap)
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/surfshell/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: surfshell tui [--config PATH] <scene.yaml|scene.toml>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Opens an interactive preview of the scene. Press ? for key bindings.")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	// The previewer owns the terminal; logs only go to a configured file.
	logCfg := *res.Config
	if logCfg.Logging.File == "" {
		logCfg.Logging.Level = "error"
	}
	logger, closeLog, err := setupLogging(&logCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	sc, err := scene.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := tui.Run(sc, res.Config, logger); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		return 1
	}
	return 0
}
