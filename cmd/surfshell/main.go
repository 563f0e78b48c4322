package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "simulate":
		os.Exit(runSimulate(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "x11":
		os.Exit(runX11(os.Args[2:]))
	case "ctl":
		os.Exit(runCtl(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: surfshell <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  simulate <scene>    Replay a scene and print the session snapshot")
	fmt.Fprintln(w, "  tui <scene>         Interactive multitask view previewer")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  x11 overview        Lay out the real X11 windows as a multitask view")
	fmt.Fprintln(w, "  x11 watch           Mirror X11 windows into a shell (foreground daemon)")
	fmt.Fprintln(w, "  ctl <command>       Control a running x11 watch daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'surfshell <command> --help' for command-specific options.")
}

func isHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

// loadConfig loads path, or the default config file when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// setupLogging installs the process logger described by cfg. Text is used
// on a terminal and JSON otherwise unless the format is set explicitly.
func setupLogging(cfg *config.Config) (*slog.Logger, func(), error) {
	logCfg := cfg.GetLoggingConfig()

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if logCfg.File != "" {
		f, err := logging.OpenRotatingFile(logging.RotateConfig{
			Path:      logCfg.File,
			MaxSizeMB: logCfg.MaxSizeMB,
			MaxFiles:  logCfg.MaxFiles,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	format := logCfg.Format
	if format == "auto" {
		format = "json"
		if logCfg.File == "" && term.IsTerminal(int(os.Stderr.Fd())) {
			format = "text"
		}
	}

	logger := slog.New(logging.NewHandler(out, format, logging.ParseLevel(logCfg.Level)))
	logging.SetLogger(logger)
	return logger, closeFn, nil
}

func printYAML(v any) int {
	data, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(string(data))
	return 0
}
