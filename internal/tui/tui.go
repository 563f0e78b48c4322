// Package tui is an interactive terminal previewer for a scene: the
// desktop or multitask view layout drawn as boxes, driven by shortcuts.
package tui

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/scene"
	"github.com/1broseidon/surfshell/internal/shell"
)

// Run loads sc into a fresh shell and runs the previewer until the user
// quits.
func Run(sc *scene.Scene, cfg *config.Config, logger *slog.Logger) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	s, err := NewSession(sc, cfg, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newModel(s), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// NewSession builds the shell the previewer drives.
func NewSession(sc *scene.Scene, cfg *config.Config, logger *slog.Logger) (*shell.Shell, error) {
	s, err := shell.New(shell.Options{Config: cfg, Logger: logger})
	if err != nil {
		return nil, err
	}
	if _, err := sc.Apply(s); err != nil {
		return nil, fmt.Errorf("apply scene: %w", err)
	}
	if sc.Overview {
		s.EnterOverview(overview.ReasonShortcutKey)
		s.Settle()
	}
	return s, nil
}
