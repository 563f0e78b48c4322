// Package mcp exposes a sandbox shell over the Model Context Protocol so
// that agents can load scenes, drive surfaces and read back the multitask
// view layout without a display.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/shell"
)

const (
	ServerName    = "surfshell"
	ServerVersion = "0.1.0"

	// sandboxOutputName names the output a fresh sandbox starts with.
	sandboxOutputName = "sandbox-0"
)

// Server is the MCP server around one sandbox shell.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	logger    *slog.Logger

	mu    sync.Mutex
	shell *shell.Shell
}

// NewServer creates a server whose sandbox starts empty with a 1920x1080
// output.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Logger()
	}
	s := &Server{config: cfg, logger: logger}
	if err := s.reset(); err != nil {
		return nil, err
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// reset replaces the sandbox with an empty shell. Callers hold mu, except
// NewServer.
func (s *Server) reset() error {
	sh, err := shell.New(shell.Options{Config: s.config, Logger: s.logger})
	if err != nil {
		return fmt.Errorf("failed to create sandbox shell: %w", err)
	}
	sh.AddOutput(sandboxOutputName, defaultOutput)
	s.shell = sh
	return nil
}

// with runs fn on the sandbox and settles every animation it started, so
// tool results never show a half-finished transition.
func (s *Server) with(fn func(*shell.Shell) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.shell)
	s.shell.Settle()
	return err
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_scene",
		Description: "Replace the sandbox session with a scene: an output, workspaces, surfaces, activation order, states and optional tiling. Pass a file path or inline YAML/TOML content.",
	}, s.handleLoadScene)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_surface",
		Description: "Create a client surface in the sandbox and map it. Surfaces without a size are placed automatically.",
	}, s.handleAddSurface)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "surface_action",
		Description: "Drive one surface: activate, minimize, unminimize, maximize, unmaximize, toggle-maximize, fullscreen, unfullscreen, map, unmap or close. Requests the shell refuses leave the surface unchanged and report changed=false.",
	}, s.handleSurfaceAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "overview",
		Description: "Enter, exit or toggle the multitask view. Exiting with a surface activates it. Returns the session snapshot including the committed view layout.",
	}, s.handleOverview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tile",
		Description: "Tile or untile the windows of the current workspace, or cycle the active tiling layout.",
	}, s.handleTile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "workspace",
		Description: "Switch to, add or remove a workspace.",
	}, s.handleWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_desktop",
		Description: "Set or toggle show-desktop, which hides every visible window of the current workspace and clears focus.",
	}, s.handleShowDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snapshot",
		Description: "Return the sandbox session: output, workspaces, every surface with state, geometry and stacking, and the multitask view layout.",
	}, s.handleSnapshot)
}
