package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/scene"
	"github.com/1broseidon/surfshell/internal/shell"
	"github.com/1broseidon/surfshell/internal/surface"
)

var defaultOutput = geom.Rect{Width: 1920, Height: 1080}

func (s *Server) handleLoadScene(_ context.Context, _ *mcpsdk.CallToolRequest, args LoadSceneInput) (*mcpsdk.CallToolResult, LoadSceneOutput, error) {
	sc, err := readScene(args)
	if err != nil {
		return nil, LoadSceneOutput{}, err
	}

	var out LoadSceneOutput
	err = s.with(func(sh *shell.Shell) error {
		if err := s.reset(); err != nil {
			return err
		}
		sh = s.shell
		created, err := sc.Apply(sh)
		if err != nil {
			return err
		}
		if sc.Overview {
			sh.EnterOverview(overview.ReasonShortcutKey)
		}
		for _, w := range created {
			out.Surfaces = append(out.Surfaces, sh.Name(w))
		}
		out.Workspace = sh.CurrentWorkspace()
		if w := sh.Activated(); w != nil {
			out.Activated = sh.Name(w)
		}
		return nil
	})
	if err != nil {
		return nil, LoadSceneOutput{}, fmt.Errorf("load scene: %w", err)
	}
	s.logger.Info("mcp: scene loaded", "surfaces", len(out.Surfaces))
	return nil, out, nil
}

func readScene(args LoadSceneInput) (*scene.Scene, error) {
	switch {
	case args.Path != "" && args.Content != "":
		return nil, fmt.Errorf("pass either path or content, not both")
	case args.Path != "":
		return scene.Load(args.Path)
	case args.Content != "":
		format := scene.FormatYAML
		if args.Format != "" {
			format = scene.Format(strings.ToLower(args.Format))
		}
		return scene.Parse([]byte(args.Content), format)
	default:
		return nil, fmt.Errorf("path or content is required")
	}
}

func (s *Server) handleAddSurface(_ context.Context, _ *mcpsdk.CallToolRequest, args AddSurfaceInput) (*mcpsdk.CallToolResult, SurfaceOutput, error) {
	d := scene.Surface{
		Name:          args.Name,
		Type:          args.Type,
		Workspace:     args.Workspace,
		AllWorkspaces: args.AllWorkspaces,
		Parent:        args.Parent,
		MinWidth:      args.MinWidth,
		MinHeight:     args.MinHeight,
		Unmapped:      args.Unmapped,
	}
	if args.Width > 0 && args.Height > 0 {
		d.Geometry = &scene.Rect{X: args.X, Y: args.Y, Width: args.Width, Height: args.Height}
	}

	var out SurfaceOutput
	err := s.with(func(sh *shell.Shell) error {
		if _, err := sh.SurfaceByName(args.Name); err == nil {
			return fmt.Errorf("surface %q already exists", args.Name)
		}
		w, err := scene.AddSurface(sh, d)
		if err != nil {
			return err
		}
		sh.Settle()
		out = SurfaceOutput{Surface: sh.Describe(w), Changed: true}
		return nil
	})
	if err != nil {
		return nil, SurfaceOutput{}, fmt.Errorf("add surface: %w", err)
	}
	return nil, out, nil
}

func (s *Server) handleSurfaceAction(_ context.Context, _ *mcpsdk.CallToolRequest, args SurfaceActionInput) (*mcpsdk.CallToolResult, SurfaceOutput, error) {
	var out SurfaceOutput
	err := s.with(func(sh *shell.Shell) error {
		w, err := sh.SurfaceByName(args.Surface)
		if err != nil {
			return err
		}
		before := sh.Describe(w)
		if err := surfaceAction(sh, w, args.Action); err != nil {
			return err
		}
		sh.Settle()
		out.Surface = sh.Describe(w)
		out.Changed = out.Surface != before
		return nil
	})
	if err != nil {
		return nil, SurfaceOutput{}, fmt.Errorf("%s: %w", args.Action, err)
	}
	return nil, out, nil
}

func surfaceAction(sh *shell.Shell, w *surface.Wrapper, action string) error {
	switch strings.ToLower(action) {
	case "activate":
		sh.ForceActivateSurface(w)
	case "minimize":
		w.RequestMinimize()
	case "unminimize":
		w.RequestCancelMinimize()
	case "maximize":
		w.RequestMaximize()
	case "unmaximize":
		w.RequestCancelMaximize()
	case "toggle-maximize":
		w.RequestToggleMaximize()
	case "fullscreen":
		w.RequestFullscreen()
	case "unfullscreen":
		w.RequestCancelFullscreen()
	case "map":
		return sh.Map(w)
	case "unmap":
		return sh.Unmap(w)
	case "close":
		w.RequestClose()
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

func (s *Server) handleOverview(_ context.Context, _ *mcpsdk.CallToolRequest, args OverviewInput) (*mcpsdk.CallToolResult, shell.Snapshot, error) {
	var snap shell.Snapshot
	err := s.with(func(sh *shell.Shell) error {
		switch strings.ToLower(args.Action) {
		case "enter":
			sh.EnterOverview(overview.ReasonShortcutKey)
		case "exit":
			var target *surface.Wrapper
			if args.Surface != "" {
				w, err := sh.SurfaceByName(args.Surface)
				if err != nil {
					return err
				}
				target = w
			}
			sh.ExitOverview(target)
		case "toggle":
			sh.ToggleOverview(overview.ReasonShortcutKey)
		default:
			return fmt.Errorf("unknown action %q", args.Action)
		}
		sh.Settle()
		snap = sh.Snapshot()
		return nil
	})
	if err != nil {
		return nil, shell.Snapshot{}, fmt.Errorf("overview: %w", err)
	}
	return nil, snap, nil
}

func (s *Server) handleTile(_ context.Context, _ *mcpsdk.CallToolRequest, args TileInput) (*mcpsdk.CallToolResult, TileOutput, error) {
	var out TileOutput
	err := s.with(func(sh *shell.Shell) error {
		if args.Layout != "" {
			if err := sh.Tiler().SetActiveLayout(args.Layout); err != nil {
				return err
			}
		}
		var err error
		switch strings.ToLower(args.Action) {
		case "", "tile":
			out.Count, err = sh.TileWorkspace()
		case "untile":
			out.Count = sh.UntileWorkspace()
		case "cycle":
			delta := args.Delta
			if delta == 0 {
				delta = 1
			}
			_, err = sh.CycleLayout(delta)
		default:
			return fmt.Errorf("unknown action %q", args.Action)
		}
		out.Layout = sh.Tiler().ActiveLayoutName()
		return err
	})
	if err != nil {
		return nil, TileOutput{}, fmt.Errorf("tile: %w", err)
	}
	return nil, out, nil
}

func (s *Server) handleWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceInput) (*mcpsdk.CallToolResult, shell.Snapshot, error) {
	var snap shell.Snapshot
	err := s.with(func(sh *shell.Shell) error {
		switch strings.ToLower(args.Action) {
		case "switch":
			if err := sh.SetCurrentWorkspace(args.Workspace); err != nil {
				return err
			}
		case "add":
			if _, err := sh.AddWorkspace(); err != nil {
				return err
			}
		case "remove":
			if err := sh.RemoveWorkspace(args.Workspace); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown action %q", args.Action)
		}
		sh.Settle()
		snap = sh.Snapshot()
		return nil
	})
	if err != nil {
		return nil, shell.Snapshot{}, fmt.Errorf("workspace: %w", err)
	}
	return nil, snap, nil
}

func (s *Server) handleShowDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args ShowDesktopInput) (*mcpsdk.CallToolResult, shell.Snapshot, error) {
	var snap shell.Snapshot
	_ = s.with(func(sh *shell.Shell) error {
		if args.On == nil {
			sh.ToggleShowDesktop()
		} else {
			sh.SetShowDesktop(*args.On)
		}
		sh.Settle()
		snap = sh.Snapshot()
		return nil
	})
	return nil, snap, nil
}

func (s *Server) handleSnapshot(_ context.Context, _ *mcpsdk.CallToolRequest, _ SnapshotInput) (*mcpsdk.CallToolResult, shell.Snapshot, error) {
	var snap shell.Snapshot
	_ = s.with(func(sh *shell.Shell) error {
		snap = sh.Snapshot()
		return nil
	})
	return nil, snap, nil
}
