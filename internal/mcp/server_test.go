package mcp

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/surfshell/internal/config"
)

const desk = `
output: {width: 1200, height: 800}
workspaces: 2
surfaces:
  - name: editor
    geometry: {x: 40, y: 40, width: 800, height: 600}
  - name: term
    geometry: {x: 100, y: 100, width: 600, height: 400}
  - name: chat
    workspace: 2
activate: [term, editor]
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Animation.DurationMS = 50
	s, err := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func loadDesk(t *testing.T, s *Server) LoadSceneOutput {
	t.Helper()
	_, out, err := s.handleLoadScene(context.Background(), nil, LoadSceneInput{Content: desk})
	if err != nil {
		t.Fatalf("load_scene: %v", err)
	}
	return out
}

func TestLoadScene(t *testing.T) {
	s := newTestServer(t)
	out := loadDesk(t, s)
	if strings.Join(out.Surfaces, ",") != "editor,term,chat" || out.Activated != "editor" || out.Workspace != 1 {
		t.Fatalf("unexpected output: %+v", out)
	}

	// A second load replaces the session.
	path := filepath.Join(t.TempDir(), "one.toml")
	doc := "[output]\nwidth = 800\nheight = 600\n\n[[surfaces]]\nname = \"solo\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, out, err := s.handleLoadScene(context.Background(), nil, LoadSceneInput{Path: path})
	if err != nil {
		t.Fatalf("load_scene(path): %v", err)
	}
	if len(out.Surfaces) != 1 {
		t.Fatalf("surfaces = %v, want [solo]", out.Surfaces)
	}
	_, snap, _ := s.handleSnapshot(context.Background(), nil, SnapshotInput{})
	if len(snap.Surfaces) != 1 || snap.Output.Width != 800 {
		t.Fatalf("snapshot after reload: %d surfaces, output %+v", len(snap.Surfaces), snap.Output)
	}
}

func TestLoadScene_Rejects(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		args LoadSceneInput
		want string
	}{
		{"nothing", LoadSceneInput{}, "required"},
		{"both", LoadSceneInput{Path: "a.yaml", Content: desk}, "not both"},
		{"bad format", LoadSceneInput{Content: desk, Format: "json"}, "unknown scene format"},
		{"invalid", LoadSceneInput{Content: "surfaces: []\n"}, "output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.handleLoadScene(context.Background(), nil, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSurfaceActions(t *testing.T) {
	s := newTestServer(t)
	loadDesk(t, s)
	ctx := context.Background()

	_, out, err := s.handleSurfaceAction(ctx, nil, SurfaceActionInput{Surface: "term", Action: "maximize"})
	if err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if !out.Changed || out.Surface.State != "maximized" || out.Surface.Geometry.Width != 1200 {
		t.Fatalf("maximize result: %+v", out)
	}

	_, out, err = s.handleSurfaceAction(ctx, nil, SurfaceActionInput{Surface: "editor", Action: "minimize"})
	if err != nil || out.Surface.State != "minimized" {
		t.Fatalf("minimize: %+v, %v", out, err)
	}

	if _, _, err := s.handleSurfaceAction(ctx, nil, SurfaceActionInput{Surface: "editor", Action: "explode"}); err == nil {
		t.Fatalf("expected error for unknown action")
	}
	if _, _, err := s.handleSurfaceAction(ctx, nil, SurfaceActionInput{Surface: "ghost", Action: "activate"}); err == nil {
		t.Fatalf("expected error for unknown surface")
	}

	_, out, err = s.handleSurfaceAction(ctx, nil, SurfaceActionInput{Surface: "term", Action: "close"})
	if err != nil || out.Surface.Mapped {
		t.Fatalf("close: %+v, %v", out, err)
	}
}

func TestAddSurfaceAndOverview(t *testing.T) {
	s := newTestServer(t)
	loadDesk(t, s)
	ctx := context.Background()

	_, out, err := s.handleAddSurface(ctx, nil, AddSurfaceInput{Name: "files", Width: 500, Height: 300})
	if err != nil {
		t.Fatalf("add_surface: %v", err)
	}
	if !out.Surface.Mapped || out.Surface.Workspace != 1 {
		t.Fatalf("add_surface result: %+v", out.Surface)
	}
	if _, _, err := s.handleAddSurface(ctx, nil, AddSurfaceInput{Name: "files"}); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	if _, _, err := s.handleAddSurface(ctx, nil, AddSurfaceInput{Name: "orphan", Parent: "ghost"}); err == nil {
		t.Fatalf("expected unknown parent error")
	}

	_, snap, err := s.handleOverview(ctx, nil, OverviewInput{Action: "enter"})
	if err != nil {
		t.Fatalf("overview enter: %v", err)
	}
	if snap.Overview.Status != "active" || len(snap.Overview.Entries) != 3 {
		t.Fatalf("overview: status=%s entries=%d", snap.Overview.Status, len(snap.Overview.Entries))
	}

	_, snap, err = s.handleOverview(ctx, nil, OverviewInput{Action: "exit", Surface: "term"})
	if err != nil {
		t.Fatalf("overview exit: %v", err)
	}
	if snap.Overview.Status != "exited" || snap.Activated != "term" {
		t.Fatalf("after exit: status=%s activated=%q", snap.Overview.Status, snap.Activated)
	}
}

func TestTileAndWorkspace(t *testing.T) {
	s := newTestServer(t)
	loadDesk(t, s)
	ctx := context.Background()

	_, out, err := s.handleTile(ctx, nil, TileInput{Layout: "columns"})
	if err != nil || out.Count != 2 || out.Layout != "columns" {
		t.Fatalf("tile = %+v, %v", out, err)
	}
	_, out, err = s.handleTile(ctx, nil, TileInput{Action: "untile"})
	if err != nil || out.Count != 2 {
		t.Fatalf("untile = %+v, %v", out, err)
	}
	if _, _, err := s.handleTile(ctx, nil, TileInput{Layout: "no-such-layout"}); err == nil {
		t.Fatalf("expected error for unknown layout")
	}

	_, snap, err := s.handleWorkspace(ctx, nil, WorkspaceInput{Action: "switch", Workspace: 2})
	if err != nil || snap.Workspace != 2 || snap.Activated != "chat" {
		t.Fatalf("switch: workspace=%d activated=%q err=%v", snap.Workspace, snap.Activated, err)
	}
	if _, _, err := s.handleWorkspace(ctx, nil, WorkspaceInput{Action: "switch", Workspace: 9}); err == nil {
		t.Fatalf("expected error for unknown workspace")
	}

	on := true
	_, snap, _ = s.handleShowDesktop(ctx, nil, ShowDesktopInput{On: &on})
	if !snap.ShowDesktop || snap.Activated != "" {
		t.Fatalf("show desktop: on=%v activated=%q", snap.ShowDesktop, snap.Activated)
	}
}
