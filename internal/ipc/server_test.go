package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/surfshell/internal/shell"
)

type fakeController struct {
	calls   []string
	layout  string
	showOn  *bool
	failing error
}

func (f *fakeController) record(s string) error {
	f.calls = append(f.calls, s)
	return f.failing
}

func (f *fakeController) Status(context.Context) (StatusData, error) {
	return StatusData{Workspace: 2, WorkspaceCount: 4, SurfaceCount: 3, Overview: "hidden", ActiveLayout: f.layout}, f.record("status")
}

func (f *fakeController) Monitors(context.Context) ([]MonitorInfo, error) {
	return []MonitorInfo{{ID: 0, Name: "eDP-1", Width: 1920, Height: 1080}}, f.record("monitors")
}

func (f *fakeController) Snapshot(context.Context) (shell.Snapshot, error) {
	return shell.Snapshot{Workspace: 1, Activated: "editor"}, f.record("snapshot")
}

func (f *fakeController) ToggleOverview(context.Context) error { return f.record("toggle") }

func (f *fakeController) ExitOverview(_ context.Context, surface string) error {
	return f.record("exit " + surface)
}

func (f *fakeController) ShowDesktop(_ context.Context, on *bool) error {
	f.showOn = on
	return f.record("show-desktop")
}

func (f *fakeController) Tile(context.Context) (int, error)   { return 3, f.record("tile") }
func (f *fakeController) Untile(context.Context) (int, error) { return 2, f.record("untile") }

func (f *fakeController) CycleLayout(_ context.Context, delta int) (string, error) {
	if delta < 0 {
		f.layout = "columns"
	} else {
		f.layout = "grid"
	}
	return f.layout, f.record("cycle")
}

func (f *fakeController) ListLayouts(context.Context) (LayoutsData, error) {
	return LayoutsData{Layouts: []string{"columns", "grid"}, DefaultLayout: "grid", ActiveLayout: "grid"}, f.record("layouts")
}

func (f *fakeController) ApplyLayout(_ context.Context, name string, tileNow bool) error {
	if tileNow {
		return f.record("apply " + name + " tile")
	}
	return f.record("apply " + name)
}

func (f *fakeController) SwitchWorkspace(_ context.Context, id int) error {
	return f.record(fmt.Sprintf("switch %d", id))
}

func (f *fakeController) Activate(_ context.Context, surface string) error {
	return f.record("activate " + surface)
}

// startServer listens on a short socket path; unix socket paths are limited
// to about 100 bytes, which t.TempDir can exceed.
func startServer(t *testing.T, ctl Controller) *Client {
	t.Helper()
	dir, err := os.MkdirTemp("", "ss")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "s.sock")
	srv := NewServerAt(path, ctl, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(path)
}

func TestServer_Commands(t *testing.T) {
	ctl := &fakeController{layout: "grid"}
	c := startServer(t, ctl)

	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.DaemonRunning || status.Workspace != 2 || status.ActiveLayout != "grid" {
		t.Fatalf("unexpected status: %+v", status)
	}

	monitors, err := c.GetMonitors()
	if err != nil || len(monitors) != 1 || monitors[0].Name != "eDP-1" {
		t.Fatalf("GetMonitors = %+v, %v", monitors, err)
	}

	snap, err := c.Snapshot()
	if err != nil || snap.Activated != "editor" {
		t.Fatalf("Snapshot = %+v, %v", snap, err)
	}

	if n, err := c.Tile(); err != nil || n != 3 {
		t.Fatalf("Tile = %d, %v", n, err)
	}
	if n, err := c.Untile(); err != nil || n != 2 {
		t.Fatalf("Untile = %d, %v", n, err)
	}
	if name, err := c.CycleLayout(-1); err != nil || name != "columns" {
		t.Fatalf("CycleLayout = %q, %v", name, err)
	}
	layouts, err := c.ListLayouts()
	if err != nil || len(layouts.Layouts) != 2 {
		t.Fatalf("ListLayouts = %+v, %v", layouts, err)
	}

	on := true
	steps := []func() error{
		c.ToggleOverview,
		func() error { return c.ExitOverview("editor") },
		func() error { return c.ShowDesktop(&on) },
		func() error { return c.ApplyLayout("columns", true) },
		func() error { return c.SwitchWorkspace(3) },
		func() error { return c.Activate("term") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if ctl.showOn == nil || !*ctl.showOn {
		t.Fatalf("show desktop payload lost: %v", ctl.showOn)
	}

	want := []string{
		"status", "monitors", "snapshot", "tile", "untile", "cycle", "layouts",
		"toggle", "exit editor", "show-desktop", "apply columns tile", "switch 3", "activate term",
	}
	if strings.Join(ctl.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", ctl.calls, want)
	}
}

func TestServer_Errors(t *testing.T) {
	ctl := &fakeController{failing: errors.New("boom")}
	c := startServer(t, ctl)

	if _, err := c.Tile(); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Tile error = %v, want boom", err)
	}
	if err := c.Activate(""); err == nil || !strings.Contains(err.Error(), "surface is required") {
		t.Fatalf("Activate error = %v", err)
	}
	if err := c.ApplyLayout("", false); err == nil || !strings.Contains(err.Error(), "layout_name") {
		t.Fatalf("ApplyLayout error = %v", err)
	}
	if err := c.call("NOPE", nil, nil); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("unknown command error = %v", err)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if _, err := c.GetStatus(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("GetStatus error = %v", err)
	}
}
