package daemon

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/platform"
	"github.com/1broseidon/surfshell/internal/shell"
	"github.com/1broseidon/surfshell/internal/surface"
)

// BridgeConfig holds configuration for the bridge.
type BridgeConfig struct {
	// Apply pushes shell-side geometry and state changes back to the host
	// windows. Without it the bridge only observes.
	Apply  bool
	Logger *slog.Logger
}

// Bridge mirrors the host's top-level windows into a Shell as xwayland
// surfaces. Host windows are the source of truth for existence, geometry
// and state; the shell's decisions flow back through the Backend.
type Bridge struct {
	shell   *shell.Shell
	backend platform.Backend
	apply   bool
	logger  *slog.Logger

	windows map[platform.WindowID]*tracked
	// desktop is the last host current desktop seen, -1 before the first.
	desktop int
	// syncing is set while host state is copied in, so that the copy is not
	// echoed back to the host.
	syncing bool
}

type tracked struct {
	window  platform.Window
	surface *surface.Wrapper
}

// NewBridge creates a bridge feeding s from backend.
func NewBridge(cfg BridgeConfig, s *shell.Shell, backend platform.Backend) *Bridge {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Logger()
	}
	return &Bridge{
		shell:   s,
		backend: backend,
		apply:   cfg.Apply,
		logger:  logger,
		windows: make(map[platform.WindowID]*tracked),
		desktop: -1,
	}
}

// Len returns the number of mirrored windows.
func (b *Bridge) Len() int { return len(b.windows) }

// Surface returns the surface mirroring id.
func (b *Bridge) Surface(id platform.WindowID) (*surface.Wrapper, bool) {
	t, ok := b.windows[id]
	if !ok {
		return nil, false
	}
	return t.surface, true
}

// WindowOf returns the host window mirrored by w.
func (b *Bridge) WindowOf(w *surface.Wrapper) (platform.WindowID, bool) {
	for id, t := range b.windows {
		if t.surface == w {
			return id, true
		}
	}
	return 0, false
}

// Sync brings the shell in line with windows on display: workspaces follow
// the host desktops, new windows are added and mapped, missing ones are
// closed and the rest pick up host geometry, state and desktop changes. It returns how many surfaces were
// added and removed.
func (b *Bridge) Sync(display platform.Display, windows []platform.Window) (added, removed int) {
	b.syncing = true
	defer func() { b.syncing = false }()

	area := display.Usable.Geom()
	if out := b.shell.PrimaryOutput(); out == nil {
		b.shell.AddOutput(display.Name, area)
	} else if out.Geometry() != area {
		out.SetGeometry(area)
	}
	b.syncDesktops()

	seen := make(map[platform.WindowID]bool, len(windows))
	for _, win := range windows {
		seen[win.ID] = true
		if t, ok := b.windows[win.ID]; ok {
			b.update(t, win)
			continue
		}
		if err := b.add(win); err != nil {
			b.logger.Warn("bridge: failed to mirror window", "window_id", win.ID, "error", err)
			continue
		}
		added++
	}

	for id, t := range b.windows {
		if seen[id] {
			continue
		}
		b.logger.Info("bridge: window gone", "window_id", id, "title", t.window.Title)
		delete(b.windows, id)
		if err := b.shell.CloseSurface(t.surface); err != nil {
			b.logger.Debug("bridge: surface already gone", "window_id", id, "error", err)
		}
		removed++
	}

	if added > 0 || removed > 0 {
		b.logger.Debug("bridge synced", "added", added, "removed", removed, "windows", len(b.windows))
	}
	return added, removed
}

func (b *Bridge) add(win platform.Window) error {
	client := &windowClient{bridge: b, id: win.ID}
	w, err := b.shell.AddSurface(client, shell.SurfaceSpec{
		Name:          win.Name(),
		Type:          surface.TypeXWayland,
		Geometry:      win.Bounds.Geom(),
		Workspace:     b.workspaceOf(win),
		AllWorkspaces: win.State.Sticky,
	})
	if err != nil {
		return err
	}
	t := &tracked{window: win, surface: w}
	b.windows[win.ID] = t

	w.Events.GeometryChanged.Watch(func() { b.pushGeometry(t) })
	w.Events.WorkspaceIDChanged.Watch(func() { b.pushDesktop(t) })
	if err := b.shell.Map(w); err != nil {
		return err
	}
	b.copyState(w, win.State)

	b.logger.Info("bridge: window mirrored", "window_id", win.ID, "title", win.Title, "workspace", w.WorkspaceID())
	return nil
}

func (b *Bridge) update(t *tracked, win platform.Window) {
	prev := t.window
	t.window = win
	w := t.surface

	if win.Bounds != prev.Bounds && !w.Animating() && (w.IsNormal() || w.IsTiling()) {
		w.SetGeometry(win.Bounds.Geom())
	}
	if win.State != prev.State {
		b.copyState(w, win.State)
	}
	if win.Desktop != prev.Desktop || win.State.Sticky != prev.State.Sticky {
		// Desktops beyond the shell's workspaces are left where they are.
		if ws := b.workspaceOf(win); ws != 0 || win.State.Sticky {
			if err := b.shell.MoveSurfaceToWorkspace(w, ws); err != nil {
				b.logger.Debug("bridge: workspace not mirrored", "window_id", win.ID, "desktop", win.Desktop, "error", err)
			}
		}
	}
}

// syncDesktops grows the shell's workspaces to the host desktop count and
// follows the host's current desktop. Workspaces are never removed here.
func (b *Bridge) syncDesktops() {
	d, ok := b.backend.(platform.Desktops)
	if !ok {
		return
	}
	if count, err := d.DesktopCount(); err != nil {
		b.logger.Debug("bridge: desktop count unavailable", "error", err)
	} else {
		for b.shell.WorkspaceCount() < count {
			if _, err := b.shell.AddWorkspace(); err != nil {
				b.logger.Debug("bridge: host has more desktops than workspaces", "desktops", count, "error", err)
				break
			}
		}
	}

	cur, err := d.CurrentDesktop()
	if err != nil || cur == b.desktop {
		return
	}
	b.desktop = cur
	if cur >= 0 && cur < b.shell.WorkspaceCount() {
		if err := b.shell.SetCurrentWorkspace(cur + 1); err != nil {
			b.logger.Debug("bridge: current desktop not mirrored", "desktop", cur, "error", err)
		}
	}
}

// copyState requests the shell state matching the host flags.
func (b *Bridge) copyState(w *surface.Wrapper, st platform.WindowState) {
	switch {
	case st.Minimized && !w.IsMinimized():
		w.RequestMinimize()
	case !st.Minimized && w.IsMinimized():
		w.RequestCancelMinimize()
	case st.Fullscreen && !w.IsFullscreen():
		w.RequestFullscreen()
	case !st.Fullscreen && w.IsFullscreen():
		w.RequestCancelFullscreen()
	case st.Maximized && !w.IsMaximized():
		w.RequestMaximize()
	case !st.Maximized && w.IsMaximized():
		w.RequestCancelMaximize()
	}
}

// workspaceOf maps a host desktop to a shell workspace, 0 when the desktop
// has no workspace.
func (b *Bridge) workspaceOf(win platform.Window) int {
	if win.Desktop < 0 || win.Desktop >= b.shell.WorkspaceCount() {
		return 0
	}
	return win.Desktop + 1
}

func (b *Bridge) pushing() bool {
	return b.apply && !b.syncing
}

// pushGeometry moves the host window to the shell geometry. Maximized and
// fullscreen windows are placed by the host window manager.
func (b *Bridge) pushGeometry(t *tracked) {
	w := t.surface
	if !b.pushing() || w.Destroyed() {
		return
	}
	if st := w.PendingState(); st != surface.StateNormal && st != surface.StateTiling {
		return
	}
	bounds := platform.RectOf(w.Geometry())
	if bounds == t.window.Bounds {
		return
	}
	if err := b.backend.MoveResize(t.window.ID, bounds); err != nil {
		b.logger.Warn("bridge: move/resize failed", "window_id", t.window.ID, "error", err)
		return
	}
	t.window.Bounds = bounds
}

// pushDesktop sends the host window to the desktop of its workspace.
// Workspace 0 makes it sticky.
func (b *Bridge) pushDesktop(t *tracked) {
	w := t.surface
	d, ok := b.backend.(platform.Desktops)
	if !ok || !b.pushing() || w.Destroyed() {
		return
	}
	desktop := w.WorkspaceID() - 1
	sticky := desktop < 0
	if desktop == t.window.Desktop && sticky == t.window.State.Sticky {
		return
	}
	if err := d.SetWindowDesktop(t.window.ID, desktop); err != nil {
		b.logger.Warn("bridge: desktop change failed", "window_id", t.window.ID, "desktop", desktop, "error", err)
		return
	}
	t.window.Desktop = desktop
	t.window.State.Sticky = sticky
}

// PlaceOverview moves every host window to its cell in the multitask
// view. It returns the number of windows moved.
func (b *Bridge) PlaceOverview() (int, error) {
	view := b.shell.Overview()
	if !view.Active() {
		return 0, fmt.Errorf("multitask view is not active")
	}
	moved := 0
	for _, e := range view.Model().Entries() {
		id, ok := b.WindowOf(e.Surface)
		if !ok {
			continue
		}
		if err := b.place(b.windows[id], platform.RectOf(e.Geometry)); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// RestorePlacement moves host windows back to their shell geometry after
// the multitask view closed. Maximized and fullscreen windows are left to
// the host window manager.
func (b *Bridge) RestorePlacement() (int, error) {
	moved := 0
	for _, t := range b.windows {
		w := t.surface
		if !w.IsNormal() && !w.IsTiling() {
			continue
		}
		bounds := platform.RectOf(w.Geometry())
		if bounds == t.window.Bounds {
			continue
		}
		if err := b.place(t, bounds); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// place moves a host window and remembers the bounds so the next sync does
// not read the move back as a host change.
func (b *Bridge) place(t *tracked, bounds platform.Rect) error {
	if err := b.backend.MoveResize(t.window.ID, bounds); err != nil {
		return fmt.Errorf("move window %d: %w", t.window.ID, err)
	}
	t.window.Bounds = bounds
	return nil
}

// windowClient drives one host window on behalf of its surface.
type windowClient struct {
	bridge *Bridge
	id     platform.WindowID
}

// Resize is accepted as is; the host applies the size when the geometry
// is pushed.
func (c *windowClient) Resize(geom.Size) bool { return true }

func (c *windowClient) SetMinimize(on bool) {
	if on {
		c.do("minimize", c.bridge.backend.Minimize)
		return
	}
	c.do("restore", c.bridge.backend.Restore)
}

func (c *windowClient) SetMaximize(on bool) {
	c.do("maximize", func(id platform.WindowID) error { return c.bridge.backend.SetMaximized(id, on) })
}

func (c *windowClient) SetFullscreen(on bool) {
	c.do("fullscreen", func(id platform.WindowID) error { return c.bridge.backend.SetFullscreen(id, on) })
}

func (c *windowClient) SetActivate(on bool) {
	if on {
		c.do("activate", c.bridge.backend.Activate)
	}
}

func (c *windowClient) Close() {
	c.do("close", c.bridge.backend.Close)
}

func (c *windowClient) do(op string, fn func(platform.WindowID) error) {
	if !c.bridge.pushing() {
		return
	}
	if err := fn(c.id); err != nil {
		c.bridge.logger.Warn("bridge: host request failed", "op", op, "window_id", c.id, "error", err)
	}
}
