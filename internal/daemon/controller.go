package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/surfshell/internal/ipc"
	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/platform"
	"github.com/1broseidon/surfshell/internal/shell"
	"github.com/1broseidon/surfshell/internal/surface"
)

// Caller runs fn on the shell goroutine and waits for it.
type Caller interface {
	Call(ctx context.Context, fn func() error) error
}

// Controller serves IPC commands and hotkey actions against a shell that
// is owned by another goroutine. Every shell access goes through Call.
type Controller struct {
	loop    Caller
	shell   *shell.Shell
	bridge  *Bridge
	backend platform.Backend
	apply   bool
	logger  *slog.Logger
}

// ControllerConfig holds configuration for the controller.
type ControllerConfig struct {
	// Apply moves host windows into their multitask view cells while the
	// view is shown.
	Apply  bool
	Logger *slog.Logger
}

// NewController creates a controller. bridge and backend may be nil when
// no host is attached.
func NewController(cfg ControllerConfig, loop Caller, s *shell.Shell, bridge *Bridge, backend platform.Backend) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Logger()
	}
	return &Controller{
		loop:    loop,
		shell:   s,
		bridge:  bridge,
		backend: backend,
		apply:   cfg.Apply,
		logger:  logger,
	}
}

func (c *Controller) Status(ctx context.Context) (ipc.StatusData, error) {
	var st ipc.StatusData
	err := c.loop.Call(ctx, func() error {
		s := c.shell
		st = ipc.StatusData{
			Workspace:      s.CurrentWorkspace(),
			WorkspaceCount: s.WorkspaceCount(),
			SurfaceCount:   len(s.Surfaces()),
			Overview:       s.Overview().Status().String(),
			ShowDesktop:    s.ShowingDesktop(),
			ActiveLayout:   s.Tiler().ActiveLayoutName(),
		}
		if w := s.Activated(); w != nil {
			st.Activated = s.Name(w)
		}
		return nil
	})
	return st, err
}

// Monitors lists the host displays, or the shell outputs when no host is
// attached.
func (c *Controller) Monitors(ctx context.Context) ([]ipc.MonitorInfo, error) {
	if c.backend != nil {
		displays, err := c.backend.Displays()
		if err != nil {
			return nil, err
		}
		out := make([]ipc.MonitorInfo, 0, len(displays))
		for _, d := range displays {
			out = append(out, ipc.MonitorInfo{
				ID:     d.ID,
				Name:   d.Name,
				X:      d.Bounds.X,
				Y:      d.Bounds.Y,
				Width:  d.Bounds.Width,
				Height: d.Bounds.Height,
			})
		}
		return out, nil
	}

	var out []ipc.MonitorInfo
	err := c.loop.Call(ctx, func() error {
		for i, o := range c.shell.Outputs() {
			r := platform.RectOf(o.Geometry())
			out = append(out, ipc.MonitorInfo{ID: i, Name: o.Name(), X: r.X, Y: r.Y, Width: r.Width, Height: r.Height})
		}
		return nil
	})
	return out, err
}

func (c *Controller) Snapshot(ctx context.Context) (shell.Snapshot, error) {
	var snap shell.Snapshot
	err := c.loop.Call(ctx, func() error {
		snap = c.shell.Snapshot()
		return nil
	})
	return snap, err
}

// ToggleOverview enters or leaves the multitask view.
func (c *Controller) ToggleOverview(ctx context.Context) error {
	return c.loop.Call(ctx, func() error {
		if c.shell.Overview().Active() {
			return c.exitOverview("")
		}
		if !c.shell.EnterOverview(overview.ReasonShortcutKey) {
			return fmt.Errorf("multitask view not available")
		}
		return c.placeOverview()
	})
}

// ExitOverview leaves the multitask view, activating the named surface
// when name is not empty.
func (c *Controller) ExitOverview(ctx context.Context, name string) error {
	return c.loop.Call(ctx, func() error {
		return c.exitOverview(name)
	})
}

func (c *Controller) exitOverview(name string) error {
	s := c.shell
	if !s.Overview().Active() {
		return fmt.Errorf("multitask view is not active")
	}
	var target *surface.Wrapper
	if name != "" {
		w, err := s.SurfaceByName(name)
		if err != nil {
			return err
		}
		target = w
	}
	s.ExitOverview(target)
	if c.bridge == nil || !c.apply {
		return nil
	}
	if _, err := c.bridge.RestorePlacement(); err != nil {
		return fmt.Errorf("restore windows: %w", err)
	}
	return nil
}

func (c *Controller) placeOverview() error {
	if c.bridge == nil || !c.apply {
		return nil
	}
	n, err := c.bridge.PlaceOverview()
	if err != nil {
		return fmt.Errorf("place windows: %w", err)
	}
	c.logger.Debug("multitask view placed", "windows", n)
	return nil
}

// ShowDesktop sets show-desktop; a nil on toggles it.
func (c *Controller) ShowDesktop(ctx context.Context, on *bool) error {
	return c.loop.Call(ctx, func() error {
		if on == nil {
			c.shell.ToggleShowDesktop()
			return nil
		}
		c.shell.SetShowDesktop(*on)
		return nil
	})
}

func (c *Controller) Tile(ctx context.Context) (int, error) {
	var n int
	err := c.loop.Call(ctx, func() (err error) {
		n, err = c.shell.TileWorkspace()
		return err
	})
	return n, err
}

func (c *Controller) Untile(ctx context.Context) (int, error) {
	var n int
	err := c.loop.Call(ctx, func() error {
		n = c.shell.UntileWorkspace()
		return nil
	})
	return n, err
}

func (c *Controller) CycleLayout(ctx context.Context, delta int) (string, error) {
	var name string
	err := c.loop.Call(ctx, func() (err error) {
		name, err = c.shell.CycleLayout(delta)
		return err
	})
	return name, err
}

func (c *Controller) ListLayouts(ctx context.Context) (ipc.LayoutsData, error) {
	var data ipc.LayoutsData
	err := c.loop.Call(ctx, func() error {
		cfg := c.shell.Config()
		data = ipc.LayoutsData{
			Layouts:       cfg.LayoutNames(),
			DefaultLayout: cfg.Tiling.DefaultLayout,
			ActiveLayout:  c.shell.Tiler().ActiveLayoutName(),
		}
		return nil
	})
	return data, err
}

// ApplyLayout makes name the active layout and tiles the current
// workspace when tileNow is set.
func (c *Controller) ApplyLayout(ctx context.Context, name string, tileNow bool) error {
	return c.loop.Call(ctx, func() error {
		if err := c.shell.Tiler().SetActiveLayout(name); err != nil {
			return err
		}
		if !tileNow {
			return nil
		}
		_, err := c.shell.TileWorkspace()
		return err
	})
}

func (c *Controller) SwitchWorkspace(ctx context.Context, id int) error {
	return c.loop.Call(ctx, func() error {
		return c.shell.SetCurrentWorkspace(id)
	})
}

// Activate focuses the named surface, restoring it when minimized.
func (c *Controller) Activate(ctx context.Context, name string) error {
	return c.loop.Call(ctx, func() error {
		w, err := c.shell.SurfaceByName(name)
		if err != nil {
			return err
		}
		if !c.shell.ForceActivateSurface(w) {
			return fmt.Errorf("surface %q cannot be activated", name)
		}
		return nil
	})
}
