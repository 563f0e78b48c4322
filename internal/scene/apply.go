package scene

import (
	"fmt"

	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/shell"
	"github.com/1broseidon/surfshell/internal/stack"
	"github.com/1broseidon/surfshell/internal/surface"
)

func parseRole(s string) (stack.Role, error) {
	switch s {
	case "", "normal":
		return stack.RoleNormal, nil
	case "overlay":
		return stack.RoleOverlay, nil
	case "floating":
		return stack.RoleFloating, nil
	default:
		return stack.RoleNormal, fmt.Errorf("unknown role %q", s)
	}
}

// Client is an in-memory client surface. It records what the shell pushed
// to it and accepts every size at or above its minimum.
type Client struct {
	MinSize    geom.Size
	Size       geom.Size
	Activated  bool
	Minimized  bool
	Maximized  bool
	Fullscreen bool
	Closed     bool

	// OnClose runs when the shell asks the client to close.
	OnClose func()
}

func (c *Client) Resize(size geom.Size) bool {
	if size.Width < c.MinSize.Width || size.Height < c.MinSize.Height {
		return false
	}
	c.Size = size
	return true
}

func (c *Client) SetMinimize(on bool)   { c.Minimized = on }
func (c *Client) SetMaximize(on bool)   { c.Maximized = on }
func (c *Client) SetFullscreen(on bool) { c.Fullscreen = on }
func (c *Client) SetActivate(on bool)   { c.Activated = on }

func (c *Client) Close() {
	c.Closed = true
	if c.OnClose != nil {
		c.OnClose()
	}
}

// Apply replays sc into s: workspaces, output, surfaces, activation order,
// states, tiling and finally the multitask view. Animations are settled
// after every step so the result does not depend on timing. It returns
// the created surfaces in declaration order.
func (sc *Scene) Apply(s *shell.Shell) ([]*surface.Wrapper, error) {
	for s.WorkspaceCount() < sc.Workspaces {
		if _, err := s.AddWorkspace(); err != nil {
			return nil, fmt.Errorf("workspaces: %w", err)
		}
	}
	if s.PrimaryOutput() == nil {
		s.AddOutput("scene-0", sc.Output.Geom())
	} else {
		s.PrimaryOutput().SetGeometry(sc.Output.Geom())
	}
	if sc.Layout != "" {
		if err := s.Tiler().SetActiveLayout(sc.Layout); err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
	}

	byName := make(map[string]*surface.Wrapper, len(sc.Surfaces))
	created := make([]*surface.Wrapper, 0, len(sc.Surfaces))
	for _, d := range sc.Surfaces {
		w, err := AddSurface(s, d)
		if err != nil {
			return created, fmt.Errorf("surface %q: %w", d.Name, err)
		}
		byName[d.Name] = w
		created = append(created, w)
	}
	s.Settle()

	for _, name := range sc.Activate {
		if !s.ForceActivateSurface(byName[name]) {
			return created, fmt.Errorf("activate %q: rejected", name)
		}
	}

	for _, d := range sc.Surfaces {
		w := byName[d.Name]
		switch d.State {
		case "maximized":
			w.RequestMaximize()
		case "fullscreen":
			w.RequestFullscreen()
		case "minimized":
			w.RequestMinimize()
		}
		s.Settle()
	}

	if sc.Current > 0 {
		if err := s.SetCurrentWorkspace(sc.Current); err != nil {
			return created, fmt.Errorf("current: %w", err)
		}
	}
	if sc.Tile {
		if _, err := s.TileWorkspace(); err != nil {
			return created, err
		}
		s.Settle()
	}
	return created, nil
}

// AddSurface creates and, unless d.Unmapped, maps one surface backed by a
// Client. The parent is looked up by name. d.State is not applied.
func AddSurface(s *shell.Shell, d Surface) (*surface.Wrapper, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	var parent *surface.Wrapper
	if d.Parent != "" {
		p, err := s.SurfaceByName(d.Parent)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		parent = p
	}

	typ := surface.TypeToplevel
	if d.Type != "" {
		typ, _ = surface.ParseType(d.Type)
	}
	role, _ := parseRole(d.Role)
	spec := shell.SurfaceSpec{
		Name:          d.Name,
		Type:          typ,
		Workspace:     d.Workspace,
		AllWorkspaces: d.AllWorkspaces,
		Parent:        parent,
	}
	if d.Geometry != nil {
		spec.Geometry = d.Geometry.Geom()
	}

	client := &Client{MinSize: geom.Size{Width: d.MinWidth, Height: d.MinHeight}}
	w, err := s.AddSurface(client, spec)
	if err != nil {
		return nil, err
	}
	client.OnClose = func() { _ = s.CloseSurface(w) }

	w.SetRole(role)
	w.SetAlwaysOnTop(d.AlwaysOnTop)
	w.SetSkipMultitaskView(d.SkipMultitaskView)
	w.SetSkipSwitcher(d.SkipSwitcher)
	w.SetSkipDockPreview(d.SkipDockPreview)
	w.SetBlur(d.Blur)
	w.SetClipInOutput(d.ClipInOutput)
	if d.IconGeometry != nil {
		w.SetIconGeometry(d.IconGeometry.Geom())
	}
	if !d.Unmapped {
		if err := s.Map(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}
