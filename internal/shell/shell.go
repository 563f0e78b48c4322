// Package shell owns the surfaces of one compositor session: outputs,
// workspaces, focus, show-desktop, the multitask view and tiling. A Shell
// is not safe for concurrent use; drive it from the event loop.
package shell

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/1broseidon/surfshell/internal/animation"
	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/signal"
	"github.com/1broseidon/surfshell/internal/stack"
	"github.com/1broseidon/surfshell/internal/surface"
	"github.com/1broseidon/surfshell/internal/tiling"
)

var (
	ErrUnknownSurface   = errors.New("unknown surface")
	ErrUnknownWorkspace = errors.New("unknown workspace")
	ErrWorkspaceLimit   = errors.New("workspace limit reached")
	ErrLastWorkspace    = errors.New("cannot remove the last workspace")
	ErrNoOutput         = errors.New("no output")
)

// surfaceScene is the drawing parent shared by every managed surface.
const surfaceScene stack.SceneID = 1

// Options configures New.
type Options struct {
	Config *config.Config
	// Driver replaces the animation engine built from Config.
	Driver animation.Driver
	Logger *slog.Logger
}

// Events are the session-level change notifications.
type Events struct {
	SurfaceAdded       signal.Signal[*surface.Wrapper]
	SurfaceRemoved     signal.Signal[*surface.Wrapper]
	ActivatedChanged   signal.Signal[*surface.Wrapper]
	WorkspaceChanged   signal.Signal[int]
	WorkspacesChanged  signal.Notifier
	ShowDesktopChanged signal.Notifier
}

// SurfaceSpec describes a surface handed to AddSurface.
type SurfaceSpec struct {
	Name string
	Type surface.Type
	// Geometry is the initial normal geometry. An invalid rect places the
	// surface automatically on the primary output.
	Geometry geom.Rect
	// Workspace is the owning workspace; zero means the current one unless
	// AllWorkspaces is set.
	Workspace     int
	AllWorkspaces bool
	Parent        *surface.Wrapper
}

// Shell is one compositor session.
type Shell struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *animation.Engine
	reg    *surface.Registry

	container surface.ContainerID
	outputs   []*Output

	workspaces []string
	current    int

	names     map[*surface.Wrapper]string
	stamps    map[*surface.Wrapper]uint64
	stamp     uint64
	activated *surface.Wrapper

	showDesktop bool
	hidden      []*surface.Wrapper

	tiler      *tiling.Selector
	model      *overview.Model
	view       *overview.View
	refreshing bool

	Events Events
}

// New builds an empty session. A nil Config means the defaults.
func New(opts Options) (*Shell, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger()
	}

	s := &Shell{
		cfg:    cfg,
		logger: logger.With("component", "shell"),
		names:  make(map[*surface.Wrapper]string),
		stamps: make(map[*surface.Wrapper]uint64),
		tiler:  tiling.NewSelector(cfg),
	}

	driver := opts.Driver
	if driver == nil {
		animOpts, err := cfg.AnimationOptions()
		if err != nil {
			return nil, err
		}
		animOpts.Logger = logger
		s.engine = animation.NewEngine(animOpts)
		driver = s.engine
	}
	s.reg = surface.NewRegistry(driver)
	s.reg.WindowRadius = cfg.WindowRadius
	s.reg.TitleBarHeight = cfg.TitleBarHeight
	s.reg.DecorationMargin = cfg.DecorationMargin
	s.container = s.reg.AddContainer(&guard{s: s})

	for i := 1; i <= cfg.Workspaces.Count; i++ {
		s.workspaces = append(s.workspaces, workspaceName(i))
	}
	s.current = min(cfg.Workspaces.Current+1, len(s.workspaces))

	s.model = overview.NewModel(s, cfg.Overview.MinRowHeight)
	s.view = overview.NewView(s.model, func(w *surface.Wrapper) { s.ForceActivateSurface(w) })
	return s, nil
}

func (s *Shell) Config() *config.Config      { return s.cfg }
func (s *Shell) Registry() *surface.Registry { return s.reg }
func (s *Shell) Tiler() *tiling.Selector     { return s.tiler }
func (s *Shell) Overview() *overview.View    { return s.view }
func (s *Shell) Activated() *surface.Wrapper { return s.activated }
func (s *Shell) ShowingDesktop() bool        { return s.showDesktop }

// Engine returns the built-in animation engine, or nil when Options
// supplied a Driver.
func (s *Shell) Engine() *animation.Engine { return s.engine }

// Name returns the name w was added under.
func (s *Shell) Name(w *surface.Wrapper) string { return s.names[w] }

// Surfaces returns every live surface in creation order.
func (s *Shell) Surfaces() []*surface.Wrapper { return s.reg.Surfaces() }

// SurfaceByName returns the first live surface registered under name.
func (s *Shell) SurfaceByName(name string) (*surface.Wrapper, error) {
	for _, w := range s.Surfaces() {
		if s.names[w] == name {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, name)
}

// AddSurface creates a surface for client, puts it in the shell's
// container on the primary output and assigns its workspace. The surface
// stays unmapped until the client maps it.
func (s *Shell) AddSurface(client surface.Client, spec SurfaceSpec) (*surface.Wrapper, error) {
	ws := spec.Workspace
	switch {
	case spec.AllWorkspaces:
		ws = 0
	case ws == 0:
		ws = s.current
	case ws < 0 || ws > len(s.workspaces):
		return nil, fmt.Errorf("%w: %d", ErrUnknownWorkspace, ws)
	}

	w := s.reg.NewWrapper(client, spec.Type)
	if spec.Name != "" {
		s.names[w] = spec.Name
	}
	if spec.Parent != nil {
		spec.Parent.AddSubSurface(w)
	}
	w.SetWorkspaceID(ws)
	s.watch(w)
	w.SetContainer(s.container)

	out := s.PrimaryOutput()
	if out != nil {
		out.add(w)
	}
	geometry := spec.Geometry
	if !geometry.IsValid() && out != nil {
		geometry = autoPlace(out.Geometry())
	} else if geometry.IsValid() {
		w.SetClientRequestPos(geometry.TopLeft())
	}
	if geometry.IsValid() && !w.SetGeometry(geometry) {
		s.logger.Warn("initial geometry rejected", "surface", s.label(w), "geometry", geometry.String())
	}

	s.logger.Debug("surface added", "surface", s.label(w), "workspace", ws)
	s.Events.SurfaceAdded.Emit(w)
	return w, nil
}

// autoPlace centres a two-thirds sized rect in area.
func autoPlace(area geom.Rect) geom.Rect {
	w := float64(int(area.Width * 2 / 3))
	h := float64(int(area.Height * 2 / 3))
	return geom.Rect{
		X:      area.X + float64(int((area.Width-w)/2)),
		Y:      area.Y + float64(int((area.Height-h)/2)),
		Width:  w,
		Height: h,
	}
}

// watch wires the shell to w's request and change signals.
func (s *Shell) watch(w *surface.Wrapper) {
	w.Events.RequestActive.Watch(func() {
		if isWindow(w) {
			s.ActivateSurface(w)
		}
	})
	w.Events.RequestDeactive.Watch(func() {
		if s.activated == w {
			s.activateNext(w)
		}
	})
	relayout := func() { s.refreshOverview() }
	w.Events.StateChanged.Watch(relayout)
	w.Events.GeometryChanged.Watch(relayout)
	w.Events.VisibleChanged.Watch(relayout)
	w.Events.WorkspaceIDChanged.Watch(relayout)
}

// Map maps w, which plays its open animation and may give it focus.
func (s *Shell) Map(w *surface.Wrapper) error {
	if err := s.check(w); err != nil {
		return err
	}
	w.SetMapped(true)
	return nil
}

// Unmap unmaps w, playing its close animation.
func (s *Shell) Unmap(w *surface.Wrapper) error {
	if err := s.check(w); err != nil {
		return err
	}
	w.SetMapped(false)
	return nil
}

// CloseSurface unmaps w and destroys it once the close animation ends.
func (s *Shell) CloseSurface(w *surface.Wrapper) error {
	if err := s.check(w); err != nil {
		return err
	}
	w.SetMapped(false)
	w.Release()
	return nil
}

func (s *Shell) check(w *surface.Wrapper) error {
	if w == nil || w.Destroyed() {
		return ErrUnknownSurface
	}
	if _, ok := s.reg.Surface(w.Node()); !ok {
		return ErrUnknownSurface
	}
	return nil
}

// forget drops every reference the shell holds to w. The guard calls it
// while w is being destroyed.
func (s *Shell) forget(w *surface.Wrapper) {
	delete(s.stamps, w)
	s.hidden = slices.DeleteFunc(s.hidden, func(h *surface.Wrapper) bool { return h == w })
	if s.activated == w {
		s.activated = nil
		s.activateNext(w)
	}
	s.logger.Debug("surface removed", "surface", s.label(w))
	s.Events.SurfaceRemoved.Emit(w)
	s.refreshOverview()
	delete(s.names, w)
}

// Tick advances the built-in animation engine to now.
func (s *Shell) Tick(now time.Time) {
	if s.engine != nil {
		s.engine.Tick(now)
	}
}

// Settle runs every pending animation to completion.
func (s *Shell) Settle() {
	if s.engine != nil {
		s.engine.Flush()
	}
}

func (s *Shell) label(w *surface.Wrapper) string {
	if name, ok := s.names[w]; ok {
		return name
	}
	return w.Node().String()
}
