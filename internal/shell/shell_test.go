package shell

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/surface"
)

type fakeClient struct {
	activated  bool
	maximized  bool
	fullscreen bool
	minimized  bool
	closed     int
}

func (c *fakeClient) Resize(geom.Size) bool { return true }
func (c *fakeClient) SetMinimize(on bool)   { c.minimized = on }
func (c *fakeClient) SetMaximize(on bool)   { c.maximized = on }
func (c *fakeClient) SetFullscreen(on bool) { c.fullscreen = on }
func (c *fakeClient) SetActivate(on bool)   { c.activated = on }
func (c *fakeClient) Close()                { c.closed++ }

var screen = geom.Rect{Width: 1200, Height: 800}

func newTestShell(t *testing.T) *Shell {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Animation.DurationMS = 100
	s, err := New(Options{Config: cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.AddOutput("test-0", screen)
	return s
}

// addWindow adds and maps a toplevel, settling its open animation.
func addWindow(t *testing.T, s *Shell, name string, ws int) (*surface.Wrapper, *fakeClient) {
	t.Helper()
	cl := &fakeClient{}
	w, err := s.AddSurface(cl, SurfaceSpec{
		Name:      name,
		Type:      surface.TypeToplevel,
		Geometry:  geom.Rect{X: 40, Y: 40, Width: 800, Height: 600},
		Workspace: ws,
	})
	if err != nil {
		t.Fatalf("AddSurface(%s): %v", name, err)
	}
	if err := s.Map(w); err != nil {
		t.Fatalf("Map(%s): %v", name, err)
	}
	s.Settle()
	return w, cl
}

func TestNew_Defaults(t *testing.T) {
	s := newTestShell(t)
	if s.WorkspaceCount() != 2 || s.CurrentWorkspace() != 1 {
		t.Fatalf("workspaces = %d current %d, want 2 and 1", s.WorkspaceCount(), s.CurrentWorkspace())
	}
	if s.Activated() != nil {
		t.Fatalf("fresh shell has a focused surface")
	}
	if s.Overview().Status() != overview.StatusUninitialized {
		t.Fatalf("overview status = %v", s.Overview().Status())
	}

	bad := config.DefaultConfig()
	bad.Workspaces.Count = 0
	if _, err := New(Options{Config: bad}); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
}

func TestActivation_MapFocusesAndCloseHandsOff(t *testing.T) {
	s := newTestShell(t)
	a, ca := addWindow(t, s, "a", 0)
	b, cb := addWindow(t, s, "b", 0)

	if s.Activated() != b || !cb.activated || ca.activated {
		t.Fatalf("expected b focused after mapping, got %v", s.labelOrNone(s.Activated()))
	}
	if b.StackIndex() <= a.StackIndex() {
		t.Fatalf("focused surface not on top: a=%d b=%d", a.StackIndex(), b.StackIndex())
	}

	if !s.ActivateSurface(a) {
		t.Fatalf("ActivateSurface(a) rejected")
	}
	if !ca.activated || cb.activated || a.StackIndex() <= b.StackIndex() {
		t.Fatalf("a not focused and raised")
	}
	if s.LastActivated(a) <= s.LastActivated(b) {
		t.Fatalf("stamps not increasing: a=%d b=%d", s.LastActivated(a), s.LastActivated(b))
	}

	var removed []*surface.Wrapper
	s.Events.SurfaceRemoved.Connect(func(w *surface.Wrapper) { removed = append(removed, w) })
	if err := s.CloseSurface(a); err != nil {
		t.Fatalf("CloseSurface: %v", err)
	}
	if s.Activated() != b {
		t.Fatalf("focus did not move to b on unmap")
	}
	if a.Destroyed() {
		t.Fatalf("a destroyed before its close animation finished")
	}
	s.Settle()
	if !a.Destroyed() || len(removed) != 1 || removed[0] != a {
		t.Fatalf("a not removed after close animation: destroyed=%v removed=%d", a.Destroyed(), len(removed))
	}
	if got := len(s.Surfaces()); got != 1 {
		t.Fatalf("surfaces = %d, want 1", got)
	}
	if err := s.Map(a); !errors.Is(err, ErrUnknownSurface) {
		t.Fatalf("Map(destroyed) = %v, want ErrUnknownSurface", err)
	}
}

func TestSurfaces_CreationOrderIgnoresStacking(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)
	b, _ := addWindow(t, s, "b", 0)
	c, _ := addWindow(t, s, "c", 0)
	if !s.ActivateSurface(a) {
		t.Fatalf("ActivateSurface(a) rejected")
	}

	got := s.Surfaces()
	want := []*surface.Wrapper{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("surfaces = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("surfaces[%d] = %s, want %s", i, s.Name(got[i]), s.Name(want[i]))
		}
	}
}

func TestActivation_MinimizeAndForceActivate(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)
	b, cb := addWindow(t, s, "b", 0)

	b.RequestMinimize()
	s.Settle()
	if !b.IsMinimized() || !cb.minimized {
		t.Fatalf("b not minimized")
	}
	if s.Activated() != a {
		t.Fatalf("focus did not fall back to a")
	}
	if s.ActivateSurface(b) {
		t.Fatalf("minimized surface accepted focus")
	}

	if !s.ForceActivateSurface(b) {
		t.Fatalf("ForceActivateSurface(b) failed")
	}
	if b.IsMinimized() || s.Activated() != b {
		t.Fatalf("b not restored and focused: state=%v", b.State())
	}
}

func TestActivation_ForceActivateSwitchesWorkspace(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)
	c, _ := addWindow(t, s, "c", 2)

	if s.Activated() != a {
		t.Fatalf("surface on another workspace stole focus")
	}
	if s.ActivateSurface(c) {
		t.Fatalf("ActivateSurface accepted a surface on another workspace")
	}
	if !s.ForceActivateSurface(c) {
		t.Fatalf("ForceActivateSurface(c) failed")
	}
	if s.CurrentWorkspace() != 2 || s.Activated() != c {
		t.Fatalf("current=%d activated=%s, want 2 and c", s.CurrentWorkspace(), s.labelOrNone(s.Activated()))
	}
}

func TestWorkspaces(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)
	b, _ := addWindow(t, s, "b", 0)

	id, err := s.AddWorkspace()
	if err != nil || id != 3 {
		t.Fatalf("AddWorkspace = %d, %v", id, err)
	}

	if err := s.MoveSurfaceToWorkspace(b, 2); err != nil {
		t.Fatalf("MoveSurfaceToWorkspace: %v", err)
	}
	if s.Activated() != a {
		t.Fatalf("focus stayed on a surface that left the workspace")
	}

	var switched []int
	s.Events.WorkspaceChanged.Connect(func(id int) { switched = append(switched, id) })
	if err := s.SetCurrentWorkspace(2); err != nil {
		t.Fatalf("SetCurrentWorkspace: %v", err)
	}
	if s.Activated() != b {
		t.Fatalf("focus did not follow to workspace 2")
	}
	if err := s.SetCurrentWorkspace(9); !errors.Is(err, ErrUnknownWorkspace) {
		t.Fatalf("SetCurrentWorkspace(9) = %v", err)
	}

	if err := s.RemoveWorkspace(2); err != nil {
		t.Fatalf("RemoveWorkspace: %v", err)
	}
	if s.WorkspaceCount() != 2 || s.CurrentWorkspace() != 1 || b.WorkspaceID() != 1 {
		t.Fatalf("after remove: count=%d current=%d b.ws=%d", s.WorkspaceCount(), s.CurrentWorkspace(), b.WorkspaceID())
	}
	if len(switched) != 2 || switched[0] != 2 || switched[1] != 1 {
		t.Fatalf("workspace events = %v", switched)
	}
	if got := s.Workspaces()[0].Surfaces; got != 2 {
		t.Fatalf("workspace 1 surfaces = %d, want 2", got)
	}

	for range 4 {
		if _, err := s.AddWorkspace(); err != nil {
			t.Fatalf("AddWorkspace: %v", err)
		}
	}
	if _, err := s.AddWorkspace(); !errors.Is(err, ErrWorkspaceLimit) {
		t.Fatalf("AddWorkspace past max = %v", err)
	}
}

func TestRemoveWorkspace_Last(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Workspaces.Count = 1
	s, err := New(Options{Config: cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.RemoveWorkspace(1); !errors.Is(err, ErrLastWorkspace) {
		t.Fatalf("RemoveWorkspace = %v, want ErrLastWorkspace", err)
	}
}

func TestShowDesktop(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)
	b, _ := addWindow(t, s, "b", 0)

	s.ToggleShowDesktop()
	if !s.ShowingDesktop() || s.Activated() != nil {
		t.Fatalf("show desktop kept focus")
	}
	if !s.HiddenByDesktop(a) || !s.HiddenByDesktop(b) {
		t.Fatalf("windows not hidden")
	}
	s.Settle()

	if !s.ActivateSurface(a) {
		t.Fatalf("ActivateSurface(a) rejected")
	}
	if s.ShowingDesktop() || s.HiddenByDesktop(a) {
		t.Fatalf("activating a window did not leave show desktop")
	}
}

func TestGuard_OverviewVetoesStateChanges(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)
	b, cb := addWindow(t, s, "b", 0)

	if !s.EnterOverview(overview.ReasonShortcutKey) {
		t.Fatalf("EnterOverview failed")
	}
	if s.EnterOverview(overview.ReasonGesture) {
		t.Fatalf("EnterOverview succeeded twice")
	}
	b.RequestMaximize()
	s.Settle()
	if b.IsMaximized() || cb.maximized {
		t.Fatalf("maximize allowed while the overview is active")
	}
	if n, err := s.TileWorkspace(); err != nil || n != 0 {
		t.Fatalf("TileWorkspace in overview = %d, %v", n, err)
	}

	if !s.ExitOverview(a) {
		t.Fatalf("ExitOverview failed")
	}
	if s.Activated() != a || s.Overview().Status() != overview.StatusExited {
		t.Fatalf("exit did not focus a: status=%v", s.Overview().Status())
	}

	b.RequestMaximize()
	s.Settle()
	if !b.IsMaximized() || b.Geometry() != screen {
		t.Fatalf("maximize after exit: state=%v geometry=%v", b.State(), b.Geometry())
	}
}

func TestGuard_FullscreenGeometryPinned(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)

	a.RequestFullscreen()
	s.Settle()
	if !a.IsFullscreen() || a.Geometry() != screen {
		t.Fatalf("fullscreen: state=%v geometry=%v", a.State(), a.Geometry())
	}
	if a.SetGeometry(geom.Rect{X: 10, Y: 10, Width: 300, Height: 300}) {
		t.Fatalf("fullscreen surface accepted a foreign geometry")
	}
	if a.Geometry() != screen {
		t.Fatalf("geometry changed to %v", a.Geometry())
	}

	bigger := geom.Rect{X: 0, Y: 0, Width: 1600, Height: 900}
	s.PrimaryOutput().SetGeometry(bigger)
	if a.Geometry() != bigger {
		t.Fatalf("fullscreen surface did not follow the output: %v", a.Geometry())
	}
}

func TestOverview_FollowsSurfaces(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)
	addWindow(t, s, "b", 0)
	addWindow(t, s, "other", 2)

	s.EnterOverview(overview.ReasonShortcutKey)
	m := s.Overview().Model()
	if m.Len() != 2 {
		t.Fatalf("overview entries = %d, want 2", m.Len())
	}
	if m.LayoutArea() != screen {
		t.Fatalf("layout area = %v", m.LayoutArea())
	}

	if err := s.CloseSurface(a); err != nil {
		t.Fatalf("CloseSurface: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("overview entries after unmap = %d, want 1", m.Len())
	}
	for i, e := range m.Entries() {
		if !e.Geometry.IsValid() {
			t.Fatalf("entry %d not committed", i)
		}
	}
}

func TestTileWorkspace(t *testing.T) {
	s := newTestShell(t)
	a, _ := addWindow(t, s, "a", 0)
	b, _ := addWindow(t, s, "b", 0)
	addWindow(t, s, "elsewhere", 2)

	n, err := s.TileWorkspace()
	if err != nil || n != 2 {
		t.Fatalf("TileWorkspace = %d, %v", n, err)
	}
	s.Settle()

	want := []geom.Rect{
		{X: 8, Y: 8, Width: 588, Height: 784},
		{X: 604, Y: 8, Width: 588, Height: 784},
	}
	for i, w := range []*surface.Wrapper{a, b} {
		if !w.IsTiling() || w.Geometry() != want[i] {
			t.Fatalf("window %d: state=%v geometry=%v, want tiling %v", i, w.State(), w.Geometry(), want[i])
		}
	}

	if got := s.UntileWorkspace(); got != 2 {
		t.Fatalf("UntileWorkspace = %d", got)
	}
	s.Settle()
	if !a.IsNormal() || a.Geometry() != (geom.Rect{X: 40, Y: 40, Width: 800, Height: 600}) {
		t.Fatalf("untile: state=%v geometry=%v", a.State(), a.Geometry())
	}
}

func TestCycleLayout(t *testing.T) {
	s := newTestShell(t)
	addWindow(t, s, "a", 0)

	name, err := s.CycleLayout(1)
	if err != nil || name != "half-left" {
		t.Fatalf("CycleLayout = %q, %v", name, err)
	}
	if s.Tiler().ActiveLayoutName() != "half-left" {
		t.Fatalf("active layout = %q", s.Tiler().ActiveLayoutName())
	}
}

func TestSnapshot(t *testing.T) {
	s := newTestShell(t)
	addWindow(t, s, "a", 0)
	addWindow(t, s, "b", 0)
	s.EnterOverview(overview.ReasonShortcutKey)

	snap := s.Snapshot()
	if snap.Activated != "b" || snap.Workspace != 1 {
		t.Fatalf("snapshot focus/workspace = %q/%d", snap.Activated, snap.Workspace)
	}
	if len(snap.Surfaces) != 2 || snap.Surfaces[0].Name != "a" || snap.Surfaces[1].State != "normal" {
		t.Fatalf("snapshot surfaces = %+v", snap.Surfaces)
	}
	if snap.Overview.Status != "active" || len(snap.Overview.Entries) != 2 {
		t.Fatalf("snapshot overview = %+v", snap.Overview)
	}
	if snap.Overview.Entries[1].ZOrder <= snap.Overview.Entries[0].ZOrder {
		t.Fatalf("focused window not above: %+v", snap.Overview.Entries)
	}

	out, err := yaml.Marshal(snap)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	if !strings.Contains(string(out), "name: a") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
}
