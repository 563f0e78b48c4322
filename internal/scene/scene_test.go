package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/surfshell/internal/animation"
	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/shell"
	"github.com/1broseidon/surfshell/internal/surface"
)

const deskYAML = `
output: {x: 0, y: 0, width: 1200, height: 800}
workspaces: 3
surfaces:
  - name: editor
    geometry: {x: 40, y: 40, width: 800, height: 600}
  - name: dialog
    parent: editor
    geometry: {x: 100, y: 100, width: 300, height: 200}
  - name: browser
    state: maximized
  - name: chat
    workspace: 2
  - name: panel
    type: layer
    all_workspaces: true
    geometry: {x: 0, y: 0, width: 1200, height: 30}
activate: [browser, editor]
`

const tiledTOML = `
workspaces = 2
current = 2
tile = true

[output]
x = 0
y = 0
width = 1000
height = 500

[[surfaces]]
name = "a"
workspace = 2

[[surfaces]]
name = "b"
workspace = 2

[[surfaces]]
name = "c"
workspace = 2
state = "minimized"
`

func newShell(t *testing.T) *shell.Shell {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Animation.DurationMS = 50
	s, err := shell.New(shell.Options{Config: cfg})
	if err != nil {
		t.Fatalf("shell.New: %v", err)
	}
	return s
}

func mustSurface(t *testing.T, s *shell.Shell, name string) *surface.Wrapper {
	t.Helper()
	w, err := s.SurfaceByName(name)
	if err != nil {
		t.Fatalf("SurfaceByName(%q): %v", name, err)
	}
	return w
}

func TestApply_YAML(t *testing.T) {
	sc, err := Parse([]byte(deskYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := newShell(t)
	created, err := sc.Apply(s)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(created) != 5 || s.WorkspaceCount() != 3 {
		t.Fatalf("created=%d workspaces=%d", len(created), s.WorkspaceCount())
	}

	editor, dialog, browser := mustSurface(t, s, "editor"), mustSurface(t, s, "dialog"), mustSurface(t, s, "browser")
	if s.Activated() != editor {
		t.Fatalf("activated = %v, want editor", s.Name(s.Activated()))
	}
	if dialog.ParentSurface() != editor {
		t.Fatalf("dialog parent not set")
	}
	output := geom.Rect{Width: 1200, Height: 800}
	if !browser.IsMaximized() || browser.Geometry() != output {
		t.Fatalf("browser: state=%v geometry=%v", browser.State(), browser.Geometry())
	}
	if mustSurface(t, s, "chat").WorkspaceID() != 2 || !mustSurface(t, s, "panel").ShowOnAllWorkspace() {
		t.Fatalf("workspace assignment wrong")
	}

	s.EnterOverview(overview.ReasonShortcutKey)
	if got := s.Overview().Model().Len(); got != 3 {
		t.Fatalf("overview entries = %d, want 3", got)
	}
}

func TestApply_TOMLTilesCurrentWorkspace(t *testing.T) {
	sc, err := Parse([]byte(tiledTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := newShell(t)
	if _, err := sc.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.CurrentWorkspace() != 2 {
		t.Fatalf("current = %d, want 2", s.CurrentWorkspace())
	}
	a, b, c := mustSurface(t, s, "a"), mustSurface(t, s, "b"), mustSurface(t, s, "c")
	if s.Activated() != a {
		t.Fatalf("activated = %q, want a", s.Name(s.Activated()))
	}
	if !c.IsMinimized() || c.IsTiling() {
		t.Fatalf("c: state=%v", c.State())
	}
	want := map[*surface.Wrapper]geom.Rect{
		a: {X: 8, Y: 8, Width: 488, Height: 484},
		b: {X: 504, Y: 8, Width: 488, Height: 484},
	}
	for w, r := range want {
		if !w.IsTiling() || w.Geometry() != r {
			t.Fatalf("%s: state=%v geometry=%v, want %v", s.Name(w), w.State(), w.Geometry(), r)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	const out = "output: {width: 100, height: 100}\n"
	tests := []struct {
		name   string
		format Format
		data   string
		want   string
	}{
		{"no output", FormatYAML, "surfaces: []\n", "output"},
		{"unknown yaml key", FormatYAML, out + "colour: red\n", "colour"},
		{"unknown toml key", FormatTOML, "colour = \"red\"\n[output]\nwidth = 1\nheight = 1\n", "toml"},
		{"missing name", FormatYAML, out + "surfaces: [{type: toplevel}]\n", "name is required"},
		{"duplicate name", FormatYAML, out + "surfaces: [{name: a}, {name: a}]\n", "duplicate"},
		{"unknown type", FormatYAML, out + "surfaces: [{name: a, type: popup}]\n", "unknown type"},
		{"tiling state", FormatYAML, out + "surfaces: [{name: a, state: tiling}]\n", "unsupported state"},
		{"unknown role", FormatYAML, out + "surfaces: [{name: a, role: top}]\n", "unknown role"},
		{"late parent", FormatYAML, out + "surfaces: [{name: a, parent: b}, {name: b}]\n", "declared before"},
		{"unknown activate", FormatYAML, out + "activate: [ghost]\n", "ghost"},
		{"empty icon", FormatYAML, out + "surfaces: [{name: a, icon_geometry: {x: 5, y: 5}}]\n", "icon_geometry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_PicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiled.toml")
	if err := os.WriteFile(path, []byte(tiledTOML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sc.Surfaces) != 3 || !sc.Tile {
		t.Fatalf("unexpected scene: %+v", sc)
	}

	if _, err := Load(filepath.Join(dir, "scene.json")); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestClient_RejectsBelowMinimum(t *testing.T) {
	s := newShell(t)
	sc := &Scene{
		Output:   Rect{Width: 400, Height: 300},
		Surfaces: []Surface{{Name: "big", Geometry: &Rect{Width: 600, Height: 200}, MinWidth: 500}},
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, err := sc.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	w := mustSurface(t, s, "big")
	w.RequestMaximize()
	s.Settle()
	if w.IsMaximized() {
		t.Fatalf("client below its minimum size was maximized")
	}
}

const dockYAML = `
output: {x: 0, y: 0, width: 1200, height: 800}
surfaces:
  - name: player
    geometry: {x: 1000, y: 600, width: 400, height: 300}
    icon_geometry: {x: 10, y: 770, width: 24, height: 24}
    clip_in_output: true
    blur: true
  - name: tooltip
    geometry: {x: 40, y: 40, width: 200, height: 100}
    skip_switcher: true
    skip_dock_preview: true
`

func TestApply_SurfaceExtrasReachSnapshot(t *testing.T) {
	sc, err := Parse([]byte(dockYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := newShell(t)
	if _, err := sc.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	icon := geom.Rect{X: 10, Y: 770, Width: 24, Height: 24}
	player := mustSurface(t, s, "player")
	if player.IconGeometry() != icon || !player.Blur() || !player.ClipInOutput() {
		t.Fatalf("player extras not applied: icon=%v blur=%v clip=%v", player.IconGeometry(), player.Blur(), player.ClipInOutput())
	}
	tooltip := mustSurface(t, s, "tooltip")
	if !tooltip.SkipSwitcher() || !tooltip.SkipDockPreview() || tooltip.ClipInOutput() {
		t.Fatalf("tooltip extras not applied")
	}

	infos := map[string]shell.SurfaceInfo{}
	for _, info := range s.Snapshot().Surfaces {
		infos[info.Name] = info
	}
	p := infos["player"]
	if p.Clip == nil || *p.Clip != (shell.Box{X: 1000, Y: 600, Width: 200, Height: 200}) {
		t.Fatalf("player clip = %v, want the part inside the output", p.Clip)
	}
	if p.Icon == nil || *p.Icon != (shell.Box{X: 10, Y: 770, Width: 24, Height: 24}) || !p.Blur {
		t.Fatalf("player icon/blur not in snapshot: %+v", p)
	}
	tt := infos["tooltip"]
	if tt.Clip != nil || tt.Icon != nil || !tt.SkipSwitcher || !tt.SkipDockPreview {
		t.Fatalf("tooltip snapshot = %+v", tt)
	}

	var last geom.Rect
	player.Events.AnimationFrame.Connect(func(f surface.AnimationFrame) {
		if f.Kind == animation.KindMinimize {
			last = f.Frame.Rect
		}
	})
	player.RequestMinimize()
	s.Settle()
	if last != icon {
		t.Fatalf("minimize ended at %v, want the icon %v", last, icon)
	}
}
