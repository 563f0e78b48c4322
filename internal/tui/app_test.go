package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/scene"
)

const desk = `
output: {width: 1200, height: 800}
workspaces: 2
surfaces:
  - name: editor
    geometry: {x: 40, y: 40, width: 800, height: 600}
  - name: term
    geometry: {x: 300, y: 200, width: 600, height: 400}
activate: [term, editor]
`

func newTestModel(t *testing.T) model {
	t.Helper()
	sc, err := scene.Parse([]byte(desk), scene.FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Animation.DurationMS = 50
	s, err := NewSession(sc, cfg, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	m := newModel(s)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(model)
}

func press(t *testing.T, m model, keys string) model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return next.(model)
}

func TestModel_OverviewToggle(t *testing.T) {
	m := newTestModel(t)
	if m.snap.Overview.Status == "active" {
		t.Fatalf("view active before toggle")
	}
	m = press(t, m, "o")
	if m.snap.Overview.Status != "active" || len(m.snap.Overview.Entries) != 2 {
		t.Fatalf("after o: status=%s entries=%d", m.snap.Overview.Status, len(m.snap.Overview.Entries))
	}
	if !strings.Contains(m.View(), "2 windows") {
		t.Fatalf("view does not summarize the layout:\n%s", m.View())
	}
	m = press(t, m, "o")
	if m.snap.Overview.Status == "active" {
		t.Fatalf("second o did not leave the view")
	}
}

func TestModel_WorkspaceAndErrors(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "2")
	if m.snap.Workspace != 2 || m.lastError != "" {
		t.Fatalf("workspace=%d error=%q", m.snap.Workspace, m.lastError)
	}
	m = press(t, m, "9")
	if m.lastError == "" {
		t.Fatalf("switching to a missing workspace did not report an error")
	}
	m = press(t, m, "1")
	if m.snap.Workspace != 1 || m.lastError != "" {
		t.Fatalf("workspace=%d error=%q", m.snap.Workspace, m.lastError)
	}
}

func TestModel_SelectedSurfaceActions(t *testing.T) {
	m := newTestModel(t)
	if got := m.selected(); got != "editor" {
		t.Fatalf("selected = %q, want editor", got)
	}
	m = press(t, m, "x")
	for _, si := range m.snap.Surfaces {
		if si.Name == "editor" && si.State != "maximized" {
			t.Fatalf("editor state = %s, want maximized", si.State)
		}
	}
	if m.selected() != "editor" {
		t.Fatalf("selection moved to %q", m.selected())
	}
}

func TestRenderPreview(t *testing.T) {
	area := geom.Rect{Width: 100, Height: 50}
	tiles := []tile{
		{Rect: geom.Rect{X: 0, Y: 0, Width: 50, Height: 50}, Label: "left"},
		{Rect: geom.Rect{X: 50, Y: 0, Width: 50, Height: 50}, Label: "right", Focused: true},
	}
	lines := renderPreview(area, tiles, 40, 12)
	if len(lines) != 12 {
		t.Fatalf("lines = %d, want 12", len(lines))
	}
	out := strings.Join(lines, "\n")
	for _, want := range []string{"left", "right", "┏", "┌", "╔", "╝"} {
		if !strings.Contains(out, want) {
			t.Fatalf("preview missing %q:\n%s", want, out)
		}
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 40 {
			t.Fatalf("line width %d, want 40", n)
		}
	}

	if got := renderPreview(geom.Rect{}, tiles, 10, 4); strings.TrimSpace(strings.Join(got, "")) != "" {
		t.Fatalf("invalid area should render an empty canvas")
	}
}
