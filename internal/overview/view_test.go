package overview

import (
	"slices"
	"testing"

	"github.com/1broseidon/surfshell/internal/surface"
)

func TestView_EnterExit(t *testing.T) {
	reg := newTestRegistry()
	a := mapped(t, reg, 800, 600)
	src := &fakeSource{surfaces: []*surface.Wrapper{a}, stamps: map[*surface.Wrapper]uint64{}}
	m := NewModel(src, 0)
	m.SetLayoutArea(area)

	var chosen *surface.Wrapper
	v := NewView(m, func(w *surface.Wrapper) { chosen = w })

	var statuses []Status
	v.StatusChanged.Connect(func(s Status) { statuses = append(statuses, s) })

	if first, _ := v.Refresh(); first != -1 {
		t.Fatalf("inactive view must not refresh")
	}
	if !v.Enter(ReasonShortcutKey) || v.Enter(ReasonGesture) {
		t.Fatalf("expected exactly one successful Enter")
	}
	if v.ActiveReason() != ReasonShortcutKey {
		t.Fatalf("reason = %v", v.ActiveReason())
	}
	if !m.Entry(0).Geometry.IsValid() {
		t.Fatalf("Enter must commit a layout")
	}
	if !v.Exit(a) || v.Exit(a) {
		t.Fatalf("expected exactly one successful Exit")
	}
	if chosen != a {
		t.Fatalf("Exit did not activate the chosen surface")
	}

	want := []Status{StatusInitialized, StatusActive, StatusExited}
	if !slices.Equal(statuses, want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}

	v.Toggle(ReasonGesture)
	if !v.Active() || v.ActiveReason() != ReasonGesture {
		t.Fatalf("toggle must re-enter from exited")
	}
	v.Toggle(0)
	if v.Status() != StatusExited {
		t.Fatalf("toggle must exit, got %v", v.Status())
	}
}
