package tiling

import (
	"testing"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/geom"
)

func TestSelector_CycleActiveLayout(t *testing.T) {
	s := NewSelector(config.DefaultConfig())
	if got := s.ActiveLayoutName(); got != "grid" {
		t.Fatalf("expected grid, got %q", got)
	}

	steps := []struct {
		delta int
		want  string
	}{
		{1, "half-left"},
		{-2, "columns"},
		{-1, "rows"},
		{1, "columns"},
	}
	for _, step := range steps {
		got, err := s.CycleActiveLayout(step.delta)
		if err != nil {
			t.Fatalf("cycle: %v", err)
		}
		if got != step.want {
			t.Fatalf("cycle(%d) = %q, want %q", step.delta, got, step.want)
		}
	}

	if err := s.SetActiveLayout("nope"); err == nil {
		t.Fatalf("expected unknown layout error")
	}
}

func TestSelector_UpdateConfigFallsBack(t *testing.T) {
	s := NewSelector(config.DefaultConfig())
	if err := s.SetActiveLayout("rows"); err != nil {
		t.Fatalf("set: %v", err)
	}
	cfg := config.DefaultConfig()
	delete(cfg.Tiling.Layouts, "rows")
	s.UpdateConfig(cfg)
	if got := s.ActiveLayoutName(); got != "grid" {
		t.Fatalf("expected fallback to grid, got %q", got)
	}
}

func TestSelector_PlanAppliesPadding(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tiling.ScreenPadding = config.Margins{Top: 20}
	s := NewSelector(cfg)

	got, err := s.Plan(1, geom.Rect{Width: 1000, Height: 520})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if want := (geom.Rect{X: 8, Y: 28, Width: 984, Height: 484}); len(got) != 1 || got[0] != want {
		t.Fatalf("plan = %v, want [%v]", got, want)
	}
}
