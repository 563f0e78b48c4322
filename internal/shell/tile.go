package shell

import (
	"fmt"

	"github.com/1broseidon/surfshell/internal/surface"
)

// tileCandidates returns the windows of the current workspace that tiling
// may move, in creation order.
func (s *Shell) tileCandidates() []*surface.Wrapper {
	var out []*surface.Wrapper
	for _, w := range s.Surfaces() {
		if !isWindow(w) || !w.Mapped() || w.ParentSurface() != nil {
			continue
		}
		if w.WorkspaceID() != s.current || w.IsMinimized() || w.IsFullscreen() {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TileWorkspace arranges the windows of the current workspace with the
// active layout. Each gets its tiling geometry and moves into the Tiling
// state; windows beyond the layout's capacity keep their state. It returns
// the number of windows placed.
func (s *Shell) TileWorkspace() (int, error) {
	out := s.PrimaryOutput()
	if out == nil {
		return 0, ErrNoOutput
	}
	windows := s.tileCandidates()
	if len(windows) == 0 {
		return 0, nil
	}
	rects, err := s.tiler.Plan(len(windows), out.Geometry())
	if err != nil {
		return 0, fmt.Errorf("tile workspace %d: %w", s.current, err)
	}

	placed := 0
	for i, r := range rects {
		w := windows[i]
		w.SetTilingGeometry(r)
		if w.IsTiling() || w.SetState(surface.StateTiling) {
			placed++
		}
	}
	s.logger.Info("workspace tiled", "workspace", s.current, "layout", s.tiler.ActiveLayoutName(), "windows", placed)
	return placed, nil
}

// UntileWorkspace returns every tiled window of the current workspace to
// its normal geometry and reports how many accepted.
func (s *Shell) UntileWorkspace() int {
	n := 0
	for _, w := range s.tileCandidates() {
		if w.IsTiling() && w.SetState(surface.StateNormal) {
			n++
		}
	}
	return n
}

// CycleLayout switches to the next (delta > 0) or previous layout and
// tiles the current workspace again when it was tiled.
func (s *Shell) CycleLayout(delta int) (string, error) {
	name, err := s.tiler.CycleActiveLayout(delta)
	if err != nil {
		return "", err
	}
	for _, w := range s.tileCandidates() {
		if w.IsTiling() {
			_, err = s.TileWorkspace()
			break
		}
	}
	return name, err
}
