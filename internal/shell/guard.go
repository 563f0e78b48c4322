package shell

import (
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/stack"
	"github.com/1broseidon/surfshell/internal/surface"
)

// guard is the container every managed surface lives in. It enforces the
// session policy on state and geometry changes.
type guard struct {
	s *Shell
}

func (g *guard) Scene() stack.SceneID { return surfaceScene }

// FilterStateChange vetoes maximize, fullscreen and tiling while the
// multitask view is shown.
func (g *guard) FilterStateChange(w *surface.Wrapper, proposed, current surface.State) bool {
	if !g.s.view.Active() {
		return false
	}
	switch proposed {
	case surface.StateMaximized, surface.StateFullscreen, surface.StateTiling:
		g.s.logger.Debug("state change vetoed by multitask view", "surface", g.s.label(w), "from", current.String(), "to", proposed.String())
		return true
	}
	return false
}

// FilterGeometryChange pins a fullscreen surface to its output unless a
// state animation is moving it. Resizing in place to the output size is
// the first half of a move-resize onto the output and passes.
func (g *guard) FilterGeometryChange(w *surface.Wrapper, proposed *geom.Rect, previous geom.Rect) bool {
	if !w.IsFullscreen() || w.AnimationRunning() {
		return false
	}
	fs := w.FullscreenGeometry()
	if !fs.IsValid() || *proposed == fs || *proposed == previous.Resized(fs.Size()) {
		return false
	}
	g.s.logger.Debug("geometry change vetoed for fullscreen surface", "surface", g.s.label(w), "geometry", proposed.String())
	return true
}

func (g *guard) RemoveSurface(w *surface.Wrapper) {
	g.s.forget(w)
}
