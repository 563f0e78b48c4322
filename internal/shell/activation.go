package shell

import (
	"slices"

	"github.com/1broseidon/surfshell/internal/surface"
)

// ActivateSurface gives w keyboard focus and raises it. A nil w clears
// focus. It returns false when w cannot be focused: it is destroyed, lacks
// the full capability set or is not on the current workspace.
func (s *Shell) ActivateSurface(w *surface.Wrapper) bool {
	if w == nil {
		s.setActivated(nil)
		return true
	}
	if w.Destroyed() || !w.HasActiveCapability() || !w.ShowOnWorkspace(s.current) {
		return false
	}
	if w.Type() == surface.TypeInputPopup {
		return false
	}
	if s.showDesktop {
		s.SetShowDesktop(false)
	}
	s.setActivated(w)
	return true
}

// ForceActivateSurface brings w back from wherever it is: a minimized
// surface is restored and the shell switches to w's workspace first.
func (s *Shell) ForceActivateSurface(w *surface.Wrapper) bool {
	if w == nil || w.Destroyed() {
		return false
	}
	if !w.ShowOnWorkspace(s.current) {
		if err := s.SetCurrentWorkspace(w.WorkspaceID()); err != nil {
			s.logger.Warn("force activate: switch workspace", "surface", s.label(w), "error", err)
			return false
		}
	}
	if w.IsMinimized() {
		w.RequestCancelMinimize()
	}
	return s.ActivateSurface(w)
}

func (s *Shell) setActivated(w *surface.Wrapper) {
	if s.activated == w {
		if w != nil {
			w.StackToLast()
			s.touch(w)
		}
		return
	}
	old := s.activated
	s.activated = w
	if old != nil && !old.Destroyed() {
		old.SetActivate(false)
	}
	if w != nil {
		w.SetActivate(true)
		w.StackToLast()
		s.touch(w)
	}
	s.logger.Debug("activated surface changed", "surface", s.labelOrNone(w))
	s.Events.ActivatedChanged.Emit(w)
	s.refreshOverview()
}

func (s *Shell) touch(w *surface.Wrapper) {
	s.stamp++
	s.stamps[w] = s.stamp
}

// LastActivated returns w's activation stamp. Later activations have
// larger stamps; 0 means never activated.
func (s *Shell) LastActivated(w *surface.Wrapper) uint64 {
	return s.stamps[w]
}

// History returns the focusable windows of workspace, most recently
// activated first. Windows never activated follow in creation order.
func (s *Shell) History(workspace int) []*surface.Wrapper {
	var out []*surface.Wrapper
	for _, w := range s.Surfaces() {
		if isWindow(w) && w.ShowOnWorkspace(workspace) && w.HasActiveCapability() {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b *surface.Wrapper) int {
		sa, sb := s.stamps[a], s.stamps[b]
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
	return out
}

// activateNext hands focus to the most recently activated surface of the
// current workspace other than prev, or clears it.
func (s *Shell) activateNext(prev *surface.Wrapper) {
	for _, w := range s.History(s.current) {
		if w != prev && !w.Destroyed() {
			s.setActivated(w)
			return
		}
	}
	s.setActivated(nil)
}

func (s *Shell) labelOrNone(w *surface.Wrapper) string {
	if w == nil {
		return "none"
	}
	return s.label(w)
}

// isWindow reports whether w is a regular application window.
func isWindow(w *surface.Wrapper) bool {
	t := w.Type()
	return t == surface.TypeToplevel || t == surface.TypeXWayland
}
