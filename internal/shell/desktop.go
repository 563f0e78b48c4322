package shell

import (
	"github.com/1broseidon/surfshell/internal/surface"
)

// SetShowDesktop hides (on) or restores (off) every visible window of the
// current workspace with the show animation. Showing the desktop clears
// focus.
func (s *Shell) SetShowDesktop(on bool) {
	if s.showDesktop == on {
		return
	}
	s.showDesktop = on
	if on {
		s.hidden = s.hidden[:0]
		for _, w := range s.Surfaces() {
			if !isWindow(w) || !w.Visible() || !w.ShowOnWorkspace(s.current) {
				continue
			}
			w.StartShowAnimation(false)
			s.hidden = append(s.hidden, w)
		}
		s.setActivated(nil)
	} else {
		for _, w := range s.hidden {
			if !w.Destroyed() {
				w.StartShowAnimation(true)
			}
		}
		s.hidden = nil
	}
	s.logger.Debug("show desktop", "on", on, "surfaces", len(s.hidden))
	s.Events.ShowDesktopChanged.Notify()
}

// ToggleShowDesktop flips the show-desktop state.
func (s *Shell) ToggleShowDesktop() {
	s.SetShowDesktop(!s.showDesktop)
}

// HiddenByDesktop reports whether w was hidden by show-desktop.
func (s *Shell) HiddenByDesktop(w *surface.Wrapper) bool {
	for _, h := range s.hidden {
		if h == w {
			return true
		}
	}
	return false
}
