package shell

import (
	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/surface"
)

// ReadySurfaces implements overview.Source: the windows of the current
// workspace in creation order.
func (s *Shell) ReadySurfaces() []*surface.Wrapper {
	var out []*surface.Wrapper
	for _, w := range s.Surfaces() {
		if overview.IsReady(w, s.current) {
			out = append(out, w)
		}
	}
	return out
}

// EnterOverview shows the multitask view. It returns false when it is
// already shown.
func (s *Shell) EnterOverview(reason overview.ActiveReason) bool {
	if s.PrimaryOutput() == nil {
		return false
	}
	if !s.view.Enter(reason) {
		return false
	}
	s.logger.Info("multitask view entered", "reason", reason.String(), "surfaces", s.model.Len(), "rows", s.model.Rows())
	return true
}

// ExitOverview leaves the multitask view. A non-nil w is activated, even
// if it is minimized or on another workspace.
func (s *Shell) ExitOverview(w *surface.Wrapper) bool {
	if !s.view.Exit(w) {
		return false
	}
	s.logger.Info("multitask view exited", "surface", s.labelOrNone(w))
	return true
}

// ToggleOverview enters or leaves the multitask view.
func (s *Shell) ToggleOverview(reason overview.ActiveReason) {
	if s.view.Active() {
		s.ExitOverview(nil)
		return
	}
	s.EnterOverview(reason)
}

// refreshOverview lays out and commits the multitask view when it is
// shown. Hidden views are laid out again on the next Enter.
func (s *Shell) refreshOverview() {
	if s.view == nil || s.refreshing {
		return
	}
	s.refreshing = true
	defer func() { s.refreshing = false }()
	s.view.Refresh()
}
