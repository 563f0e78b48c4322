package shell

import (
	"fmt"

	"github.com/1broseidon/surfshell/internal/surface"
)

func workspaceName(id int) string {
	return fmt.Sprintf("workspace %d", id)
}

// Workspace describes one workspace. IDs start at 1; surfaces with
// workspace 0 are shown on all of them.
type Workspace struct {
	ID       int    `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Current  bool   `yaml:"current" json:"current"`
	Surfaces int    `yaml:"surfaces" json:"surfaces"`
}

// WorkspaceCount returns the number of workspaces.
func (s *Shell) WorkspaceCount() int { return len(s.workspaces) }

// CurrentWorkspace returns the ID of the visible workspace.
func (s *Shell) CurrentWorkspace() int { return s.current }

// Workspaces lists every workspace with the number of surfaces it owns.
func (s *Shell) Workspaces() []Workspace {
	out := make([]Workspace, len(s.workspaces))
	for i, name := range s.workspaces {
		out[i] = Workspace{ID: i + 1, Name: name, Current: i+1 == s.current}
	}
	for _, w := range s.reg.Surfaces() {
		if id := w.WorkspaceID(); id > 0 && id <= len(out) {
			out[id-1].Surfaces++
		}
	}
	return out
}

// SetCurrentWorkspace switches to workspace id. Focus moves to the most
// recent window of the new workspace.
func (s *Shell) SetCurrentWorkspace(id int) error {
	if id < 1 || id > len(s.workspaces) {
		return fmt.Errorf("%w: %d", ErrUnknownWorkspace, id)
	}
	if id == s.current {
		return nil
	}
	prev := s.current
	s.current = id
	s.logger.Info("workspace switched", "from", prev, "to", id)
	if s.showDesktop {
		s.SetShowDesktop(false)
	}
	if s.activated == nil || !s.activated.ShowOnWorkspace(id) {
		s.activateNext(nil)
	}
	s.Events.WorkspaceChanged.Emit(id)
	s.refreshOverview()
	return nil
}

// AddWorkspace appends a workspace and returns its ID.
func (s *Shell) AddWorkspace() (int, error) {
	if len(s.workspaces) >= s.cfg.Workspaces.Max {
		return 0, fmt.Errorf("%w: %d", ErrWorkspaceLimit, s.cfg.Workspaces.Max)
	}
	id := len(s.workspaces) + 1
	s.workspaces = append(s.workspaces, workspaceName(id))
	s.Events.WorkspacesChanged.Notify()
	return id, nil
}

// RemoveWorkspace deletes workspace id. Its surfaces move to the
// workspace before it (or the new first one) and later workspaces shift
// down by one.
func (s *Shell) RemoveWorkspace(id int) error {
	if id < 1 || id > len(s.workspaces) {
		return fmt.Errorf("%w: %d", ErrUnknownWorkspace, id)
	}
	if len(s.workspaces) == 1 {
		return ErrLastWorkspace
	}
	target := max(id-1, 1)
	for _, w := range s.Surfaces() {
		switch ws := w.WorkspaceID(); {
		case ws == id:
			w.SetWorkspaceID(target)
		case ws > id:
			w.SetWorkspaceID(ws - 1)
		}
	}
	s.workspaces = s.workspaces[:len(s.workspaces)-1]
	if s.current > id || s.current > len(s.workspaces) {
		s.current--
	} else if s.current == id {
		s.current = target
	}
	s.logger.Info("workspace removed", "workspace", id, "current", s.current)
	s.Events.WorkspacesChanged.Notify()
	s.Events.WorkspaceChanged.Emit(s.current)
	s.refreshOverview()
	return nil
}

// MoveSurfaceToWorkspace reassigns w. Zero shows it on every workspace. A
// focused surface leaving the current workspace hands focus on.
func (s *Shell) MoveSurfaceToWorkspace(w *surface.Wrapper, id int) error {
	if err := s.check(w); err != nil {
		return err
	}
	if id < 0 || id > len(s.workspaces) {
		return fmt.Errorf("%w: %d", ErrUnknownWorkspace, id)
	}
	w.SetWorkspaceID(id)
	if s.activated == w && !w.ShowOnWorkspace(s.current) {
		s.activateNext(w)
	}
	return nil
}
