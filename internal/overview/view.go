package overview

import (
	"fmt"

	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/signal"
	"github.com/1broseidon/surfshell/internal/surface"
)

// Status is the lifecycle of the multitask view.
type Status int

const (
	StatusUninitialized Status = iota
	StatusInitialized
	StatusActive
	StatusExited
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitialized:
		return "initialized"
	case StatusActive:
		return "active"
	case StatusExited:
		return "exited"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ActiveReason records what opened the view.
type ActiveReason int

const (
	ReasonShortcutKey ActiveReason = iota + 1
	ReasonGesture
)

func (r ActiveReason) String() string {
	switch r {
	case ReasonShortcutKey:
		return "shortcut"
	case ReasonGesture:
		return "gesture"
	default:
		return "none"
	}
}

// View drives a Model through the enter/exit cycle of the multitask view.
type View struct {
	model    *Model
	activate func(*surface.Wrapper)
	status   Status
	reason   ActiveReason

	StatusChanged signal.Signal[Status]
}

// NewView wraps model. activate is called with the surface chosen on exit.
func NewView(model *Model, activate func(*surface.Wrapper)) *View {
	return &View{model: model, activate: activate}
}

func (v *View) Model() *Model              { return v.model }
func (v *View) Status() Status             { return v.status }
func (v *View) ActiveReason() ActiveReason { return v.reason }
func (v *View) Active() bool               { return v.status == StatusActive }

func (v *View) setStatus(s Status) {
	if v.status == s {
		return
	}
	logging.Logger().Debug("multitask view status", "from", v.status, "to", s)
	v.status = s
	v.StatusChanged.Emit(s)
}

// Initialize builds the first layout without showing it.
func (v *View) Initialize() {
	if v.status != StatusUninitialized {
		return
	}
	v.model.Relayout()
	v.model.Commit()
	v.setStatus(StatusInitialized)
}

// Enter shows the view. It returns false when already active.
func (v *View) Enter(reason ActiveReason) bool {
	if v.status == StatusActive {
		return false
	}
	v.Initialize()
	v.reason = reason
	v.model.Relayout()
	v.model.Commit()
	v.setStatus(StatusActive)
	return true
}

// Exit leaves the view, activating w when it is non-nil. It returns false
// when the view was not active.
func (v *View) Exit(w *surface.Wrapper) bool {
	if v.status != StatusActive {
		return false
	}
	v.reason = 0
	v.setStatus(StatusExited)
	if w != nil && v.activate != nil {
		v.activate(w)
	}
	return true
}

// Toggle enters or exits without choosing a surface.
func (v *View) Toggle(reason ActiveReason) {
	if v.Active() {
		v.Exit(nil)
		return
	}
	v.Enter(reason)
}

// Refresh lays out again and commits while the view is visible. Inactive
// views only refresh their z-order on the next Enter.
func (v *View) Refresh() (first, last int) {
	if v.status != StatusActive {
		return -1, -1
	}
	v.model.Relayout()
	return v.model.Commit()
}
