package surface

import (
	"github.com/1broseidon/surfshell/internal/animation"
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/invariant"
)

// State is the current logical state.
func (w *Wrapper) State() State { return w.state }

// PreviousState is the state held immediately before the current one.
func (w *Wrapper) PreviousState() State { return w.previous }

func (w *Wrapper) IsNormal() bool     { return w.state == StateNormal }
func (w *Wrapper) IsMaximized() bool  { return w.state == StateMaximized }
func (w *Wrapper) IsMinimized() bool  { return w.state == StateMinimized }
func (w *Wrapper) IsFullscreen() bool { return w.state == StateFullscreen }
func (w *Wrapper) IsTiling() bool     { return w.state == StateTiling }

// AnimationRunning reports whether a state change animation is in flight.
func (w *Wrapper) AnimationRunning() bool { return w.geometryAnim != nil }

// MinimizeAnimationRunning reports whether a minimize or restore animation
// is in flight.
func (w *Wrapper) MinimizeAnimationRunning() bool { return w.minimizeAnim != nil }

// CloseAnimationRunning reports whether an open or close transition is in
// flight.
func (w *Wrapper) CloseAnimationRunning() bool { return w.openCloseAnim != nil }

// Animating reports whether a state-affecting animation is in flight. Only
// one may run per surface; state changes are rejected until it finishes.
func (w *Wrapper) Animating() bool {
	return w.geometryAnim != nil || w.minimizeAnim != nil
}

// PendingState is the target of the in-flight state change, or the current
// state when none is running.
func (w *Wrapper) PendingState() State {
	if w.geometryAnim != nil {
		return w.pendingState
	}
	return w.state
}

// SetState requests a transition to target. It returns false when the
// request was rejected: another animation is running, target is already
// current, or the container vetoed it. Otherwise the transition was applied
// (target has no cached geometry) or its animation was started and the
// flip happens on the animation's Ready callback.
func (w *Wrapper) SetState(target State) bool {
	if w.destroyed {
		return false
	}
	if w.Animating() {
		w.logger.Debug("state change rejected: animation in flight", "target", target.String())
		return false
	}
	if target == w.state {
		return false
	}
	if c := w.resolveContainer(); c != nil && c.FilterStateChange(w, target, w.state) {
		w.logger.Debug("state change vetoed", "from", w.state.String(), "target", target.String())
		return false
	}

	to := w.geoms.For(target)
	if to.IsValid() {
		return w.startStateChangeAnimation(target, to)
	}
	w.doSetState(target)
	return true
}

func (w *Wrapper) startStateChangeAnimation(target State, to geom.Rect) bool {
	if w.geometryAnim != nil {
		return false
	}
	w.pendingState = target
	w.pendingGeometry = to
	w.geometryAnim = w.reg.driver.StartGeometry(w.geometry, to, animation.Callbacks{
		OnFrame:    w.frameHandler(animation.KindGeometry),
		OnReady:    w.onGeometryReady,
		OnFinished: w.onGeometryFinished,
	})
	return true
}

func (w *Wrapper) onGeometryReady() {
	if !invariant.Check(w.pendingState != w.state && w.pendingGeometry.IsValid(),
		"geometry animation ready with pending %s and current %s", w.pendingState, w.state) {
		w.releaseGeometryAnimation()
		return
	}
	if !w.resizeClient(w.pendingGeometry.Size()) {
		w.logger.Info("state change aborted: client rejected size",
			"target", w.pendingState.String(), "geometry", w.pendingGeometry.String())
		w.releaseGeometryAnimation()
		return
	}
	w.changeGeometry(w.geometry.Moved(w.pendingGeometry.TopLeft()))
	w.doSetState(w.pendingState)
}

func (w *Wrapper) onGeometryFinished() {
	w.geometryAnim = nil
}

func (w *Wrapper) releaseGeometryAnimation() {
	if w.geometryAnim != nil {
		w.geometryAnim.Stop()
		w.geometryAnim = nil
	}
}

// doSetState flips the state and mirrors it to the client.
func (w *Wrapper) doSetState(target State) {
	w.setVisibleDecoration(target == StateNormal)
	w.setNoCornerRadius(target != StateNormal)

	w.previous, w.state = w.state, target

	switch w.previous {
	case StateMaximized:
		w.client.SetMaximize(false)
	case StateMinimized:
		w.client.SetMinimize(false)
		w.updateCapability(CapUnminimized, true)
	case StateFullscreen:
		w.client.SetFullscreen(false)
	}

	switch w.state {
	case StateMaximized:
		w.client.SetMaximize(true)
	case StateMinimized:
		w.client.SetMinimize(true)
		w.updateCapability(CapUnminimized, false)
	case StateFullscreen:
		w.client.SetFullscreen(true)
	}

	w.logger.Debug("state changed", "from", w.previous.String(), "to", w.state.String())
	w.Events.StateChanged.Notify()
	w.updateTitleBar()
	w.updateVisible()
}

// SetMapped reacts to the client surface being mapped or unmapped by
// running the open or close transition.
func (w *Wrapper) SetMapped(mapped bool) {
	if w.mapped == mapped || w.destroyed {
		return
	}
	w.mapped = mapped
	if mapped {
		w.startOpenClose(animation.Open)
	} else {
		w.startOpenClose(animation.Close)
	}
	w.updateCapability(CapMapped, mapped)
	w.updateVisible()
}

// startOpenClose runs the open/close transition. Only toplevel and
// XWayland surfaces inside a container have one, and a running transition
// is never interrupted.
func (w *Wrapper) startOpenClose(dir animation.Direction) {
	if w.openCloseAnim != nil {
		return
	}
	if w.typ != TypeToplevel && w.typ != TypeXWayland {
		return
	}
	if w.resolveContainer() == nil {
		return
	}
	w.openCloseAnim = w.reg.driver.StartOpenClose(w.geometry, dir, animation.Callbacks{
		OnFrame:    w.frameHandler(animation.KindOpenClose),
		OnFinished: w.onOpenCloseFinished,
	})
}

func (w *Wrapper) onOpenCloseFinished() {
	w.openCloseAnim = nil
	if w.removeOnClose {
		w.removeOnClose = false
		w.Destroy()
	}
}

// StartMinimizeAnimation collapses the surface into icon (Close) or grows
// it back (Open). It is a no-op while one is already running.
func (w *Wrapper) StartMinimizeAnimation(icon geom.Rect, dir animation.Direction) {
	if w.minimizeAnim != nil || w.destroyed {
		return
	}
	w.minimizeAnim = w.reg.driver.StartMinimize(w.geometry, icon, dir, animation.Callbacks{
		OnFrame:    w.frameHandler(animation.KindMinimize),
		OnFinished: func() { w.minimizeAnim = nil },
	})
}

// StartShowAnimation fades the surface for the show-desktop toggle.
func (w *Wrapper) StartShowAnimation(show bool) {
	if w.showAnim != nil || w.destroyed {
		return
	}
	w.showAnim = w.reg.driver.StartShow(w.geometry, show, animation.Callbacks{
		OnFrame:    w.frameHandler(animation.KindShow),
		OnFinished: func() { w.showAnim = nil },
	})
}

func (w *Wrapper) frameHandler(kind animation.Kind) func(animation.Frame) {
	return func(f animation.Frame) {
		w.Events.AnimationFrame.Emit(AnimationFrame{Kind: kind, Frame: f})
	}
}

// RequestMinimize minimizes the surface and plays the minimize animation
// toward its icon.
func (w *Wrapper) RequestMinimize() {
	w.SetState(StateMinimized)
	if w.state == StateMinimized {
		w.StartMinimizeAnimation(w.iconGeometry, animation.Close)
	}
}

// RequestCancelMinimize restores the state held before minimizing.
func (w *Wrapper) RequestCancelMinimize() {
	if w.state != StateMinimized {
		return
	}
	w.doSetState(w.previous)
	if w.minimizeAnim != nil {
		w.minimizeAnim.Stop()
		w.minimizeAnim = nil
	}
	w.StartMinimizeAnimation(w.iconGeometry, animation.Open)
}

// RequestMaximize is ignored while minimized or fullscreen.
func (w *Wrapper) RequestMaximize() {
	if w.state == StateMinimized || w.state == StateFullscreen {
		return
	}
	w.SetState(StateMaximized)
}

func (w *Wrapper) RequestCancelMaximize() {
	if w.state != StateMaximized {
		return
	}
	w.SetState(StateNormal)
}

func (w *Wrapper) RequestToggleMaximize() {
	if w.state == StateMaximized {
		w.RequestCancelMaximize()
	} else {
		w.RequestMaximize()
	}
}

// RequestFullscreen is ignored while minimized.
func (w *Wrapper) RequestFullscreen() {
	if w.state == StateMinimized {
		return
	}
	w.SetState(StateFullscreen)
}

// RequestCancelFullscreen restores the state held before fullscreen.
func (w *Wrapper) RequestCancelFullscreen() {
	if w.state != StateFullscreen {
		return
	}
	w.SetState(w.previous)
}

// RequestClose asks the client to close.
func (w *Wrapper) RequestClose() {
	w.client.Close()
}
