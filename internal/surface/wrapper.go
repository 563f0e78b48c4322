// Package surface implements the per-window state machine of the shell.
//
// A Wrapper owns one client surface: its logical state (normal, maximized,
// minimized, fullscreen, tiling), the cached geometry of every state, its
// focus capabilities and its place in the shared stacking tree. State
// changes are coordinated with an animation.Driver and only become
// authoritative on the animation's Ready callback.
//
// Wrappers are not safe for concurrent use. Every method must be called on
// the goroutine that runs the event loop.
package surface

import (
	"log/slog"

	"github.com/1broseidon/surfshell/internal/animation"
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/invariant"
	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/signal"
	"github.com/1broseidon/surfshell/internal/stack"
)

// AnimationFrame is one frame of any animation running on a wrapper.
type AnimationFrame struct {
	Kind animation.Kind
	animation.Frame
}

// Events are the change notifications a wrapper publishes.
type Events struct {
	StateChanged              signal.Notifier
	GeometryChanged           signal.Notifier
	CachedGeometryChanged     signal.Signal[State]
	BoundingRectChanged       signal.Notifier
	VisibleChanged            signal.Notifier
	NoTitleBarChanged         signal.Notifier
	NoDecorationChanged       signal.Notifier
	VisibleDecorationChanged  signal.Notifier
	NoCornerRadiusChanged     signal.Notifier
	RadiusChanged             signal.Notifier
	AlwaysOnTopChanged        signal.Notifier
	WorkspaceIDChanged        signal.Notifier
	ShowOnAllWorkspaceChanged signal.Notifier
	ContainerChanged          signal.Notifier
	OutputChanged             signal.Notifier
	PositionAutomaticChanged  signal.Notifier
	RequestActive             signal.Notifier
	RequestDeactive           signal.Notifier
	AnimationFrame            signal.Signal[AnimationFrame]
	Destroyed                 signal.Notifier
}

// Wrapper is the shell-side representation of one client window.
type Wrapper struct {
	reg    *Registry
	node   stack.ID
	client Client
	typ    Type
	serial uint64
	logger *slog.Logger

	geometry geom.Rect
	geoms    GeometrySet
	bounding geom.Rect
	content  geom.Rect

	state           State
	previous        State
	pendingState    State
	pendingGeometry geom.Rect

	geometryAnim  animation.Handle
	openCloseAnim animation.Handle
	minimizeAnim  animation.Handle
	showAnim      animation.Handle
	removeOnClose bool
	destroyed     bool

	mapped     bool
	visible    bool
	activated  bool
	activation ActivationTracker

	noDecoration      bool
	visibleDecoration bool
	titleBarState     TitleBarState
	hasTitleBar       bool
	noCornerRadius    bool
	radius            float64
	iconGeometry      geom.Rect
	blur              bool
	clipInOutput      bool

	container ContainerID
	output    OutputID
	workspace int

	skipSwitcher      bool
	skipDockPreview   bool
	skipMultitaskView bool

	positionAutomatic bool
	autoPlaceYOffset  uint32
	clientRequestPos  geom.Point

	Events Events
}

// NewWrapper creates a wrapper for client and registers it. The wrapper
// starts unmapped, in Normal state, without container or output.
func (r *Registry) NewWrapper(client Client, typ Type) *Wrapper {
	r.serial++
	w := &Wrapper{
		reg:               r,
		node:              r.tree.NewSurface(),
		client:            client,
		typ:               typ,
		serial:            r.serial,
		noDecoration:      true,
		visibleDecoration: true,
		positionAutomatic: true,
	}
	w.logger = logging.Logger().With("surface", w.node.String(), "type", typ.String())
	w.activation.Set(CapUnminimized, true)
	r.surfaces[w.node] = w
	return w
}

// Node is the wrapper's handle in the stacking tree.
func (w *Wrapper) Node() stack.ID { return w.node }

// Serial is the creation order of the wrapper within its registry.
func (w *Wrapper) Serial() uint64 { return w.serial }

func (w *Wrapper) Type() Type { return w.typ }

func (w *Wrapper) Client() Client { return w.client }

// Destroyed reports whether the wrapper was torn down.
func (w *Wrapper) Destroyed() bool { return w.destroyed }

// Geometry is the current on-screen rect.
func (w *Wrapper) Geometry() geom.Rect { return w.geometry }

// Geometries returns a copy of the per-state geometry cache.
func (w *Wrapper) Geometries() GeometrySet { return w.geoms }

func (w *Wrapper) NormalGeometry() geom.Rect     { return w.geoms.Normal }
func (w *Wrapper) MaximizedGeometry() geom.Rect  { return w.geoms.Maximized }
func (w *Wrapper) FullscreenGeometry() geom.Rect { return w.geoms.Fullscreen }
func (w *Wrapper) TilingGeometry() geom.Rect     { return w.geoms.Tiling }

func (w *Wrapper) SetNormalGeometry(r geom.Rect)     { w.setCachedGeometry(StateNormal, r) }
func (w *Wrapper) SetMaximizedGeometry(r geom.Rect)  { w.setCachedGeometry(StateMaximized, r) }
func (w *Wrapper) SetFullscreenGeometry(r geom.Rect) { w.setCachedGeometry(StateFullscreen, r) }
func (w *Wrapper) SetTilingGeometry(r geom.Rect)     { w.setCachedGeometry(StateTiling, r) }

// setCachedGeometry updates the cache for s. The active state's geometry
// is applied at once; the pending target of an in-flight state animation
// retargets it, except for Tiling.
func (w *Wrapper) setCachedGeometry(s State, r geom.Rect) {
	if !w.geoms.set(s, r) {
		return
	}
	switch {
	case w.state == s && r.IsValid():
		w.applyGeometry(r)
	case w.geometryAnim != nil && w.pendingState == s && s != StateTiling:
		w.pendingGeometry = r
		w.geometryAnim.Retarget(r)
	}
	w.Events.CachedGeometryChanged.Emit(s)
}

// MoveNormalGeometryInOutput moves the normal geometry to p keeping its
// size. A Normal surface moves with it.
func (w *Wrapper) MoveNormalGeometryInOutput(p geom.Point) {
	r := geom.RectFrom(p, w.geoms.Normal.Size())
	if w.geoms.set(StateNormal, r) {
		w.Events.CachedGeometryChanged.Emit(StateNormal)
	}
	switch {
	case w.state == StateNormal:
		w.changeGeometry(w.geometry.Moved(p))
	case w.geometryAnim != nil && w.pendingState == StateNormal:
		w.pendingGeometry = r
		w.geometryAnim.Retarget(r)
	}
}

// SetGeometry is the compositor-side move/resize entry point. It reports
// whether the change was applied.
func (w *Wrapper) SetGeometry(r geom.Rect) bool {
	return w.applyGeometry(r)
}

func (w *Wrapper) applyGeometry(r geom.Rect) bool {
	if !w.resizeClient(r.Size()) {
		return false
	}
	return w.changeGeometry(w.geometry.Moved(r.TopLeft()))
}

// resizeClient asks the client to take size and adopts it on success.
func (w *Wrapper) resizeClient(size geom.Size) bool {
	if size == w.geometry.Size() {
		return true
	}
	if !size.IsValid() || !w.client.Resize(size) {
		w.logger.Debug("resize rejected", "width", size.Width, "height", size.Height)
		return false
	}
	return w.changeGeometry(w.geometry.Resized(size))
}

func (w *Wrapper) changeGeometry(r geom.Rect) bool {
	old := w.geometry
	if r == old {
		return true
	}
	if c := w.resolveContainer(); c != nil && c.FilterGeometryChange(w, &r, old) {
		return false
	}
	w.geometry = r
	if w.state == StateNormal && w.geometryAnim == nil && w.geoms.set(StateNormal, r) {
		w.Events.CachedGeometryChanged.Emit(StateNormal)
	}
	w.Events.GeometryChanged.Notify()
	if r.Size() != old.Size() {
		w.updateBoundingRect()
	}
	return true
}

// BoundingRect is the union of the surface rect at the origin, the client
// content bounds and the visible decoration.
func (w *Wrapper) BoundingRect() geom.Rect { return w.bounding }

// SetContentBounds records the client content bounds relative to the
// surface origin (popups and shadows may extend past it).
func (w *Wrapper) SetContentBounds(r geom.Rect) {
	if w.content == r {
		return
	}
	w.content = r
	w.updateBoundingRect()
}

// DecorationRect is the decoration's rect relative to the surface origin,
// or the zero Rect without decoration.
func (w *Wrapper) DecorationRect() geom.Rect {
	if w.noDecoration {
		return geom.Rect{}
	}
	m := w.reg.DecorationMargin
	return geom.Rect{X: -m, Y: -m, Width: w.geometry.Width + 2*m, Height: w.geometry.Height + 2*m}
}

func (w *Wrapper) updateBoundingRect() {
	r := geom.RectFrom(geom.Point{}, w.geometry.Size()).Union(w.content)
	if !w.noDecoration && w.visibleDecoration {
		r = r.Union(w.DecorationRect())
	}
	if r == w.bounding {
		return
	}
	w.bounding = r
	w.Events.BoundingRectChanged.Notify()
}

func (w *Wrapper) NoDecoration() bool      { return w.noDecoration }
func (w *Wrapper) VisibleDecoration() bool { return w.visibleDecoration }
func (w *Wrapper) NoCornerRadius() bool    { return w.noCornerRadius }

// SetNoDecoration switches between client-side (true) and server-side
// decorations.
func (w *Wrapper) SetNoDecoration(no bool) {
	w.setNoCornerRadius(no)
	if w.noDecoration == no {
		return
	}
	w.noDecoration = no
	if w.titleBarState == TitleBarDefault {
		w.updateTitleBar()
	}
	w.updateBoundingRect()
	w.Events.NoDecorationChanged.Notify()
}

func (w *Wrapper) setVisibleDecoration(v bool) {
	if w.visibleDecoration == v {
		return
	}
	w.visibleDecoration = v
	w.updateBoundingRect()
	w.Events.VisibleDecorationChanged.Notify()
}

func (w *Wrapper) setNoCornerRadius(v bool) {
	if w.noCornerRadius == v {
		return
	}
	w.noCornerRadius = v
	w.Events.NoCornerRadiusChanged.Notify()
}

// NoTitleBar reports whether the server-side title bar is hidden.
func (w *Wrapper) NoTitleBar() bool {
	if w.state == StateFullscreen {
		return true
	}
	if w.titleBarState == TitleBarVisible {
		return false
	}
	return w.titleBarState == TitleBarHidden || w.noDecoration
}

// SetNoTitleBar overrides the title bar visibility.
func (w *Wrapper) SetNoTitleBar(no bool) {
	if no {
		w.titleBarState = TitleBarHidden
	} else {
		w.titleBarState = TitleBarVisible
	}
	w.updateTitleBar()
}

// ResetNoTitleBar drops the override.
func (w *Wrapper) ResetNoTitleBar() {
	w.titleBarState = TitleBarDefault
	w.updateTitleBar()
}

// TitleBarGeometry is the title bar rect relative to the surface, or the
// zero Rect when hidden.
func (w *Wrapper) TitleBarGeometry() geom.Rect {
	if !w.hasTitleBar {
		return geom.Rect{}
	}
	return geom.Rect{Width: w.geometry.Width, Height: w.reg.TitleBarHeight}
}

func (w *Wrapper) updateTitleBar() {
	if w.NoTitleBar() == !w.hasTitleBar {
		return
	}
	w.hasTitleBar = !w.hasTitleBar
	w.Events.NoTitleBarChanged.Notify()
}

// Radius is the corner radius. Unset radii fall back to the configured
// window radius, except for layer surfaces.
func (w *Wrapper) Radius() float64 {
	if w.radius < 1 && w.typ != TypeLayer {
		return w.reg.WindowRadius
	}
	return w.radius
}

func (w *Wrapper) SetRadius(r float64) {
	if w.radius == r {
		return
	}
	w.radius = r
	w.Events.RadiusChanged.Notify()
}

func (w *Wrapper) Visible() bool { return w.visible }
func (w *Wrapper) Mapped() bool  { return w.mapped }

func (w *Wrapper) updateVisible() {
	v := w.state != StateMinimized && w.mapped
	if v == w.visible {
		return
	}
	w.visible = v
	w.Events.VisibleChanged.Notify()
}

// HasActiveCapability reports whether the surface may receive focus.
func (w *Wrapper) HasActiveCapability() bool { return w.activation.Full() }

// Capabilities returns the raw activation capability bits.
func (w *Wrapper) Capabilities() Capability { return w.activation.Bits() }

func (w *Wrapper) updateCapability(c Capability, on bool) {
	switch w.activation.Set(c, on) {
	case 1:
		w.Events.RequestActive.Notify()
	case -1:
		w.Events.RequestDeactive.Notify()
	}
}

// Activated reports the last activation state pushed to the client.
func (w *Wrapper) Activated() bool { return w.activated }

// SetActivate pushes activation to the client and every ancestor.
// Activating requires the full capability set.
func (w *Wrapper) SetActivate(on bool) bool {
	if !invariant.Check(!on || w.HasActiveCapability(), "activate %v without capability (%s)", w.node, w.activation.Bits()) {
		return false
	}
	for cur := w; cur != nil; cur = cur.ParentSurface() {
		cur.activated = on
		cur.client.SetActivate(on)
	}
	return true
}

// Container returns the container handle; zero means none.
func (w *Wrapper) Container() ContainerID { return w.container }

func (w *Wrapper) resolveContainer() Container {
	if w.container == 0 {
		return nil
	}
	c, ok := w.reg.Container(w.container)
	if !ok {
		return nil
	}
	return c
}

// SetContainer moves the wrapper into the container behind id and attaches
// it to the container's scene. Zero detaches it.
func (w *Wrapper) SetContainer(id ContainerID) {
	if w.container == id {
		return
	}
	w.container = id
	c := w.resolveContainer()
	if c != nil {
		w.reg.tree.Attach(w.node, c.Scene())
	} else {
		w.reg.tree.Detach(w.node)
	}
	w.updateCapability(CapHasContainer, c != nil)
	w.Events.ContainerChanged.Notify()
}

// Output returns the owning output handle; zero means none.
func (w *Wrapper) Output() OutputID { return w.output }

// SetOutput moves the wrapper to another output.
func (w *Wrapper) SetOutput(id OutputID) {
	if w.output == id {
		return
	}
	if o, ok := w.reg.Output(w.output); ok {
		o.RemoveSurface(w)
	}
	w.output = id
	w.Events.OutputChanged.Notify()
}

// WorkspaceID is the workspace index; 0 means every workspace.
func (w *Wrapper) WorkspaceID() int { return w.workspace }

func (w *Wrapper) SetWorkspaceID(id int) {
	if w.workspace == id {
		return
	}
	allChanged := w.workspace == 0 || id == 0
	w.workspace = id
	if allChanged {
		w.Events.ShowOnAllWorkspaceChanged.Notify()
	}
	w.Events.WorkspaceIDChanged.Notify()
}

// ShowOnAllWorkspace reports whether the surface is on every workspace.
// Layer surfaces always are.
func (w *Wrapper) ShowOnAllWorkspace() bool {
	return w.typ == TypeLayer || w.workspace == 0
}

// ShowOnWorkspace reports whether the surface belongs on workspace id.
func (w *Wrapper) ShowOnWorkspace(id int) bool {
	return w.workspace == id || w.ShowOnAllWorkspace()
}

func (w *Wrapper) IconGeometry() geom.Rect     { return w.iconGeometry }
func (w *Wrapper) SetIconGeometry(r geom.Rect) { w.iconGeometry = r }

func (w *Wrapper) Blur() bool         { return w.blur }
func (w *Wrapper) SetBlur(on bool)    { w.blur = on }
func (w *Wrapper) ClipInOutput() bool { return w.clipInOutput }

func (w *Wrapper) SetClipInOutput(on bool) { w.clipInOutput = on }

// ClipRect is the visible part of the surface in output coordinates. It is
// the whole geometry unless clipping is on and the output is known.
func (w *Wrapper) ClipRect() geom.Rect {
	if w.clipInOutput && w.geoms.Fullscreen.IsValid() {
		return w.geoms.Fullscreen.Intersect(w.geometry)
	}
	return w.geometry
}

func (w *Wrapper) SkipSwitcher() bool      { return w.skipSwitcher }
func (w *Wrapper) SkipDockPreview() bool   { return w.skipDockPreview }
func (w *Wrapper) SkipMultitaskView() bool { return w.skipMultitaskView }

func (w *Wrapper) SetSkipSwitcher(v bool)      { w.skipSwitcher = v }
func (w *Wrapper) SetSkipDockPreview(v bool)   { w.skipDockPreview = v }
func (w *Wrapper) SetSkipMultitaskView(v bool) { w.skipMultitaskView = v }

// PositionAutomatic reports whether the shell picks the initial position.
func (w *Wrapper) PositionAutomatic() bool { return w.positionAutomatic }

func (w *Wrapper) SetPositionAutomatic(v bool) {
	if w.positionAutomatic == v {
		return
	}
	w.positionAutomatic = v
	w.Events.PositionAutomaticChanged.Notify()
}

func (w *Wrapper) AutoPlaceYOffset() uint32 { return w.autoPlaceYOffset }

// SetAutoPlaceYOffset shifts automatic placement down; a non-zero offset
// disables automatic positioning.
func (w *Wrapper) SetAutoPlaceYOffset(off uint32) {
	if w.autoPlaceYOffset == off {
		return
	}
	w.autoPlaceYOffset = off
	w.SetPositionAutomatic(off == 0)
}

func (w *Wrapper) ClientRequestPos() geom.Point { return w.clientRequestPos }

// SetClientRequestPos records the position the client asked for. Asking
// for the origin restores automatic positioning.
func (w *Wrapper) SetClientRequestPos(p geom.Point) {
	if w.clientRequestPos == p {
		return
	}
	w.clientRequestPos = p
	w.SetPositionAutomatic(p == geom.Point{})
}

// Release destroys the wrapper once its open/close transition has
// finished, or at once when none is running.
func (w *Wrapper) Release() {
	if w.openCloseAnim != nil {
		w.removeOnClose = true
		return
	}
	w.Destroy()
}

// SetRemoveOnClose marks the wrapper for destruction at the end of the
// running open/close transition.
func (w *Wrapper) SetRemoveOnClose(v bool) { w.removeOnClose = v }

// Destroy tears the wrapper down: animations stop, it leaves its output,
// container and parent, and its children become parentless.
func (w *Wrapper) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	for _, h := range []animation.Handle{w.geometryAnim, w.openCloseAnim, w.minimizeAnim, w.showAnim} {
		if h != nil {
			h.Stop()
		}
	}
	w.geometryAnim, w.openCloseAnim, w.minimizeAnim, w.showAnim = nil, nil, nil, nil

	if o, ok := w.reg.Output(w.output); ok {
		o.RemoveSurface(w)
	}
	w.output = 0
	if c := w.resolveContainer(); c != nil {
		c.RemoveSurface(w)
	}
	w.container = 0

	w.reg.tree.Remove(w.node)
	delete(w.reg.surfaces, w.node)
	w.logger.Debug("surface destroyed")
	w.Events.Destroyed.Notify()
}
