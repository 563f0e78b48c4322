package surface

import (
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/stack"
)

// Type is the protocol family of a surface.
type Type int

const (
	TypeToplevel Type = iota
	TypeXWayland
	TypeLayer
	TypeInputPopup
)

func (t Type) String() string {
	switch t {
	case TypeToplevel:
		return "toplevel"
	case TypeXWayland:
		return "xwayland"
	case TypeLayer:
		return "layer"
	case TypeInputPopup:
		return "input-popup"
	default:
		return "unknown"
	}
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, bool) {
	for t := TypeToplevel; t <= TypeInputPopup; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return TypeToplevel, false
}

// State is the logical window state. Exactly one holds at a time.
type State int

const (
	StateNormal State = iota
	StateMaximized
	StateMinimized
	StateFullscreen
	StateTiling
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMaximized:
		return "maximized"
	case StateMinimized:
		return "minimized"
	case StateFullscreen:
		return "fullscreen"
	case StateTiling:
		return "tiling"
	default:
		return "unknown"
	}
}

// ParseState is the inverse of State.String.
func ParseState(s string) (State, bool) {
	for st := StateNormal; st <= StateTiling; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return StateNormal, false
}

// TitleBarState is the explicit title bar override.
type TitleBarState int

const (
	TitleBarDefault TitleBarState = iota
	TitleBarVisible
	TitleBarHidden
)

// Client is the protocol-side surface a Wrapper drives. Setters mirror the
// window-manager-visible flags to the client.
type Client interface {
	// Resize asks the client to adopt size. It returns false when the
	// client cannot honour it.
	Resize(size geom.Size) bool
	SetMinimize(on bool)
	SetMaximize(on bool)
	SetFullscreen(on bool)
	SetActivate(on bool)
	Close()
}

// Container owns a set of surfaces and may veto their changes.
type Container interface {
	Scene() stack.SceneID
	// FilterStateChange returns true to veto the transition.
	FilterStateChange(w *Wrapper, proposed, current State) bool
	// FilterGeometryChange returns true to veto the change. It may adjust
	// *proposed instead.
	FilterGeometryChange(w *Wrapper, proposed *geom.Rect, previous geom.Rect) bool
	RemoveSurface(w *Wrapper)
}

// Output is the display a surface belongs to.
type Output interface {
	RemoveSurface(w *Wrapper)
}

// ContainerID and OutputID are stable handles resolved through a Registry.
// Zero means none.
type (
	ContainerID uint32
	OutputID    uint32
)
