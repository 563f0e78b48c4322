package x11

import (
	"slices"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/surfshell/internal/geom"
)

// EWMH state atoms the bridge mirrors.
const (
	StateHidden     = "_NET_WM_STATE_HIDDEN"
	StateFullscreen = "_NET_WM_STATE_FULLSCREEN"
	StateMaxHorz    = "_NET_WM_STATE_MAXIMIZED_HORZ"
	StateMaxVert    = "_NET_WM_STATE_MAXIMIZED_VERT"
)

// _NET_WM_STATE actions.
const (
	stateRemove = 0
	stateAdd    = 1
)

// MoveResizeWindow moves and resizes a window to the specified geometry.
// A maximized window is unmaximized first.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	if c.HasState(windowID, StateMaxHorz) || c.HasState(windowID, StateMaxVert) {
		_ = c.SetState(windowID, false, StateMaxHorz, StateMaxVert)
	}

	// EWMH first for window manager compatibility, then the direct request.
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// WindowRect returns the window's root-relative geometry.
func (c *Connection) WindowRect(windowID xproto.Window) (geom.Rect, error) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return geom.Rect{}, err
	}
	t, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.Rect{
		X:      float64(t.DstX),
		Y:      float64(t.DstY),
		Width:  float64(g.Width),
		Height: float64(g.Height),
	}, nil
}

// States returns the window's _NET_WM_STATE atoms.
func (c *Connection) States(windowID xproto.Window) []string {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return nil
	}
	return states
}

// HasState reports whether the window carries state.
func (c *Connection) HasState(windowID xproto.Window, state string) bool {
	return slices.Contains(c.States(windowID), state)
}

// SetState asks the window manager to add or remove up to two states.
func (c *Connection) SetState(windowID xproto.Window, on bool, first string, second ...string) error {
	action := stateRemove
	if on {
		action = stateAdd
	}
	if len(second) > 0 {
		return ewmh.WmStateReqExtra(c.XUtil, windowID, action, first, second[0], 2)
	}
	return ewmh.WmStateReq(c.XUtil, windowID, action, first)
}

// Iconify minimizes a window via WM_CHANGE_STATE.
func (c *Connection) Iconify(windowID xproto.Window) error {
	const iconicState = 3
	return c.sendRootMessage(windowID, "WM_CHANGE_STATE", iconicState)
}

// CloseWindow requests graceful window close via WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	deleteAtom, err := c.internAtom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocols, err := c.internAtom("WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	// Untyped windows are normal.
	return len(types) == 0
}

func (c *Connection) hasWindowType(windowID xproto.Window, typ string) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	return err == nil && slices.Contains(types, typ)
}

// WindowTitle prefers _NET_WM_NAME over WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// WindowClass returns the WM_CLASS class part.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowPID returns _NET_WM_PID or 0.
func (c *Connection) WindowPID(windowID xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0
	}
	return int(pid)
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
