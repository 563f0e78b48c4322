package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// allDesktops is the _NET_WM_DESKTOP value of sticky windows.
const allDesktops = 0xFFFFFFFF

// pager marks client messages as direct user actions.
const pager = 2

// GetCurrentDesktop returns the current virtual desktop number (0-indexed).
func (c *Connection) GetCurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// GetWindowDesktop returns the desktop number a window is on, or -1 for
// windows visible on all desktops.
func (c *Connection) GetWindowDesktop(windowID xproto.Window) (int, error) {
	desktop, err := ewmh.WmDesktopGet(c.XUtil, windowID)
	if err != nil {
		return 0, fmt.Errorf("failed to get window desktop: %w", err)
	}
	if desktop == allDesktops {
		return -1, nil
	}
	return int(desktop), nil
}

// GetDesktopCount returns the number of virtual desktops.
func (c *Connection) GetDesktopCount() (int, error) {
	count, err := ewmh.NumberOfDesktopsGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get desktop count: %w", err)
	}
	return int(count), nil
}

// SetWindowDesktop moves a window to the specified virtual desktop; a
// negative desktop makes it sticky. The message is built by hand because
// ewmh.WmDesktopReq panics on this xgbutil version (uint vs int type
// assertion).
func (c *Connection) SetWindowDesktop(windowID xproto.Window, desktop int) error {
	value := uint32(allDesktops)
	if desktop >= 0 {
		value = uint32(desktop)
	}
	if err := c.sendRootMessage(windowID, "_NET_WM_DESKTOP", value, pager); err != nil {
		return fmt.Errorf("failed to set window desktop: %w", err)
	}
	return nil
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	if err := c.sendRootMessage(windowID, "_NET_ACTIVE_WINDOW", pager); err != nil {
		return fmt.Errorf("failed to activate window: %w", err)
	}
	return nil
}
