//go:build linux

package platform

import (
	"fmt"
	"slices"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/surfshell/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var (
	_ Backend  = (*LinuxBackend)(nil)
	_ Desktops = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop makes EventLoop return.
func (b *LinuxBackend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// ActiveDisplay returns the currently active display. Usable excludes
// docks and panels.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	active, err := conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}

	d := displayFromMonitor(*active)
	if displays, err := b.Displays(); err == nil {
		for _, full := range displays {
			if full.ID == d.ID {
				d.Bounds = full.Bounds
			}
		}
	}
	return d, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindowsOnDisplay lists normal windows whose centers are inside the
// display bounds, on every desktop.
func (b *LinuxBackend) ListWindowsOnDisplay(displayID int) ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	displays, err := b.Displays()
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(displays, func(d Display) bool { return d.ID == displayID })
	if idx < 0 {
		return nil, fmt.Errorf("display with id %d not found", displayID)
	}
	target := displays[idx]

	clients, err := ewmh.ClientListGet(conn.XUtil)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, id := range clients {
		if !conn.IsNormalWindow(id) {
			continue
		}
		r, err := conn.WindowRect(id)
		if err != nil {
			continue
		}
		bounds := RectOf(r)
		if !target.Bounds.containsPoint(bounds.X+bounds.Width/2, bounds.Y+bounds.Height/2) {
			continue
		}

		desktop, err := conn.GetWindowDesktop(id)
		known := err == nil
		if !known {
			desktop = -1
		}
		windows = append(windows, Window{
			ID:      WindowID(id),
			PID:     conn.WindowPID(id),
			AppID:   conn.WindowClass(id),
			Title:   conn.WindowTitle(id),
			Desktop: desktop,
			State:   stateOf(conn.States(id), known && desktop < 0),
			Bounds:  bounds,
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})
	return windows, nil
}

// CurrentDesktop returns the 0-based current virtual desktop.
func (b *LinuxBackend) CurrentDesktop() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.GetCurrentDesktop()
}

// DesktopCount returns _NET_NUMBER_OF_DESKTOPS.
func (b *LinuxBackend) DesktopCount() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.GetDesktopCount()
}

// SetWindowDesktop moves a window to desktop, or onto every desktop when
// desktop is negative.
func (b *LinuxBackend) SetWindowDesktop(windowID WindowID, desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetWindowDesktop(xproto.Window(windowID), desktop)
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Minimize iconifies a window.
func (b *LinuxBackend) Minimize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Iconify(xproto.Window(windowID))
}

// Restore de-iconifies a window by activating it.
func (b *LinuxBackend) Restore(windowID WindowID) error {
	return b.Activate(windowID)
}

func (b *LinuxBackend) SetMaximized(windowID WindowID, on bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetState(xproto.Window(windowID), on, x11.StateMaxHorz, x11.StateMaxVert)
}

func (b *LinuxBackend) SetFullscreen(windowID WindowID, on bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetState(xproto.Window(windowID), on, x11.StateFullscreen)
}

// Activate focuses and raises a window.
func (b *LinuxBackend) Activate(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(windowID))
}

// Close requests graceful window close.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.CloseWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func stateOf(atoms []string, sticky bool) WindowState {
	return WindowState{
		Minimized:  slices.Contains(atoms, x11.StateHidden),
		Maximized:  slices.Contains(atoms, x11.StateMaxHorz) && slices.Contains(atoms, x11.StateMaxVert),
		Fullscreen: slices.Contains(atoms, x11.StateFullscreen),
		Sticky:     sticky,
	}
}

func displayFromMonitor(m x11.Monitor) Display {
	bounds := Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: bounds,
		Usable: bounds,
	}
}
