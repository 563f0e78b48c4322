// Package platform abstracts the host window system that the shell mirrors.
package platform

import "github.com/1broseidon/surfshell/internal/geom"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Geom converts r to shell coordinates.
func (r Rect) Geom() geom.Rect {
	return geom.Rect{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

// RectOf rounds a shell rectangle to whole pixels.
func RectOf(r geom.Rect) Rect {
	return Rect{
		X:      int(r.X + 0.5),
		Y:      int(r.Y + 0.5),
		Width:  int(r.Width + 0.5),
		Height: int(r.Height + 0.5),
	}
}

func (r Rect) containsPoint(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// WindowState carries the host-side flags of a window.
type WindowState struct {
	Minimized  bool
	Maximized  bool
	Fullscreen bool
	// Sticky windows are shown on every desktop.
	Sticky bool
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID    WindowID
	PID   int
	AppID string
	Title string
	// Desktop is the 0-based virtual desktop, -1 when unknown.
	Desktop int
	State   WindowState
	Bounds  Rect
}

// Name is the label the shell uses for w.
func (w Window) Name() string {
	switch {
	case w.Title != "":
		return w.Title
	case w.AppID != "":
		return w.AppID
	default:
		return "window"
	}
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	ActiveWindow() (WindowID, error)
	ListWindowsOnDisplay(displayID int) ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Minimize(windowID WindowID) error
	Restore(windowID WindowID) error
	SetMaximized(windowID WindowID, on bool) error
	SetFullscreen(windowID WindowID, on bool) error
	Activate(windowID WindowID) error
	Close(windowID WindowID) error
}

// Desktops is implemented by backends with virtual desktops. Desktop
// numbers are 0-based; -1 means every desktop.
type Desktops interface {
	DesktopCount() (int, error)
	CurrentDesktop() (int, error)
	SetWindowDesktop(windowID WindowID, desktop int) error
}
