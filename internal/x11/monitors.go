package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/surfshell/internal/geom"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the monitor area in shell coordinates.
func (m Monitor) Rect() geom.Rect {
	return geom.Rect{X: float64(m.X), Y: float64(m.Y), Width: float64(m.Width), Height: float64(m.Height)}
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// GetActiveMonitor returns the monitor containing the focused window, or
// the one under the pointer, or the first one. Its geometry excludes dock
// struts, falling back to the EWMH work area.
func (c *Connection) GetActiveMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	var active *Monitor
	if win, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && win != 0 {
		active = c.monitorForWindow(monitors, win)
	}
	if active == nil {
		active = c.monitorForPointer(monitors)
	}
	if active == nil {
		active = &monitors[0]
	}

	if !c.applyDockStruts(active) {
		c.applyWorkArea(active)
	}
	return active, nil
}

func (c *Connection) applyWorkArea(m *Monitor) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return
	}
	index := 0
	if desktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(desktop) < len(areas) {
		index = int(desktop)
	}
	wa := areas[index]
	area := geom.Rect{X: float64(wa.X), Y: float64(wa.Y), Width: float64(wa.Width), Height: float64(wa.Height)}
	if isect := m.Rect().Intersect(area); isect.IsValid() {
		m.setRect(isect)
	}
}

func (m *Monitor) setRect(r geom.Rect) {
	m.X, m.Y = int(r.X), int(r.Y)
	m.Width, m.Height = max(int(r.Width), 1), max(int(r.Height), 1)
}

// struts is the space docks reserve along each monitor edge.
type struts struct {
	left, right, top, bottom float64
}

func (s struts) empty() bool {
	return s.left == 0 && s.right == 0 && s.top == 0 && s.bottom == 0
}

func (c *Connection) applyDockStruts(m *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	root := geom.Size{Width: float64(rootGeom.Width), Height: float64(rootGeom.Height)}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var acc struts
	for _, win := range clients {
		if !c.hasWindowType(win, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			acc.add(m.Rect(), root, sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			acc.add(m.Rect(), root, &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY:   uint(root.Height - 1),
				RightEndY:  uint(root.Height - 1),
				TopEndX:    uint(root.Width - 1),
				BottomEndX: uint(root.Width - 1),
			})
		}
	}
	if acc.empty() {
		return false
	}

	r := m.Rect()
	m.setRect(geom.Rect{
		X:      r.X + acc.left,
		Y:      r.Y + acc.top,
		Width:  r.Width - acc.left - acc.right,
		Height: r.Height - acc.top - acc.bottom,
	})
	return true
}

// add accumulates the part of sp that overlaps mon.
func (s *struts) add(mon geom.Rect, root geom.Size, sp *ewmh.WmStrutPartial) {
	span := func(a, b uint) float64 { return float64(b) - float64(a) + 1 }
	if sp.Top > 0 {
		band := geom.Rect{X: float64(sp.TopStartX), Width: span(sp.TopStartX, sp.TopEndX), Height: float64(sp.Top)}
		s.top = max(s.top, mon.Intersect(band).Height)
	}
	if sp.Bottom > 0 {
		band := geom.Rect{X: float64(sp.BottomStartX), Y: root.Height - float64(sp.Bottom), Width: span(sp.BottomStartX, sp.BottomEndX), Height: float64(sp.Bottom)}
		s.bottom = max(s.bottom, mon.Intersect(band).Height)
	}
	if sp.Left > 0 {
		band := geom.Rect{Y: float64(sp.LeftStartY), Width: float64(sp.Left), Height: span(sp.LeftStartY, sp.LeftEndY)}
		s.left = max(s.left, mon.Intersect(band).Width)
	}
	if sp.Right > 0 {
		band := geom.Rect{X: root.Width - float64(sp.Right), Y: float64(sp.RightStartY), Width: float64(sp.Right), Height: span(sp.RightStartY, sp.RightEndY)}
		s.right = max(s.right, mon.Intersect(band).Width)
	}
}

func (c *Connection) monitorForWindow(monitors []Monitor, win xproto.Window) *Monitor {
	r, err := c.WindowRect(win)
	if err != nil {
		return nil
	}
	for i := range monitors {
		if monitors[i].Rect().ContainsPoint(r.Center()) {
			return &monitors[i]
		}
	}
	return nil
}

func (c *Connection) monitorForPointer(monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	p := geom.Point{X: float64(pointer.RootX), Y: float64(pointer.RootY)}
	for i := range monitors {
		if monitors[i].Rect().ContainsPoint(p) {
			return &monitors[i]
		}
	}
	return nil
}
