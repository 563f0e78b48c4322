package surface

import "github.com/1broseidon/surfshell/internal/geom"

// GeometrySet caches the geometry of every state that has one. Each entry
// is valid independently of the current state; the zero Rect means "never
// computed". Minimized has no geometry.
type GeometrySet struct {
	Normal     geom.Rect
	Maximized  geom.Rect
	Fullscreen geom.Rect
	Tiling     geom.Rect
}

// For returns the cached geometry of s.
func (g *GeometrySet) For(s State) geom.Rect {
	switch s {
	case StateNormal:
		return g.Normal
	case StateMaximized:
		return g.Maximized
	case StateFullscreen:
		return g.Fullscreen
	case StateTiling:
		return g.Tiling
	default:
		return geom.Rect{}
	}
}

// set stores r for s and reports whether the cache changed.
func (g *GeometrySet) set(s State, r geom.Rect) bool {
	var slot *geom.Rect
	switch s {
	case StateNormal:
		slot = &g.Normal
	case StateMaximized:
		slot = &g.Maximized
	case StateFullscreen:
		slot = &g.Fullscreen
	case StateTiling:
		slot = &g.Tiling
	default:
		return false
	}
	if *slot == r {
		return false
	}
	*slot = r
	return true
}
