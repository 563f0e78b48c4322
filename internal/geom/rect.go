package geom

import (
	"fmt"
	"math"
)

// Point is a position in logical output coordinates.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// IsValid reports whether both dimensions are positive.
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// Rect represents a surface position and size
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectFrom builds a rect from a position and a size.
func RectFrom(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// IsValid reports whether the rect has a positive area. The zero Rect is
// invalid and is used as the "never computed" marker for cached geometry.
func (r Rect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Rect) IsEmpty() bool {
	return !r.IsValid()
}

func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

func (r Rect) Right() float64 {
	return r.X + r.Width
}

func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) Area() float64 {
	if !r.IsValid() {
		return 0
	}
	return r.Width * r.Height
}

// Moved returns r with its top-left corner at p.
func (r Rect) Moved(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// Resized returns r with the given size, keeping the top-left corner.
func (r Rect) Resized(s Size) Rect {
	r.Width, r.Height = s.Width, s.Height
	return r
}

// Union returns the smallest rect containing both r and o. Invalid rects
// are ignored.
func (r Rect) Union(o Rect) Rect {
	if !r.IsValid() {
		return o
	}
	if !o.IsValid() {
		return r
	}
	x1 := math.Min(r.X, o.X)
	y1 := math.Min(r.Y, o.Y)
	x2 := math.Max(r.Right(), o.Right())
	y2 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersect returns the overlapping part of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x1 := math.Max(r.X, o.X)
	y1 := math.Max(r.Y, o.Y)
	x2 := math.Min(r.Right(), o.Right())
	y2 := math.Min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Overlaps reports whether r and o share a region of positive area.
func (r Rect) Overlaps(o Rect) bool {
	return r.Intersect(o).IsValid()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies inside r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Lerp interpolates between r and o; t=0 yields r, t=1 yields o.
func (r Rect) Lerp(o Rect, t float64) Rect {
	return Rect{
		X:      r.X + (o.X-r.X)*t,
		Y:      r.Y + (o.Y-r.Y)*t,
		Width:  r.Width + (o.Width-r.Width)*t,
		Height: r.Height + (o.Height-r.Height)*t,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g+%g+%g", r.Width, r.Height, r.X, r.Y)
}
