// Package overview lays out surfaces for the multitask view: a centred,
// non-overlapping multi-row grid, elevation by activation recency, and a
// two-phase model that only exposes new geometry on Commit.
package overview

import (
	"math"

	"github.com/1broseidon/surfshell/internal/geom"
)

const (
	// LoadFactor is the minimum share of the grid the boxes must cover.
	LoadFactor = 0.6
	// CellPadding separates boxes within a row and rows from each other.
	CellPadding = 12.0
	// TopContentMargin is left free above the first row.
	TopContentMargin = 40.0
	// DefaultMinRowHeight seeds the row height search.
	DefaultMinRowHeight = 80.0

	growthFactor     = 1.05
	paddingTolerance = 1.0
	maxAttempts      = 4096
)

// Placement is the cell assigned to one surface.
type Placement struct {
	Rect geom.Rect
	// Padding is set when the surface's natural size is smaller than its
	// cell, so the renderer draws a subtler inset box.
	Padding bool
	Row     int
}

// Result is a complete layout. ContentHeight may exceed the area height;
// the view scrolls.
type Result struct {
	Placements    []Placement
	Rows          int
	RowHeight     float64
	ContentHeight float64
	// LoadFactor is the covered share of the grid (area width times the
	// height of all rows).
	LoadFactor float64
	// Forced is set when a box outgrew the area width before LoadFactor
	// was reached. That box is clamped to the area width and sits alone in
	// its row.
	Forced bool
}

type candidate struct {
	rowHeight  float64
	widths     []float64
	rows       [][]int
	gridHeight float64
	load       float64
	overflow   bool
}

// Pack lays out surfaces of the given natural sizes inside area, keeping
// their order. The row height starts at minRowHeight and grows by 5% per
// attempt until the boxes cover LoadFactor of the grid. When the next
// height would make a box wider than the area, that layout is
// force-accepted with the box clamped.
func Pack(sizes []geom.Size, area geom.Rect, minRowHeight float64) Result {
	if len(sizes) == 0 {
		return Result{}
	}
	if minRowHeight <= 0 {
		minRowHeight = DefaultMinRowHeight
	}
	if !area.IsValid() {
		return Result{Placements: make([]Placement, len(sizes)), Forced: true}
	}

	aspects := make([]float64, len(sizes))
	for i, s := range sizes {
		aspects[i] = aspect(s)
	}

	rowHeight := minRowHeight
	for attempt := 0; attempt < maxAttempts; attempt++ {
		c := tryLayout(aspects, area, rowHeight, false)
		if c.overflow {
			break
		}
		if c.load >= LoadFactor {
			return place(c, sizes, area, false)
		}
		rowHeight *= growthFactor
	}
	return place(tryLayout(aspects, area, rowHeight, true), sizes, area, true)
}

// aspect returns width/height, treating unknown sizes as square.
func aspect(s geom.Size) float64 {
	if !s.IsValid() {
		return 1
	}
	return s.Width / s.Height
}

// tryLayout fills rows greedily at rowHeight. A box wider than the area
// marks the candidate as overflowing; with ignoreOverlap it is clamped to
// the area width instead and the pass continues.
func tryLayout(aspects []float64, area geom.Rect, rowHeight float64, ignoreOverlap bool) *candidate {
	c := &candidate{rowHeight: rowHeight, widths: make([]float64, len(aspects))}

	var row []int
	rowWidth := 0.0
	for i, a := range aspects {
		w := a * rowHeight
		if w > area.Width {
			c.overflow = true
			if !ignoreOverlap {
				return c
			}
			w = area.Width
		}
		c.widths[i] = w

		next := w
		if len(row) > 0 {
			next = rowWidth + CellPadding + w
		}
		if len(row) > 0 && next > area.Width {
			c.rows = append(c.rows, row)
			row, rowWidth = nil, w
		} else {
			rowWidth = next
		}
		row = append(row, i)
	}
	c.rows = append(c.rows, row)

	n := float64(len(c.rows))
	c.gridHeight = n*rowHeight + (n-1)*CellPadding

	covered := 0.0
	for i, w := range c.widths {
		covered += w * boxHeight(aspects[i], w, rowHeight)
	}
	c.load = covered / (area.Width * c.gridHeight)
	return c
}

// boxHeight is rowHeight unless the box was clamped to the area width.
func boxHeight(aspect, width, rowHeight float64) float64 {
	return math.Min(rowHeight, width/aspect)
}

func place(c *candidate, sizes []geom.Size, area geom.Rect, forced bool) Result {
	res := Result{
		Placements: make([]Placement, len(sizes)),
		Rows:       len(c.rows),
		RowHeight:  c.rowHeight,
		LoadFactor: c.load,
		Forced:     forced,
	}
	for r, row := range c.rows {
		total := CellPadding * float64(len(row)-1)
		for _, i := range row {
			total += c.widths[i]
		}
		x := area.X + (area.Width-total)/2
		y := area.Y + TopContentMargin + float64(r)*(c.rowHeight+CellPadding)
		for _, i := range row {
			w := c.widths[i]
			h := boxHeight(aspect(sizes[i]), w, c.rowHeight)
			cell := geom.Rect{X: x, Y: y + (c.rowHeight-h)/2, Width: w, Height: h}
			res.Placements[i] = Placement{
				Rect:    cell,
				Padding: sizes[i].IsValid() && sizes[i].Height < cell.Height-paddingTolerance,
				Row:     r,
			}
			x += w + CellPadding
		}
	}
	res.ContentHeight = TopContentMargin + c.gridHeight
	return res
}
