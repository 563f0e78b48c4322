package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/shell"
)

// tile is one labelled rectangle on the preview canvas.
type tile struct {
	Rect  geom.Rect
	Label string
	// Focused tiles get a heavy border.
	Focused bool
}

// desktopTiles returns the visible windows of the current workspace,
// bottom of the stack first so that later tiles overdraw earlier ones.
func desktopTiles(snap shell.Snapshot) []tile {
	var out []tile
	for _, si := range snap.Surfaces {
		if !si.Visible || (si.Workspace != snap.Workspace && si.Workspace != 0) {
			continue
		}
		out = append(out, tile{Rect: rectOf(si.Geometry), Label: si.Name, Focused: si.Name == snap.Activated})
	}
	sortByZ(out, snap)
	return out
}

// overviewTiles returns the committed multitask view cells.
func overviewTiles(snap shell.Snapshot, selected string) []tile {
	out := make([]tile, 0, len(snap.Overview.Entries))
	for _, e := range snap.Overview.Entries {
		label := e.Name
		if e.Minimized {
			label += " (min)"
		}
		out = append(out, tile{Rect: rectOf(e.Geometry), Label: label, Focused: e.Name == selected})
	}
	return out
}

func sortByZ(tiles []tile, snap shell.Snapshot) {
	z := make(map[string]int, len(snap.Surfaces))
	for _, si := range snap.Surfaces {
		z[si.Name] = si.Z
	}
	// Insertion sort keeps creation order for equal z.
	for i := 1; i < len(tiles); i++ {
		for j := i; j > 0 && z[tiles[j-1].Label] > z[tiles[j].Label]; j-- {
			tiles[j-1], tiles[j] = tiles[j], tiles[j-1]
		}
	}
}

func rectOf(b shell.Box) geom.Rect {
	return geom.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// renderPreview draws tiles scaled from area onto a width x height
// character canvas with a double border.
func renderPreview(area geom.Rect, tiles []tile, width, height int) []string {
	if !area.IsValid() || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, t := range tiles {
		drawTile(canvas, t, area, width, height)
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, t tile, area geom.Rect, canvasW, canvasH int) {
	x1 := int((t.Rect.X - area.X) * float64(canvasW) / area.Width)
	y1 := int((t.Rect.Y - area.Y) * float64(canvasH) / area.Height)
	x2 := int((t.Rect.Right() - area.X) * float64(canvasW) / area.Width)
	y2 := int((t.Rect.Bottom() - area.Y) * float64(canvasH) / area.Height)

	x1, y1 = max(x1, 1), max(y1, 1)
	x2, y2 = min(x2, canvasW-2), min(y2, canvasH-2)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	h, v, corners := '─', '│', [4]rune{'┌', '┐', '└', '┘'}
	if t.Focused {
		h, v, corners = '━', '┃', [4]rune{'┏', '┓', '┗', '┛'}
	}

	// Clear the interior so stacked tiles hide what is below them.
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}
	for x := x1; x <= x2; x++ {
		canvas[y1][x] = h
		canvas[y2][x] = h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = v
		canvas[y][x2] = v
	}
	canvas[y1][x1] = corners[0]
	canvas[y1][x2] = corners[1]
	canvas[y2][x1] = corners[2]
	canvas[y2][x2] = corners[3]

	if y2-y1 < 2 {
		return
	}
	label := []rune(t.Label)
	room := x2 - x1 - 1
	if room <= 0 {
		return
	}
	if len(label) > room {
		label = label[:room]
	}
	centerY := (y1 + y2) / 2
	startX := x1 + 1 + (room-len(label))/2
	for i, r := range label {
		canvas[centerY][startX+i] = r
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}

// summarize describes the overview layout in one line.
func summarize(snap shell.Snapshot) string {
	o := snap.Overview
	if len(o.Entries) == 0 {
		return "no windows"
	}
	s := fmt.Sprintf("%d windows • %d rows • row height %.0f • load %.2f", len(o.Entries), o.Rows, o.RowHeight, o.LoadFactor)
	if o.Forced {
		s += " • forced"
	}
	return s
}
