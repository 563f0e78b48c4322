// Package tiling computes tiling geometry for the surfaces of a workspace.
package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/geom"
)

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// cell splits length into n cells separated and surrounded by gap, rounded
// down to whole pixels.
func cell(length, gap float64, n int) float64 {
	return math.Floor((length - float64(n+1)*gap) / float64(n))
}

// CalculatePositions computes window positions for a plain grid with gaps.
func CalculatePositions(numWindows int, monitor geom.Rect, gapSize float64) []geom.Rect {
	if numWindows == 0 {
		return nil
	}

	rows, cols := CalculateGrid(numWindows)
	cellWidth := cell(monitor.Width, gapSize, cols)
	cellHeight := cell(monitor.Height, gapSize, rows)

	positions := make([]geom.Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		positions[i] = geom.Rect{
			X:      monitor.X + gapSize + float64(col)*(cellWidth+gapSize),
			Y:      monitor.Y + gapSize + float64(row)*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions
}

// CalculatePositionsWithLayout computes window positions using layout
// configuration. Fixed and master-stack layouts may return fewer positions
// than requested; the remaining windows are left untiled.
func CalculatePositionsWithLayout(
	numWindows int,
	monitor geom.Rect,
	layout *config.Layout,
	gapSize float64,
) ([]geom.Rect, error) {
	if numWindows == 0 {
		return nil, nil
	}

	var rows, cols int
	flexibleLastRow := layout.FlexibleLastRow

	switch layout.Mode {
	case config.LayoutModeAuto:
		rows, cols = CalculateGrid(numWindows)

	case config.LayoutModeFixed:
		rows = layout.FixedGrid.Rows
		cols = layout.FixedGrid.Cols
		if numWindows > rows*cols {
			numWindows = rows * cols
		}
		flexibleLastRow = false

	case config.LayoutModeVertical:
		rows = numWindows
		cols = 1
		flexibleLastRow = false

	case config.LayoutModeHorizontal:
		rows = 1
		cols = numWindows
		flexibleLastRow = false

	case config.LayoutModeMasterStack:
		return masterStack(numWindows, monitor, layout.MasterStack, gapSize)

	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", layout.Mode)
	}

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}

	slotWidth := cell(monitor.Width, gapSize, cols)
	slotHeight := cell(monitor.Height, gapSize, rows)

	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: monitor=%vx%v rows=%d cols=%d gap=%v (slot=%vx%v)",
			monitor.Width, monitor.Height, rows, cols, gapSize, slotWidth, slotHeight,
		)
	}

	windowWidth := slotWidth
	windowHeight := slotHeight

	// Max dimensions constrain the window within its slot.
	if layout.MaxWindowWidth > 0 && windowWidth > float64(layout.MaxWindowWidth) {
		windowWidth = float64(layout.MaxWindowWidth)
	}
	if layout.MaxWindowHeight > 0 && windowHeight > float64(layout.MaxWindowHeight) {
		windowHeight = float64(layout.MaxWindowHeight)
	}

	lastRowIndex := rows - 1
	windowsInLastRow := numWindows - (lastRowIndex * cols)
	if windowsInLastRow <= 0 {
		windowsInLastRow = cols
	}

	// A short last row expands to fill the width.
	var lastRowSlotWidth, lastRowWindowWidth float64
	if flexibleLastRow && windowsInLastRow < cols {
		lastRowSlotWidth = cell(monitor.Width, gapSize, windowsInLastRow)
		lastRowWindowWidth = lastRowSlotWidth
		if layout.MaxWindowWidth > 0 && lastRowWindowWidth > float64(layout.MaxWindowWidth) {
			lastRowWindowWidth = float64(layout.MaxWindowWidth)
		}
	}

	positions := make([]geom.Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		useFlexible := flexibleLastRow && row == lastRowIndex && windowsInLastRow < cols

		var slotW, windowW, x float64
		if useFlexible {
			lastRowCol := i - (lastRowIndex * cols)
			slotW = lastRowSlotWidth
			windowW = lastRowWindowWidth
			x = monitor.X + gapSize + float64(lastRowCol)*(slotW+gapSize)
		} else {
			slotW = slotWidth
			windowW = windowWidth
			x = monitor.X + gapSize + float64(col)*(slotWidth+gapSize)
		}

		y := monitor.Y + gapSize + float64(row)*(slotHeight+gapSize)

		// Center within the slot if the window is smaller than the slot.
		if windowW < slotW {
			x += math.Floor((slotW - windowW) / 2)
		}
		if windowHeight < slotHeight {
			y += math.Floor((slotHeight - windowHeight) / 2)
		}

		positions[i] = geom.Rect{X: x, Y: y, Width: windowW, Height: windowHeight}
	}

	return positions, nil
}

// masterStack places the first window in a master pane on the left and the
// rest in a grid on the right.
func masterStack(numWindows int, monitor geom.Rect, ms config.MasterStack, gapSize float64) ([]geom.Rect, error) {
	masterWidth := math.Floor(monitor.Width*float64(ms.MasterWidthPercent)/100) - gapSize
	stackHeight := monitor.Height - 2*gapSize

	if numWindows == 1 {
		return []geom.Rect{{
			X:      monitor.X + gapSize,
			Y:      monitor.Y + gapSize,
			Width:  masterWidth,
			Height: stackHeight,
		}}, nil
	}

	rightStartX := monitor.X + masterWidth + 2*gapSize
	rightRegionWidth := monitor.Width - masterWidth - 3*gapSize

	stackCount := numWindows - 1

	// Columns grow once the rows are full, up to MaxStackCols.
	stackCols := int(math.Ceil(float64(stackCount) / float64(ms.MaxStackRows)))
	stackCols = max(1, min(stackCols, ms.MaxStackCols))
	stackRows := min(int(math.Ceil(float64(stackCount)/float64(stackCols))), ms.MaxStackRows)

	if capacity := stackRows * stackCols; stackCount > capacity {
		stackCount = capacity
		numWindows = stackCount + 1
	}

	cellWidth := math.Floor((rightRegionWidth - float64(stackCols-1)*gapSize) / float64(stackCols))
	cellHeight := math.Floor((stackHeight - float64(stackRows-1)*gapSize) / float64(stackRows))

	if masterWidth <= 0 || cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: monitor=%vx%v masterWidth=%v cellWidth=%v cellHeight=%v gap=%v",
			monitor.Width, monitor.Height, masterWidth, cellWidth, cellHeight, gapSize,
		)
	}

	positions := make([]geom.Rect, numWindows)
	positions[0] = geom.Rect{
		X:      monitor.X + gapSize,
		Y:      monitor.Y + gapSize,
		Width:  masterWidth,
		Height: stackHeight,
	}
	for i := 0; i < stackCount; i++ {
		row := i / stackCols
		col := i % stackCols
		positions[i+1] = geom.Rect{
			X:      rightStartX + float64(col)*(cellWidth+gapSize),
			Y:      monitor.Y + gapSize + float64(row)*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions, nil
}

// ApplyRegion applies the tile region to a monitor, returning adjusted bounds
func ApplyRegion(monitor geom.Rect, region config.TileRegion) geom.Rect {
	adjusted := monitor
	halfW := math.Floor(monitor.Width / 2)
	halfH := math.Floor(monitor.Height / 2)

	switch region.Type {
	case config.RegionFull:

	case config.RegionLeftHalf:
		adjusted.Width = halfW

	case config.RegionRightHalf:
		adjusted.X = monitor.X + halfW
		adjusted.Width = halfW

	case config.RegionTopHalf:
		adjusted.Height = halfH

	case config.RegionBottomHalf:
		adjusted.Y = monitor.Y + halfH
		adjusted.Height = halfH

	case config.RegionCustom:
		adjusted.X = monitor.X + math.Floor(monitor.Width*float64(region.XPercent)/100)
		adjusted.Y = monitor.Y + math.Floor(monitor.Height*float64(region.YPercent)/100)
		adjusted.Width = math.Floor(monitor.Width * float64(region.WidthPercent) / 100)
		adjusted.Height = math.Floor(monitor.Height * float64(region.HeightPercent) / 100)
	}

	adjusted.Width = max(adjusted.Width, 1)
	adjusted.Height = max(adjusted.Height, 1)

	return adjusted
}

// ApplyPadding shrinks bounds by the configured screen padding.
func ApplyPadding(bounds geom.Rect, padding config.Margins) (geom.Rect, error) {
	out := geom.Rect{
		X:      bounds.X + float64(padding.Left),
		Y:      bounds.Y + float64(padding.Top),
		Width:  bounds.Width - float64(padding.Left+padding.Right),
		Height: bounds.Height - float64(padding.Top+padding.Bottom),
	}
	if out.Width < 1 || out.Height < 1 {
		return geom.Rect{}, fmt.Errorf(
			"screen_padding leaves no usable space: %vx%v at %v,%v",
			out.Width, out.Height, out.X, out.Y,
		)
	}
	return out, nil
}
