package config

// DefaultBuiltinLayout is the layout used when none is configured.
const DefaultBuiltinLayout = "grid"

func autoIn(region RegionType) Layout {
	return Layout{Mode: LayoutModeAuto, TileRegion: TileRegion{Type: region}, FlexibleLastRow: true}
}

func fullScreen(mode LayoutMode) Layout {
	return Layout{Mode: mode, TileRegion: TileRegion{Type: RegionFull}}
}

// BuiltinLayouts returns the layouts every config starts with. A config
// file may add more under tiling.layouts or inherit from these with
// "builtin:<name>".
func BuiltinLayouts() map[string]Layout {
	masterStack := fullScreen(LayoutModeMasterStack)
	masterStack.MasterStack = MasterStack{MasterWidthPercent: 60, MaxStackRows: 3, MaxStackCols: 1}

	return map[string]Layout{
		"grid":         autoIn(RegionFull),
		"half-left":    autoIn(RegionLeftHalf),
		"half-right":   autoIn(RegionRightHalf),
		"columns":      fullScreen(LayoutModeVertical),
		"rows":         fullScreen(LayoutModeHorizontal),
		"master-stack": masterStack,
	}
}
