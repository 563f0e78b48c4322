package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// Raw* types mirror the effective config with pointer fields so that an
// unset key can be told apart from a zero value when files are layered.

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawFixedGrid struct {
	Rows *int `yaml:"rows"`
	Cols *int `yaml:"cols"`
}

type RawMasterStack struct {
	MasterWidthPercent *int `yaml:"master_width_percent"`
	MaxStackRows       *int `yaml:"max_stack_rows"`
	MaxStackCols       *int `yaml:"max_stack_cols"`
}

type RawTileRegion struct {
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawLayout struct {
	Inherits        *string         `yaml:"inherits"`
	Mode            *LayoutMode     `yaml:"mode"`
	TileRegion      *RawTileRegion  `yaml:"tile_region"`
	FixedGrid       *RawFixedGrid   `yaml:"fixed_grid"`
	MasterStack     *RawMasterStack `yaml:"master_stack"`
	MaxWindowWidth  *int            `yaml:"max_window_width"`
	MaxWindowHeight *int            `yaml:"max_window_height"`
	FlexibleLastRow *bool           `yaml:"flexible_last_row"`
}

type RawWorkspaceConfig struct {
	Count   *int `yaml:"count"`
	Max     *int `yaml:"max"`
	Current *int `yaml:"current"`
}

type RawAnimationConfig struct {
	Speed      *float64 `yaml:"speed"`
	DurationMS *int     `yaml:"duration_ms"`
	Easing     *string  `yaml:"easing"`
}

type RawOverviewConfig struct {
	MinRowHeight        *float64 `yaml:"min_row_height"`
	AnimationDurationMS *int     `yaml:"animation_duration_ms"`
	Easing              *string  `yaml:"easing"`
	PaddingOpacity      *float64 `yaml:"padding_opacity"`
}

type RawTilingConfig struct {
	Gap           *int                 `yaml:"gap"`
	ScreenPadding *RawMargins          `yaml:"screen_padding"`
	DefaultLayout *string              `yaml:"default_layout"`
	Layouts       map[string]RawLayout `yaml:"layouts"`
}

type RawLoggingConfig struct {
	Level     *string `yaml:"level"`
	Format    *string `yaml:"format"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawHotkeyConfig struct {
	Overview    *string `yaml:"overview"`
	ShowDesktop *string `yaml:"show_desktop"`
	Tile        *string `yaml:"tile"`
	CycleLayout *string `yaml:"cycle_layout"`
}

type RawX11Config struct {
	ReconcileIntervalMS *int             `yaml:"reconcile_interval_ms"`
	Apply               *bool            `yaml:"apply"`
	Hotkeys             *RawHotkeyConfig `yaml:"hotkeys"`
}

type RawConfig struct {
	Include          IncludeList         `yaml:"include"`
	WindowRadius     *float64            `yaml:"window_radius"`
	TitleBarHeight   *float64            `yaml:"titlebar_height"`
	DecorationMargin *float64            `yaml:"decoration_margin"`
	Workspaces       *RawWorkspaceConfig `yaml:"workspaces"`
	Animation        *RawAnimationConfig `yaml:"animation"`
	Overview         *RawOverviewConfig  `yaml:"overview"`
	Tiling           *RawTilingConfig    `yaml:"tiling"`
	Logging          *RawLoggingConfig   `yaml:"logging"`
	X11              *RawX11Config       `yaml:"x11"`
}

// pick returns overlay when it is set, base otherwise.
func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

// mergeSection merges two optional sections with fn.
func mergeSection[T any](base, overlay *T, fn func(T, T) T) *T {
	switch {
	case overlay == nil:
		return base
	case base == nil:
		out := *overlay
		return &out
	default:
		out := fn(*base, *overlay)
		return &out
	}
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil
	out.WindowRadius = pick(c.WindowRadius, overlay.WindowRadius)
	out.TitleBarHeight = pick(c.TitleBarHeight, overlay.TitleBarHeight)
	out.DecorationMargin = pick(c.DecorationMargin, overlay.DecorationMargin)
	out.Workspaces = mergeSection(c.Workspaces, overlay.Workspaces, mergeRawWorkspaces)
	out.Animation = mergeSection(c.Animation, overlay.Animation, mergeRawAnimation)
	out.Overview = mergeSection(c.Overview, overlay.Overview, mergeRawOverview)
	out.Tiling = mergeSection(c.Tiling, overlay.Tiling, mergeRawTiling)
	out.Logging = mergeSection(c.Logging, overlay.Logging, mergeRawLogging)
	out.X11 = mergeSection(c.X11, overlay.X11, mergeRawX11)
	return out
}

func mergeRawX11(base, overlay RawX11Config) RawX11Config {
	return RawX11Config{
		ReconcileIntervalMS: pick(base.ReconcileIntervalMS, overlay.ReconcileIntervalMS),
		Apply:               pick(base.Apply, overlay.Apply),
		Hotkeys:             mergeSection(base.Hotkeys, overlay.Hotkeys, mergeRawHotkeys),
	}
}

func mergeRawHotkeys(base, overlay RawHotkeyConfig) RawHotkeyConfig {
	return RawHotkeyConfig{
		Overview:    pick(base.Overview, overlay.Overview),
		ShowDesktop: pick(base.ShowDesktop, overlay.ShowDesktop),
		Tile:        pick(base.Tile, overlay.Tile),
		CycleLayout: pick(base.CycleLayout, overlay.CycleLayout),
	}
}

func mergeRawWorkspaces(base, overlay RawWorkspaceConfig) RawWorkspaceConfig {
	return RawWorkspaceConfig{
		Count:   pick(base.Count, overlay.Count),
		Max:     pick(base.Max, overlay.Max),
		Current: pick(base.Current, overlay.Current),
	}
}

func mergeRawAnimation(base, overlay RawAnimationConfig) RawAnimationConfig {
	return RawAnimationConfig{
		Speed:      pick(base.Speed, overlay.Speed),
		DurationMS: pick(base.DurationMS, overlay.DurationMS),
		Easing:     pick(base.Easing, overlay.Easing),
	}
}

func mergeRawOverview(base, overlay RawOverviewConfig) RawOverviewConfig {
	return RawOverviewConfig{
		MinRowHeight:        pick(base.MinRowHeight, overlay.MinRowHeight),
		AnimationDurationMS: pick(base.AnimationDurationMS, overlay.AnimationDurationMS),
		Easing:              pick(base.Easing, overlay.Easing),
		PaddingOpacity:      pick(base.PaddingOpacity, overlay.PaddingOpacity),
	}
}

func mergeRawLogging(base, overlay RawLoggingConfig) RawLoggingConfig {
	return RawLoggingConfig{
		Level:     pick(base.Level, overlay.Level),
		Format:    pick(base.Format, overlay.Format),
		File:      pick(base.File, overlay.File),
		MaxSizeMB: pick(base.MaxSizeMB, overlay.MaxSizeMB),
		MaxFiles:  pick(base.MaxFiles, overlay.MaxFiles),
	}
}

func mergeRawTiling(base, overlay RawTilingConfig) RawTilingConfig {
	out := RawTilingConfig{
		Gap:           pick(base.Gap, overlay.Gap),
		ScreenPadding: mergeSection(base.ScreenPadding, overlay.ScreenPadding, mergeRawMargins),
		DefaultLayout: pick(base.DefaultLayout, overlay.DefaultLayout),
	}
	if base.Layouts != nil || overlay.Layouts != nil {
		out.Layouts = make(map[string]RawLayout, len(base.Layouts)+len(overlay.Layouts))
		for name, layout := range base.Layouts {
			out.Layouts[name] = layout
		}
		for name, layout := range overlay.Layouts {
			if prev, ok := out.Layouts[name]; ok {
				layout = mergeRawLayout(prev, layout)
			}
			out.Layouts[name] = layout
		}
	}
	return out
}

func mergeRawMargins(base, overlay RawMargins) RawMargins {
	return RawMargins{
		Top:    pick(base.Top, overlay.Top),
		Bottom: pick(base.Bottom, overlay.Bottom),
		Left:   pick(base.Left, overlay.Left),
		Right:  pick(base.Right, overlay.Right),
	}
}

func mergeRawTileRegion(base, overlay RawTileRegion) RawTileRegion {
	return RawTileRegion{
		Type:          pick(base.Type, overlay.Type),
		XPercent:      pick(base.XPercent, overlay.XPercent),
		YPercent:      pick(base.YPercent, overlay.YPercent),
		WidthPercent:  pick(base.WidthPercent, overlay.WidthPercent),
		HeightPercent: pick(base.HeightPercent, overlay.HeightPercent),
	}
}

func mergeRawFixedGrid(base, overlay RawFixedGrid) RawFixedGrid {
	return RawFixedGrid{
		Rows: pick(base.Rows, overlay.Rows),
		Cols: pick(base.Cols, overlay.Cols),
	}
}

func mergeRawMasterStack(base, overlay RawMasterStack) RawMasterStack {
	return RawMasterStack{
		MasterWidthPercent: pick(base.MasterWidthPercent, overlay.MasterWidthPercent),
		MaxStackRows:       pick(base.MaxStackRows, overlay.MaxStackRows),
		MaxStackCols:       pick(base.MaxStackCols, overlay.MaxStackCols),
	}
}

func mergeRawLayout(base, overlay RawLayout) RawLayout {
	return RawLayout{
		Inherits:        pick(base.Inherits, overlay.Inherits),
		Mode:            pick(base.Mode, overlay.Mode),
		TileRegion:      mergeSection(base.TileRegion, overlay.TileRegion, mergeRawTileRegion),
		FixedGrid:       mergeSection(base.FixedGrid, overlay.FixedGrid, mergeRawFixedGrid),
		MasterStack:     mergeSection(base.MasterStack, overlay.MasterStack, mergeRawMasterStack),
		MaxWindowWidth:  pick(base.MaxWindowWidth, overlay.MaxWindowWidth),
		MaxWindowHeight: pick(base.MaxWindowHeight, overlay.MaxWindowHeight),
		FlexibleLastRow: pick(base.FlexibleLastRow, overlay.FlexibleLastRow),
	}
}
