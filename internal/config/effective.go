package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError ties a config error to its YAML path and, when known,
// the file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig overlays raw onto the defaults. The returned map
// records the builtin each layout was derived from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	set(&cfg.WindowRadius, raw.WindowRadius)
	set(&cfg.TitleBarHeight, raw.TitleBarHeight)
	set(&cfg.DecorationMargin, raw.DecorationMargin)

	if ws := raw.Workspaces; ws != nil {
		set(&cfg.Workspaces.Count, ws.Count)
		set(&cfg.Workspaces.Max, ws.Max)
		set(&cfg.Workspaces.Current, ws.Current)
	}
	if a := raw.Animation; a != nil {
		set(&cfg.Animation.Speed, a.Speed)
		set(&cfg.Animation.DurationMS, a.DurationMS)
		set(&cfg.Animation.Easing, a.Easing)
	}
	if o := raw.Overview; o != nil {
		set(&cfg.Overview.MinRowHeight, o.MinRowHeight)
		set(&cfg.Overview.AnimationDurationMS, o.AnimationDurationMS)
		set(&cfg.Overview.Easing, o.Easing)
		set(&cfg.Overview.PaddingOpacity, o.PaddingOpacity)
	}
	if l := raw.Logging; l != nil {
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.Format, l.Format)
		set(&cfg.Logging.File, l.File)
		set(&cfg.Logging.MaxSizeMB, l.MaxSizeMB)
		set(&cfg.Logging.MaxFiles, l.MaxFiles)
	}
	if x := raw.X11; x != nil {
		set(&cfg.X11.ReconcileIntervalMS, x.ReconcileIntervalMS)
		set(&cfg.X11.Apply, x.Apply)
		if h := x.Hotkeys; h != nil {
			set(&cfg.X11.Hotkeys.Overview, h.Overview)
			set(&cfg.X11.Hotkeys.ShowDesktop, h.ShowDesktop)
			set(&cfg.X11.Hotkeys.Tile, h.Tile)
			set(&cfg.X11.Hotkeys.CycleLayout, h.CycleLayout)
		}
	}

	tiling := RawTilingConfig{}
	if raw.Tiling != nil {
		tiling = *raw.Tiling
	}
	set(&cfg.Tiling.Gap, tiling.Gap)
	if p := tiling.ScreenPadding; p != nil {
		set(&cfg.Tiling.ScreenPadding.Top, p.Top)
		set(&cfg.Tiling.ScreenPadding.Bottom, p.Bottom)
		set(&cfg.Tiling.ScreenPadding.Left, p.Left)
		set(&cfg.Tiling.ScreenPadding.Right, p.Right)
	}
	layoutBases, err := applyLayouts(cfg, tiling.Layouts)
	if err != nil {
		return nil, nil, err
	}
	if tiling.DefaultLayout != nil {
		name := strings.TrimSpace(*tiling.DefaultLayout)
		if _, ok := cfg.Tiling.Layouts[name]; !ok {
			return nil, nil, &ValidationError{
				Path: "tiling.default_layout",
				Err:  fmt.Errorf("default_layout %q not found in layouts", name),
			}
		}
		cfg.Tiling.DefaultLayout = name
	}

	return cfg, layoutBases, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func applyLayouts(cfg *Config, patches map[string]RawLayout) (map[string]string, error) {
	builtin := BuiltinLayouts()

	cfg.Tiling.Layouts = make(map[string]Layout, len(builtin)+len(patches))
	layoutBases := make(map[string]string, len(builtin)+len(patches))
	for name, layout := range builtin {
		cfg.Tiling.Layouts[name] = layout
		layoutBases[name] = name
	}

	for _, name := range sortedKeys(patches) {
		patch := patches[name]
		baseName, baseLayout, err := selectLayoutBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}

		merged := mergeLayoutPatch(baseLayout, patch)
		if err := validateLayout(&merged); err != nil {
			return nil, &ValidationError{Path: "tiling.layouts." + name, Err: err}
		}

		cfg.Tiling.Layouts[name] = merged
		layoutBases[name] = baseName
	}

	return layoutBases, nil
}

func selectLayoutBase(name string, patch RawLayout, builtin map[string]Layout) (string, Layout, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinLayout
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Layout{}, &ValidationError{
				Path: "tiling.layouts." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	baseLayout, ok := builtin[baseName]
	if !ok {
		return "", Layout{}, &ValidationError{
			Path: "tiling.layouts." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin layout %q", baseName),
		}
	}

	return baseName, baseLayout, nil
}

func mergeLayoutPatch(base Layout, patch RawLayout) Layout {
	out := base

	set(&out.Mode, patch.Mode)
	if r := patch.TileRegion; r != nil {
		set(&out.TileRegion.Type, r.Type)
		set(&out.TileRegion.XPercent, r.XPercent)
		set(&out.TileRegion.YPercent, r.YPercent)
		set(&out.TileRegion.WidthPercent, r.WidthPercent)
		set(&out.TileRegion.HeightPercent, r.HeightPercent)

		// Unset custom extents cover the rest of the output.
		if out.TileRegion.Type == RegionCustom {
			if r.WidthPercent == nil && out.TileRegion.WidthPercent == 0 {
				out.TileRegion.WidthPercent = 100 - out.TileRegion.XPercent
			}
			if r.HeightPercent == nil && out.TileRegion.HeightPercent == 0 {
				out.TileRegion.HeightPercent = 100 - out.TileRegion.YPercent
			}
		}
	}
	if g := patch.FixedGrid; g != nil {
		set(&out.FixedGrid.Rows, g.Rows)
		set(&out.FixedGrid.Cols, g.Cols)
	}
	if ms := patch.MasterStack; ms != nil {
		set(&out.MasterStack.MasterWidthPercent, ms.MasterWidthPercent)
		set(&out.MasterStack.MaxStackRows, ms.MaxStackRows)
		set(&out.MasterStack.MaxStackCols, ms.MaxStackCols)
	}
	set(&out.MaxWindowWidth, patch.MaxWindowWidth)
	set(&out.MaxWindowHeight, patch.MaxWindowHeight)
	set(&out.FlexibleLastRow, patch.FlexibleLastRow)

	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
