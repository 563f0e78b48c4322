package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/1broseidon/surfshell/internal/animation"
)

// Margins reserves space along the edges of an output.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// LayoutMode defines how tiled surfaces are arranged.
type LayoutMode string

const (
	LayoutModeAuto        LayoutMode = "auto"         // Dynamic grid based on count.
	LayoutModeFixed       LayoutMode = "fixed"        // Specific rows × cols.
	LayoutModeVertical    LayoutMode = "vertical"     // Single column stack.
	LayoutModeHorizontal  LayoutMode = "horizontal"   // Single row side-by-side.
	LayoutModeMasterStack LayoutMode = "master-stack" // Master pane left, stack grid right.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines the part of the output a layout tiles into.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// FixedGrid defines specific grid dimensions.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MasterStack defines the master-stack layout parameters.
type MasterStack struct {
	MasterWidthPercent int `yaml:"master_width_percent"` // 10-90
	MaxStackRows       int `yaml:"max_stack_rows"`       // >= 1
	MaxStackCols       int `yaml:"max_stack_cols"`       // >= 1
}

// Layout defines a tiling configuration.
type Layout struct {
	Mode            LayoutMode  `yaml:"mode"`
	TileRegion      TileRegion  `yaml:"tile_region"`
	FixedGrid       FixedGrid   `yaml:"fixed_grid,omitempty"`
	MasterStack     MasterStack `yaml:"master_stack,omitempty"`
	MaxWindowWidth  int         `yaml:"max_window_width"`  // 0 = unlimited
	MaxWindowHeight int         `yaml:"max_window_height"` // 0 = unlimited
	FlexibleLastRow bool        `yaml:"flexible_last_row"` // auto mode only
}

const (
	DefaultWorkspaceCount = 2
	DefaultMaxWorkspaces  = 6
)

// WorkspaceConfig sizes the workspace list.
type WorkspaceConfig struct {
	Count   int `yaml:"count"`
	Max     int `yaml:"max"`
	Current int `yaml:"current"`
}

// AnimationConfig tunes surface transitions.
type AnimationConfig struct {
	Speed      float64 `yaml:"speed"`
	DurationMS int     `yaml:"duration_ms"`
	Easing     string  `yaml:"easing"`
}

// OverviewConfig tunes the multitask view.
type OverviewConfig struct {
	MinRowHeight        float64 `yaml:"min_row_height"`
	AnimationDurationMS int     `yaml:"animation_duration_ms"`
	Easing              string  `yaml:"easing"`
	PaddingOpacity      float64 `yaml:"padding_opacity"`
}

// TilingConfig holds the tiling layouts.
type TilingConfig struct {
	Gap           int               `yaml:"gap"`
	ScreenPadding Margins           `yaml:"screen_padding"`
	DefaultLayout string            `yaml:"default_layout"`
	Layouts       map[string]Layout `yaml:"layouts"`
}

// LoggingConfig configures the shell's log output.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error.
	Level string `yaml:"level,omitempty"`
	// Format is text, json, or auto (text on a terminal).
	Format string `yaml:"format,omitempty"`
	// File is an optional log file; stderr when empty.
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10).
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3).
	MaxFiles int `yaml:"max_files,omitempty"`
}

// HotkeyConfig binds X11 key sequences (xgbutil keybind syntax, for
// example "Mod4-Mod1-t") to shell actions. Empty disables a binding.
type HotkeyConfig struct {
	Overview    string `yaml:"overview"`
	ShowDesktop string `yaml:"show_desktop"`
	Tile        string `yaml:"tile"`
	CycleLayout string `yaml:"cycle_layout"`
}

// X11Config configures the bridge to a running X11 session.
type X11Config struct {
	ReconcileIntervalMS int `yaml:"reconcile_interval_ms"`
	// Apply pushes shell geometry and state back to the X11 windows.
	Apply   bool         `yaml:"apply"`
	Hotkeys HotkeyConfig `yaml:"hotkeys"`
}

// Config holds the application configuration.
type Config struct {
	WindowRadius     float64         `yaml:"window_radius"`
	TitleBarHeight   float64         `yaml:"titlebar_height"`
	DecorationMargin float64         `yaml:"decoration_margin"`
	Workspaces       WorkspaceConfig `yaml:"workspaces"`
	Animation        AnimationConfig `yaml:"animation"`
	Overview         OverviewConfig  `yaml:"overview"`
	Tiling           TilingConfig    `yaml:"tiling"`
	Logging          LoggingConfig   `yaml:"logging"`
	X11              X11Config       `yaml:"x11"`
}

func DefaultConfig() *Config {
	return &Config{
		WindowRadius:   18,
		TitleBarHeight: 30,
		Workspaces: WorkspaceConfig{
			Count: DefaultWorkspaceCount,
			Max:   DefaultMaxWorkspaces,
		},
		Animation: AnimationConfig{
			Speed:      1,
			DurationMS: 300,
			Easing:     "in-out-cubic",
		},
		Overview: OverviewConfig{
			MinRowHeight:        80,
			AnimationDurationMS: 400,
			Easing:              "out-cubic",
			PaddingOpacity:      0.6,
		},
		Tiling: TilingConfig{
			Gap:           8,
			DefaultLayout: DefaultBuiltinLayout,
			Layouts:       BuiltinLayouts(),
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "auto",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		X11: X11Config{
			ReconcileIntervalMS: 500,
			Hotkeys: HotkeyConfig{
				Overview:    "Mod4-w",
				ShowDesktop: "Mod4-d",
				Tile:        "Mod4-Mod1-t",
				CycleLayout: "Mod4-Mod1-space",
			},
		},
	}
}

// ReconcileInterval is the X11 polling period.
func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.X11.ReconcileIntervalMS) * time.Millisecond
}

// AnimationOptions returns the engine options for surface transitions.
func (c *Config) AnimationOptions() (animation.Options, error) {
	easing, err := animation.ParseEasing(c.Animation.Easing)
	if err != nil {
		return animation.Options{}, &ValidationError{Path: "animation.easing", Err: err}
	}
	return animation.Options{
		Duration: time.Duration(c.Animation.DurationMS) * time.Millisecond,
		Speed:    c.Animation.Speed,
		Easing:   easing,
	}, nil
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return DefaultConfig().Logging
	}
	cfg := c.Logging
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "auto"
	}
	if cfg.File != "" {
		cfg.File = expandHome(cfg.File)
	}
	return cfg
}

// GetLayout retrieves a layout by name with validation.
func (c *Config) GetLayout(name string) (*Layout, error) {
	layout, ok := c.Tiling.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}

	if err := validateLayout(&layout); err != nil {
		return nil, fmt.Errorf("invalid layout %q: %w", name, err)
	}

	return &layout, nil
}

// GetDefaultLayout retrieves the default layout.
func (c *Config) GetDefaultLayout() (*Layout, error) {
	return c.GetLayout(c.Tiling.DefaultLayout)
}

// LayoutNames returns the configured layout names in sorted order.
func (c *Config) LayoutNames() []string {
	return sortedKeys(c.Tiling.Layouts)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.WindowRadius < 0 {
		return &ValidationError{Path: "window_radius", Err: fmt.Errorf("window_radius must be >= 0")}
	}
	if c.TitleBarHeight < 0 {
		return &ValidationError{Path: "titlebar_height", Err: fmt.Errorf("titlebar_height must be >= 0")}
	}
	if c.DecorationMargin < 0 {
		return &ValidationError{Path: "decoration_margin", Err: fmt.Errorf("decoration_margin must be >= 0")}
	}

	if c.Workspaces.Max < 1 {
		return &ValidationError{Path: "workspaces.max", Err: fmt.Errorf("max must be >= 1")}
	}
	if c.Workspaces.Count < 1 || c.Workspaces.Count > c.Workspaces.Max {
		return &ValidationError{Path: "workspaces.count", Err: fmt.Errorf("count must be between 1 and %d", c.Workspaces.Max)}
	}
	if c.Workspaces.Current < 0 || c.Workspaces.Current >= c.Workspaces.Count {
		return &ValidationError{Path: "workspaces.current", Err: fmt.Errorf("current must be between 0 and %d", c.Workspaces.Count-1)}
	}

	if c.Animation.Speed <= 0 {
		return &ValidationError{Path: "animation.speed", Err: fmt.Errorf("speed must be > 0")}
	}
	if c.Animation.DurationMS < 0 {
		return &ValidationError{Path: "animation.duration_ms", Err: fmt.Errorf("duration_ms must be >= 0")}
	}
	if _, err := animation.ParseEasing(c.Animation.Easing); err != nil {
		return &ValidationError{Path: "animation.easing", Err: err}
	}

	if c.Overview.MinRowHeight <= 0 {
		return &ValidationError{Path: "overview.min_row_height", Err: fmt.Errorf("min_row_height must be > 0")}
	}
	if c.Overview.AnimationDurationMS < 0 {
		return &ValidationError{Path: "overview.animation_duration_ms", Err: fmt.Errorf("animation_duration_ms must be >= 0")}
	}
	if _, err := animation.ParseEasing(c.Overview.Easing); err != nil {
		return &ValidationError{Path: "overview.easing", Err: err}
	}
	if c.Overview.PaddingOpacity < 0 || c.Overview.PaddingOpacity > 1 {
		return &ValidationError{Path: "overview.padding_opacity", Err: fmt.Errorf("padding_opacity must be between 0 and 1")}
	}

	if c.Tiling.Gap < 0 {
		return &ValidationError{Path: "tiling.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	p := c.Tiling.ScreenPadding
	if p.Top < 0 || p.Bottom < 0 || p.Left < 0 || p.Right < 0 {
		return &ValidationError{Path: "tiling.screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	if len(c.Tiling.Layouts) == 0 {
		return &ValidationError{Path: "tiling.layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	if c.Tiling.DefaultLayout == "" {
		return &ValidationError{Path: "tiling.default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if _, ok := c.Tiling.Layouts[c.Tiling.DefaultLayout]; !ok {
		return &ValidationError{Path: "tiling.default_layout", Err: fmt.Errorf("default_layout %q not found in layouts", c.Tiling.DefaultLayout)}
	}
	for _, name := range sortedKeys(c.Tiling.Layouts) {
		layout := c.Tiling.Layouts[name]
		if err := validateLayout(&layout); err != nil {
			return &ValidationError{Path: "tiling.layouts." + name, Err: err}
		}
	}

	if !slices.Contains([]string{"", "debug", "info", "warn", "warning", "error"}, c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if !slices.Contains([]string{"", "auto", "text", "json"}, c.Logging.Format) {
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: auto, text, json")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	if c.X11.ReconcileIntervalMS < 50 {
		return &ValidationError{Path: "x11.reconcile_interval_ms", Err: fmt.Errorf("reconcile_interval_ms must be >= 50")}
	}

	return nil
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(layout *Layout) error {
	switch layout.Mode {
	case LayoutModeAuto, LayoutModeFixed, LayoutModeVertical, LayoutModeHorizontal, LayoutModeMasterStack:
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}

	if layout.Mode == LayoutModeFixed {
		if layout.FixedGrid.Rows <= 0 || layout.FixedGrid.Cols <= 0 {
			return fmt.Errorf("fixed mode requires rows and cols to be positive")
		}
	}

	if layout.Mode == LayoutModeMasterStack {
		if layout.MasterStack.MasterWidthPercent < 10 || layout.MasterStack.MasterWidthPercent > 90 {
			return fmt.Errorf("master_stack.master_width_percent must be between 10 and 90")
		}
		if layout.MasterStack.MaxStackRows < 1 {
			return fmt.Errorf("master_stack.max_stack_rows must be >= 1")
		}
		if layout.MasterStack.MaxStackCols < 1 {
			return fmt.Errorf("master_stack.max_stack_cols must be >= 1")
		}
	}

	if layout.MaxWindowWidth < 0 || layout.MaxWindowHeight < 0 {
		return fmt.Errorf("max_window_width/height must be >= 0")
	}

	switch layout.TileRegion.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
	case RegionCustom:
		r := layout.TileRegion
		if r.XPercent < 0 || r.XPercent > 100 {
			return fmt.Errorf("x_percent must be between 0 and 100")
		}
		if r.YPercent < 0 || r.YPercent > 100 {
			return fmt.Errorf("y_percent must be between 0 and 100")
		}
		if r.WidthPercent <= 0 || r.WidthPercent > 100 {
			return fmt.Errorf("width_percent must be between 1 and 100")
		}
		if r.HeightPercent <= 0 || r.HeightPercent > 100 {
			return fmt.Errorf("height_percent must be between 1 and 100")
		}
		if r.XPercent+r.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if r.YPercent+r.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", layout.TileRegion.Type)
	}

	return nil
}

func expandHome(path string) string {
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
