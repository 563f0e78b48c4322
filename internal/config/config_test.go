package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_ValidAndHasBuiltinLayouts(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if _, ok := cfg.Tiling.Layouts[DefaultBuiltinLayout]; !ok {
		t.Fatalf("expected builtin %q to exist in layouts", DefaultBuiltinLayout)
	}
	if cfg.WindowRadius != 18 || cfg.TitleBarHeight != 30 {
		t.Fatalf("unexpected decoration defaults: radius=%v titlebar=%v", cfg.WindowRadius, cfg.TitleBarHeight)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
	if res.Config.Tiling.DefaultLayout != DefaultBuiltinLayout {
		t.Fatalf("expected default_layout %q, got %q", DefaultBuiltinLayout, res.Config.Tiling.DefaultLayout)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Workspaces.Count != DefaultWorkspaceCount {
		t.Fatalf("expected %d workspaces, got %d", DefaultWorkspaceCount, res.Config.Workspaces.Count)
	}
}

func TestLoadFromPath_OverlaysOnlySetKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"window_radius: 0",
		"animation:",
		"  speed: 2",
		"  easing: linear",
		"overview:",
		"  min_row_height: 120",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.WindowRadius != 0 {
		t.Fatalf("explicit zero must override the default, got %v", cfg.WindowRadius)
	}
	if cfg.TitleBarHeight != 30 {
		t.Fatalf("unset key must keep its default, got %v", cfg.TitleBarHeight)
	}
	if cfg.Animation.DurationMS != 300 || cfg.Animation.Speed != 2 {
		t.Fatalf("unexpected animation config %+v", cfg.Animation)
	}
	if cfg.Overview.MinRowHeight != 120 || cfg.Overview.PaddingOpacity != 0.6 {
		t.Fatalf("unexpected overview config %+v", cfg.Overview)
	}

	opts, err := cfg.AnimationOptions()
	if err != nil {
		t.Fatalf("animation options: %v", err)
	}
	if opts.Duration != 300*time.Millisecond || opts.Speed != 2 || opts.Easing(0.25) != 0.25 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "tiling:\n  gap: 5\nwindow_radius: 4\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "tiling:\n  gap: 6\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"tiling:",
		"  gap: 7",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Tiling.Gap != 7 {
		t.Fatalf("expected gap to be 7, got %d", res.Config.Tiling.Gap)
	}
	if res.Config.WindowRadius != 4 {
		t.Fatalf("expected included window_radius 4, got %v", res.Config.WindowRadius)
	}
	if len(res.Files) != 3 || res.Files[2] != mustCanon(t, path) {
		t.Fatalf("expected includes before the main file, got %v", res.Files)
	}
}

func mustCanon(t *testing.T, path string) string {
	t.Helper()
	return canonicalPath(path)
}

func TestLoadFromPath_GlobIncludeAndProvenance(t *testing.T) {
	dir := t.TempDir()
	confD := filepath.Join(dir, "conf.d")
	if err := os.MkdirAll(confD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(confD, "10-overview.yaml"), "overview:\n  min_row_height: 120\n")
	writeFile(t, filepath.Join(confD, "20-animation.yml"), "animation:\n  duration_ms: 250\n")
	writeFile(t, filepath.Join(confD, "notes.txt"), "not yaml")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - conf.d/*",
		"  - nothing/*.yaml",
		"x11:",
		"  apply: true",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected two includes plus the main file, got %v", res.Files)
	}

	tests := []struct {
		key        string
		file       string
		includedBy string
	}{
		{"overview.min_row_height", filepath.Join(confD, "10-overview.yaml"), path},
		{"animation.duration_ms", filepath.Join(confD, "20-animation.yml"), path},
		{"x11.apply", path, ""},
	}
	for _, tt := range tests {
		src, ok := res.Sources[tt.key]
		if !ok {
			t.Fatalf("no source for %s", tt.key)
		}
		if src.File != mustCanon(t, tt.file) {
			t.Fatalf("%s: file %q, want %q", tt.key, src.File, mustCanon(t, tt.file))
		}
		want := ""
		if tt.includedBy != "" {
			want = mustCanon(t, tt.includedBy)
		}
		if src.IncludedBy != want {
			t.Fatalf("%s: included by %q, want %q", tt.key, src.IncludedBy, want)
		}
		if src.Line == 0 {
			t.Fatalf("%s: expected a line number", tt.key)
		}
	}
	if _, ok := res.Sources["include"]; ok {
		t.Fatalf("include should not be recorded as a config key")
	}
}

func TestDefaultConfigPath_Resolution(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	tests := []struct {
		name string
		env  string
		xdg  string
		want string
	}{
		{"env wins", "/etc/surfshell.yaml", "/xdg", "/etc/surfshell.yaml"},
		{"env expands home", "~/shell.yaml", "", filepath.Join(home, "shell.yaml")},
		{"xdg", "", "/xdg", "/xdg/surfshell/config.yaml"},
		{"relative xdg ignored", "", "xdg", filepath.Join(home, ".config", "surfshell", "config.yaml")},
		{"home fallback", "", "", filepath.Join(home, ".config", "surfshell", "config.yaml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigPath, tt.env)
			t.Setenv("XDG_CONFIG_HOME", tt.xdg)
			got, err := DefaultConfigPath()
			if err != nil {
				t.Fatalf("path: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), mustCanon(t, path)+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "workspaces:\n  count: 9\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "workspaces.count" {
		t.Fatalf("unexpected path %q", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 2 {
		t.Fatalf("expected file source on line 2, got %+v", verr.Source)
	}
	if !strings.Contains(err.Error(), mustCanon(t, path)+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_InheritsBuiltinAndExplainSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
tiling:
  default_layout: dev
  layouts:
    dev:
      inherits: "builtin:master-stack"
      tile_region:
        type: "left-half"
`
	writeFile(t, path, strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	layout, err := res.Config.GetDefaultLayout()
	if err != nil {
		t.Fatalf("default layout: %v", err)
	}
	if layout.Mode != LayoutModeMasterStack || layout.TileRegion.Type != RegionLeftHalf {
		t.Fatalf("unexpected merged layout %+v", layout)
	}
	if res.LayoutBases["dev"] != "master-stack" {
		t.Fatalf("expected base master-stack, got %q", res.LayoutBases["dev"])
	}

	val, src, err := Explain(res, "tiling.layouts.dev.tile_region.type")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "left-half" || src.Kind != SourceFile {
		t.Fatalf("unexpected explain result %#v %#v", val, src)
	}

	val, src, err = Explain(res, "tiling.layouts.dev.mode")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "master-stack" || src.Kind != SourceBuiltin || src.Name != "master-stack" {
		t.Fatalf("unexpected explain result %#v %#v", val, src)
	}

	val, src, err = Explain(res, "workspaces.count")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != DefaultWorkspaceCount || src.Kind != SourceDefault {
		t.Fatalf("unexpected explain result %#v %#v", val, src)
	}

	if _, _, err := Explain(res, "tiling.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_InheritsRejectsNonBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "tiling:\n  layouts:\n    dev:\n      inherits: grid\n")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), "builtin:") {
		t.Fatalf("expected inherits error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"negative radius", func(c *Config) { c.WindowRadius = -1 }, "window_radius"},
		{"current out of range", func(c *Config) { c.Workspaces.Current = 2 }, "workspaces.current"},
		{"zero speed", func(c *Config) { c.Animation.Speed = 0 }, "animation.speed"},
		{"unknown easing", func(c *Config) { c.Animation.Easing = "bouncy" }, "animation.easing"},
		{"row height", func(c *Config) { c.Overview.MinRowHeight = 0 }, "overview.min_row_height"},
		{"opacity", func(c *Config) { c.Overview.PaddingOpacity = 1.5 }, "overview.padding_opacity"},
		{"gap", func(c *Config) { c.Tiling.Gap = -3 }, "tiling.gap"},
		{"default layout", func(c *Config) { c.Tiling.DefaultLayout = "nope" }, "tiling.default_layout"},
		{"bad layout", func(c *Config) {
			c.Tiling.Layouts["bad"] = Layout{Mode: LayoutModeFixed, TileRegion: TileRegion{Type: RegionFull}}
		}, "tiling.layouts.bad"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"reconcile interval", func(c *Config) { c.X11.ReconcileIntervalMS = 10 }, "x11.reconcile_interval_ms"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tc.path {
				t.Fatalf("path = %q, want %q", verr.Path, tc.path)
			}
		})
	}
}

func TestLoadFromPath_X11HotkeysOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"x11:",
		"  apply: true",
		"  hotkeys:",
		"    tile: \"\"",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	x := res.Config.X11
	if !x.Apply || x.Hotkeys.Tile != "" {
		t.Fatalf("unexpected x11 config %+v", x)
	}
	if x.Hotkeys.Overview != "Mod4-w" || res.Config.ReconcileInterval() != 500*time.Millisecond {
		t.Fatalf("unset keys must keep defaults, got %+v", x)
	}
}

func TestGetLoggingConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging = LoggingConfig{File: "~/surfshell.log"}
	got := cfg.GetLoggingConfig()
	if got.Level != "info" || got.Format != "auto" || got.MaxSizeMB != 10 || got.MaxFiles != 3 {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if strings.HasPrefix(got.File, "~") {
		t.Fatalf("expected home expansion, got %q", got.File)
	}
}
