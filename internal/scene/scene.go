// Package scene loads a session description (an output, workspaces and
// surfaces) from YAML or TOML and replays it into a Shell.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/surface"
)

// Rect is a rectangle in scene files.
type Rect struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

func (r Rect) Geom() geom.Rect {
	return geom.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Surface describes one client window.
type Surface struct {
	Name string `yaml:"name" toml:"name"`
	// Type is toplevel, xwayland, layer or input-popup; default toplevel.
	Type     string `yaml:"type" toml:"type"`
	Geometry *Rect  `yaml:"geometry" toml:"geometry"`
	// Workspace is 1-based; 0 or absent means the current one.
	Workspace     int    `yaml:"workspace" toml:"workspace"`
	AllWorkspaces bool   `yaml:"all_workspaces" toml:"all_workspaces"`
	Parent        string `yaml:"parent" toml:"parent"`
	AlwaysOnTop   bool   `yaml:"always_on_top" toml:"always_on_top"`
	// Role is normal, overlay or floating; default normal.
	Role string `yaml:"role" toml:"role"`
	// State is normal, maximized, minimized or fullscreen.
	State             string `yaml:"state" toml:"state"`
	Unmapped          bool   `yaml:"unmapped" toml:"unmapped"`
	SkipMultitaskView bool   `yaml:"skip_multitask_view" toml:"skip_multitask_view"`
	SkipSwitcher      bool   `yaml:"skip_switcher" toml:"skip_switcher"`
	SkipDockPreview   bool   `yaml:"skip_dock_preview" toml:"skip_dock_preview"`
	// IconGeometry is where minimize animates to, usually a dock item.
	IconGeometry *Rect `yaml:"icon_geometry" toml:"icon_geometry"`
	Blur         bool  `yaml:"blur" toml:"blur"`
	// ClipInOutput crops the visible part to the output.
	ClipInOutput bool `yaml:"clip_in_output" toml:"clip_in_output"`
	// MinWidth and MinHeight make the client reject smaller sizes.
	MinWidth  float64 `yaml:"min_width" toml:"min_width"`
	MinHeight float64 `yaml:"min_height" toml:"min_height"`
}

// Scene is a complete session description.
type Scene struct {
	Output     Rect      `yaml:"output" toml:"output"`
	Workspaces int       `yaml:"workspaces" toml:"workspaces"`
	Current    int       `yaml:"current" toml:"current"`
	Layout     string    `yaml:"layout" toml:"layout"`
	Tile       bool      `yaml:"tile" toml:"tile"`
	Overview   bool      `yaml:"overview" toml:"overview"`
	Surfaces   []Surface `yaml:"surfaces" toml:"surfaces"`
	// Activate lists surface names in activation order; the last one ends
	// up focused.
	Activate []string `yaml:"activate" toml:"activate"`
}

// Format is a scene file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%s: unknown scene format (want .yaml, .yml or .toml)", path)
	}
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes data strictly: unknown keys are errors.
func Parse(data []byte, format Format) (*Scene, error) {
	var sc Scene
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sc); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, fmt.Errorf("failed to parse toml: %s", strict.String())
			}
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scene format %q", format)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks names, references and enumerations.
func (sc *Scene) Validate() error {
	if !sc.Output.Geom().IsValid() {
		return fmt.Errorf("output: width and height must be > 0")
	}
	if sc.Workspaces < 0 {
		return fmt.Errorf("workspaces must be >= 0")
	}
	if sc.Current < 0 {
		return fmt.Errorf("current must be >= 0")
	}

	names := make(map[string]bool, len(sc.Surfaces))
	for i, s := range sc.Surfaces {
		where := fmt.Sprintf("surfaces[%d]", i)
		if s.Name == "" {
			return fmt.Errorf("%s: name is required", where)
		}
		if names[s.Name] {
			return fmt.Errorf("%s: duplicate name %q", where, s.Name)
		}
		if err := s.check(); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if s.Parent != "" && !names[s.Parent] {
			return fmt.Errorf("%s: parent %q must be declared before it", where, s.Parent)
		}
		names[s.Name] = true
	}
	for _, name := range sc.Activate {
		if !names[name] {
			return fmt.Errorf("activate: unknown surface %q", name)
		}
	}
	return nil
}

// check validates the fields of one surface that do not refer to others.
func (s Surface) check() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Type != "" {
		if _, ok := surface.ParseType(s.Type); !ok {
			return fmt.Errorf("unknown type %q", s.Type)
		}
	}
	if s.State != "" {
		st, ok := surface.ParseState(s.State)
		if !ok || st == surface.StateTiling {
			return fmt.Errorf("unsupported state %q (use tile for tiling)", s.State)
		}
	}
	if _, err := parseRole(s.Role); err != nil {
		return err
	}
	if s.Workspace < 0 {
		return fmt.Errorf("workspace must be >= 0")
	}
	if s.IconGeometry != nil && !s.IconGeometry.Geom().IsValid() {
		return fmt.Errorf("icon_geometry: width and height must be > 0")
	}
	return nil
}
