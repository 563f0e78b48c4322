package shell

import (
	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/surface"
)

// Box is a rect in the snapshot encoding.
type Box struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"w" json:"w"`
	Height float64 `yaml:"h" json:"h"`
}

func boxOf(r geom.Rect) Box {
	return Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// SurfaceInfo is the externally visible state of one surface.
type SurfaceInfo struct {
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type" json:"type"`
	State      string `yaml:"state" json:"state"`
	Workspace  int    `yaml:"workspace" json:"workspace"`
	Mapped     bool   `yaml:"mapped" json:"mapped"`
	Visible    bool   `yaml:"visible" json:"visible"`
	Activated  bool   `yaml:"activated,omitempty" json:"activated,omitempty"`
	Geometry   Box    `yaml:"geometry,flow" json:"geometry"`
	StackIndex int    `yaml:"stack_index" json:"stack_index"`
	Z          int    `yaml:"z" json:"z"`
	Parent     string `yaml:"parent,omitempty" json:"parent,omitempty"`
	// Clip is set when the surface is cropped to its output.
	Clip            *Box `yaml:"clip,flow,omitempty" json:"clip,omitempty"`
	Icon            *Box `yaml:"icon,flow,omitempty" json:"icon,omitempty"`
	Blur            bool `yaml:"blur,omitempty" json:"blur,omitempty"`
	SkipSwitcher    bool `yaml:"skip_switcher,omitempty" json:"skip_switcher,omitempty"`
	SkipDockPreview bool `yaml:"skip_dock_preview,omitempty" json:"skip_dock_preview,omitempty"`
}

// OverviewEntry is one committed multitask view cell.
type OverviewEntry struct {
	Name      string `yaml:"name" json:"name"`
	Geometry  Box    `yaml:"geometry,flow" json:"geometry"`
	ZOrder    int    `yaml:"z" json:"z"`
	Padding   bool   `yaml:"padding,omitempty" json:"padding,omitempty"`
	Minimized bool   `yaml:"minimized,omitempty" json:"minimized,omitempty"`
}

// OverviewInfo is the multitask view part of a snapshot.
type OverviewInfo struct {
	Status        string          `yaml:"status" json:"status"`
	Rows          int             `yaml:"rows" json:"rows"`
	RowHeight     float64         `yaml:"row_height" json:"row_height"`
	ContentHeight float64         `yaml:"content_height" json:"content_height"`
	LoadFactor    float64         `yaml:"load_factor" json:"load_factor"`
	Forced        bool            `yaml:"forced,omitempty" json:"forced,omitempty"`
	Entries       []OverviewEntry `yaml:"entries" json:"entries"`
}

// Snapshot is a serialisable view of the whole session.
type Snapshot struct {
	Output      Box           `yaml:"output,flow" json:"output"`
	Workspace   int           `yaml:"workspace" json:"workspace"`
	Workspaces  []Workspace   `yaml:"workspaces" json:"workspaces"`
	Activated   string        `yaml:"activated,omitempty" json:"activated,omitempty"`
	ShowDesktop bool          `yaml:"show_desktop,omitempty" json:"show_desktop,omitempty"`
	Layout      string        `yaml:"tiling_layout" json:"tiling_layout"`
	Surfaces    []SurfaceInfo `yaml:"surfaces" json:"surfaces"`
	Overview    OverviewInfo  `yaml:"overview" json:"overview"`
}

// Describe returns the external state of w.
func (s *Shell) Describe(w *surface.Wrapper) SurfaceInfo {
	info := SurfaceInfo{
		Name:       s.label(w),
		Type:       w.Type().String(),
		State:      w.State().String(),
		Workspace:  w.WorkspaceID(),
		Mapped:     w.Mapped(),
		Visible:    w.Visible(),
		Activated:  w == s.activated,
		Geometry:   boxOf(w.Geometry()),
		StackIndex: w.StackIndex(),
		Z:          w.Z(),
	}
	if p := w.ParentSurface(); p != nil {
		info.Parent = s.label(p)
	}
	if w.ClipInOutput() {
		clip := boxOf(w.ClipRect())
		info.Clip = &clip
	}
	if icon := w.IconGeometry(); icon.IsValid() {
		b := boxOf(icon)
		info.Icon = &b
	}
	info.Blur = w.Blur()
	info.SkipSwitcher = w.SkipSwitcher()
	info.SkipDockPreview = w.SkipDockPreview()
	return info
}

// Snapshot captures the session, including the committed multitask view
// layout. The view is laid out first when it has never been.
func (s *Shell) Snapshot() Snapshot {
	snap := Snapshot{
		Workspace:   s.current,
		Workspaces:  s.Workspaces(),
		ShowDesktop: s.showDesktop,
		Layout:      s.tiler.ActiveLayoutName(),
	}
	if out := s.PrimaryOutput(); out != nil {
		snap.Output = boxOf(out.Geometry())
	}
	if s.activated != nil {
		snap.Activated = s.label(s.activated)
	}
	for _, w := range s.Surfaces() {
		snap.Surfaces = append(snap.Surfaces, s.Describe(w))
	}

	s.view.Initialize()
	snap.Overview = OverviewInfo{
		Status:        s.view.Status().String(),
		Rows:          s.model.Rows(),
		RowHeight:     s.model.RowHeight(),
		ContentHeight: s.model.ContentHeight(),
		LoadFactor:    s.model.LoadFactor(),
		Forced:        s.model.Forced(),
	}
	for _, e := range s.model.Entries() {
		snap.Overview.Entries = append(snap.Overview.Entries, OverviewEntry{
			Name:      s.label(e.Surface),
			Geometry:  boxOf(e.Geometry),
			ZOrder:    e.ZOrder,
			Padding:   e.Padding,
			Minimized: e.Minimized,
		})
	}
	return snap
}
