package mcp

import "github.com/1broseidon/surfshell/internal/shell"

// LoadSceneInput is the input for the load_scene tool.
type LoadSceneInput struct {
	Path    string `json:"path,omitempty" jsonschema:"Scene file (.yaml, .yml or .toml). Either path or content is required."`
	Content string `json:"content,omitempty" jsonschema:"Inline scene document"`
	Format  string `json:"format,omitempty" jsonschema:"Format of content: yaml (default) or toml"`
}

// LoadSceneOutput is the output for the load_scene tool.
type LoadSceneOutput struct {
	Surfaces  []string `json:"surfaces"`
	Workspace int      `json:"workspace"`
	Activated string   `json:"activated,omitempty"`
}

// AddSurfaceInput is the input for the add_surface tool.
type AddSurfaceInput struct {
	Name          string  `json:"name" jsonschema:"Unique surface name"`
	Type          string  `json:"type,omitempty" jsonschema:"toplevel (default), xwayland, layer or input-popup"`
	X             float64 `json:"x,omitempty"`
	Y             float64 `json:"y,omitempty"`
	Width         float64 `json:"width,omitempty" jsonschema:"Width; zero places the surface automatically"`
	Height        float64 `json:"height,omitempty"`
	Workspace     int     `json:"workspace,omitempty" jsonschema:"Owning workspace (default: current)"`
	AllWorkspaces bool    `json:"all_workspaces,omitempty"`
	Parent        string  `json:"parent,omitempty" jsonschema:"Name of the transient parent"`
	MinWidth      float64 `json:"min_width,omitempty" jsonschema:"The client rejects widths below this"`
	MinHeight     float64 `json:"min_height,omitempty"`
	Unmapped      bool    `json:"unmapped,omitempty" jsonschema:"Create the surface without mapping it"`
}

// SurfaceActionInput is the input for the surface_action tool.
type SurfaceActionInput struct {
	Surface string `json:"surface" jsonschema:"Surface name"`
	Action  string `json:"action" jsonschema:"activate, minimize, unminimize, maximize, unmaximize, toggle-maximize, fullscreen, unfullscreen, map, unmap or close"`
}

// OverviewInput is the input for the overview tool.
type OverviewInput struct {
	Action  string `json:"action" jsonschema:"enter, exit or toggle"`
	Surface string `json:"surface,omitempty" jsonschema:"Surface to activate on exit"`
}

// TileInput is the input for the tile tool.
type TileInput struct {
	Action string `json:"action,omitempty" jsonschema:"tile (default), untile or cycle"`
	Layout string `json:"layout,omitempty" jsonschema:"Layout to switch to before tiling"`
	Delta  int    `json:"delta,omitempty" jsonschema:"Cycle direction (default: 1)"`
}

// TileOutput is the output for the tile tool.
type TileOutput struct {
	Layout string `json:"layout"`
	Count  int    `json:"count"`
}

// WorkspaceInput is the input for the workspace tool.
type WorkspaceInput struct {
	Action    string `json:"action" jsonschema:"switch, add or remove"`
	Workspace int    `json:"workspace,omitempty" jsonschema:"Workspace ID for switch and remove"`
}

// ShowDesktopInput is the input for the show_desktop tool.
type ShowDesktopInput struct {
	On *bool `json:"on,omitempty" jsonschema:"Desired state; omit to toggle"`
}

// SnapshotInput is the input for the snapshot tool.
type SnapshotInput struct{}

// SurfaceOutput describes a surface after a tool changed it.
type SurfaceOutput struct {
	Surface shell.SurfaceInfo `json:"surface"`
	Changed bool              `json:"changed"`
}
