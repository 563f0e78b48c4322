// Package ipc is the line-delimited JSON control protocol spoken over the
// unix socket of `surfshell x11 watch`.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetMonitors     CommandType = "GET_MONITORS"
	CommandSnapshot        CommandType = "SNAPSHOT"
	CommandToggleOverview  CommandType = "TOGGLE_OVERVIEW"
	CommandExitOverview    CommandType = "EXIT_OVERVIEW"
	CommandShowDesktop     CommandType = "SHOW_DESKTOP"
	CommandTile            CommandType = "TILE"
	CommandUntile          CommandType = "UNTILE"
	CommandCycleLayout     CommandType = "CYCLE_LAYOUT"
	CommandListLayouts     CommandType = "LIST_LAYOUTS"
	CommandApplyLayout     CommandType = "APPLY_LAYOUT"
	CommandSwitchWorkspace CommandType = "SWITCH_WORKSPACE"
	CommandActivate        CommandType = "ACTIVATE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Workspace      int    `json:"workspace"`
	WorkspaceCount int    `json:"workspace_count"`
	SurfaceCount   int    `json:"surface_count"`
	Activated      string `json:"activated,omitempty"`
	Overview       string `json:"overview"`
	ShowDesktop    bool   `json:"show_desktop"`
	ActiveLayout   string `json:"active_layout"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

type LayoutsData struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
	ActiveLayout  string   `json:"active_layout"`
}

// SurfacePayload names a surface; empty means none.
type SurfacePayload struct {
	Surface string `json:"surface,omitempty"`
}

// ShowDesktopPayload sets show-desktop; a nil On toggles it.
type ShowDesktopPayload struct {
	On *bool `json:"on,omitempty"`
}

type CycleLayoutPayload struct {
	Delta int `json:"delta"`
}

type ApplyLayoutPayload struct {
	LayoutName string `json:"layout_name"`
	TileNow    bool   `json:"tile_now,omitempty"`
}

type WorkspacePayload struct {
	Workspace int `json:"workspace"`
}

// CountData is returned by TILE and UNTILE.
type CountData struct {
	Count int `json:"count"`
}

// LayoutData is returned by CYCLE_LAYOUT.
type LayoutData struct {
	Layout string `json:"layout"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
