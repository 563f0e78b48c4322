package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/surfshell/internal/runtimepath"
	"github.com/1broseidon/surfshell/internal/shell"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the socket at socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    10 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// call sends cmd with an optional payload and decodes the response data
// into out when out is non-nil.
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(resp.Data) == 0 {
		return fmt.Errorf("%s: empty response", cmd)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves the connected monitors
func (c *Client) GetMonitors() ([]MonitorInfo, error) {
	var data MonitorsData
	if err := c.call(CommandGetMonitors, nil, &data); err != nil {
		return nil, err
	}
	return data.Monitors, nil
}

// Snapshot retrieves the shell snapshot.
func (c *Client) Snapshot() (*shell.Snapshot, error) {
	var snap shell.Snapshot
	if err := c.call(CommandSnapshot, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) ToggleOverview() error {
	return c.call(CommandToggleOverview, nil, nil)
}

// ExitOverview leaves the multitask view, activating surface when it is
// not empty.
func (c *Client) ExitOverview(surface string) error {
	return c.call(CommandExitOverview, SurfacePayload{Surface: surface}, nil)
}

// ShowDesktop sets show-desktop; a nil on toggles it.
func (c *Client) ShowDesktop(on *bool) error {
	return c.call(CommandShowDesktop, ShowDesktopPayload{On: on}, nil)
}

// Tile tiles the current workspace and returns the number of tiled surfaces.
func (c *Client) Tile() (int, error) {
	var data CountData
	err := c.call(CommandTile, nil, &data)
	return data.Count, err
}

func (c *Client) Untile() (int, error) {
	var data CountData
	err := c.call(CommandUntile, nil, &data)
	return data.Count, err
}

// CycleLayout steps the active tiling layout by delta and returns its name.
func (c *Client) CycleLayout(delta int) (string, error) {
	var data LayoutData
	err := c.call(CommandCycleLayout, CycleLayoutPayload{Delta: delta}, &data)
	return data.Layout, err
}

// ListLayouts retrieves the available tiling layouts
func (c *Client) ListLayouts() (*LayoutsData, error) {
	var data LayoutsData
	if err := c.call(CommandListLayouts, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ApplyLayout sets the active layout and optionally tiles right away.
func (c *Client) ApplyLayout(name string, tileNow bool) error {
	return c.call(CommandApplyLayout, ApplyLayoutPayload{LayoutName: name, TileNow: tileNow}, nil)
}

func (c *Client) SwitchWorkspace(id int) error {
	return c.call(CommandSwitchWorkspace, WorkspacePayload{Workspace: id}, nil)
}

// Activate focuses the named surface.
func (c *Client) Activate(surface string) error {
	return c.call(CommandActivate, SurfacePayload{Surface: surface}, nil)
}
