package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/runtimepath"
	"github.com/1broseidon/surfshell/internal/shell"
)

// requestTimeout bounds a single command on the shell goroutine.
const requestTimeout = 5 * time.Second

// Controller performs the shell operations behind each command. It is
// called from connection goroutines.
type Controller interface {
	Status(ctx context.Context) (StatusData, error)
	Monitors(ctx context.Context) ([]MonitorInfo, error)
	Snapshot(ctx context.Context) (shell.Snapshot, error)
	ToggleOverview(ctx context.Context) error
	ExitOverview(ctx context.Context, surface string) error
	ShowDesktop(ctx context.Context, on *bool) error
	Tile(ctx context.Context) (int, error)
	Untile(ctx context.Context) (int, error)
	CycleLayout(ctx context.Context, delta int) (string, error)
	ListLayouts(ctx context.Context) (LayoutsData, error)
	ApplyLayout(ctx context.Context, name string, tileNow bool) error
	SwitchWorkspace(ctx context.Context, id int) error
	Activate(ctx context.Context, surface string) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctl          Controller
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server on the default socket path.
func NewServer(ctl Controller, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, ctl, logger), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Logger()
	}
	return &Server{
		socketPath: socketPath,
		ctl:        ctl,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// A stale socket from a crashed daemon blocks Listen.
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one request line per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	s.send(conn, s.handleCommand(ctx, req))
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		status, err := s.ctl.Status(ctx)
		if err != nil {
			return errorResponse("get status", err)
		}
		status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
		status.DaemonRunning = true
		return okResponse(status)

	case CommandGetMonitors:
		monitors, err := s.ctl.Monitors(ctx)
		if err != nil {
			return errorResponse("get monitors", err)
		}
		return okResponse(MonitorsData{Monitors: monitors})

	case CommandSnapshot:
		snap, err := s.ctl.Snapshot(ctx)
		if err != nil {
			return errorResponse("snapshot", err)
		}
		return okResponse(snap)

	case CommandToggleOverview:
		return done("toggle overview", s.ctl.ToggleOverview(ctx))

	case CommandExitOverview:
		var p SurfacePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return done("exit overview", s.ctl.ExitOverview(ctx, p.Surface))

	case CommandShowDesktop:
		var p ShowDesktopPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return done("show desktop", s.ctl.ShowDesktop(ctx, p.On))

	case CommandTile:
		n, err := s.ctl.Tile(ctx)
		if err != nil {
			return errorResponse("tile", err)
		}
		return okResponse(CountData{Count: n})

	case CommandUntile:
		n, err := s.ctl.Untile(ctx)
		if err != nil {
			return errorResponse("untile", err)
		}
		return okResponse(CountData{Count: n})

	case CommandCycleLayout:
		p := CycleLayoutPayload{Delta: 1}
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		name, err := s.ctl.CycleLayout(ctx, p.Delta)
		if err != nil {
			return errorResponse("cycle layout", err)
		}
		return okResponse(LayoutData{Layout: name})

	case CommandListLayouts:
		layouts, err := s.ctl.ListLayouts(ctx)
		if err != nil {
			return errorResponse("list layouts", err)
		}
		return okResponse(layouts)

	case CommandApplyLayout:
		var p ApplyLayoutPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.LayoutName == "" {
			return NewErrorResponse("layout_name is required")
		}
		return done("apply layout", s.ctl.ApplyLayout(ctx, p.LayoutName, p.TileNow))

	case CommandSwitchWorkspace:
		var p WorkspacePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return done("switch workspace", s.ctl.SwitchWorkspace(ctx, p.Workspace))

	case CommandActivate:
		var p SurfacePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Surface == "" {
			return NewErrorResponse("surface is required")
		}
		return done("activate", s.ctl.Activate(ctx, p.Surface))

	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("Invalid payload: %v", err)
	}
	return nil
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func errorResponse(op string, err error) *Response {
	return NewErrorResponse(fmt.Sprintf("Failed to %s: %v", op, err))
}

func done(op string, err error) *Response {
	if err != nil {
		return errorResponse(op, err)
	}
	return okResponse(nil)
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("IPC: failed to marshal response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("IPC: failed to send response", "error", err)
	}
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
