// Package eventloop serialises every shell mutation onto one goroutine.
// Other goroutines (frame ticker, MCP handlers, the X11 reconciler) hand
// work to it with Post or Call.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/surfshell/internal/invariant"
	"github.com/1broseidon/surfshell/internal/logging"
)

// ErrStopped is returned once the loop has exited.
var ErrStopped = errors.New("eventloop: stopped")

// Config holds loop settings.
type Config struct {
	// FrameInterval is the period of OnFrame; zero disables the ticker.
	FrameInterval time.Duration
	// OnFrame runs on the loop goroutine at every frame.
	OnFrame   func(now time.Time)
	QueueSize int
	Logger    *slog.Logger
}

// Loop is a single-goroutine work queue with an optional frame ticker.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	interval time.Duration
	onFrame  func(time.Time)
	logger   *slog.Logger
}

// New creates a loop. It does nothing until Run is called.
func New(cfg Config) *Loop {
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Logger()
	}
	return &Loop{
		queue:    make(chan func(), size),
		done:     make(chan struct{}),
		interval: cfg.FrameInterval,
		onFrame:  cfg.OnFrame,
		logger:   logger,
	}
}

// Post queues fn. It blocks while the queue is full and returns false once
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() { result <- fn() }) {
		return ErrStopped
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Run processes queued work and frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	var tick <-chan time.Time
	if l.interval > 0 && l.onFrame != nil {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	l.logger.Debug("event loop started", "frame_interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("event loop stopped")
			return ctx.Err()
		case fn := <-l.queue:
			l.run(fn)
		case now := <-tick:
			l.run(func() { l.onFrame(now) })
		}
	}
}

// Drain runs every queued function on the calling goroutine. It is meant
// for callers that drive the loop by hand instead of calling Run.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			l.run(fn)
			n++
		default:
			return n
		}
	}
}

// run executes fn. A panic is logged and swallowed so the loop keeps
// serving; debug builds re-panic so a broken invariant stops the process.
func (l *Loop) run(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			if invariant.Fatal() {
				panic(err)
			}
			l.logger.Error("event loop panic recovered", "error", fmt.Sprint(err))
		}
	}()
	fn()
}
