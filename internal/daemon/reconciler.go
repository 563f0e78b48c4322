package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/platform"
)

// WindowLister returns the display to mirror and its current windows.
type WindowLister func() (platform.Display, []platform.Window, error)

// ListActiveDisplay lists the windows of backend's active display.
func ListActiveDisplay(backend platform.Backend) WindowLister {
	return func() (platform.Display, []platform.Window, error) {
		display, err := backend.ActiveDisplay()
		if err != nil {
			return platform.Display{}, nil, err
		}
		windows, err := backend.ListWindowsOnDisplay(display.ID)
		if err != nil {
			return platform.Display{}, nil, err
		}
		return display, windows, nil
	}
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically lists host windows and hands them to the bridge.
// Listing happens on the reconciler goroutine; the bridge only runs
// through post, which must execute work on the shell's goroutine.
type Reconciler struct {
	interval    time.Duration
	bridge      *Bridge
	listWindows WindowLister
	post        func(func()) bool
	logger      *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, bridge *Bridge, listWindows WindowLister, post func(func()) bool) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Logger()
	}

	return &Reconciler{
		interval:    interval,
		bridge:      bridge,
		listWindows: listWindows,
		post:        post,
		logger:      logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)
	for alive := r.reconcile(); alive; {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			alive = r.reconcile()
		}
	}
	r.logger.Info("reconciler stopped: shell loop gone")
}

// reconcile performs a single pass. It returns false once post refuses
// work.
func (r *Reconciler) reconcile() (alive bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
			alive = true
		}
	}()

	display, windows, err := r.listWindows()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return true
	}

	return r.post(func() {
		added, removed := r.bridge.Sync(display, windows)
		if added > 0 || removed > 0 {
			r.logger.Info("reconciler: windows changed", "added", added, "removed", removed)
		}
	})
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
