// Package hotkeys binds global X11 key sequences to shell actions.
package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/surfshell/internal/config"
	"github.com/1broseidon/surfshell/internal/logging"
	"github.com/1broseidon/surfshell/internal/platform"
)

// actionTimeout bounds one hotkey action on the shell goroutine.
const actionTimeout = 2 * time.Second

// Actions are the shell operations hotkeys can trigger.
type Actions interface {
	ToggleOverview(ctx context.Context) error
	ShowDesktop(ctx context.Context, on *bool) error
	Tile(ctx context.Context) (int, error)
	CycleLayout(ctx context.Context, delta int) (string, error)
}

// Binding ties a key sequence such as "Mod4-w" to an action.
type Binding struct {
	Name string
	Keys string
	Run  func(ctx context.Context) error
}

// Bindings returns the configured bindings. Actions with an empty key
// sequence are left unbound.
func Bindings(cfg config.HotkeyConfig, a Actions) []Binding {
	all := []Binding{
		{Name: "overview", Keys: cfg.Overview, Run: a.ToggleOverview},
		{Name: "show-desktop", Keys: cfg.ShowDesktop, Run: func(ctx context.Context) error {
			return a.ShowDesktop(ctx, nil)
		}},
		{Name: "tile", Keys: cfg.Tile, Run: func(ctx context.Context) error {
			_, err := a.Tile(ctx)
			return err
		}},
		{Name: "cycle-layout", Keys: cfg.CycleLayout, Run: func(ctx context.Context) error {
			_, err := a.CycleLayout(ctx, 1)
			return err
		}},
	}
	return slices.DeleteFunc(all, func(b Binding) bool { return b.Keys == "" })
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. The backend must expose its X11
// connection.
func NewHandler(backend platform.Backend, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("hotkeys need an X11 backend")
	}
	if logger == nil {
		logger = logging.Logger()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		logger: logger,
	}, nil
}

// Register grabs every binding. It stops at the first key sequence that
// cannot be grabbed.
func (h *Handler) Register(bindings []Binding) error {
	for _, b := range bindings {
		if err := h.RegisterFunc(b.Keys, h.run(b)); err != nil {
			return fmt.Errorf("failed to register %s hotkey %q: %w", b.Name, b.Keys, err)
		}
		h.logger.Info("hotkey registered", "action", b.Name, "keys", b.Keys)
	}
	return nil
}

func (h *Handler) run(b Binding) func() {
	return func() {
		h.logger.Debug("hotkey triggered", "action", b.Name)
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := b.Run(ctx); err != nil {
			h.logger.Warn("hotkey action failed", "action", b.Name, "error", err)
		}
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	xevent.IgnoreMods = ignoreMasks(uint16(xproto.ModMaskLock), numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, so a grab fires whatever locks are on. Zero and repeated masks
// are skipped.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	for _, m := range locks {
		if m != 0 && !slices.Contains(base, m) {
			base = append(base, m)
		}
	}

	masks := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if !slices.Contains(masks, mask) {
			masks = append(masks, mask)
		}
	}
	slices.Sort(masks)
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
