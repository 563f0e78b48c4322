// Package animation drives the visual transitions of surfaces. Starting an
// animation never blocks: the caller is resumed through two callbacks, Ready
// (the first frame is about to be drawn) and Finished (the last frame was
// drawn). Time only advances through Tick, so the owner of the event loop
// decides when frames happen.
package animation

import (
	"log/slog"
	"time"

	"github.com/1broseidon/surfshell/internal/geom"
	"github.com/1broseidon/surfshell/internal/logging"
)

// Direction selects between the opening and closing variant of a
// transition.
type Direction int

const (
	Open  Direction = 1
	Close Direction = 2
)

func (d Direction) String() string {
	if d == Close {
		return "close"
	}
	return "open"
}

// Kind identifies what an animation interpolates.
type Kind int

const (
	KindGeometry Kind = iota
	KindOpenClose
	KindMinimize
	KindShow
)

func (k Kind) String() string {
	switch k {
	case KindGeometry:
		return "geometry"
	case KindOpenClose:
		return "open-close"
	case KindMinimize:
		return "minimize"
	case KindShow:
		return "show"
	default:
		return "unknown"
	}
}

// Frame is delivered on every tick while an animation runs.
type Frame struct {
	Progress float64
	Rect     geom.Rect
	Opacity  float64
}

// Callbacks are invoked on the goroutine calling Tick.
type Callbacks struct {
	OnFrame    func(Frame)
	OnReady    func()
	OnFinished func()
}

// Handle controls a running animation.
type Handle interface {
	// Retarget changes the destination of a geometry animation without
	// restarting it.
	Retarget(to geom.Rect)
	// Stop drops the animation without invoking further callbacks.
	Stop()
	Running() bool
}

// Driver starts animations. Engine is the production implementation.
type Driver interface {
	StartGeometry(from, to geom.Rect, cb Callbacks) Handle
	StartOpenClose(bounds geom.Rect, dir Direction, cb Callbacks) Handle
	StartMinimize(from, icon geom.Rect, dir Direction, cb Callbacks) Handle
	StartShow(bounds geom.Rect, show bool, cb Callbacks) Handle
}

// Options configures an Engine.
type Options struct {
	Duration time.Duration
	// Speed divides every duration; values <= 0 mean 1.
	Speed  float64
	Easing Easing
	Logger *slog.Logger
}

// DefaultOptions mirrors the defaults of the configuration file.
func DefaultOptions() Options {
	return Options{Duration: 300 * time.Millisecond, Speed: 1, Easing: InOutCubic}
}

type anim struct {
	engine  *Engine
	kind    Kind
	from    geom.Rect
	to      geom.Rect
	cb      Callbacks
	fade    fade
	started bool
	start   time.Time
	done    bool
}

type fade int

const (
	fadeNone fade = iota
	fadeIn
	fadeOut
)

func (f fade) opacity(eased float64) float64 {
	switch f {
	case fadeIn:
		return eased
	case fadeOut:
		return 1 - eased
	default:
		return 1
	}
}

func (a *anim) Retarget(to geom.Rect) {
	if a.done || a.kind != KindGeometry {
		return
	}
	a.to = to
}

func (a *anim) Stop() {
	if a.done {
		return
	}
	a.done = true
	a.engine.logger.Debug("animation stopped", "kind", a.kind)
}

func (a *anim) Running() bool {
	return !a.done
}

// Engine is a tick-driven Driver. It is not safe for concurrent use; all
// calls belong on the event loop goroutine.
type Engine struct {
	duration time.Duration
	easing   Easing
	logger   *slog.Logger
	anims    []*anim
}

// NewEngine builds an engine from opts.
func NewEngine(opts Options) *Engine {
	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}
	easing := opts.Easing
	if easing == nil {
		easing = InOutCubic
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger()
	}
	return &Engine{
		duration: time.Duration(float64(opts.Duration) / speed),
		easing:   easing,
		logger:   logger,
	}
}

// Duration returns the effective duration of every animation.
func (e *Engine) Duration() time.Duration {
	return e.duration
}

func (e *Engine) StartGeometry(from, to geom.Rect, cb Callbacks) Handle {
	return e.add(KindGeometry, from, to, fadeNone, cb)
}

func (e *Engine) StartOpenClose(bounds geom.Rect, dir Direction, cb Callbacks) Handle {
	c := bounds.Center()
	if dir == Close {
		return e.add(KindOpenClose, bounds, geom.Rect{X: c.X, Y: c.Y}, fadeOut, cb)
	}
	return e.add(KindOpenClose, geom.Rect{X: c.X, Y: c.Y}, bounds, fadeIn, cb)
}

// StartMinimize shrinks from into icon (Close) or grows it back (Open).
// Without an icon rect the surface collapses to the middle of its bottom
// edge.
func (e *Engine) StartMinimize(from, icon geom.Rect, dir Direction, cb Callbacks) Handle {
	if !icon.IsValid() {
		icon = geom.Rect{X: from.Center().X, Y: from.Bottom()}
	}
	if dir == Open {
		return e.add(KindMinimize, icon, from, fadeIn, cb)
	}
	return e.add(KindMinimize, from, icon, fadeOut, cb)
}

// StartShow fades a surface in or out in place.
func (e *Engine) StartShow(bounds geom.Rect, show bool, cb Callbacks) Handle {
	if show {
		return e.add(KindShow, bounds, bounds, fadeIn, cb)
	}
	return e.add(KindShow, bounds, bounds, fadeOut, cb)
}

func (e *Engine) add(kind Kind, from, to geom.Rect, f fade, cb Callbacks) Handle {
	a := &anim{engine: e, kind: kind, from: from, to: to, fade: f, cb: cb}
	e.anims = append(e.anims, a)
	e.logger.Debug("animation started", "kind", kind, "from", from.String(), "to", to.String())
	return a
}

// Idle reports whether no animation is pending.
func (e *Engine) Idle() bool {
	for _, a := range e.anims {
		if !a.done {
			return false
		}
	}
	return true
}

// Active returns the number of running animations.
func (e *Engine) Active() int {
	n := 0
	for _, a := range e.anims {
		if !a.done {
			n++
		}
	}
	return n
}

// Tick advances every running animation to now. An animation observes its
// first tick as Ready; it finishes on the tick where its duration elapsed.
// Animations started from callbacks run from the next tick on.
func (e *Engine) Tick(now time.Time) {
	batch := e.anims
	e.anims = nil
	for _, a := range batch {
		if a.done {
			continue
		}
		if !a.started {
			a.started = true
			a.start = now
			if a.cb.OnReady != nil {
				a.cb.OnReady()
			}
			if a.done {
				continue
			}
		}
		progress := 1.0
		if e.duration > 0 {
			progress = min(float64(now.Sub(a.start))/float64(e.duration), 1)
		}
		if a.cb.OnFrame != nil {
			eased := e.easing(progress)
			a.cb.OnFrame(Frame{
				Progress: progress,
				Rect:     a.from.Lerp(a.to, eased),
				Opacity:  a.fade.opacity(eased),
			})
		}
		if progress >= 1 && !a.done {
			a.done = true
			if a.cb.OnFinished != nil {
				a.cb.OnFinished()
			}
		}
	}
	kept := batch[:0]
	for _, a := range batch {
		if !a.done {
			kept = append(kept, a)
		}
	}
	e.anims = append(kept, e.anims...)
}

// Flush runs every animation, including ones started while flushing, to
// completion. It gives up after a bounded number of rounds so a callback
// that keeps starting animations cannot spin forever.
func (e *Engine) Flush() {
	now := time.Now()
	for round := 0; round < 64 && !e.Idle(); round++ {
		e.Tick(now)
		now = now.Add(e.duration + time.Millisecond)
		e.Tick(now)
	}
}
