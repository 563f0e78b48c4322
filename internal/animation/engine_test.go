package animation

import (
	"math"
	"testing"
	"time"

	"github.com/1broseidon/surfshell/internal/geom"
)

func TestEngine_ReadyThenFinished(t *testing.T) {
	e := NewEngine(Options{Duration: 100 * time.Millisecond, Easing: Linear})
	var events []string
	var last Frame
	e.StartGeometry(geom.Rect{Width: 100, Height: 100}, geom.Rect{X: 100, Width: 200, Height: 100}, Callbacks{
		OnReady:    func() { events = append(events, "ready") },
		OnFinished: func() { events = append(events, "finished") },
		OnFrame:    func(f Frame) { last = f },
	})

	if e.Idle() {
		t.Fatalf("expected pending animation")
	}
	if len(events) != 0 {
		t.Fatalf("start must not invoke callbacks, got %v", events)
	}

	t0 := time.Unix(0, 0)
	e.Tick(t0)
	if len(events) != 1 || events[0] != "ready" {
		t.Fatalf("expected ready on first tick, got %v", events)
	}

	e.Tick(t0.Add(50 * time.Millisecond))
	if math.Abs(last.Rect.X-50) > 1e-9 || math.Abs(last.Rect.Width-150) > 1e-9 {
		t.Fatalf("unexpected halfway frame %v", last.Rect)
	}

	e.Tick(t0.Add(100 * time.Millisecond))
	if len(events) != 2 || events[1] != "finished" {
		t.Fatalf("expected finished, got %v", events)
	}
	if !e.Idle() {
		t.Fatalf("expected idle engine")
	}
}

func TestEngine_StopSuppressesCallbacks(t *testing.T) {
	e := NewEngine(Options{Duration: 10 * time.Millisecond})
	finished := false
	var h Handle
	h = e.StartGeometry(geom.Rect{Width: 1, Height: 1}, geom.Rect{Width: 2, Height: 2}, Callbacks{
		OnReady:    func() { h.Stop() },
		OnFinished: func() { finished = true },
	})
	e.Tick(time.Unix(0, 0))
	e.Tick(time.Unix(1, 0))
	if finished {
		t.Fatalf("stopped animation must not finish")
	}
	if h.Running() {
		t.Fatalf("expected handle to report stopped")
	}
	if !e.Idle() {
		t.Fatalf("expected idle engine")
	}
}

func TestEngine_Retarget(t *testing.T) {
	e := NewEngine(Options{Duration: 10 * time.Millisecond, Easing: Linear})
	var last Frame
	h := e.StartGeometry(geom.Rect{Width: 10, Height: 10}, geom.Rect{Width: 20, Height: 20}, Callbacks{
		OnFrame: func(f Frame) { last = f },
	})
	e.Tick(time.Unix(0, 0))
	h.Retarget(geom.Rect{X: 5, Width: 40, Height: 40})
	e.Tick(time.Unix(1, 0))
	if last.Rect != (geom.Rect{X: 5, Width: 40, Height: 40}) {
		t.Fatalf("expected retargeted final frame, got %v", last.Rect)
	}
}

func TestEngine_ZeroDurationFinishesOnFirstTick(t *testing.T) {
	e := NewEngine(Options{})
	var events []string
	e.StartShow(geom.Rect{Width: 10, Height: 10}, false, Callbacks{
		OnReady:    func() { events = append(events, "ready") },
		OnFinished: func() { events = append(events, "finished") },
	})
	e.Tick(time.Unix(0, 0))
	if len(events) != 2 {
		t.Fatalf("expected ready and finished in one tick, got %v", events)
	}
}

func TestEngine_StartFromCallbackRunsNextTick(t *testing.T) {
	e := NewEngine(Options{})
	second := 0
	e.StartOpenClose(geom.Rect{Width: 10, Height: 10}, Open, Callbacks{
		OnFinished: func() {
			e.StartOpenClose(geom.Rect{Width: 10, Height: 10}, Close, Callbacks{
				OnFinished: func() { second++ },
			})
		},
	})
	e.Tick(time.Unix(0, 0))
	if second != 0 || e.Active() != 1 {
		t.Fatalf("expected chained animation to wait for the next tick")
	}
	e.Tick(time.Unix(1, 0))
	if second != 1 {
		t.Fatalf("expected chained animation to finish")
	}
}

func TestEngine_SpeedScalesDuration(t *testing.T) {
	e := NewEngine(Options{Duration: 200 * time.Millisecond, Speed: 2})
	if e.Duration() != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %s", e.Duration())
	}
}

func TestEngine_Flush(t *testing.T) {
	e := NewEngine(DefaultOptions())
	done := 0
	for i := 0; i < 3; i++ {
		e.StartMinimize(geom.Rect{Width: 10, Height: 10}, geom.Rect{}, Close, Callbacks{
			OnFinished: func() { done++ },
		})
	}
	e.Flush()
	if done != 3 || !e.Idle() {
		t.Fatalf("expected all animations flushed, done=%d", done)
	}
}

func TestParseEasing(t *testing.T) {
	for _, name := range EasingNames() {
		fn, err := ParseEasing(name)
		if err != nil {
			t.Fatalf("ParseEasing(%q): %v", name, err)
		}
		if math.Abs(fn(0)) > 1e-9 || math.Abs(fn(1)-1) > 1e-9 {
			t.Fatalf("%s: curve must start at 0 and end at 1", name)
		}
	}
	if _, err := ParseEasing("bounce"); err == nil {
		t.Fatalf("expected unknown easing error")
	}
}
