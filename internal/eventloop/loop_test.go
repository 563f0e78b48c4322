package eventloop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop_CallRunsOnLoop(t *testing.T) {
	l := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	counter := 0
	for i := 0; i < 10; i++ {
		if err := l.Call(ctx, func() error {
			counter++
			return nil
		}); err != nil {
			t.Fatalf("Call: %v", err)
		}
	}
	if counter != 10 {
		t.Fatalf("expected 10 calls, got %d", counter)
	}

	want := errors.New("boom")
	if err := l.Call(ctx, func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected error to propagate, got %v", err)
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if l.Post(func() {}) {
		t.Fatalf("post after stop must fail")
	}
	if err := l.Call(context.Background(), func() error { return nil }); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestLoop_Frames(t *testing.T) {
	var frames atomic.Int32
	l := New(Config{FrameInterval: time.Millisecond, OnFrame: func(time.Time) { frames.Add(1) }})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go l.Run(ctx)

	deadline := time.Now().Add(time.Second)
	for frames.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if frames.Load() < 3 {
		t.Fatalf("expected frames, got %d", frames.Load())
	}
}

func TestLoop_Drain(t *testing.T) {
	l := New(Config{})
	n := 0
	l.Post(func() { n++ })
	l.Post(func() { n++ })
	if got := l.Drain(); got != 2 || n != 2 {
		t.Fatalf("expected 2 drained, got %d (n=%d)", got, n)
	}
}
