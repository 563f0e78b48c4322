//go:build !debug

package eventloop

import (
	"context"
	"testing"
)

func TestLoop_PanicDoesNotKillLoop(t *testing.T) {
	l := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	l.Post(func() { panic("bad handler") })
	if err := l.Call(ctx, func() error { return nil }); err != nil {
		t.Fatalf("loop must survive a panic: %v", err)
	}
}

func TestLoop_DrainSurvivesPanic(t *testing.T) {
	l := New(Config{})
	ran := false
	l.Post(func() { panic("bad handler") })
	l.Post(func() { ran = true })
	if got := l.Drain(); got != 2 || !ran {
		t.Fatalf("expected both functions drained, got %d (ran=%v)", got, ran)
	}
}
