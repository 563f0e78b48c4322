//go:build debug

package eventloop

import "testing"

func TestLoop_PanicPropagatesInDebugBuilds(t *testing.T) {
	l := New(Config{})
	l.Post(func() { panic("bad handler") })

	defer func() {
		if recover() == nil {
			t.Fatalf("expected the panic to reach the caller")
		}
	}()
	l.Drain()
}
