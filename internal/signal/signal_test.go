package signal

import "testing"

func TestSignal_EmitInConnectionOrder(t *testing.T) {
	var s Signal[int]
	var got []int
	s.Connect(func(v int) { got = append(got, v*10) })
	s.Connect(func(v int) { got = append(got, v*100) })

	s.Emit(2)
	if len(got) != 2 || got[0] != 20 || got[1] != 200 {
		t.Fatalf("unexpected delivery %v", got)
	}
}

func TestSignal_DisconnectDuringEmit(t *testing.T) {
	var s Signal[string]
	calls := 0
	var second Connection
	s.Connect(func(string) {
		calls++
		s.Disconnect(second)
	})
	second = s.Connect(func(string) { calls++ })

	s.Emit("a")
	if calls != 2 {
		t.Fatalf("expected both handlers in first emit, got %d calls", calls)
	}
	s.Emit("b")
	if calls != 3 {
		t.Fatalf("expected only the first handler in second emit, got %d calls", calls)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 handler, got %d", s.Len())
	}
}

func TestNotifier_Watch(t *testing.T) {
	var n Notifier
	fired := false
	n.Watch(func() { fired = true })
	n.Notify()
	if !fired {
		t.Fatalf("expected notifier to fire")
	}
}
