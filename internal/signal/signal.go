// Package signal provides synchronous change notification for shell
// entities. Every emit site in the shell is a discrete event delivered in
// connection order on the calling goroutine; there is no queueing.
package signal

// Connection identifies a connected handler.
type Connection uint64

// Signal is an observer list for events carrying a value of type T.
// The zero value is ready to use. Signal is not safe for concurrent use;
// it lives on the shell's event loop like everything else it notifies.
type Signal[T any] struct {
	next     Connection
	handlers []handler[T]
}

type handler[T any] struct {
	id Connection
	fn func(T)
}

// Connect registers fn and returns a handle for Disconnect.
func (s *Signal[T]) Connect(fn func(T)) Connection {
	s.next++
	s.handlers = append(s.handlers, handler[T]{id: s.next, fn: fn})
	return s.next
}

// Disconnect removes a handler. Unknown handles are ignored.
func (s *Signal[T]) Disconnect(id Connection) {
	for i, h := range s.handlers {
		if h.id == id {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return
		}
	}
}

// Emit calls every handler connected at the time of the call. Handlers
// connected or disconnected during delivery take effect from the next Emit.
func (s *Signal[T]) Emit(v T) {
	if len(s.handlers) == 0 {
		return
	}
	snapshot := s.handlers
	for _, h := range snapshot {
		h.fn(v)
	}
}

// Len returns the number of connected handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}

// Notifier is a Signal without a payload.
type Notifier struct {
	Signal[struct{}]
}

// Notify emits the notifier.
func (n *Notifier) Notify() {
	n.Emit(struct{}{})
}

// Watch connects a payload-less handler.
func (n *Notifier) Watch(fn func()) Connection {
	return n.Connect(func(struct{}) { fn() })
}
