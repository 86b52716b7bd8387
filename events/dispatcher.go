package events

import "sync"

// Dispatcher delivers lifecycle events to whoever holds dashboard state.
// It abstracts the delivery mechanism so the client never depends on the UI
// layer directly.
type Dispatcher interface {
	// Dispatch delivers the event to every subscribed handler synchronously,
	// in registration order.
	Dispatch(evt Event)
}

// Handler processes one dispatched event.
type Handler func(evt Event)

// Bus is an in-process Dispatcher holding an explicit ordered handler list.
// Handlers run sequentially in the order they were registered. Safe for
// concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Ensure Bus implements the interface
var _ Dispatcher = (*Bus)(nil)

// Subscribe appends a handler to the dispatch list.
func (b *Bus) Subscribe(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Dispatch invokes every handler with the event, in registration order.
func (b *Bus) Dispatch(evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}
}

// NoopDispatcher discards every event. Used when no state layer is attached.
type NoopDispatcher struct{}

// Dispatch discards the event.
func (NoopDispatcher) Dispatch(Event) {}
