package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aescanero/visits/internal/ports"
)

// ErrClosed is returned when subscribing to a closed bus
var ErrClosed = errors.New("event bus closed")

// DefaultBufferSize is the per-subscriber channel capacity
const DefaultBufferSize = 16

// InMemoryEventBus implements EventPublisher and EventSubscriber using
// buffered channels. Publishing never blocks: a subscriber whose buffer is
// full misses the event.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan ports.VisitEvent
	nextID      uint64
	bufferSize  int
	closed      bool
	onDrop      func(ports.VisitEvent)
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(bufferSize int) *InMemoryEventBus {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &InMemoryEventBus{
		subscribers: make(map[uint64]chan ports.VisitEvent),
		bufferSize:  bufferSize,
	}
}

// OnDrop sets a callback invoked for every event a subscriber missed
func (e *InMemoryEventBus) OnDrop(fn func(ports.VisitEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.onDrop = fn
}

// Publish delivers an event to all current subscribers
func (e *InMemoryEventBus) Publish(ctx context.Context, event ports.VisitEvent) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrClosed
	}

	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		default:
			if e.onDrop != nil {
				e.onDrop(event)
			}
		}
	}

	return nil
}

// Subscribe registers a subscriber. The returned channel is closed once ctx
// is done or the bus is closed.
func (e *InMemoryEventBus) Subscribe(ctx context.Context) (<-chan ports.VisitEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	id := e.nextID
	e.nextID++

	ch := make(chan ports.VisitEvent, e.bufferSize)
	e.subscribers[id] = ch

	go func() {
		<-ctx.Done()
		e.unsubscribe(id)
	}()

	return ch, nil
}

// Subscribers returns the number of active subscribers
func (e *InMemoryEventBus) Subscribers() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.subscribers)
}

// Close closes the bus and every subscriber channel
func (e *InMemoryEventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	for id, ch := range e.subscribers {
		close(ch)
		delete(e.subscribers, id)
	}
	return nil
}

// unsubscribe removes and closes a subscriber channel
func (e *InMemoryEventBus) unsubscribe(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch, ok := e.subscribers[id]; ok {
		close(ch)
		delete(e.subscribers, id)
	}
}
