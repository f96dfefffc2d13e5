// Package eventbus is an in-memory publish/subscribe bus. The dispatcher
// publishes one event per completed call; subscribers (the audit logger)
// consume them off the dispatch path.
//
// Design:
//   - Buffered Go channel per topic (buffer=100).
//   - Publish is non-blocking: drops the event silently if the buffer is full.
//   - Subscribe returns a read-only channel; the caller owns the consumption loop.
//   - Close closes every subscriber channel so consumption loops can drain
//     and exit on shutdown.
//   - No persistence: events are fire-and-forget.
package eventbus

import (
	"sync"
	"time"
)

// TopicCallCompleted carries one CallEvent per dispatched call.
const TopicCallCompleted = "call.completed"

// CallEvent describes one finished call, success or failure.
type CallEvent struct {
	CorrelationID string
	Tool          string
	Duration      time.Duration
	ErrorKind     string // empty on success
}

// Event is a single published message.
type Event struct {
	Topic   string
	Payload any
}

// EventBus is the interface for publishing and subscribing to topics.
type EventBus interface {
	Publish(topic string, payload any)
	Subscribe(topic string) <-chan Event
}

const defaultBufferSize = 100

// Bus is the in-memory implementation of EventBus.
type Bus struct {
	mu          sync.RWMutex
	closed      bool
	subscribers map[string][]chan Event
}

// New returns a new in-memory Bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[string][]chan Event),
	}
}

// Subscribe registers a new subscriber for topic and returns a read-only channel.
// The caller must consume the channel to prevent blocking on future Publish
// calls. Subscribing to a closed bus returns an already-closed channel.
func (b *Bus) Subscribe(topic string) <-chan Event {
	ch := make(chan Event, defaultBufferSize)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

// Publish sends an Event to all subscribers of topic.
// If a subscriber's buffer is full the event is dropped (non-blocking).
// Publishing to a closed bus is a no-op.
func (b *Bus) Publish(topic string, payload any) {
	evt := Event{Topic: topic, Payload: payload}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- evt:
		default:
			// buffer full, drop the event
		}
	}
}

// Close closes every subscriber channel and rejects further publishes.
// Buffered events remain readable; consumption loops see the channel close
// once they have drained. Idempotent.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = nil
}
