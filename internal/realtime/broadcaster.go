// Package realtime fans ledger updates out to live subscribers.
package realtime

import "sync"

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 8

// Broadcaster publishes values to every current subscriber.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[chan T]struct{}
	buffer int
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{
		subs:   make(map[chan T]struct{}),
		buffer: DefaultBuffer,
	}
}

// Subscribe registers a new subscriber and returns its channel. After Close
// the returned channel is already closed.
func (b *Broadcaster[T]) Subscribe() chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster[T]) Unsubscribe(ch chan T) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers v to all subscribers.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- v:
		default:
			// Drop if the subscriber is lagging; the next snapshot catches it up.
		}
	}
	b.mu.Unlock()
}

// Len returns the number of subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel and rejects new subscriptions.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	b.closed = true
}
