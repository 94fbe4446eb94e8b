// Package pubsub fans values out to in-process subscribers without ever
// blocking the publisher.
package pubsub

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultBuffer is the per-subscriber outbox size used when none is given.
const DefaultBuffer = 16

// Subscription receives published values on C until it is cancelled.
type Subscription[T any] struct {
	ID          ulid.ULID
	ConnectedAt time.Time
	C           <-chan T
	Done        <-chan struct{}

	ch   chan T
	done chan struct{}
}

// Hub broadcasts values of type T to every live subscription.
type Hub[T any] struct {
	mu         sync.RWMutex
	subs       map[ulid.ULID]*Subscription[T]
	bufferSize int
	dropped    atomic.Uint64
	log        *slog.Logger
}

// NewHub creates a hub whose subscribers buffer up to bufferSize values.
func NewHub[T any](bufferSize int, log *slog.Logger) *Hub[T] {
	if bufferSize <= 0 {
		bufferSize = DefaultBuffer
	}
	if log == nil {
		log = slog.Default()
	}
	return &Hub[T]{
		subs:       make(map[ulid.ULID]*Subscription[T]),
		bufferSize: bufferSize,
		log:        log,
	}
}

// Subscribe registers a new subscription. The returned cancel func is idempotent.
func (h *Hub[T]) Subscribe() (*Subscription[T], func()) {
	ch := make(chan T, h.bufferSize)
	done := make(chan struct{})
	sub := &Subscription[T]{
		ID:          ulid.Make(),
		ConnectedAt: time.Now(),
		C:           ch,
		Done:        done,
		ch:          ch,
		done:        done,
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()

	h.log.Debug("subscribed", "sub_id", sub.ID.String())

	return sub, func() { h.Unsubscribe(sub.ID) }
}

// Unsubscribe removes a subscription and closes its channels.
func (h *Hub[T]) Unsubscribe(id ulid.ULID) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	close(sub.ch)
	close(sub.done)
	h.log.Debug("unsubscribed", "sub_id", id.String())
}

// Publish delivers v to every subscriber, dropping it for those whose outbox is full.
func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subs {
		sendOrDrop(sub.ch, v, func() {
			h.dropped.Add(1)
			h.log.Warn("outbox full, dropping value", "sub_id", id.String())
		})
	}
}

// Close cancels every subscription.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[ulid.ULID]*Subscription[T])
	h.mu.Unlock()

	for _, sub := range subs {
		close(sub.ch)
		close(sub.done)
	}
}

// sendOrDrop is the only place that can decide to drop a value.
func sendOrDrop[T any](ch chan T, v T, onDrop func()) {
	select {
	case ch <- v:
	default:
		onDrop()
	}
}

// Stats returns the live subscriber count and the number of dropped deliveries.
func (h *Hub[T]) Stats() (subscribers int, dropped uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs), h.dropped.Load()
}
