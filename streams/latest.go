package streams

import (
	"context"
	"sync"
)

// LatestValue is a replaying state subject: every new subscriber
// immediately receives the current value, and every subsequent Set fans
// out to all live subscribers. It implements the shared-state subjects of
// spec §4.3 (executionState$, config$, connectionState$, metrics$).
type LatestValue[T any] struct {
	mu          sync.Mutex
	value       T
	subscribers map[int]chan T
	nextID      int
	closed      bool
}

// NewLatestValue returns a LatestValue seeded with initial.
func NewLatestValue[T any](initial T) *LatestValue[T] {
	return &LatestValue[T]{
		value:       initial,
		subscribers: make(map[int]chan T),
	}
}

// Subscribe returns a channel that immediately receives the current value,
// then every subsequent Set until ctx is done or Close is called.
func (l *LatestValue[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, subscriberBuffer)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch
	}
	id := l.nextID
	l.nextID++
	l.subscribers[id] = ch
	current := l.value
	l.mu.Unlock()

	ch <- current

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		defer l.mu.Unlock()
		if sub, ok := l.subscribers[id]; ok {
			delete(l.subscribers, id)
			close(sub)
		}
	}()

	return ch
}

// Get returns the current value without subscribing.
func (l *LatestValue[T]) Get() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

// Set replaces the current value and fans it out to every live subscriber.
// A subscriber whose buffer is full drops the emission rather than
// blocking the publisher (spec §5's atomic-read-modify-write guarantee is
// about the value itself, not about delivery to slow subscribers).
func (l *LatestValue[T]) Set(v T) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.value = v
	subs := make([]chan T, 0, len(l.subscribers))
	for _, ch := range l.subscribers {
		subs = append(subs, ch)
	}
	l.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Update atomically reads and replaces the current value via fn, the
// read-modify-write primitive spec §5 requires for executionState$-style
// maps.
func (l *LatestValue[T]) Update(fn func(T) T) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.value = fn(l.value)
	v := l.value
	subs := make([]chan T, 0, len(l.subscribers))
	for _, ch := range l.subscribers {
		subs = append(subs, ch)
	}
	l.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Close is idempotent: it closes every live subscriber channel and causes
// future Subscribe calls to return an already-closed channel. Per the
// client's dispose() contract (spec §4.3), after Close no subject emits.
func (l *LatestValue[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for id, ch := range l.subscribers {
		delete(l.subscribers, id)
		close(ch)
	}
}
