package executioncache

import (
	"context"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/streams"
)

// EventKind identifies a cache lifecycle event (spec §4.4).
type EventKind string

const (
	EventHit            EventKind = "hit"
	EventMiss           EventKind = "miss"
	EventExpired        EventKind = "expired"
	EventSet            EventKind = "set"
	EventInvalidated    EventKind = "invalidated"
	EventInvalidatedAll EventKind = "invalidated_all"
	EventPrewarmed      EventKind = "prewarmed"
	EventCleaned        EventKind = "cleaned"
	EventCleared        EventKind = "cleared"
	EventRejected       EventKind = "rejected"
)

// Event is a single cache lifecycle occurrence, published on the bus
// returned by Cache.Events.
type Event struct {
	Kind EventKind

	// ID is the execution id involved, empty for whole-cache events
	// (InvalidatedAll, Cleared).
	ID string

	// Execution is populated for Hit and Set events, and for Invalidated
	// events raised by Invalidate on an id that was cached (not for those
	// raised by InvalidatePattern).
	Execution domain.WorkflowExecution

	// Count is populated for Cleaned (entries evicted) and Prewarmed
	// (ids hydrated).
	Count int

	// Err is populated for Rejected: Get or Watch was called with a
	// provisional id and fetch was never invoked.
	Err error
}

type eventBus struct {
	bus *streams.EventBus[Event]
}

func newEventBus() *eventBus {
	return &eventBus{bus: streams.NewEventBus[Event]()}
}

func (e *eventBus) publish(ev Event) { e.bus.Publish(ev) }
func (e *eventBus) close()           { e.bus.Close() }

// Events returns a stream of cache lifecycle events.
func (c *Cache) Events(ctx context.Context) streams.Stream[Event] {
	return streams.FuncStream[Event](func(ctx context.Context) <-chan Event {
		return c.events.bus.Subscribe(ctx)
	})
}

// invalidationSignal carries an invalidation instruction to Watch
// subscribers: either a single id, or, when All is true, every id.
type invalidationSignal struct {
	ID  string
	All bool
}

type invalidationBus struct {
	bus *streams.EventBus[invalidationSignal]
}

func newInvalidationBus() *invalidationBus {
	return &invalidationBus{bus: streams.NewEventBus[invalidationSignal]()}
}

func (i *invalidationBus) close() { i.bus.Close() }
