package workqueue

import (
	"container/heap"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/streams"
)

// ErrItemProcessing is returned by Remove when the item is currently
// processing (spec §4.5: "a processing item cannot be removed externally").
var ErrItemProcessing = errors.New("workqueue: item is processing")

// ErrItemNotFound is returned by Remove for an unknown id.
var ErrItemNotFound = errors.New("workqueue: item not found")

// Queue holds workflow-start requests ordered by priority, descending,
// ties broken by insertion order (spec §4.5).
type Queue struct {
	mu      sync.Mutex
	cfg     domain.QueueConfig
	all     map[string]*domain.QueuedItem
	pending pendingHeap
	seq     int64

	events *streams.EventBus[Event]
}

// NewQueue returns an empty Queue governed by cfg.
func NewQueue(cfg domain.QueueConfig) *Queue {
	return &Queue{
		cfg:    cfg,
		all:    make(map[string]*domain.QueuedItem),
		events: streams.NewEventBus[Event](),
	}
}

// Enqueue inserts item, assigning a uuid4 ID if item.ID is empty, and
// returns the stored item. Insertion position in priority order is
// immediate (spec §4.5 invariant).
func (q *Queue) Enqueue(item domain.QueuedItem) domain.QueuedItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enqueueLocked(item)
}

func (q *Queue) enqueueLocked(item domain.QueuedItem) domain.QueuedItem {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.Status = domain.QueueItemPending
	item.EnqueuedAt = time.Now()

	stored := item
	q.all[stored.ID] = &stored

	q.seq++
	heap.Push(&q.pending, &heapEntry{item: &stored, seq: q.seq})

	q.events.Publish(Event{Kind: EventEnqueued, Item: stored})
	return stored
}

// EnqueueMany inserts every item in items, in order, and returns the
// stored copies.
func (q *Queue) EnqueueMany(items []domain.QueuedItem) []domain.QueuedItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.QueuedItem, len(items))
	for i, item := range items {
		out[i] = q.enqueueLocked(item)
	}
	return out
}

// Remove deletes a pending, completed, or failed item by id. Removing a
// processing item is illegal and returns ErrItemProcessing.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.all[id]
	if !ok {
		return ErrItemNotFound
	}
	if item.Status == domain.QueueItemProcessing {
		return ErrItemProcessing
	}

	delete(q.all, id)
	if item.Status == domain.QueueItemPending {
		q.removeFromPendingLocked(id)
	}
	q.events.Publish(Event{Kind: EventRemoved, Item: *item})
	return nil
}

func (q *Queue) removeFromPendingLocked(id string) {
	for i, he := range q.pending {
		if he.item.ID == id {
			heap.Remove(&q.pending, i)
			return
		}
	}
}

// ClearCompleted removes every completed item.
func (q *Queue) ClearCompleted() {
	q.clearByStatus(domain.QueueItemCompleted)
}

// ClearFailed removes every failed item.
func (q *Queue) ClearFailed() {
	q.clearByStatus(domain.QueueItemFailed)
}

func (q *Queue) clearByStatus(status domain.QueueItemStatus) {
	q.mu.Lock()
	var removed []string
	for id, item := range q.all {
		if item.Status == status {
			removed = append(removed, id)
		}
	}
	for _, id := range removed {
		delete(q.all, id)
	}
	q.mu.Unlock()
}

// Clear removes every pending, completed, and failed item. Items currently
// processing are left untouched and run to completion (spec §4.5
// invariant).
func (q *Queue) Clear() {
	q.mu.Lock()
	for id, item := range q.all {
		if item.Status != domain.QueueItemProcessing {
			delete(q.all, id)
		}
	}
	q.pending = q.pending[:0]
	q.mu.Unlock()

	q.events.Publish(Event{Kind: EventCleared})
}

// Metrics derives QueueMetrics by counting items by status.
func (q *Queue) Metrics() domain.QueueMetrics {
	q.mu.Lock()
	defer q.mu.Unlock()

	var m domain.QueueMetrics
	for _, item := range q.all {
		switch item.Status {
		case domain.QueueItemPending:
			m.Pending++
		case domain.QueueItemProcessing:
			m.Processing++
		case domain.QueueItemCompleted:
			m.Completed++
		case domain.QueueItemFailed:
			m.Failed++
		}
	}
	return m
}

// Item returns a snapshot of the item with the given id, if present.
func (q *Queue) Item(id string) (domain.QueuedItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.all[id]
	if !ok {
		return domain.QueuedItem{}, false
	}
	return *item, true
}
