package workqueue

import "github.com/unfazed-dev/n8n-go/domain"

// EventKind identifies a queue item lifecycle event.
type EventKind string

const (
	EventEnqueued   EventKind = "enqueued"
	EventProcessing EventKind = "processing"
	EventCompleted  EventKind = "completed"
	EventFailed     EventKind = "failed"
	EventRetrying   EventKind = "retrying"
	EventRemoved    EventKind = "removed"
	EventCleared    EventKind = "cleared"
)

// Event is a single queue item lifecycle occurrence.
type Event struct {
	Kind EventKind
	Item domain.QueuedItem
}
