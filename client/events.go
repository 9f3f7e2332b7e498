package client

import "time"

// WorkflowEventKind is one of the five lifecycle events a Client posts to
// its WorkflowEvents bus (spec §4.3).
type WorkflowEventKind string

const (
	EventStarted   WorkflowEventKind = "started"
	EventCompleted WorkflowEventKind = "completed"
	EventResumed   WorkflowEventKind = "resumed"
	EventCancelled WorkflowEventKind = "cancelled"
	EventError     WorkflowEventKind = "error"
)

// WorkflowEvent is a single lifecycle event.
type WorkflowEvent struct {
	Kind        WorkflowEventKind
	ExecutionID string
	Timestamp   time.Time
}

func workflowEvent(kind WorkflowEventKind, executionID string) WorkflowEvent {
	return WorkflowEvent{Kind: kind, ExecutionID: executionID, Timestamp: time.Now()}
}
