package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle stage of a WorkflowExecution.
type Status string

const (
	StatusNew      Status = "new"
	StatusRunning  Status = "running"
	StatusWaiting  Status = "waiting"
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
	StatusCanceled Status = "canceled"
	StatusCrashed  Status = "crashed"
	StatusUnknown  Status = "unknown"
)

// IsActive reports whether s is one of {new, running, waiting}.
func (s Status) IsActive() bool {
	switch s {
	case StatusNew, StatusRunning, StatusWaiting:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s is one of {success, error, canceled, crashed}.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusError, StatusCanceled, StatusCrashed:
		return true
	default:
		return false
	}
}

// ExecutionID is the sum type described in spec §9: either a real,
// engine-assigned id, or a client-side provisional id synthesized when the
// engine's start endpoint could not be correlated to a real execution.
//
// The wire format of both variants is the same opaque string; Provisional
// additionally decomposes it into the webhook path and epoch-millisecond
// timestamp it was built from.
type ExecutionID struct {
	raw          string
	isProvisional bool
	webhookPath  string
	epochMs      int64
}

const provisionalPrefix = "webhook-"

// RealID wraps an engine-assigned id.
func RealID(id string) ExecutionID {
	return ExecutionID{raw: id}
}

// NewProvisionalID synthesizes the provisional id described in spec §6:
// "webhook-<path>-<epoch-ms>".
func NewProvisionalID(webhookPath string, epochMs int64) ExecutionID {
	return ExecutionID{
		raw:           fmt.Sprintf("%s%s-%d", provisionalPrefix, webhookPath, epochMs),
		isProvisional: true,
		webhookPath:   webhookPath,
		epochMs:       epochMs,
	}
}

// ParseExecutionID classifies a raw wire id. Any id with the literal
// prefix "webhook-" is provisional per spec §6.
func ParseExecutionID(raw string) ExecutionID {
	if !strings.HasPrefix(raw, provisionalPrefix) {
		return ExecutionID{raw: raw}
	}
	rest := strings.TrimPrefix(raw, provisionalPrefix)
	idx := strings.LastIndex(rest, "-")
	id := ExecutionID{raw: raw, isProvisional: true}
	if idx < 0 {
		id.webhookPath = rest
		return id
	}
	id.webhookPath = rest[:idx]
	if ms, err := strconv.ParseInt(rest[idx+1:], 10, 64); err == nil {
		id.epochMs = ms
	}
	return id
}

// String returns the wire-format id.
func (e ExecutionID) String() string { return e.raw }

// IsProvisional reports whether this id is a client-side placeholder.
func (e ExecutionID) IsProvisional() bool { return e.isProvisional }

// WebhookPath returns the webhook path a provisional id was built from
// (empty for a real id).
func (e ExecutionID) WebhookPath() string { return e.webhookPath }

// EpochMs returns the epoch-millisecond timestamp a provisional id was
// built from (zero for a real id).
func (e ExecutionID) EpochMs() int64 { return e.epochMs }

// WaitNodeData describes the form an execution is waiting on input for.
type WaitNodeData struct {
	FormTitle  string
	FormFields []WaitFormField
}

// WaitFormField is a single field of a waiting form, kept opaque beyond
// its name/type/required-ness so host UIs can render it without this core
// interpreting workflow structure.
type WaitFormField struct {
	Name     string
	Type     string
	Required bool
}

// WorkflowExecution is a single remote execution instance (spec §3).
//
// Equality is by ID: two WorkflowExecution values with the same ID refer
// to the same remote execution regardless of any other field.
type WorkflowExecution struct {
	ID         ExecutionID
	WorkflowID string

	// WorkflowName is a denormalized display name, populated
	// opportunistically from the executions-listing response (SPEC_FULL
	// supplement; absent when the engine does not return it).
	WorkflowName string

	// Mode describes how the execution was triggered ("webhook", "manual",
	// "retry", "trigger"); carried verbatim from the engine when present
	// (SPEC_FULL supplement).
	Mode string

	Status Status

	StartedAt  time.Time
	FinishedAt *time.Time

	Data map[string]any

	WaitingForInput bool
	WaitNodeData    *WaitNodeData
}

// Equal reports whether two executions refer to the same remote execution.
func (e WorkflowExecution) Equal(other WorkflowExecution) bool {
	return e.ID == other.ID
}

// Valid reports whether e satisfies the terminal/finishedAt invariant from
// spec §3: terminal statuses require FinishedAt.
func (e WorkflowExecution) Valid() bool {
	if e.Status.IsTerminal() && e.FinishedAt == nil {
		return false
	}
	return true
}
