package domain

import (
	"testing"
	"time"
)

func TestParseExecutionID_Real(t *testing.T) {
	id := ParseExecutionID("abc123")
	if id.IsProvisional() {
		t.Error("IsProvisional() = true, want false")
	}
	if id.String() != "abc123" {
		t.Errorf("String() = %q, want abc123", id.String())
	}
}

func TestParseExecutionID_Provisional(t *testing.T) {
	id := ParseExecutionID("webhook-orders/create-1700000000000")
	if !id.IsProvisional() {
		t.Fatal("IsProvisional() = false, want true")
	}
	if id.WebhookPath() != "orders/create" {
		t.Errorf("WebhookPath() = %q, want orders/create", id.WebhookPath())
	}
	if id.EpochMs() != 1700000000000 {
		t.Errorf("EpochMs() = %d, want 1700000000000", id.EpochMs())
	}
}

func TestNewProvisionalID_RoundTrip(t *testing.T) {
	built := NewProvisionalID("orders/create", 1700000000000)
	parsed := ParseExecutionID(built.String())
	if !parsed.IsProvisional() || parsed.WebhookPath() != "orders/create" || parsed.EpochMs() != 1700000000000 {
		t.Errorf("round trip mismatch: %+v", parsed)
	}
}

func TestStatus_IsActiveIsTerminal(t *testing.T) {
	active := []Status{StatusNew, StatusRunning, StatusWaiting}
	for _, s := range active {
		if !s.IsActive() || s.IsTerminal() {
			t.Errorf("%s: want active, non-terminal", s)
		}
	}
	terminal := []Status{StatusSuccess, StatusError, StatusCanceled, StatusCrashed}
	for _, s := range terminal {
		if s.IsActive() || !s.IsTerminal() {
			t.Errorf("%s: want terminal, non-active", s)
		}
	}
}

func TestWorkflowExecution_Valid(t *testing.T) {
	now := time.Now()
	terminalNoFinish := WorkflowExecution{Status: StatusSuccess}
	if terminalNoFinish.Valid() {
		t.Error("terminal execution without FinishedAt should be invalid")
	}
	terminalWithFinish := WorkflowExecution{Status: StatusSuccess, FinishedAt: &now}
	if !terminalWithFinish.Valid() {
		t.Error("terminal execution with FinishedAt should be valid")
	}
	active := WorkflowExecution{Status: StatusRunning}
	if !active.Valid() {
		t.Error("active execution should always be valid")
	}
}

func TestWorkflowExecution_Equal(t *testing.T) {
	a := WorkflowExecution{ID: RealID("x"), Status: StatusRunning}
	b := WorkflowExecution{ID: RealID("x"), Status: StatusSuccess}
	c := WorkflowExecution{ID: RealID("y")}
	if !a.Equal(b) {
		t.Error("executions with the same ID should be Equal regardless of other fields")
	}
	if a.Equal(c) {
		t.Error("executions with different IDs should not be Equal")
	}
}
