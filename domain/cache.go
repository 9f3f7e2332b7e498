package domain

import "time"

// CachedExecution is a (WorkflowExecution, insertion timestamp) pair
// (spec §3).
type CachedExecution struct {
	Execution  WorkflowExecution
	InsertedAt time.Time
}

// Expired reports whether this entry has aged past ttl as of now.
func (c CachedExecution) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.InsertedAt) > ttl
}
