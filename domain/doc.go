// Package domain holds the semantic data model shared by every other
// package in this module: executions, retry/circuit/polling configuration,
// cache entries, and queue items, exactly as specified in spec §3.
//
// domain has no behavior of its own beyond small, pure helper methods
// (Status classification, ExecutionID parsing); the only package of this
// module it imports is errs (for RetryPolicy's retryable-kind set), so
// every other package can depend on it without cycles.
package domain
