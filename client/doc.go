// Package client composes transport, resilience, polling, streams and
// health into the reactive client (spec §4.3): every remote operation is
// exposed as a multi-subscriber observable sequence, state subjects
// replay their current value to new subscribers, and event buses
// broadcast without replay.
//
// Shared state subjects:
//
//   - ExecutionState: the current execution-id → WorkflowExecution map.
//   - Config: the service configuration the client was built with.
//   - ConnectionState: one of {disconnected, connecting, connected, error},
//     kept current by a background probe against the engine's health
//     endpoint.
//   - Metrics: rolling PerformanceMetrics.
//
// Event subjects:
//
//   - WorkflowEvents: Started/Completed/Resumed/Cancelled/Error, each
//     carrying an execution id and timestamp.
//   - Errors: classified errors that escaped an operation.
//
// Dispose is idempotent and closes every subject, cancels every
// background task (the health probe and any live polling session), and
// drops every cached polling sequence.
package client
