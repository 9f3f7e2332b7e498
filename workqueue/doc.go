// Package workqueue accepts workflow start requests, orders them by
// priority, and dispatches them to a client respecting throttle,
// concurrency, and retry policy (spec §4.5).
//
// It is new relative to the teacher repo: no example in the retrieval
// pack ships a priority queue library, so ordering is built on the
// standard library's container/heap, and item identifiers use
// github.com/google/uuid (already an indirect dependency of the teacher's
// module, promoted here to direct).
//
// # Core Components
//
//   - [Queue]: priority-ordered (descending priority, insertion-order
//     tiebreak) holding pending/processing/completed/failed items
//   - [StartFunc] / [PollFunc]: the collaborator functions a Queue
//     dispatches through — typically client.StartWorkflow and a
//     poll-to-terminal helper built on client.PollExecutionStatus
//   - [Event] / [EventKind]: per-item lifecycle events
//
// # Processing disciplines
//
// RunThrottled paces item starts no faster than QueueConfig.ThrottleInterval
// apart, using resilience.RateLimiter. RunConcurrent dispatches up to
// QueueConfig.MaxConcurrent items at once, using resilience.Bulkhead. Both
// share the same per-item lifecycle: pending -> processing -> completed,
// or processing -> failed (retried back to pending when retries remain and
// QueueConfig.RetryFailedItems is set).
package workqueue
