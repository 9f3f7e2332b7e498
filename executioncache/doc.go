// Package executioncache provides fast lookup of recently observed
// workflow executions with reactive invalidation, and serves as a
// fan-out point for watchers.
//
// It is adapted from the teacher's generic byte-blob cache package: the
// TTL policy and event-driven metrics survive, generalized from
// []byte values to domain.WorkflowExecution. There is no unsafe-tag
// skip-rule here — every execution is cacheable.
//
// # Core Components
//
//   - [Cache]: TTL map of execution id to domain.CachedExecution, with a
//     single-round-trip hydration path on miss/expiry
//   - [Event] / [EventKind]: the cache's lifecycle event bus (Hit, Miss,
//     Expired, Set, Invalidated, InvalidatedAll, Prewarmed, Cleaned, Cleared)
//   - [Metrics]: cumulative hit/miss/size/hit-rate counters derived from events
//
// # Hydration and the thundering herd
//
// Get and Watch's invalidation-triggered refetch both route through a
// golang.org/x/sync/singleflight group keyed by execution id, so N
// concurrent callers asking for the same missing or expired id produce
// exactly one fetch round-trip. This mirrors the teacher's JWKS key
// provider's guard against a herd of callers refreshing the same key at
// once.
//
// # Thread Safety
//
// Cache is safe for concurrent use. Subscriptions returned by Contents,
// Size, Events, and Watch are torn down when the supplied context is done
// or Close is called.
package executioncache
