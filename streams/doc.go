// Package streams supplies the "hot source" primitives spec §9 calls out as
// needing re-architecture away from a reactive-extensions library: a
// latest-value holder (single slot, fan-out on change), a non-replaying
// event bus, and a small set of combinators (Map, Filter, Distinct, Merge,
// TakeWhile, Throttle, ShareReplay) over a minimal Stream interface.
//
// Every hot source here is a fan-out dispatcher over channels, one per
// subscriber, guarded by a mutex the same way resilience.Bulkhead and
// resilience.CircuitBreaker guard their counters. There is no single
// upstream "Subscribe then forget": a source keeps running (or keeps its
// latest value) independently of whether anyone is currently subscribed,
// and every subscriber gets its own buffered channel so a slow reader
// cannot stall others.
package streams
