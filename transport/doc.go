// Package transport is the opaque boundary between this core and the
// engine's HTTP/JSON API (spec §4.7/§6): Post, Get, Delete, each bound by
// a per-call timeout and returning the raw status code and body. TLS and
// JSON framing belong to the concrete implementation, not to this
// interface — the kernel and client only ever see an *errs.Error or a
// status code.
//
// HTTPTransport is this module's net/http-backed default. WithExecutor
// wraps its calls in a resilience.Executor for the ambient
// rate-limit/bulkhead stack; the per-call timeout is applied via context.
// EngineClient classifies results at the boundary via
// errs.FromStatusCode/errs.Classify.
package transport
