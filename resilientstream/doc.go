// Package resilientstream wraps an arbitrary upstream sequence with a
// recovery policy: restart from scratch, retry with backoff, substitute a
// fallback value, skip the error, or escalate it downstream. The strategy
// for a given failure is looked up by its errs.Kind in a table, falling
// back to a configured default (spec §4.6).
//
// # Recovery strategies
//
//   - [RecoveryRestart]: cancel the upstream subscription, wait
//     Policy.InitialRetryDelay, and resubscribe unconditionally.
//   - [RecoveryRetry]: same as restart, but bounded by Policy.MaxRetries
//     and using the jittered backoff formula from resilience.Kernel
//     (attempt count resets on the next successful emission).
//   - [RecoveryFallback]: emit a configured fallback value downstream,
//     then end the stream without resubscribing.
//   - [RecoverySkip]: swallow the error silently, then end the stream
//     without resubscribing.
//   - [RecoveryEscalate]: publish the error on the Errors event bus, then
//     end the stream.
//
// # StreamHealth
//
// Every upstream failure and success updates a [StreamHealth]: success
// rate, average response time (inter-emission latency), a bounded ring
// buffer of recent errors, and the last success/error timestamps. Its
// success/failure accounting deliberately mirrors health.Result's
// healthy/degraded/unhealthy vocabulary (see [StreamHealth.Result]) so a
// host embedding this library can surface stream health next to engine
// connection health through one health.Checker facade.
//
// When health monitoring is enabled (Policy.HealthCheckInterval > 0), a
// background check runs at that interval: if the success rate is at or
// below 0.5 and the error ring buffer holds at least
// Policy.DegradedErrorThreshold entries, the wrapper forces a restart
// regardless of what the per-error strategy table would have chosen.
package resilientstream
