// Package resilience provides the failure-handling kernel used when
// talking to the workflow engine: circuit breaking, retry with backoff,
// rate limiting, and bulkhead concurrency limiting.
//
// # Ecosystem Position
//
// resilience sits between the client's operations and the transport:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Client Execution Flow                      │
//	├─────────────────────────────────────────────────────────────────┤
//	│                                                                 │
//	│   client             resilience              transport          │
//	│   ┌──────┐         ┌───────────┐           ┌─────────┐         │
//	│   │ call │────────▶│  Kernel   │──────────▶│ engine  │         │
//	│   └──────┘         │           │           │  (API)  │         │
//	│                    │ ┌───────┐ │           └─────────┘         │
//	│                    │ │Breaker│ │                                │
//	│                    │ ├───────┤ │                                │
//	│                    │ │ Retry │ │                                │
//	│                    │ └───────┘ │                                │
//	│                    └───────────┘                                │
//	│                                                                 │
//	│   Independently composable via Executor:                        │
//	│   RateLimiter → Bulkhead                                         │
//	│                                                                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Patterns
//
//   - [Kernel] combines [CircuitBreaker] with the retry/backoff algorithm:
//     every failure is classified via errs.Classify before the breaker or
//     the retry loop reasons about it, so both work against *errs.Error
//     kinds rather than opaque errors.
//
//   - [CircuitBreaker]: prevents cascading failures by stopping requests
//     to a failing engine after a threshold is reached. Transitions
//     through closed → open → halfOpen.
//
//   - [RateLimiter]: token bucket rate limiting to avoid overwhelming the
//     engine. Supports burst allowance and wait-on-limit.
//
//   - [Bulkhead]: semaphore-based concurrency limiting to isolate
//     failures and bound resource usage. Both it and [RateLimiter] reject
//     with a classified *errs.Error (errs.KindRateLimit) rather than a
//     bare sentinel, so a rejection reaching client.Client.Errors looks
//     like any other engine-reported failure.
//
//   - [Executor] composes RateLimiter and Bulkhead (in that order,
//     outermost first) around an operation. Kernel is applied by the
//     caller around the whole chain, since it needs to see the final
//     classified error to decide whether to retry. Per-call timeouts are
//     applied directly via context by the caller instead, since an
//     Executor is built once and shared but a timeout is usually
//     per-call (see transport.HTTPTransport).
//
// # Quick start
//
//	k := resilience.NewKernel(domain.DefaultRetryPolicy())
//
//	err := k.ExecuteWithRetry(ctx, "get-execution", func(ctx context.Context) error {
//	    return callEngine(ctx)
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	        Rate:  100,
//	        Burst: 10,
//	    })),
//	)
//
// # Thread safety
//
// All exported types are safe for concurrent use after construction.
package resilience
