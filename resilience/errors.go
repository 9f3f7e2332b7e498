package resilience

import "github.com/unfazed-dev/n8n-go/errs"

// Sentinel errors returned by the rate limiter and bulkhead. Both are
// built as classified *errs.Error values, the same as every other
// rejection the kernel or transport produces (see errs.BreakerOpen and
// Kernel.ExecuteWithRetry), so a caller that only ever inspects
// *errs.Error.Kind doesn't need a separate case for local backpressure
// versus an engine-reported 429.
var (
	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded error = errs.New(errs.KindRateLimit, "resilience: rate limit exceeded",
		errs.WithRetryable(true), errs.WithMetadata("limiter", "tokenBucket"))

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull error = errs.New(errs.KindRateLimit, "resilience: bulkhead at capacity",
		errs.WithRetryable(true), errs.WithMetadata("limiter", "bulkhead"))
)
