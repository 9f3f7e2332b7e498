package errs

import (
	"context"
	"errors"
	"net"
	"time"
)

// timeoutLike is satisfied by any error that can tell us it represents a
// deadline, matching the pattern used for both context.DeadlineExceeded
// and net.Error's Timeout() method.
type timeoutLike interface {
	Timeout() bool
}

// Classify turns an arbitrary upstream failure into a Kind per spec §4.1:
//
//   - nil stays nil.
//   - a failure that is already an *Error passes through unchanged.
//   - a timeout-shaped failure (context.DeadlineExceeded, or any error
//     implementing Timeout() bool that returns true) becomes KindTimeout,
//     carrying the originating duration in Metadata["timeout"] when d > 0.
//   - any other net.Error becomes KindNetwork.
//   - everything else becomes KindUnknown.
//
// Beyond the net.Error case, Classify does not distinguish transport
// errors beyond what callers attach; callers that know more (e.g. the transport mapping HTTP status
// codes) should build an *Error directly with New instead of routing
// through Classify.
func Classify(failure error, d time.Duration) *Error {
	if failure == nil {
		return nil
	}

	var already *Error
	if errors.As(failure, &already) {
		return already
	}

	if isTimeout(failure) {
		opts := []Option{WithCause(failure)}
		if d > 0 {
			opts = append(opts, WithMetadata("timeout", d))
		}
		return New(KindTimeout, "operation timed out", opts...)
	}

	var netErr net.Error
	if errors.As(failure, &netErr) {
		return New(KindNetwork, netErr.Error(), WithCause(failure))
	}

	return New(KindUnknown, failure.Error(), WithCause(failure))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t timeoutLike
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return false
}

// FromStatusCode builds an *Error from an HTTP-style response per the
// status-code mapping in spec §6. message should describe the endpoint
// being called (e.g. "get execution"); retryAfter is the parsed
// Retry-After header value, if any (only meaningful for 429).
func FromStatusCode(statusCode int, message string, retryAfter time.Duration) *Error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		return New(KindAuthentication, message, WithStatusCode(statusCode), WithRetryable(false))
	case statusCode == 404:
		return New(KindWorkflow, "not found: "+message, WithStatusCode(statusCode), WithRetryable(false))
	case statusCode == 429:
		opts := []Option{WithStatusCode(statusCode), WithRetryable(true)}
		if retryAfter > 0 {
			opts = append(opts, WithMetadata("retryAfter", retryAfter))
		}
		return New(KindRateLimit, message, opts...)
	case statusCode >= 500:
		return New(KindServerError, message, WithStatusCode(statusCode), WithRetryable(true))
	default:
		return New(KindUnknown, message, WithStatusCode(statusCode))
	}
}

// BreakerOpen builds the non-retryable breaker-open error per spec §4.1
// step 1 and §7 ("Circuit-breaker-open is reported as a distinct,
// non-retryable error carrying the current breaker state and failure
// count in metadata").
func BreakerOpen(state string, failureCount int) *Error {
	return New(
		KindServerError,
		"circuit breaker is "+state,
		WithRetryable(false),
		WithMetadata("circuitBreakerState", state),
		WithMetadata("failureCount", failureCount),
	)
}
