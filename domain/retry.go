package domain

import (
	"time"

	"github.com/unfazed-dev/n8n-go/errs"
)

// RetryPolicy is immutable retry/circuit-breaker configuration (spec §3).
type RetryPolicy struct {
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration

	// BackoffFactor is the multiplicative backoff factor ("backoff" in
	// spec §4.1's delay formula).
	BackoffFactor float64

	// JitterFraction is the ± fraction of the base delay to jitter by.
	JitterFraction float64

	RetryableKinds       map[errs.Kind]bool
	RetryableStatusCodes map[int]bool

	CircuitBreakerEnabled   bool
	CircuitBreakerThreshold int
	CircuitBreakerCoolDown  time.Duration
}

// DefaultRetryableKinds is the recoverable-kind set from spec §7: network,
// timeout, serverError, rateLimit.
func DefaultRetryableKinds() map[errs.Kind]bool {
	return map[errs.Kind]bool{
		errs.KindNetwork:     true,
		errs.KindTimeout:     true,
		errs.KindServerError: true,
		errs.KindRateLimit:   true,
	}
}

// DefaultRetryableStatusCodes is the retryable status-code set from
// spec §7: 500, 502, 503, 504, 429.
func DefaultRetryableStatusCodes() map[int]bool {
	return map[int]bool{500: true, 502: true, 503: true, 504: true, 429: true}
}

// DefaultRetryPolicy returns a policy matching the "Happy path" scenario
// in spec §8: maxRetries=3, initialDelay=500ms, factor=2, cap=30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:             3,
		InitialDelay:            500 * time.Millisecond,
		MaxDelay:                30 * time.Second,
		BackoffFactor:           2.0,
		JitterFraction:          0.1,
		RetryableKinds:          DefaultRetryableKinds(),
		RetryableStatusCodes:    DefaultRetryableStatusCodes(),
		CircuitBreakerEnabled:   true,
		CircuitBreakerThreshold: 5,
		CircuitBreakerCoolDown:  30 * time.Second,
	}
}

// CircuitState is one of {closed, open, halfOpen} (spec §3).
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "halfOpen"
	default:
		return "closed"
	}
}
