package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
)

// Kernel is the classified-error retry/circuit-breaker combination used
// by every client operation (spec §4.1). Each distinct operation (keyed
// by an operationID chosen by the caller, e.g. "poll:<executionID>" or
// "start-workflow") gets its own circuit breaker, so a misbehaving
// webhook path cannot trip the breaker for unrelated operations.
type Kernel struct {
	policy    domain.RetryPolicy
	rng       RNG
	delayFunc func(domain.RetryPolicy, int, RNG) time.Duration

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// KernelOption configures a Kernel at construction time.
type KernelOption func(*Kernel)

// WithRNG overrides the jitter source, for deterministic tests.
func WithRNG(rng RNG) KernelOption {
	return func(k *Kernel) { k.rng = rng }
}

// WithDelayFunc overrides the retry-delay formula. The default is
// backoffDelay (spec §4.1); ResumeBackoffDelay implements the distinct
// formula spec §4.3 requires for resumeWorkflow.
func WithDelayFunc(fn func(domain.RetryPolicy, int, RNG) time.Duration) KernelOption {
	return func(k *Kernel) { k.delayFunc = fn }
}

// NewKernel builds a Kernel from a retry policy.
func NewKernel(policy domain.RetryPolicy, opts ...KernelOption) *Kernel {
	k := &Kernel{
		policy:    policy,
		rng:       defaultRNG{},
		delayFunc: backoffDelay,
		breakers:  make(map[string]*CircuitBreaker),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// ExecuteWithRetry runs thunk under the operation's circuit breaker,
// retrying per spec §4.1's algorithm: classify the failure, stop if it
// is not retryable or attempts are exhausted, otherwise sleep the
// jittered backoff delay and try again.
func (k *Kernel) ExecuteWithRetry(ctx context.Context, operationID string, thunk func(context.Context) error) error {
	breaker := k.breakerFor(operationID)

	var lastFailure *errs.Error
	for attempt := 1; attempt <= k.policy.MaxAttempts; attempt++ {
		err := breaker.Execute(ctx, thunk)
		if err == nil {
			return nil
		}

		failure, ok := err.(*errs.Error)
		if !ok {
			failure = errs.Classify(err, 0)
		}
		lastFailure = failure

		if !k.ShouldRetry(failure, attempt) {
			return failure
		}

		delay := k.delayFunc(k.policy, attempt, k.rng)
		select {
		case <-ctx.Done():
			return errs.Classify(ctx.Err(), 0)
		case <-time.After(delay):
		}
	}

	return lastFailure
}

// ShouldRetry reports whether failure is eligible for another attempt
// under the policy, given the attempt number just completed (1-indexed).
func (k *Kernel) ShouldRetry(failure *errs.Error, attempt int) bool {
	if failure == nil {
		return false
	}
	if attempt >= k.policy.MaxAttempts {
		return false
	}
	if !failure.Retryable {
		return false
	}
	if !k.policy.RetryableKinds[failure.Kind] {
		return false
	}
	if failure.StatusCode != 0 && !k.policy.RetryableStatusCodes[failure.StatusCode] {
		return false
	}
	if failure.Kind == errs.KindRateLimit {
		if retryAfter, ok := failure.RetryAfter(); ok && retryAfter > k.policy.MaxDelay {
			return false
		}
	}
	return true
}

// ResetBreaker resets every per-operation circuit breaker to closed.
func (k *Kernel) ResetBreaker() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, b := range k.breakers {
		b.Reset()
	}
}

// ResetOperation resets a single operation's circuit breaker, if it has
// been created.
func (k *Kernel) ResetOperation(operationID string) {
	k.mu.Lock()
	b, ok := k.breakers[operationID]
	k.mu.Unlock()
	if ok {
		b.Reset()
	}
}

// BreakerState returns the current circuit state for an operation.
// Operations that have never executed report StateClosed.
func (k *Kernel) BreakerState(operationID string) State {
	k.mu.Lock()
	b, ok := k.breakers[operationID]
	k.mu.Unlock()
	if !ok {
		return StateClosed
	}
	return b.State()
}

func (k *Kernel) breakerFor(operationID string) *CircuitBreaker {
	k.mu.Lock()
	defer k.mu.Unlock()

	if b, ok := k.breakers[operationID]; ok {
		return b
	}

	b := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  k.policy.CircuitBreakerThreshold,
		ResetTimeout: k.policy.CircuitBreakerCoolDown,
	})
	if !k.policy.CircuitBreakerEnabled {
		b.config.MaxFailures = 1 << 30
	}
	k.breakers[operationID] = b
	return b
}
