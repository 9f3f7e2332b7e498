package resilience

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
)

// RNG supplies the uniform-random draw used to jitter retry delays.
// Swappable in tests for deterministic delays.
type RNG interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

type defaultRNG struct{}

func (defaultRNG) Float64() float64 { return rand.Float64() }

// backoffDelay implements the exact retry-delay formula from spec §4.1:
//
//	base  = initialDelay * backoffFactor^(attempt-1)
//	jitter = base * jitterFraction * (uniformRandom(0,1) - 0.5)
//	delay  = clamp(base + jitter, initialDelay, maxDelay)
//
// attempt is 1-indexed (the first retry is attempt 1).
func backoffDelay(policy domain.RetryPolicy, attempt int, rng RNG) time.Duration {
	base := float64(policy.InitialDelay) * math.Pow(policy.BackoffFactor, float64(attempt-1))
	jitter := base * policy.JitterFraction * (rng.Float64() - 0.5)
	delay := base + jitter

	min := float64(policy.InitialDelay)
	max := float64(policy.MaxDelay)
	switch {
	case delay < min:
		delay = min
	case delay > max:
		delay = max
	}
	return time.Duration(delay)
}

// ResumeBackoffDelay implements the resumeWorkflow-specific retry formula
// from spec §4.3, distinct from the general kernel formula above: a plain
// doubling backoff with no jitter and no configurable backoff factor.
//
//	delay = clamp(initialDelay * 2^attempt, 0, maxDelay)
//
// attempt is 1-indexed. Pass this to NewKernel via WithDelayFunc to build
// the kernel backing Client.ResumeWorkflow.
func ResumeBackoffDelay(policy domain.RetryPolicy, attempt int, _ RNG) time.Duration {
	delay := float64(policy.InitialDelay) * math.Pow(2, float64(attempt))
	if max := float64(policy.MaxDelay); delay > max {
		delay = max
	}
	return time.Duration(delay)
}
