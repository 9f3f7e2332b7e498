package resilience

import (
	"context"
)

// Executor composes the rate-limiting and bulkhead patterns around an
// operation. Classified-error retry and circuit breaking are handled
// separately by [Kernel], which needs to inspect the final classified
// failure to decide whether to retry; per-call timeouts are applied
// directly by the caller via context (see transport.HTTPTransport),
// since each call carries its own caller-supplied timeout rather than
// one fixed value an Executor could hold.
type Executor struct {
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithBulkhead adds bulkhead isolation to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// Execute runs the operation through all configured patterns.
//
// The execution order is (outermost first): Rate Limiter, Bulkhead.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
