package resilientstream

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/streams"
)

// Source produces an upstream sequence: a channel of values, and a
// channel that receives exactly one error if and when the upstream fails.
// Subscribing again (a fresh call to Source) is how restart/retry
// strategies resume after a failure.
type Source[T any] func(ctx context.Context) (values <-chan T, errs <-chan error)

// Policy configures recovery timing (spec §4.6).
type Policy struct {
	// InitialRetryDelay is the wait before a RecoveryRestart resubscribe.
	InitialRetryDelay time.Duration

	// MaxRetries bounds RecoveryRetry attempts before it escalates.
	MaxRetries int

	// Backoff supplies the delay formula for RecoveryRetry, per the
	// resilience.Kernel algorithm (spec §4.1): InitialDelay, MaxDelay,
	// BackoffFactor, JitterFraction.
	Backoff domain.RetryPolicy

	// HealthCheckInterval enables the health-triggered forced restart
	// when positive (spec §4.6).
	HealthCheckInterval time.Duration

	// DegradedErrorThreshold is the minimum recent-error count (alongside
	// success rate <= 0.5) that forces a restart.
	DegradedErrorThreshold int
}

// Wrapped is the output of Wrap: a recovering value stream, an escalated
// error stream, and the health view driving the health-triggered restart.
type Wrapped[T any] struct {
	values *streams.EventBus[T]
	errs   *streams.EventBus[error]
	health *StreamHealth

	forceRestart chan struct{}
}

// Values returns the recovering output stream.
func (w *Wrapped[T]) Values() streams.Stream[T] {
	return streams.FuncStream[T](func(ctx context.Context) <-chan T {
		return w.values.Subscribe(ctx)
	})
}

// Errors returns the stream of escalated errors (spec §4.6's "escalate"
// strategy, plus a RecoveryRetry that has exhausted MaxRetries).
func (w *Wrapped[T]) Errors() streams.Stream[error] {
	return streams.FuncStream[error](func(ctx context.Context) <-chan error {
		return w.errs.Subscribe(ctx)
	})
}

// Health returns the stream's live health tracker.
func (w *Wrapped[T]) Health() *StreamHealth { return w.health }

// Wrap subscribes to source and forwards its emissions, applying table's
// recovery strategy on every upstream failure, until ctx is done or a
// terminal strategy (fallback/skip/escalate/exhausted-retry) ends the
// stream.
func Wrap[T any](ctx context.Context, source Source[T], table Table[T], policy Policy) *Wrapped[T] {
	w := &Wrapped[T]{
		values:       streams.NewEventBus[T](),
		errs:         streams.NewEventBus[error](),
		health:       NewStreamHealth(),
		forceRestart: make(chan struct{}, 1),
	}

	go w.run(ctx, source, table, policy)
	if policy.HealthCheckInterval > 0 {
		go w.healthLoop(ctx, policy)
	}

	return w
}

func (w *Wrapped[T]) healthLoop(ctx context.Context, policy Policy) {
	ticker := time.NewTicker(policy.HealthCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.health.degraded(policy.DegradedErrorThreshold) {
				select {
				case w.forceRestart <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (w *Wrapped[T]) run(ctx context.Context, source Source[T], table Table[T], policy Policy) {
	defer w.values.Close()
	defer w.errs.Close()

	subCtx, cancel := context.WithCancel(ctx)
	data, failures := source(subCtx)
	defer cancel()

	var lastEmit time.Time
	retryAttempt := 0

	resubscribe := func(delay time.Duration) bool {
		cancel()
		if !sleep(ctx, delay) {
			return false
		}
		subCtx, cancel = context.WithCancel(ctx)
		data, failures = source(subCtx)
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.forceRestart:
			retryAttempt = 0
			if !resubscribe(policy.InitialRetryDelay) {
				return
			}

		case v, ok := <-data:
			if !ok {
				data = nil
				continue
			}
			now := time.Now()
			if !lastEmit.IsZero() {
				w.health.recordSuccess(now.Sub(lastEmit))
			} else {
				w.health.recordSuccess(0)
			}
			lastEmit = now
			retryAttempt = 0
			w.values.Publish(v)

		case failure, ok := <-failures:
			if !ok {
				failures = nil
				continue
			}
			classified := errs.Classify(failure, 0)
			w.health.recordError(classified.Kind)

			switch strat := table.lookup(classified.Kind); strat.Kind {
			case RecoveryRestart:
				if !resubscribe(policy.InitialRetryDelay) {
					return
				}

			case RecoveryRetry:
				retryAttempt++
				if retryAttempt > policy.MaxRetries {
					w.errs.Publish(failure)
					return
				}
				if !resubscribe(retryDelay(policy.Backoff, retryAttempt)) {
					return
				}

			case RecoveryFallback:
				w.values.Publish(strat.Fallback)
				return

			case RecoverySkip:
				return

			case RecoveryEscalate:
				w.errs.Publish(failure)
				return
			}
		}
	}
}

// sleep waits for d or ctx cancellation, reporting false if ctx won.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// retryDelay reproduces the jittered backoff formula from spec §4.1
// (resilience.Kernel's unexported backoffDelay), applied here to the
// RecoveryRetry strategy's own attempt counter.
func retryDelay(policy domain.RetryPolicy, attempt int) time.Duration {
	base := float64(policy.InitialDelay) * math.Pow(policy.BackoffFactor, float64(attempt-1))
	jitter := base * policy.JitterFraction * (rand.Float64() - 0.5)
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
