package resilience

import (
	"context"
	"testing"
)

func TestNewExecutor(t *testing.T) {
	e := NewExecutor()

	if e.rateLimiter != nil {
		t.Error("Default executor should not have rate limiter")
	}
	if e.bulkhead != nil {
		t.Error("Default executor should not have bulkhead")
	}
}

func TestExecutor_WithOptions(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})
	b := NewBulkhead(BulkheadConfig{})

	e := NewExecutor(
		WithRateLimiter(rl),
		WithBulkhead(b),
	)

	if e.rateLimiter != rl {
		t.Error("RateLimiter not set")
	}
	if e.bulkhead != b {
		t.Error("Bulkhead not set")
	}
}

func TestExecutor_ExecuteNoPatterns(t *testing.T) {
	e := NewExecutor()

	executed := false
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if !executed {
		t.Error("Operation was not executed")
	}
}

func TestExecutor_ExecuteWithRateLimiter(t *testing.T) {
	e := NewExecutor(
		WithRateLimiter(NewRateLimiter(RateLimiterConfig{
			Rate:  10,
			Burst: 1,
		})),
	)

	err := e.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("First Execute() error = %v", err)
	}

	err = e.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != ErrRateLimitExceeded {
		t.Errorf("Second Execute() error = %v, want ErrRateLimitExceeded", err)
	}
}

func TestExecutor_ExecuteWithBulkhead(t *testing.T) {
	e := NewExecutor(
		WithBulkhead(NewBulkhead(BulkheadConfig{
			MaxConcurrent: 1,
		})),
	)

	done := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = e.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-done
			return nil
		})
	}()

	<-started

	err := e.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})

	close(done)

	if err != ErrBulkheadFull {
		t.Errorf("Execute() error = %v, want ErrBulkheadFull", err)
	}
}

func TestExecutor_ComposedPatterns(t *testing.T) {
	attempts := 0

	e := NewExecutor(
		WithRateLimiter(NewRateLimiter(RateLimiterConfig{
			Rate:  1000,
			Burst: 10,
		})),
		WithBulkhead(NewBulkhead(BulkheadConfig{
			MaxConcurrent: 10,
		})),
	)

	err := e.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
