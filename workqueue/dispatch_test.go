package workqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
)

func TestQueue_RunThrottled_ProcessesToCompletion(t *testing.T) {
	cfg := domain.DefaultQueueConfig()
	cfg.ThrottleInterval = time.Millisecond
	cfg.WaitForCompletion = false
	q := NewQueue(cfg)

	q.Enqueue(domain.QueuedItem{WebhookPath: "a", Priority: 1})
	q.Enqueue(domain.QueuedItem{WebhookPath: "b", Priority: 2})

	var started int32
	start := func(ctx context.Context, item domain.QueuedItem) (domain.ExecutionID, error) {
		atomic.AddInt32(&started, 1)
		return domain.RealID("exec-" + item.WebhookPath), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		q.RunThrottled(ctx, start, nil)
		close(done)
	}()

	deadline := time.After(500 * time.Millisecond)
	for {
		if m := q.Metrics(); m.Completed == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("items did not complete: %+v", q.Metrics())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestQueue_RunConcurrent_DispatchesInParallel(t *testing.T) {
	cfg := domain.DefaultQueueConfig()
	cfg.MaxConcurrent = 3
	cfg.WaitForCompletion = false
	q := NewQueue(cfg)

	for i := 0; i < 3; i++ {
		q.Enqueue(domain.QueuedItem{WebhookPath: "item", Priority: 1})
	}

	release := make(chan struct{})
	var concurrent int32
	start := func(ctx context.Context, item domain.QueuedItem) (domain.ExecutionID, error) {
		n := atomic.AddInt32(&concurrent, 1)
		if n == 3 {
			close(release)
		}
		<-release
		return domain.RealID("exec"), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		q.RunConcurrent(ctx, start, nil)
		close(done)
	}()

	select {
	case <-release:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("items were not dispatched concurrently")
	}
	cancel()
	<-done
}

func TestQueue_FailedItemRetries(t *testing.T) {
	cfg := domain.DefaultQueueConfig()
	cfg.ThrottleInterval = time.Millisecond
	cfg.WaitForCompletion = false
	cfg.MaxRetries = 2
	q := NewQueue(cfg)

	item := q.Enqueue(domain.QueuedItem{WebhookPath: "flaky", Priority: 1})

	var calls int32
	start := func(ctx context.Context, it domain.QueuedItem) (domain.ExecutionID, error) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			return domain.ExecutionID{}, errors.New("transient")
		}
		return domain.RealID("exec"), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		q.RunThrottled(ctx, start, nil)
		close(done)
	}()

	deadline := time.After(800 * time.Millisecond)
	for {
		if got, ok := q.Item(item.ID); ok && got.Status == domain.QueueItemCompleted {
			break
		}
		select {
		case <-deadline:
			got, _ := q.Item(item.ID)
			t.Fatalf("item did not complete after retries: %+v", got)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("start called %d times, want 3 (2 failures + 1 success)", calls)
	}
}

func TestQueue_FailedItemExhaustsRetries(t *testing.T) {
	cfg := domain.DefaultQueueConfig()
	cfg.ThrottleInterval = time.Millisecond
	cfg.WaitForCompletion = false
	cfg.MaxRetries = 1
	q := NewQueue(cfg)

	item := q.Enqueue(domain.QueuedItem{WebhookPath: "always-fails", Priority: 1})

	start := func(ctx context.Context, it domain.QueuedItem) (domain.ExecutionID, error) {
		return domain.ExecutionID{}, errors.New("permanent")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		q.RunThrottled(ctx, start, nil)
		close(done)
	}()

	deadline := time.After(400 * time.Millisecond)
	for {
		if got, ok := q.Item(item.ID); ok && got.Status == domain.QueueItemFailed {
			break
		}
		select {
		case <-deadline:
			got, _ := q.Item(item.ID)
			t.Fatalf("item did not reach failed status: %+v", got)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
