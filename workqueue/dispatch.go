package workqueue

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/resilience"
	"github.com/unfazed-dev/n8n-go/streams"
)

// StartFunc starts the workflow described by item, typically
// client.Client.StartWorkflow.
type StartFunc func(ctx context.Context, item domain.QueuedItem) (domain.ExecutionID, error)

// PollFunc polls an execution through to a terminal status, typically
// built on client.Client.PollExecutionStatus. Only consulted when
// QueueConfig.WaitForCompletion is set.
type PollFunc func(ctx context.Context, id domain.ExecutionID) (domain.WorkflowExecution, error)

// Events returns a stream of per-item lifecycle events.
func (q *Queue) Events(ctx context.Context) streams.Stream[Event] {
	return streams.FuncStream[Event](func(ctx context.Context) <-chan Event {
		return q.events.Subscribe(ctx)
	})
}

// popPendingLocked pops the highest-priority pending item, or nil if the
// queue is empty. Caller must hold q.mu.
func (q *Queue) popPendingLocked() *domain.QueuedItem {
	if len(q.pending) == 0 {
		return nil
	}
	he := heap.Pop(&q.pending).(*heapEntry)
	return he.item
}

// RunThrottled dispatches pending items one at a time, in priority order,
// no faster than QueueConfig.ThrottleInterval apart (spec §4.5's
// "throttled" discipline), until ctx is done.
func (q *Queue) RunThrottled(ctx context.Context, start StartFunc, poll PollFunc) {
	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Rate:        rateFor(q.cfg.ThrottleInterval),
		Burst:       1,
		WaitOnLimit: true,
		MaxWait:     0,
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item := q.nextPending()
		if item == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}
		q.processItem(ctx, item, start, poll)
	}
}

// RunConcurrent dispatches up to QueueConfig.MaxConcurrent pending items
// in parallel (spec §4.5's "concurrent" discipline), until ctx is done.
func (q *Queue) RunConcurrent(ctx context.Context, start StartFunc, poll PollFunc) {
	bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{
		MaxConcurrent: maxInt(q.cfg.MaxConcurrent, 1),
	})

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		default:
		}

		item := q.nextPending()
		if item == nil {
			select {
			case <-ctx.Done():
				wg.Wait()
				return
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}

		if err := bulkhead.Acquire(ctx); err != nil {
			q.reenqueueLocked(item)
			continue
		}

		wg.Add(1)
		go func(item *domain.QueuedItem) {
			defer wg.Done()
			defer bulkhead.Release()
			q.processItem(ctx, item, start, poll)
		}(item)
	}
}

func (q *Queue) nextPending() *domain.QueuedItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popPendingLocked()
}

// reenqueueLocked pushes item back onto the pending heap under a fresh
// sequence number, used when a discipline pops an item it cannot
// immediately dispatch.
func (q *Queue) reenqueueLocked(item *domain.QueuedItem) {
	q.mu.Lock()
	q.seq++
	heap.Push(&q.pending, &heapEntry{item: item, seq: q.seq})
	q.mu.Unlock()
}

func (q *Queue) processItem(ctx context.Context, item *domain.QueuedItem, start StartFunc, poll PollFunc) {
	q.markProcessing(item)

	id, err := start(ctx, *item)
	if err != nil {
		q.markFailedOrRetry(item, err)
		return
	}
	item.ExecutionID = &id

	if !q.cfg.WaitForCompletion || poll == nil {
		q.markCompleted(item)
		return
	}

	exec, err := poll(ctx, id)
	if err != nil {
		q.markFailedOrRetry(item, err)
		return
	}
	if exec.Status == domain.StatusSuccess {
		q.markCompleted(item)
		return
	}
	q.markFailedOrRetry(item, executionFailedError(exec))
}

func (q *Queue) markProcessing(item *domain.QueuedItem) {
	q.mu.Lock()
	item.Status = domain.QueueItemProcessing
	snapshot := *item
	q.mu.Unlock()
	q.events.Publish(Event{Kind: EventProcessing, Item: snapshot})
}

func (q *Queue) markCompleted(item *domain.QueuedItem) {
	q.mu.Lock()
	item.Status = domain.QueueItemCompleted
	snapshot := *item
	q.mu.Unlock()
	q.events.Publish(Event{Kind: EventCompleted, Item: snapshot})
}

func (q *Queue) markFailedOrRetry(item *domain.QueuedItem, cause error) {
	q.mu.Lock()
	item.Err = cause
	if q.cfg.RetryFailedItems && item.RetryCount < q.cfg.MaxRetries {
		item.RetryCount++
		item.Status = domain.QueueItemPending
		q.seq++
		heap.Push(&q.pending, &heapEntry{item: item, seq: q.seq})
		snapshot := *item
		q.mu.Unlock()
		q.events.Publish(Event{Kind: EventRetrying, Item: snapshot})
		return
	}
	item.Status = domain.QueueItemFailed
	snapshot := *item
	q.mu.Unlock()
	q.events.Publish(Event{Kind: EventFailed, Item: snapshot})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func executionFailedError(exec domain.WorkflowExecution) error {
	return errs.New(errs.KindWorkflow, "execution reached terminal status "+string(exec.Status))
}

func rateFor(interval time.Duration) float64 {
	if interval <= 0 {
		return 1e6 // effectively unthrottled
	}
	return float64(time.Second) / float64(interval)
}
