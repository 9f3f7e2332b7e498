package client

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/health"
	"github.com/unfazed-dev/n8n-go/streams"
)

// ResumeWorkflow posts inputData to resume a waiting execution, retrying
// network-kind failures with resilience.ResumeBackoffDelay's plain
// doubling backoff rather than the kernel's default jittered formula
// (spec §4.3 gives resumeWorkflow its own retry-delay formula). The
// returned sequence emits once, on success.
func (c *Client) ResumeWorkflow(id domain.ExecutionID, inputData map[string]any) streams.Stream[struct{}] {
	raw := streams.FuncStream[struct{}](func(ctx context.Context) <-chan struct{} {
		out := make(chan struct{}, 1)
		go func() {
			defer close(out)

			operationID := "resume:" + id.String()
			err := c.resumeKernel.ExecuteWithRetry(ctx, operationID, func(opCtx context.Context) error {
				return c.engine.ResumeExecution(opCtx, id.String(), inputData)
			})
			if err != nil {
				c.publishError(errs.Classify(err, c.cfg.RequestTimeout))
				return
			}

			c.publishEvent(EventResumed, id.String())
			select {
			case out <- struct{}{}:
			case <-ctx.Done():
			}
		}()
		return out
	})
	return streams.NewShareReplay(raw)
}

// CancelWorkflow deletes a running execution; on success it drops the
// execution from ExecutionState and posts a Cancelled event.
func (c *Client) CancelWorkflow(id domain.ExecutionID) streams.Stream[struct{}] {
	raw := streams.FuncStream[struct{}](func(ctx context.Context) <-chan struct{} {
		out := make(chan struct{}, 1)
		go func() {
			defer close(out)

			if err := c.engine.CancelExecution(ctx, id.String()); err != nil {
				c.publishError(errs.Classify(err, c.cfg.RequestTimeout))
				return
			}

			c.removeExecution(id.String())
			c.publishEvent(EventCancelled, id.String())
			select {
			case out <- struct{}{}:
			case <-ctx.Done():
			}
		}()
		return out
	})
	return streams.NewShareReplay(raw)
}

// WatchExecution polls id until terminal, but never propagates a failure:
// on uncaught error it emits a synthetic error-status execution so host
// UI code can render "failed" without handling a distinct error channel
// (spec §4.3). Unlike PollExecutionStatus it runs its own polling session
// rather than the shared cached sequence, so a poll failure here only
// affects this watch.
func (c *Client) WatchExecution(id domain.ExecutionID, interval time.Duration) streams.Stream[domain.WorkflowExecution] {
	cfg := c.cfg.Polling
	if interval > 0 {
		cfg.BaseInterval = interval
	}

	return streams.FuncStream[domain.WorkflowExecution](func(ctx context.Context) <-chan domain.WorkflowExecution {
		out := make(chan domain.WorkflowExecution)
		go func() {
			defer close(out)

			checkerName := "watch:" + id.String()
			var latest atomic.Pointer[executionHealthState]
			latest.Store(&executionHealthState{status: domain.StatusRunning})
			c.health.Register(checkerName, health.NewCheckerFunc(checkerName, func(context.Context) health.Result {
				return executionHealthResult(latest.Load(), id.String())
			}))
			defer c.health.Unregister(checkerName)

			probe := func(pctx context.Context) (domain.Status, error) {
				exec, err := c.engine.GetExecution(pctx, id.String())
				if err != nil {
					latest.Store(&executionHealthState{status: domain.StatusUnknown, err: err})
					return domain.StatusUnknown, err
				}
				latest.Store(&executionHealthState{status: exec.Status})
				c.mergeExecution(exec)
				select {
				case out <- exec:
				case <-ctx.Done():
				}
				return exec.Status, nil
			}

			events := c.polling.Start(ctx, "watch:"+id.String(), cfg, probe, nil)
			for ev := range events {
				if ev.Err == nil {
					continue
				}
				now := time.Now()
				synthetic := domain.WorkflowExecution{
					ID:         id,
					Status:     domain.StatusError,
					StartedAt:  now,
					FinishedAt: &now,
				}
				select {
				case out <- synthetic:
				case <-ctx.Done():
				}
				return
			}
		}()
		return out
	})
}
