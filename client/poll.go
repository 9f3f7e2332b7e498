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

// PollExecutionStatus returns the cached, shared polling sequence for id,
// creating it on first demand (spec §4.3). It polls at interval (the
// service's default polling config when interval is zero), emits only
// when status or finishedAt changes, and completes after the first
// terminal emission. Provisional ids are rejected: the returned sequence
// never emits, and a workflow-kind error is published on Errors.
func (c *Client) PollExecutionStatus(id domain.ExecutionID, interval time.Duration) streams.Stream[domain.WorkflowExecution] {
	if id.IsProvisional() {
		c.publishError(errs.New(errs.KindWorkflow, "cannot poll a provisional execution id"))
		return closedStream[domain.WorkflowExecution]()
	}

	idStr := id.String()

	c.pollMu.Lock()
	defer c.pollMu.Unlock()
	if existing, ok := c.pollCache[idStr]; ok {
		return existing
	}

	shared := c.newPollStream(id, interval)
	c.pollCache[idStr] = shared
	return shared
}

func closedStream[T any]() streams.Stream[T] {
	return streams.FuncStream[T](func(ctx context.Context) <-chan T {
		out := make(chan T)
		close(out)
		return out
	})
}

func (c *Client) newPollStream(id domain.ExecutionID, interval time.Duration) streams.Stream[domain.WorkflowExecution] {
	cfg := c.cfg.Polling
	if interval > 0 {
		cfg.BaseInterval = interval
	}

	raw := streams.FuncStream[domain.WorkflowExecution](func(ctx context.Context) <-chan domain.WorkflowExecution {
		out := make(chan domain.WorkflowExecution)
		go func() {
			defer close(out)

			checkerName := "execution:" + id.String()
			var latest atomic.Pointer[executionHealthState]
			latest.Store(&executionHealthState{status: domain.StatusRunning})
			c.health.Register(checkerName, health.NewCheckerFunc(checkerName, func(context.Context) health.Result {
				return executionHealthResult(latest.Load(), id.String())
			}))
			defer c.health.Unregister(checkerName)

			probe := func(pctx context.Context) (domain.Status, error) {
				started := time.Now()
				exec, err := c.engine.GetExecution(pctx, id.String())
				if err != nil {
					c.recordFailure(time.Since(started))
					latest.Store(&executionHealthState{status: domain.StatusUnknown, err: err})
					return domain.StatusUnknown, err
				}
				c.recordSuccess(time.Since(started))
				latest.Store(&executionHealthState{status: exec.Status})
				c.mergeExecution(exec)
				select {
				case out <- exec:
				case <-ctx.Done():
				}
				return exec.Status, nil
			}

			events := c.polling.Start(c.ctx, id.String(), cfg, probe, nil)
			for ev := range events {
				if ev.Err != nil {
					c.publishError(ev.Err)
					continue
				}
				if ev.Terminal {
					c.publishEvent(EventCompleted, ev.ExecutionID)
				}
			}
		}()
		return out
	})

	deduped := streams.DistinctFunc(raw, executionUnchanged)
	return streams.NewShareReplay[domain.WorkflowExecution](deduped)
}

// executionHealthState is the last probe outcome for one execution id,
// published through the health aggregator under "execution:<id>" for the
// lifetime of its polling session.
type executionHealthState struct {
	status domain.Status
	err    error
}

func executionHealthResult(s *executionHealthState, executionID string) health.Result {
	details := map[string]any{"executionID": executionID}
	if s.err != nil {
		return health.Unhealthy("execution status fetch failing", s.err).WithDetails(details)
	}
	if s.status.IsTerminal() {
		return health.Healthy("execution reached terminal status " + string(s.status)).WithDetails(details)
	}
	return health.Healthy("execution in progress").WithDetails(details)
}

func executionUnchanged(a, b domain.WorkflowExecution) bool {
	if a.Status != b.Status {
		return false
	}
	switch {
	case a.FinishedAt == nil && b.FinishedAt == nil:
		return true
	case a.FinishedAt == nil || b.FinishedAt == nil:
		return false
	default:
		return a.FinishedAt.Equal(*b.FinishedAt)
	}
}
