package client

import (
	"context"
	"sync"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/streams"
)

// StartRequest is one (webhookPath, payload, workflowID) tuple consumed by
// the composite operations that start more than one workflow.
type StartRequest struct {
	WebhookPath string
	Payload     map[string]any
	WorkflowID  string
}

func (c *Client) startAndAwaitTerminal(ctx context.Context, req StartRequest) (domain.WorkflowExecution, bool) {
	startCh := c.StartWorkflow(req.WebhookPath, req.Payload, req.WorkflowID).Subscribe(ctx)
	select {
	case exec, ok := <-startCh:
		if !ok {
			return domain.WorkflowExecution{}, false
		}
		return c.awaitTerminal(ctx, exec.ID, 0)
	case <-ctx.Done():
		return domain.WorkflowExecution{}, false
	}
}

// awaitTerminal subscribes to id's polling sequence and blocks until its
// first terminal emission, per the provisional-id invariant (spec §4.3):
// a provisional id's sequence never emits, so this returns ok=false.
func (c *Client) awaitTerminal(ctx context.Context, id domain.ExecutionID, interval time.Duration) (domain.WorkflowExecution, bool) {
	ch := c.PollExecutionStatus(id, interval).Subscribe(ctx)
	var last domain.WorkflowExecution
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return last, false
			}
			last = v
			if v.Status.IsTerminal() {
				return v, true
			}
		case <-ctx.Done():
			return last, false
		}
	}
}

// BatchStart runs requests as N parallel start+poll-to-terminal chains,
// emitting the full result list only once every one has reached a
// terminal status.
func (c *Client) BatchStart(requests []StartRequest) streams.Stream[[]domain.WorkflowExecution] {
	return streams.FuncStream[[]domain.WorkflowExecution](func(ctx context.Context) <-chan []domain.WorkflowExecution {
		out := make(chan []domain.WorkflowExecution, 1)
		go func() {
			defer close(out)

			results := make([]domain.WorkflowExecution, len(requests))
			var wg sync.WaitGroup
			wg.Add(len(requests))
			for i, req := range requests {
				go func(i int, req StartRequest) {
					defer wg.Done()
					exec, _ := c.startAndAwaitTerminal(ctx, req)
					results[i] = exec
				}(i, req)
			}
			wg.Wait()

			select {
			case out <- results:
			case <-ctx.Done():
			}
		}()
		return out
	})
}

// RaceWorkflows polls every id in parallel and emits the first to reach a
// terminal status; the others keep polling but their emissions are
// discarded.
func (c *Client) RaceWorkflows(ids []domain.ExecutionID, interval time.Duration) streams.Stream[domain.WorkflowExecution] {
	return streams.FuncStream[domain.WorkflowExecution](func(ctx context.Context) <-chan domain.WorkflowExecution {
		out := make(chan domain.WorkflowExecution, 1)
		go func() {
			defer close(out)

			winner := make(chan domain.WorkflowExecution, 1)
			var once sync.Once
			var wg sync.WaitGroup
			wg.Add(len(ids))
			for _, id := range ids {
				go func(id domain.ExecutionID) {
					defer wg.Done()
					exec, ok := c.awaitTerminal(ctx, id, interval)
					if !ok {
						return
					}
					once.Do(func() { winner <- exec })
				}(id)
			}
			go func() {
				wg.Wait()
				close(winner)
			}()

			select {
			case exec, ok := <-winner:
				if !ok {
					return
				}
				select {
				case out <- exec:
				case <-ctx.Done():
				}
			case <-ctx.Done():
			}
		}()
		return out
	})
}

// ZipWorkflows emits a tuple of every target's latest status every time
// all of them have produced a fresh emission since the previous tuple.
func (c *Client) ZipWorkflows(ids []domain.ExecutionID, interval time.Duration) streams.Stream[[]domain.WorkflowExecution] {
	return streams.FuncStream[[]domain.WorkflowExecution](func(ctx context.Context) <-chan []domain.WorkflowExecution {
		out := make(chan []domain.WorkflowExecution)
		go func() {
			defer close(out)

			channels := make([]<-chan domain.WorkflowExecution, len(ids))
			for i, id := range ids {
				channels[i] = c.PollExecutionStatus(id, interval).Subscribe(ctx)
			}

			for {
				tuple := make([]domain.WorkflowExecution, len(channels))
				for i, ch := range channels {
					select {
					case v, ok := <-ch:
						if !ok {
							return
						}
						tuple[i] = v
					case <-ctx.Done():
						return
					}
				}
				select {
				case out <- tuple:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	})
}

// WatchMultipleExecutions merges the individually-safe WatchExecution
// sequence of every id onto one stream.
func (c *Client) WatchMultipleExecutions(ids []domain.ExecutionID, interval time.Duration) streams.Stream[domain.WorkflowExecution] {
	sources := make([]streams.Stream[domain.WorkflowExecution], len(ids))
	for i, id := range ids {
		sources[i] = c.WatchExecution(id, interval)
	}
	return streams.Merge(sources...)
}

// StartWorkflowsSequential starts each request in order, awaiting the
// previous one's terminal status before starting the next, emitting each
// final execution as it completes.
func (c *Client) StartWorkflowsSequential(requests []StartRequest) streams.Stream[domain.WorkflowExecution] {
	return streams.FuncStream[domain.WorkflowExecution](func(ctx context.Context) <-chan domain.WorkflowExecution {
		out := make(chan domain.WorkflowExecution)
		go func() {
			defer close(out)
			for _, req := range requests {
				exec, ok := c.startAndAwaitTerminal(ctx, req)
				if !ok {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				select {
				case out <- exec:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	})
}

// ThrottledExecution starts each request no faster than interval apart,
// emitting each one's initial "running" record as it is started.
func (c *Client) ThrottledExecution(requests []StartRequest, interval time.Duration) streams.Stream[domain.WorkflowExecution] {
	return streams.FuncStream[domain.WorkflowExecution](func(ctx context.Context) <-chan domain.WorkflowExecution {
		out := make(chan domain.WorkflowExecution)
		go func() {
			defer close(out)
			for i, req := range requests {
				if i > 0 {
					select {
					case <-time.After(interval):
					case <-ctx.Done():
						return
					}
				}

				startCh := c.StartWorkflow(req.WebhookPath, req.Payload, req.WorkflowID).Subscribe(ctx)
				select {
				case exec, ok := <-startCh:
					if !ok {
						continue
					}
					select {
					case out <- exec:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	})
}

// RetryableWorkflow is StartWorkflow with the resume-style retry policy
// (network-kind failures only) wrapped around the triggering POST.
func (c *Client) RetryableWorkflow(webhookPath string, payload map[string]any, workflowID string) streams.Stream[domain.WorkflowExecution] {
	raw := streams.FuncStream[domain.WorkflowExecution](func(ctx context.Context) <-chan domain.WorkflowExecution {
		out := make(chan domain.WorkflowExecution, 1)
		go func() {
			defer close(out)

			started := time.Now()
			operationID := "retryable-start:" + webhookPath
			err := c.resumeKernel.ExecuteWithRetry(ctx, operationID, func(opCtx context.Context) error {
				_, e := c.engine.TriggerWebhook(opCtx, webhookPath, payload, nil)
				return e
			})
			if err != nil {
				c.recordFailure(time.Since(started))
				c.publishError(errs.Classify(err, c.cfg.RequestTimeout))
				return
			}
			c.recordSuccess(time.Since(started))

			id := c.resolveStartedID(ctx, webhookPath, workflowID)
			exec := domain.WorkflowExecution{
				ID:         id,
				WorkflowID: workflowID,
				Status:     domain.StatusRunning,
				StartedAt:  time.Now(),
			}
			c.mergeExecution(exec)
			c.publishEvent(EventStarted, id.String())

			select {
			case out <- exec:
			case <-ctx.Done():
			}
		}()
		return out
	})

	return streams.NewShareReplay(raw)
}
