package client

import (
	"context"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/streams"
)

// listingSettleDelay is the wait between a successful webhook trigger and
// the executions-listing lookup used to correlate a real execution id
// (spec §4.3).
const listingSettleDelay = 500 * time.Millisecond

// StartWorkflow triggers webhookPath with payload and resolves the
// resulting execution id. The returned sequence is shared and replays its
// one emission to any subscriber that arrives after the work completes;
// the work itself only runs once, on the first Subscribe.
func (c *Client) StartWorkflow(webhookPath string, payload map[string]any, workflowID string) streams.Stream[domain.WorkflowExecution] {
	raw := streams.FuncStream[domain.WorkflowExecution](func(ctx context.Context) <-chan domain.WorkflowExecution {
		out := make(chan domain.WorkflowExecution, 1)
		go func() {
			defer close(out)

			started := time.Now()
			_, err := c.engine.TriggerWebhook(ctx, webhookPath, payload, nil)
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

// resolveStartedID implements spec §4.3's id-correlation steps: a
// workflowID plus supplied credentials triggers a settle-then-list lookup;
// anything short of a matching listing result falls back to a provisional
// id.
func (c *Client) resolveStartedID(ctx context.Context, webhookPath, workflowID string) domain.ExecutionID {
	if workflowID != "" && c.cfg.APIKey != "" {
		select {
		case <-time.After(listingSettleDelay):
			execs, err := c.engine.ListExecutions(ctx, workflowID, 1)
			if err == nil && len(execs) > 0 {
				return execs[0].ID
			}
		case <-ctx.Done():
		}
	}
	return domain.NewProvisionalID(webhookPath, time.Now().UnixMilli())
}
