package client

import (
	"context"

	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/streams"
	"github.com/unfazed-dev/n8n-go/transport"
)

// Workflows lists the workflows known to the engine (SUPPLEMENTED: the
// wire protocol exposes this listing, spec §6, but no distilled-spec
// operation consumes it; host UIs use it to populate a workflow picker
// ahead of startWorkflow).
func (c *Client) Workflows() streams.Stream[[]transport.WorkflowSummary] {
	raw := streams.FuncStream[[]transport.WorkflowSummary](func(ctx context.Context) <-chan []transport.WorkflowSummary {
		out := make(chan []transport.WorkflowSummary, 1)
		go func() {
			defer close(out)
			list, err := c.engine.ListWorkflows(ctx)
			if err != nil {
				c.publishError(errs.Classify(err, c.cfg.RequestTimeout))
				return
			}
			select {
			case out <- list:
			case <-ctx.Done():
			}
		}()
		return out
	})
	return streams.NewShareReplay(raw)
}

// WorkflowDetail fetches a single workflow's node list (SUPPLEMENTED;
// spec §6).
func (c *Client) WorkflowDetail(workflowID string) streams.Stream[transport.WorkflowDetail] {
	raw := streams.FuncStream[transport.WorkflowDetail](func(ctx context.Context) <-chan transport.WorkflowDetail {
		out := make(chan transport.WorkflowDetail, 1)
		go func() {
			defer close(out)
			detail, err := c.engine.GetWorkflowDetail(ctx, workflowID)
			if err != nil {
				c.publishError(errs.Classify(err, c.cfg.RequestTimeout))
				return
			}
			select {
			case out <- detail:
			case <-ctx.Done():
			}
		}()
		return out
	})
	return streams.NewShareReplay(raw)
}
