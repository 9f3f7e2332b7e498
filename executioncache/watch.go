package executioncache

import (
	"context"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/streams"
)

// WatchValue is a single emission of Watch: the current cached value, or
// Present=false if the cache currently has no fresh entry for the id.
type WatchValue struct {
	Execution domain.WorkflowExecution
	Present   bool
}

func (w WatchValue) equal(other WatchValue) bool {
	if w.Present != other.Present {
		return false
	}
	if !w.Present {
		return true
	}
	return w.Execution.Equal(other.Execution) && w.Execution.Status == other.Execution.Status
}

// Watch returns a stream that emits the current cached value for id (or a
// Present=false value on miss/expiry), and re-fetches whenever an
// invalidation is signalled for id or for the whole cache, emitting the
// fresh value once the refetch succeeds (spec §4.4). Consecutive duplicate
// emissions are suppressed. Provisional ids are rejected: the returned
// stream emits a single Present=false value and closes without ever
// calling fetch.
func (c *Cache) Watch(id string) streams.Stream[WatchValue] {
	raw := streams.FuncStream[WatchValue](func(ctx context.Context) <-chan WatchValue {
		out := make(chan WatchValue, 1)

		if domain.ParseExecutionID(id).IsProvisional() {
			err := errs.New(errs.KindWorkflow, "executioncache: cannot watch a provisional execution id")
			c.events.publish(Event{Kind: EventRejected, ID: id, Err: err})
			out <- WatchValue{Present: false}
			close(out)
			return out
		}

		go func() {
			defer close(out)

			emitCurrent := func() {
				exec, ok := c.snapshot(id)
				select {
				case out <- WatchValue{Execution: exec, Present: ok}:
				case <-ctx.Done():
				}
			}
			emitCurrent()

			signals := c.invalidations.bus.Subscribe(ctx)
			for sig := range signals {
				if !sig.All && sig.ID != id {
					continue
				}
				v, err, _ := c.group.Do(id, func() (any, error) {
					exec, err := c.fetch(ctx, id)
					if err != nil {
						return domain.WorkflowExecution{}, err
					}
					c.store(id, exec)
					return exec, nil
				})
				if err != nil {
					continue
				}
				exec := v.(domain.WorkflowExecution)
				select {
				case out <- WatchValue{Execution: exec, Present: true}:
				case <-ctx.Done():
					return
				}
			}
		}()

		return out
	})

	return streams.DistinctFunc(raw, WatchValue.equal)
}
