package executioncache

import (
	"context"
	"sync"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
)

// Invalidate evicts id and signals any Watch subscription for it to
// refetch.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	entry, had := c.entries[id]
	delete(c.entries, id)
	c.mu.Unlock()

	ev := Event{Kind: EventInvalidated, ID: id}
	if had {
		ev.Execution = entry.Execution
	}
	c.events.publish(ev)
	c.invalidations.bus.Publish(invalidationSignal{ID: id})
}

// InvalidateAll evicts every entry and signals every Watch subscription to
// refetch.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]domain.CachedExecution)
	c.mu.Unlock()

	c.events.publish(Event{Kind: EventInvalidatedAll})
	c.invalidations.bus.Publish(invalidationSignal{All: true})
}

// InvalidatePattern evicts every entry whose id satisfies predicate and
// signals the matching Watch subscriptions to refetch.
func (c *Cache) InvalidatePattern(predicate func(id string) bool) {
	c.mu.Lock()
	var matched []string
	for id := range c.entries {
		if predicate(id) {
			matched = append(matched, id)
		}
	}
	for _, id := range matched {
		delete(c.entries, id)
	}
	c.mu.Unlock()

	for _, id := range matched {
		c.events.publish(Event{Kind: EventInvalidated, ID: id})
		c.invalidations.bus.Publish(invalidationSignal{ID: id})
	}
}

// Prewarm best-effort hydrates every id in ids concurrently, ignoring
// individual fetch failures, and emits a Prewarmed event with the count of
// ids that succeeded.
func (c *Cache) Prewarm(ctx context.Context, ids []string) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	wg.Add(len(ids))
	for _, id := range ids {
		go func(id string) {
			defer wg.Done()
			if _, err := c.Get(ctx, id); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	c.events.publish(Event{Kind: EventPrewarmed, Count: succeeded})
}

// ClearExpired evicts every currently-expired entry and returns the number
// evicted. It also runs on the background timer configured by
// Config.CleanupInterval.
func (c *Cache) ClearExpired() int {
	now := time.Now()

	c.mu.Lock()
	var evicted []string
	for id, entry := range c.entries {
		if entry.Expired(now, c.ttl) {
			evicted = append(evicted, id)
		}
	}
	for _, id := range evicted {
		delete(c.entries, id)
	}
	c.mu.Unlock()

	c.events.publish(Event{Kind: EventCleaned, Count: len(evicted)})
	return len(evicted)
}

// Clear evicts every entry unconditionally and emits a Cleared event.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]domain.CachedExecution)
	c.mu.Unlock()

	c.events.publish(Event{Kind: EventCleared})
}

func (c *Cache) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.ClearExpired()
		}
	}
}
