package executioncache

import "context"

// CacheMetrics is the cumulative view derived from cache events (spec
// §4.4): hit/miss counters plus the current size.
type CacheMetrics struct {
	Hits   int64
	Misses int64
	Size   int
}

// HitRate returns Hits/(Hits+Misses), or 0 when there have been no
// lookups yet.
func (m CacheMetrics) HitRate() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// Metrics returns the current cumulative cache metrics.
func (c *Cache) Metrics() CacheMetrics {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return CacheMetrics{
		Hits:   c.hits.get(),
		Misses: c.misses.get(),
		Size:   size,
	}
}

// Contents returns a stream of the full entry-id set: once on subscribe
// and again after every lifecycle event. It is a convenience derived from
// the event bus rather than an independently maintained subject, so an
// emission is the id set live at that moment and consecutive emissions
// may be identical.
func (c *Cache) Contents(ctx context.Context) <-chan []string {
	out := make(chan []string, 1)
	c.mu.RLock()
	out <- c.ids()
	c.mu.RUnlock()

	events := c.events.bus.Subscribe(ctx)
	go func() {
		defer close(out)
		for range events {
			c.mu.RLock()
			ids := c.ids()
			c.mu.RUnlock()
			select {
			case out <- ids:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (c *Cache) ids() []string {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	return ids
}

// Size returns a stream emitting the current entry count on subscribe and
// after every subsequent lifecycle event.
func (c *Cache) Size(ctx context.Context) <-chan int {
	out := make(chan int, 1)
	c.mu.RLock()
	out <- len(c.entries)
	c.mu.RUnlock()

	events := c.events.bus.Subscribe(ctx)
	go func() {
		defer close(out)
		for range events {
			c.mu.RLock()
			size := len(c.entries)
			c.mu.RUnlock()
			select {
			case out <- size:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
