package executioncache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
)

// FetchFunc performs the single poll round-trip used to hydrate a missing
// or expired entry. It is typically transport.EngineClient.GetExecution.
type FetchFunc func(ctx context.Context, id string) (domain.WorkflowExecution, error)

// Config configures a Cache.
type Config struct {
	// TTL is how long an entry stays fresh after insertion.
	TTL time.Duration

	// CleanupInterval is the period of the background ClearExpired sweep.
	// Zero disables the background sweep (ClearExpired can still be
	// called directly).
	CleanupInterval time.Duration
}

// DefaultConfig is a reasonable default: 30s freshness, swept every minute.
func DefaultConfig() Config {
	return Config{TTL: 30 * time.Second, CleanupInterval: time.Minute}
}

// Cache caches domain.WorkflowExecution values keyed by execution id,
// with TTL expiry and reactive invalidation (spec §4.4).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.CachedExecution
	ttl     time.Duration

	fetch FetchFunc
	group singleflight.Group

	events        *eventBus
	invalidations *invalidationBus

	hits   counter
	misses counter

	cancelCleanup context.CancelFunc
	closeOnce     sync.Once
}

// NewCache returns a Cache hydrating misses via fetch. If
// cfg.CleanupInterval is positive, a background goroutine sweeps expired
// entries at that period until Close is called.
func NewCache(cfg Config, fetch FetchFunc) *Cache {
	c := &Cache{
		entries:       make(map[string]domain.CachedExecution),
		ttl:           cfg.TTL,
		fetch:         fetch,
		events:        newEventBus(),
		invalidations: newInvalidationBus(),
	}

	if cfg.CleanupInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancelCleanup = cancel
		go c.cleanupLoop(ctx, cfg.CleanupInterval)
	}

	return c
}

// Get returns the cached execution for id if present and not expired;
// otherwise it fetches via a single round-trip (collapsed across
// concurrent callers for the same id), stores the result, and returns it.
// Provisional ids (client-side placeholders not yet acknowledged by the
// engine) are rejected without touching fetch.
func (c *Cache) Get(ctx context.Context, id string) (domain.WorkflowExecution, error) {
	if domain.ParseExecutionID(id).IsProvisional() {
		err := errs.New(errs.KindWorkflow, "executioncache: cannot fetch a provisional execution id")
		c.events.publish(Event{Kind: EventRejected, ID: id, Err: err})
		return domain.WorkflowExecution{}, err
	}

	if exec, ok := c.snapshot(id); ok {
		c.hits.incr()
		c.events.publish(Event{Kind: EventHit, ID: id, Execution: exec})
		return exec, nil
	}

	c.misses.incr()
	c.events.publish(Event{Kind: EventMiss, ID: id})

	v, err, _ := c.group.Do(id, func() (any, error) {
		exec, err := c.fetch(ctx, id)
		if err != nil {
			return domain.WorkflowExecution{}, err
		}
		c.store(id, exec)
		return exec, nil
	})
	if err != nil {
		return domain.WorkflowExecution{}, err
	}
	return v.(domain.WorkflowExecution), nil
}

// Set unconditionally inserts execution under id and emits a Set event.
func (c *Cache) Set(id string, execution domain.WorkflowExecution) {
	c.store(id, execution)
	c.events.publish(Event{Kind: EventSet, ID: id, Execution: execution})
}

func (c *Cache) store(id string, execution domain.WorkflowExecution) {
	c.mu.Lock()
	c.entries[id] = domain.CachedExecution{Execution: execution, InsertedAt: time.Now()}
	c.mu.Unlock()
}

// snapshot returns the live entry for id, treating an expired entry as a
// miss and evicting it (spec §4.4: expired iff now-timestamp > ttl).
func (c *Cache) snapshot(id string) (domain.WorkflowExecution, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return domain.WorkflowExecution{}, false
	}
	if entry.Expired(time.Now(), c.ttl) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		c.events.publish(Event{Kind: EventExpired, ID: id})
		return domain.WorkflowExecution{}, false
	}
	return entry.Execution, true
}

// Close stops the background cleanup sweep and tears down the event bus
// and every live Watch/Contents/Size subscription. It is idempotent.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		if c.cancelCleanup != nil {
			c.cancelCleanup()
		}
		c.events.close()
		c.invalidations.close()
	})
}

// counter is a tiny mutex-protected int64, used instead of atomic because
// hit/miss bookkeeping already shares the lock-adjacent event publish path.
type counter struct {
	mu sync.Mutex
	n  int64
}

func (c *counter) incr() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) get() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
