package client

import (
	"context"
	"sync"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/health"
	"github.com/unfazed-dev/n8n-go/observe"
	"github.com/unfazed-dev/n8n-go/polling"
	"github.com/unfazed-dev/n8n-go/resilience"
	"github.com/unfazed-dev/n8n-go/streams"
	"github.com/unfazed-dev/n8n-go/transport"
)

const engineCheckerName = "engine"

// Client is the reactive client of spec §4.3.
type Client struct {
	cfg    domain.ServiceConfig
	engine *transport.EngineClient

	resumeKernel *resilience.Kernel
	polling      *polling.Engine
	health       *health.Aggregator

	executionState  *streams.LatestValue[map[string]domain.WorkflowExecution]
	config          *streams.LatestValue[domain.ServiceConfig]
	connectionState *streams.LatestValue[domain.ConnectionState]
	metrics         *streams.LatestValue[domain.PerformanceMetrics]

	workflowEvents *streams.EventBus[WorkflowEvent]
	errors         *streams.EventBus[*errs.Error]

	pollMu    sync.Mutex
	pollCache map[string]streams.Stream[domain.WorkflowExecution]

	logger observe.Logger

	ctx    context.Context
	cancel context.CancelFunc

	disposeOnce sync.Once
}

// New builds a Client against t using cfg. A background task begins
// probing the engine's health endpoint at cfg.HealthCheckInterval
// immediately.
func New(t transport.Transport, cfg domain.ServiceConfig, opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	resumePolicy := cfg.Retry
	resumePolicy.RetryableKinds = map[errs.Kind]bool{errs.KindNetwork: true}
	resumeKernel := resilience.NewKernel(resumePolicy, resilience.WithDelayFunc(resilience.ResumeBackoffDelay))

	c := &Client{
		cfg:             cfg,
		engine:          transport.NewEngineClient(t, cfg),
		resumeKernel:    resumeKernel,
		polling:         polling.NewEngine(),
		health:          health.NewAggregator(),
		executionState:  streams.NewLatestValue(map[string]domain.WorkflowExecution{}),
		config:          streams.NewLatestValue(cfg),
		connectionState: streams.NewLatestValue(domain.ConnectionConnecting),
		metrics:         streams.NewLatestValue(domain.PerformanceMetrics{}),
		workflowEvents:  streams.NewEventBus[WorkflowEvent](),
		errors:          streams.NewEventBus[*errs.Error](),
		pollCache:       make(map[string]streams.Stream[domain.WorkflowExecution]),
		logger:          observe.NewLogger("info"),
		ctx:             ctx,
		cancel:          cancel,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.health.Register(engineCheckerName, health.NewCheckerFunc(engineCheckerName, c.checkEngine))
	c.health.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))

	interval := cfg.HealthCheckInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go c.healthLoop(ctx, interval)

	return c
}

func (c *Client) checkEngine(ctx context.Context) health.Result {
	if err := c.engine.HealthProbe(ctx, c.cfg.RequestTimeout); err != nil {
		return health.Unhealthy("engine health probe failed", err)
	}
	return health.Healthy("engine reachable")
}

func (c *Client) healthLoop(ctx context.Context, interval time.Duration) {
	c.probeHealth(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.probeHealth(ctx)
		}
	}
}

func (c *Client) probeHealth(ctx context.Context) {
	result, err := c.health.Check(ctx, engineCheckerName)
	if err != nil {
		return
	}
	previous := c.connectionState.Get()
	if result.Status == health.StatusHealthy {
		c.connectionState.Set(domain.ConnectionConnected)
		if previous != domain.ConnectionConnected {
			c.logger.Info(ctx, "engine connection established")
		}
	} else {
		c.connectionState.Set(domain.ConnectionError)
		if previous != domain.ConnectionError {
			c.logger.Warn(ctx, "engine health probe failed", observe.Field{Key: "message", Value: result.Message})
		}
	}
}

// ExecutionState is the execution-id → WorkflowExecution state subject.
func (c *Client) ExecutionState() streams.Stream[map[string]domain.WorkflowExecution] {
	return c.executionState
}

// Config is the service-configuration state subject.
func (c *Client) Config() streams.Stream[domain.ServiceConfig] { return c.config }

// ConnectionState is the connection-health state subject.
func (c *Client) ConnectionState() streams.Stream[domain.ConnectionState] { return c.connectionState }

// Metrics is the rolling performance-metrics state subject.
func (c *Client) Metrics() streams.Stream[domain.PerformanceMetrics] { return c.metrics }

// WorkflowEvents is the lifecycle-event bus.
func (c *Client) WorkflowEvents() streams.Stream[WorkflowEvent] { return c.workflowEvents }

// Errors is the escaped-error event bus.
func (c *Client) Errors() streams.Stream[*errs.Error] { return c.errors }

func (c *Client) mergeExecution(exec domain.WorkflowExecution) {
	c.executionState.Update(func(m map[string]domain.WorkflowExecution) map[string]domain.WorkflowExecution {
		next := make(map[string]domain.WorkflowExecution, len(m)+1)
		for k, v := range m {
			next[k] = v
		}
		next[exec.ID.String()] = exec
		return next
	})
}

func (c *Client) removeExecution(id string) {
	c.executionState.Update(func(m map[string]domain.WorkflowExecution) map[string]domain.WorkflowExecution {
		if _, ok := m[id]; !ok {
			return m
		}
		next := make(map[string]domain.WorkflowExecution, len(m))
		for k, v := range m {
			if k != id {
				next[k] = v
			}
		}
		return next
	})
}

func (c *Client) publishEvent(kind WorkflowEventKind, executionID string) {
	c.logger.WithTool(observe.ExecutionMeta{ID: executionID, Name: executionID}).
		Info(c.ctx, string(kind))
	c.workflowEvents.Publish(workflowEvent(kind, executionID))
}

func (c *Client) publishError(err *errs.Error) {
	if err == nil {
		return
	}
	c.logger.Error(c.ctx, err.Message, observe.Field{Key: "kind", Value: err.Kind.String()})
	c.errors.Publish(err)
}

func (c *Client) recordSuccess(d time.Duration) {
	c.metrics.Update(func(m domain.PerformanceMetrics) domain.PerformanceMetrics {
		m.RecordSuccess(d)
		return m
	})
}

func (c *Client) recordFailure(d time.Duration) {
	c.metrics.Update(func(m domain.PerformanceMetrics) domain.PerformanceMetrics {
		m.RecordFailure(d)
		return m
	})
}

// Dispose is idempotent: it cancels all background tasks (the health
// probe and every live polling session), drops every cached polling
// sequence, and closes every subject. After Dispose, no subject emits.
func (c *Client) Dispose() {
	c.disposeOnce.Do(func() {
		c.logger.Info(context.Background(), "client disposing")
		c.cancel()
		for _, id := range c.polling.ActiveIDs() {
			c.polling.Stop(id)
		}

		c.pollMu.Lock()
		c.pollCache = make(map[string]streams.Stream[domain.WorkflowExecution])
		c.pollMu.Unlock()

		c.executionState.Close()
		c.config.Close()
		c.connectionState.Close()
		c.metrics.Close()
		c.workflowEvents.Close()
		c.errors.Close()
	})
}
