package polling

import (
	"context"
	"sync"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
)

// Probe performs a single status check for an execution. It returns the
// observed status string, or a non-nil error on failure.
type Probe func(ctx context.Context) (status domain.Status, err error)

// StopPredicate reports whether a session should stop after observing
// status. A nil predicate defaults to stopping on any terminal status.
type StopPredicate func(status domain.Status) bool

// Event is one emission from a polling session: either an observed
// status, or a classified failure. Terminal is set on the emission that
// ends the session (a terminal status, a stop-predicate match, or the
// max-consecutive-errors failure).
type Event struct {
	ExecutionID string
	Status      domain.Status
	Err         *errs.Error
	Terminal    bool
}

// Engine runs one polling session per execution id.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewEngine returns an empty polling engine.
func NewEngine() *Engine {
	return &Engine{sessions: make(map[string]*session)}
}

type session struct {
	cfg    domain.PollingConfig
	probe  Probe
	stopIf StopPredicate

	events chan Event
	cancel context.CancelFunc
	done   chan struct{}

	mu                sync.Mutex
	metrics           domain.PollingMetrics
	lastStatus        domain.Status
	lastActivityAt    time.Time
	lastPollAt        time.Time
	consecutiveErrors int
	stopped           bool
}

// Start begins a polling session for executionID, returning a channel
// that emits every probe result. The channel is closed once the session
// stops, for any reason. Calling Start again for an id that already has
// an active session replaces it (the old session is stopped first).
func (e *Engine) Start(ctx context.Context, executionID string, cfg domain.PollingConfig, probe Probe, stopIf StopPredicate) <-chan Event {
	e.mu.Lock()
	if existing, ok := e.sessions[executionID]; ok {
		e.mu.Unlock()
		existing.stop()
		e.mu.Lock()
	}

	sessCtx, cancel := context.WithCancel(ctx)
	s := &session{
		cfg:            cfg,
		probe:          probe,
		stopIf:         stopIf,
		events:         make(chan Event, 1),
		cancel:         cancel,
		done:           make(chan struct{}),
		metrics:        domain.NewPollingMetrics(time.Now()),
		lastActivityAt: time.Now(),
	}
	e.sessions[executionID] = s
	e.mu.Unlock()

	go s.run(sessCtx, executionID, func() {
		e.mu.Lock()
		if e.sessions[executionID] == s {
			delete(e.sessions, executionID)
		}
		e.mu.Unlock()
	})

	return s.events
}

// Stop cancels the session for executionID, if one is active.
func (e *Engine) Stop(executionID string) {
	e.mu.Lock()
	s, ok := e.sessions[executionID]
	e.mu.Unlock()
	if ok {
		s.stop()
	}
}

// RecordActivity lets an external source (e.g. the reactive client
// observing status through a side channel) update the session's
// last-observed status and activity timestamp, affecting the smart/hybrid
// age factor without consuming a probe attempt.
func (e *Engine) RecordActivity(executionID string, status domain.Status) {
	e.mu.Lock()
	s, ok := e.sessions[executionID]
	e.mu.Unlock()
	if !ok {
		return
	}
	s.mu.Lock()
	s.lastStatus = status
	s.lastActivityAt = time.Now()
	s.mu.Unlock()
}

// MetricsFor returns the current metrics for an active session.
func (e *Engine) MetricsFor(executionID string) (domain.PollingMetrics, bool) {
	e.mu.Lock()
	s, ok := e.sessions[executionID]
	e.mu.Unlock()
	if !ok {
		return domain.PollingMetrics{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics, true
}

// ActiveIDs returns the execution ids with a currently running session.
func (e *Engine) ActiveIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *session) stop() {
	s.cancel()
	<-s.done
}

func defaultStopIf(status domain.Status) bool { return status.IsTerminal() }

func (s *session) run(ctx context.Context, executionID string, onDone func()) {
	defer close(s.events)
	defer close(s.done)
	defer onDone()

	stopIf := s.stopIf
	if stopIf == nil {
		stopIf = defaultStopIf
	}

	timer := time.NewTimer(0) // immediate first poll
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.mu.Lock()
		lastActivityAt := s.lastActivityAt
		lastPollAt := s.lastPollAt
		metrics := s.metrics
		s.mu.Unlock()

		pollStart := time.Now()
		status, err := s.probe(ctx)
		pollDuration := time.Since(pollStart)
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		if !lastPollAt.IsZero() {
			s.metrics.RecordInterval(pollStart.Sub(lastPollAt))
		}
		s.lastPollAt = pollStart
		s.metrics.TotalPolls++
		s.metrics.CumulativeTime += pollDuration

		if err != nil {
			s.metrics.Errors++
			s.consecutiveErrors++
		} else {
			s.metrics.Successes++
			s.metrics.StatusCounts[status]++
			s.consecutiveErrors = 0
			s.lastStatus = status
			s.lastActivityAt = time.Now()
		}
		consecutiveErrors := s.consecutiveErrors
		s.mu.Unlock()

		if err != nil {
			classified := errs.Classify(err, 0)
			if consecutiveErrors >= s.cfg.MaxConsecutiveErrors {
				s.finish(ctx, Event{ExecutionID: executionID, Err: classified, Terminal: true})
				return
			}
			select {
			case s.events <- Event{ExecutionID: executionID, Err: classified}:
			case <-ctx.Done():
				return
			}
			timer.Reset(errorBackoff(s.cfg, consecutiveErrors))
			continue
		}

		terminal := stopIf(status)
		select {
		case s.events <- Event{ExecutionID: executionID, Status: status, Terminal: terminal}:
		case <-ctx.Done():
			return
		}
		if terminal {
			s.finishMetrics()
			return
		}

		timer.Reset(nextInterval(s.cfg, status, time.Since(lastActivityAt), metrics))
	}
}

func (s *session) finish(ctx context.Context, final Event) {
	select {
	case s.events <- final:
	case <-ctx.Done():
	}
	s.finishMetrics()
}

func (s *session) finishMetrics() {
	s.mu.Lock()
	now := time.Now()
	s.metrics.EndedAt = &now
	s.mu.Unlock()
}
