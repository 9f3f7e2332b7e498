package polling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
)

func fastConfig() domain.PollingConfig {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategyFixed
	cfg.BaseInterval = time.Millisecond
	cfg.MinInterval = time.Millisecond
	cfg.MaxInterval = 10 * time.Millisecond
	cfg.MaxConsecutiveErrors = 3
	cfg.PerStatusInterval = nil
	return cfg
}

func drain(t *testing.T, events <-chan Event, timeout time.Duration) []Event {
	t.Helper()
	var got []Event
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-deadline:
			t.Fatal("timed out draining events")
		}
	}
}

func TestEngine_StopsOnTerminalStatus(t *testing.T) {
	e := NewEngine()
	calls := 0
	probe := func(ctx context.Context) (domain.Status, error) {
		calls++
		if calls < 3 {
			return domain.StatusRunning, nil
		}
		return domain.StatusSuccess, nil
	}

	events := e.Start(context.Background(), "exec-1", fastConfig(), probe, nil)
	got := drain(t, events, time.Second)

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	last := got[len(got)-1]
	if !last.Terminal || last.Status != domain.StatusSuccess {
		t.Errorf("last event = %+v, want terminal success", last)
	}
}

func TestEngine_StopsAfterMaxConsecutiveErrors(t *testing.T) {
	e := NewEngine()
	cfg := fastConfig()
	cfg.MaxConsecutiveErrors = 2

	probe := func(ctx context.Context) (domain.Status, error) {
		return domain.StatusUnknown, errors.New("probe failed")
	}

	events := e.Start(context.Background(), "exec-2", cfg, probe, nil)
	got := drain(t, events, time.Second)

	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	last := got[len(got)-1]
	if !last.Terminal || last.Err == nil {
		t.Errorf("last event = %+v, want terminal error", last)
	}
}

func TestEngine_TerminalEventBlocksUntilReceivedInsteadOfDropping(t *testing.T) {
	e := NewEngine()
	cfg := fastConfig()
	cfg.MaxConsecutiveErrors = 1

	calls := 0
	probe := func(ctx context.Context) (domain.Status, error) {
		calls++
		if calls == 1 {
			return domain.StatusRunning, nil
		}
		return domain.StatusUnknown, errors.New("probe failed")
	}

	events := e.Start(context.Background(), "exec-slow-reader", cfg, probe, nil)

	// Let both the first (non-terminal) event and the terminal event get
	// produced before anything is read, so the channel's buffer of 1 is
	// already full by the time finish tries to send. A non-blocking send
	// there would silently drop the terminal event.
	time.Sleep(50 * time.Millisecond)

	got := drain(t, events, time.Second)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (non-terminal then terminal); terminal event was dropped", len(got))
	}
	last := got[len(got)-1]
	if !last.Terminal || last.Err == nil {
		t.Errorf("last event = %+v, want terminal error", last)
	}
}

func TestEngine_StopCancelsSession(t *testing.T) {
	e := NewEngine()
	probe := func(ctx context.Context) (domain.Status, error) {
		return domain.StatusRunning, nil
	}

	events := e.Start(context.Background(), "exec-3", fastConfig(), probe, nil)
	time.Sleep(10 * time.Millisecond)
	e.Stop("exec-3")

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel never closed after Stop")
		}
	}
}

func TestEngine_CustomStopPredicate(t *testing.T) {
	e := NewEngine()
	probe := func(ctx context.Context) (domain.Status, error) {
		return domain.StatusRunning, nil
	}
	stopIf := func(status domain.Status) bool { return status == domain.StatusRunning }

	events := e.Start(context.Background(), "exec-4", fastConfig(), probe, stopIf)
	got := drain(t, events, time.Second)

	if len(got) != 1 || !got[0].Terminal {
		t.Errorf("got = %+v, want single terminal event", got)
	}
}

func TestEngine_RecordActivityAndMetricsFor(t *testing.T) {
	e := NewEngine()
	block := make(chan struct{})
	probe := func(ctx context.Context) (domain.Status, error) {
		<-block
		return domain.StatusRunning, nil
	}

	e.Start(context.Background(), "exec-5", fastConfig(), probe, nil)
	time.Sleep(5 * time.Millisecond)

	e.RecordActivity("exec-5", domain.StatusWaiting)

	if _, ok := e.MetricsFor("exec-5"); !ok {
		t.Error("MetricsFor() ok = false, want true for active session")
	}

	ids := e.ActiveIDs()
	if len(ids) != 1 || ids[0] != "exec-5" {
		t.Errorf("ActiveIDs() = %v, want [exec-5]", ids)
	}

	close(block)
	e.Stop("exec-5")

	if _, ok := e.MetricsFor("exec-5"); ok {
		t.Error("MetricsFor() ok = true after stop, want false")
	}
}

func TestEngine_StartReplacesExistingSession(t *testing.T) {
	e := NewEngine()
	firstCalls := 0
	first := func(ctx context.Context) (domain.Status, error) {
		firstCalls++
		<-ctx.Done()
		return domain.StatusUnknown, ctx.Err()
	}
	firstEvents := e.Start(context.Background(), "exec-6", fastConfig(), first, nil)

	time.Sleep(5 * time.Millisecond)

	calls := 0
	second := func(ctx context.Context) (domain.Status, error) {
		calls++
		return domain.StatusSuccess, nil
	}
	secondEvents := e.Start(context.Background(), "exec-6", fastConfig(), second, nil)

	deadline := time.After(time.Second)
	select {
	case _, ok := <-firstEvents:
		if ok {
			t.Error("first session's events channel should only close, never emit")
		}
	case <-deadline:
		t.Fatal("first session never stopped")
	}

	got := drain(t, secondEvents, time.Second)
	if len(got) != 1 || !got[0].Terminal {
		t.Errorf("second session events = %+v, want single terminal event", got)
	}
}
