package polling

import (
	"testing"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
)

func TestAgeFactor(t *testing.T) {
	cases := []struct {
		since time.Duration
		want  float64
	}{
		{time.Minute, 1.0},
		{4*time.Minute + 59*time.Second, 1.0},
		{5 * time.Minute, 1.5},
		{14 * time.Minute, 1.5},
		{15 * time.Minute, 2.0},
		{29 * time.Minute, 2.0},
		{30 * time.Minute, 3.0},
		{59 * time.Minute, 3.0},
		{time.Hour, 4.0},
		{2 * time.Hour, 4.0},
	}
	for _, c := range cases {
		if got := ageFactor(c.since); got != c.want {
			t.Errorf("ageFactor(%v) = %v, want %v", c.since, got, c.want)
		}
	}
}

func TestNextInterval_Fixed(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategyFixed
	got := nextInterval(cfg, domain.StatusRunning, 0, domain.PollingMetrics{})
	if got != cfg.BaseInterval {
		t.Errorf("nextInterval() = %v, want %v", got, cfg.BaseInterval)
	}
}

func TestNextInterval_Adaptive_PerStatus(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategyAdaptive
	got := nextInterval(cfg, domain.StatusWaiting, 0, domain.PollingMetrics{})
	if got != 10*time.Second {
		t.Errorf("nextInterval() = %v, want 10s", got)
	}
}

func TestNextInterval_Adaptive_BatteryOptimiseDoublesTerminal(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategyAdaptive
	cfg.BatteryOptimise = true
	cfg.BaseInterval = 5 * time.Second
	cfg.PerStatusInterval = nil
	got := nextInterval(cfg, domain.StatusSuccess, 0, domain.PollingMetrics{})
	if got != 10*time.Second {
		t.Errorf("nextInterval() = %v, want 10s (doubled)", got)
	}
}

func TestNextInterval_Smart_ScalesByAge(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategySmart
	cfg.PerStatusInterval = nil
	cfg.BaseInterval = 5 * time.Second
	cfg.MaxInterval = time.Hour

	got := nextInterval(cfg, domain.StatusRunning, 20*time.Minute, domain.PollingMetrics{})
	want := 10 * time.Second // 5s * 2.0
	if got != want {
		t.Errorf("nextInterval() = %v, want %v", got, want)
	}
}

func TestNextInterval_Smart_AdaptiveThrottleSpeedsUpOnHighSuccess(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategySmart
	cfg.PerStatusInterval = nil
	cfg.BaseInterval = 10 * time.Second
	cfg.AdaptiveThrottle = true
	cfg.MinInterval = 0

	metrics := domain.PollingMetrics{TotalPolls: 20, Successes: 18}
	got := nextInterval(cfg, domain.StatusRunning, 0, metrics)
	want := time.Duration(float64(10*time.Second) * 0.8)
	if got != want {
		t.Errorf("nextInterval() = %v, want %v", got, want)
	}
}

func TestNextInterval_Smart_AdaptiveThrottleSlowsDownOnHighError(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategySmart
	cfg.PerStatusInterval = nil
	cfg.BaseInterval = 10 * time.Second
	cfg.AdaptiveThrottle = true
	cfg.MaxInterval = time.Minute

	metrics := domain.PollingMetrics{TotalPolls: 10, Errors: 5}
	got := nextInterval(cfg, domain.StatusRunning, 0, metrics)
	want := time.Duration(float64(10*time.Second) * 1.5)
	if got != want {
		t.Errorf("nextInterval() = %v, want %v", got, want)
	}
}

func TestNextInterval_Hybrid_PicksLarger(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategyHybrid
	cfg.PerStatusInterval = nil
	cfg.BaseInterval = 5 * time.Second
	cfg.MaxInterval = time.Hour

	got := nextInterval(cfg, domain.StatusRunning, 20*time.Minute, domain.PollingMetrics{})
	want := 10 * time.Second // smart (5s*2.0) beats adaptive (5s)
	if got != want {
		t.Errorf("nextInterval() = %v, want %v", got, want)
	}
}

func TestNextInterval_ClampedToMinAndMax(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.Strategy = domain.StrategyFixed
	cfg.BaseInterval = time.Millisecond
	cfg.MinInterval = time.Second
	got := nextInterval(cfg, domain.StatusRunning, 0, domain.PollingMetrics{})
	if got != time.Second {
		t.Errorf("nextInterval() = %v, want clamped to 1s", got)
	}
}

func TestErrorBackoff(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.BaseInterval = time.Second
	cfg.BackoffFactor = 2.0
	cfg.MaxInterval = time.Minute

	cases := []struct {
		consecutive int
		want        time.Duration
	}{
		{0, 2 * time.Second}, // 1s clamped up to the default MinInterval (2s)
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
	}
	for _, c := range cases {
		if got := errorBackoff(cfg, c.consecutive); got != c.want {
			t.Errorf("errorBackoff(%d) = %v, want %v", c.consecutive, got, c.want)
		}
	}
}

func TestErrorBackoff_ClampedToMax(t *testing.T) {
	cfg := domain.DefaultPollingConfig()
	cfg.BaseInterval = time.Second
	cfg.BackoffFactor = 2.0
	cfg.MaxInterval = 5 * time.Second

	got := errorBackoff(cfg, 10)
	if got != cfg.MaxInterval {
		t.Errorf("errorBackoff(10) = %v, want clamped to %v", got, cfg.MaxInterval)
	}
}
