package domain

import "time"

// PollingStrategy selects the rule used to choose the next poll interval
// (spec §4.2).
type PollingStrategy int

const (
	StrategyFixed PollingStrategy = iota
	StrategyAdaptive
	StrategySmart
	StrategyHybrid
)

func (s PollingStrategy) String() string {
	switch s {
	case StrategyAdaptive:
		return "adaptive"
	case StrategySmart:
		return "smart"
	case StrategyHybrid:
		return "hybrid"
	default:
		return "fixed"
	}
}

// PollingConfig configures the polling engine (spec §3).
type PollingConfig struct {
	Strategy PollingStrategy

	BaseInterval time.Duration
	MinInterval  time.Duration
	MaxInterval  time.Duration

	BackoffFactor float64

	// ActivityWindow is not read by the polling engine: smart/hybrid's
	// age-factor buckets are fixed in polling's unexported ageFactor.
	ActivityWindow time.Duration

	MaxConsecutiveErrors int

	BatteryOptimise   bool
	AdaptiveThrottle  bool
	PerStatusInterval map[Status]time.Duration
}

// DefaultPollingConfig matches the "Happy path" scenario in spec §8:
// strategy=smart, base=5s.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		Strategy:             StrategySmart,
		BaseInterval:         5 * time.Second,
		MinInterval:          2 * time.Second,
		MaxInterval:          2 * time.Minute,
		BackoffFactor:        2.0,
		MaxConsecutiveErrors: 5,
		PerStatusInterval: map[Status]time.Duration{
			StatusNew:     2 * time.Second,
			StatusRunning: 5 * time.Second,
			StatusWaiting: 10 * time.Second,
		},
	}
}

// PollingMetrics is the per-execution running counters the polling engine
// maintains (spec §3).
type PollingMetrics struct {
	TotalPolls int
	Successes  int
	Errors     int

	CumulativeTime time.Duration

	// RecentIntervals is a sliding window capped at 20 entries, most
	// recent last.
	RecentIntervals []time.Duration

	AverageInterval time.Duration

	StatusCounts map[Status]int

	StartedAt time.Time
	EndedAt   *time.Time
}

// NewPollingMetrics returns a zero-value PollingMetrics ready to record.
func NewPollingMetrics(start time.Time) PollingMetrics {
	return PollingMetrics{
		StatusCounts: make(map[Status]int),
		StartedAt:    start,
	}
}

// SuccessRate returns Successes/TotalPolls, or 0 if no polls were made.
func (m PollingMetrics) SuccessRate() float64 {
	if m.TotalPolls == 0 {
		return 0
	}
	return float64(m.Successes) / float64(m.TotalPolls)
}

// ErrorRate returns Errors/TotalPolls, or 0 if no polls were made.
func (m PollingMetrics) ErrorRate() float64 {
	if m.TotalPolls == 0 {
		return 0
	}
	return float64(m.Errors) / float64(m.TotalPolls)
}

const maxRecentIntervals = 20

// RecordInterval appends d to the sliding window, evicting the oldest
// entry once the window exceeds 20 entries, and recomputes AverageInterval.
func (m *PollingMetrics) RecordInterval(d time.Duration) {
	m.RecentIntervals = append(m.RecentIntervals, d)
	if len(m.RecentIntervals) > maxRecentIntervals {
		m.RecentIntervals = m.RecentIntervals[len(m.RecentIntervals)-maxRecentIntervals:]
	}
	var sum time.Duration
	for _, v := range m.RecentIntervals {
		sum += v
	}
	m.AverageInterval = sum / time.Duration(len(m.RecentIntervals))
}
