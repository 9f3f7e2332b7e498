package resilientstream

import (
	"sync"
	"time"

	"github.com/unfazed-dev/n8n-go/errs"
	"github.com/unfazed-dev/n8n-go/health"
)

// errorSample is a single entry in StreamHealth's error ring buffer.
type errorSample struct {
	At   time.Time
	Kind errs.Kind
}

// defaultErrorRingSize bounds StreamHealth's recent-error ring buffer.
const defaultErrorRingSize = 32

// StreamHealth tracks success rate, average response time, a bounded
// ring buffer of recent errors, and last success/error timestamps for a
// wrapped stream (spec §4.6).
type StreamHealth struct {
	mu sync.Mutex

	successes int64
	failures  int64

	totalResponseTime time.Duration
	responseSamples   int64

	ring     []errorSample
	ringSize int
	ringPos  int

	lastSuccess time.Time
	lastError   time.Time
}

// NewStreamHealth returns a zero-valued StreamHealth with the default
// error ring capacity.
func NewStreamHealth() *StreamHealth {
	return &StreamHealth{ringSize: defaultErrorRingSize}
}

// recordSuccess registers a successful emission observed d after the
// previous one.
func (h *StreamHealth) recordSuccess(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.successes++
	if d > 0 {
		h.totalResponseTime += d
		h.responseSamples++
	}
	h.lastSuccess = time.Now()
}

// recordError registers an upstream failure of the given kind.
func (h *StreamHealth) recordError(kind errs.Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures++
	h.lastError = time.Now()

	sample := errorSample{At: h.lastError, Kind: kind}
	if len(h.ring) < h.ringSize {
		h.ring = append(h.ring, sample)
	} else {
		h.ring[h.ringPos] = sample
		h.ringPos = (h.ringPos + 1) % h.ringSize
	}
}

// Snapshot is a point-in-time copy of StreamHealth's counters.
type Snapshot struct {
	SuccessRate     float64
	AvgResponseTime time.Duration
	RecentErrors    int
	LastSuccess     time.Time
	LastError       time.Time
}

// Snapshot returns the current health view.
func (h *StreamHealth) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := h.successes + h.failures
	var rate float64 = 1
	if total > 0 {
		rate = float64(h.successes) / float64(total)
	}

	var avg time.Duration
	if h.responseSamples > 0 {
		avg = h.totalResponseTime / time.Duration(h.responseSamples)
	}

	return Snapshot{
		SuccessRate:     rate,
		AvgResponseTime: avg,
		RecentErrors:    len(h.ring),
		LastSuccess:     h.lastSuccess,
		LastError:       h.lastError,
	}
}

// Result renders the current snapshot using health.Result's
// healthy/degraded/unhealthy vocabulary: unhealthy at success rate <= 0.5,
// degraded at success rate <= 0.8, healthy otherwise (or when there have
// been no observations yet).
func (h *StreamHealth) Result() health.Result {
	s := h.Snapshot()
	hasObservations := !s.LastSuccess.IsZero() || !s.LastError.IsZero()
	switch {
	case s.SuccessRate <= 0.5 && hasObservations:
		return health.Unhealthy("stream success rate degraded", nil).WithDetails(map[string]any{
			"successRate":     s.SuccessRate,
			"avgResponseTime": s.AvgResponseTime.String(),
			"recentErrors":    s.RecentErrors,
		})
	case s.SuccessRate <= 0.8:
		return health.Degraded("stream seeing elevated errors").WithDetails(map[string]any{
			"successRate":  s.SuccessRate,
			"recentErrors": s.RecentErrors,
		})
	default:
		return health.Healthy("stream nominal").WithDetails(map[string]any{
			"successRate": s.SuccessRate,
		})
	}
}

// degraded reports whether the health-triggered forced restart condition
// holds: success rate at or below 0.5 and at least threshold recent
// errors recorded.
func (h *StreamHealth) degraded(threshold int) bool {
	h.mu.Lock()
	total := h.successes + h.failures
	rate := 1.0
	if total > 0 {
		rate = float64(h.successes) / float64(total)
	}
	recent := len(h.ring)
	h.mu.Unlock()

	return total > 0 && rate <= 0.5 && recent >= threshold
}
