package domain

import "time"

// PerformanceMetrics is the client-wide running counters from spec §3.
type PerformanceMetrics struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	// AverageResponseTime is a running average updated incrementally as
	// each request completes.
	AverageResponseTime time.Duration
}

// RecordSuccess folds a successful request's duration into the running
// average and increments the success/total counters.
func (m *PerformanceMetrics) RecordSuccess(d time.Duration) {
	m.recordAverage(d)
	m.TotalRequests++
	m.SuccessfulRequests++
}

// RecordFailure folds a failed request's duration into the running average
// and increments the failure/total counters.
func (m *PerformanceMetrics) RecordFailure(d time.Duration) {
	m.recordAverage(d)
	m.TotalRequests++
	m.FailedRequests++
}

func (m *PerformanceMetrics) recordAverage(d time.Duration) {
	if m.TotalRequests == 0 {
		m.AverageResponseTime = d
		return
	}
	total := int64(m.AverageResponseTime)*m.TotalRequests + int64(d)
	m.AverageResponseTime = time.Duration(total / (m.TotalRequests + 1))
}
