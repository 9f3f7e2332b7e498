package domain

import "time"

// QueueItemStatus is the lifecycle stage of a QueuedItem (spec §3).
type QueueItemStatus string

const (
	QueueItemPending    QueueItemStatus = "pending"
	QueueItemProcessing QueueItemStatus = "processing"
	QueueItemCompleted  QueueItemStatus = "completed"
	QueueItemFailed     QueueItemStatus = "failed"
)

// QueuedItem is a single queued workflow-start request (spec §3).
type QueuedItem struct {
	ID string

	WebhookPath string
	Payload     map[string]any

	Status   QueueItemStatus
	Priority int

	RetryCount int

	ExecutionID *ExecutionID
	Err         error

	Metadata map[string]any

	EnqueuedAt time.Time
}

// QueueConfig configures a work queue (spec §3).
type QueueConfig struct {
	ThrottleInterval  time.Duration
	MaxConcurrent     int
	WaitForCompletion bool
	RetryFailedItems  bool
	MaxRetries        int
}

// DefaultQueueConfig matches the "Queue throttling" scenario in spec §8.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		ThrottleInterval:  time.Second,
		MaxConcurrent:     1,
		WaitForCompletion: true,
		RetryFailedItems:  true,
		MaxRetries:        3,
	}
}

// QueueMetrics is derived by counting items by status (spec §4.5).
type QueueMetrics struct {
	Pending    int
	Processing int
	Completed  int
	Failed     int
}

// Total returns the sum of all counted items.
func (m QueueMetrics) Total() int {
	return m.Pending + m.Processing + m.Completed + m.Failed
}
