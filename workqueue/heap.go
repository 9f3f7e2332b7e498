package workqueue

import (
	"container/heap"

	"github.com/unfazed-dev/n8n-go/domain"
)

// heapEntry pairs a queued item with the monotonic sequence number it was
// enqueued under, so the heap can break priority ties by insertion order
// (spec §4.5: "ties break by insertion order").
type heapEntry struct {
	item *domain.QueuedItem
	seq  int64
}

// pendingHeap is a container/heap.Interface ordering entries by
// priority-descending, insertion-order-ascending.
type pendingHeap []*heapEntry

func (h pendingHeap) Len() int { return len(h) }

func (h pendingHeap) Less(i, j int) bool {
	if h[i].item.Priority != h[j].item.Priority {
		return h[i].item.Priority > h[j].item.Priority
	}
	return h[i].seq < h[j].seq
}

func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pendingHeap) Push(x any) {
	*h = append(*h, x.(*heapEntry))
}

func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return last
}

var _ heap.Interface = (*pendingHeap)(nil)
