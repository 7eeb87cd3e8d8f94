package sweep

// WorkQueue holds the pending items of a run. It is filled completely and
// closed before any worker starts, so Pop never waits on a producer: it yields
// an item or reports empty immediately. Each item is delivered exactly once.
type WorkQueue struct {
	items chan WorkItem
}

// NewWorkQueue creates a closed queue containing items.
func NewWorkQueue(items []WorkItem) *WorkQueue {
	ch := make(chan WorkItem, len(items))
	for _, item := range items {
		ch <- item
	}
	close(ch)
	return &WorkQueue{items: ch}
}

// Pop removes and returns the next item. ok is false once the queue is empty.
func (q *WorkQueue) Pop() (item WorkItem, ok bool) {
	item, ok = <-q.items
	return item, ok
}

// Len returns the number of items still queued.
func (q *WorkQueue) Len() int { return len(q.items) }
