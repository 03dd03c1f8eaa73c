// FILE: eslogger/src/internal/buffer/queue.go
package buffer

import (
	"sync"
	"sync/atomic"
)

// compactThreshold is the number of consumed slots tolerated before the
// backing slice is shifted down.
const compactThreshold = 64

// Queue is an unbounded FIFO for many producers and a single consumer.
// Until Connect is called, Enqueue discards its argument.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	head  int

	connected atomic.Bool

	// Statistics
	totalEnqueued atomic.Uint64
	totalDequeued atomic.Uint64
	totalDropped  atomic.Uint64
}

// New creates an empty queue in console-only mode.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Connect switches the queue to retaining entries. There is no way back.
func (q *Queue[T]) Connect() {
	q.connected.Store(true)
}

// Connected reports whether entries are retained.
func (q *Queue[T]) Connected() bool {
	return q.connected.Load()
}

// Enqueue appends v when connected and reports whether it was retained.
func (q *Queue[T]) Enqueue(v T) bool {
	if !q.connected.Load() {
		q.totalDropped.Add(1)
		return false
	}

	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.totalEnqueued.Add(1)
	return true
}

// TryDequeue removes and returns the oldest item without blocking.
func (q *Queue[T]) TryDequeue() (T, bool) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		return zero, false
	}

	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactThreshold && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	q.totalDequeued.Add(1)
	return v, true
}

// IsEmpty reports whether no items are waiting.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of waiting items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Stats is a point-in-time view of queue counters.
type Stats struct {
	Connected     bool
	Pending       int
	TotalEnqueued uint64
	TotalDequeued uint64
	TotalDropped  uint64
}

// GetStats returns the queue's statistics.
func (q *Queue[T]) GetStats() Stats {
	return Stats{
		Connected:     q.connected.Load(),
		Pending:       q.Len(),
		TotalEnqueued: q.totalEnqueued.Load(),
		TotalDequeued: q.totalDequeued.Load(),
		TotalDropped:  q.totalDropped.Load(),
	}
}
