// Package queue buffers live game results between the HTTP surface and the
// rating worker.
package queue

import (
	"context"
	"sync"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/pkg/metrics"
)

// DefaultCapacity is the number of games the queue holds before refusing more.
const DefaultCapacity = 1024

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a game without blocking. It fails with ErrQueueFull or
	// ErrQueueClosed.
	Enqueue(ctx context.Context, g model.GameRecord) error

	// Dequeue returns the channel games arrive on. It is closed by Close
	// once drained.
	Dequeue() <-chan model.GameRecord

	Len() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel. Games leave in the
// order they were accepted.
type InMemoryQueue struct {
	games    chan model.GameRecord
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.games = make(chan model.GameRecord, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, g model.GameRecord) error { //nolint:gocritic // hugeParam: sent by value over the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueRejected("context_cancelled")
		return err
	}

	select {
	case q.games <- g:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.games))
		return nil
	default:
		metrics.RecordQueueRejected("full")
		return ErrQueueFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue() <-chan model.GameRecord {
	return q.games
}

// Len implements Queue.
func (q *InMemoryQueue) Len() int {
	n := len(q.games)
	metrics.UpdateQueueSize(n)
	return n
}

// Close stops accepting games. Games already queued are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.games)
	q.closed = true
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
