// Package queue defines the bounded queue that feeds image probe workers.
//
// Enqueue never blocks: a full or closed queue rejects the job and the
// caller treats the image as unavailable.
package queue

import (
	"context"
	"sync"

	"github.com/okian/vitrine/internal/domain/model"
	"github.com/okian/vitrine/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 256
)

// Job is the payload type flowing through the queue.
type Job = model.ProbeJob

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job to the queue.
	// Returns false if the queue is full or closed and the job was not enqueued.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel that receives jobs as they become available.
	// The channel is closed when the queue is closed.
	Dequeue() <-chan Job

	// Len returns the current number of queued jobs.
	Len() int

	// Cap returns the queue capacity.
	Cap() int

	// Close stops accepting jobs. Jobs already queued can still be drained.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateProbeQueueCapacity(q.capacity)
	metrics.UpdateProbeQueueSize(0)
	return q
}

// Enqueue adds a job to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByEndpoint("probe_queue", "enqueue", "closed")
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordErrorByEndpoint("probe_queue", "enqueue", "context_cancelled")
		return false
	}

	select {
	case q.jobs <- j:
		metrics.UpdateProbeQueueSize(len(q.jobs))
		return true
	default:
		metrics.RecordErrorByEndpoint("probe_queue", "enqueue", "queue_full")
		return false
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue() <-chan Job {
	return q.jobs
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len() int {
	size := len(q.jobs)
	metrics.UpdateProbeQueueSize(size)
	return size
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
