// Package worker runs the pool that executes queued image probes.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/vitrine/internal/adapters/mq/queue"
	"github.com/okian/vitrine/internal/domain/model"
	"github.com/okian/vitrine/pkg/logger"
	"github.com/okian/vitrine/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount  = 4
	defaultProbeTimeout = 3 * time.Second
	poolShutdownTimeout = 10 * time.Second
)

// Checker fetches one image URL.
type Checker interface {
	Check(ctx context.Context, url string) model.ProbeResult
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue() <-chan queue.Job
}

// Worker processes probe jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	checker Checker
	timeout time.Duration

	name     string
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading from q.
func NewInMemoryWorker(q Queue, checker Checker, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		checker:  checker,
		timeout:  defaultProbeTimeout,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.OrGlobal(w.logger).Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// process runs one probe and always answers the job's reply channel.
func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	res := w.checker.Check(ctx, job.URL)
	if res.Latency == 0 {
		res.Latency = time.Since(start)
	}
	metrics.RecordProbeLatency(float64(res.Latency.Milliseconds()))

	if res.OK {
		metrics.RecordProbe(job.Kind, metrics.ProbeOK)
	} else {
		metrics.RecordProbe(job.Kind, metrics.ProbeFailed)
		w.logger.Debug(ctx, "image probe failed",
			logger.String("id", job.ID),
			logger.String("kind", job.Kind),
			logger.String("url", job.URL),
			logger.Int("status", res.Status),
			logger.Error(res.Err),
		)
	}

	select {
	case job.Reply <- res:
	default:
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers over q.
func NewPool(workerCount int, q Queue, checker Checker, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{}, opts...)
		wopts = append(wopts, WithName("probe-worker-"+strconv.Itoa(i)))
		p.workers[i] = NewInMemoryWorker(q, checker, wopts...)
	}
	base := &InMemoryWorker{}
	for _, opt := range opts {
		opt(base)
	}
	p.logger = logger.OrGlobal(base.logger).Named("probe-pool")

	metrics.UpdateProbeWorkers(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Shutdown closes the queue and waits for the workers to drain it. Jobs
// already queued are still answered. Workers that have not finished when
// ctx or the pool timeout expires are told to stop after their current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		for _, w := range p.workers {
			w.stopOnce.Do(func() { close(w.shutdown) })
		}
		p.logger.Warn(ctx, "worker pool shutdown timed out; abandoning queued probes")
		return fmt.Errorf("pool shutdown: %w", ctx.Err())
	}
}
