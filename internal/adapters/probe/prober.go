// Package probe checks that profile images are reachable before a page
// references them.
//
// Probes run on a bounded worker pool and their outcomes are cached in an
// LRU with a TTL. Concurrent probes of the same URL share one request.
// Every failure mode, including a full queue or a cancelled request,
// resolves to "not available" so the page falls back to a placeholder.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/okian/vitrine/internal/adapters/mq/queue"
	"github.com/okian/vitrine/internal/adapters/mq/worker"
	"github.com/okian/vitrine/internal/domain/model"
	"github.com/okian/vitrine/internal/domain/types"
	"github.com/okian/vitrine/pkg/logger"
	"github.com/okian/vitrine/pkg/metrics"
)

// Default prober configuration constants.
const (
	defaultWorkers   = 4
	defaultQueueSize = 256
	defaultTimeout   = 3 * time.Second
	defaultCacheSize = 1024
	defaultCacheTTL  = 10 * time.Minute
)

type cacheEntry struct {
	ok       bool
	storedAt time.Time
}

// Prober answers whether an image URL can be shown.
type Prober struct {
	enabled      bool
	allowPrivate bool
	workers      int
	queueSize    int
	timeout      time.Duration
	cacheSize    int
	cacheTTL     time.Duration
	client       *http.Client
	checker      worker.Checker
	logger       logger.Logger

	cache *lru.Cache[string, cacheEntry]
	group singleflight.Group

	mu      sync.RWMutex
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	running bool
}

// Stats is a snapshot of the prober state.
type Stats = types.ProbeStats

// New creates a prober. Start must be called before probes are executed.
func New(opts ...Option) (*Prober, error) {
	p := &Prober{
		enabled:   true,
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		timeout:   defaultTimeout,
		cacheSize: defaultCacheSize,
		cacheTTL:  defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logger.OrGlobal(p.logger).Named("probe")
	if p.checker == nil {
		if p.client == nil {
			p.client = newClient(p.timeout, p.allowPrivate)
		}
		p.checker = NewHTTPChecker(p.client)
	}

	cache, err := lru.New[string, cacheEntry](p.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCache, err)
	}
	p.cache = cache
	return p, nil
}

// Enabled reports whether URLs are actually fetched.
func (p *Prober) Enabled() bool {
	return p.enabled
}

// Start launches the worker pool. It is a no-op when probing is disabled
// or the pool already runs.
func (p *Prober) Start(ctx context.Context) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	p.queue = queue.NewInMemoryQueue(queue.WithCapacity(p.queueSize))
	p.pool = worker.NewPool(p.workers, p.queue, p.checker,
		worker.WithTimeout(p.timeout),
		worker.WithLogger(p.logger),
	)
	p.pool.Start(ctx)
	p.running = true
	p.logger.Info(ctx, "image prober started",
		logger.Int("workers", p.workers),
		logger.Int("queue_size", p.queueSize),
		logger.String("timeout", p.timeout.String()),
	)
}

// Stop closes the queue and waits for in-flight probes.
func (p *Prober) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.running = false
	err := p.pool.Shutdown(ctx)
	if p.client != nil {
		p.client.CloseIdleConnections()
	}
	if err != nil {
		return fmt.Errorf("stop prober: %w", err)
	}
	p.logger.Info(ctx, "image prober stopped")
	return nil
}

// Probe reports whether the image at raw can be displayed. kind labels
// metrics and logs (model.KindPhoto or model.KindBanner).
//
// Concurrent probes of one URL share a job that runs detached from any
// single caller, so each caller only gives up on its own context.
func (p *Prober) Probe(ctx context.Context, kind, raw string) bool {
	u, err := p.normalise(raw)
	if err != nil {
		metrics.RecordProbe(kind, metrics.ProbeRejected)
		if errors.Is(err, ErrBlockedAddress) {
			p.logger.Debug(ctx, "image url rejected", logger.String("url", raw), logger.Error(err))
		}
		return false
	}
	if !p.enabled {
		metrics.RecordProbe(kind, metrics.ProbeSkipped)
		return true
	}

	if entry, ok := p.cache.Get(u); ok {
		if time.Since(entry.storedAt) < p.cacheTTL {
			metrics.RecordProbeCacheHit()
			return entry.ok
		}
		p.cache.Remove(u)
	}
	metrics.RecordProbeCacheMiss()

	if ctx.Err() != nil {
		metrics.RecordProbe(kind, metrics.ProbeFailed)
		return false
	}
	shared := context.WithoutCancel(ctx)
	ch := p.group.DoChan(u, func() (any, error) {
		return p.submit(shared, kind, u), nil
	})
	select {
	case res := <-ch:
		ok, _ := res.Val.(bool)
		return ok
	case <-ctx.Done():
		metrics.RecordProbe(kind, metrics.ProbeFailed)
		p.logger.Debug(ctx, "probe wait abandoned by caller", logger.String("url", u), logger.Error(ctx.Err()))
		return false
	}
}

// submit queues one job and waits for its answer. Definitive answers from
// a worker are cached; rejections and cancellations are not.
func (p *Prober) submit(ctx context.Context, kind, u string) bool {
	p.mu.RLock()
	q, running := p.queue, p.running
	p.mu.RUnlock()
	if !running {
		metrics.RecordProbe(kind, metrics.ProbeRejected)
		p.logger.Debug(ctx, "prober not running; image treated as unavailable", logger.String("url", u))
		return false
	}

	job := model.NewProbeJob(uuid.NewString(), kind, u)
	if !q.Enqueue(ctx, job) {
		metrics.RecordProbe(kind, metrics.ProbeRejected)
		p.logger.Debug(ctx, "probe queue rejected job", logger.String("url", u), logger.String("id", job.ID))
		return false
	}

	// the worker bounds the fetch; the extra slack covers queueing time
	wait, cancel := context.WithTimeout(ctx, 2*p.timeout)
	defer cancel()

	select {
	case res := <-job.Reply:
		p.cache.Add(u, cacheEntry{ok: res.OK, storedAt: time.Now()})
		return res.OK
	case <-wait.Done():
		metrics.RecordProbe(kind, metrics.ProbeFailed)
		p.logger.Debug(ctx, "probe wait abandoned", logger.String("url", u), logger.Error(wait.Err()))
		return false
	}
}

// Stats returns a snapshot of the prober state.
func (p *Prober) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := Stats{
		Enabled:   p.enabled,
		Running:   p.running,
		Workers:   p.workers,
		QueueCap:  p.queueSize,
		CacheSize: p.cache.Len(),
	}
	if p.queue != nil {
		s.QueueLen = p.queue.Len()
	}
	return s
}

// Purge drops every cached outcome.
func (p *Prober) Purge() {
	p.cache.Purge()
}

// normalise accepts absolute http(s) URLs. A disabled prober never
// fetches, so only an enabled one applies the address guard.
func (p *Prober) normalise(raw string) (string, error) {
	u, err := validateTarget(raw, p.allowPrivate || !p.enabled)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
