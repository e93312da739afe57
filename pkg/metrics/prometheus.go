// Package metrics provides Prometheus metrics for the vitrine profile service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Label values shared by callers.
const (
	DecodeOK      = "ok"
	DecodePreview = "preview"
	DecodeFailed  = "failed"

	RenderOK    = "ok"
	RenderError = "error"

	ProbeOK       = "ok"
	ProbeFailed   = "failed"
	ProbeRejected = "rejected"
	ProbeSkipped  = "skipped"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Payload and rendering
	payloadDecodes *prometheus.CounterVec
	pageRenders    *prometheus.CounterVec
	renderLatency  *prometheus.HistogramVec
	missingSlots   *prometheus.CounterVec

	// Image probes
	probeResults       *prometheus.CounterVec
	probeLatency       prometheus.Histogram
	probeCacheHits     prometheus.Counter
	probeCacheMisses   prometheus.Counter
	probeQueueSize     prometheus.Gauge
	probeQueueCapacity prometheus.Gauge
	probeWorkers       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vitrine",
		subsystem:        "profile",
		histogramBuckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.payloadDecodes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "payload_decode_total",
		Help:      "Payload decode attempts by result (ok, preview, failed)",
	}, []string{"result"})

	m.pageRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "page_renders_total",
		Help:      "Rendered pages by skin and outcome",
	}, []string{"skin", "outcome"})

	m.renderLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_latency_milliseconds",
		Help:      "End-to-end page render latency including image probes",
		Buckets:   m.histogramBuckets,
	}, []string{"skin"})

	m.missingSlots = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "missing_slots_total",
		Help:      "Bind writes skipped because the skin lacks the slot",
	}, []string{"slot"})

	m.probeResults = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_probe_total",
		Help:      "Image probes by kind (photo, banner) and result",
	}, []string{"kind", "result"})

	m.probeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_probe_latency_milliseconds",
		Help:      "Latency of outbound image probes",
		Buckets:   m.histogramBuckets,
	})

	m.probeCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_probe_cache_hits_total",
		Help:      "Probe results served from cache",
	})

	m.probeCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_probe_cache_misses_total",
		Help:      "Probe lookups that required a network request",
	})

	m.probeQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_probe_queue_size",
		Help:      "Probe jobs waiting for a worker",
	})

	m.probeQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_probe_queue_capacity",
		Help:      "Maximum number of queued probe jobs",
	})

	m.probeWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "image_probe_workers",
		Help:      "Number of probe workers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration by endpoint, method and status",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "HTTP errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average garbage collection pause time",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
}

// RegisterRuntimeCollectors adds the standard Go and process collectors to
// the custom registry. Safe to call more than once.
func RegisterRuntimeCollectors() {
	_ = customRegistry.Register(collectors.NewGoCollector())
	_ = customRegistry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Payload and rendering.

func RecordPayloadDecode(result string) {
	if globalManager.enabled {
		globalManager.payloadDecodes.WithLabelValues(result).Inc()
	}
}

func RecordPageRender(skin, outcome string) {
	if globalManager.enabled {
		globalManager.pageRenders.WithLabelValues(skin, outcome).Inc()
	}
}

func RecordRenderLatency(skin string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.renderLatency.WithLabelValues(skin).Observe(latencyMs)
	}
}

func RecordMissingSlot(slot string) {
	if globalManager.enabled {
		globalManager.missingSlots.WithLabelValues(slot).Inc()
	}
}

// Image probes.

func RecordProbe(kind, result string) {
	if globalManager.enabled {
		globalManager.probeResults.WithLabelValues(kind, result).Inc()
	}
}

func RecordProbeLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.probeLatency.Observe(latencyMs)
	}
}

func RecordProbeCacheHit() {
	if globalManager.enabled {
		globalManager.probeCacheHits.Inc()
	}
}

func RecordProbeCacheMiss() {
	if globalManager.enabled {
		globalManager.probeCacheMisses.Inc()
	}
}

func UpdateProbeQueueSize(size int) {
	if globalManager.enabled {
		globalManager.probeQueueSize.Set(float64(size))
	}
}

func UpdateProbeQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.probeQueueCapacity.Set(float64(capacity))
	}
}

func UpdateProbeWorkers(count int) {
	if globalManager.enabled {
		globalManager.probeWorkers.Set(float64(count))
	}
}

// HTTP.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// System.

func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Total sums every series of the named metric family in the custom registry.
// Counters, gauges and histogram sample counts are supported.
func Total(name string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrGather, err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range fam.GetMetric() {
			switch fam.GetType() {
			case dto.MetricType_COUNTER:
				sum += m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				sum += m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
		return sum, nil
	}
	return 0, nil
}
