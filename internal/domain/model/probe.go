// Package model contains domain models passed between layers.
package model

import "time"

// Image kinds that may be probed.
const (
	KindPhoto  = "photo"
	KindBanner = "banner"
)

// ProbeJob asks a worker to check that an image URL is reachable.
type ProbeJob struct {
	ID       string    // correlation id for logs
	Kind     string    // KindPhoto or KindBanner
	URL      string    // absolute http(s) URL
	Enqueued time.Time // when the job entered the queue
	// Reply receives exactly one result. It must be buffered so a worker
	// never blocks on a caller that gave up.
	Reply chan ProbeResult
}

// NewProbeJob returns a job with a buffered reply channel.
func NewProbeJob(id, kind, url string) ProbeJob {
	return ProbeJob{
		ID:       id,
		Kind:     kind,
		URL:      url,
		Enqueued: time.Now(),
		Reply:    make(chan ProbeResult, 1),
	}
}

// ProbeResult is the outcome of one image check.
type ProbeResult struct {
	URL         string
	OK          bool
	Status      int           // HTTP status, 0 when no response arrived
	ContentType string        // response content type
	Latency     time.Duration // time spent fetching
	Err         error         // transport or validation error when !OK
}
