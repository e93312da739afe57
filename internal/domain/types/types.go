// Package types contains common types used across the application
package types

// ProbeStats describes the image prober.
type ProbeStats struct {
	Enabled   bool `json:"enabled"`
	Running   bool `json:"running"`
	Workers   int  `json:"workers"`
	QueueLen  int  `json:"queue_len"`
	QueueCap  int  `json:"queue_cap"`
	CacheSize int  `json:"cache_size"`
}

// Stats is the service snapshot served on /stats.
type Stats struct {
	Running       bool       `json:"running"`
	Uptime        string     `json:"uptime"`
	DefaultSkin   string     `json:"default_skin"`
	Skins         []string   `json:"skins"`
	PayloadParam  string     `json:"payload_param"`
	PagesRendered int64      `json:"pages_rendered"`
	PagesFailed   int64      `json:"pages_failed"`
	Probe         ProbeStats `json:"probe"`
}
