package ctl

import "time"

// Input formats accepted by encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Client defaults.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultTimeout = 10 * time.Second
	DefaultWorkers = 4
)

// maxPageBytes bounds the page bodies read by check.
const maxPageBytes = 4 << 20

// maxSlotText truncates long slot values in table output.
const maxSlotText = 60
