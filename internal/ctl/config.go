package ctl

import (
	"io"
	"time"
)

// Config holds the settings shared by every vitrinectl command.
type Config struct {
	BaseURL string        // Base URL of the service
	Skin    string        // Skin for links and slot lookups
	Param   string        // Query parameter carrying the payload
	Format  string        // Profile input format: json, yaml or empty to detect
	Timeout time.Duration // HTTP request timeout
	Workers int           // Concurrent page checks
	Verbose bool          // Enable debug logging

	Out io.Writer
	Err io.Writer
}

// Report is the outcome of checking one rendered page.
type Report struct {
	URL       string      `json:"url"`
	Status    int         `json:"status"`
	RequestID string      `json:"request_id"`
	Skin      string      `json:"skin"`
	Language  string      `json:"language,omitempty"`
	Slots     []SlotValue `json:"slots"`
	Missing   []string    `json:"missing,omitempty"`
	Duration  string      `json:"duration"`
	Err       string      `json:"error,omitempty"`
}

// SlotValue is the observed state of one template slot.
type SlotValue struct {
	Name     string `json:"name"`
	Text     string `json:"text,omitempty"`
	Hidden   bool   `json:"hidden"`
	Children int    `json:"children,omitempty"`
}

// EncodeResult is the output of the encode command.
type EncodeResult struct {
	Payload string `json:"payload"`
	URL     string `json:"url,omitempty"`
}
