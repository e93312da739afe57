package ctl

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInput     = errors.New("invalid profile input")
	ErrFormat    = errors.New("unknown input format")
	ErrCheck     = errors.New("page check failed")
	ErrNoPayload = errors.New("no payload found")
)
