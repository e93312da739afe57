package binder

import "errors"

// Sentinel error kinds for this package.
var (
	ErrSlotMissing = errors.New("required template slot missing")
)
