package profile

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotObject = errors.New("payload is not a JSON object")
)
