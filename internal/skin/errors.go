package skin

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownSkin = errors.New("unknown skin")
	ErrTemplate    = errors.New("skin template unavailable")
)
