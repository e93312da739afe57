package probe

import "errors"

// Sentinel error kinds for this package.
var (
	ErrRequest        = errors.New("image request failed")
	ErrStatus         = errors.New("image responded with non-2xx status")
	ErrContentType    = errors.New("response is not an image")
	ErrCache          = errors.New("probe cache init failed")
	ErrTarget         = errors.New("image url is not an absolute http(s) url")
	ErrBlockedAddress = errors.New("image url targets a local or private address")
)
