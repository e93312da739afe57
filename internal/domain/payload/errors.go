package payload

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrQuery            = errors.New("invalid query string")
	ErrBase64           = errors.New("invalid base64")
	ErrJSON             = errors.New("invalid json")
	ErrNotObject        = errors.New("json is not an object")
	ErrEncode           = errors.New("encode payload failed")
)
