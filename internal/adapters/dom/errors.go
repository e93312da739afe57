package dom

import "errors"

// Sentinel error kinds for this package.
var (
	ErrParse  = errors.New("template parse failed")
	ErrRender = errors.New("document render failed")
)
