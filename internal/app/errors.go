package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrBind   = errors.New("bind failed")
	ErrRender = errors.New("render failed")
)
