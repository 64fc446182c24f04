package cache

import "errors"

// Error definitions for cache package.
var (
	ErrUnexpectedType = errors.New("cached value has an unexpected type")
)
