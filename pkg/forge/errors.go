package forge

import "errors"

// Forge-specific errors
var (
	ErrMissingSHA      = errors.New("upstream payload has no commit SHA")
	ErrUndecodableFile = errors.New("file content cannot be decoded")
)
