package manifest

import "errors"

// Error definitions for manifest package.
var (
	ErrInvalidManifest = errors.New("invalid content manifest")
	ErrUnknownKey      = errors.New("key is not part of the manifest")
)
