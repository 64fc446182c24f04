package cli

import "errors"

// Error definitions for cli package.
var (
	// Configuration loading errors.
	ErrFailedToLoadConfig = errors.New("failed to load configuration")
	// Authentication errors.
	ErrTokenMissing = errors.New("GitHub token not found")
)
