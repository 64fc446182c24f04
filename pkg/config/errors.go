package config

import "errors"

// Error definitions for config package.
var (
	// Configuration file errors.
	ErrConfigFileParse = errors.New("failed to parse config file")
	// Configuration validation errors.
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrDuplicateLabel     = errors.New("workflow labels must be distinct")
	ErrAssigneeNotAllowed = errors.New("assignee pool member is not an allowed assignee")
	// Configuration initialization errors.
	ErrConfigNotInitialized = errors.New("verba configuration not found. Run 'verba init' to initialize")
)
