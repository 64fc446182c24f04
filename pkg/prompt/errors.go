// Package prompt provides interactive prompt functionality for verba.
package prompt

import "errors"

// Error definitions for prompt package.
var (
	ErrInvalidConfirmationInput = errors.New("invalid input: please enter 'y' or 'n'")
	ErrEmptyInput               = errors.New("input cannot be empty")
	ErrNoChoices                = errors.New("no choices available")
	ErrNoSelection              = errors.New("no selection made")
)
