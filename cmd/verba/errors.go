package main

import "errors"

// Error definitions for the verba CLI.
var (
	ErrInvalidRevisionID  = errors.New("invalid revision id")
	ErrRepositoryMismatch = errors.New("revision belongs to another repository")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidAssignment  = errors.New("invalid content assignment, expected key=value")
	ErrConfigExists       = errors.New("configuration file already exists")
)
