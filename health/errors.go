package health

import "errors"

var (
	// ErrCheckFailed indicates a health check reported failure.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a health check timed out.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckNotFound indicates a named check is not registered.
	ErrCheckNotFound = errors.New("health: check not found")

	// ErrCheckPanicked indicates a check procedure panicked during execution.
	ErrCheckPanicked = errors.New("health: check panicked")
)
