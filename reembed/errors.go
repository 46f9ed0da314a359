package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidConfig is returned when a Config field is out of range.
	ErrInvalidConfig = errors.New("invalid reembed config")

	ErrRepositoryRequired = errors.New("candidate repository is required")
	ErrEmbedderRequired   = errors.New("embedder is required")
	ErrIndexRequired      = errors.New("index is required")
)
