package ai

import "errors"

var (
	// ErrEmptyEmbedding is returned when a provider answers with no vector.
	ErrEmptyEmbedding = errors.New("embedding provider returned no vector")

	// ErrUnexpectedDimension is returned when a provider's vectors do not
	// have the configured dimension.
	ErrUnexpectedDimension = errors.New("embedding has unexpected dimension")
)
