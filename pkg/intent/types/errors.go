package types

import "errors"

var (
	// ErrConfigInvalid is returned when a catalog or hierarchy document is missing or malformed
	ErrConfigInvalid = errors.New("invalid configuration document")

	// ErrIntentNotFound is returned when an operation references an unknown intent
	ErrIntentNotFound = errors.New("intent not found")

	// ErrEmptyExample is returned when an example utterance is empty or whitespace
	ErrEmptyExample = errors.New("example text is empty")

	// ErrEmbeddingUnavailable is returned when the embedding provider fails after retries
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrUnknownResolution is returned when a disambiguation rule declares an unsupported strategy
	ErrUnknownResolution = errors.New("unknown resolution strategy")

	// ErrInvalidCondition is returned when a disambiguation rule condition cannot be parsed
	ErrInvalidCondition = errors.New("invalid rule condition")
)
