package rewrites

import "errors"

var (
	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates the LLM provider could not produce a rewrite.
	ErrUnavailable = errors.New("rewrite unavailable")
)
