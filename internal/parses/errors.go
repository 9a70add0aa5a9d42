package parses

import "errors"

var (
	// ErrNotFound indicates a parse or its source document was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnreadable indicates the source document could not be turned into text.
	ErrUnreadable = errors.New("document unreadable")
)
