package queue

import "context"

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Closer is implemented by clients holding a connection.
type Closer interface {
	Close() error
}
