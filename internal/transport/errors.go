package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEndpoint is returned when no websocket endpoint is configured.
	// This is a local configuration failure, never retried.
	ErrNoEndpoint = errors.New("no websocket endpoint configured")

	// ErrConnectionClosed is returned when an operation needs the
	// connection and it is gone, and is used to fail requests that were
	// outstanding when the connection dropped.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrChatInFlight is returned when a chat turn is started while a
	// previous one has not yet reached its terminal event. The wire
	// protocol has no chat request id, so only one turn can be correlated
	// at a time.
	ErrChatInFlight = errors.New("a chat request is already in flight")

	// ErrListInFlight is returned when a list operation is requested while
	// the same operation is already outstanding. The operation name is the
	// correlation key, so duplicates are not distinguishable.
	ErrListInFlight = errors.New("list operation already in flight")

	// ErrListTimeout is returned when no matching listResponse arrives
	// within the configured deadline.
	ErrListTimeout = errors.New("list operation timed out")

	// ErrEmptyMessage is returned when a chat message is empty after
	// trimming.
	ErrEmptyMessage = errors.New("empty chat message")

	// ErrMissingCallback is returned when a chat handler lacks one of the
	// mandatory callbacks.
	ErrMissingCallback = errors.New("chat handler missing required callback")
)

// ListError reports that the endpoint rejected a list operation or returned
// a payload that could not be decoded.
type ListError struct {
	Operation string
	Message   string
}

func (e *ListError) Error() string {
	return fmt.Sprintf("list %s failed: %s", e.Operation, e.Message)
}
