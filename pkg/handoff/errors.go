package handoff

import "errors"

var (
	// ErrInvalidCapacity indicates a channel was created with capacity <= 0.
	ErrInvalidCapacity = errors.New("capacity must be positive")
	// ErrTimedOut indicates Pop gave up waiting before an item arrived.
	ErrTimedOut = errors.New("timed out")
	// ErrClosed indicates the channel is closed and drained.
	ErrClosed = errors.New("channel closed")
)
