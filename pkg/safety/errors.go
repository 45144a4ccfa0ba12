package safety

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStopped indicates a reset was requested while running.
	ErrNotStopped = errors.New("not emergency stopped")
	// ErrResetTooSoon indicates the emergency input has not been quiet
	// for long enough, or tripped again while resetting.
	ErrResetTooSoon = errors.New("emergency input not quiescent")
	// ErrInputAsserted indicates the emergency input is still held active.
	ErrInputAsserted = errors.New("emergency input still asserted")
)

// ViolationError reports an emergency observed while already stopped.
type ViolationError struct {
	Code       int32
	Violations uint64
}

// Error implements error.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("emergency %d while already stopped (%d violations)", e.Code, e.Violations)
}
