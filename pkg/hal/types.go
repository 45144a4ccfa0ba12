// Package hal defines the hardware collaborators used by the safety core.
package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Pin identifies a GPIO by its SoC number.
type Pin int

// Level is a digital level.
type Level bool

// Levels
const (
	Low  Level = false
	High Level = true
)

// String implements fmt.Stringer.
func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Pull selects the input bias resistor.
type Pull int

// Pulls
const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// String implements fmt.Stringer.
func (p Pull) String() string {
	switch p {
	case PullNone:
		return "none"
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	}
	return fmt.Sprintf("pull(%d)", int(p))
}

// ParsePull parses the String form of a Pull.
func ParsePull(s string) (Pull, error) {
	switch s {
	case "", "none":
		return PullNone, nil
	case "up":
		return PullUp, nil
	case "down":
		return PullDown, nil
	}
	return PullNone, fmt.Errorf("unknown pull %q", s)
}

// Edge selects which transitions invoke an EdgeHandler.
type Edge int

// Edges
const (
	NoEdge Edge = iota
	RisingEdge
	FallingEdge
	BothEdges
)

// Matches indicates the transition from -> to is selected by e.
func (e Edge) Matches(from, to Level) bool {
	if from == to {
		return false
	}
	switch e {
	case RisingEdge:
		return to == High
	case FallingEdge:
		return to == Low
	case BothEdges:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (e Edge) String() string {
	switch e {
	case NoEdge:
		return "none"
	case RisingEdge:
		return "rising"
	case FallingEdge:
		return "falling"
	case BothEdges:
		return "both"
	}
	return fmt.Sprintf("edge(%d)", int(e))
}

// ParseEdge parses the String form of an Edge.
func ParseEdge(s string) (Edge, error) {
	switch s {
	case "", "none":
		return NoEdge, nil
	case "rising":
		return RisingEdge, nil
	case "falling":
		return FallingEdge, nil
	case "both":
		return BothEdges, nil
	}
	return NoEdge, fmt.Errorf("unknown edge %q", s)
}

var (
	// ErrUnknownPin indicates the pin does not exist on the board.
	ErrUnknownPin = errors.New("unknown pin")
	// ErrNotConfigured indicates the pin was not configured for the operation.
	ErrNotConfigured = errors.New("pin not configured")
	// ErrUnknownChannel indicates the analog channel does not exist.
	ErrUnknownChannel = errors.New("unknown analog channel")
)

// EdgeHandler is invoked from the goroutine servicing an edge. It must
// return quickly and never block.
type EdgeHandler interface {
	HandleEdge(pin Pin, level Level)
}

// HandleEdgeFunc is func form of EdgeHandler.
type HandleEdgeFunc func(Pin, Level)

// HandleEdge implements EdgeHandler.
func (f HandleEdgeFunc) HandleEdge(pin Pin, level Level) {
	f(pin, level)
}

// TickHandler is invoked once per timer period. Like EdgeHandler it must
// not block.
type TickHandler interface {
	HandleTick(now time.Time)
}

// HandleTickFunc is func form of TickHandler.
type HandleTickFunc func(time.Time)

// HandleTick implements TickHandler.
func (f HandleTickFunc) HandleTick(now time.Time) {
	f(now)
}

// DigitalInput reads and watches input pins.
type DigitalInput interface {
	// Configure sets a pin as input with the given bias and edge trigger.
	Configure(pin Pin, pull Pull, edge Edge) error
	// Read returns the current level.
	Read(pin Pin) (Level, error)
	// Watch blocks, invoking h once per configured edge, until ctx is done.
	Watch(ctx context.Context, pin Pin, h EdgeHandler) error
}

// DigitalOutput drives output pins.
type DigitalOutput interface {
	Write(pin Pin, level Level) error
}

// AnalogInput samples analog channels.
type AnalogInput interface {
	ReadRaw(channel int) (int, error)
}

// PWMOutput drives duty cycles.
type PWMOutput interface {
	// SetDuty sets duty in [0, MaxDuty()].
	SetDuty(pin Pin, duty uint32) error
	MaxDuty() uint32
}
