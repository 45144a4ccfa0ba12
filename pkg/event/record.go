package event

import (
	"fmt"
	"time"
)

// Kind identifies the variant carried by a Record.
type Kind uint8

// Record kinds.
const (
	KindNone Kind = iota
	KindEmergency
	KindSample
	KindReset
)

// Default signal codes.
const (
	EmergencyCode int32 = 911
	ResetCode     int32 = 200
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEmergency:
		return "emergency"
	case KindSample:
		return "sample"
	case KindReset:
		return "reset"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Record is the unit transported through a handoff channel.
type Record struct {
	Kind   Kind
	Source uint8
	Code   int32
	Value1 float32
	Value2 float32
	// Timestamp is monotonic time in microseconds, stamped by the producer.
	Timestamp uint64
}

// Emergency creates a bare signal-code record.
func Emergency(source uint8, code int32, ts uint64) Record {
	return Record{Kind: KindEmergency, Source: source, Code: code, Timestamp: ts}
}

// Sample creates a timestamped sensor reading.
func Sample(source uint8, v1, v2 float32, ts uint64) Record {
	return Record{Kind: KindSample, Source: source, Value1: v1, Value2: v2, Timestamp: ts}
}

// Reset creates an explicit reset acknowledgement.
func Reset(source uint8, ts uint64) Record {
	return Record{Kind: KindReset, Source: source, Code: ResetCode, Timestamp: ts}
}

// String implements fmt.Stringer.
func (r Record) String() string {
	switch r.Kind {
	case KindSample:
		return fmt.Sprintf("sample[src=%d ts=%d] %.2f %.2f", r.Source, r.Timestamp, r.Value1, r.Value2)
	default:
		return fmt.Sprintf("%s[src=%d ts=%d] code=%d", r.Kind, r.Source, r.Timestamp, r.Code)
	}
}

// Clock provides monotonic time in microseconds.
type Clock interface {
	Micros() uint64
}

// ClockFunc is the func form of Clock.
type ClockFunc func() uint64

// Micros implements Clock.
func (f ClockFunc) Micros() uint64 {
	return f()
}

// MonotonicClock counts microseconds since its creation.
type MonotonicClock struct {
	base time.Time
}

// NewMonotonicClock creates a MonotonicClock starting now.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{base: time.Now()}
}

// Micros implements Clock. It never returns 0.
func (c *MonotonicClock) Micros() uint64 {
	return uint64(time.Since(c.base)/time.Microsecond) + 1
}
