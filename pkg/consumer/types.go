// Package consumer drains the handoff channel in an ordinary goroutine
// and applies each record to the safety latch.
package consumer

import (
	"context"

	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/safety"
)

// Popper is the pop side of a handoff channel.
type Popper interface {
	Pop(context.Context) (event.Record, error)
}

// Actuator is the output forced off on emergency.
type Actuator interface {
	Off() error
}

// SampleHandler receives sample records.
type SampleHandler interface {
	HandleSample(event.Record)
}

// SampleHandlerFunc is func form of SampleHandler.
type SampleHandlerFunc func(event.Record)

// HandleSample implements SampleHandler.
func (f SampleHandlerFunc) HandleSample(rec event.Record) {
	f(rec)
}

// FromSource only forwards samples from source.
func FromSource(source uint8, h SampleHandler) SampleHandler {
	return SampleHandlerFunc(func(rec event.Record) {
		if rec.Source == source {
			h.HandleSample(rec)
		}
	})
}

// Status describes the latch after a transition.
type Status struct {
	State     safety.State
	Code      int32
	Incident  string
	Timestamp uint64
	Latch     safety.Stats
}

// StateListener is notified after every latch transition the task applies.
type StateListener interface {
	StateChanged(Status)
}

// StateListenerFunc is func form of StateListener.
type StateListenerFunc func(Status)

// StateChanged implements StateListener.
func (f StateListenerFunc) StateChanged(s Status) {
	f(s)
}
