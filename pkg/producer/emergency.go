package producer

import (
	"sync/atomic"

	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/hal"
)

// EmergencyTrigger handles the emergency input edge.
type EmergencyTrigger struct {
	Flag   Tripper
	Queue  Queue
	Clock  event.Clock
	Source uint8
	Code   int32
	// Waker is optional.
	Waker Waker

	triggers atomic.Uint64
	rejected atomic.Uint64
}

// NewEmergencyTrigger creates an EmergencyTrigger with the default code.
func NewEmergencyTrigger(flag Tripper, q Queue, clock event.Clock) *EmergencyTrigger {
	return &EmergencyTrigger{Flag: flag, Queue: q, Clock: clock, Code: event.EmergencyCode}
}

// Trigger raises an emergency with the configured code.
func (p *EmergencyTrigger) Trigger() {
	p.TriggerCode(p.Code)
}

// TriggerCode trips the flag first, so the actuator path is gated even
// when the queue is saturated, then queues the record for the consumer.
// A rejected push is counted and otherwise ignored.
func (p *EmergencyTrigger) TriggerCode(code int32) {
	now := p.Clock.Micros()
	p.Flag.Trip(now)
	p.triggers.Add(1)
	if w := p.Waker; w != nil {
		w.TriggerNext()
	}
	if !p.Queue.TryPush(event.Emergency(p.Source, code, now)).IsAccepted() {
		p.rejected.Add(1)
	}
}

// HandleEdge implements hal.EdgeHandler.
func (p *EmergencyTrigger) HandleEdge(hal.Pin, hal.Level) {
	p.Trigger()
}

// Triggers returns the number of emergency edges seen.
func (p *EmergencyTrigger) Triggers() uint64 {
	return p.triggers.Load()
}

// Rejected returns the number of records the queue refused.
func (p *EmergencyTrigger) Rejected() uint64 {
	return p.rejected.Load()
}
