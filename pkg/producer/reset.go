package producer

import (
	"sync/atomic"

	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/hal"
)

// ResetButton queues explicit reset acknowledgements.
type ResetButton struct {
	Queue  Queue
	Clock  event.Clock
	Source uint8

	rejected atomic.Uint64
}

// Request queues one reset record.
func (p *ResetButton) Request() bool {
	if p.Queue.TryPush(event.Reset(p.Source, p.Clock.Micros())).IsAccepted() {
		return true
	}
	p.rejected.Add(1)
	return false
}

// HandleEdge implements hal.EdgeHandler.
func (p *ResetButton) HandleEdge(hal.Pin, hal.Level) {
	p.Request()
}

// Rejected returns the number of records the queue refused.
func (p *ResetButton) Rejected() uint64 {
	return p.rejected.Load()
}
