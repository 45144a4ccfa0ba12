package producer

import (
	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/handoff"
)

// Queue is the push side of a handoff channel.
type Queue interface {
	TryPush(event.Record) handoff.PushResult
}

// Waker wakes the actuator control loop.
type Waker interface {
	TriggerNext()
}

// Tripper trips the fast-path emergency flag.
type Tripper interface {
	Trip(now uint64)
}
