// Package actuator drives outputs gated by a safety latch.
package actuator

import (
	"github.com/robotalks/safety.go/pkg/framework"
)

// Gate reports whether actuation is permitted.
type Gate interface {
	Permits() bool
}

// GateFunc is func form of Gate.
type GateFunc func() bool

// Permits implements Gate.
func (f GateFunc) Permits() bool {
	return f()
}

// Actuator is an output that can be forced off.
type Actuator interface {
	Off() error
}

// Group forces several actuators off.
type Group []Actuator

// Off implements Actuator. All members are switched off even if some fail.
func (g Group) Off() error {
	errs := &framework.AggregatedError{}
	for _, a := range g {
		errs.Add(a.Off())
	}
	return errs.Aggregate()
}
