package producer

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/safety.go/pkg/hal"
)

// EdgeWatcher binds an input pin to an edge handler for the lifetime of a
// Loop.
type EdgeWatcher struct {
	Input   hal.DigitalInput
	Pin     hal.Pin
	Pull    hal.Pull
	Edge    hal.Edge
	Handler hal.EdgeHandler
}

// Name implements framework.Named.
func (w *EdgeWatcher) Name() string {
	return fmt.Sprintf("edge-GPIO%d", w.Pin)
}

// Configure configures the pin. It is called during startup so a bad pin
// fails initialization instead of surfacing later.
func (w *EdgeWatcher) Configure() error {
	if err := w.Input.Configure(w.Pin, w.Pull, w.Edge); err != nil {
		return fmt.Errorf("configure GPIO%d: %w", w.Pin, err)
	}
	return nil
}

// ActiveLevel is the level the pin rests at after a triggering edge.
func (w *EdgeWatcher) ActiveLevel() hal.Level {
	switch w.Edge {
	case hal.RisingEdge:
		return hal.High
	case hal.FallingEdge:
		return hal.Low
	}
	return w.Pull != hal.PullUp
}

// Asserted reads the pin and reports whether it is at ActiveLevel. A
// failed read counts as asserted. It must not be called from an edge
// handler.
func (w *EdgeWatcher) Asserted() bool {
	level, err := w.Input.Read(w.Pin)
	if err != nil {
		glog.Warningf("read GPIO%d: %v", w.Pin, err)
		return true
	}
	return level == w.ActiveLevel()
}

// Run implements framework.Runnable.
func (w *EdgeWatcher) Run(ctx context.Context) error {
	glog.V(1).Infof("watching GPIO%d for %s edges", w.Pin, w.Edge)
	return w.Input.Watch(ctx, w.Pin, w.Handler)
}
