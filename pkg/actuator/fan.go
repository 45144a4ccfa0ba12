package actuator

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/framework"
	"github.com/robotalks/safety.go/pkg/hal"
	"github.com/robotalks/safety.go/pkg/monitor"
)

// Fan drives a PWM output from temperature samples.
type Fan struct {
	Output hal.PWMOutput
	Pin    hal.Pin
	Gate   Gate
	Curve  monitor.FanCurve

	lock    sync.Mutex
	target  uint32
	duty    uint32
	written bool
}

// NewFan creates a Fan whose curve spans the full range of out.
func NewFan(out hal.PWMOutput, pin hal.Pin, gate Gate) *Fan {
	return &Fan{
		Output: out,
		Pin:    pin,
		Gate:   gate,
		Curve:  monitor.FanCurve{MaxDuty: out.MaxDuty()},
	}
}

// Name implements framework.Named.
func (f *Fan) Name() string {
	return fmt.Sprintf("fan-GPIO%d", f.Pin)
}

// AddToLoop implements framework.LoopAdder.
func (f *Fan) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvAcuate, f)
}

// HandleSample updates the target duty from rec.Value1 in °C.
func (f *Fan) HandleSample(rec event.Record) {
	duty := f.Curve.Duty(rec.Value1)
	f.lock.Lock()
	f.target = duty
	f.lock.Unlock()
	glog.V(2).Infof("temp %.1f°C -> duty %d/%d (%.1f%%)",
		rec.Value1, duty, f.Curve.MaxDuty, f.Curve.Percent(duty))
}

// Control implements framework.Controller.
func (f *Fan) Control(framework.ControlContext) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	duty := uint32(0)
	if f.Gate.Permits() {
		duty = f.target
	}
	return f.set(duty)
}

// Off sets the duty to zero unconditionally.
func (f *Fan) Off() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.written = false
	return f.set(0)
}

// Duty returns the last duty written.
func (f *Fan) Duty() uint32 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.duty
}

func (f *Fan) set(duty uint32) error {
	if f.written && f.duty == duty {
		return nil
	}
	if err := f.Output.SetDuty(f.Pin, duty); err != nil {
		return fmt.Errorf("fan GPIO%d: %w", f.Pin, err)
	}
	f.duty, f.written = duty, true
	return nil
}
