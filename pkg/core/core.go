// Package core wires a handoff channel, a safety latch, the producers
// feeding it and the actuators it gates.
package core

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/safety.go/pkg/actuator"
	"github.com/robotalks/safety.go/pkg/consumer"
	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/framework"
	"github.com/robotalks/safety.go/pkg/hal"
	"github.com/robotalks/safety.go/pkg/handoff"
	"github.com/robotalks/safety.go/pkg/monitor"
	"github.com/robotalks/safety.go/pkg/producer"
	"github.com/robotalks/safety.go/pkg/safety"
)

// Devices are the collaborators a Core is built on. Output, PWM, Analog
// and Climate are optional; components needing a missing one are skipped.
type Devices struct {
	Input   hal.DigitalInput
	Output  hal.DigitalOutput
	PWM     hal.PWMOutput
	Analog  hal.AnalogInput
	Climate producer.SensorReader
}

// Core is one independent channel, latch and consumer.
type Core struct {
	Config Config
	Clock  event.Clock
	Queue  *handoff.Channel[event.Record]
	Latch  *safety.Latch
	Task   *consumer.Task

	Emergency *producer.EmergencyTrigger
	Reset     *producer.ResetButton
	Samplers  []*producer.Sampler
	Timers    []*hal.Timer
	Watchers  []*producer.EdgeWatcher

	Motor   *actuator.Motor
	Fan     *actuator.Fan
	Battery *monitor.Battery
}

// Status is a snapshot of a Core.
type Status struct {
	Name string
	consumer.Status
	Queue               handoff.Stats
	Task                consumer.Stats
	Samples             producer.SamplerStats
	Triggers            uint64
	RejectedEmergencies uint64
	RejectedResets      uint64
	Battery             monitor.BatteryReading
}

// NewCore creates a Core. Failing to create the channel or to configure
// a pin fails the whole core.
func (c Config) NewCore(dev Devices) (*Core, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if dev.Input == nil {
		return nil, fmt.Errorf("core %s: no digital input", c.Name)
	}
	q, err := handoff.New[event.Record](c.Capacity)
	if err != nil {
		return nil, fmt.Errorf("core %s: %w", c.Name, err)
	}
	latch := safety.NewLatch()
	latch.QuiescentPeriod = c.QuiescentPeriod
	clock := event.NewMonotonicClock()

	core := &Core{
		Config: c,
		Clock:  clock,
		Queue:  q,
		Latch:  latch,
		Task:   &consumer.Task{Queue: q, Latch: latch},
	}

	core.Emergency = producer.NewEmergencyTrigger(&latch.Flag, q, clock)
	core.Emergency.Source = uint8(c.EmergencyPin)
	core.Emergency.Code = c.EmergencyCode
	emergencyInput := &producer.EdgeWatcher{
		Input:   dev.Input,
		Pin:     c.EmergencyPin,
		Pull:    c.EmergencyPull,
		Edge:    c.EmergencyEdge,
		Handler: core.Emergency,
	}
	latch.Interlock = emergencyInput
	core.Watchers = append(core.Watchers, emergencyInput)
	core.Reset = &producer.ResetButton{Queue: q, Clock: clock, Source: uint8(c.ResetPin)}
	if c.ResetPin != NoPin {
		core.Watchers = append(core.Watchers, &producer.EdgeWatcher{
			Input:   dev.Input,
			Pin:     c.ResetPin,
			Pull:    hal.PullUp,
			Edge:    hal.FallingEdge,
			Handler: core.Reset,
		})
	}
	for _, w := range core.Watchers {
		if err := w.Configure(); err != nil {
			return nil, fmt.Errorf("core %s: %w", c.Name, err)
		}
	}

	var actuators actuator.Group
	if c.MotorPin != NoPin && dev.Output != nil {
		core.Motor = &actuator.Motor{Output: dev.Output, Pin: c.MotorPin, Gate: latch, Cycle: c.MotorCycle}
		actuators = append(actuators, core.Motor)
	}
	if c.FanPin != NoPin && dev.PWM != nil {
		core.Fan = actuator.NewFan(dev.PWM, c.FanPin, latch)
		actuators = append(actuators, core.Fan)
		core.Task.Samples = append(core.Task.Samples, consumer.FromSource(c.ClimateSource, core.Fan))
	}
	if len(actuators) > 0 {
		core.Task.Actuator = actuators
		if err := actuators.Off(); err != nil {
			return nil, fmt.Errorf("core %s: %w", c.Name, err)
		}
	}

	if dev.Climate != nil {
		core.addSampler("climate", c.ClimateSource, dev.Climate)
	}
	if c.BatteryChannel >= 0 && dev.Analog != nil {
		core.Battery = monitor.NewBattery()
		core.addSampler("battery", uint8(c.BatteryChannel), &producer.AnalogSensor{Input: dev.Analog, Channel: c.BatteryChannel})
		core.Task.Samples = append(core.Task.Samples, consumer.FromSource(uint8(c.BatteryChannel), core.Battery))
	}
	return core, nil
}

func (c *Core) addSampler(name string, source uint8, reader producer.SensorReader) {
	s := &producer.Sampler{Reader: reader, Queue: c.Queue, Clock: c.Clock, Source: source}
	c.Samplers = append(c.Samplers, s)
	c.Timers = append(c.Timers, hal.NewTimer(c.Config.Name+"-"+name, s))
}

// AddSampleHandler forwards samples to h.
func (c *Core) AddSampleHandler(h consumer.SampleHandler) {
	c.Task.Samples = append(c.Task.Samples, h)
}

// AddStateListener notifies l on latch transitions.
func (c *Core) AddStateListener(l consumer.StateListener) {
	c.Task.Listeners = append(c.Task.Listeners, l)
}

// Name implements framework.Named.
func (c *Core) Name() string {
	return c.Config.Name
}

// AddToLoop implements framework.LoopAdder.
func (c *Core) AddToLoop(l *framework.Loop) {
	c.Emergency.Waker = l
	l.AddRunnable(c.Task)
	for _, w := range c.Watchers {
		l.AddRunnable(w)
	}
	if len(c.Timers) > 0 {
		l.AddRunnable(framework.RunFunc(c.runTimers))
	}
	if c.Motor != nil {
		l.Add(c.Motor)
	}
	if c.Fan != nil {
		l.Add(c.Fan)
	}
}

func (c *Core) runTimers(ctx context.Context) error {
	for _, t := range c.Timers {
		if err := t.StartPeriodic(c.Config.SamplePeriod); err != nil {
			c.stopTimers()
			return fmt.Errorf("timer %s: %w", t.Name, err)
		}
		glog.V(1).Infof("timer %s every %v", t.Name, c.Config.SamplePeriod)
	}
	<-ctx.Done()
	c.stopTimers()
	return ctx.Err()
}

func (c *Core) stopTimers() {
	for _, t := range c.Timers {
		t.Stop()
	}
}

// Status returns a snapshot of the core.
func (c *Core) Status() Status {
	s := Status{
		Name:                c.Config.Name,
		Status:              c.Task.Status(),
		Queue:               c.Queue.Stats(),
		Task:                c.Task.Stats(),
		Triggers:            c.Emergency.Triggers(),
		RejectedEmergencies: c.Emergency.Rejected(),
		RejectedResets:      c.Reset.Rejected(),
	}
	for _, sampler := range c.Samplers {
		st := sampler.Stats()
		s.Samples.Samples += st.Samples
		s.Samples.QueueFull += st.QueueFull
		s.Samples.ReadFailures += st.ReadFailures
	}
	if c.Battery != nil {
		s.Battery = c.Battery.Last()
	}
	return s
}

// Close closes the channel; records already accepted are still consumed.
func (c *Core) Close() error {
	return c.Queue.Close()
}
