// Package sim provides an in-memory board implementing the hal
// collaborators, for tests and for running the daemon without hardware.
package sim

import (
	"context"
	"sync"

	"github.com/robotalks/safety.go/pkg/hal"
)

const edgeBacklog = 16

type inputPin struct {
	level hal.Level
	pull  hal.Pull
	edge  hal.Edge
	edges chan hal.Level
}

// Board simulates GPIO, PWM and analog channels.
type Board struct {
	// MaxDutyValue is returned by MaxDuty, 10-bit by default.
	MaxDutyValue uint32

	lock    sync.Mutex
	inputs  map[hal.Pin]*inputPin
	outputs map[hal.Pin]hal.Level
	duties  map[hal.Pin]uint32
	analogs map[int]AnalogSource
	writes  int
}

// AnalogSource produces raw analog readings.
type AnalogSource interface {
	ReadRaw() (int, error)
}

// AnalogFunc is func form of AnalogSource.
type AnalogFunc func() (int, error)

// ReadRaw implements AnalogSource.
func (f AnalogFunc) ReadRaw() (int, error) {
	return f()
}

// NewBoard creates an empty Board.
func NewBoard() *Board {
	return &Board{
		MaxDutyValue: 1023,
		inputs:       make(map[hal.Pin]*inputPin),
		outputs:      make(map[hal.Pin]hal.Level),
		duties:       make(map[hal.Pin]uint32),
		analogs:      make(map[int]AnalogSource),
	}
}

// Configure implements hal.DigitalInput.
func (b *Board) Configure(pin hal.Pin, pull hal.Pull, edge hal.Edge) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	in := b.inputs[pin]
	if in == nil {
		in = &inputPin{edges: make(chan hal.Level, edgeBacklog)}
		b.inputs[pin] = in
	}
	in.pull, in.edge = pull, edge
	// idle level follows the bias like a floating button would.
	in.level = pull == hal.PullUp
	return nil
}

// Read implements hal.DigitalInput.
func (b *Board) Read(pin hal.Pin) (hal.Level, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if in := b.inputs[pin]; in != nil {
		return in.level, nil
	}
	if level, ok := b.outputs[pin]; ok {
		return level, nil
	}
	return hal.Low, hal.ErrNotConfigured
}

// Watch implements hal.DigitalInput.
func (b *Board) Watch(ctx context.Context, pin hal.Pin, h hal.EdgeHandler) error {
	b.lock.Lock()
	in := b.inputs[pin]
	b.lock.Unlock()
	if in == nil {
		return hal.ErrNotConfigured
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case level := <-in.edges:
			h.HandleEdge(pin, level)
		}
	}
}

// SetInput drives an input pin as external hardware would, raising an
// edge when the transition matches the configured trigger. Edges beyond
// the backlog are lost, like an interrupt arriving while one is pending.
func (b *Board) SetInput(pin hal.Pin, level hal.Level) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	in := b.inputs[pin]
	if in == nil {
		return hal.ErrNotConfigured
	}
	from := in.level
	in.level = level
	if in.edge.Matches(from, level) {
		select {
		case in.edges <- level:
		default:
		}
	}
	return nil
}

// Press pulses an input away from its idle level and back, which raises
// one falling (pull-up) or rising (pull-down) edge.
func (b *Board) Press(pin hal.Pin) error {
	b.lock.Lock()
	in := b.inputs[pin]
	b.lock.Unlock()
	if in == nil {
		return hal.ErrNotConfigured
	}
	idle := hal.Level(in.pull == hal.PullUp)
	if err := b.SetInput(pin, !idle); err != nil {
		return err
	}
	return b.SetInput(pin, idle)
}

// Write implements hal.DigitalOutput.
func (b *Board) Write(pin hal.Pin, level hal.Level) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.outputs[pin] = level
	b.writes++
	return nil
}

// Output returns the last level written to pin.
func (b *Board) Output(pin hal.Pin) hal.Level {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.outputs[pin]
}

// Writes returns the number of digital writes performed.
func (b *Board) Writes() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.writes
}

// SetDuty implements hal.PWMOutput.
func (b *Board) SetDuty(pin hal.Pin, duty uint32) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if duty > b.MaxDutyValue {
		duty = b.MaxDutyValue
	}
	b.duties[pin] = duty
	return nil
}

// MaxDuty implements hal.PWMOutput.
func (b *Board) MaxDuty() uint32 {
	return b.MaxDutyValue
}

// Duty returns the last duty set on pin.
func (b *Board) Duty(pin hal.Pin) uint32 {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.duties[pin]
}

// AttachAnalog installs the source of an analog channel.
func (b *Board) AttachAnalog(channel int, src AnalogSource) {
	b.lock.Lock()
	b.analogs[channel] = src
	b.lock.Unlock()
}

// ReadRaw implements hal.AnalogInput.
func (b *Board) ReadRaw(channel int) (int, error) {
	b.lock.Lock()
	src := b.analogs[channel]
	b.lock.Unlock()
	if src == nil {
		return 0, hal.ErrUnknownChannel
	}
	return src.ReadRaw()
}
