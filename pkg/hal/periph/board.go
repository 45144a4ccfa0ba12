// Package periph implements the hal collaborators on Linux boards using
// periph.io.
package periph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/robotalks/safety.go/pkg/hal"
)

// DefaultPWMFrequency is used by SetDuty unless overridden.
const DefaultPWMFrequency = 25 * physic.KiloHertz

// edgeWaitSlice bounds each kernel edge wait so Watch observes
// cancellation; the goroutine sleeps in the kernel in between.
const edgeWaitSlice = 200 * time.Millisecond

// Board drives GPIOs via the periph.io registry (pins named "GPIO<n>").
type Board struct {
	PWMFrequency physic.Frequency
	// ADC maps analog channel numbers to converter pins, e.g. from an
	// ads1x15 device driver.
	ADC map[int]analog.PinADC

	lock sync.Mutex
	pins map[hal.Pin]gpio.PinIO
}

// Open initializes the host drivers.
func Open() (*Board, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	if glog.V(2) {
		for _, drv := range state.Loaded {
			glog.Infof("periph driver loaded: %s", drv)
		}
	}
	return &Board{
		PWMFrequency: DefaultPWMFrequency,
		ADC:          make(map[int]analog.PinADC),
		pins:         make(map[hal.Pin]gpio.PinIO),
	}, nil
}

func (b *Board) pin(p hal.Pin) (gpio.PinIO, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if pin, ok := b.pins[p]; ok {
		return pin, nil
	}
	pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", p))
	if pin == nil {
		return nil, fmt.Errorf("GPIO%d: %w", p, hal.ErrUnknownPin)
	}
	b.pins[p] = pin
	return pin, nil
}

// Configure implements hal.DigitalInput.
func (b *Board) Configure(p hal.Pin, pull hal.Pull, edge hal.Edge) error {
	pin, err := b.pin(p)
	if err != nil {
		return err
	}
	return pin.In(toPull(pull), toEdge(edge))
}

// Read implements hal.DigitalInput.
func (b *Board) Read(p hal.Pin) (hal.Level, error) {
	pin, err := b.pin(p)
	if err != nil {
		return hal.Low, err
	}
	return hal.Level(pin.Read()), nil
}

// Watch implements hal.DigitalInput.
func (b *Board) Watch(ctx context.Context, p hal.Pin, h hal.EdgeHandler) error {
	pin, err := b.pin(p)
	if err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if pin.WaitForEdge(edgeWaitSlice) {
			h.HandleEdge(p, hal.Level(pin.Read()))
		}
	}
}

// Write implements hal.DigitalOutput.
func (b *Board) Write(p hal.Pin, level hal.Level) error {
	pin, err := b.pin(p)
	if err != nil {
		return err
	}
	return pin.Out(gpio.Level(level))
}

// SetDuty implements hal.PWMOutput.
func (b *Board) SetDuty(p hal.Pin, duty uint32) error {
	pin, err := b.pin(p)
	if err != nil {
		return err
	}
	if duty > b.MaxDuty() {
		duty = b.MaxDuty()
	}
	freq := b.PWMFrequency
	if freq == 0 {
		freq = DefaultPWMFrequency
	}
	return pin.PWM(gpio.Duty(duty), freq)
}

// MaxDuty implements hal.PWMOutput.
func (b *Board) MaxDuty() uint32 {
	return uint32(gpio.DutyMax)
}

// ReadRaw implements hal.AnalogInput.
func (b *Board) ReadRaw(channel int) (int, error) {
	b.lock.Lock()
	adc := b.ADC[channel]
	b.lock.Unlock()
	if adc == nil {
		return 0, hal.ErrUnknownChannel
	}
	s, err := adc.Read()
	if err != nil {
		return 0, err
	}
	return int(s.Raw), nil
}

func toPull(p hal.Pull) gpio.Pull {
	switch p {
	case hal.PullUp:
		return gpio.PullUp
	case hal.PullDown:
		return gpio.PullDown
	}
	return gpio.Float
}

func toEdge(e hal.Edge) gpio.Edge {
	switch e {
	case hal.RisingEdge:
		return gpio.RisingEdge
	case hal.FallingEdge:
		return gpio.FallingEdge
	case hal.BothEdges:
		return gpio.BothEdges
	}
	return gpio.NoEdge
}
