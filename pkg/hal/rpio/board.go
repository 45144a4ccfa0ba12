// Package rpio implements the hal output collaborators on a Raspberry Pi
// through memory-mapped GPIO registers.
//
// Inputs are not provided: the register interface only exposes polled
// edge detection, and the safety core requires interrupt-driven edges.
// Pair this backend with hal/periph for inputs.
package rpio

import (
	"sync"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/robotalks/safety.go/pkg/hal"
)

// Default PWM parameters: 25kHz carrier, 10-bit resolution.
const (
	DefaultCycleLen  uint32 = 1024
	DefaultFrequency        = 25000
)

// Board drives outputs via /dev/gpiomem.
type Board struct {
	CycleLen  uint32
	Frequency int

	lock    sync.Mutex
	outputs map[hal.Pin]bool
	pwms    map[hal.Pin]bool
}

// Open maps the GPIO registers.
func Open() (*Board, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}
	return &Board{
		CycleLen:  DefaultCycleLen,
		Frequency: DefaultFrequency,
		outputs:   make(map[hal.Pin]bool),
		pwms:      make(map[hal.Pin]bool),
	}, nil
}

// Close unmaps the registers.
func (b *Board) Close() error {
	return rpio.Close()
}

// Write implements hal.DigitalOutput.
func (b *Board) Write(p hal.Pin, level hal.Level) error {
	pin := rpio.Pin(p)
	b.lock.Lock()
	defer b.lock.Unlock()
	if !b.outputs[p] {
		pin.Output()
		b.outputs[p] = true
	}
	if level {
		pin.High()
	} else {
		pin.Low()
	}
	return nil
}

// SetDuty implements hal.PWMOutput.
func (b *Board) SetDuty(p hal.Pin, duty uint32) error {
	pin := rpio.Pin(p)
	b.lock.Lock()
	defer b.lock.Unlock()
	if !b.pwms[p] {
		pin.Mode(rpio.Pwm)
		pin.Freq(b.Frequency * int(b.CycleLen))
		b.pwms[p] = true
	}
	if duty > b.CycleLen {
		duty = b.CycleLen
	}
	pin.DutyCycle(duty, b.CycleLen)
	return nil
}

// MaxDuty implements hal.PWMOutput.
func (b *Board) MaxDuty() uint32 {
	return b.CycleLen
}
