package config

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/physic"

	"github.com/robotalks/safety.go/pkg/core"
	"github.com/robotalks/safety.go/pkg/hal/periph"
	"github.com/robotalks/safety.go/pkg/hal/rpio"
	"github.com/robotalks/safety.go/pkg/hal/sim"
)

// Devices are the opened boards.
type Devices struct {
	core.Devices
	// Sim is set when the sim board is in use, for injecting inputs.
	Sim *sim.Board

	closers []func() error
}

// Close releases the boards.
func (d *Devices) Close() error {
	var err error
	for _, c := range d.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// OpenDevices opens the input board and the output driver.
func (c *Config) OpenDevices() (*Devices, error) {
	d := &Devices{}
	var pb *periph.Board
	openPeriph := func() (*periph.Board, error) {
		if pb != nil {
			return pb, nil
		}
		b, err := periph.Open()
		if err != nil {
			return nil, err
		}
		b.PWMFrequency = physic.Frequency(c.PWMFrequency) * physic.Hertz
		pb = b
		return b, nil
	}
	openSim := func() *sim.Board {
		if d.Sim == nil {
			d.Sim = sim.NewBoard()
		}
		return d.Sim
	}

	switch c.Board {
	case BoardSim:
		b := openSim()
		d.Input, d.Analog = b, b
		d.Climate = sim.NewClimate(time.Now().UnixNano())
	case BoardPeriph:
		b, err := openPeriph()
		if err != nil {
			return nil, err
		}
		d.Input, d.Analog = b, b
	default:
		return nil, fmt.Errorf("unknown board %q", c.Board)
	}

	switch out := c.OutputBoard(); out {
	case BoardSim:
		b := openSim()
		d.Output, d.PWM = b, b
	case BoardPeriph:
		b, err := openPeriph()
		if err != nil {
			return nil, err
		}
		d.Output, d.PWM = b, b
	case BoardRPIO:
		b, err := rpio.Open()
		if err != nil {
			return nil, fmt.Errorf("rpio: %w", err)
		}
		b.Frequency = c.PWMFrequency
		d.Output, d.PWM = b, b
		d.closers = append(d.closers, b.Close)
	default:
		return nil, fmt.Errorf("unknown output driver %q", out)
	}
	glog.Infof("board %s, outputs %s", c.Board, c.OutputBoard())
	return d, nil
}

// NewCore opens the devices and creates the core.
func (c *Config) NewCore() (*core.Core, *Devices, error) {
	d, err := c.OpenDevices()
	if err != nil {
		return nil, nil, err
	}
	cr, err := c.Core.NewCore(d.Devices)
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	return cr, d, nil
}
