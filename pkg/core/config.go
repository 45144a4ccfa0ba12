package core

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/robotalks/safety.go/pkg/actuator"
	"github.com/robotalks/safety.go/pkg/hal"
	"github.com/robotalks/safety.go/pkg/safety"
)

// NoPin disables an optional pin or channel.
const NoPin hal.Pin = -1

// Defaults.
const (
	DefaultCapacity      = 10
	DefaultSamplePeriod  = 2 * time.Second
	DefaultEmergencyPin  = hal.Pin(17)
	DefaultMotorPin      = hal.Pin(2)
	DefaultClimateSource = 4
)

// Config defines one safety core.
type Config struct {
	Name     string
	Capacity int

	EmergencyPin  hal.Pin
	EmergencyPull hal.Pull
	EmergencyEdge hal.Edge
	EmergencyCode int32

	// ResetPin is an optional local reset button, pulled up and active low.
	ResetPin hal.Pin

	MotorPin   hal.Pin
	MotorCycle actuator.Cycle
	FanPin     hal.Pin

	ClimateSource  uint8
	BatteryChannel int
	SamplePeriod   time.Duration

	QuiescentPeriod time.Duration
}

// DefaultConfig returns the configuration of a single emergency input
// driving a cycling motor.
func DefaultConfig() Config {
	return Config{
		Name:            "main",
		Capacity:        DefaultCapacity,
		EmergencyPin:    DefaultEmergencyPin,
		EmergencyPull:   hal.PullDown,
		EmergencyEdge:   hal.RisingEdge,
		EmergencyCode:   911,
		ResetPin:        NoPin,
		MotorPin:        DefaultMotorPin,
		MotorCycle:      actuator.Cycle{Run: time.Second, Rest: time.Second},
		FanPin:          NoPin,
		ClimateSource:   DefaultClimateSource,
		BatteryChannel:  -1,
		SamplePeriod:    DefaultSamplePeriod,
		QuiescentPeriod: safety.DefaultQuiescentPeriod,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("missing core name")
	}
	if c.EmergencyPin < 0 {
		return fmt.Errorf("core %s: emergency pin required", c.Name)
	}
	if c.EmergencyEdge == hal.NoEdge {
		return fmt.Errorf("core %s: emergency edge required", c.Name)
	}
	if c.SamplePeriod <= 0 {
		return fmt.Errorf("core %s: invalid sample period %v", c.Name, c.SamplePeriod)
	}
	if c.QuiescentPeriod < 0 {
		return fmt.Errorf("core %s: invalid quiescent period %v", c.Name, c.QuiescentPeriod)
	}
	if c.BatteryChannel > math.MaxUint8 {
		return fmt.Errorf("core %s: battery channel %d out of range", c.Name, c.BatteryChannel)
	}
	if c.BatteryChannel == int(c.ClimateSource) {
		return fmt.Errorf("core %s: sample source %d used by climate and battery", c.Name, c.BatteryChannel)
	}
	pins := map[hal.Pin]string{c.EmergencyPin: "emergency"}
	for name, pin := range map[string]hal.Pin{"reset": c.ResetPin, "motor": c.MotorPin, "fan": c.FanPin} {
		if pin == NoPin {
			continue
		}
		if other, ok := pins[pin]; ok {
			return fmt.Errorf("core %s: GPIO%d used by %s and %s", c.Name, pin, other, name)
		}
		pins[pin] = name
	}
	return nil
}
