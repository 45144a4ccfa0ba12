package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety.go/pkg/framework"
	"github.com/robotalks/safety.go/pkg/hal"
	"github.com/robotalks/safety.go/pkg/hal/sim"
	"github.com/robotalks/safety.go/pkg/safety"
)

func testConfig() Config {
	c := DefaultConfig()
	c.MotorCycle.Rest = 0
	c.QuiescentPeriod = 20 * time.Millisecond
	c.SamplePeriod = 10 * time.Millisecond
	return c
}

func runLoop(t *testing.T, cores ...*Core) (*framework.Loop, func()) {
	l := framework.NewLoop()
	l.Interval = 5 * time.Millisecond
	for _, c := range cores {
		l.Add(c)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return l, func() {
		cancel()
		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("loop did not stop")
		}
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{name: "default", modify: func(*Config) {}, valid: true},
		{name: "no name", modify: func(c *Config) { c.Name = "" }},
		{name: "no emergency pin", modify: func(c *Config) { c.EmergencyPin = NoPin }},
		{name: "no edge", modify: func(c *Config) { c.EmergencyEdge = hal.NoEdge }},
		{name: "pin conflict", modify: func(c *Config) { c.MotorPin = c.EmergencyPin }},
		{name: "bad period", modify: func(c *Config) { c.SamplePeriod = 0 }},
		{name: "battery channel", modify: func(c *Config) { c.BatteryChannel = 0 }, valid: true},
		{name: "battery shares climate source", modify: func(c *Config) { c.BatteryChannel = int(c.ClimateSource) }},
		{name: "battery channel out of range", modify: func(c *Config) { c.BatteryChannel = 256 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(&c)
			if tc.valid {
				require.NoError(t, c.Validate())
			} else {
				require.Error(t, c.Validate())
			}
		})
	}
}

func TestNewCoreFailures(t *testing.T) {
	c := testConfig()
	c.Capacity = 0
	_, err := c.NewCore(Devices{Input: sim.NewBoard()})
	require.Error(t, err)

	_, err = testConfig().NewCore(Devices{})
	require.Error(t, err)
}

func TestEmergencyStopAndReset(t *testing.T) {
	b := sim.NewBoard()
	c, err := testConfig().NewCore(Devices{Input: b, Output: b})
	require.NoError(t, err)
	_, stop := runLoop(t, c)
	defer stop()

	require.Eventually(t, func() bool { return b.Output(DefaultMotorPin) == hal.High },
		time.Second, time.Millisecond)

	require.NoError(t, b.Press(DefaultEmergencyPin))
	require.Eventually(t, func() bool { return c.Latch.State() == safety.EmergencyStopped },
		time.Second, time.Millisecond)
	require.Equal(t, hal.Low, b.Output(DefaultMotorPin))
	require.NotEmpty(t, c.Task.Incident())

	time.Sleep(c.Config.QuiescentPeriod * 2)
	require.True(t, c.Reset.Request())
	require.Eventually(t, func() bool { return c.Latch.State() == safety.Running },
		time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return b.Output(DefaultMotorPin) == hal.High },
		time.Second, time.Millisecond)

	status := c.Status()
	require.Equal(t, "main", status.Name)
	require.Equal(t, uint64(1), status.Triggers)
	require.Equal(t, uint64(1), status.Latch.Stops)
	require.Equal(t, uint64(1), status.Latch.Resets)
	require.Empty(t, status.Incident)
}

func TestResetRefusedWhileEmergencyHeld(t *testing.T) {
	b := sim.NewBoard()
	c, err := testConfig().NewCore(Devices{Input: b, Output: b})
	require.NoError(t, err)
	_, stop := runLoop(t, c)
	defer stop()

	require.NoError(t, b.SetInput(DefaultEmergencyPin, hal.High))
	require.Eventually(t, func() bool { return c.Latch.State() == safety.EmergencyStopped },
		time.Second, time.Millisecond)

	time.Sleep(c.Config.QuiescentPeriod * 2)
	require.True(t, c.Reset.Request())
	require.Eventually(t, func() bool { return c.Latch.Stats().RejectedResets == 1 },
		time.Second, time.Millisecond)
	require.Equal(t, safety.EmergencyStopped, c.Latch.State())
	require.Equal(t, hal.Low, b.Output(DefaultMotorPin))

	require.NoError(t, b.SetInput(DefaultEmergencyPin, hal.Low))
	time.Sleep(c.Config.QuiescentPeriod * 2)
	require.True(t, c.Reset.Request())
	require.Eventually(t, func() bool { return c.Latch.State() == safety.Running },
		time.Second, time.Millisecond)
}

func TestSamplesDriveFanAndBattery(t *testing.T) {
	b := sim.NewBoard()
	b.AttachAnalog(0, sim.AnalogFunc(func() (int, error) { return 1600, nil }))
	cfg := testConfig()
	cfg.MotorPin = NoPin
	cfg.FanPin = 13
	cfg.BatteryChannel = 0
	climate := sim.NewClimate(1)
	climate.Temperature = sim.NewRandomWalk(60, 60, 60, 0, 1)
	c, err := cfg.NewCore(Devices{Input: b, PWM: b, Analog: b, Climate: climate})
	require.NoError(t, err)
	require.Len(t, c.Timers, 2)
	_, stop := runLoop(t, c)
	defer stop()

	require.Eventually(t, func() bool { return b.Duty(13) == c.Fan.Curve.Duty(60) },
		time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return c.Status().Battery.Volts > 0 },
		time.Second, time.Millisecond)
	status := c.Status()
	require.NotZero(t, status.Samples.Samples)
	require.Zero(t, status.Samples.ReadFailures)
}

func TestCoresAreIndependent(t *testing.T) {
	b := sim.NewBoard()
	cfgA := testConfig()
	cfgB := testConfig()
	cfgB.Name, cfgB.EmergencyPin, cfgB.MotorPin = "second", 22, 3
	a, err := cfgA.NewCore(Devices{Input: b, Output: b})
	require.NoError(t, err)
	second, err := cfgB.NewCore(Devices{Input: b, Output: b})
	require.NoError(t, err)
	_, stop := runLoop(t, a, second)
	defer stop()

	require.NoError(t, b.Press(22))
	require.Eventually(t, func() bool { return second.Latch.State() == safety.EmergencyStopped },
		time.Second, time.Millisecond)
	require.Equal(t, safety.Running, a.Latch.State())
	require.Eventually(t, func() bool { return b.Output(DefaultMotorPin) == hal.High },
		time.Second, time.Millisecond)
	require.Equal(t, hal.Low, b.Output(3))
}
