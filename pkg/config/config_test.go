package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety.go/pkg/core"
	"github.com/robotalks/safety.go/pkg/hal"
	"github.com/robotalks/safety.go/pkg/safety"
)

func TestFlags(t *testing.T) {
	conf := Config{Core: core.DefaultConfig()}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	SetupFlagSet(fs, &conf)
	require.NoError(t, fs.Parse([]string{
		"-board=periph", "-output=rpio",
		"-emergency-pin=5", "-emergency-edge=falling", "-emergency-pull=up",
		"-reset-pin=6", "-motor-rest=0", "-quiescent=5s",
	}))
	require.Equal(t, BoardPeriph, conf.Board)
	require.Equal(t, BoardRPIO, conf.OutputBoard())
	require.Equal(t, hal.Pin(5), conf.Core.EmergencyPin)
	require.Equal(t, hal.FallingEdge, conf.Core.EmergencyEdge)
	require.Equal(t, hal.PullUp, conf.Core.EmergencyPull)
	require.Equal(t, hal.Pin(6), conf.Core.ResetPin)
	require.Zero(t, conf.Core.MotorCycle.Rest)
	require.Equal(t, 5*time.Second, conf.Core.QuiescentPeriod)

	require.Error(t, fs.Parse([]string{"-emergency-edge=sideways"}))
	require.Error(t, fs.Parse([]string{"-motor-pin=x"}))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "safety.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
board = "sim"
mqtt_url = " mqtt://broker:1883/plant/ "
metrics_addr = ""

[core]
name = "press"
capacity = 5
emergency_pin = 23
emergency_edge = "both"
fan_pin = 13
motor_run = "500ms"
quiescent_period = "3s"
`), 0644))

	conf := Config{Board: BoardPeriph, MetricsAddr: ":9110", Core: core.DefaultConfig()}
	require.NoError(t, conf.LoadFile(path))
	require.Equal(t, BoardSim, conf.Board)
	require.Equal(t, "mqtt://broker:1883/plant/", conf.MQTTURL)
	require.Empty(t, conf.MetricsAddr)
	require.Equal(t, "press", conf.Core.Name)
	require.Equal(t, 5, conf.Core.Capacity)
	require.Equal(t, hal.Pin(23), conf.Core.EmergencyPin)
	require.Equal(t, hal.BothEdges, conf.Core.EmergencyEdge)
	require.Equal(t, hal.Pin(13), conf.Core.FanPin)
	require.Equal(t, 500*time.Millisecond, conf.Core.MotorCycle.Run)
	require.Equal(t, time.Second, conf.Core.MotorCycle.Rest)
	require.Equal(t, 3*time.Second, conf.Core.QuiescentPeriod)
	require.Equal(t, core.DefaultMotorPin, conf.Core.MotorPin)
}

func TestLoadFileErrors(t *testing.T) {
	testCases := []struct {
		name, content string
	}{
		{name: "syntax", content: "board = "},
		{name: "unknown key", content: "boards = \"sim\""},
		{name: "bad duration", content: "[core]\nsample_period = \"soon\""},
		{name: "bad edge", content: "[core]\nemergency_edge = \"up\""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "safety.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))
			conf := Config{Core: core.DefaultConfig()}
			require.Error(t, conf.LoadFile(path))
		})
	}
}

func TestSimCore(t *testing.T) {
	conf := Config{Board: BoardSim, Core: core.DefaultConfig()}
	conf.Core.FanPin = 13
	c, d, err := conf.NewCore()
	require.NoError(t, err)
	defer d.Close()
	require.NotNil(t, d.Sim)
	require.NotNil(t, c.Motor)
	require.NotNil(t, c.Fan)
	require.Len(t, c.Samplers, 1)
	require.Equal(t, safety.Running, c.Latch.State())

	conf.Board = "abacus"
	_, _, err = conf.NewCore()
	require.Error(t, err)
}
