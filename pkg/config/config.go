// Package config holds the daemon configuration: SAFETY_* environment
// variables, command line flags and an optional TOML file, in increasing
// order of precedence.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robotalks/safety.go/pkg/core"
	"github.com/robotalks/safety.go/pkg/env"
	"github.com/robotalks/safety.go/pkg/framework"
	"github.com/robotalks/safety.go/pkg/hal"
)

// Board names.
const (
	BoardSim    = "sim"
	BoardPeriph = "periph"
	BoardRPIO   = "rpio"
)

// Config defines the configuration of the daemon.
type Config struct {
	// Board provides inputs: sim or periph.
	Board string
	// Output provides outputs: sim, periph or rpio. Empty uses Board.
	Output string
	// PWMFrequency in Hz.
	PWMFrequency int

	// MQTTURL is the broker, e.g. mqtt://host:1883/topic-prefix. Empty
	// disables forwarding.
	MQTTURL  string
	DeviceID string
	// MetricsAddr is the listen address of /metrics. Empty disables it.
	MetricsAddr string

	LoopInterval time.Duration

	// File is the TOML file loaded on top of flags.
	File string

	Core core.Config
}

var defaultConfig = Config{
	Board:        BoardSim,
	PWMFrequency: 25000,
	MQTTURL:      "mqtt://localhost:1883/safety/",
	MetricsAddr:  ":9110",
	LoopInterval: framework.DefaultInterval,
	Core:         core.DefaultConfig(),
}

func init() {
	if val := os.Getenv("SAFETY_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("SAFETY_BOARD"); val != "" {
		defaultConfig.Board = val
	}
	if val := os.Getenv("SAFETY_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
	if val := os.Getenv("SAFETY_CONFIG"); val != "" {
		defaultConfig.File = val
	}
}

type pinValue struct{ pin *hal.Pin }

func (v pinValue) String() string {
	if v.pin == nil {
		return ""
	}
	return fmt.Sprint(int(*v.pin))
}

func (v pinValue) Set(s string) error {
	var n int
	if _, err := fmt.Sscan(s, &n); err != nil {
		return fmt.Errorf("invalid pin %q", s)
	}
	*v.pin = hal.Pin(n)
	return nil
}

type edgeValue struct{ edge *hal.Edge }

func (v edgeValue) String() string {
	if v.edge == nil {
		return ""
	}
	return v.edge.String()
}

func (v edgeValue) Set(s string) (err error) {
	*v.edge, err = hal.ParseEdge(s)
	return
}

type pullValue struct{ pull *hal.Pull }

func (v pullValue) String() string {
	if v.pull == nil {
		return ""
	}
	return v.pull.String()
}

func (v pullValue) Set(s string) (err error) {
	*v.pull, err = hal.ParsePull(s)
	return
}

// SetupFlags sets command line flags.
func SetupFlags() {
	SetupFlagSet(flag.CommandLine, &defaultConfig)
}

// SetupFlagSet binds conf to fs.
func SetupFlagSet(fs *flag.FlagSet, conf *Config) {
	fs.StringVar(&conf.Board, "board", conf.Board, "Input board: sim, periph.")
	fs.StringVar(&conf.Output, "output", conf.Output, "Output driver: sim, periph, rpio. Defaults to -board.")
	fs.IntVar(&conf.PWMFrequency, "pwm-freq", conf.PWMFrequency, "PWM frequency in Hz.")
	fs.StringVar(&conf.MQTTURL, "mqtt", conf.MQTTURL, "MQTT broker URL, empty to disable.")
	fs.StringVar(&conf.DeviceID, "device-id", conf.DeviceID, "Device ID in topics, defaults to the machine ID.")
	fs.StringVar(&conf.MetricsAddr, "metrics", conf.MetricsAddr, "Metrics listen address, empty to disable.")
	fs.DurationVar(&conf.LoopInterval, "loop-interval", conf.LoopInterval, "Actuator loop interval.")
	fs.StringVar(&conf.File, "config", conf.File, "TOML configuration file.")

	c := &conf.Core
	fs.StringVar(&c.Name, "name", c.Name, "Core name.")
	fs.IntVar(&c.Capacity, "capacity", c.Capacity, "Handoff channel capacity.")
	fs.Var(pinValue{&c.EmergencyPin}, "emergency-pin", "Emergency input GPIO.")
	fs.Var(pullValue{&c.EmergencyPull}, "emergency-pull", "Emergency input bias: none, up, down.")
	fs.Var(edgeValue{&c.EmergencyEdge}, "emergency-edge", "Emergency edge: rising, falling, both.")
	fs.Var(pinValue{&c.ResetPin}, "reset-pin", "Reset button GPIO, -1 to disable.")
	fs.Var(pinValue{&c.MotorPin}, "motor-pin", "Motor output GPIO, -1 to disable.")
	fs.DurationVar(&c.MotorCycle.Run, "motor-run", c.MotorCycle.Run, "Motor run phase.")
	fs.DurationVar(&c.MotorCycle.Rest, "motor-rest", c.MotorCycle.Rest, "Motor rest phase, 0 to run continuously.")
	fs.Var(pinValue{&c.FanPin}, "fan-pin", "Fan PWM GPIO, -1 to disable.")
	fs.IntVar(&c.BatteryChannel, "battery-channel", c.BatteryChannel, "Battery ADC channel, -1 to disable.")
	fs.DurationVar(&c.SamplePeriod, "sample-period", c.SamplePeriod, "Sensor sampling period.")
	fs.DurationVar(&c.QuiescentPeriod, "quiescent", c.QuiescentPeriod, "Quiet time required before a reset.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults, loading File if set.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	if conf.File != "" {
		if err := conf.LoadFile(conf.File); err != nil {
			return nil, err
		}
	}
	if conf.DeviceID == "" {
		conf.DeviceID = env.DeviceID()
	}
	return &conf, nil
}

// MustNewConfig creates a config and fails on error.
func MustNewConfig() *Config {
	conf, err := NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}

// OutputBoard returns the effective output driver.
func (c *Config) OutputBoard() string {
	if c.Output == "" {
		return c.Board
	}
	return c.Output
}
