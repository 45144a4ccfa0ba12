package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/robotalks/safety.go/pkg/hal"
)

type fileConfig struct {
	Board        string `toml:"board"`
	Output       string `toml:"output"`
	PWMFrequency int    `toml:"pwm_frequency"`
	MQTTURL      string `toml:"mqtt_url"`
	DeviceID     string `toml:"device_id"`
	MetricsAddr  string `toml:"metrics_addr"`
	LoopInterval string `toml:"loop_interval"`
	Core         struct {
		Name            string `toml:"name"`
		Capacity        int    `toml:"capacity"`
		EmergencyPin    int    `toml:"emergency_pin"`
		EmergencyPull   string `toml:"emergency_pull"`
		EmergencyEdge   string `toml:"emergency_edge"`
		EmergencyCode   int32  `toml:"emergency_code"`
		ResetPin        int    `toml:"reset_pin"`
		MotorPin        int    `toml:"motor_pin"`
		MotorRun        string `toml:"motor_run"`
		MotorRest       string `toml:"motor_rest"`
		FanPin          int    `toml:"fan_pin"`
		ClimateSource   uint8  `toml:"climate_source"`
		BatteryChannel  int    `toml:"battery_channel"`
		SamplePeriod    string `toml:"sample_period"`
		QuiescentPeriod string `toml:"quiescent_period"`
	} `toml:"core"`
}

func parseDuration(key, val string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

// LoadFile overrides c with the keys defined in a TOML file.
func (c *Config) LoadFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %s", undecoded[0])
	}

	str := func(key string, dst *string, val string) {
		if meta.IsDefined(key) {
			*dst = strings.TrimSpace(val)
		}
	}
	dur := func(dst *time.Duration, val string, keys ...string) error {
		if !meta.IsDefined(keys...) {
			return nil
		}
		d, err := parseDuration(strings.Join(keys, "."), val)
		if err == nil {
			*dst = d
		}
		return err
	}
	pin := func(dst *hal.Pin, val int, keys ...string) {
		if meta.IsDefined(keys...) {
			*dst = hal.Pin(val)
		}
	}

	str("board", &c.Board, raw.Board)
	str("output", &c.Output, raw.Output)
	str("mqtt_url", &c.MQTTURL, raw.MQTTURL)
	str("device_id", &c.DeviceID, raw.DeviceID)
	str("metrics_addr", &c.MetricsAddr, raw.MetricsAddr)
	if meta.IsDefined("pwm_frequency") {
		c.PWMFrequency = raw.PWMFrequency
	}
	if err := dur(&c.LoopInterval, raw.LoopInterval, "loop_interval"); err != nil {
		return err
	}

	rc, cc := &raw.Core, &c.Core
	if meta.IsDefined("core", "name") {
		cc.Name = strings.TrimSpace(rc.Name)
	}
	if meta.IsDefined("core", "capacity") {
		cc.Capacity = rc.Capacity
	}
	if meta.IsDefined("core", "emergency_code") {
		cc.EmergencyCode = rc.EmergencyCode
	}
	if meta.IsDefined("core", "climate_source") {
		cc.ClimateSource = rc.ClimateSource
	}
	if meta.IsDefined("core", "battery_channel") {
		cc.BatteryChannel = rc.BatteryChannel
	}
	pin(&cc.EmergencyPin, rc.EmergencyPin, "core", "emergency_pin")
	pin(&cc.ResetPin, rc.ResetPin, "core", "reset_pin")
	pin(&cc.MotorPin, rc.MotorPin, "core", "motor_pin")
	pin(&cc.FanPin, rc.FanPin, "core", "fan_pin")
	if meta.IsDefined("core", "emergency_pull") {
		if cc.EmergencyPull, err = hal.ParsePull(rc.EmergencyPull); err != nil {
			return err
		}
	}
	if meta.IsDefined("core", "emergency_edge") {
		if cc.EmergencyEdge, err = hal.ParseEdge(rc.EmergencyEdge); err != nil {
			return err
		}
	}
	for _, d := range []struct {
		dst *time.Duration
		val string
		key string
	}{
		{&cc.MotorCycle.Run, rc.MotorRun, "motor_run"},
		{&cc.MotorCycle.Rest, rc.MotorRest, "motor_rest"},
		{&cc.SamplePeriod, rc.SamplePeriod, "sample_period"},
		{&cc.QuiescentPeriod, rc.QuiescentPeriod, "quiescent_period"},
	} {
		if err := dur(d.dst, d.val, "core", d.key); err != nil {
			return err
		}
	}
	return nil
}
