// Package monitor turns upstream samples into actuation targets and
// health levels.
package monitor

import (
	"github.com/golang/glog"
)

// Fan curve temperature thresholds in °C.
const (
	TempMin      float32 = 30
	TempNormal   float32 = 45
	TempHigh     float32 = 60
	TempCritical float32 = 75
)

// DefaultFanResolution is the PWM resolution in bits.
const DefaultFanResolution = 10

// FanCurve maps temperature to a PWM duty.
type FanCurve struct {
	MaxDuty uint32
}

// NewFanCurve creates a curve for the given PWM resolution.
func NewFanCurve(bits uint) FanCurve {
	return FanCurve{MaxDuty: (1 << bits) - 1}
}

// Duty computes the duty for temperature. Below TempMin the fan is off,
// the curve rises softly to 35% at TempNormal, steeply to 80% at TempHigh
// and to full at TempCritical. At or above TempCritical the fan is
// switched off.
func (c FanCurve) Duty(temperature float32) uint32 {
	max := float32(c.MaxDuty)
	switch {
	case temperature >= TempCritical:
		glog.Errorf("critical temperature %.1f°C, fan off", temperature)
		return 0
	case temperature <= TempMin:
		return 0
	case temperature <= TempNormal:
		return uint32((temperature - TempMin) / (TempNormal - TempMin) * 0.35 * max)
	case temperature <= TempHigh:
		return uint32(0.35*max + (temperature-TempNormal)/(TempHigh-TempNormal)*0.45*max)
	default:
		return uint32(0.80*max + (temperature-TempHigh)/(TempCritical-TempHigh)*0.20*max)
	}
}

// Percent converts duty to percentage of MaxDuty.
func (c FanCurve) Percent(duty uint32) float32 {
	if c.MaxDuty == 0 {
		return 0
	}
	return float32(duty) * 100 / float32(c.MaxDuty)
}
