package monitor

import (
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/safety.go/pkg/event"
)

// Battery voltage thresholds for a single LiPo cell.
const (
	BatteryCritical float32 = 3.30
	BatteryLow      float32 = 3.60
	BatteryFull     float32 = 4.20
	BatteryEmpty    float32 = 3.20
)

// Battery defaults.
const (
	DefaultDividerFactor     float32 = 3.0
	DefaultADCReference      float32 = 3.3
	DefaultADCResolutionBits         = 12
)

// BatteryLevel classifies a battery voltage.
type BatteryLevel int

// Levels.
const (
	BatteryUnknown BatteryLevel = iota
	BatteryNormal
	BatteryLevelLow
	BatteryLevelCritical
)

func (l BatteryLevel) String() string {
	switch l {
	case BatteryNormal:
		return "normal"
	case BatteryLevelLow:
		return "low"
	case BatteryLevelCritical:
		return "critical"
	}
	return "unknown"
}

// BatteryReading is the last interpreted battery sample.
type BatteryReading struct {
	Volts     float32
	Percent   float32
	Level     BatteryLevel
	Timestamp uint64
}

// Battery interprets raw ADC samples of a battery behind a resistive
// divider.
type Battery struct {
	Divider   float32
	Reference float32
	MaxRaw    float32

	lock sync.Mutex
	last BatteryReading
}

// NewBattery creates a Battery with the default divider and a 12-bit ADC.
func NewBattery() *Battery {
	return &Battery{
		Divider:   DefaultDividerFactor,
		Reference: DefaultADCReference,
		MaxRaw:    float32(int(1)<<DefaultADCResolutionBits - 1),
	}
}

// Volts converts a raw reading to battery voltage.
func (b *Battery) Volts(raw float32) float32 {
	if b.MaxRaw <= 0 {
		return 0
	}
	return raw / b.MaxRaw * b.Reference * b.Divider
}

// ClassifyBattery returns the level of volts.
func ClassifyBattery(volts float32) BatteryLevel {
	switch {
	case volts < BatteryCritical:
		return BatteryLevelCritical
	case volts < BatteryLow:
		return BatteryLevelLow
	}
	return BatteryNormal
}

// BatteryPercent is linear between BatteryEmpty and BatteryFull.
func BatteryPercent(volts float32) float32 {
	switch {
	case volts <= BatteryEmpty:
		return 0
	case volts >= BatteryFull:
		return 100
	}
	return (volts - BatteryEmpty) / (BatteryFull - BatteryEmpty) * 100
}

// HandleSample interprets rec.Value1 as the averaged raw reading.
func (b *Battery) HandleSample(rec event.Record) {
	volts := b.Volts(rec.Value1)
	reading := BatteryReading{
		Volts:     volts,
		Percent:   BatteryPercent(volts),
		Level:     ClassifyBattery(volts),
		Timestamp: rec.Timestamp,
	}
	b.lock.Lock()
	prev := b.last.Level
	b.last = reading
	b.lock.Unlock()

	if reading.Level == prev {
		glog.V(2).Infof("battery %.2fV %.0f%%", volts, reading.Percent)
		return
	}
	switch reading.Level {
	case BatteryLevelCritical:
		glog.Errorf("battery critical: %.2fV", volts)
	case BatteryLevelLow:
		glog.Warningf("battery low: %.2fV (%.0f%%)", volts, reading.Percent)
	default:
		glog.Infof("battery %s: %.2fV (%.0f%%)", reading.Level, volts, reading.Percent)
	}
}

// Last returns the most recent reading.
func (b *Battery) Last() BatteryReading {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.last
}
