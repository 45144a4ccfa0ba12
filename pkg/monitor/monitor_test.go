package monitor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety.go/pkg/event"
)

func TestFanCurve(t *testing.T) {
	c := NewFanCurve(DefaultFanResolution)
	require.Equal(t, uint32(1023), c.MaxDuty)
	testCases := []struct {
		temp float32
		duty uint32
	}{
		{temp: 10, duty: 0},
		{temp: 30, duty: 0},
		{temp: 37.5, duty: 179},
		{temp: 45, duty: 358},
		{temp: 52.5, duty: 588},
		{temp: 60, duty: 818},
		{temp: 74.9, duty: 1021},
		{temp: 75, duty: 0},
		{temp: 90, duty: 0},
	}
	for _, tc := range testCases {
		duty := c.Duty(tc.temp)
		require.InDelta(t, tc.duty, duty, 1, "temp %v", tc.temp)
		require.LessOrEqual(t, duty, c.MaxDuty)
	}
}

func TestFanCurveMonotonicBelowCritical(t *testing.T) {
	c := NewFanCurve(DefaultFanResolution)
	prev := uint32(0)
	for temp := float32(0); temp < TempCritical; temp += 0.5 {
		duty := c.Duty(temp)
		require.GreaterOrEqual(t, duty, prev, "temp %v", temp)
		prev = duty
	}
}

func TestBatteryLevels(t *testing.T) {
	testCases := []struct {
		volts   float32
		level   BatteryLevel
		percent float32
	}{
		{volts: 3.0, level: BatteryLevelCritical, percent: 0},
		{volts: 3.29, level: BatteryLevelCritical, percent: 9},
		{volts: 3.3, level: BatteryLevelLow, percent: 10},
		{volts: 3.59, level: BatteryLevelLow, percent: 39},
		{volts: 3.6, level: BatteryNormal, percent: 40},
		{volts: 4.2, level: BatteryNormal, percent: 100},
		{volts: 4.5, level: BatteryNormal, percent: 100},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.level, ClassifyBattery(tc.volts), "volts %v", tc.volts)
		require.InDelta(t, tc.percent, BatteryPercent(tc.volts), 0.5, "volts %v", tc.volts)
	}
}

func TestBatteryHandleSample(t *testing.T) {
	b := NewBattery()
	require.InDelta(t, 9.9, b.Volts(4095), 0.001)

	// 3.9V at the battery is 1.3V at the ADC.
	raw := float32(1.3 / 3.3 * 4095)
	b.HandleSample(event.Sample(0, raw, 3, 42))
	last := b.Last()
	require.InDelta(t, 3.9, last.Volts, 0.01)
	require.Equal(t, BatteryNormal, last.Level)
	require.Equal(t, uint64(42), last.Timestamp)

	b.HandleSample(event.Sample(0, raw/2, 3, 43))
	require.Equal(t, BatteryLevelCritical, b.Last().Level)
}
