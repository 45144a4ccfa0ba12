package sim

import (
	"math/rand"
	"sync"
)

// RandomWalk is an analog source drifting by at most Step per reading,
// clamped to [Min, Max].
type RandomWalk struct {
	Min, Max, Step float64

	lock  sync.Mutex
	value float64
	rnd   *rand.Rand
}

// NewRandomWalk creates a RandomWalk starting at start.
func NewRandomWalk(start, min, max, step float64, seed int64) *RandomWalk {
	return &RandomWalk{
		Min: min, Max: max, Step: step,
		value: start,
		rnd:   rand.New(rand.NewSource(seed)),
	}
}

// Next advances the walk and returns the new value.
func (w *RandomWalk) Next() float64 {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.value += (w.rnd.Float64()*2 - 1) * w.Step
	if w.value < w.Min {
		w.value = w.Min
	} else if w.value > w.Max {
		w.value = w.Max
	}
	return w.value
}

// ReadRaw implements AnalogSource.
func (w *RandomWalk) ReadRaw() (int, error) {
	return int(w.Next()), nil
}

// Climate simulates a temperature/humidity sensor.
type Climate struct {
	Temperature *RandomWalk
	Humidity    *RandomWalk
	// Fail, when set, is returned by ReadSample instead of a reading.
	Fail error
}

// NewClimate creates a Climate around 25°C and 60% humidity.
func NewClimate(seed int64) *Climate {
	return &Climate{
		Temperature: NewRandomWalk(25, 20, 80, 2, seed),
		Humidity:    NewRandomWalk(60, 40, 95, 1, seed+1),
	}
}

// ReadSample returns temperature (°C) and relative humidity (%).
func (c *Climate) ReadSample() (float32, float32, error) {
	if c.Fail != nil {
		return 0, 0, c.Fail
	}
	return float32(c.Temperature.Next()), float32(c.Humidity.Next()), nil
}
