package producer

import (
	"sync/atomic"
	"time"

	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/hal"
)

// SensorReader reads one upstream sample. Implementations must have
// bounded latency.
type SensorReader interface {
	ReadSample() (v1, v2 float32, err error)
}

// SensorReaderFunc is func form of SensorReader.
type SensorReaderFunc func() (float32, float32, error)

// ReadSample implements SensorReader.
func (f SensorReaderFunc) ReadSample() (float32, float32, error) {
	return f()
}

// Sampler handles periodic timer ticks by queueing one sample each.
type Sampler struct {
	Reader SensorReader
	Queue  Queue
	Clock  event.Clock
	Source uint8

	samples      atomic.Uint64
	queueFull    atomic.Uint64
	readFailures atomic.Uint64
}

// SamplerStats is a snapshot of Sampler counters.
type SamplerStats struct {
	Samples      uint64
	QueueFull    uint64
	ReadFailures uint64
}

// HandleTick implements hal.TickHandler. A failed read omits the record;
// a full queue drops it. Neither is retried.
func (s *Sampler) HandleTick(time.Time) {
	v1, v2, err := s.Reader.ReadSample()
	if err != nil {
		s.readFailures.Add(1)
		return
	}
	if s.Queue.TryPush(event.Sample(s.Source, v1, v2, s.Clock.Micros())).IsAccepted() {
		s.samples.Add(1)
	} else {
		s.queueFull.Add(1)
	}
}

// Stats returns a snapshot of the counters.
func (s *Sampler) Stats() SamplerStats {
	return SamplerStats{
		Samples:      s.samples.Load(),
		QueueFull:    s.queueFull.Load(),
		ReadFailures: s.readFailures.Load(),
	}
}

// DefaultOversampling is the number of conversions averaged per sample.
const DefaultOversampling = 32

// AnalogSensor reads an analog channel with oversampling. Value1 is the
// mean raw reading, Value2 the peak-to-peak spread across the burst.
type AnalogSensor struct {
	Input   hal.AnalogInput
	Channel int
	Samples int
}

// ReadSample implements SensorReader.
func (a *AnalogSensor) ReadSample() (float32, float32, error) {
	n := a.Samples
	if n <= 0 {
		n = DefaultOversampling
	}
	var sum, lo, hi int
	for i := 0; i < n; i++ {
		raw, err := a.Input.ReadRaw(a.Channel)
		if err != nil {
			return 0, 0, err
		}
		if i == 0 || raw < lo {
			lo = raw
		}
		if i == 0 || raw > hi {
			hi = raw
		}
		sum += raw
	}
	return float32(sum) / float32(n), float32(hi - lo), nil
}
