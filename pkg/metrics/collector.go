// Package metrics exports core status to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/robotalks/safety.go/pkg/core"
	"github.com/robotalks/safety.go/pkg/safety"
)

// Namespace of all metrics.
const Namespace = "safety"

// StatusSource provides core status snapshots.
type StatusSource interface {
	Status() core.Status
}

type metric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(*core.Status) float64
}

// Collector reads one status snapshot per scrape, so all values of a core
// are consistent with each other.
type Collector struct {
	sources []StatusSource
	metrics []metric
}

func newMetric(subsystem, name, help string, kind prometheus.ValueType, value func(*core.Status) float64) metric {
	return metric{
		desc:  prometheus.NewDesc(prometheus.BuildFQName(Namespace, subsystem, name), help, []string{"core"}, nil),
		kind:  kind,
		value: value,
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// NewCollector creates a Collector over sources.
func NewCollector(sources ...StatusSource) *Collector {
	counter, gauge := prometheus.CounterValue, prometheus.GaugeValue
	return &Collector{
		sources: sources,
		metrics: []metric{
			newMetric("latch", "stopped", "1 while emergency stopped.", gauge,
				func(s *core.Status) float64 { return boolValue(s.State == safety.EmergencyStopped) }),
			newMetric("latch", "flag_tripped", "1 while the fast-path flag is tripped.", gauge,
				func(s *core.Status) float64 { return boolValue(!s.Latch.FlagSafe) }),
			newMetric("latch", "stops_total", "Emergency stops.", counter,
				func(s *core.Status) float64 { return float64(s.Latch.Stops) }),
			newMetric("latch", "violations_total", "Emergencies received while stopped.", counter,
				func(s *core.Status) float64 { return float64(s.Latch.Violations) }),
			newMetric("latch", "resets_total", "Accepted resets.", counter,
				func(s *core.Status) float64 { return float64(s.Latch.Resets) }),
			newMetric("latch", "rejected_resets_total", "Refused resets.", counter,
				func(s *core.Status) float64 { return float64(s.Latch.RejectedResets) }),
			newMetric("handoff", "accepted_total", "Records accepted by the channel.", counter,
				func(s *core.Status) float64 { return float64(s.Queue.Accepted) }),
			newMetric("handoff", "dropped_total", "Records rejected by the channel.", counter,
				func(s *core.Status) float64 { return float64(s.Queue.Dropped) }),
			newMetric("handoff", "length", "Records waiting in the channel.", gauge,
				func(s *core.Status) float64 { return float64(s.Queue.Len) }),
			newMetric("handoff", "capacity", "Channel capacity.", gauge,
				func(s *core.Status) float64 { return float64(s.Queue.Capacity) }),
			newMetric("emergency", "triggers_total", "Emergency edges.", counter,
				func(s *core.Status) float64 { return float64(s.Triggers) }),
			newMetric("emergency", "rejected_total", "Emergency records the channel refused.", counter,
				func(s *core.Status) float64 { return float64(s.RejectedEmergencies) }),
			newMetric("sampler", "samples_total", "Samples queued.", counter,
				func(s *core.Status) float64 { return float64(s.Samples.Samples) }),
			newMetric("sampler", "queue_full_total", "Samples dropped on a full channel.", counter,
				func(s *core.Status) float64 { return float64(s.Samples.QueueFull) }),
			newMetric("sampler", "read_failures_total", "Failed sensor reads.", counter,
				func(s *core.Status) float64 { return float64(s.Samples.ReadFailures) }),
			newMetric("consumer", "processed_total", "Records processed.", counter,
				func(s *core.Status) float64 { return float64(s.Task.Processed) }),
			newMetric("consumer", "unknown_total", "Records of unexpected kind.", counter,
				func(s *core.Status) float64 { return float64(s.Task.Unknown) }),
			newMetric("consumer", "panics_total", "Recovered handler panics.", counter,
				func(s *core.Status) float64 { return float64(s.Task.Panics) }),
			newMetric("battery", "volts", "Last battery voltage.", gauge,
				func(s *core.Status) float64 { return float64(s.Battery.Volts) }),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, src := range c.sources {
		s := src.Status()
		for _, m := range c.metrics {
			ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(&s), s.Name)
		}
	}
}
