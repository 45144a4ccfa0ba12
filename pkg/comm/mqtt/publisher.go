package mqtt

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/safety.go/pkg/consumer"
	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/msgs"
)

// Topic suffixes under the device ID.
const (
	TopicStatus = "status"
	TopicSample = "sample"
	TopicCmd    = "cmd"
)

// DeviceTopic returns the topic of kind for device.
func DeviceTopic(device, kind string) string {
	return device + "/" + kind
}

// DefaultOutboxSize is the number of messages a Publisher buffers while
// the broker is slow.
const DefaultOutboxSize = 64

type outgoing struct {
	kind   string
	data   []byte
	retain bool
}

// Publisher forwards latch status and samples of a device. It is invoked
// from the consumer task and only queues into a bounded outbox; Run hands
// the outbox to the broker. Messages beyond the outbox are dropped, and a
// dropped status is sent again once the outbox has room.
type Publisher struct {
	Broker Broker
	Device string
	// Dropped reports the handoff drop counter, optional.
	Dropped func() uint64

	seq         atomic.Uint64
	lock        sync.Mutex
	last        *msgs.SafetyStatus
	outbox      chan outgoing
	staleStatus chan struct{}
	overflows   atomic.Uint64
}

// NewPublisher creates a Publisher with DefaultOutboxSize.
func NewPublisher(broker Broker, device string) *Publisher {
	return NewPublisherWithOutbox(broker, device, DefaultOutboxSize)
}

// NewPublisherWithOutbox creates a Publisher buffering up to size messages.
func NewPublisherWithOutbox(broker Broker, device string, size int) *Publisher {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Publisher{
		Broker:      broker,
		Device:      device,
		outbox:      make(chan outgoing, size),
		staleStatus: make(chan struct{}, 1),
	}
}

// Name implements framework.Named.
func (p *Publisher) Name() string {
	return "mqtt-publisher-" + p.Device
}

// Run implements framework.Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out := <-p.outbox:
			p.send(out)
		case <-p.staleStatus:
			// queued messages predate the dropped status.
			for drained := false; !drained; {
				select {
				case out := <-p.outbox:
					p.send(out)
				default:
					drained = true
				}
			}
			p.lock.Lock()
			last := p.last
			p.lock.Unlock()
			if last == nil {
				continue
			}
			if data, err := msgs.Encode(last, p.seq.Add(1)); err == nil {
				p.send(outgoing{kind: TopicStatus, data: data, retain: true})
			}
		}
	}
}

func (p *Publisher) send(out outgoing) {
	p.Broker.PubWith(DeviceTopic(p.Device, out.kind), out.data, 0, out.retain)
}

// Overflows returns the number of messages dropped on a full outbox.
func (p *Publisher) Overflows() uint64 {
	return p.overflows.Load()
}

// StateChanged implements consumer.StateListener. Status is retained so
// late subscribers see the current latch.
func (p *Publisher) StateChanged(s consumer.Status) {
	status := &msgs.SafetyStatus{
		Device:         p.Device,
		State:          s.State.String(),
		LastCode:       s.Code,
		Incident:       s.Incident,
		Stops:          s.Latch.Stops,
		Violations:     s.Latch.Violations,
		Resets:         s.Latch.Resets,
		RejectedResets: s.Latch.RejectedResets,
		Timestamp:      s.Timestamp,
	}
	if p.Dropped != nil {
		status.Dropped = p.Dropped()
	}
	p.lock.Lock()
	p.last = status
	p.lock.Unlock()
	p.publish(TopicStatus, status, true)
}

// HandleSample implements consumer.SampleHandler.
func (p *Publisher) HandleSample(rec event.Record) {
	p.publish(TopicSample, &msgs.SensorSample{
		Device:    p.Device,
		Source:    uint32(rec.Source),
		Value1:    rec.Value1,
		Value2:    rec.Value2,
		Timestamp: rec.Timestamp,
	}, false)
}

// Republish publishes the last status again, e.g. after reconnecting.
func (p *Publisher) Republish() {
	p.lock.Lock()
	last := p.last
	p.lock.Unlock()
	if last != nil {
		p.publish(TopicStatus, last, true)
	}
}

func (p *Publisher) publish(kind string, msg msgs.Message, retain bool) {
	data, err := msgs.Encode(msg, p.seq.Add(1))
	if err != nil {
		glog.Errorf("encode %s: %v", kind, err)
		return
	}
	select {
	case p.outbox <- outgoing{kind: kind, data: data, retain: retain}:
		return
	default:
	}
	n := p.overflows.Add(1)
	glog.V(1).Infof("mqtt outbox full, %s dropped (%d total)", kind, n)
	if kind == TopicStatus {
		select {
		case p.staleStatus <- struct{}{}:
		default:
		}
	}
}
