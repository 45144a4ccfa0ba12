package mqtt

import (
	"github.com/golang/glog"

	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/msgs"
)

// Resetter queues a reset request.
type Resetter interface {
	Request() bool
}

// Stopper raises an emergency with a code.
type Stopper interface {
	TriggerCode(code int32)
}

// CommandSource turns remote commands into records on the handoff channel.
// Commands are handled on the client goroutine; requests are pushed and
// never waited for.
type CommandSource struct {
	Device string
	Reset  Resetter
	Stop   Stopper
}

// Subscribe subscribes the command topic of the device.
func (c *CommandSource) Subscribe(broker Broker) *Subscription {
	return broker.Sub(DeviceTopic(c.Device, TopicCmd), c.HandleMessage)
}

// HandleMessage implements Handler.
func (c *CommandSource) HandleMessage(topic string, payload []byte) {
	msg, err := msgs.Decode(payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return
	}
	switch m := msg.(type) {
	case *msgs.ResetCommand:
		if c.Reset == nil {
			glog.Warningf("%s: reset not supported", topic)
			return
		}
		if !c.Reset.Request() {
			glog.Warningf("%s: reset dropped, queue full", topic)
		}
	case *msgs.StopCommand:
		if c.Stop == nil {
			glog.Warningf("%s: stop not supported", topic)
			return
		}
		code := m.Code
		if code == 0 {
			code = event.EmergencyCode
		}
		glog.Warningf("%s: remote stop %d", topic, code)
		c.Stop.TriggerCode(code)
	default:
		glog.Warningf("%s: unexpected %T", topic, msg)
	}
}
