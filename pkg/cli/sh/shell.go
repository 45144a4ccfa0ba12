// Package sh provides the interactive operator shell of safetyctl.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/safety.go/pkg/comm/mqtt"
	"github.com/robotalks/safety.go/pkg/msgs"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Broker mqtt.Broker
	Device string

	seq      atomic.Uint64
	lock     sync.RWMutex
	statuses map[string]*msgs.SafetyStatus
}

const (
	shellKey         = "$shell"
	unselectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DevicesCmd,
		&UseCmd,
		&StatusCmd,
		&ResetCmd,
		&StopCmd,
		&WatchCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell tracking device status on broker.
func New(broker mqtt.Broker) *Shell {
	s := newShell(broker)
	s.Shell = ishell.New()
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unselectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

func newShell(broker mqtt.Broker) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Broker:      broker,
		statuses:    make(map[string]*msgs.SafetyStatus),
	}
	broker.Sub(mqtt.DeviceTopic("+", mqtt.TopicStatus), s.HandleStatus)
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustSelectDevice wraps command func requires a selected device.
func MustSelectDevice(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Device == "" {
			c.Err(fmt.Errorf("no device selected"))
			return
		}
		fn(c)
	}
}

// HandleStatus records a retained status message.
func (s *Shell) HandleStatus(topic string, payload []byte) {
	msg, err := msgs.Decode(payload)
	if err != nil {
		log.Printf("%s: %v", topic, err)
		return
	}
	status, ok := msg.(*msgs.SafetyStatus)
	if !ok {
		return
	}
	device := status.Device
	if device == "" {
		device = strings.TrimSuffix(topic, "/"+mqtt.TopicStatus)
	}
	s.lock.Lock()
	s.statuses[device] = status
	s.lock.Unlock()
}

// Devices lists devices which published status, sorted.
func (s *Shell) Devices() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	devices := make([]string, 0, len(s.statuses))
	for device := range s.statuses {
		devices = append(devices, device)
	}
	sort.Strings(devices)
	return devices
}

// Status returns the last status of device, nil if unknown.
func (s *Shell) Status(device string) *msgs.SafetyStatus {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.statuses[device]
}

// Select selects the device commands are sent to.
func (s *Shell) Select(device string) {
	s.Device = device
	if s.Shell == nil {
		return
	}
	if device == "" {
		s.Shell.SetPrompt(unselectedPrompt)
	} else {
		s.Shell.SetPrompt(fmt.Sprintf("%s > ", device))
	}
}

// SendCommand publishes a command to the selected device. The outcome is
// observed through its status.
func (s *Shell) SendCommand(msg msgs.Message) error {
	if s.Device == "" {
		return fmt.Errorf("no device selected")
	}
	data, err := msgs.Encode(msg, s.seq.Add(1))
	if err != nil {
		return err
	}
	token := s.Broker.PubWith(mqtt.DeviceTopic(s.Device, mqtt.TopicCmd), data, 1, false)
	if !token.WaitTimeout(time.Second) {
		return fmt.Errorf("command timeout")
	}
	return token.Error()
}

// Format formats a message for display.
func (s *Shell) Format(msg msgs.Message) string {
	if s.OutputJSON {
		out, err := json.Marshal(msg)
		if err != nil {
			return err.Error()
		}
		return string(out)
	}
	return fmt.Sprintf("%s %s",
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		msg.(msgs.SerializableMessage).Serializable().String())
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}
