package sh

import (
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/safety.go/pkg/comm/mqtt"
	"github.com/robotalks/safety.go/pkg/msgs"
)

var (
	// DevicesCmd lists known devices.
	DevicesCmd = ishell.Cmd{
		Name:    "devices",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			devices := s.Devices()
			if len(devices) == 0 {
				c.Println("No devices found")
				return
			}
			for _, device := range devices {
				c.Printf("%s: %s\n", device, s.Status(device).State)
			}
		},
	}

	// UseCmd selects a device.
	UseCmd = ishell.Cmd{
		Name:    "use",
		Aliases: []string{"u"},
		Help:    "DEVICE",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Select(c.Args[0])
				return
			}
			devices := s.Devices()
			switch {
			case len(devices) == 0:
				c.Err(fmt.Errorf("no device discovered"))
			case len(devices) == 1 || !s.Interactive:
				s.Select(devices[0])
			default:
				s.Select(devices[s.Shell.MultiChoice(devices, "Which one to use?")])
			}
		},
	}

	// StatusCmd prints the status of the selected device.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: MustSelectDevice(func(c *ishell.Context) {
			s := ShellFrom(c)
			status := s.Status(s.Device)
			if status == nil {
				c.Err(fmt.Errorf("no status from %s", s.Device))
				return
			}
			c.Println(s.Format(status))
		}),
	}

	// ResetCmd requests a reset.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "",
		Func: MustSelectDevice(func(c *ishell.Context) {
			if err := ShellFrom(c).SendCommand(&msgs.ResetCommand{}); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// StopCmd trips the emergency stop.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "[CODE]",
		Func: MustSelectDevice(func(c *ishell.Context) {
			var msg msgs.StopCommand
			if len(c.Args) > 0 {
				code, err := strconv.ParseInt(c.Args[0], 10, 32)
				if err != nil {
					c.Err(fmt.Errorf("invalid code %q", c.Args[0]))
					return
				}
				msg.Code = int32(code)
			}
			if err := ShellFrom(c).SendCommand(&msg); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// WatchCmd prints messages from the selected device.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[SECONDS]",
		Func: MustSelectDevice(func(c *ishell.Context) {
			s := ShellFrom(c)
			duration := 10 * time.Second
			if len(c.Args) > 0 {
				secs, err := strconv.Atoi(c.Args[0])
				if err != nil || secs <= 0 {
					c.Err(fmt.Errorf("invalid seconds %q", c.Args[0]))
					return
				}
				duration = time.Duration(secs) * time.Second
			}
			sub := s.Broker.Sub(mqtt.DeviceTopic(s.Device, "+"), func(topic string, payload []byte) {
				msg, err := msgs.Decode(payload)
				if err != nil {
					return
				}
				if _, ok := msg.(msgs.SerializableMessage); ok {
					c.Printf("%s: %s\n", topic, s.Format(msg))
				}
			})
			defer sub.Close()
			time.Sleep(duration)
		}),
	}
)
