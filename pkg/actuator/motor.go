package actuator

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/safety.go/pkg/framework"
	"github.com/robotalks/safety.go/pkg/hal"
)

// Cycle is an alternating run/rest pattern. A zero Rest runs continuously.
type Cycle struct {
	Run  time.Duration
	Rest time.Duration
}

// Running reports whether the pattern is in its run phase after elapsed.
func (c Cycle) Running(elapsed time.Duration) bool {
	period := c.Run + c.Rest
	if c.Rest <= 0 || period <= 0 {
		return true
	}
	return elapsed%period < c.Run
}

// Motor drives a digital output while its gate permits.
type Motor struct {
	Output hal.DigitalOutput
	Pin    hal.Pin
	Gate   Gate
	Cycle  Cycle

	lock      sync.Mutex
	on        bool
	written   bool
	permitted time.Time
}

// Name implements framework.Named.
func (m *Motor) Name() string {
	return fmt.Sprintf("motor-GPIO%d", m.Pin)
}

// AddToLoop implements framework.LoopAdder.
func (m *Motor) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvAcuate, m)
}

// Control implements framework.Controller. The gate is evaluated under the
// same lock Off takes, so once Off returns no iteration can drive the
// output on from a stale permission.
func (m *Motor) Control(cc framework.ControlContext) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	now := cc.Time()
	if !m.Gate.Permits() {
		m.permitted = time.Time{}
		return m.set(false)
	}
	if m.permitted.IsZero() {
		m.permitted = now
	}
	return m.set(m.Cycle.Running(now.Sub(m.permitted)))
}

// Off drives the output low unconditionally.
func (m *Motor) Off() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.permitted = time.Time{}
	m.written = false
	return m.set(false)
}

// On reports the last level written.
func (m *Motor) On() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.on
}

func (m *Motor) set(on bool) error {
	if m.written && m.on == on {
		return nil
	}
	if err := m.Output.Write(m.Pin, hal.Level(on)); err != nil {
		return fmt.Errorf("motor GPIO%d: %w", m.Pin, err)
	}
	if m.on != on {
		glog.V(1).Infof("motor GPIO%d %s", m.Pin, onOff(on))
	}
	m.on, m.written = on, true
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
