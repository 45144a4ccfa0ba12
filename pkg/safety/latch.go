package safety

import (
	"sync/atomic"
	"time"
)

// State is the latch state.
type State int32

// Latch states.
const (
	Running State = iota
	EmergencyStopped
)

// DefaultQuiescentPeriod is the minimum time the emergency input must stay
// quiet before a reset is honored.
const DefaultQuiescentPeriod = 2 * time.Second

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case EmergencyStopped:
		return "emergency-stopped"
	}
	return "invalid"
}

// Stats is a snapshot of latch counters.
type Stats struct {
	State          State
	LastCode       int32
	FlagSafe       bool
	Stops          uint64
	Violations     uint64
	Resets         uint64
	RejectedResets uint64
}

// Interlock reports whether the emergency input is currently held at its
// active level. Edges alone cannot tell a released input from a held one.
type Interlock interface {
	Asserted() bool
}

// Latch is the two-state safety machine. Stop and Reset must only be
// called by the consumer task; everything else may be read from anywhere.
type Latch struct {
	Flag            Flag
	QuiescentPeriod time.Duration
	// Interlock is consulted by Reset when set.
	Interlock Interlock

	state          atomic.Int32
	lastCode       atomic.Int32
	stops          atomic.Uint64
	violations     atomic.Uint64
	resets         atomic.Uint64
	rejectedResets atomic.Uint64
}

// NewLatch creates a Latch in Running state.
func NewLatch() *Latch {
	return &Latch{QuiescentPeriod: DefaultQuiescentPeriod}
}

// State returns the current state.
func (l *Latch) State() State {
	return State(l.state.Load())
}

// LastCode returns the code of the latest emergency record.
func (l *Latch) LastCode() int32 {
	return l.lastCode.Load()
}

// Permits indicates the actuator may be driven on.
func (l *Latch) Permits() bool {
	return l.Flag.Safe() && l.State() == Running
}

// Stop transitions to EmergencyStopped. If already stopped, the event is
// counted and a *ViolationError is returned; the state is unchanged.
func (l *Latch) Stop(code int32) error {
	l.lastCode.Store(code)
	if !l.state.CompareAndSwap(int32(Running), int32(EmergencyStopped)) {
		return &ViolationError{Code: code, Violations: l.violations.Add(1)}
	}
	l.stops.Add(1)
	return nil
}

// Reset transitions back to Running when the emergency flag has been
// quiet for QuiescentPeriod as of now (microseconds on the flag's clock)
// and the Interlock, if any, reports the input released.
func (l *Latch) Reset(now uint64) error {
	if l.State() != EmergencyStopped {
		l.rejectedResets.Add(1)
		return ErrNotStopped
	}
	if l.Interlock != nil && l.Interlock.Asserted() {
		l.rejectedResets.Add(1)
		return ErrInputAsserted
	}
	tripped := l.Flag.TrippedAt()
	if tripped != 0 {
		quiet := uint64(l.QuiescentPeriod / time.Microsecond)
		if now < tripped || now-tripped < quiet || !l.Flag.clear(tripped) {
			l.rejectedResets.Add(1)
			return ErrResetTooSoon
		}
	}
	l.state.Store(int32(Running))
	l.resets.Add(1)
	return nil
}

// Stats returns a snapshot of the counters.
func (l *Latch) Stats() Stats {
	return Stats{
		State:          l.State(),
		LastCode:       l.LastCode(),
		FlagSafe:       l.Flag.Safe(),
		Stops:          l.stops.Load(),
		Violations:     l.violations.Load(),
		Resets:         l.resets.Load(),
		RejectedResets: l.rejectedResets.Load(),
	}
}
