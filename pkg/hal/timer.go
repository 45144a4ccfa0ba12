package hal

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrTimerRunning indicates StartPeriodic on a running timer.
	ErrTimerRunning = errors.New("timer already running")
	// ErrInvalidPeriod indicates a non-positive period.
	ErrInvalidPeriod = errors.New("period must be positive")
)

// Timer invokes a TickHandler periodically from its own goroutine.
// Ticks are scheduled against the nominal start time; when the handler
// overruns, missed ticks are skipped rather than queued, so the schedule
// never drifts.
type Timer struct {
	Name    string
	Handler TickHandler

	lock sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTimer creates a stopped Timer.
func NewTimer(name string, h TickHandler) *Timer {
	return &Timer{Name: name, Handler: h}
}

// StartPeriodic starts invoking the handler every period.
func (t *Timer) StartPeriodic(period time.Duration) error {
	if period <= 0 {
		return ErrInvalidPeriod
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.stop != nil {
		return ErrTimerRunning
	}
	t.stop, t.done = make(chan struct{}), make(chan struct{})
	go t.run(time.NewTicker(period), t.stop, t.done)
	return nil
}

// Stop stops the timer and waits for an in-flight tick to return.
// Stopping a stopped timer is a no-op.
func (t *Timer) Stop() error {
	t.lock.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.lock.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

// Running indicates the timer is started.
func (t *Timer) Running() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.stop != nil
}

func (t *Timer) run(ticker *time.Ticker, stop, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			t.Handler.HandleTick(now)
		}
	}
}
