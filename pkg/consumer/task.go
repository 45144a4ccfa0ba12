package consumer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/handoff"
	"github.com/robotalks/safety.go/pkg/safety"
)

// Task is the single consumer of a handoff channel.
type Task struct {
	Queue     Popper
	Latch     *safety.Latch
	Actuator  Actuator
	Samples   []SampleHandler
	Listeners []StateListener

	lock     sync.Mutex
	incident string

	processed atomic.Uint64
	samples   atomic.Uint64
	unknown   atomic.Uint64
	popErrors atomic.Uint64
	panics    atomic.Uint64
}

// Stats is a snapshot of Task counters.
type Stats struct {
	Processed uint64
	Samples   uint64
	Unknown   uint64
	PopErrors uint64
	Panics    uint64
}

// Name implements framework.Named.
func (t *Task) Name() string {
	return "consumer"
}

// Run implements framework.Runnable. It returns when ctx is done, or nil
// once the channel is closed and drained.
func (t *Task) Run(ctx context.Context) error {
	glog.V(1).Info("consumer started")
	for {
		rec, err := t.Queue.Pop(ctx)
		switch {
		case err == nil:
			t.dispatch(rec)
		case errors.Is(err, handoff.ErrClosed):
			glog.Info("channel closed, consumer exits")
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			t.popErrors.Add(1)
			glog.Warningf("pop: %v", err)
		}
	}
}

// Incident returns the ID of the open incident, empty while running.
func (t *Task) Incident() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.incident
}

// Stats returns a snapshot of the counters.
func (t *Task) Stats() Stats {
	return Stats{
		Processed: t.processed.Load(),
		Samples:   t.samples.Load(),
		Unknown:   t.unknown.Load(),
		PopErrors: t.popErrors.Load(),
		Panics:    t.panics.Load(),
	}
}

// Status returns the current latch status.
func (t *Task) Status() Status {
	return Status{
		State:    t.Latch.State(),
		Code:     t.Latch.LastCode(),
		Incident: t.Incident(),
		Latch:    t.Latch.Stats(),
	}
}

func (t *Task) dispatch(rec event.Record) {
	defer func() {
		if r := recover(); r != nil {
			t.panics.Add(1)
			glog.Errorf("panic handling %s: %v", rec, r)
		}
	}()
	t.processed.Add(1)
	switch rec.Kind {
	case event.KindEmergency:
		t.handleEmergency(rec)
	case event.KindSample:
		t.samples.Add(1)
		for _, h := range t.Samples {
			h.HandleSample(rec)
		}
	case event.KindReset:
		t.handleReset(rec)
	default:
		t.unknown.Add(1)
		glog.Warningf("unexpected record %s", rec)
	}
}

func (t *Task) handleEmergency(rec event.Record) {
	err := t.Latch.Stop(rec.Code)
	if t.Actuator != nil {
		if offErr := t.Actuator.Off(); offErr != nil {
			glog.Errorf("actuator off: %v", offErr)
		}
	}
	var violation *safety.ViolationError
	switch {
	case err == nil:
		t.lock.Lock()
		t.incident = uuid.NewString()
		t.lock.Unlock()
		glog.Warningf("EMERGENCY STOP code %d from %d, incident %s", rec.Code, rec.Source, t.Incident())
	case errors.As(err, &violation):
		glog.Errorf("safety violation: %v", violation)
	default:
		glog.Errorf("stop: %v", err)
	}
	t.notify(rec)
}

func (t *Task) handleReset(rec event.Record) {
	if err := t.Latch.Reset(rec.Timestamp); err != nil {
		glog.Warningf("reset refused: %v", err)
		return
	}
	t.lock.Lock()
	closed := t.incident
	t.incident = ""
	t.lock.Unlock()
	glog.Infof("reset accepted, incident %s closed", closed)
	t.notify(rec)
}

func (t *Task) notify(rec event.Record) {
	s := t.Status()
	s.Timestamp = rec.Timestamp
	for _, l := range t.Listeners {
		l.StateChanged(s)
	}
}
