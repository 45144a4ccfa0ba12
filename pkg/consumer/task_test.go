package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety.go/pkg/event"
	"github.com/robotalks/safety.go/pkg/handoff"
	"github.com/robotalks/safety.go/pkg/safety"
)

const second = uint64(time.Second / time.Microsecond)

type offCounter int

func (c *offCounter) Off() error {
	*c++
	return nil
}

func runUntilDrained(t *testing.T, task *Task, q *handoff.Channel[event.Record], recs ...event.Record) {
	for _, rec := range recs {
		require.True(t, q.TryPush(rec).IsAccepted())
	}
	require.NoError(t, q.Close())
	require.NoError(t, task.Run(context.Background()))
}

func TestEmergencyStopsAndNotifies(t *testing.T) {
	q := handoff.MustNew[event.Record](5)
	var offs offCounter
	var statuses []Status
	task := &Task{
		Queue:    q,
		Latch:    safety.NewLatch(),
		Actuator: &offs,
		Listeners: []StateListener{StateListenerFunc(func(s Status) {
			statuses = append(statuses, s)
		})},
	}
	task.Latch.Flag.Trip(100)
	runUntilDrained(t, task, q,
		event.Emergency(17, event.EmergencyCode, 100),
		event.Emergency(17, event.EmergencyCode, 200))

	require.Equal(t, safety.EmergencyStopped, task.Latch.State())
	require.Equal(t, event.EmergencyCode, task.Latch.LastCode())
	require.Equal(t, 2, int(offs))
	require.Len(t, statuses, 2)
	require.Equal(t, safety.EmergencyStopped, statuses[0].State)
	require.NotEmpty(t, statuses[0].Incident)
	require.Equal(t, statuses[0].Incident, task.Incident())
	require.Equal(t, uint64(1), statuses[1].Latch.Violations)
	require.Equal(t, uint64(200), statuses[1].Timestamp)
}

func TestResetRecords(t *testing.T) {
	testCases := []struct {
		name    string
		resetAt uint64
		state   safety.State
	}{
		{name: "too soon", resetAt: 2 * second, state: safety.EmergencyStopped},
		{name: "after quiescent period", resetAt: 4 * second, state: safety.Running},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := handoff.MustNew[event.Record](5)
			task := &Task{Queue: q, Latch: safety.NewLatch()}
			task.Latch.Flag.Trip(1 * second)
			runUntilDrained(t, task, q,
				event.Emergency(17, event.EmergencyCode, 1*second),
				event.Reset(27, tc.resetAt))
			require.Equal(t, tc.state, task.Latch.State())
			if tc.state == safety.Running {
				require.Empty(t, task.Incident())
				require.True(t, task.Latch.Permits())
			} else {
				require.NotEmpty(t, task.Incident())
				require.Equal(t, uint64(1), task.Latch.Stats().RejectedResets)
			}
		})
	}
}

func TestSamplesForwardedWithoutTransition(t *testing.T) {
	q := handoff.MustNew[event.Record](10)
	var all, fromFour []event.Record
	task := &Task{
		Queue: q,
		Latch: safety.NewLatch(),
		Samples: []SampleHandler{
			SampleHandlerFunc(func(rec event.Record) { all = append(all, rec) }),
			FromSource(4, SampleHandlerFunc(func(rec event.Record) { fromFour = append(fromFour, rec) })),
		},
	}
	runUntilDrained(t, task, q,
		event.Sample(4, 21, 40, 100),
		event.Sample(0, 2000, 3, 200),
		event.Sample(4, 22, 41, 300))
	require.Equal(t, safety.Running, task.Latch.State())
	require.Len(t, all, 3)
	require.Equal(t, []uint64{100, 200, 300}, []uint64{all[0].Timestamp, all[1].Timestamp, all[2].Timestamp})
	require.Len(t, fromFour, 2)
	require.Equal(t, uint64(3), task.Stats().Samples)
}

type orderedOff struct {
	calls *[]string
}

func (o orderedOff) Off() error {
	*o.calls = append(*o.calls, "off")
	return nil
}

func TestEmergencyHandledBeforeLaterSample(t *testing.T) {
	q := handoff.MustNew[event.Record](5)
	var calls []string
	task := &Task{
		Queue:    q,
		Latch:    safety.NewLatch(),
		Actuator: orderedOff{calls: &calls},
	}
	task.Samples = []SampleHandler{SampleHandlerFunc(func(rec event.Record) {
		calls = append(calls, "sample while "+task.Latch.State().String())
	})}
	runUntilDrained(t, task, q,
		event.Emergency(17, event.EmergencyCode, 100),
		event.Sample(4, 21, 40, 200))

	require.Equal(t, []string{"off", "sample while emergency-stopped"}, calls)
	require.Equal(t, safety.EmergencyStopped, task.Latch.State())
}

func TestUnknownAndPanicKeepRunning(t *testing.T) {
	q := handoff.MustNew[event.Record](10)
	task := &Task{
		Queue: q,
		Latch: safety.NewLatch(),
		Samples: []SampleHandler{SampleHandlerFunc(func(event.Record) {
			panic("bad handler")
		})},
	}
	runUntilDrained(t, task, q,
		event.Record{Kind: event.Kind(42)},
		event.Record{},
		event.Sample(4, 1, 2, 3),
		event.Emergency(17, event.EmergencyCode, 4))
	stats := task.Stats()
	require.Equal(t, uint64(4), stats.Processed)
	require.Equal(t, uint64(2), stats.Unknown)
	require.Equal(t, uint64(1), stats.Panics)
	require.Equal(t, safety.EmergencyStopped, task.Latch.State())
}

func TestRunStopsOnCancel(t *testing.T) {
	q := handoff.MustNew[event.Record](1)
	task := &Task{Queue: q, Latch: safety.NewLatch()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- task.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}
