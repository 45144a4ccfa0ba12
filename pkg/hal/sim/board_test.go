package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/safety.go/pkg/hal"
)

func TestWatchDeliversConfiguredEdges(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.Configure(39, hal.PullUp, hal.FallingEdge))
	edgeCh := make(chan hal.Level, 4)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Watch(ctx, 39, hal.HandleEdgeFunc(func(pin hal.Pin, level hal.Level) {
			edgeCh <- level
		}))
	}()

	require.NoError(t, b.Press(39))
	select {
	case level := <-edgeCh:
		require.Equal(t, hal.Low, level)
	case <-time.After(time.Second):
		t.Fatal("edge not delivered")
	}
	select {
	case <-edgeCh:
		t.Fatal("rising edge must not be delivered")
	case <-time.After(10 * time.Millisecond):
	}
	level, err := b.Read(39)
	require.NoError(t, err)
	require.Equal(t, hal.High, level)

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestUnconfiguredPins(t *testing.T) {
	b := NewBoard()
	require.Equal(t, hal.ErrNotConfigured, b.SetInput(1, hal.High))
	require.Equal(t, hal.ErrNotConfigured, b.Watch(context.Background(), 1, nil))
	_, err := b.ReadRaw(4)
	require.Equal(t, hal.ErrUnknownChannel, err)
}

func TestOutputsAndDuty(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.Write(13, hal.High))
	require.Equal(t, hal.High, b.Output(13))
	require.NoError(t, b.SetDuty(12, 5000))
	require.Equal(t, b.MaxDuty(), b.Duty(12))
}

func TestRandomWalkClamped(t *testing.T) {
	w := NewRandomWalk(25, 20, 30, 5, 1)
	for i := 0; i < 1000; i++ {
		v := w.Next()
		require.True(t, v >= 20 && v <= 30)
	}
}
