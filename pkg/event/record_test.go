package event

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestRecordConstructors(t *testing.T) {
	testCases := []struct {
		name   string
		record Record
		kind   Kind
		code   int32
	}{
		{name: "emergency", record: Emergency(39, EmergencyCode, 100), kind: KindEmergency, code: EmergencyCode},
		{name: "sample", record: Sample(4, 25.5, 61, 200), kind: KindSample},
		{name: "reset", record: Reset(36, 300), kind: KindReset, code: ResetCode},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.kind, tc.record.Kind)
			require.Equal(t, tc.code, tc.record.Code)
			require.Equal(t, tc.name, tc.record.Kind.String())
		})
	}
}

func TestRecordSizeIsFixed(t *testing.T) {
	require.Equal(t, uintptr(24), unsafe.Sizeof(Record{}))
}

func TestMonotonicClock(t *testing.T) {
	c := NewMonotonicClock()
	t0 := c.Micros()
	require.NotZero(t, t0)
	time.Sleep(2 * time.Millisecond)
	require.True(t, c.Micros()-t0 >= 2000)
}
