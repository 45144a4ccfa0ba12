package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeIDKinds(t *testing.T) {
	testCases := []struct {
		typeID uint32
		event  bool
	}{
		{SafetyStatusTypeID, true},
		{SensorSampleTypeID, true},
		{ResetCommandTypeID, false},
		{StopCommandTypeID, false},
	}
	for _, tc := range testCases {
		typed := &Typed{TypeId: tc.typeID}
		require.Equal(t, tc.event, typed.IsEvent())
		require.Equal(t, !tc.event, typed.IsCommand())
		require.Equal(t, GroupSafety, tc.typeID&TypeIDMaskGroup)
	}
}

func TestEncodeDecode(t *testing.T) {
	status := &SafetyStatus{
		Device:     "dev1",
		State:      "emergency-stopped",
		LastCode:   911,
		Incident:   "abc",
		Violations: 2,
		Timestamp:  1234,
	}
	data, err := Encode(status, 7)
	require.NoError(t, err)

	typed, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, SafetyStatusTypeID, typed.TypeId)
	require.Equal(t, uint64(7), typed.Sequence)

	msg, err := typed.Decode()
	require.NoError(t, err)
	require.Equal(t, status, msg)

	msg, err = Decode(mustEncode(t, &StopCommand{Code: 42}))
	require.NoError(t, err)
	require.Equal(t, int32(42), msg.(*StopCommand).Code)
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := (&Typed{TypeId: GroupCustom | 0x1234}).Decode()
	require.IsType(t, &UnknownTypeError{}, err)

	_, err = TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)
}

func mustEncode(t *testing.T, msg Message) []byte {
	data, err := Encode(msg, 0)
	require.NoError(t, err)
	return data
}
