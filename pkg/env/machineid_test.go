package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeviceIDStable(t *testing.T) {
	id := DeviceID()
	require.NotEmpty(t, id)
	require.Equal(t, id, DeviceID())
}
